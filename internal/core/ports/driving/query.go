package driving

import (
	"context"

	"github.com/campuskit/courseqa/internal/core/domain"
)

// QueryService answers natural-language questions over the knowledge base.
type QueryService interface {
	// Ask embeds the question, retrieves the most similar chunks and
	// synthesizes a grounded, cited answer. imageBase64 may carry a
	// base64-encoded screenshot whose OCR text is added to the
	// grounding context; OCR failures degrade silently.
	//
	// When no chunk passes the similarity threshold the generative
	// model is not invoked and a fixed refusal answer is returned.
	Ask(ctx context.Context, question, imageBase64 string) (domain.Answer, error)
}
