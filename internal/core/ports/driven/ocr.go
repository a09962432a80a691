package driven

import "context"

// OCRService extracts text from images attached to queries.
//
// OCR is strictly best-effort: implementations return "" on any
// failure and never surface an error to the caller. A query with an
// unreadable image degrades to a text-only query.
type OCRService interface {
	// ExtractText returns the text recognised in the image bytes,
	// trimmed, or "" when nothing could be extracted.
	ExtractText(ctx context.Context, image []byte) string
}
