package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/campuskit/courseqa/internal/core/domain"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/logger"
)

// RefusalAnswer is the fixed sentence the model is instructed to emit
// when the supplied context does not answer the question.
const RefusalAnswer = "I don't have enough information to answer this question."

// NoContentAnswer is returned without invoking the model when no chunk
// survives retrieval.
const NoContentAnswer = "I couldn't find relevant content."

// maxContextChars caps how much of each chunk is rendered into the
// prompt.
const maxContextChars = 1500

// synthesisTemperature keeps generation near-deterministic.
const synthesisTemperature = 0.1

// sourcesMarker separates the answer portion from the citation list in
// the model's output.
const sourcesMarker = "Sources:"

// systemInstruction reinforces context-only, cited answers.
const systemInstruction = "You are a helpful assistant that provides accurate answers " +
	"based only on the provided context. Always include sources in your response with exact URLs."

// answerPromptTemplate expects: refusal sentence, optional OCR block,
// rendered context, question.
const answerPromptTemplate = `
You are not a conversational assistant. You are a compliance checker.

DO NOT answer based on general knowledge or what the user wants to hear.

ONLY answer based on the course materials provided below. Do NOT infer or inject anything. If the material does not clearly answer the question, reply with:

"%s"

---

%sContext:
%s

---

User Question:
%s

Based ONLY on the context above, what does the course recommend?

Format your response like this:

1. [Factual answer only]

Sources:
1. URL: [exact URL], Text: [short quote from that page]
2. URL: [exact URL], Text: [short quote from that page]
`

// citationPattern matches one "URL: <token>, Text: <rest>" source line.
var citationPattern = regexp.MustCompile(`URL:\s*(\S+),\s*Text:\s*(.*)`)

// Synthesizer turns ranked chunks into a grounded, cited answer.
type Synthesizer struct {
	llm driven.LLMService
}

// NewSynthesizer creates an answer synthesizer backed by the given model.
func NewSynthesizer(llm driven.LLMService) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Synthesize builds the grounding prompt, invokes the generative model
// and parses its structured output. When results is empty the model is
// never invoked and the fixed no-content answer is returned. A failed
// model call propagates to the caller untouched so transports can
// surface the provider's status.
func (s *Synthesizer) Synthesize(
	ctx context.Context, question string, results []domain.QueryResult, extractedText string,
) (domain.Answer, error) {
	if len(results) == 0 {
		return domain.Answer{Text: NoContentAnswer, Citations: []domain.Citation{}}, nil
	}

	prompt := buildPrompt(question, results, extractedText)
	logger.Debug("Prompt length: %d chars, %d context chunks", len(prompt), len(results))

	output, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{Temperature: synthesisTemperature})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesize answer: %w", err)
	}

	return parseAnswer(output), nil
}

// buildPrompt renders the full grounding prompt.
func buildPrompt(question string, results []domain.QueryResult, extractedText string) string {
	contextLines := make([]string, len(results))
	for i, result := range results {
		text := result.Chunk.Text
		if len(text) > maxContextChars {
			text = text[:maxContextChars]
		}
		contextLines[i] = fmt.Sprintf("%s (URL: %s): %s",
			originLabel(result.Chunk.Origin), result.Chunk.URL, text)
	}

	ocrBlock := ""
	if extractedText != "" {
		ocrBlock = fmt.Sprintf("OCR-extracted Text:\n%s\n\n", extractedText)
	}

	return fmt.Sprintf(answerPromptTemplate,
		RefusalAnswer, ocrBlock, strings.Join(contextLines, "\n\n"), question)
}

// parseAnswer splits the model output on the Sources: marker and
// extracts well-formed citation lines in order. Malformed lines are
// silently dropped; a missing marker yields an answer with no
// citations.
func parseAnswer(output string) domain.Answer {
	answerPart, sourcesPart, _ := strings.Cut(output, sourcesMarker)

	citations := []domain.Citation{}
	for _, match := range citationPattern.FindAllStringSubmatch(sourcesPart, -1) {
		citations = append(citations, domain.Citation{
			URL:  strings.TrimSpace(match[1]),
			Text: strings.TrimSpace(match[2]),
		})
	}

	return domain.Answer{
		Text:      strings.TrimSpace(answerPart),
		Citations: citations,
	}
}

// originLabel renders an origin the way the prompt capitalises it.
func originLabel(origin domain.Origin) string {
	switch origin {
	case domain.OriginForum:
		return "Forum"
	case domain.OriginCourse:
		return "Course"
	default:
		return string(origin)
	}
}
