package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/courseqa/internal/core/domain"
)

func queryResult(origin domain.Origin, url, text string) domain.QueryResult {
	return domain.QueryResult{
		Chunk: domain.Chunk{
			ID:     "id-" + url,
			Origin: origin,
			Text:   text,
			URL:    url,
		},
		Similarity: 0.9,
	}
}

func TestSynthesizeEmptyResultsSkipsModel(t *testing.T) {
	llm := &mockLLMService{output: "should never be used"}
	syn := NewSynthesizer(llm)

	answer, err := syn.Synthesize(context.Background(), "anything", nil, "")
	require.NoError(t, err)

	assert.Equal(t, NoContentAnswer, answer.Text)
	assert.Empty(t, answer.Citations)
	assert.NotNil(t, answer.Citations)
	assert.Equal(t, 0, llm.calls)
}

func TestSynthesizeBuildsGroundedPrompt(t *testing.T) {
	llm := &mockLLMService{output: "1. Use Python 3.\n"}
	syn := NewSynthesizer(llm)

	results := []domain.QueryResult{
		queryResult(domain.OriginForum, "https://forum.example/t/42/7", "use python 3"),
		queryResult(domain.OriginCourse, "https://course.example/setup", "install python"),
	}

	_, err := syn.Synthesize(context.Background(), "Which Python version?", results, "")
	require.NoError(t, err)

	require.Len(t, llm.lastMsgs, 2)
	assert.Equal(t, "system", llm.lastMsgs[0].Role)
	assert.Equal(t, systemInstruction, llm.lastMsgs[0].Content)
	assert.Equal(t, "user", llm.lastMsgs[1].Role)

	prompt := llm.lastMsgs[1].Content
	assert.Contains(t, prompt, "Forum (URL: https://forum.example/t/42/7): use python 3")
	assert.Contains(t, prompt, "Course (URL: https://course.example/setup): install python")
	assert.Contains(t, prompt, "Which Python version?")
	assert.Contains(t, prompt, RefusalAnswer)
	assert.NotContains(t, prompt, "OCR-extracted Text:")

	assert.InDelta(t, synthesisTemperature, llm.lastOpts.Temperature, 1e-9)
}

func TestSynthesizeIncludesExtractedText(t *testing.T) {
	llm := &mockLLMService{output: "answer"}
	syn := NewSynthesizer(llm)

	results := []domain.QueryResult{
		queryResult(domain.OriginForum, "https://forum.example/t/1/1", "content"),
	}

	_, err := syn.Synthesize(context.Background(), "q", results, "error: module not found")
	require.NoError(t, err)

	prompt := llm.lastMsgs[1].Content
	assert.Contains(t, prompt, "OCR-extracted Text:\nerror: module not found")
}

func TestSynthesizeTruncatesLongChunks(t *testing.T) {
	llm := &mockLLMService{output: "answer"}
	syn := NewSynthesizer(llm)

	long := strings.Repeat("a", maxContextChars+500)
	results := []domain.QueryResult{
		queryResult(domain.OriginCourse, "https://course.example/page", long),
	}

	_, err := syn.Synthesize(context.Background(), "q", results, "")
	require.NoError(t, err)

	prompt := llm.lastMsgs[1].Content
	assert.Contains(t, prompt, strings.Repeat("a", maxContextChars))
	assert.NotContains(t, prompt, strings.Repeat("a", maxContextChars+1))
}

func TestSynthesizePropagatesModelFailure(t *testing.T) {
	llm := &mockLLMService{chatErr: errors.New("rate limited")}
	syn := NewSynthesizer(llm)

	results := []domain.QueryResult{
		queryResult(domain.OriginForum, "https://forum.example/t/1/1", "content"),
	}

	_, err := syn.Synthesize(context.Background(), "q", results, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantText  string
		wantLinks []domain.Citation
	}{
		{
			name: "answer with sources",
			output: "1. Use gpt-3.5-turbo.\n\nSources:\n" +
				"1. URL: https://forum.example/t/42/7, Text: use the turbo model\n" +
				"2. URL: https://course.example/models, Text: model guidance\n",
			wantText: "1. Use gpt-3.5-turbo.",
			wantLinks: []domain.Citation{
				{URL: "https://forum.example/t/42/7", Text: "use the turbo model"},
				{URL: "https://course.example/models", Text: "model guidance"},
			},
		},
		{
			name:      "no sources marker",
			output:    "Just an answer with no citations.",
			wantText:  "Just an answer with no citations.",
			wantLinks: []domain.Citation{},
		},
		{
			name:      "marker with malformed lines",
			output:    "Answer.\n\nSources:\nnot a citation line\nURL without text\n",
			wantText:  "Answer.",
			wantLinks: []domain.Citation{},
		},
		{
			name:     "malformed lines among valid ones",
			output:   "Answer.\n\nSources:\ngarbage\nURL: https://a.example/1, Text: quote\n",
			wantText: "Answer.",
			wantLinks: []domain.Citation{
				{URL: "https://a.example/1", Text: "quote"},
			},
		},
		{
			name:      "refusal",
			output:    RefusalAnswer,
			wantText:  RefusalAnswer,
			wantLinks: []domain.Citation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := parseAnswer(tt.output)
			assert.Equal(t, tt.wantText, answer.Text)
			assert.Equal(t, tt.wantLinks, answer.Citations)
		})
	}
}
