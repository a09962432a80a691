package services

import (
	"context"

	"github.com/campuskit/courseqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	vector     []float32
	embedFn    func(text string) []float32
	embedErr   error
	batchErr   error
	batchShort bool
	calls      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedFn != nil {
		return m.embedFn(text), nil
	}
	return m.vector, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	n := len(texts)
	if m.batchShort && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		if m.embedFn != nil {
			out[i] = m.embedFn(texts[i])
		} else {
			out[i] = m.vector
		}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.vector) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	output   string
	chatErr  error
	calls    int
	lastMsgs []driven.ChatMessage
	lastOpts driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.lastMsgs = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.output, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockOCRService implements driven.OCRService for testing.
type mockOCRService struct {
	text      string
	lastImage []byte
	calls     int
}

func (m *mockOCRService) ExtractText(_ context.Context, image []byte) string {
	m.calls++
	m.lastImage = image
	return m.text
}

// mockLinkCache implements driven.LinkCache for testing.
type mockLinkCache struct {
	entries map[string]string
	puts    int
	flushed bool
}

func newMockLinkCache() *mockLinkCache {
	return &mockLinkCache{entries: make(map[string]string)}
}

func (m *mockLinkCache) Get(url string) (string, bool) {
	v, ok := m.entries[url]
	return v, ok
}

func (m *mockLinkCache) Put(url, expanded string) {
	m.puts++
	m.entries[url] = expanded
}

func (m *mockLinkCache) Flush() error {
	m.flushed = true
	return nil
}

// mockLinkResolver implements driven.LinkResolver for testing.
type mockLinkResolver struct {
	resolved map[string]string
	err      error
	calls    int
}

func (m *mockLinkResolver) Resolve(_ context.Context, url string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if v, ok := m.resolved[url]; ok {
		return v, nil
	}
	return url, nil
}
