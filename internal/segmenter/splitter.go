// Package segmenter splits heterogeneous source documents into bounded,
// possibly overlapping text units ready for embedding.
package segmenter

import (
	"fmt"
	"strings"
)

// DefaultWindowSize is the default number of characters per window.
const DefaultWindowSize = 750

// DefaultOverlap is the default number of overlapping characters
// between consecutive windows.
const DefaultOverlap = 70

// Splitter produces fixed-size sliding windows over a string.
type Splitter struct {
	windowSize int
	overlap    int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithWindowSize sets the window length in characters.
func WithWindowSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.windowSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options. The overlap must be
// smaller than the window so the window advances by a positive stride;
// anything else is a configuration error, not a value to clamp.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		windowSize: DefaultWindowSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.windowSize {
		return nil, fmt.Errorf("segmenter: overlap %d must be smaller than window size %d", s.overlap, s.windowSize)
	}

	return s, nil
}

// WindowSize returns the configured window length.
func (s *Splitter) WindowSize() int {
	return s.windowSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split slices text into windows of at most the configured size,
// consecutive windows overlapping by the configured amount. Each
// window is trimmed; windows that are empty after trimming are
// dropped rather than emitted.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	stride := s.windowSize - s.overlap
	estimated := (len(text) / stride) + 1
	windows := make([]string, 0, estimated)

	for start := 0; start < len(text); start += stride {
		end := start + s.windowSize
		if end > len(text) {
			end = len(text)
		}

		window := strings.TrimSpace(text[start:end])
		if window != "" {
			windows = append(windows, window)
		}
	}

	return windows
}
