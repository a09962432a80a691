package segmenter

import "strings"

// frontMatterDelimiter opens and closes the optional metadata block at
// the top of a course document.
const frontMatterDelimiter = "---"

// canonicalURLField is the front-matter key carrying the page's
// canonical location.
const canonicalURLField = "original_url:"

// CoursePiece is one windowed segment of a course document together
// with the section it was cut from.
type CoursePiece struct {
	// SectionTitle is the nearest preceding heading, "" before the
	// first heading.
	SectionTitle string

	// Text is the trimmed window content.
	Text string
}

// SegmentCourse splits a markdown-like course document into windowed
// pieces. A leading front-matter block is scanned for the canonical
// URL and excluded from chunking. Each heading line opens a new
// section; the text accumulated under a section (including text before
// the first heading) is windowed independently, and the final buffer
// is flushed the same way.
func (s *Splitter) SegmentCourse(content string) (url string, pieces []CoursePiece) {
	lines := strings.Split(content, "\n")
	url, lines = parseFrontMatter(lines)

	sectionTitle := ""
	var buffer strings.Builder

	flush := func() {
		for _, window := range s.Split(buffer.String()) {
			pieces = append(pieces, CoursePiece{SectionTitle: sectionTitle, Text: window})
		}
		buffer.Reset()
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			flush()
			sectionTitle = strings.Trim(strings.TrimSpace(line), "# ")
			continue
		}
		buffer.WriteString(line)
		buffer.WriteString("\n")
	}
	flush()

	return url, pieces
}

// parseFrontMatter strips a leading front-matter block and returns the
// canonical URL found in it, if any, plus the remaining body lines.
// Documents without a front-matter opener are returned untouched.
func parseFrontMatter(lines []string) (string, []string) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return "", lines
	}

	url := ""
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, canonicalURLField) {
			url = strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, canonicalURLField)), `"`)
			continue
		}
		if trimmed == frontMatterDelimiter {
			return url, lines[i+1:]
		}
	}

	// No closing delimiter: treat the document as having no front
	// matter and chunk it whole.
	return url, lines
}
