package pipeline

import (
	"strings"
	"unicode"
)

// Kind tells a renderer how to treat recovered content.
type Kind string

const (
	// KindMarkup is a document the renderer may interpret as HTML.
	KindMarkup Kind = "markup"
	// KindText is plain text, shown as-is.
	KindText Kind = "text"
)

// Content is the classified result of a completed run.
type Content struct {
	Kind Kind
	Text string
}

// Classify labels text by sniffing its start: after leading whitespace and
// case-folding, a doctype declaration or an <html> root means markup,
// anything else plain text. Only the head of the text is examined.
func Classify(text string) Kind {
	head := strings.TrimLeftFunc(text, unicode.IsSpace)
	if len(head) > 16 {
		head = head[:16]
	}
	head = strings.ToLower(head)
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		return KindMarkup
	}
	return KindText
}
