// Package render presents decrypted content in the terminal, either as a
// plain write to stdout or as a scrollable full screen view.
package render

import (
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/saylorsolutions/sealdrop/pkg/pipeline"
)

var (
	droppedBlocks = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)\s*>`)
	lineBreaks    = regexp.MustCompile(`(?i)<(?:br|/p|/div|/h[1-6]|/li|/tr|/ul|/ol|/table|/blockquote)[^>]*>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Plain writes the decrypted text as-is, terminated with a newline if the
// text doesn't already end with one.
func Plain(w io.Writer, content pipeline.Content) error {
	text := content.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// Screen shows the content in a scrollable full screen view until the user
// presses q, Escape, or Ctrl-C. Markup is flattened to terminal text first.
func Screen(title string, content pipeline.Content) error {
	app := tview.NewApplication()
	view := tview.NewTextView().
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true).
		SetText(Body(content))
	view.SetBorder(true).SetTitle(" " + title + " ")
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Key() == tcell.KeyCtrlC, event.Rune() == 'q':
			app.Stop()
			return nil
		}
		return event
	})
	return app.SetRoot(view, true).SetFocus(view).Run()
}

// Body returns the text a viewer should present for the content, flattening
// markup and passing plain text through untouched.
func Body(content pipeline.Content) string {
	if content.Kind == pipeline.KindMarkup {
		return Flatten(content.Text)
	}
	return content.Text
}

// Flatten reduces a markup document to readable terminal text. Script and
// style blocks are dropped, block-closing tags become line breaks, remaining
// tags are stripped, and entities are decoded. This is a display fallback,
// not a browser: layout beyond line breaks is not preserved.
func Flatten(markup string) string {
	text := droppedBlocks.ReplaceAllString(markup, "")
	text = lineBreaks.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
