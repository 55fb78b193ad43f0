package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylorsolutions/sealdrop/pkg/pipeline"
)

func TestPlain(t *testing.T) {
	var buf strings.Builder
	err := Plain(&buf, pipeline.Content{Kind: pipeline.KindText, Text: "plain result text"})
	require.NoError(t, err)
	assert.Equal(t, "plain result text\n", buf.String())

	buf.Reset()
	err = Plain(&buf, pipeline.Content{Kind: pipeline.KindText, Text: "already terminated\n"})
	require.NoError(t, err)
	assert.Equal(t, "already terminated\n", buf.String())
}

func TestPlainPassesMarkupThrough(t *testing.T) {
	var buf strings.Builder
	err := Plain(&buf, pipeline.Content{Kind: pipeline.KindMarkup, Text: "<html><p>raw</p></html>"})
	require.NoError(t, err)
	assert.Equal(t, "<html><p>raw</p></html>\n", buf.String())
}

func TestBody(t *testing.T) {
	text := pipeline.Content{Kind: pipeline.KindText, Text: "keep <brackets> alone"}
	assert.Equal(t, "keep <brackets> alone", Body(text))

	markup := pipeline.Content{Kind: pipeline.KindMarkup, Text: "<html><body><p>Result: PASS</p></body></html>"}
	assert.Equal(t, "Result: PASS", Body(markup))
}

func TestFlatten(t *testing.T) {
	tests := map[string]struct {
		markup string
		text   string
	}{
		"paragraphs": {
			markup: "<html><body><p>first</p><p>second</p></body></html>",
			text:   "first\nsecond",
		},
		"line breaks": {
			markup: "one<br>two<br/>three",
			text:   "one\ntwo\nthree",
		},
		"entities": {
			markup: "<p>Fish &amp; Chips &lt;fresh&gt;</p>",
			text:   "Fish & Chips <fresh>",
		},
		"script dropped": {
			markup: "<p>visible</p><script>alert('hidden')</script><p>also visible</p>",
			text:   "visible\nalso visible",
		},
		"style dropped": {
			markup: "<style>p { color: red; }</style><p>styled</p>",
			text:   "styled",
		},
		"headings and lists": {
			markup: "<h1>Title</h1><ul><li>one</li><li>two</li></ul>",
			text:   "Title\none\ntwo",
		},
		"blank runs collapse": {
			markup: "<div>a</div><div></div><div></div><div></div><div>b</div>",
			text:   "a\n\nb",
		},
		"no markup": {
			markup: "just text",
			text:   "just text",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.text, Flatten(tc.markup))
		})
	}
}
