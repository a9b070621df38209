package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	p := NewParser()

	out := p.HTML("## Audit\n\nWe **review** your stack.")
	require.Contains(t, out, `<h2 id="audit">Audit</h2>`)
	require.Contains(t, out, "<strong>review</strong>")

	require.Empty(t, p.HTML(""))
}

func TestHTML_DropsRawHTML(t *testing.T) {
	out := NewParser().HTML("hello <script>alert(1)</script>")
	require.NotContains(t, out, "<script>")
}

func TestHTML_HardWraps(t *testing.T) {
	out := NewParser().HTML("line one\nline two")
	require.Contains(t, out, "<br />")
}
