package httphandler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	httphandler "github.com/libreshift/libreshift/internal/adapter/driving/http"
)

func TestRenderMarkdown(t *testing.T) {
	out := httphandler.RenderMarkdown("# Report\n\n- `index.ts:1` — `new OpenAI(`\n")

	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "<li>")
	assert.Contains(t, out, "<code>")
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Empty(t, httphandler.RenderMarkdown(""))
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := httphandler.RenderMarkdown("hello\n\n<script>alert(1)</script>\n")

	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
}
