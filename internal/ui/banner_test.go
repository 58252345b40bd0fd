package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomworks/orgdeck/internal/ui/components"
)

func TestSplitLinesSplitsOnNewlines(t *testing.T) {
	lines := splitLines("a\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestRenderBannerIncludesSubtitleAndNoOSC(t *testing.T) {
	out := RenderBanner()
	assert.NotContains(t, out, "\x1b]")

	clean := components.SanitizeText(out)
	assert.Contains(t, clean, "Organization Directory Console")
	assert.Contains(t, clean, "Bulk Attribute Assignment")
	assert.True(t, strings.Contains(clean, "─"))
}
