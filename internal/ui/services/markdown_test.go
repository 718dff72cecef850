package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRenderer struct{}

func (failingRenderer) Render(string, int) (string, error) {
	return "", errors.New("boom")
}

func TestGlamourRenderer_RendersMarkdown(t *testing.T) {
	r := NewGlamourRendererWithStyle("notty")

	out, err := r.Render("# Title\n\nSome **bold** text.", 80)

	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestGlamourRenderer_ReusesRendererPerWidth(t *testing.T) {
	r := NewGlamourRendererWithStyle("notty")

	_, err := r.Render("a", 40)
	require.NoError(t, err)
	_, err = r.Render("b", 40)
	require.NoError(t, err)
	_, err = r.Render("c", 60)
	require.NoError(t, err)

	assert.Len(t, r.renderers, 2)
}

func TestRenderMarkdown_FallsBackToRaw(t *testing.T) {
	assert.Equal(t, "**raw**", RenderMarkdown("**raw**", 80, nil))
	assert.Equal(t, "**raw**", RenderMarkdown("**raw**", 80, failingRenderer{}))
}
