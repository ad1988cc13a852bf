package widgets

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"content-archives/archives"
	"content-archives/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRenderer struct {
	calls []archives.WidgetArgs
	err   error
}

func (s *stubRenderer) Widget(_ context.Context, args archives.WidgetArgs) (template.HTML, error) {
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, args)
	return template.HTML("[" + args.ContentType + "]"), nil
}

func TestRegistryRender(t *testing.T) {
	stub := &stubRenderer{}
	registry := NewRegistry(stub, map[string]config.Widget{
		"entries":   {Type: "monthly", Location: "aside_top", Priority: 10, Header: "Archives", Order: "asc"},
		"pages":     {Type: "yearly", Location: "aside_top", Priority: 1},
		"showcases": {Location: "aside_top", Priority: 10},
		"news":      {Location: "footer"},
	}, zap.NewNop())

	out, err := registry.Render(context.Background(), "aside_top")
	require.NoError(t, err)
	assert.Equal(t, template.HTML("[pages][entries][showcases]"), out)

	require.Len(t, stub.calls, 3)
	assert.Equal(t, archives.WidgetArgs{
		Type:        "monthly",
		ContentType: "entries",
		Order:       "asc",
		Header:      "Archives",
	}, stub.calls[1])

	t.Run("Empty location", func(t *testing.T) {
		out, err := registry.Render(context.Background(), "nowhere")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestRegistryRenderError(t *testing.T) {
	registry := NewRegistry(&stubRenderer{err: errors.New("boom")}, map[string]config.Widget{
		"entries": {Location: "aside_top"},
	}, zap.NewNop())

	_, err := registry.Render(context.Background(), "aside_top")
	require.Error(t, err)
}

func TestPlacements(t *testing.T) {
	registry := NewRegistry(&stubRenderer{}, map[string]config.Widget{
		"entries": {Location: "aside_top"},
		"pages":   {Location: "footer"},
	}, zap.NewNop())

	placements := registry.Placements("footer")
	require.Len(t, placements, 1)
	assert.Equal(t, "pages", placements[0].ContentType)
}
