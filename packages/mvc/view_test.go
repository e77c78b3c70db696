package mvc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Nested(t *testing.T) {
	r := NewRenderer(config.ViewManagerConfig{
		Templates: map[string]string{
			"layout/layout": `<main>{{.content}}</main><aside>{{.sidebar}}</aside>`,
			"app/index":     `<p class="item">{{.name}}</p>`,
			"app/side":      `<nav>side</nav>`,
		},
	})

	root := &ViewModel{Template: "layout/layout", CaptureTo: "content"}
	root.AddChild(&ViewModel{Template: "app/index", Variables: map[string]any{"name": "<b>x</b>"}, CaptureTo: "content"})
	root.AddChild(&ViewModel{Template: "app/index", Variables: map[string]any{"name": "y"}, CaptureTo: "content"})
	root.AddChild(&ViewModel{Template: "app/side", CaptureTo: "sidebar"})

	out, err := r.Render(root)
	require.NoError(t, err)
	assert.Equal(t, `<main><p class="item">&lt;b&gt;x&lt;/b&gt;</p><p class="item">y</p></main><aside><nav>side</nav></aside>`, out)
}

func TestRenderer_TemplateMapFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "404.html")
	require.NoError(t, os.WriteFile(file, []byte(`missing: {{.reason}}`), 0644))

	r := NewRenderer(config.ViewManagerConfig{TemplateMap: map[string]string{"404": file}})
	assert.True(t, r.Has("404"))

	out, err := r.Render(&ViewModel{Template: "404", Variables: map[string]any{"reason": "none"}})
	require.NoError(t, err)
	assert.Equal(t, "missing: none", out)
}

func TestRenderer_Errors(t *testing.T) {
	r := NewRenderer(config.ViewManagerConfig{Templates: map[string]string{"bad": `{{ .x`}})

	_, err := r.Render(&ViewModel{Template: "nowhere"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = r.Render(&ViewModel{Template: "bad"})
	assert.ErrorContains(t, err, "parsing template bad")
}

func TestRenderer_DefaultLayout(t *testing.T) {
	r := NewRenderer(config.ViewManagerConfig{})
	out, err := r.Render(&ViewModel{Template: DefaultLayout})
	require.NoError(t, err)
	assert.Contains(t, out, "<title>mvctest</title>")
	assert.NotContains(t, out, "no value")
}

func TestSeq(t *testing.T) {
	assert.Len(t, seq("3"), 3)
	assert.Len(t, seq(2), 2)
	assert.Empty(t, seq("nope"))
	assert.Empty(t, seq(nil))
}

func TestRenderer_TemplateFuncs(t *testing.T) {
	r := NewRenderer(config.ViewManagerConfig{
		Templates: map[string]string{
			"app/funcs": `{{upper .name}} {{default "guest" .user}} {{len (seq .count)}} {{.tags | join ","}}`,
		},
	})

	out, err := r.Render(&ViewModel{Template: "app/funcs", Variables: map[string]any{
		"name":  "baz",
		"count": "2",
		"tags":  []string{"a", "b"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "BAZ guest 2 a,b", out)
}
