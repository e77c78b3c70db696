package mvc

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
)

// Default template names.
const (
	DefaultLayout            = "layout/layout"
	DefaultNotFoundTemplate  = "404"
	DefaultExceptionTemplate = "error"
)

// ViewModel is a node of the view tree. Children are rendered first and
// captured into their parent's variables under CaptureTo.
type ViewModel struct {
	Template  string
	Variables map[string]any
	Children  []*ViewModel
	CaptureTo string
	Terminal  bool
}

func NewViewModel(vars map[string]any) *ViewModel {
	if vars == nil {
		vars = map[string]any{}
	}
	return &ViewModel{Variables: vars, CaptureTo: "content"}
}

func (m *ViewModel) AddChild(child *ViewModel) *ViewModel {
	m.Children = append(m.Children, child)
	return m
}

func (m *ViewModel) Variable(name string) any {
	return m.Variables[name]
}

func (m *ViewModel) SetVariable(name string, value any) *ViewModel {
	if m.Variables == nil {
		m.Variables = map[string]any{}
	}
	m.Variables[name] = value
	return m
}

var defaultTemplates = map[string]string{
	DefaultLayout: `<!DOCTYPE html>
<html>
<head><title>{{if .title}}{{.title}}{{else}}mvctest{{end}}</title></head>
<body>
{{with .content}}{{.}}{{end}}
</body>
</html>
`,
	DefaultNotFoundTemplate: `<h1>A 404 error occurred</h1>
<h2>{{.message}}</h2>
{{if .reason}}<p>{{.reason}}</p>{{end}}
`,
	DefaultExceptionTemplate: `<h1>An error occurred</h1>
<h2>{{.message}}</h2>
{{if .display_exceptions}}{{with .exception}}<pre>{{.}}</pre>{{end}}{{end}}
`,
}

// Renderer renders view trees with html/template. Templates come from inline
// sources or from files listed in the template map; inline sources win.
type Renderer struct {
	sources map[string]string
	files   map[string]string
	parsed  map[string]*template.Template
}

func NewRenderer(cfg config.ViewManagerConfig) *Renderer {
	r := &Renderer{
		sources: make(map[string]string),
		files:   make(map[string]string),
		parsed:  make(map[string]*template.Template),
	}
	for name, src := range defaultTemplates {
		r.sources[name] = src
	}
	for name, file := range cfg.TemplateMap {
		delete(r.sources, name)
		r.files[name] = file
	}
	for name, src := range cfg.Templates {
		r.sources[name] = src
	}
	return r
}

// Has reports whether a template can be resolved.
func (r *Renderer) Has(name string) bool {
	if _, ok := r.sources[name]; ok {
		return true
	}
	_, ok := r.files[name]
	return ok
}

// Render renders model and its children.
func (r *Renderer) Render(model *ViewModel) (string, error) {
	if model == nil {
		return "", nil
	}

	data := make(map[string]any, len(model.Variables)+len(model.Children))
	for k, v := range model.Variables {
		data[k] = v
	}
	for _, child := range model.Children {
		out, err := r.Render(child)
		if err != nil {
			return "", err
		}
		capture := child.CaptureTo
		if capture == "" {
			capture = "content"
		}
		if prev, ok := data[capture].(template.HTML); ok {
			out = string(prev) + out
		}
		data[capture] = template.HTML(out)
	}

	if model.Template == "" {
		if content, ok := data["content"].(template.HTML); ok {
			return string(content), nil
		}
		return "", nil
	}

	tmpl, err := r.lookup(model.Template)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", model.Template, err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if t, ok := r.parsed[name]; ok {
		return t, nil
	}

	src, ok := r.sources[name]
	if !ok {
		file, found := r.files[name]
		if !found {
			return nil, fmt.Errorf("%w: unable to render template %q; resolver could not resolve to a file", ErrTemplateNotFound, name)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		src = string(data)
	}

	t, err := template.New(name).Funcs(templateFuncs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	r.parsed[name] = t
	return t, nil
}

// templateFuncs is the sprig function set; seq and int are replaced so that
// they accept the strings request parameters arrive as.
var templateFuncs = func() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["seq"] = seq
	funcs["int"] = toInt
	return funcs
}()

// seq returns 0..n-1, so templates can repeat markup n times.
func seq(n any) []int {
	count := toInt(n)
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, i)
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}
