// Package view renders the console's server-side pages.
package view

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/go-faster/errors"

	"console/internal/form"
	"console/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *session.User
	Nav     []NavLink
	Error   string
	Notice  string
	Content any
}

type Row struct {
	Cells      []string
	EditHref   string
	DeleteHref string
}

// Pager links the pages of a list.
type Pager struct {
	Page     int
	Pages    int
	Total    int
	PrevHref string
	NextHref string
}

type List struct {
	Heading  string
	NewHref  string
	NewLabel string
	Headers  []string
	Rows     []Row
	Actions  bool
	Empty    string
	Pager    Pager
}

// Columns is the table width, the Actions column included.
func (l List) Columns() int {
	if l.Actions {
		return len(l.Headers) + 1
	}
	return len(l.Headers)
}

type Form struct {
	Heading     string
	Action      string
	SubmitLabel string
	CancelHref  string
	Inputs      []form.Input
	Hidden      []form.Input
	Notices     []string
}

type Confirm struct {
	Heading    string
	Message    string
	Action     string
	CancelHref string
}

type Message struct {
	Heading   string
	Message   string
	BackHref  string
	BackLabel string
}

type Card struct {
	Title string
	Value string
	Href  string
}

type Dashboard struct {
	Cards []Card
}

type Users struct {
	List List
	Form *Form
}

type Login struct {
	Username string
}

// Renderer holds one parsed template set per page. It implements gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "list templates")
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile || file == partialsFile {
			continue
		}
		t, err := template.New(path.Base(layoutFile)).ParseFS(templateFS, layoutFile, partialsFile, file)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

var missingPage = template.Must(template.New("layout").Parse(`{{define "layout"}}missing page{{end}}`))

func (r *Renderer) Instance(name string, data any) render.Render {
	if !r.Has(name) {
		return render.HTML{Template: missingPage, Name: "layout", Data: data}
	}
	return render.HTML{Template: r.pages[name], Name: "layout", Data: data}
}
