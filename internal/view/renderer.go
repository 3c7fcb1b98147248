package view

import (
	"bytes"
	"embed"
	"html/template"

	"fbconsole/internal/models"
)

const HTMLContentType = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFS embed.FS

// PageView is everything the console page needs for one render.
type PageView struct {
	Title      string
	Rows       []Row
	Pagination Pagination
	PageIndex  int
	RowCount   int
	Error      string
	Stale      bool
}

type LegacyView struct {
	Title string
	Rows  []LegacyRow
	Error string
}

func NewPageView(page *models.Page, pageSize int, links LinkResolver) PageView {
	rows := BuildRows(page, links)
	return PageView{
		Title:      "User Feedback",
		Rows:       rows,
		Pagination: BuildPagination(page, pageSize),
		PageIndex:  page.CurrentPageIndex,
		RowCount:   len(rows),
	}
}

type RendererInterface interface {
	RenderPage(view PageView) ([]byte, error)
	RenderLegacy(view LegacyView) ([]byte, error)
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (RendererInterface, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tpl}, nil
}

func (r *Renderer) RenderPage(view PageView) ([]byte, error) {
	return r.execute("console.html", view)
}

func (r *Renderer) RenderLegacy(view LegacyView) ([]byte, error) {
	return r.execute("legacy.html", view)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buffer bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buffer, name, data); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
