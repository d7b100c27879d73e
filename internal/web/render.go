package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/mailtag/internal/classify"
	"github.com/hpungsan/mailtag/internal/dataset"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/ops"
	"github.com/hpungsan/mailtag/internal/taxonomy"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "classify", "metrics", "patterns"
}

// ClassifyPageData is the template data for the classifier page.
type ClassifyPageData struct {
	PageData
	Customers []taxonomy.Customer
	Customer  taxonomy.Customer
	Subject   string
	Body      string
	Mode      string
	Modes     []classify.Mode
	Sample    *dataset.Email
	Result    *ops.ClassifyOutput
	Error     string
	Threshold float64
}

// MetricsPageData is the template data for the metrics dashboard.
type MetricsPageData struct {
	PageData
	Metrics *ops.MetricsOutput
}

// PatternsPageData is the template data for the patterns page.
type PatternsPageData struct {
	PageData
	Patterns     []ops.TagPatterns
	AntiPatterns []taxonomy.AntiPattern
	Guardrails   template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       *slog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log *slog.Logger) *Renderer {
	funcMap := template.FuncMap{
		"percent":         formatPercent,
		"formatTime":      formatTime,
		"confidenceClass": confidenceClass,
		"join":            joinTags,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"classify": "classify.html",
		"metrics":  "metrics.html",
		"patterns": "patterns.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// page builds the common page fields.
func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var mErr *errors.MailtagError
	if !stderrors.As(err, &mErr) {
		mErr = errors.NewInternal(err)
	}
	if mErr.Code == errors.ErrInternal {
		r.log.Error("request failed", "path", req.URL.Path, "error", err, "details", mErr.Details)
	}

	status := mErr.Status
	message := mErr.Message

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(mErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// wantsJSON reports whether the client asked for JSON.
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// rulesMarkdown renders the classifier's rule list as a markdown table.
func rulesMarkdown(c *classify.Classifier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Keyword rules (%s mode)\n\n", c.Mode())
	b.WriteString("| # | Tag | Keywords | Confidence |\n")
	b.WriteString("|---|-----|----------|------------|\n")
	for i, rule := range c.Rules() {
		kws := make([]string, len(rule.Keywords))
		for j, k := range rule.Keywords {
			kws[j] = "`" + k + "`"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, rule.Tag, strings.Join(kws, ", "), formatPercent(rule.Confidence))
	}
	return b.String()
}

// formatPercent formats a fraction as a percentage with one decimal.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// formatTime formats a timestamp as "2006-01-02 15:04" UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// confidenceClass maps a confidence or accuracy to a CSS class.
func confidenceClass(f float64) string {
	if f > classify.ConfidenceThreshold {
		return "high"
	}
	return "low"
}

func joinTags(tags []taxonomy.Tag) string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}
