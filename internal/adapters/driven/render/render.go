// Package render turns an assembled newsletter into HTML or Markdown and
// optionally writes it to disk.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/newsletter.html.tmpl"))
	mdTemplate   = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/newsletter.md.tmpl"))
	opinionTmpl  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/opinion.md.tmpl"))
)

// Ensure renderers implement the interface.
var (
	_ driven.Renderer = (*HTMLRenderer)(nil)
	_ driven.Renderer = (*MarkdownRenderer)(nil)
	_ driven.Renderer = (*FileRenderer)(nil)

	_ driven.OpinionRenderer = (*MarkdownRenderer)(nil)
	_ driven.OpinionRenderer = (*FileRenderer)(nil)
)

// HTMLRenderer renders the newsletter as a standalone HTML page.
type HTMLRenderer struct{}

// Render executes the HTML template.
func (HTMLRenderer) Render(_ context.Context, n domain.Newsletter) (*domain.RenderedDocument, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, newView(n)); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return &domain.RenderedDocument{Format: domain.OutputFormatHTML.String(), Title: n.Title, Content: buf.Bytes()}, nil
}

// MarkdownRenderer renders the newsletter as Markdown.
type MarkdownRenderer struct{}

// Render executes the Markdown template.
func (MarkdownRenderer) Render(_ context.Context, n domain.Newsletter) (*domain.RenderedDocument, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, newView(n)); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &domain.RenderedDocument{Format: domain.OutputFormatMarkdown.String(), Title: n.Title, Content: buf.Bytes()}, nil
}

// RenderOpinion executes the legal opinion template. Opinions are always
// Markdown.
func (MarkdownRenderer) RenderOpinion(_ context.Context, op domain.LegalOpinion) (*domain.RenderedDocument, error) {
	var buf bytes.Buffer
	if err := opinionTmpl.Execute(&buf, newOpinionView(op)); err != nil {
		return nil, fmt.Errorf("render opinion: %w", err)
	}
	return &domain.RenderedDocument{Format: domain.OutputFormatMarkdown.String(), Title: OpinionTitle, Content: buf.Bytes()}, nil
}

// New returns the renderer for format.
func New(format domain.OutputFormat) (driven.Renderer, error) {
	switch format {
	case domain.OutputFormatHTML, "":
		return HTMLRenderer{}, nil
	case domain.OutputFormatMarkdown:
		return MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: output format %q", domain.ErrInvalidInput, format)
	}
}

// FileRenderer writes each rendered document into a directory.
type FileRenderer struct {
	next   driven.Renderer
	dir    string
	now    func() time.Time
	suffix func() string
}

// NewFileRenderer wraps next so that documents are saved under dir.
func NewFileRenderer(next driven.Renderer, dir string) *FileRenderer {
	return &FileRenderer{next: next, dir: dir, now: time.Now, suffix: shortID}
}

// Render renders with the wrapped renderer and saves the result as
// newsletter-YYYYMMDD-HHMMSS-<id>.<ext>.
func (r *FileRenderer) Render(ctx context.Context, n domain.Newsletter) (*domain.RenderedDocument, error) {
	doc, err := r.next.Render(ctx, n)
	if err != nil {
		return nil, err
	}
	return r.save("newsletter", doc)
}

// RenderOpinion renders a legal opinion as Markdown and saves it as
// opinion-YYYYMMDD-HHMMSS-<id>.md.
func (r *FileRenderer) RenderOpinion(ctx context.Context, op domain.LegalOpinion) (*domain.RenderedDocument, error) {
	doc, err := MarkdownRenderer{}.RenderOpinion(ctx, op)
	if err != nil {
		return nil, err
	}
	return r.save("opinion", doc)
}

// save writes doc under a name that stays unique within the same second.
func (r *FileRenderer) save(kind string, doc *domain.RenderedDocument) (*domain.RenderedDocument, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s%s", kind, r.now().Format("20060102-150405"), r.suffix(), domain.OutputFormat(doc.Format).Extension())
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", kind, err)
	}
	logger.Info("render: %s written to %s", kind, path)
	doc.Path = path
	return doc, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Preview renders Markdown for the terminal at the given width.
func Preview(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create preview renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
