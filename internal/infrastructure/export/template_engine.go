package export

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/invoice.html
var templateFS embed.FS

// TemplateEngine renders documents to HTML with html/template
type TemplateEngine struct {
	invoice *template.Template
}

// NewTemplateEngine parses the embedded invoice template
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to parse invoice template", err)
	}
	return &TemplateEngine{invoice: tmpl}, nil
}

// RenderHTML returns the invoice as a standalone HTML page
func (e *TemplateEngine) RenderHTML(doc *Document) (string, error) {
	if err := validateDocument(doc); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.invoice.Execute(&buf, newDocumentView(doc)); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}
