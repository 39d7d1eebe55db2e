// Package report renders branded report documents. A fixed, immutable
// mapping from template type to renderer is built at package init; every
// renderer is a pure function of the workspace branding snapshot, the
// report metadata and the caller-supplied payload.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

// RenderFunc produces the full HTML document for one report layout.
type RenderFunc func(ws models.WorkspaceBranding, meta models.ReportMetadata, data map[string]interface{}) (string, error)

// Per-layout accent colors used when the workspace defines none.
var defaultColors = map[models.ReportTemplateType]string{
	models.ReportTemplateTranscript:  "#1f3a5f",
	models.ReportTemplateCertificate: "#7a5c1e",
	models.ReportTemplateReceipt:     "#14532d",
	models.ReportTemplateAttendance:  "#1f3a5f",
	models.ReportTemplateGeneric:     "#333333",
}

var renderers map[models.ReportTemplateType]RenderFunc

func init() {
	renderers = map[models.ReportTemplateType]RenderFunc{
		models.ReportTemplateTranscript:  layoutRenderer(models.ReportTemplateTranscript, transcriptLayout, buildTranscriptView),
		models.ReportTemplateCertificate: layoutRenderer(models.ReportTemplateCertificate, certificateLayout, buildCertificateView),
		models.ReportTemplateReceipt:     layoutRenderer(models.ReportTemplateReceipt, receiptLayout, buildReceiptView),
		models.ReportTemplateAttendance:  layoutRenderer(models.ReportTemplateAttendance, attendanceLayout, buildAttendanceView),
		models.ReportTemplateGeneric:     layoutRenderer(models.ReportTemplateGeneric, genericLayout, buildGenericView),
	}
}

// Select returns the renderer for the given template type. Unknown types
// fall back to the generic layout.
func Select(t models.ReportTemplateType) RenderFunc {
	if fn, ok := renderers[t]; ok {
		return fn
	}
	return renderers[models.ReportTemplateGeneric]
}

// Render is a convenience wrapper around Select.
func Render(t models.ReportTemplateType, ws models.WorkspaceBranding, meta models.ReportMetadata, data map[string]interface{}) (string, error) {
	return Select(t)(ws, meta, data)
}

// frame carries the branding and verification chrome shared by every layout.
type frame struct {
	Brand brandView
	Meta  metaView
}

type brandView struct {
	Name    string
	Type    string
	Address string
	Motto   string
	Logo    template.URL
	Stamp   template.URL
	Color   string
}

type metaView struct {
	Reference string
	Generated string
	QR        template.URL
}

func newFrame(t models.ReportTemplateType, ws models.WorkspaceBranding, meta models.ReportMetadata) frame {
	color := ws.PrimaryColor
	if color == "" {
		color = defaultColors[t]
	}
	return frame{
		Brand: brandView{
			Name:    ws.Name,
			Type:    ws.Type,
			Address: ws.Address,
			Motto:   ws.Motto,
			Logo:    template.URL(ws.LogoURL),
			Stamp:   template.URL(ws.StampURL),
			Color:   color,
		},
		Meta: metaView{
			Reference: meta.ReferenceNumber,
			Generated: meta.GeneratedAt.Format("02 Jan 2006"),
			QR:        template.URL(meta.QRCodeDataURL),
		},
	}
}

type layoutView[V any] struct {
	Brand brandView
	Meta  metaView
	Data  V
}

func layoutRenderer[V any](t models.ReportTemplateType, layout *template.Template, build func(data map[string]interface{}) V) RenderFunc {
	return func(ws models.WorkspaceBranding, meta models.ReportMetadata, data map[string]interface{}) (string, error) {
		fr := newFrame(t, ws, meta)
		view := layoutView[V]{Brand: fr.Brand, Meta: fr.Meta, Data: build(data)}
		body := &bytes.Buffer{}
		if err := layout.Execute(body, view); err != nil {
			return "", fmt.Errorf("render %s layout: %w", strings.ToLower(string(t)), err)
		}
		return document(body.String()), nil
	}
}

func mustLayout(name, markup string) *template.Template {
	return template.Must(template.New(name).Parse(chromeSnippets + markup))
}

// document wraps a rendered body fragment in the shared HTML shell. The
// shell is identical for all layouts; only the fragment varies.
func document(body string) string {
	b := &strings.Builder{}
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<style>\n")
	b.WriteString(printStylesheet)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

const printStylesheet = `* { margin: 0; padding: 0; box-sizing: border-box; border: 0; }
body { font-family: Georgia, 'Times New Roman', serif; color: #1a1a1a; padding: 32pt; }
h1 { font-size: 24pt; margin-bottom: 8pt; }
h2 { font-size: 20pt; margin-bottom: 6pt; }
h3 { font-size: 16pt; margin-bottom: 4pt; }
p { margin-bottom: 6pt; }
table { width: 100%; border-collapse: collapse; margin: 12pt 0; }
th, td { border: 1pt solid #444; padding: 4pt 6pt; text-align: left; }
thead th { background: #e8e8e8; }
img { max-width: 100%; }
.doc-header { display: flex; align-items: center; gap: 12pt; margin-bottom: 16pt; }
.doc-header img.logo { max-height: 64pt; width: auto; }
.doc-footer { display: flex; justify-content: space-between; align-items: flex-end; margin-top: 28pt; }
.doc-footer img.qr { width: 96pt; height: 96pt; }
.reference { font-size: 9pt; color: #555; }
.muted { color: #666; font-size: 10pt; }
.signature-line { border-top: 1pt solid #444; width: 160pt; margin-top: 40pt; padding-top: 4pt; }
@media print { body { margin: 0; } }
`

// fieldString resolves the first present candidate key to its string form.
// Candidates are evaluated strictly in priority order.
func fieldString(row map[string]interface{}, candidates ...string) string {
	for _, key := range candidates {
		if v, ok := row[key]; ok && v != nil {
			return stringify(v)
		}
	}
	return ""
}

// fieldStringOr is fieldString with a fallback for absent values.
func fieldStringOr(row map[string]interface{}, fallback string, candidates ...string) string {
	if s := fieldString(row, candidates...); s != "" {
		return s
	}
	return fallback
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func rowsOf(data map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func mapOf(data map[string]interface{}, key string) map[string]interface{} {
	m, _ := data[key].(map[string]interface{})
	return m
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatAmount renders a numeric amount with thousands grouping, e.g.
// "USD 1,234.50".
func formatAmount(v interface{}, currency string) string {
	var amount float64
	switch t := v.(type) {
	case float64:
		amount = t
	case int:
		amount = float64(t)
	case int64:
		amount = float64(t)
	case string:
		if _, err := fmt.Sscanf(t, "%f", &amount); err != nil {
			return t
		}
	default:
		return ""
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}

	out := fmt.Sprintf("%s.%02d", grouped.String(), cents)
	if negative {
		out = "-" + out
	}
	if currency != "" {
		out = currency + " " + out
	}
	return out
}

// prettyDate reformats ISO dates for display, passing through values it
// cannot parse.
func prettyDate(raw string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2 January 2006")
		}
	}
	return raw
}
