// Package htmlpdf converts rendered HTML documents into paginated A4 PDF
// bytes using the wkhtmltopdf engine. Each conversion spins up its own
// renderer process and releases it on every path; a timeout and a
// concurrency cap bound the damage a hung or busy renderer can do.
package htmlpdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 4
)

// Options tune converter behaviour.
type Options struct {
	// BinaryPath overrides wkhtmltopdf binary discovery when set.
	BinaryPath string
	// Timeout bounds a single HTML to PDF conversion.
	Timeout time.Duration
	// MaxConcurrent caps simultaneous renderer processes.
	MaxConcurrent int
}

// Converter turns HTML documents into PDF bytes.
type Converter struct {
	timeout time.Duration
	sem     chan struct{}
}

// NewConverter builds a converter with bounded concurrency.
func NewConverter(opts Options) *Converter {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.BinaryPath != "" {
		wkhtmltopdf.SetPath(opts.BinaryPath)
	}
	return &Converter{
		timeout: opts.Timeout,
		sem:     make(chan struct{}, opts.MaxConcurrent),
	}
}

// Convert renders the HTML document into an A4 PDF. An empty result is
// treated as a conversion failure, never returned as a valid document.
func (c *Converter) Convert(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("htmlpdf: empty html document")
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, fmt.Errorf("htmlpdf: waiting for renderer slot: %w", ctx.Err())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("htmlpdf: init renderer: %w", err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.DisableExternalLinks.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("htmlpdf: convert: %w", err)
	}

	out := pdfg.Bytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("htmlpdf: renderer produced empty document")
	}
	return out, nil
}
