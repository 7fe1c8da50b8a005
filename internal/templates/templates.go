// Package templates renders previews and statements of work as markdown.
//
// Templates are embedded in the binary, so the server needs no files on
// disk. Callers depend on the Renderer interface.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
)

//go:embed files/*.md.tmpl
var files embed.FS

// Template names.
const (
	Preview = "preview.md.tmpl"
	SOW     = "sow.md.tmpl"
	SOWList = "sow_list.md.tmpl"
)

// Renderer turns a named template and its data into markdown.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders the templates compiled into the binary.
type EmbedRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &EmbedRenderer{tmpl: tmpl}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"money": Money,
	"hours": Hours,
	"num":   formatNumber,
	"inc":   func(i int) int { return i + 1 },
}

// Money formats whole dollars with thousands separators: 18000 → "$18,000".
func Money(v float64) string {
	v = math.Round(v)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}

// Hours formats an hour range: "30–60 hrs", or "40 hrs" when both ends
// are equal.
func Hours(low, high float64) string {
	if low == high {
		return formatNumber(low) + " hrs"
	}
	return formatNumber(low) + "–" + formatNumber(high) + " hrs"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
