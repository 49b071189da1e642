package export

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/san-kum/flo/internal/view"
)

// FrameToSVG renders a view frame as a standalone SVG fragment. Elements
// follow document order: links, nodes, legend.
func FrameToSVG(f view.Frame) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">
`, num(f.Width), num(f.Height)))

	for i, l := range f.Lines {
		sb.WriteString(fmt.Sprintf(`<line class="%s" data-index="%d" x1="%s" y1="%s" x2="%s" y2="%s" style="stroke-width: %s"></line>
`, l.Class, i, num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), num(l.StrokeWidth)))
	}

	for i, c := range f.Circles {
		sb.WriteString(fmt.Sprintf(`<circle class="%s" data-index="%d" r="%s" cx="%s" cy="%s"><title>%s</title></circle>
`, c.Class(), i, num(c.R), num(c.CX), num(c.CY), html.EscapeString(c.Title)))
	}

	for _, e := range f.Legend {
		sb.WriteString(fmt.Sprintf(`<g class="%s"><rect x="%s" y="%s" height="%s" width="%s" class="%s"></rect><text x="%s" y="%s" dy="%s">%s</text></g>
`, view.LegendClass,
			num(e.Swatch.X), num(e.Swatch.Y), num(e.Swatch.Height), num(e.Swatch.Width), e.Swatch.Class,
			num(e.Text.X), num(e.Text.Y), e.Text.DY, html.EscapeString(e.Text.Content)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// FrameToSVGDocument prefixes the fragment with an XML declaration and an
// inline stylesheet so the file renders on its own.
func FrameToSVGDocument(f view.Frame) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	svg := FrameToSVG(f)
	open := strings.Index(svg, ">\n")
	sb.WriteString(svg[:open+2])
	sb.WriteString("<style>\n" + Stylesheet + "</style>\n")
	sb.WriteString(svg[open+2:])
	return sb.String()
}

// num formats coordinates compactly: integers without a fraction, others to
// two decimals.
func num(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
