// Package snapshot renders a formation arrangement as a shareable SVG image.
package snapshot

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/harukit/pitchbook/model"
)

// Generate renders the given roster on a pitch background and returns the SVG
// document as a string. Player positions are offsets from the pitch center, so
// they are translated to canvas coordinates here. The output is deterministic
// for a given roster and options.
func Generate(players []*model.Player, opts *Options) string {
	// default options
	if opts == nil {
		opts = DefaultOptions()
	}

	cx := float64(opts.Width) / 2
	cy := float64(opts.Height) / 2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", opts.Width, opts.Height))
	sb.WriteString(fmt.Sprintf(`  <style>.name{font-family:%s;font-size:%dpx;fill:%s;text-anchor:middle}.title{font-family:%s;font-size:%dpx;fill:%s;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.NameColor, opts.FontFamily, opts.FontSize+4, opts.LineColor))

	writePitch(&sb, opts)

	// render title if a formation name is provided
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="title">%s</text>`+"\n",
			12, opts.FontSize+12, escapeText(opts.Title)))
	}

	// draw player markers in roster order (index order is z-order)
	for i, p := range players {
		x := cx + p.Position.Width
		y := cy + p.Position.Height
		r := float64(opts.MarkerRadius)

		if len(p.Photo) > 0 {
			// embed the photo clipped to a circle
			clipID := fmt.Sprintf("clip-%d", i)
			mime := http.DetectContentType(p.Photo)
			encoded := base64.StdEncoding.EncodeToString(p.Photo)
			sb.WriteString(fmt.Sprintf(`  <clipPath id="%s"><circle cx="%.1f" cy="%.1f" r="%.1f"/></clipPath>`+"\n",
				clipID, x, y, r))
			sb.WriteString(fmt.Sprintf(`  <image x="%.1f" y="%.1f" width="%.1f" height="%.1f" clip-path="url(#%s)" href="data:%s;base64,%s"/>`+"\n",
				x-r, y-r, 2*r, 2*r, clipID, mime, encoded))
		} else {
			sb.WriteString(fmt.Sprintf(`  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
				x, y, r, opts.MarkerColor, opts.LineColor))
		}

		sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" class="name">%s</text>`+"\n",
			x, y+r+float64(opts.FontSize)+2, escapeText(p.Name)))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// writePitch draws the field background: outline, halfway line, center circle
// and both penalty areas.
func writePitch(sb *strings.Builder, opts *Options) {
	w := float64(opts.Width)
	h := float64(opts.Height)
	margin := 15.0

	sb.WriteString(fmt.Sprintf(`  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		opts.Width, opts.Height, opts.PitchColor))
	sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		margin, margin, w-2*margin, h-2*margin, opts.LineColor))

	// halfway line and center circle
	sb.WriteString(fmt.Sprintf(`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
		margin, h/2, w-margin, h/2, opts.LineColor))
	sb.WriteString(fmt.Sprintf(`  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		w/2, h/2, 60.0, opts.LineColor))

	// penalty areas
	boxW := w * 0.6
	boxH := 90.0
	sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		(w-boxW)/2, margin, boxW, boxH, opts.LineColor))
	sb.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		(w-boxW)/2, h-margin-boxH, boxW, boxH, opts.LineColor))
}

// escapeText escapes characters with special meaning in XML text nodes.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
