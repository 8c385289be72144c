package mapview

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"slices"

	"github.com/couchcryptid/hotspot-map-service/internal/domain"
)

// SVGSurface renders the map as a standalone SVG document.
type SVGSurface struct {
	projection Projection
	markers    map[int]Marker
	view       Affine
}

// NewSVGSurface creates an empty surface for the given projection.
func NewSVGSurface(p Projection) *SVGSurface {
	return &SVGSurface{
		projection: p,
		markers:    make(map[int]Marker),
		view:       Identity,
	}
}

func (s *SVGSurface) Project(c domain.Coordinates) Point { return s.projection.Project(c) }

func (s *SVGSurface) AddMarker(m Marker) { s.markers[m.ID] = m }

func (s *SVGSurface) RemoveMarker(id int) { delete(s.markers, id) }

func (s *SVGSurface) SetView(t Affine) { s.view = t }

// View returns the current transform.
func (s *SVGSurface) View() Affine { return s.view }

// Markers returns the drawn markers ordered by ID, which is also draw order.
func (s *SVGSurface) Markers() []Marker {
	out := make([]Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Marker) int { return a.ID - b.ID })
	return out
}

// Render writes the SVG document. An empty map gets an explicit
// "No hotspots found" notice.
func (s *SVGSurface) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	width, height := s.projection.Width, s.projection.Height

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		width, height, width, height)
	bw.WriteString(`<defs><pattern id="grid" width="40" height="40" patternUnits="userSpaceOnUse">` +
		`<path d="M 40 0 L 0 0 0 40" fill="none" stroke="#cbd5e1" stroke-width="0.5" opacity="0.3"/></pattern></defs>` + "\n")
	fmt.Fprintf(bw, `<g transform="translate(%g %g) scale(%g)">`+"\n", s.view.TX, s.view.TY, s.view.Scale)
	fmt.Fprintf(bw, `<rect width="%g" height="%g" fill="url(#grid)"/>`+"\n", width, height)

	for _, m := range s.Markers() {
		writeMarker(bw, m)
	}
	bw.WriteString("</g>\n")

	if len(s.markers) == 0 {
		fmt.Fprintf(bw, `<text x="%g" y="%g" text-anchor="middle" fill="#64748b">No hotspots found</text>`+"\n",
			width/2, height/2)
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeMarker(w *bufio.Writer, m Marker) {
	x, y, r := m.Position.X, m.Position.Y, m.Radius()
	fmt.Fprintf(w, `<g class="marker" data-id="%d" data-severity="%s">`, m.ID, m.Severity)
	if m.Severity == domain.SeverityCritical {
		fmt.Fprintf(w, `<circle cx="%g" cy="%g" r="%g" fill="%s" opacity="0.2"/>`, x, y, r+8, m.Color)
	}
	fmt.Fprintf(w, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="white" stroke-width="2"/>`, x, y, r, m.Color)
	fmt.Fprintf(w, `<circle cx="%g" cy="%g" r="%g" fill="white" opacity="0.8"/>`, x, y, r/3)
	if m.Selected {
		fmt.Fprintf(w, `<rect x="%g" y="%g" width="120" height="30" rx="4" fill="white" stroke="%s" stroke-width="2"/>`,
			x-60, y-40, m.Color)
		fmt.Fprintf(w, `<text x="%g" y="%g" text-anchor="middle">%s</text>`, x, y-20, html.EscapeString(m.Label))
	}
	w.WriteString("</g>\n")
}
