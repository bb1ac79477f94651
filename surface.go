package tide

import "math"

// HeightAt evaluates the ripple wave height at world point (x, z). This is the
// CPU form of what the water shader computes from the packed slots: rings trail
// behind an expanding front, fading with distance behind the front and with
// distance from the center.
func (f *RippleField) HeightAt(x, z float64) float64 {
	c := &f.config
	var sum float64
	for i := range f.ripples {
		r := &f.ripples[i]
		if r.Intensity <= 0 {
			continue
		}
		dx := x - r.Center.X
		dz := z - r.Center.Y
		dist := math.Sqrt(dx*dx + dz*dz)
		behind := r.Age*c.Speed - dist
		if behind <= 0 {
			continue
		}
		osc := math.Sin(behind * c.RingFreq)
		trail := math.Exp(-behind * c.TrailDecay)
		fall := math.Exp(-dist * c.DistFalloff)
		sum += osc * trail * fall * r.Intensity
	}
	return sum
}

// DisplacementAt returns the vertical vertex offset at (x, z).
func (f *RippleField) DisplacementAt(x, z float64) float64 {
	return f.HeightAt(x, z) * f.config.Displace
}

// SurfaceGrid is a lattice of vertices over the water plane whose heights are
// refreshed from a RippleField. Vertices = (cols+1) * (rows+1).
type SurfaceGrid struct {
	cols    int
	rows    int
	restPos []Vec2 // x, z of each vertex
	heights []float64
}

// NewSurfaceGrid creates a grid covering a width×depth area with its top-left
// corner at origin. cols and rows are clamped to at least 1.
func NewSurfaceGrid(origin Vec2, width, depth float64, cols, rows int) *SurfaceGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	vcols := cols + 1
	vrows := rows + 1
	cellW := width / float64(cols)
	cellD := depth / float64(rows)

	g := &SurfaceGrid{
		cols:    cols,
		rows:    rows,
		restPos: make([]Vec2, vcols*vrows),
		heights: make([]float64, vcols*vrows),
	}
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			g.restPos[r*vcols+c] = Vec2{
				X: origin.X + float64(c)*cellW,
				Y: origin.Y + float64(r)*cellD,
			}
		}
	}
	return g
}

// Cols returns the number of grid columns.
func (g *SurfaceGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *SurfaceGrid) Rows() int { return g.rows }

// Rest returns the rest position of vertex (col, row).
func (g *SurfaceGrid) Rest(col, row int) Vec2 {
	return g.restPos[row*(g.cols+1)+col]
}

// Height returns the displacement last computed for vertex (col, row).
func (g *SurfaceGrid) Height(col, row int) float64 {
	return g.heights[row*(g.cols+1)+col]
}

// Apply samples f's displacement at every vertex.
func (g *SurfaceGrid) Apply(f *RippleField) {
	for i, p := range g.restPos {
		g.heights[i] = f.DisplacementAt(p.X, p.Y)
	}
}

// Reset flattens every vertex.
func (g *SurfaceGrid) Reset() {
	clear(g.heights)
}
