package viz

import (
	"math"

	"github.com/san-kum/fraclocus/internal/calib"
	"github.com/san-kum/fraclocus/internal/locus"
)

// Scene holds the wireframe pieces of one analysis result, each normalized
// into the unit box so the camera setup is independent of the data ranges.
type Scene struct {
	Surface     *Wireframe
	CutoffPlane *Wireframe
	PlaneStress *Wireframe
	Points      *Wireframe
	Axes        *Wireframe
}

// maxStrides limits how many grid lines the surface wireframe carries; dense
// calibration grids (999x999) would otherwise swamp the canvas.
const maxStrides = 36

type mapper struct {
	etaMin, etaSpan     float64
	invarMin, invarSpan float64
	zMax                float64
}

func newMapper(g *locus.Grid) mapper {
	m := mapper{
		etaMin:   g.Eta[0][0],
		etaSpan:  g.Eta[0][g.Cols()-1] - g.Eta[0][0],
		invarMin: g.Invariant[0][0],
		invarSpan: g.Invariant[g.Rows()-1][0] -
			g.Invariant[0][0],
		zMax: 1e-9,
	}
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			if !g.Masked[i][j] && g.Strain[i][j] > m.zMax {
				m.zMax = g.Strain[i][j]
			}
		}
	}
	return m
}

// vec maps (eta, invariant, strain) into the unit scene box: eta and
// invariant to [-1, 1], strain to [0, 1.2].
func (m mapper) vec(eta, invar, strain float64) Vec3 {
	return Vec3{
		X: 2*(eta-m.etaMin)/m.etaSpan - 1,
		Y: 2*(invar-m.invarMin)/m.invarSpan - 1,
		Z: 1.2 * strain / m.zMax,
	}
}

// NewScene builds the viewer geometry from a masked surface grid, the plane
// stress curve and the measured specimens.
func NewScene(g *locus.Grid, planeStress locus.Curve, specimens []calib.Specimen) *Scene {
	m := newMapper(g)
	return &Scene{
		Surface:     surfaceWireframe(g, m),
		CutoffPlane: cutoffWireframe(g, m),
		PlaneStress: curveWireframe(planeStress, m),
		Points:      pointsWireframe(specimens, m),
		Axes:        AxesWireframe(2),
	}
}

// Composite flattens every scene layer into a single frame for offline
// rendering.
func (s *Scene) Composite() *Wireframe {
	w := NewWireframe()
	w.Append(s.Axes)
	w.Append(s.Surface)
	w.Append(s.CutoffPlane)
	w.Append(s.PlaneStress)
	w.Append(s.Points)
	return w
}

func stride(n int) int {
	s := n / maxStrides
	if s < 1 {
		s = 1
	}
	return s
}

// surfaceWireframe draws grid lines along both directions, broken wherever a
// cell is masked.
func surfaceWireframe(g *locus.Grid, m mapper) *Wireframe {
	w := NewWireframe()
	rows, cols := g.Rows(), g.Cols()
	rs, cs := stride(rows), stride(cols)

	for i := 0; i < rows; i += rs {
		for j := 0; j+1 < cols; j++ {
			if g.Masked[i][j] || g.Masked[i][j+1] {
				continue
			}
			w.AddEdge(
				m.vec(g.Eta[i][j], g.Invariant[i][j], g.Strain[i][j]),
				m.vec(g.Eta[i][j+1], g.Invariant[i][j+1], g.Strain[i][j+1]),
			)
		}
	}
	for j := 0; j < cols; j += cs {
		for i := 0; i+1 < rows; i++ {
			if g.Masked[i][j] || g.Masked[i+1][j] {
				continue
			}
			w.AddEdge(
				m.vec(g.Eta[i][j], g.Invariant[i][j], g.Strain[i][j]),
				m.vec(g.Eta[i+1][j], g.Invariant[i+1][j], g.Strain[i+1][j]),
			)
		}
	}
	return w
}

// cutoffWireframe draws the cut-off plane as a curtain: the cut-off curve in
// the base plane plus vertical risers.
func cutoffWireframe(g *locus.Grid, m mapper) *Wireframe {
	w := NewWireframe()
	rows := g.Rows()
	rs := stride(rows)

	etaMax := m.etaMin + m.etaSpan
	inRange := func(eta float64) bool { return eta >= m.etaMin && eta <= etaMax }

	prev := Vec3{}
	havePrev := false
	for i := 0; i < rows; i += rs {
		eta := g.Cutoff[i][0]
		invar := g.Invariant[i][0]
		if !inRange(eta) {
			havePrev = false
			continue
		}
		base := m.vec(eta, invar, 0)
		top := base.Add(Vec3{0, 0, 1.2})
		w.AddEdge(base, top)
		if havePrev {
			w.AddEdge(prev, base)
		}
		prev, havePrev = base, true
	}
	return w
}

func curveWireframe(c locus.Curve, m mapper) *Wireframe {
	w := NewWireframe()
	for i := 0; i+1 < len(c); i++ {
		if c[i].Masked || c[i+1].Masked {
			continue
		}
		if math.IsNaN(c[i].Strain) || math.IsNaN(c[i+1].Strain) {
			continue
		}
		w.AddEdge(
			m.vec(c[i].Eta, c[i].Invariant, c[i].Strain),
			m.vec(c[i+1].Eta, c[i+1].Invariant, c[i+1].Strain),
		)
	}
	return w
}

// pointsWireframe marks every specimen as a small cross so single braille
// dots are not lost on dense surfaces.
func pointsWireframe(specimens []calib.Specimen, m mapper) *Wireframe {
	w := NewWireframe()
	const r = 0.02
	for _, s := range specimens {
		p := m.vec(s.Triaxiality, s.Invariant, s.FractureStrain)
		w.AddEdge(p.Sub(Vec3{r, 0, 0}), p.Add(Vec3{r, 0, 0}))
		w.AddEdge(p.Sub(Vec3{0, r, 0}), p.Add(Vec3{0, r, 0}))
		w.AddEdge(p.Sub(Vec3{0, 0, r}), p.Add(Vec3{0, 0, r}))
	}
	return w
}
