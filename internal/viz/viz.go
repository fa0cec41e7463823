// Package viz renders a simulation's particle population and one scalar
// field component to a raylib window. It is a read-only observer: a
// Renderer never mutates the grid, population or fields it is given, it
// only samples them once per frame.
package viz

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/spatial"
)

// Color is a renderer-agnostic RGBA color, kept free of any raylib
// dependency so the color-mapping logic below can be unit tested without
// an OpenGL context.
type Color struct {
	R, G, B, A uint8
}

// FieldSelection names which field array and component Draw heat-maps as
// a background overlay.
type FieldSelection struct {
	Field     byte // 'E', 'B' or 'J'
	Component int  // 0=X, 1=Y, 2=Z
}

// Renderer draws a simulation's state to a screen of fixed pixel size.
type Renderer struct {
	ScreenWidth, ScreenHeight int32
	Field                     FieldSelection
}

// New builds a Renderer for a window of the given pixel size.
func New(screenWidth, screenHeight int32, field FieldSelection) *Renderer {
	return &Renderer{ScreenWidth: screenWidth, ScreenHeight: screenHeight, Field: field}
}

// screenPos maps a particle's continuous domain position (in cell-size
// units) onto pixel coordinates, using the grid's first two axes; a
// third axis (if present) is dropped, since the renderer draws a single
// 2-D projection regardless of the simulation's dimensionality.
func screenPos(g *grid.Grid, screenWidth, screenHeight int32, cell grid.Cell, pos spatial.Vec3) (int32, int32) {
	nx := float64(g.N[0])
	ny := 1.0
	if g.Dims >= 2 {
		ny = float64(g.N[1])
	}

	fx := (float64(cell[0]) + pos.At(0)) / nx
	fy := 0.5
	if g.Dims >= 2 {
		fy = (float64(cell[1]) + pos.At(1)) / ny
	}

	x := int32(fx * float64(screenWidth))
	y := int32(fy * float64(screenHeight))
	return x, y
}

// speciesColor assigns a particle a color by the sign and magnitude of
// its charge: positive charges render warm (red-leaning), negative
// charges render cool (blue-leaning), neutral charges render grey.
func speciesColor(charge float64) Color {
	switch {
	case charge > 0:
		return Color{R: 220, G: 90, B: 60, A: 255}
	case charge < 0:
		return Color{R: 70, G: 120, B: 220, A: 255}
	default:
		return Color{R: 160, G: 160, B: 160, A: 255}
	}
}

// particleRadius sizes a particle's on-screen marker by the cube root of
// |charge|, matching the teacher's mass-to-volume scaling convention for
// a quantity that spans orders of magnitude.
func particleRadius(charge float64) float32 {
	const base = 2.0
	abs := charge
	if abs < 0 {
		abs = -abs
	}
	if abs == 0 {
		return base
	}
	return base * float32(math.Cbrt(abs))
}

// heatColor maps value, clamped to [min, max], onto a blue-white-red
// diverging color scale centered at the scale's midpoint.
func heatColor(value, min, max float64) Color {
	if max <= min {
		return Color{R: 255, G: 255, B: 255, A: 255}
	}
	t := (value - min) / (max - min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	if t < 0.5 {
		s := t / 0.5
		return Color{
			R: uint8(60 + s*195),
			G: uint8(60 + s*195),
			B: 255,
			A: 255,
		}
	}
	s := (t - 0.5) / 0.5
	return Color{
		R: 255,
		G: uint8(255 - s*195),
		B: uint8(255 - s*195),
		A: 255,
	}
}

// fieldRange returns the min and max sampled value of one component of a
// field.Set, used to scale heatColor for the frame being drawn.
func fieldRange(set *fields.Set, component int) (min, max float64) {
	if len(set.Values) == 0 {
		return 0, 0
	}
	min = set.Values[0].At(component)
	max = min
	for _, v := range set.Values {
		c := v.At(component)
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return min, max
}

func selectedSet(f *fields.Fields, field byte) *fields.Set {
	switch field {
	case 'B':
		return f.B
	case 'J':
		return f.J
	default:
		return f.E
	}
}

// particleMarker is one particle's drawable state for a frame, computed
// without any raylib dependency so it can be produced and checked in a
// test.
type particleMarker struct {
	X, Y   int32
	Radius float32
	Color  Color
}

// buildFrame computes every particle's on-screen marker and the field's
// value range for the current frame, the pure data Draw then hands to
// raylib.
func (r *Renderer) buildFrame(g *grid.Grid, policy grid.BoundaryPolicy, pop *particlekit.Population, f *fields.Fields) ([]particleMarker, float64, float64) {
	var markers []particleMarker
	pop.ForEach(func(_, _ int, species *particlekit.Species, p *particlekit.Particle) {
		x, y := screenPos(g, r.ScreenWidth, r.ScreenHeight, p.Cell, p.Pos)
		markers = append(markers, particleMarker{
			X: x, Y: y,
			Radius: particleRadius(species.Charge),
			Color:  speciesColor(species.Charge),
		})
	})

	min, max := fieldRange(selectedSet(f, r.Field.Field), r.Field.Component)
	return markers, min, max
}

// Open creates the raylib window Draw renders into. The caller must call
// Close when done, typically via defer, and must not call any other
// raylib window function itself.
func Open(title string, screenWidth, screenHeight int32) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
}

// Close tears down the raylib window opened by Open.
func Close() {
	rl.CloseWindow()
}

// ShouldClose reports whether the user has asked to close the window
// (clicked its close button or pressed its platform's close shortcut).
func ShouldClose() bool {
	return rl.WindowShouldClose()
}

func toRayColor(c Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Draw renders one frame: a heat-mapped overlay of the selected field
// component followed by every particle, sized and colored per
// particleRadius and speciesColor. It does not advance the simulation; it
// only reads g, policy, pop and f.
func (r *Renderer) Draw(g *grid.Grid, policy grid.BoundaryPolicy, pop *particlekit.Population, f *fields.Fields) {
	markers, min, max := r.buildFrame(g, policy, pop, f)

	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)
	r.drawFieldOverlay(g, f, min, max)

	for _, m := range markers {
		rl.DrawCircle(m.X, m.Y, m.Radius, toRayColor(m.Color))
	}
}

// drawFieldOverlay paints one rectangle per grid cell along the domain's
// first two axes, colored by the selected field component's value in
// that cell relative to the frame's sampled min/max.
func (r *Renderer) drawFieldOverlay(g *grid.Grid, f *fields.Fields, min, max float64) {
	set := selectedSet(f, r.Field.Field)

	nx := g.N[0]
	ny := 1
	if g.Dims >= 2 {
		ny = g.N[1]
	}

	cellW := float64(r.ScreenWidth) / float64(nx)
	cellH := float64(r.ScreenHeight) / float64(ny)

	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			cell := grid.Cell{ix, iy, 0}
			value := set.Values[g.ToIndex(cell)].At(r.Field.Component)
			color := heatColor(value, min, max)

			rl.DrawRectangle(
				int32(float64(ix)*cellW), int32(float64(iy)*cellH),
				int32(cellW)+1, int32(cellH)+1,
				toRayColor(color),
			)
		}
	}
}
