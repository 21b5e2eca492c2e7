// Package book generates the closed-book keyring charm: a cover block with
// a rounded spine, a hanging loop, an embossed front label and a stack of
// page slabs, assembled into one printable solid.
package book

import (
	"fmt"

	"github.com/charmforge/bookcharm/assemble"
	"github.com/charmforge/bookcharm/form3"
	"github.com/charmforge/bookcharm/solid"
	"github.com/charmforge/bookcharm/text"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params holds every dimension of the charm in millimeters. The zero
// value is not usable, start from DefaultParams.
type Params struct {
	// Body block. Width runs along X away from the spine, Depth along Y,
	// Height along Z.
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Depth          float64 `yaml:"depth"`
	CoverThickness float64 `yaml:"coverThickness"`

	// Hanging loop ring above the spine.
	LoopOuterRadius float64 `yaml:"loopOuterRadius"`
	LoopInnerRadius float64 `yaml:"loopInnerRadius"`
	LoopThickness   float64 `yaml:"loopThickness"`

	// Front cover label.
	Text        string  `yaml:"text"`
	TextSize    float64 `yaml:"textSize"`
	TextExtrude float64 `yaml:"textExtrude"`
	// Engrave sinks the label into the cover instead of raising it.
	Engrave bool `yaml:"engrave"`

	// Visible page block along the fore edge.
	PageCount     int     `yaml:"pageCount"`
	PageDepth     float64 `yaml:"pageDepth"`
	PageThickness float64 `yaml:"pageThickness"`

	// Extraction quality and faceting.
	Cells         int `yaml:"cells"`
	SpineSegments int `yaml:"spineSegments"`
}

// DefaultParams returns the stock charm dimensions.
func DefaultParams() Params {
	return Params{
		Width:           30,
		Height:          38,
		Depth:           10,
		CoverThickness:  1.5,
		LoopOuterRadius: 4,
		LoopInnerRadius: 2.5,
		LoopThickness:   3,
		Text:            "I AM\nWHO\nI AM",
		TextSize:        5,
		TextExtrude:     0.8,
		PageCount:       12,
		PageDepth:       0.3,
		PageThickness:   0.15,
		Cells:           200,
		SpineSegments:   64,
	}
}

// Validate rejects parameter sets that cannot produce a charm, naming the
// first offending field.
func (p Params) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"width", p.Width > 0},
		{"height", p.Height > 0},
		{"depth", p.Depth > 0},
		{"coverThickness", p.CoverThickness > 0 && 2*p.CoverThickness < p.Depth},
		{"loopOuterRadius", p.LoopOuterRadius > 0},
		{"loopInnerRadius", p.LoopInnerRadius > 0 && p.LoopInnerRadius < p.LoopOuterRadius},
		{"loopThickness", p.LoopThickness > 0},
		{"textSize", p.TextSize > 0},
		{"textExtrude", p.TextExtrude > 0},
		{"pageCount", p.PageCount >= 0},
		{"pageDepth", p.PageCount == 0 || p.PageDepth > 0},
		{"pageThickness", p.PageCount == 0 || p.PageThickness > 0},
		{"cells", p.Cells >= 2},
		{"spineSegments", p.SpineSegments >= 3},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: book parameter %q", solid.ErrInvalidParameter, c.name)
		}
	}
	return nil
}

// Material is the surface appearance written next to the mesh.
type Material struct {
	// BaseColor is linear RGBA.
	BaseColor [4]float64 `yaml:"baseColor"`
	Roughness float64    `yaml:"roughness"`
	Specular  float64    `yaml:"specular"`
}

// NavyLeather is the stock dark-blue cover material.
func NavyLeather() Material {
	return Material{
		BaseColor: [4]float64{0.05, 0.08, 0.18, 1.0},
		Roughness: 0.7,
		Specular:  0.3,
	}
}

// Artifact is the finished output of a build.
type Artifact struct {
	// Name labels the artifact in output files and logs.
	Name string
	// Solid is the finished watertight mesh.
	Solid *solid.Solid
	// Material is the appearance to write alongside the mesh.
	Material Material
	// Steps records the outcome of every assembly step.
	Steps []assemble.StepStatus
}

// Build generates the charm from p. unitScale rescales the finished model
// uniformly about its centroid, 1 keeps millimeters. The returned artifact
// always has a non-empty solid when err is nil; individual assembly steps
// may still have been skipped and are reported in Steps.
func Build(p Params, unitScale float64, log *zap.Logger) (*Artifact, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	factory := form3.Factory{Cells: p.Cells}

	// Cover block. The spine sits on the Z axis, the body extends along
	// +X so the rounded spine caps the left edge of the block.
	body, err := factory.Box(
		r3.Vec{X: p.Width / 2},
		r3.Vec{X: p.Width, Y: p.Depth, Z: p.Height})
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	spine, err := factory.Cylinder(p.Depth/2, p.Height, p.SpineSegments, r3.Vec{})
	if err != nil {
		return nil, fmt.Errorf("spine: %w", err)
	}

	// The ring stands upright on the spine with its hole facing front, and
	// sinks 1mm into the cover top so the union fuses them.
	loop, err := factory.Annulus(p.LoopOuterRadius, p.LoopInnerRadius, p.LoopThickness,
		form3.AxisY, r3.Vec{Z: p.Height/2 + p.LoopOuterRadius - 1})
	if err != nil {
		return nil, fmt.Errorf("loop: %w", err)
	}

	label, err := p.label(factory.Cells)
	if err != nil {
		return nil, fmt.Errorf("label: %w", err)
	}

	pages, err := p.pages(factory)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}

	labelMode := solid.Union
	if p.Engrave {
		labelMode = solid.Difference
	}
	plan := []assemble.Step{
		{Operand: spine, Mode: solid.Union},
		{Operand: loop, Mode: solid.Union},
		{Operand: label, Mode: labelMode},
		{Operand: pages, Mode: solid.Union},
	}

	asm := assemble.Assembler{Cells: p.Cells, Log: log}
	charm, steps, err := asm.Assemble(body, plan)
	if err != nil {
		return nil, err
	}
	charm, err = solid.Finish(charm, unitScale)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:     "bookcharm",
		Solid:    charm,
		Material: NavyLeather(),
		Steps:    steps,
	}, nil
}

// label builds the front cover text. Raised text stands proud of the front
// face with a 0.01mm sink so the union fuses it to the cover; engraved
// text sits inside the cover with a 0.01mm protrusion so the difference
// carves a clean full-depth recess.
func (p Params) label(cells int) (*solid.Solid, error) {
	builder := text.Builder{Cells: cells}
	lines := splitLines(p.Text)
	// The front cover is the -Y face of the body block.
	faceY := -p.Depth/2 - p.TextExtrude/2 + 0.01
	if p.Engrave {
		faceY = -p.Depth/2 + p.TextExtrude/2 - 0.01
	}
	faceCenter := r3.Vec{X: p.Width / 2, Y: faceY}
	return builder.Label(lines, p.TextSize, p.TextExtrude, faceCenter, r3.Vec{Y: -1})
}

// pages builds the fore edge page slabs, evenly spread between the two
// covers and nudged just past the body so the union reads as distinct
// sheets.
func (p Params) pages(factory form3.Factory) (*solid.Solid, error) {
	slabs, err := factory.Slabs(p.PageCount,
		r3.Vec{X: p.PageDepth, Y: p.PageThickness, Z: p.Height * 0.9},
		form3.AxisY,
		-p.Depth/2+p.CoverThickness,
		p.Depth/2-p.CoverThickness)
	if err != nil {
		return nil, err
	}
	if slabs.IsEmpty() {
		return slabs, nil
	}
	return slabs.Translated(r3.Vec{X: p.Width + 0.01}), nil
}

// splitLines splits label text on escaped and literal newlines.
func splitLines(s string) []string {
	var lines []string
	cur := make([]rune, 0, len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' || (r == '\\' && i+1 < len(runes) && runes[i+1] == 'n') {
			lines = append(lines, string(cur))
			cur = cur[:0]
			if r == '\\' {
				i++
			}
			continue
		}
		cur = append(cur, r)
	}
	return append(lines, string(cur))
}
