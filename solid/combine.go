package solid

import (
	"fmt"

	"github.com/charmforge/bookcharm/internal/d3"
	"github.com/charmforge/bookcharm/render"
	"github.com/charmforge/bookcharm/sdf"
)

// Combine folds operand into base with the given boolean mode and returns
// the combined solid, re-extracted at the given cell count. The inputs are
// not modified: on error the caller's base is untouched, which is what
// makes the assembler's rollback-and-skip trivial.
//
// Failure modes, all reported as ErrBooleanOpFailed: an operand without a
// backing field, non-finite field bounds, an operand whose mesh violates
// the manifold invariant, an extraction that comes back empty or torn.
func Combine(base, operand *Solid, mode Mode, cells int) (*Solid, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: nil base", ErrInvalidParameter)
	}
	if mode != Union && mode != Difference {
		return nil, fmt.Errorf("%w: boolean mode %d", ErrInvalidParameter, mode)
	}
	if operand == nil || operand.IsEmpty() {
		// Empty operands are defined as no-ops, not errors.
		return base, nil
	}
	if operand.sdf == nil {
		return nil, fmt.Errorf("%w: operand %q has no distance field", ErrBooleanOpFailed, operand.name)
	}
	// A non-manifold operand is undefined behavior for the boolean
	// operator: flag it instead of folding it in.
	if err := operand.mesh.Manifold(); err != nil {
		return nil, fmt.Errorf("%w: operand %q: %v", ErrBooleanOpFailed, operand.name, err)
	}
	if !d3.Box(operand.sdf.Bounds()).IsFinite() {
		return nil, fmt.Errorf("%w: operand %q has non-finite bounds", ErrBooleanOpFailed, operand.name)
	}

	var field sdf.SDF3
	switch mode {
	case Union:
		if base.IsEmpty() || base.sdf == nil {
			field = operand.sdf
		} else {
			field = sdf.Union3D(base.sdf, operand.sdf)
		}
	case Difference:
		if base.IsEmpty() || base.sdf == nil {
			// Nothing to subtract from.
			return base, nil
		}
		field = sdf.Difference3D(base.sdf, operand.sdf)
	}

	tris, err := render.RenderAll(render.NewOctreeRenderer(field, cells))
	if err != nil {
		return nil, fmt.Errorf("%w: %s of %q: %v", ErrBooleanOpFailed, mode, operand.name, err)
	}
	mesh := render.IndexTriangles(tris)
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("%w: %s of %q produced no faces", ErrBooleanOpFailed, mode, operand.name)
	}
	if err := mesh.Manifold(); err != nil {
		return nil, fmt.Errorf("%w: %s of %q produced a torn surface: %v", ErrBooleanOpFailed, mode, operand.name, err)
	}
	return &Solid{name: base.name, sdf: field, mesh: mesh}, nil
}
