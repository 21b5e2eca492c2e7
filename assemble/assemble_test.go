package assemble_test

import (
	"errors"
	"math"
	"testing"

	"github.com/charmforge/bookcharm/assemble"
	"github.com/charmforge/bookcharm/sdf"
	"github.com/charmforge/bookcharm/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

const cells = 80

var asm = assemble.Assembler{Cells: cells}

func boxSolid(t testing.TB, name string, center, extents r3.Vec) *solid.Solid {
	t.Helper()
	field := sdf.Transform3D(sdf.Box(extents), sdf.Translate3D(center))
	s, err := solid.New(name, field, cells)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAssembleNilBase(t *testing.T) {
	_, _, err := asm.Assemble(nil, nil)
	if !errors.Is(err, solid.ErrInvalidParameter) {
		t.Errorf("nil base: got %v", err)
	}
}

func TestAssembleEmptyPlan(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	got, statuses, err := asm.Assemble(base, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("empty plan should return the base")
	}
	if len(statuses) != 0 {
		t.Errorf("empty plan produced %d statuses", len(statuses))
	}
}

func TestAssembleOrder(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 4})
	bump := boxSolid(t, "bump", r3.Vec{X: 3}, r3.Vec{X: 2, Y: 2, Z: 2})
	cutter := boxSolid(t, "cutter", r3.Vec{X: 3}, r3.Vec{X: 4, Y: 4, Z: 4})

	// Union then difference: the cutter removes the bump again.
	got, statuses, err := asm.Assemble(base, []assemble.Step{
		{Operand: bump, Mode: solid.Union},
		{Operand: cutter, Mode: solid.Difference},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, st := range statuses {
		if st.Outcome != assemble.Succeeded {
			t.Fatalf("step %d (%s) did not succeed: %v", i, st.Operand, st.Err)
		}
	}
	// base 4x4x4 with x>1 removed leaves a 3x4x4 block.
	want := 3.0 * 4 * 4
	if vol := got.Volume(); math.Abs(vol-want)/want > 0.05 {
		t.Errorf("assembled volume %g, want about %g", vol, want)
	}
}

func TestAssembleEmptyOperandIsNoOp(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	got, statuses, err := asm.Assemble(base, []assemble.Step{
		{Operand: solid.Empty("nothing"), Mode: solid.Union},
		{Operand: nil, Mode: solid.Difference},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("no-op plan should return the base unchanged")
	}
	for i, st := range statuses {
		if st.Outcome != assemble.Succeeded || st.Err != nil {
			t.Errorf("no-op step %d reported %v, %v", i, st.Outcome, st.Err)
		}
	}
}

func TestAssembleSkipsFailedStep(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 4})
	good := boxSolid(t, "good", r3.Vec{X: 3}, r3.Vec{X: 2, Y: 2, Z: 2})
	// A mesh-only operand cannot participate in field booleans.
	bad := solid.FromMesh("bad", good.Mesh())
	tail := boxSolid(t, "tail", r3.Vec{Z: 3}, r3.Vec{X: 2, Y: 2, Z: 2})

	got, statuses, err := asm.Assemble(base, []assemble.Step{
		{Operand: good, Mode: solid.Union},
		{Operand: bad, Mode: solid.Union},
		{Operand: tail, Mode: solid.Union},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3", len(statuses))
	}
	if statuses[0].Outcome != assemble.Succeeded {
		t.Errorf("step 0: %v, %v", statuses[0].Outcome, statuses[0].Err)
	}
	if statuses[1].Outcome != assemble.Skipped {
		t.Fatalf("step 1 should be skipped, got %v", statuses[1].Outcome)
	}
	if !assemble.IsBooleanFailure(statuses[1].Err) {
		t.Errorf("step 1 error %v, want a boolean failure", statuses[1].Err)
	}
	if statuses[2].Outcome != assemble.Succeeded {
		t.Errorf("step 2 after a skip: %v, %v", statuses[2].Outcome, statuses[2].Err)
	}

	// The failed step must not leak into the result: same volume as the
	// plan without it.
	wantSolid, _, err := asm.Assemble(
		boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 4}),
		[]assemble.Step{
			{Operand: boxSolid(t, "good", r3.Vec{X: 3}, r3.Vec{X: 2, Y: 2, Z: 2}), Mode: solid.Union},
			{Operand: boxSolid(t, "tail", r3.Vec{Z: 3}, r3.Vec{X: 2, Y: 2, Z: 2}), Mode: solid.Union},
		})
	if err != nil {
		t.Fatal(err)
	}
	if vol, want := got.Volume(), wantSolid.Volume(); math.Abs(vol-want)/want > 0.01 {
		t.Errorf("volume with skipped step %g, want %g", vol, want)
	}

	if failed := assemble.FailedSteps(statuses); len(failed) != 1 || failed[0].Operand != "bad" {
		t.Errorf("FailedSteps returned %v", failed)
	}
}

func TestAssembleNoGeometry(t *testing.T) {
	_, statuses, err := asm.Assemble(solid.Empty("void"), []assemble.Step{
		{Operand: solid.Empty("nothing"), Mode: solid.Union},
	})
	if !errors.Is(err, solid.ErrNoGeometry) {
		t.Errorf("empty result: got %v, want ErrNoGeometry", err)
	}
	if len(statuses) != 1 {
		t.Errorf("statuses should still be reported, got %d", len(statuses))
	}
}

func TestAssembleReleasesOperands(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	plan := []assemble.Step{
		{Operand: boxSolid(t, "op", r3.Vec{X: 1}, r3.Vec{X: 2, Y: 2, Z: 2}), Mode: solid.Union},
	}
	if _, _, err := asm.Assemble(base, plan); err != nil {
		t.Fatal(err)
	}
	if plan[0].Operand != nil {
		t.Error("consumed operand should be released from the plan")
	}
}
