// Package assemble folds an ordered plan of boolean steps into one solid.
// A step that fails leaves the running solid exactly as it was before the
// step and the fold moves on, so one bad operand cannot ruin the rest of
// the assembly.
package assemble

import (
	"errors"
	"fmt"

	"github.com/charmforge/bookcharm/solid"
	"go.uber.org/zap"
)

// Step is one boolean operation of an assembly plan.
type Step struct {
	// Operand is the solid applied to the running result. A nil or empty
	// operand makes the step a no-op.
	Operand *solid.Solid
	// Mode is the boolean operation to apply.
	Mode solid.Mode
}

// Outcome reports how one step of the fold ended.
type Outcome uint8

const (
	// Succeeded means the step applied (no-op steps succeed too).
	Succeeded Outcome = iota
	// Skipped means the boolean operation failed and the running solid
	// was left untouched.
	Skipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Succeeded {
		return "succeeded"
	}
	return "skipped"
}

// StepStatus is the per-step record of an assembly run.
type StepStatus struct {
	// Operand is the name of the step's operand solid.
	Operand string
	// Mode is the boolean operation the step requested.
	Mode solid.Mode
	// Outcome reports whether the step applied or was skipped.
	Outcome Outcome
	// Err holds the failure when Outcome is Skipped, nil otherwise.
	Err error
}

// Assembler runs assembly plans.
type Assembler struct {
	// Cells is the surface extraction cell count used when a boolean
	// result is re-extracted.
	Cells int
	// Log receives per-step progress. Nil disables logging.
	Log *zap.Logger
}

func (a Assembler) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// Assemble folds plan onto base in order and returns the final solid with
// one status per step. The base solid is never mutated; each step that
// succeeds replaces the running solid, each step that fails is recorded as
// skipped and the running solid carries over unchanged. Operand meshes are
// released as soon as their step has run. The returned error is non-nil
// only for a nil base or a final result with no geometry; skipped steps do
// not make the fold itself fail.
func (a Assembler) Assemble(base *solid.Solid, plan []Step) (*solid.Solid, []StepStatus, error) {
	if base == nil {
		return nil, nil, fmt.Errorf("%w: assembly base is nil", solid.ErrInvalidParameter)
	}
	log := a.log()
	acc := base
	statuses := make([]StepStatus, 0, len(plan))
	for i := range plan {
		step := plan[i]
		st := StepStatus{Mode: step.Mode}
		if step.Operand != nil {
			st.Operand = step.Operand.Name()
		}
		switch {
		case step.Operand == nil || step.Operand.IsEmpty():
			// Empty operand, boolean identity. Keep the running solid.
			log.Info("assembly step is a no-op",
				zap.Int("step", i),
				zap.String("operand", st.Operand),
				zap.Stringer("mode", step.Mode))
		default:
			next, err := solid.Combine(acc, step.Operand, step.Mode, a.Cells)
			if err != nil {
				st.Outcome = Skipped
				st.Err = err
				log.Warn("assembly step skipped",
					zap.Int("step", i),
					zap.String("operand", st.Operand),
					zap.Stringer("mode", step.Mode),
					zap.Error(err))
				break
			}
			acc = next
			log.Info("assembly step applied",
				zap.Int("step", i),
				zap.String("operand", st.Operand),
				zap.Stringer("mode", step.Mode),
				zap.Int("faces", acc.Mesh().FaceCount()))
		}
		// The operand is consumed either way.
		plan[i].Operand = nil
		statuses = append(statuses, st)
	}
	if acc.IsEmpty() {
		return nil, statuses, fmt.Errorf("%w: assembly of %d steps left no geometry",
			solid.ErrNoGeometry, len(plan))
	}
	return acc, statuses, nil
}

// FailedSteps returns the statuses of every skipped step.
func FailedSteps(statuses []StepStatus) []StepStatus {
	var failed []StepStatus
	for _, st := range statuses {
		if st.Outcome == Skipped {
			failed = append(failed, st)
		}
	}
	return failed
}

// IsBooleanFailure reports whether err comes from a failed boolean
// operation rather than bad input.
func IsBooleanFailure(err error) bool {
	return errors.Is(err, solid.ErrBooleanOpFailed)
}
