package replication

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
)

// Phase is the reconciliation state of one mirrored entity.
type Phase int

const (
	PhaseUninitialized Phase = iota // No snapshot decoded yet
	PhaseTracking                   // Smoothing toward the latest snapshot
)

// Branch records what a reconciliation step did.
type Branch int

const (
	BranchIdle Branch = iota
	BranchInterpolate
	BranchSnap
)

func (b Branch) String() string {
	switch b {
	case BranchInterpolate:
		return "interpolate"
	case BranchSnap:
		return "snap"
	default:
		return "idle"
	}
}

// Reconciler smooths a receiver's displayed transform toward the latest
// snapshot from the owner. It is owned by the receiver-side mirror and only
// touched from the receiver's own simulation tick.
type Reconciler struct {
	SnapDistance float64
	LerpRate     float64

	phase  Phase
	target gamemath.Transform
}

func NewReconciler(snapDistance, lerpRate float64) *Reconciler {
	return &Reconciler{
		SnapDistance: snapDistance,
		LerpRate:     lerpRate,
	}
}

// Receive records a decoded snapshot as the new target.
func (r *Reconciler) Receive(target gamemath.Transform) {
	r.target = target
	r.phase = PhaseTracking
}

func (r *Reconciler) Phase() Phase {
	return r.phase
}

// Target returns the latest snapshot, or false before the first one arrives.
func (r *Reconciler) Target() (gamemath.Transform, bool) {
	return r.target, r.phase == PhaseTracking
}

// Reset drops the target, returning to the uninitialized phase.
func (r *Reconciler) Reset() {
	r.phase = PhaseUninitialized
	r.target = gamemath.Transform{}
}

// Step advances displayed toward the target by one simulation tick of dt
// seconds. It returns the branch taken and the blend factor applied, which is
// 1 for a snap and 0 when idle. Callers blending extra fields reuse the factor
// so every field of the entity interpolates or snaps together.
func (r *Reconciler) Step(displayed *gamemath.Transform, dt float64) (Branch, float64) {
	if r.phase != PhaseTracking {
		return BranchIdle, 0
	}

	if displayed.Distance(r.target) < r.SnapDistance {
		t := mgl64.Clamp(r.LerpRate*dt, 0, 1)
		*displayed = gamemath.LerpTransform(*displayed, r.target, t)
		return BranchInterpolate, t
	}

	*displayed = r.target
	return BranchSnap, 1
}
