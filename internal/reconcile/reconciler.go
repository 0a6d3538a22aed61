// Package reconcile applies remote-origin mutations to the locally rendered
// representation. Changes are animated over a fixed duration rather than
// snapped, so concurrent remote edits read as smooth motion instead of
// visual popping.
package reconcile

import (
	"log"
	"time"

	"github.com/louisbranch/scenesync/internal/registry"
	"github.com/louisbranch/scenesync/internal/scene"
)

// DefaultDuration is the fixed animation duration for reconciled updates.
const DefaultDuration = 500 * time.Millisecond

// Field names an animatable transform component.
type Field string

const (
	// FieldPosition animates the handle's position.
	FieldPosition Field = "position"
	// FieldRotation animates the handle's rotation.
	FieldRotation Field = "rotation"
)

// Animator is the interpolation port supplied by the rendering side:
// animate the named field of handle from its current value to target over
// duration with an ease-in/ease-out curve. Re-animating the same (id,
// field) pair overrides any in-flight animation; superseded targets are
// never queued.
type Animator interface {
	Animate(id string, handle any, field Field, target scene.Vec3, duration time.Duration)
}

// Reconciler resolves entity ids to render handles and hands transform
// targets to the animator.
type Reconciler struct {
	registry *registry.Registry
	animator Animator
	duration time.Duration
}

// New builds a reconciler over the given registry and animator. A
// non-positive duration falls back to DefaultDuration.
func New(reg *registry.Registry, animator Animator, duration time.Duration) *Reconciler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Reconciler{registry: reg, animator: animator, duration: duration}
}

// ApplyPositionUpdate animates the entity's handle toward the new position.
// An id absent from the registry is an expected race with the loader, not
// an error: it is logged and the update is a no-op.
func (r *Reconciler) ApplyPositionUpdate(id string, position scene.Vec3) {
	r.apply(id, FieldPosition, position)
}

// ApplyRotationUpdate animates the entity's handle toward the new rotation.
func (r *Reconciler) ApplyRotationUpdate(id string, rotation scene.Vec3) {
	r.apply(id, FieldRotation, rotation)
}

func (r *Reconciler) apply(id string, field Field, target scene.Vec3) {
	handle, ok := r.registry.Get(id)
	if !ok {
		log.Printf("reconcile: no handle for %q, skipping %s update", id, field)
		return
	}
	r.animator.Animate(id, handle, field, target, r.duration)
}
