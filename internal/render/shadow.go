// Package render provides the headless stand-in for a rendering engine: a
// shadow handle per entity that mirrors the transform a renderer would
// display, and the lens the tween stepper animates it through. Clients
// embedding a real engine supply their own handles and lens instead.
package render

import (
	"sync"

	"github.com/louisbranch/scenesync/internal/reconcile"
	"github.com/louisbranch/scenesync/internal/scene"
)

// Shadow is an opaque handle tracking the displayed transform of one
// renderable entity.
type Shadow struct {
	mu       sync.Mutex
	position scene.Vec3
	rotation scene.Vec3
}

// NewShadow seeds a shadow handle from an entity transform.
func NewShadow(transform scene.Transform) *Shadow {
	return &Shadow{position: transform.Position, rotation: transform.Rotation}
}

// Position returns the currently displayed position.
func (s *Shadow) Position() scene.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Rotation returns the currently displayed rotation.
func (s *Shadow) Rotation() scene.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

func (s *Shadow) value(field reconcile.Field) scene.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if field == reconcile.FieldRotation {
		return s.rotation
	}
	return s.position
}

func (s *Shadow) setValue(field reconcile.Field, value scene.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if field == reconcile.FieldRotation {
		s.rotation = value
		return
	}
	s.position = value
}

// ShadowLens adapts shadow handles to the tween stepper. Handles of other
// types read as zero and ignore writes.
type ShadowLens struct{}

// Value reads a transform field from a shadow handle.
func (ShadowLens) Value(handle any, field reconcile.Field) scene.Vec3 {
	shadow, ok := handle.(*Shadow)
	if !ok {
		return scene.Vec3{}
	}
	return shadow.value(field)
}

// SetValue writes a transform field on a shadow handle.
func (ShadowLens) SetValue(handle any, field reconcile.Field, value scene.Vec3) {
	if shadow, ok := handle.(*Shadow); ok {
		shadow.setValue(field, value)
	}
}
