package reconcile

import (
	"sync"
	"time"

	"github.com/louisbranch/scenesync/internal/scene"
)

// Lens reads and writes a transform field on an opaque render handle. It is
// the only piece of the rendering engine the tween stepper touches.
type Lens interface {
	Value(handle any, field Field) scene.Vec3
	SetValue(handle any, field Field, value scene.Vec3)
}

type tweenKey struct {
	id    string
	field Field
}

type tween struct {
	handle   any
	from     scene.Vec3
	to       scene.Vec3
	start    time.Time
	duration time.Duration
}

// Tween is an Animator for rendering engines that do not ship their own
// interpolation utility. Active tweens are stepped from the render tick;
// re-animating a (id, field) pair replaces the in-flight tween, so the last
// received target always wins.
type Tween struct {
	lens  Lens
	clock func() time.Time

	mu     sync.Mutex
	active map[tweenKey]*tween
}

// NewTween builds a tween stepper over the given lens.
func NewTween(lens Lens) *Tween {
	return &Tween{
		lens:   lens,
		clock:  time.Now,
		active: make(map[tweenKey]*tween),
	}
}

// Animate starts (or restarts) a tween from the field's current value to
// target.
func (t *Tween) Animate(id string, handle any, field Field, target scene.Vec3, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	from := t.lens.Value(handle, field)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.active[tweenKey{id: id, field: field}] = &tween{
		handle:   handle,
		from:     from,
		to:       target,
		start:    t.clock(),
		duration: duration,
	}
}

// Step advances every active tween to now, writing eased intermediate
// values through the lens. Tweens that reach their target are retired with
// the target written exactly.
func (t *Tween) Step(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, tw := range t.active {
		progress := now.Sub(tw.start).Seconds() / tw.duration.Seconds()
		if progress >= 1 {
			t.lens.SetValue(tw.handle, key.field, tw.to)
			delete(t.active, key)
			continue
		}
		if progress < 0 {
			progress = 0
		}
		t.lens.SetValue(tw.handle, key.field, lerp(tw.from, tw.to, easeInOutQuad(progress)))
	}
}

// ActiveCount returns the number of in-flight tweens.
func (t *Tween) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Target returns the current target for a (id, field) pair, if a tween is
// in flight.
func (t *Tween) Target(id string, field Field) (scene.Vec3, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tw, ok := t.active[tweenKey{id: id, field: field}]
	if !ok {
		return scene.Vec3{}, false
	}
	return tw.to, true
}

// easeInOutQuad accelerates through the first half of the motion and
// decelerates through the second.
func easeInOutQuad(progress float64) float64 {
	if progress < 0.5 {
		return 2 * progress * progress
	}
	inverse := -2*progress + 2
	return 1 - inverse*inverse/2
}

func lerp(from, to scene.Vec3, progress float64) scene.Vec3 {
	return scene.Vec3{
		X: from.X + (to.X-from.X)*progress,
		Y: from.Y + (to.Y-from.Y)*progress,
		Z: from.Z + (to.Z-from.Z)*progress,
	}
}
