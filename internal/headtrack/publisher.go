// Package headtrack samples the viewer's device pose once per render frame
// and forwards it to the authority as telemetry. Samples are ephemeral:
// they are converted, framed, and offered to the channel's lossy send at
// capture time, never queued or retried, because a stale pose has no value
// once a newer one exists.
package headtrack

import (
	"errors"
	"sync"
	"time"

	"github.com/louisbranch/scenesync/internal/authority"
	"github.com/louisbranch/scenesync/internal/scene"
)

// ErrNotInitialized is returned when tracking is started before a sender is
// bound.
var ErrNotInitialized = errors.New("telemetry publisher is not initialized")

// Pose is a single device pose in the session's fixed local reference
// frame.
type Pose struct {
	Position    scene.Vec3
	Orientation Quaternion
}

// PoseSource yields the current device pose. The boolean is false when no
// pose is available this tick, which happens transiently whenever tracking
// is lost and is never an error.
type PoseSource interface {
	Pose() (Pose, bool)
}

// Sender is the outbound side of the sync channel. Send reports whether the
// frame was written; the publisher ignores the result by design.
type Sender interface {
	Send(authority.Message) bool
}

// Publisher samples the pose source on every render tick while tracking is
// enabled and frames head_position_update telemetry. Lifecycle:
// uninitialized until Initialize binds the sender, then Start and Stop
// toggle tracking.
type Publisher struct {
	source PoseSource
	clock  func() time.Time

	mu       sync.Mutex
	sender   Sender
	tracking bool
}

// New builds an uninitialized publisher over the given pose source.
func New(source PoseSource) *Publisher {
	return &Publisher{source: source, clock: time.Now}
}

// Initialize binds the output channel. It is idempotent: once a sender is
// bound, further calls are no-ops for the lifetime of the publisher.
func (p *Publisher) Initialize(sender Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sender != nil {
		return
	}
	p.sender = sender
}

// Start enables per-tick sampling. It fails when no sender is bound yet.
func (p *Publisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sender == nil {
		return ErrNotInitialized
	}
	p.tracking = true
	return nil
}

// Stop disables sampling. It takes effect on the next tick.
func (p *Publisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracking = false
}

// Tracking reports whether sampling is enabled.
func (p *Publisher) Tracking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracking
}

// Tick samples and publishes one pose. It is called from the render loop
// and never blocks it: a missing pose is silently skipped, and the send is
// subject to the channel's lossy contract, so frames are naturally rate
// limited to one per render tick.
func (p *Publisher) Tick() {
	p.mu.Lock()
	sender := p.sender
	tracking := p.tracking
	p.mu.Unlock()

	if !tracking || sender == nil {
		return
	}

	pose, ok := p.source.Pose()
	if !ok {
		return
	}

	msg, err := authority.NewMessage(authority.TypeHeadPositionUpdate, authority.HeadPose{
		Position: pose.Position,
		Rotation: pose.Orientation.Euler(),
	})
	if err != nil {
		return
	}
	msg.Timestamp = p.clock().UnixMilli()
	sender.Send(msg)
}
