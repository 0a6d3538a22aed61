// Package session owns one synchronized scene session. It wires the entity
// store, runtime registry, sync channel, reconciler, and telemetry
// publisher together through an explicitly constructed controller instead
// of process-wide registries, and replaces callback dispatch with a receive
// loop over the channel's inbound stream.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/scenesync/internal/authority"
	"github.com/louisbranch/scenesync/internal/headtrack"
	"github.com/louisbranch/scenesync/internal/reconcile"
	"github.com/louisbranch/scenesync/internal/registry"
	"github.com/louisbranch/scenesync/internal/scene"
	"github.com/louisbranch/scenesync/internal/scene/storage"
)

// Stepper advances in-flight interpolations from the render tick.
type Stepper interface {
	Step(now time.Time)
}

// Deps are the collaborators a session is constructed from. Store,
// Registry, Channel, and Reconciler are required; Publisher, Archive, and
// Stepper are optional.
type Deps struct {
	Store      *scene.Store
	Registry   *registry.Registry
	Channel    *authority.Channel
	Reconciler *reconcile.Reconciler
	Publisher  *headtrack.Publisher
	Archive    storage.SnapshotArchive
	Stepper    Stepper
	Metadata   scene.Metadata
}

// Session is the top-level controller for one client's view of the shared
// scene.
type Session struct {
	store      *scene.Store
	registry   *registry.Registry
	channel    *authority.Channel
	reconciler *reconcile.Reconciler
	publisher  *headtrack.Publisher
	archive    storage.SnapshotArchive
	stepper    Stepper
	metadata   scene.Metadata
	tracer     trace.Tracer
	clock      func() time.Time
}

// New builds a session from its collaborators.
func New(deps Deps) (*Session, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("scene store is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("runtime registry is required")
	}
	if deps.Channel == nil {
		return nil, fmt.Errorf("sync channel is required")
	}
	if deps.Reconciler == nil {
		return nil, fmt.Errorf("reconciler is required")
	}
	if deps.Metadata.Name == "" {
		deps.Metadata.Name = "scene"
	}
	return &Session{
		store:      deps.Store,
		registry:   deps.Registry,
		channel:    deps.Channel,
		reconciler: deps.Reconciler,
		publisher:  deps.Publisher,
		archive:    deps.Archive,
		stepper:    deps.Stepper,
		metadata:   deps.Metadata,
		tracer:     otel.Tracer("scenesync/session"),
		clock:      time.Now,
	}, nil
}

// Run starts the sync channel and consumes its inbound stream until ctx is
// cancelled. Cancellation is the deliberate shutdown signal: it stops the
// channel's reconnect loop and drains the session.
func (s *Session) Run(ctx context.Context) error {
	channelErr := make(chan error, 1)
	go func() {
		channelErr <- s.channel.Run(ctx)
	}()

	for msg := range s.channel.Inbound() {
		s.dispatch(ctx, msg)
	}
	return <-channelErr
}

// Tick drives per-frame work: telemetry sampling and interpolation
// stepping. It is called from the host render loop and never blocks it.
func (s *Session) Tick(now time.Time) {
	if s.publisher != nil {
		s.publisher.Tick()
	}
	if s.stepper != nil {
		s.stepper.Step(now)
	}
}

// RequestMove applies a local move intent to the store and forwards the
// resulting full position to the authority, which rebroadcasts accepted
// mutations to all clients. Returns false when the id is unknown.
func (s *Session) RequestMove(id string, update scene.PartialVec3) bool {
	if !s.store.SetPosition(id, update) {
		return false
	}
	entity, _ := s.store.GetByID(id)
	msg, err := authority.NewMessage(authority.TypeObjectPositionUpdated, authority.PositionUpdate{
		ObjectID: id,
		Name:     entity.Name,
		Position: entity.Transform.Position,
	})
	if err != nil {
		log.Printf("session: frame move intent for %q: %v", id, err)
		return true
	}
	s.channel.Send(msg)
	return true
}

// RequestRotate applies a local rotation intent to the store and forwards
// the resulting full rotation to the authority.
func (s *Session) RequestRotate(id string, update scene.PartialVec3) bool {
	if !s.store.SetRotation(id, update) {
		return false
	}
	entity, _ := s.store.GetByID(id)
	msg, err := authority.NewMessage(authority.TypeObjectRotationUpdated, authority.RotationUpdate{
		ObjectID: id,
		Name:     entity.Name,
		Rotation: entity.Transform.Rotation,
	})
	if err != nil {
		log.Printf("session: frame rotate intent for %q: %v", id, err)
		return true
	}
	s.channel.Send(msg)
	return true
}

// AddEntity inserts an entity into the store.
func (s *Session) AddEntity(entity scene.Entity) (string, error) {
	return s.store.Add(entity)
}

// RemoveEntity removes an entity from the store and evicts its runtime
// handle, including the derived wall faces when the entity is structural.
func (s *Session) RemoveEntity(id string) bool {
	if !s.store.Remove(id) {
		return false
	}
	s.registry.Remove(id)
	front, back := scene.WallFaceIDs(id)
	s.registry.Remove(front)
	s.registry.Remove(back)
	return true
}

// Store exposes the entity store for read paths such as the agent tool
// surface.
func (s *Session) Store() *scene.Store {
	return s.store
}

// dispatch routes one inbound authority message. Per-entity messages apply
// in receipt order because this is the only consumer of the inbound stream.
// Protocol faults degrade to a logged drop; nothing here is fatal.
func (s *Session) dispatch(ctx context.Context, msg authority.Message) {
	ctx, span := s.tracer.Start(ctx, "session.dispatch",
		trace.WithAttributes(attribute.String("message.type", msg.Type)))
	defer span.End()

	switch msg.Type {
	case authority.TypeObjectPositionUpdated:
		var update authority.PositionUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			log.Printf("session: drop malformed position update: %v", err)
			return
		}
		s.reconciler.ApplyPositionUpdate(update.ObjectID, update.Position)

	case authority.TypeObjectRotationUpdated:
		var update authority.RotationUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			log.Printf("session: drop malformed rotation update: %v", err)
			return
		}
		s.reconciler.ApplyRotationUpdate(update.ObjectID, update.Rotation)

	case authority.TypeSceneSaved:
		log.Printf("session: authority confirmed scene save")
		s.archiveSnapshot(ctx)

	default:
		log.Printf("session: drop message with unrecognized type %q", msg.Type)
	}
}

// archiveSnapshot persists the current store contents to the local archive.
func (s *Session) archiveSnapshot(ctx context.Context) {
	if s.archive == nil {
		return
	}
	doc := scene.Snapshot(s.store, s.metadata)
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Printf("session: encode scene snapshot: %v", err)
		return
	}
	err = s.archive.PutSnapshot(ctx, storage.Snapshot{
		SceneName:    s.metadata.Name,
		SavedAt:      s.clock(),
		DocumentJSON: string(raw),
	})
	if err != nil {
		log.Printf("session: archive scene snapshot: %v", err)
	}
}
