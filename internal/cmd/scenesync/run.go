package scenesync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/scenesync/internal/authority"
	mcpservice "github.com/louisbranch/scenesync/internal/mcp/service"
	entrypoint "github.com/louisbranch/scenesync/internal/platform/cmd"
	"github.com/louisbranch/scenesync/internal/reconcile"
	"github.com/louisbranch/scenesync/internal/registry"
	"github.com/louisbranch/scenesync/internal/render"
	"github.com/louisbranch/scenesync/internal/scene"
	scenesqlite "github.com/louisbranch/scenesync/internal/scene/storage/sqlite"
	"github.com/louisbranch/scenesync/internal/session"
)

// Run composes and drives one synchronized scene session until ctx is
// cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenesync, func(ctx context.Context) error {
		if err := run(ctx, cfg); err != nil {
			return fmt.Errorf("run scenesync: %w", err)
		}
		return nil
	})
}

func run(ctx context.Context, cfg Config) error {
	doc, err := scene.LoadDocument(cfg.ScenePath)
	if err != nil {
		return err
	}

	store := scene.NewStore()
	if err := scene.Populate(store, doc); err != nil {
		return err
	}
	log.Printf("scene %q loaded with %d entities", doc.Metadata.Name, store.Len())

	reg := registry.New()
	registerShadows(reg, store)

	endpoint, err := authority.Endpoint(cfg.Origin, cfg.AuthorityPort, cfg.AuthorityPath)
	if err != nil {
		return err
	}
	channel, err := authority.NewChannel(authority.Config{
		URL:            endpoint,
		ReconnectDelay: cfg.ReconnectDelay,
	})
	if err != nil {
		return err
	}

	tween := reconcile.NewTween(render.ShadowLens{})
	reconciler := reconcile.New(reg, tween, cfg.AnimationDuration)

	deps := session.Deps{
		Store:      store,
		Registry:   reg,
		Channel:    channel,
		Reconciler: reconciler,
		Stepper:    tween,
		Metadata:   doc.Metadata,
	}

	if cfg.SnapshotDBPath != "" {
		archive, err := scenesqlite.Open(cfg.SnapshotDBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				log.Printf("close snapshot archive: %v", err)
			}
		}()
		deps.Archive = archive
	}

	sess, err := session.New(deps)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- sess.Run(ctx)
	}()

	if cfg.MCP {
		server, err := mcpservice.New(store, sess)
		if err != nil {
			return err
		}
		go func() {
			errCh <- server.Serve(ctx)
		}()
	}

	tick := cfg.TickInterval
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			sess.Tick(now)
		case err := <-errCh:
			if err != nil && ctx.Err() == nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// registerShadows gives every entity a headless render handle, expanding
// logical walls into their two derived faces the way a loader would.
func registerShadows(reg *registry.Registry, store *scene.Store) {
	for _, entity := range store.Entities() {
		if entity.Kind == scene.KindStructural && !strings.HasPrefix(entity.ID, "floor") {
			front, back := scene.WallFaceIDs(entity.ID)
			reg.Set(front, render.NewShadow(entity.Transform))
			reg.Set(back, render.NewShadow(entity.Transform))
			continue
		}
		reg.Set(entity.ID, render.NewShadow(entity.Transform))
	}
}
