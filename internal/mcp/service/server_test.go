package service

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/scenesync/internal/scene"
)

type fakeMutator struct {
	store *scene.Store
}

func (f *fakeMutator) RequestMove(id string, update scene.PartialVec3) bool {
	return f.store.SetPosition(id, update)
}

func (f *fakeMutator) RequestRotate(id string, update scene.PartialVec3) bool {
	return f.store.SetRotation(id, update)
}

func (f *fakeMutator) AddEntity(entity scene.Entity) (string, error) {
	return f.store.Add(entity)
}

func (f *fakeMutator) RemoveEntity(id string) bool {
	return f.store.Remove(id)
}

func (f *fakeMutator) Store() *scene.Store {
	return f.store
}

func newTestServer(t *testing.T) (*Server, *scene.Store) {
	t.Helper()
	store := scene.NewStore()
	if _, err := store.Add(scene.Entity{
		ID:   "chair_01",
		Name: "Wooden Chair",
		Kind: scene.KindObject,
		Transform: scene.Transform{
			Position: scene.Vec3{X: 0, Y: -1, Z: -1.5},
			Scale:    scene.Vec3{X: 1, Y: 1, Z: 1},
		},
		Object: &scene.Object{
			Model:      "chair.glb",
			Category:   "furniture",
			Properties: map[string]any{"movable": true},
		},
	}); err != nil {
		t.Fatalf("add chair: %v", err)
	}
	server, err := New(store, &fakeMutator{store: store})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server, store
}

// TestNewValidatesDependencies ensures New rejects missing collaborators.
func TestNewValidatesDependencies(t *testing.T) {
	store := scene.NewStore()
	if _, err := New(nil, &fakeMutator{store: store}); err == nil {
		t.Fatal("expected error for missing store")
	}
	if _, err := New(store, nil); err == nil {
		t.Fatal("expected error for missing mutator")
	}
}

// TestServeRejectsUnconfiguredServer ensures Serve fails fast without a
// configured MCP server.
func TestServeRejectsUnconfiguredServer(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
	}{
		{name: "nil server", server: nil},
		{name: "missing mcp server", server: &Server{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.server.Serve(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// TestToolsRoundTrip exercises the registered tools through an in-memory
// transport.
func TestToolsRoundTrip(t *testing.T) {
	server, store := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer clientCancel()
	clientSession, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	tools, err := clientSession.ListTools(clientCtx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	registered := make(map[string]bool)
	for _, tool := range tools.Tools {
		registered[tool.Name] = true
	}
	for _, name := range []string{
		"scene_entity_get", "scene_search", "scene_category_search",
		"scene_nearby", "scene_movable_list", "scene_relations",
		"object_move", "object_rotate", "object_add", "object_remove",
	} {
		if !registered[name] {
			t.Errorf("tool %q not registered", name)
		}
	}

	result, err := clientSession.CallTool(clientCtx, &mcp.CallToolParams{
		Name:      "object_move",
		Arguments: map[string]any{"object_id": "chair_01", "x": 0.4},
	})
	if err != nil {
		t.Fatalf("call object_move: %v", err)
	}
	if result.IsError {
		t.Fatalf("object_move returned tool error: %v", result.Content)
	}
	entity, _ := store.GetByID("chair_01")
	if entity.Transform.Position != (scene.Vec3{X: 0.4, Y: -1, Z: -1.5}) {
		t.Fatalf("position after tool call = %+v", entity.Transform.Position)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
