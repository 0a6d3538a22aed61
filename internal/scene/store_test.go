package scene

import (
	"math"
	"math/rand"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	entities := []Entity{
		{
			ID:   "chair_01",
			Name: "Wooden Chair",
			Kind: KindObject,
			Transform: Transform{
				Position: Vec3{X: 0, Y: -1, Z: -1.5},
				Scale:    Vec3{X: 1, Y: 1, Z: 1},
			},
			Object: &Object{
				Model:      "chair.glb",
				Category:   "furniture",
				Properties: map[string]any{"movable": true},
				Relations:  []Relation{{Type: "next_to", TargetID: "table_01"}},
			},
		},
		{
			ID:   "table_01",
			Name: "Dining Table",
			Kind: KindObject,
			Transform: Transform{
				Position: Vec3{X: 0.8, Y: -1, Z: -1.5},
				Scale:    Vec3{X: 1, Y: 1, Z: 1},
			},
			Object: &Object{
				Model:      "table.glb",
				Category:   "furniture",
				Properties: map[string]any{"movable": false},
			},
		},
		{
			ID:   "wall_north",
			Name: "North Wall",
			Kind: KindStructural,
			Transform: Transform{
				Position: Vec3{X: 0, Y: 0, Z: -3},
				Scale:    Vec3{X: 1, Y: 1, Z: 1},
			},
			Structural: &Structural{
				Dimensions: Dimensions{Width: 6, Height: 3, Depth: 0.1},
				Texture:    "plaster.png",
			},
		},
		{
			ID:   "light_main",
			Kind: KindLight,
			Transform: Transform{
				Position: Vec3{X: 0, Y: 2, Z: 0},
			},
			Light: &Light{Type: LightDirectional, Color: "#ffffff", Intensity: 0.8},
		},
	}
	for _, entity := range entities {
		if _, err := store.Add(entity); err != nil {
			t.Fatalf("add %s: %v", entity.ID, err)
		}
	}
	return store
}

func TestSetPositionPartialMerge(t *testing.T) {
	store := newTestStore(t)

	x := 0.4
	if !store.SetPosition("chair_01", PartialVec3{X: &x}) {
		t.Fatal("expected set position to succeed")
	}

	entity, ok := store.GetByID("chair_01")
	if !ok {
		t.Fatal("expected chair_01 to exist")
	}
	got := entity.Transform.Position
	if got.X != 0.4 || got.Y != -1 || got.Z != -1.5 {
		t.Fatalf("position = %+v, want x merged and y/z untouched", got)
	}
}

func TestSetPositionUnknownID(t *testing.T) {
	store := newTestStore(t)
	before := store.Entities()

	x := 1.0
	if store.SetPosition("ghost", PartialVec3{X: &x}) {
		t.Fatal("expected set position on unknown id to return false")
	}

	after := store.Entities()
	if len(before) != len(after) {
		t.Fatalf("entity count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Transform.Position != after[i].Transform.Position {
			t.Fatalf("entity %s mutated by failed update", before[i].ID)
		}
	}
}

func TestSetRotationPartialMerge(t *testing.T) {
	store := newTestStore(t)

	yaw := -math.Pi / 2
	if !store.SetRotation("chair_01", PartialVec3{Y: &yaw}) {
		t.Fatal("expected set rotation to succeed")
	}
	entity, _ := store.GetByID("chair_01")
	got := entity.Transform.Rotation
	if got.Y != yaw || got.X != 0 || got.Z != 0 {
		t.Fatalf("rotation = %+v, want only y merged", got)
	}
}

func TestFindByNameFoldsCase(t *testing.T) {
	store := newTestStore(t)

	for _, query := range []string{"chair", "CHAIR", "wooden ch"} {
		matches := store.FindByName(query)
		if len(matches) != 1 || matches[0].ID != "chair_01" {
			t.Fatalf("FindByName(%q) = %d matches, want chair_01", query, len(matches))
		}
	}
	if matches := store.FindByName("sofa"); len(matches) != 0 {
		t.Fatalf("expected no matches for sofa, got %d", len(matches))
	}
}

func TestFindByCategory(t *testing.T) {
	store := newTestStore(t)

	matches := store.FindByCategory("furniture")
	if len(matches) != 2 {
		t.Fatalf("expected 2 furniture entities, got %d", len(matches))
	}
	if matches := store.FindByCategory("plants"); len(matches) != 0 {
		t.Fatalf("expected no plants, got %d", len(matches))
	}
}

func TestFindNearBoundaryInclusive(t *testing.T) {
	store := NewStore()
	if _, err := store.Add(Entity{ID: "a", Kind: KindObject, Transform: Transform{Position: Vec3{X: 2}}, Object: &Object{}}); err != nil {
		t.Fatal(err)
	}

	matches := store.FindNear(Vec3{}, 2.0)
	if len(matches) != 1 {
		t.Fatalf("expected distance == radius to match, got %d matches", len(matches))
	}
	if matches := store.FindNear(Vec3{}, 1.999); len(matches) != 0 {
		t.Fatalf("expected no matches inside smaller radius, got %d", len(matches))
	}
}

func TestFindNearRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	store := NewStore()
	positions := make(map[string]Vec3)
	for i := 0; i < 50; i++ {
		id := string(rune('a'+i%26)) + "_" + string(rune('0'+i/26))
		pos := Vec3{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5, Z: rng.Float64()*10 - 5}
		positions[id] = pos
		if _, err := store.Add(Entity{ID: id, Kind: KindObject, Transform: Transform{Position: pos}, Object: &Object{}}); err != nil {
			t.Fatal(err)
		}
	}

	for trial := 0; trial < 20; trial++ {
		point := Vec3{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5, Z: rng.Float64()*10 - 5}
		radius := rng.Float64() * 6
		got := make(map[string]bool)
		for _, entity := range store.FindNear(point, radius) {
			got[entity.ID] = true
		}
		for id, pos := range positions {
			want := pos.DistanceTo(point) <= radius
			if got[id] != want {
				t.Fatalf("trial %d: entity %s at distance %.4f, radius %.4f: in result = %v",
					trial, id, pos.DistanceTo(point), radius, got[id])
			}
		}
	}
}

func TestFindNearDefaultRadius(t *testing.T) {
	store := newTestStore(t)

	matches := store.FindNear(Vec3{X: 0, Y: -1, Z: -1.5}, 0)
	found := false
	for _, entity := range matches {
		if entity.ID == "table_01" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected table_01 within the default 1.0 radius")
	}
}

func TestListMovable(t *testing.T) {
	store := newTestStore(t)

	movable := store.ListMovable()
	if len(movable) != 1 || movable[0].ID != "chair_01" {
		t.Fatalf("ListMovable = %d entities, want just chair_01", len(movable))
	}
}

func TestRelations(t *testing.T) {
	store := newTestStore(t)

	relations, ok := store.Relations("chair_01")
	if !ok || len(relations) != 1 || relations[0].TargetID != "table_01" {
		t.Fatalf("Relations(chair_01) = %v, %v", relations, ok)
	}
	if _, ok := store.Relations("wall_north"); ok {
		t.Fatal("expected no relations for a structural entity")
	}
	if _, ok := store.Relations("ghost"); ok {
		t.Fatal("expected no relations for an unknown id")
	}
}

func TestAddRejectsDuplicateAndEmptyIDs(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Add(Entity{ID: "chair_01", Kind: KindObject, Object: &Object{}}); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
	if _, err := store.Add(Entity{Kind: KindObject, Object: &Object{}}); err == nil {
		t.Fatal("expected empty id to be rejected")
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	if !store.Remove("chair_01") {
		t.Fatal("expected remove to succeed")
	}
	if store.Remove("chair_01") {
		t.Fatal("expected second remove to report missing")
	}
	if _, ok := store.GetByID("chair_01"); ok {
		t.Fatal("expected chair_01 to be gone")
	}
	ids := make(map[string]bool)
	for _, entity := range store.Entities() {
		ids[entity.ID] = true
	}
	if ids["chair_01"] {
		t.Fatal("removed entity still listed")
	}
}
