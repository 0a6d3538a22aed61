// Package domain defines the MCP tool schemas and handlers that expose the
// scene to language agents: the spatial-reasoning side of the system reads
// the store through these tools and routes mutation intents through the
// session so they reach the authority.
package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/scenesync/internal/scene"
)

// EntityResult is the agent-readable projection of a scene entity.
type EntityResult struct {
	ID       string     `json:"id" jsonschema:"entity identifier"`
	Name     string     `json:"name,omitempty" jsonschema:"display name"`
	Kind     string     `json:"kind" jsonschema:"entity kind (structural, object, light)"`
	Position scene.Vec3 `json:"position" jsonschema:"world position in meters"`
	Rotation scene.Vec3 `json:"rotation" jsonschema:"Euler rotation in radians"`
	Category string     `json:"category,omitempty" jsonschema:"object category tag"`
	Model    string     `json:"model,omitempty" jsonschema:"model reference"`
	Movable  bool       `json:"movable" jsonschema:"whether the object may be moved"`
}

func entityResult(entity scene.Entity) EntityResult {
	result := EntityResult{
		ID:       entity.ID,
		Name:     entity.Name,
		Kind:     string(entity.Kind),
		Position: entity.Transform.Position,
		Rotation: entity.Transform.Rotation,
		Movable:  entity.Movable(),
	}
	if entity.Object != nil {
		result.Category = entity.Object.Category
		result.Model = entity.Object.Model
	}
	return result
}

func entityResults(entities []scene.Entity) []EntityResult {
	results := make([]EntityResult, 0, len(entities))
	for _, entity := range entities {
		results = append(results, entityResult(entity))
	}
	return results
}

// SceneEntityGetInput requests a single entity by id.
type SceneEntityGetInput struct {
	ID string `json:"id" jsonschema:"entity identifier"`
}

// SceneEntityGetResult carries the requested entity.
type SceneEntityGetResult struct {
	Entity EntityResult `json:"entity" jsonschema:"the requested entity"`
}

// SceneEntityGetTool defines the MCP tool schema for entity lookup.
func SceneEntityGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_entity_get",
		Description: "Returns a scene entity by its stable identifier.",
	}
}

// SceneEntityGetHandler executes an entity lookup against the store.
func SceneEntityGetHandler(store *scene.Store) mcp.ToolHandlerFor[SceneEntityGetInput, SceneEntityGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SceneEntityGetInput) (*mcp.CallToolResult, SceneEntityGetResult, error) {
		entity, ok := store.GetByID(input.ID)
		if !ok {
			return nil, SceneEntityGetResult{}, fmt.Errorf("entity %q not found", input.ID)
		}
		return nil, SceneEntityGetResult{Entity: entityResult(entity)}, nil
	}
}

// SceneSearchInput requests entities by name substring.
type SceneSearchInput struct {
	Name string `json:"name" jsonschema:"name text to match, case-insensitive substring"`
}

// SceneSearchResult carries the matching entities.
type SceneSearchResult struct {
	Entities []EntityResult `json:"entities" jsonschema:"matching entities"`
}

// SceneSearchTool defines the MCP tool schema for name search.
func SceneSearchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_search",
		Description: "Finds scene entities whose name contains the given text, case-insensitive.",
	}
}

// SceneSearchHandler executes a name search against the store.
func SceneSearchHandler(store *scene.Store) mcp.ToolHandlerFor[SceneSearchInput, SceneSearchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SceneSearchInput) (*mcp.CallToolResult, SceneSearchResult, error) {
		return nil, SceneSearchResult{Entities: entityResults(store.FindByName(input.Name))}, nil
	}
}

// SceneCategorySearchInput requests objects by category tag.
type SceneCategorySearchInput struct {
	Category string `json:"category" jsonschema:"category tag, e.g. furniture"`
}

// SceneCategorySearchTool defines the MCP tool schema for category search.
func SceneCategorySearchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_category_search",
		Description: "Finds scene objects tagged with the given category.",
	}
}

// SceneCategorySearchHandler executes a category search against the store.
func SceneCategorySearchHandler(store *scene.Store) mcp.ToolHandlerFor[SceneCategorySearchInput, SceneSearchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SceneCategorySearchInput) (*mcp.CallToolResult, SceneSearchResult, error) {
		return nil, SceneSearchResult{Entities: entityResults(store.FindByCategory(input.Category))}, nil
	}
}

// SceneNearbyInput requests entities within a radius of a point.
type SceneNearbyInput struct {
	X      float64  `json:"x" jsonschema:"point x in meters"`
	Y      float64  `json:"y" jsonschema:"point y in meters"`
	Z      float64  `json:"z" jsonschema:"point z in meters"`
	Radius *float64 `json:"radius,omitempty" jsonschema:"search radius in meters, defaults to 1.0"`
}

// SceneNearbyTool defines the MCP tool schema for proximity search.
func SceneNearbyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_nearby",
		Description: "Finds scene entities within a radius of a world point (Euclidean, boundary inclusive).",
	}
}

// SceneNearbyHandler executes a proximity search against the store.
func SceneNearbyHandler(store *scene.Store) mcp.ToolHandlerFor[SceneNearbyInput, SceneSearchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SceneNearbyInput) (*mcp.CallToolResult, SceneSearchResult, error) {
		radius := scene.DefaultNearRadius
		if input.Radius != nil {
			radius = *input.Radius
		}
		point := scene.Vec3{X: input.X, Y: input.Y, Z: input.Z}
		return nil, SceneSearchResult{Entities: entityResults(store.FindNear(point, radius))}, nil
	}
}

// SceneMovableListInput requests the movable objects. It has no fields.
type SceneMovableListInput struct{}

// SceneMovableListTool defines the MCP tool schema for the movable listing.
func SceneMovableListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_movable_list",
		Description: "Lists the scene objects whose movable property is true.",
	}
}

// SceneMovableListHandler lists movable objects from the store.
func SceneMovableListHandler(store *scene.Store) mcp.ToolHandlerFor[SceneMovableListInput, SceneSearchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ SceneMovableListInput) (*mcp.CallToolResult, SceneSearchResult, error) {
		return nil, SceneSearchResult{Entities: entityResults(store.ListMovable())}, nil
	}
}

// SceneRelationsInput requests the relation list of an object.
type SceneRelationsInput struct {
	ID string `json:"id" jsonschema:"object identifier"`
}

// SceneRelationsResult carries an object's relations.
type SceneRelationsResult struct {
	Relations []scene.Relation `json:"relations" jsonschema:"relations referencing other entity ids"`
}

// SceneRelationsTool defines the MCP tool schema for relation lookup.
func SceneRelationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scene_relations",
		Description: "Returns the spatial relations an object declares toward other entities.",
	}
}

// SceneRelationsHandler executes a relation lookup against the store.
func SceneRelationsHandler(store *scene.Store) mcp.ToolHandlerFor[SceneRelationsInput, SceneRelationsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SceneRelationsInput) (*mcp.CallToolResult, SceneRelationsResult, error) {
		relations, ok := store.Relations(input.ID)
		if !ok {
			return nil, SceneRelationsResult{}, fmt.Errorf("object %q not found", input.ID)
		}
		return nil, SceneRelationsResult{Relations: relations}, nil
	}
}
