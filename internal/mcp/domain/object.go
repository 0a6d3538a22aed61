package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/scenesync/internal/scene"
)

// Mutator is the session-side surface mutation tools call into, so intents
// reach both the local store and the authority.
type Mutator interface {
	RequestMove(id string, update scene.PartialVec3) bool
	RequestRotate(id string, update scene.PartialVec3) bool
	AddEntity(entity scene.Entity) (string, error)
	RemoveEntity(id string) bool
	Store() *scene.Store
}

// ObjectMoveInput moves an object. Omitted axes keep their current value;
// supplying all three replaces the position atomically.
type ObjectMoveInput struct {
	ObjectID string   `json:"object_id" jsonschema:"object identifier"`
	X        *float64 `json:"x,omitempty" jsonschema:"target x in meters"`
	Y        *float64 `json:"y,omitempty" jsonschema:"target y in meters"`
	Z        *float64 `json:"z,omitempty" jsonschema:"target z in meters"`
}

// ObjectMutationResult reports the object's transform after a mutation.
type ObjectMutationResult struct {
	ObjectID string     `json:"object_id" jsonschema:"object identifier"`
	Position scene.Vec3 `json:"position" jsonschema:"resulting world position"`
	Rotation scene.Vec3 `json:"rotation" jsonschema:"resulting Euler rotation"`
}

// ObjectMoveTool defines the MCP tool schema for moving an object.
func ObjectMoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "object_move",
		Description: "Moves a scene object. Omitted axes keep their current value; the intent is forwarded to the authority for rebroadcast.",
	}
}

// ObjectMoveHandler executes a move intent through the session.
func ObjectMoveHandler(mutator Mutator) mcp.ToolHandlerFor[ObjectMoveInput, ObjectMutationResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ObjectMoveInput) (*mcp.CallToolResult, ObjectMutationResult, error) {
		update := scene.PartialVec3{X: input.X, Y: input.Y, Z: input.Z}
		if !mutator.RequestMove(input.ObjectID, update) {
			return nil, ObjectMutationResult{}, fmt.Errorf("object %q not found", input.ObjectID)
		}
		return nil, mutationResult(mutator, input.ObjectID), nil
	}
}

// ObjectRotateInput rotates an object, with the same partial-merge
// semantics as ObjectMoveInput, in radians.
type ObjectRotateInput struct {
	ObjectID string   `json:"object_id" jsonschema:"object identifier"`
	X        *float64 `json:"x,omitempty" jsonschema:"target rotation about x in radians"`
	Y        *float64 `json:"y,omitempty" jsonschema:"target rotation about y in radians"`
	Z        *float64 `json:"z,omitempty" jsonschema:"target rotation about z in radians"`
}

// ObjectRotateTool defines the MCP tool schema for rotating an object.
func ObjectRotateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "object_rotate",
		Description: "Rotates a scene object in radians. Omitted axes keep their current value; the intent is forwarded to the authority for rebroadcast.",
	}
}

// ObjectRotateHandler executes a rotation intent through the session.
func ObjectRotateHandler(mutator Mutator) mcp.ToolHandlerFor[ObjectRotateInput, ObjectMutationResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ObjectRotateInput) (*mcp.CallToolResult, ObjectMutationResult, error) {
		update := scene.PartialVec3{X: input.X, Y: input.Y, Z: input.Z}
		if !mutator.RequestRotate(input.ObjectID, update) {
			return nil, ObjectMutationResult{}, fmt.Errorf("object %q not found", input.ObjectID)
		}
		return nil, mutationResult(mutator, input.ObjectID), nil
	}
}

// ObjectAddInput creates a new object entity.
type ObjectAddInput struct {
	ID       string     `json:"id" jsonschema:"stable entity identifier"`
	Name     string     `json:"name,omitempty" jsonschema:"display name"`
	Model    string     `json:"model" jsonschema:"model reference for the asset loader"`
	Category string     `json:"category,omitempty" jsonschema:"category tag"`
	Movable  bool       `json:"movable,omitempty" jsonschema:"whether the object may be moved"`
	Position scene.Vec3 `json:"position" jsonschema:"world position in meters"`
	Rotation scene.Vec3 `json:"rotation,omitzero" jsonschema:"Euler rotation in radians"`
}

// ObjectAddResult reports the created entity id.
type ObjectAddResult struct {
	ID string `json:"id" jsonschema:"created entity identifier"`
}

// ObjectAddTool defines the MCP tool schema for adding an object.
func ObjectAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "object_add",
		Description: "Adds a new object entity to the scene store. Instantiation is handled by the external loader.",
	}
}

// ObjectAddHandler creates an object entity through the session.
func ObjectAddHandler(mutator Mutator) mcp.ToolHandlerFor[ObjectAddInput, ObjectAddResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ObjectAddInput) (*mcp.CallToolResult, ObjectAddResult, error) {
		entity := scene.Entity{
			ID:   input.ID,
			Name: input.Name,
			Kind: scene.KindObject,
			Transform: scene.Transform{
				Position: input.Position,
				Rotation: input.Rotation,
				Scale:    scene.Vec3{X: 1, Y: 1, Z: 1},
			},
			Object: &scene.Object{
				Model:      input.Model,
				Category:   input.Category,
				Properties: map[string]any{"movable": input.Movable},
			},
		}
		id, err := mutator.AddEntity(entity)
		if err != nil {
			return nil, ObjectAddResult{}, err
		}
		return nil, ObjectAddResult{ID: id}, nil
	}
}

// ObjectRemoveInput removes an entity by id.
type ObjectRemoveInput struct {
	ID string `json:"id" jsonschema:"entity identifier"`
}

// ObjectRemoveResult reports the removed entity id.
type ObjectRemoveResult struct {
	ID string `json:"id" jsonschema:"removed entity identifier"`
}

// ObjectRemoveTool defines the MCP tool schema for removing an entity.
func ObjectRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "object_remove",
		Description: "Removes an entity from the scene store and evicts its runtime handles.",
	}
}

// ObjectRemoveHandler removes an entity through the session.
func ObjectRemoveHandler(mutator Mutator) mcp.ToolHandlerFor[ObjectRemoveInput, ObjectRemoveResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ObjectRemoveInput) (*mcp.CallToolResult, ObjectRemoveResult, error) {
		if !mutator.RemoveEntity(input.ID) {
			return nil, ObjectRemoveResult{}, fmt.Errorf("entity %q not found", input.ID)
		}
		return nil, ObjectRemoveResult{ID: input.ID}, nil
	}
}

func mutationResult(mutator Mutator, id string) ObjectMutationResult {
	entity, _ := mutator.Store().GetByID(id)
	return ObjectMutationResult{
		ObjectID: id,
		Position: entity.Transform.Position,
		Rotation: entity.Transform.Rotation,
	}
}
