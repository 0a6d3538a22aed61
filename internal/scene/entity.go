package scene

import "math"

// Kind discriminates the three entity families sharing a transform.
type Kind string

const (
	// KindStructural marks floors and walls carrying geometry dimensions.
	KindStructural Kind = "structural"
	// KindObject marks placeable model-backed objects.
	KindObject Kind = "object"
	// KindLight marks scene lights.
	KindLight Kind = "light"
)

// Light subtypes.
const (
	LightAmbient     = "ambient"
	LightDirectional = "directional"
)

// Derived renderable face suffixes for logical walls.
const (
	WallFrontSuffix = "_front"
	WallBackSuffix  = "_back"
)

// Vec3 is a point or Euler rotation in world units / radians.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the Euclidean distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PartialVec3 carries an axis-wise partial update. Nil axes are left
// untouched by merges; callers wanting full replacement supply all three.
type PartialVec3 struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

// MergeInto applies the supplied axes onto target.
func (p PartialVec3) MergeInto(target *Vec3) {
	if target == nil {
		return
	}
	if p.X != nil {
		target.X = *p.X
	}
	if p.Y != nil {
		target.Y = *p.Y
	}
	if p.Z != nil {
		target.Z = *p.Z
	}
}

// Full reports whether all three axes are supplied.
func (p PartialVec3) Full() bool {
	return p.X != nil && p.Y != nil && p.Z != nil
}

// Transform positions an entity in the scene.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Dimensions describes structural geometry extents in world units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Relation links an object to another entity by id.
type Relation struct {
	Type     string `json:"type"`
	TargetID string `json:"targetId"`
}

// Structural is the payload for floors and walls.
type Structural struct {
	Dimensions Dimensions `json:"dimensions"`
	Texture    string     `json:"texture,omitempty"`
}

// Object is the payload for model-backed objects.
type Object struct {
	Model      string         `json:"model"`
	Category   string         `json:"category,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Relations  []Relation     `json:"relations,omitempty"`
}

// Light is the payload for scene lights. A directional light's optional
// position rides on the entity transform.
type Light struct {
	Type      string  `json:"type"`
	Color     string  `json:"color,omitempty"`
	Intensity float64 `json:"intensity"`
}

// Entity is a logical scene item with a stable id. Exactly one of the kind
// payloads is set, matching Kind.
type Entity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Kind      Kind      `json:"kind"`
	Transform Transform `json:"transform"`

	Structural *Structural `json:"structural,omitempty"`
	Object     *Object     `json:"object,omitempty"`
	Light      *Light      `json:"light,omitempty"`
}

// Movable reports the object's movable property. Non-objects and objects
// without the property are not movable.
func (e Entity) Movable() bool {
	if e.Object == nil {
		return false
	}
	movable, ok := e.Object.Properties["movable"].(bool)
	return ok && movable
}

// WallFaceIDs derives the two renderable face ids of a logical wall. The
// store keeps the single wall entity; the runtime registry tracks both
// derived handles.
func WallFaceIDs(id string) (front, back string) {
	return id + WallFrontSuffix, id + WallBackSuffix
}
