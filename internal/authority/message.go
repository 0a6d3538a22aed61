package authority

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/scenesync/internal/scene"
)

// Wire message types exchanged with the authority.
const (
	// TypeObjectPositionUpdated announces an accepted object move.
	TypeObjectPositionUpdated = "object_position_updated"
	// TypeObjectRotationUpdated announces an accepted object rotation.
	TypeObjectRotationUpdated = "object_rotation_updated"
	// TypeSceneSaved acknowledges that the authority persisted the scene.
	TypeSceneSaved = "scene_saved"
	// TypeHeadPositionUpdate carries a viewer pose sample to the authority.
	TypeHeadPositionUpdate = "head_position_update"
)

// Message is the tagged envelope for every frame on the wire. Data's shape
// depends on Type; Timestamp is epoch milliseconds and only set on frames
// that carry one.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// PositionUpdate is the payload of object_position_updated frames.
type PositionUpdate struct {
	ObjectID string     `json:"objectId"`
	Name     string     `json:"name,omitempty"`
	Position scene.Vec3 `json:"position"`
}

// RotationUpdate is the payload of object_rotation_updated frames.
type RotationUpdate struct {
	ObjectID string     `json:"objectId"`
	Name     string     `json:"name,omitempty"`
	Rotation scene.Vec3 `json:"rotation"`
}

// HeadPose is the payload of head_position_update frames.
type HeadPose struct {
	Position scene.Vec3 `json:"position"`
	Rotation scene.Vec3 `json:"rotation"`
}

// NewMessage wraps a payload into a typed envelope.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Data: data}, nil
}
