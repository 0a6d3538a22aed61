package headtrack

import (
	"math"

	"github.com/louisbranch/scenesync/internal/scene"
)

// Quaternion is a unit orientation quaternion as delivered by the device
// pose source.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Euler converts the quaternion to aerospace-sequence roll/pitch/yaw
// radians, mapped onto X/Y/Z. The pitch term clamps the arcsine operand to
// [-1, 1]: floating-point error can push it slightly past the domain at
// gimbal-lock orientations, and a NaN sample is worse than a clamped one.
func (q Quaternion) Euler() scene.Vec3 {
	roll := math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}
	pitch := math.Asin(sinp)

	yaw := math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))

	return scene.Vec3{X: roll, Y: pitch, Z: yaw}
}
