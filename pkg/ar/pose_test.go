package ar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func yaw(rad float64) Quaternion {
	return Quaternion{Y: math.Sin(rad / 2), W: math.Cos(rad / 2)}
}

func TestQuaternion_Rotate(t *testing.T) {
	tests := []struct {
		name string
		q    Quaternion
		in   Vector3
		want Vector3
	}{
		{"identity", IdentityQuaternion(), Vector3{1, 2, 3}, Vector3{1, 2, 3}},
		{"quarter turn about y", yaw(math.Pi / 2), Vector3{X: 1}, Vector3{Z: -1}},
		{"half turn about y", yaw(math.Pi), Vector3{Z: -1}, Vector3{Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Rotate(tt.in)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-9)
		})
	}
}

func TestQuaternion_NormalizeZero(t *testing.T) {
	assert.Equal(t, IdentityQuaternion(), Quaternion{}.Normalize())
}

func TestPose_Compose(t *testing.T) {
	child := Pose{Position: Vector3{X: 1, Y: 2, Z: 3}, Orientation: yaw(0.3)}

	t.Run("identity is neutral", func(t *testing.T) {
		assert.True(t, IdentityPose().Compose(child).ApproxEqual(child, 1e-9))
	})

	t.Run("translation then rotation", func(t *testing.T) {
		parent := Pose{Position: Vector3{Y: 1.6}, Orientation: yaw(math.Pi / 2)}
		got := parent.Compose(Pose{Position: Vector3{Z: -2}, Orientation: IdentityQuaternion()})
		want := Pose{Position: Vector3{X: -2, Y: 1.6}, Orientation: yaw(math.Pi / 2)}
		assert.True(t, got.ApproxEqual(want, 1e-9), "got %+v", got)
	})

	t.Run("inverse cancels", func(t *testing.T) {
		got := child.Compose(child.Inverse())
		assert.True(t, got.ApproxEqual(IdentityPose(), 1e-9), "got %+v", got)
	})
}

func TestPose_ApproxEqualSignFlip(t *testing.T) {
	a := Pose{Orientation: yaw(1)}
	b := Pose{Orientation: Quaternion{X: -a.Orientation.X, Y: -a.Orientation.Y, Z: -a.Orientation.Z, W: -a.Orientation.W}}
	assert.True(t, a.ApproxEqual(b, 1e-9))
}
