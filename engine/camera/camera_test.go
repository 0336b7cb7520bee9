package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecInDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v vs %v", i, want, got)
	}
}

func TestEyeRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		yaw, pitch float32
		moves      []func(Camera)
	}{
		{"identity", 0, 0, nil},
		{"turned", 37, -12, []func(Camera){Camera.MoveForward, Camera.MoveLeft}},
		{"steep", -200, 89, []func(Camera){Camera.MoveBackward, Camera.MoveUp, Camera.MoveRight}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(WithPosition(mgl32.Vec3{1.5, 2, -3}), WithYaw(tc.yaw), WithPitch(tc.pitch), WithStep(0.75))
			for _, m := range tc.moves {
				m(c)
			}
			impl := c.(*cameraImpl)
			eye := impl.transform().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
			assert.Equal(t, impl.position, eye)

			// the view matrix maps the eye to the view-space origin
			view := c.ApplyView()
			origin := view.Mul4x1(c.Position().Vec4(1)).Vec3()
			vecInDelta(t, mgl32.Vec3{}, origin)
		})
	}
}

func TestMovementFollowsOrientation(t *testing.T) {
	c := NewCamera(WithStep(1))
	c.MoveForward()
	vecInDelta(t, mgl32.Vec3{0, 0, -1}, c.Position())

	c.SetPosition(mgl32.Vec3{})
	c.SetOrientation(90, 0)
	c.MoveForward()
	vecInDelta(t, mgl32.Vec3{1, 0, 0}, c.Position())
	c.MoveRight()
	vecInDelta(t, mgl32.Vec3{1, 0, 1}, c.Position())

	c.SetPosition(mgl32.Vec3{})
	c.SetOrientation(0, 30)
	c.MoveForward()
	p := c.Position()
	assert.Greater(t, p.Y(), float32(0), "pitched up moves up")
	assert.InDelta(t, 1, p.Len(), 1e-5)

	c.MoveBackward()
	vecInDelta(t, mgl32.Vec3{}, c.Position())
}

func TestRotateAndClamp(t *testing.T) {
	c := NewCamera(WithSensitivity(0.5), WithRotationStep(5))
	c.Rotate(10, 4)
	assert.InDelta(t, 5, c.Yaw(), 1e-6)
	assert.InDelta(t, -2, c.Pitch(), 1e-6)

	c.Rotate(0, -1000)
	assert.Equal(t, float32(MaxPitch), c.Pitch())
	c.Rotate(0, 1000)
	assert.Equal(t, float32(-MaxPitch), c.Pitch())

	c.RotateLeft()
	c.RotateLeft()
	c.RotateRight()
	assert.InDelta(t, -5, c.Yaw(), 1e-6)

	c.SetOrientation(10, 120)
	assert.Equal(t, float32(MaxPitch), c.Pitch())
	assert.Equal(t, float32(MaxPitch), NewCamera(WithPitch(95)).Pitch())
}

func TestApplyViewLooksForward(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 1, 5}), WithYaw(90))
	view := c.ApplyView()
	ahead := view.Mul4x1(mgl32.Vec4{10, 1, 5, 1})
	assert.InDelta(t, -10, ahead.Z(), 1e-4, "a point along +X lies on the view -Z axis")
	assert.InDelta(t, 0, ahead.X(), 1e-4)
}

func TestProjectionAndAspect(t *testing.T) {
	c := NewCamera(WithFov(60), WithNear(0.5), WithFar(50), WithAspect(2))
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 2, 0.5, 50), c.Projection())

	c.SetAspect(0)
	assert.Equal(t, float32(2), c.Aspect())
	c.SetAspect(1.5)
	assert.Equal(t, float32(1.5), c.Aspect())
	assert.Equal(t, float32(60), c.Fov())
}

func TestControllerAppliesState(t *testing.T) {
	c := NewCamera(WithStep(1), WithSensitivity(1), WithRotationStep(10))
	ctrl := NewController(c)
	require.Same(t, c, ctrl.Camera())

	ctrl.Apply(input.NewState(0, 0, common.KeyW, common.KeyD))
	vecInDelta(t, mgl32.Vec3{1, 0, -1}, c.Position())

	ctrl.Apply(input.NewState(0, 0, common.KeyRight))
	assert.InDelta(t, 10, c.Yaw(), 1e-6)

	ctrl.Apply(input.NewState(5, 3))
	assert.InDelta(t, 15, c.Yaw(), 1e-6)
	assert.InDelta(t, -3, c.Pitch(), 1e-6)
}

func TestControllerOptions(t *testing.T) {
	c := NewCamera(WithStep(1))
	var jumped int
	ctrl := NewController(c,
		WithMouseLook(false),
		WithoutDefaultBindings(),
		WithBinding(common.KeySpace, func(Camera) { jumped++ }),
	)
	ctrl.Apply(input.NewState(100, 100, common.KeyW, common.KeySpace))
	assert.Equal(t, 1, jumped)
	assert.Equal(t, mgl32.Vec3{}, c.Position())
	assert.Zero(t, c.Yaw())

	assert.Panics(t, func() { NewController(nil) })
}
