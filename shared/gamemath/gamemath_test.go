package gamemath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLerpVec3(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{4, 0, -2}

	tests := []struct {
		name string
		t    float64
		want mgl64.Vec3
	}{
		{"zero", 0, a},
		{"half", 0.5, mgl64.Vec3{2, 0, -1}},
		{"one", 1, b},
		{"below range", -3, a},
		{"above range", 7, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LerpVec3(a, b, tt.t); !got.ApproxEqual(tt.want) {
				t.Errorf("LerpVec3(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestLerpQuat_ShortestArc(t *testing.T) {
	a := mgl64.QuatRotate(mgl64.DegToRad(170), Up)
	b := mgl64.QuatRotate(mgl64.DegToRad(-170), Up)

	mid := LerpQuat(a, b, 0.5)
	if got := math.Abs(mgl64.RadToDeg(Yaw(mid))); math.Abs(got-180) > 1e-6 {
		t.Errorf("midpoint yaw = %f, want 180", got)
	}
	if l := mid.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("midpoint length = %f, want 1", l)
	}
}

func TestYawRotation(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl64.Vec3
	}{
		{"forward", Forward},
		{"right", Right},
		{"back left", mgl64.Vec3{-1, 0, -1}},
		{"ignores height", mgl64.Vec3{1, 5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := Flatten(tt.dir).Normalize()
			if got := YawRotation(tt.dir).Rotate(Forward); got.Sub(want).Len() > 1e-9 {
				t.Errorf("forward after YawRotation(%v) = %v, want %v", tt.dir, got, want)
			}
		})
	}

	if q := YawRotation(Up); q != mgl64.QuatIdent() {
		t.Errorf("YawRotation(Up) = %v, want identity", q)
	}
}

func TestReflect(t *testing.T) {
	got := Reflect(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{-1, 0, 0})
	if want := (mgl64.Vec3{-1, 0, 1}); !got.ApproxEqual(want) {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}

func TestAngleAroundAxis(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want float64
	}{
		{"same", Forward, Forward, 0},
		{"quarter right", Forward, Right, 90},
		{"quarter left", Forward, Right.Mul(-1), -90},
		{"ignores height", Forward, mgl64.Vec3{1, 3, 0}, 90},
		{"degenerate", Forward, Up, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleAroundAxis(tt.a, tt.b, Up); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngleAroundAxis = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTurnToward_NeverOvershoots(t *testing.T) {
	q := mgl64.QuatIdent()
	for i := 0; i < 600; i++ {
		q = TurnToward(q, Right, 20, 1.0/60.0)
		if angle := AngleAroundAxis(q.Rotate(Forward), Right, Up); angle < -1e-9 {
			t.Fatalf("step %d overshot by %f degrees", i, -angle)
		}
	}
	if got := q.Rotate(Forward); !got.ApproxEqualThreshold(Right, 1e-6) {
		t.Errorf("forward = %v, want %v", got, Right)
	}
}

func TestSteerVelocity(t *testing.T) {
	got := SteerVelocity(mgl64.Vec3{0, -2, 0}, mgl64.Vec3{5, 9, 0}, 50, 0.01)
	if want := (mgl64.Vec3{2.5, -2, 0}); !got.ApproxEqual(want) {
		t.Errorf("SteerVelocity = %v, want %v", got, want)
	}
	if got := SteerVelocity(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 50, 1); !got.ApproxEqual(mgl64.Vec3{5, 0, 0}) {
		t.Errorf("SteerVelocity with large gain = %v, want target", got)
	}
}

func TestClampLength(t *testing.T) {
	if got := ClampLength(mgl64.Vec3{3, 0, 4}, 1); math.Abs(got.Len()-1) > 1e-12 {
		t.Errorf("clamped length = %f, want 1", got.Len())
	}
	short := mgl64.Vec3{0.2, 0, 0.1}
	if got := ClampLength(short, 1); got != short {
		t.Errorf("ClampLength changed short vector to %v", got)
	}
}

func TestPlaneRayIntersection(t *testing.T) {
	ground := NewPlane(Up, mgl64.Vec3{0, 0, 0})

	tests := []struct {
		name   string
		ray    Ray
		want   mgl64.Vec3
		wantOK bool
	}{
		{
			name:   "straight down",
			ray:    Ray{Origin: mgl64.Vec3{3, 10, 4}, Direction: mgl64.Vec3{0, -1, 0}},
			want:   mgl64.Vec3{3, 0, 4},
			wantOK: true,
		},
		{
			name:   "diagonal",
			ray:    Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: mgl64.Vec3{1, -1, 0}.Normalize()},
			want:   mgl64.Vec3{2, 0, 0},
			wantOK: true,
		},
		{
			name: "parallel",
			ray:  Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: Forward},
		},
		{
			name: "pointing away",
			ray:  Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: Up},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PlaneRayIntersection(ground, tt.ray)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("hit = %v, want %v", got, tt.want)
			}
		})
	}
}
