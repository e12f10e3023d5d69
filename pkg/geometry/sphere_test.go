package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
	if hit != nil {
		t.Error("Expected nil hit record on miss")
	}
}

func TestSphere_Hit_ZeroDirection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name   string
		origin core.Vec3
	}{
		{"inside", core.NewVec3(0, 0, 0)},
		{"outside", core.NewVec3(0, 0, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, core.Vec3{})
			if hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1)); isHit {
				t.Errorf("Expected miss for zero direction, got hit at t=%v", hit.T)
			}
		})
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if !vecClose(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Normal.Dot(ray.Direction) > 0 {
				t.Errorf("Normal %v should face against the ray", hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if !vecClose(hit.Point, expectedPoint, 1e-9) {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// tMin past the near root falls back to the far root
	hit, isHit = sphere.Hit(ray, 1.5, math.Inf(1))
	if !isHit {
		t.Fatal("Expected far root hit")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected t=3, got t=%f", hit.T)
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected closest intersection at t=1, got t=%f", hit.T)
	}
}

func TestSphere_Hit_MaterialIsBorrowed(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != &sphere.Material {
		t.Error("Expected hit record to point at the sphere's own material")
	}
}

func TestHollowSphere_NormalPointsInward(t *testing.T) {
	for _, radius := range []float64{0.4, -0.4} {
		hollow := NewHollowSphere(core.NewVec3(0, 0, 0), radius, material.NewDielectric(1.5))
		if hollow.Radius != -0.4 {
			t.Fatalf("Expected stored radius -0.4, got %f", hollow.Radius)
		}
	}

	hollow := NewHollowSphere(core.NewVec3(0, 0, 0), 1.0, material.NewDielectric(1.5))
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := hollow.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit on hollow sphere")
	}

	// Same geometry as a regular sphere
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	// The outward normal points inward, so approaching from outside is a back face
	if hit.FrontFace {
		t.Error("Expected back face when entering a hollow sphere")
	}
	if !vecClose(hit.Normal, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0,0,1) facing the ray, got %v", hit.Normal)
	}
}

func TestHollowSphere_MirrorsPositiveSphere(t *testing.T) {
	solid := NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial)
	hollow := NewHollowSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0.2, 0.1, 0), core.NewVec3(-0.1, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)),
	}

	// outward recovers the geometric normal from an oriented hit
	outward := func(hit *material.HitRecord) core.Vec3 {
		if hit.FrontFace {
			return hit.Normal
		}
		return hit.Normal.Negate()
	}

	for i, ray := range rays {
		solidHit, ok := solid.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !ok {
			t.Fatalf("Ray %d: expected solid hit", i)
		}
		hollowHit, ok := hollow.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !ok {
			t.Fatalf("Ray %d: expected hollow hit", i)
		}

		if math.Abs(solidHit.T-hollowHit.T) > 1e-12 {
			t.Errorf("Ray %d: expected equal t, got %f and %f", i, solidHit.T, hollowHit.T)
		}
		if solidHit.FrontFace == hollowHit.FrontFace {
			t.Errorf("Ray %d: expected front face to flip", i)
		}
		if !vecClose(outward(hollowHit), outward(solidHit).Negate(), 1e-12) {
			t.Errorf("Ray %d: expected negated outward normal, got %v and %v", i, outward(solidHit), outward(hollowHit))
		}
	}
}

func TestSphere_Hit_DistanceToCenterMinusRadius(t *testing.T) {
	center := core.NewVec3(1, -2, -5)
	sphere := NewSphere(center, 1.5, testMaterial)
	origins := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(10, 3, -4),
		core.NewVec3(-7, -2, 8),
	}

	for _, origin := range origins {
		toCenter := center.Subtract(origin)
		ray := core.NewRay(origin, toCenter.Normalize())

		hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			t.Fatalf("Expected hit from %v", origin)
		}
		if expected := toCenter.Length() - 1.5; math.Abs(hit.T-expected) > 1e-9 {
			t.Errorf("From %v: expected t=%f, got t=%f", origin, expected, hit.T)
		}
	}
}

func TestSphere_Hit_InsideReturnsFarRoot(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 2.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0.5, 0, 0), core.NewVec3(1, 0, 0))

	hit, isHit := sphere.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit from inside")
	}
	if hit.T <= 0 || math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected far root t=1.5, got t=%f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Expected back face from inside")
	}
}
