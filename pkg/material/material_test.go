package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// fixedSampler returns the same values on every call
type fixedSampler struct {
	value float64
	point core.Vec3
}

func (f fixedSampler) Get1D() float64            { return f.value }
func (f fixedSampler) Get2D() (float64, float64) { return f.value, f.value }
func (f fixedSampler) Get3D() core.Vec3          { return f.point }

func upwardHit(m *Material, frontFace bool) HitRecord {
	return HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: frontFace,
		Material:  m,
	}
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindLambertian, "lambertian"},
		{KindMetal, "metal"},
		{KindDielectric, "dielectric"},
		{Kind(9), "kind(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{KindLambertian, KindMetal, KindDielectric} {
		parsed, err := ParseKind(kind.String())
		if err != nil {
			t.Fatalf("Unexpected error parsing %q: %v", kind, err)
		}
		if parsed != kind {
			t.Errorf("Expected %v, got %v", kind, parsed)
		}
	}

	if _, err := ParseKind("emissive"); err == nil {
		t.Error("Expected error for unknown material type")
	}
}

func TestUnknownKindAbsorbs(t *testing.T) {
	m := Material{Kind: Kind(42)}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, scattered := m.Scatter(ray, upwardHit(&m, true), fixedSampler{value: 0.5}); scattered {
		t.Error("Expected unknown material kind to absorb")
	}
}

func TestScatterPreservesShutterTime(t *testing.T) {
	materials := []Material{
		NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
		NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0),
		NewDielectric(1.5),
	}
	ray := core.NewRayAtTime(core.NewVec3(0, 1, 0), core.NewVec3(0.2, -1, 0), 0.37)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for _, m := range materials {
		t.Run(m.Kind.String(), func(t *testing.T) {
			result, scattered := m.Scatter(ray, upwardHit(&m, true), sampler)
			if !scattered {
				t.Fatal("Expected scatter")
			}
			if result.Scattered.Time != 0.37 {
				t.Errorf("Expected scattered time 0.37, got %f", result.Scattered.Time)
			}
			if result.Scattered.Origin != core.NewVec3(0, 0, 0) {
				t.Errorf("Expected scattered ray to start at the hit point, got %v", result.Scattered.Origin)
			}
		})
	}
}
