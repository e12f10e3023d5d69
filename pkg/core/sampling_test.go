package core

import (
	"math"
	"testing"
)

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Expected point on XY plane, got %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v is outside the unit disk", p)
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	var mean Vec3
	const n = 5000
	for i := 0; i < n; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1 {
			t.Fatalf("Point %v is outside the unit sphere", p)
		}
		mean = mean.Add(p)
	}

	// Uniform samples inside the sphere should be centered on the origin
	mean = mean.Divide(n)
	if mean.Length() > 0.05 {
		t.Errorf("Expected sample mean near origin, got %v", mean)
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(7)

	for i := 0; i < 1000; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
	}
}

func TestRandomInRange(t *testing.T) {
	sampler := NewSeededSampler(1)

	for i := 0; i < 1000; i++ {
		v := RandomInRange(sampler, 2, 5)
		if v < 2 || v >= 5 {
			t.Fatalf("Value %f outside [2, 5)", v)
		}
	}
}
