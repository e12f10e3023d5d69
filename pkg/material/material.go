package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Kind tags the scattering behavior of a Material
type Kind uint8

const (
	// KindLambertian is an ideal diffuse reflector
	KindLambertian Kind = iota
	// KindMetal is a mirror reflector with optional fuzz
	KindMetal
	// KindDielectric is a clear refractive medium such as glass
	KindDielectric
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a kind name back to its Kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "lambertian":
		return KindLambertian, nil
	case "metal":
		return KindMetal, nil
	case "dielectric":
		return KindDielectric, nil
	default:
		return 0, fmt.Errorf("unknown material type %q", name)
	}
}

// Material is a closed set of scattering behaviors held inline as a value.
// Only the fields relevant to Kind are meaningful.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and Metal
	Fuzz            float64   // Metal, in [0, 1]
	RefractiveIndex float64   // Dielectric
}

// NewLambertian creates a diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// NewMetal creates a metal material, clamping fuzz into [0, 1]
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: max(0, min(1, fuzz))}
}

// NewDielectric creates a dielectric material
func NewDielectric(refractiveIndex float64) Material {
	return Material{Kind: KindDielectric, RefractiveIndex: refractiveIndex}
}

// Scatter turns an incoming ray at a hit into a scattered ray and attenuation.
// A false result means the ray was absorbed.
func (m *Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(rayIn, hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}
