package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ShadowAcneEpsilon is the minimum hit distance for secondary rays.
// It keeps a scattered ray from re-hitting the surface it left.
const ShadowAcneEpsilon = 0.001

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
