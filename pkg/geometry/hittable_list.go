package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HittableList is an ordered collection of shapes tested as one.
// Shapes are added while building a scene and read concurrently afterward.
type HittableList struct {
	shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{shapes: shapes}
}

// Add appends a shape
func (l *HittableList) Add(shape Shape) {
	l.shapes = append(l.shapes, shape)
}

// Len returns the number of shapes
func (l *HittableList) Len() int {
	return len(l.shapes)
}

// Shapes returns the shapes in insertion order. Callers must not modify the slice.
func (l *HittableList) Shapes() []Shape {
	return l.shapes
}

// Hit returns the nearest intersection across all shapes.
// Each test is narrowed to the closest t found so far, so on ties the
// earlier shape wins.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.shapes {
		hit, ok := shape.Hit(ray, tMin, closestSoFar)
		// Bounds are inclusive, so an exact tie must not displace the earlier hit
		if ok && (closest == nil || hit.T < closestSoFar) {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}
