package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
// World is fully built before rendering starts and never modified afterward.
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Sampling     renderer.SamplingConfig
	World        *geometry.HittableList
}

// Camera builds the camera described by CameraConfig
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// Integrator builds a path tracer bounded by the scene's MaxDepth
func (s *Scene) Integrator() *integrator.PathTracingIntegrator {
	return newIntegrator(s.Sampling.MaxDepth)
}

func newIntegrator(maxDepth int) *integrator.PathTracingIntegrator {
	if maxDepth <= 0 {
		maxDepth = integrator.DefaultMaxDepth
	}
	return integrator.NewPathTracingIntegrator(maxDepth)
}

// NewRaytracer wires the scene into a frame renderer. Non-zero fields of
// overrides replace the scene's sampling settings.
func (s *Scene) NewRaytracer(overrides renderer.SamplingConfig, logger core.Logger) *renderer.Raytracer {
	sampling := renderer.MergeSamplingConfig(s.Sampling, overrides)
	return renderer.NewRaytracer(s.World, s.Camera(), newIntegrator(sampling.MaxDepth), sampling, logger)
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
