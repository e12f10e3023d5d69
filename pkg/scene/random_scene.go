package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// randomSceneCamera frames the sphere field from a low angle
func randomSceneCamera(aspectRatio float64) renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		AspectRatio:   aspectRatio,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
}

// NewRandomScene creates a 22x22 field of small random spheres around three
// large ones (glass, diffuse and metal). The layout is a pure function of random.
func NewRandomScene(random *rand.Rand, cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := randomSceneCamera(3.0 / 2.0)
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	world := newSphereField(random, false)

	return &Scene{
		Name:         "random",
		CameraConfig: cameraConfig,
		Sampling: renderer.SamplingConfig{
			Width:           600,
			Height:          400,
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
		World: world,
	}
}

// NewMotionBlurScene is the random scene with its diffuse spheres bouncing
// upward during a shutter open from time 0 to 1
func NewMotionBlurScene(random *rand.Rand, cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := randomSceneCamera(16.0 / 9.0)
	cameraConfig.Time0 = 0.0
	cameraConfig.Time1 = 1.0
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	world := newSphereField(random, true)

	return &Scene{
		Name:         "motion-blur",
		CameraConfig: cameraConfig,
		Sampling:     renderer.DefaultSamplingConfig(),
		World:        world,
	}
}

func newSphereField(random *rand.Rand, moving bool) *geometry.HittableList {
	sampler := core.NewRandomSampler(random)
	world := geometry.NewHittableList()

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())

			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				diffuse := material.NewLambertian(albedo)
				if moving {
					center1 := center.Add(core.NewVec3(0, core.RandomInRange(sampler, 0, 0.5), 0))
					world.Add(geometry.NewMovingSphere(center, center1, 0.0, 1.0, 0.2, diffuse))
				} else {
					world.Add(geometry.NewSphere(center, 0.2, diffuse))
				}
			case chooseMat < 0.95:
				albedo := core.NewVec3(
					core.RandomInRange(sampler, 0.5, 1),
					core.RandomInRange(sampler, 0.5, 1),
					core.RandomInRange(sampler, 0.5, 1),
				)
				fuzz := core.RandomInRange(sampler, 0, 0.5)
				world.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				world.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	world.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	world.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return world
}
