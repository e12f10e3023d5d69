package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// vec3 is a JSON [x, y, z] triple
type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func fromVec3(v core.Vec3) vec3 {
	return vec3{v.X, v.Y, v.Z}
}

// fileScene is the on-disk scene description
type fileScene struct {
	Name      string                  `json:"name"`
	Camera    fileCamera              `json:"camera"`
	Sampling  fileSampling            `json:"sampling"`
	Materials map[string]fileMaterial `json:"materials"`
	Objects   []fileObject            `json:"objects"`
}

type fileCamera struct {
	LookFrom      vec3    `json:"lookFrom"`
	LookAt        vec3    `json:"lookAt"`
	Up            vec3    `json:"up"`
	VFov          float64 `json:"vfov"`
	AspectRatio   float64 `json:"aspectRatio"`
	Aperture      float64 `json:"aperture"`
	FocusDistance float64 `json:"focusDistance"`
	Time0         float64 `json:"time0"`
	Time1         float64 `json:"time1"`
}

type fileSampling struct {
	Width           int `json:"width"`
	Height          int `json:"height"`
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`
}

type fileMaterial struct {
	Type   string  `json:"type"`
	Albedo vec3    `json:"albedo"`
	Fuzz   float64 `json:"fuzz"`
	IOR    float64 `json:"ior"`
}

type fileObject struct {
	Type     string  `json:"type"`
	Center   vec3    `json:"center"`
	Center0  vec3    `json:"center0"`
	Center1  vec3    `json:"center1"`
	Time0    float64 `json:"time0"`
	Time1    float64 `json:"time1"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// LoadFile reads a JSON scene description from path
func LoadFile(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes a JSON scene description. Camera and sampling fields absent
// from the file take the renderer defaults; fields present always win, zero
// included.
func Load(r io.Reader) (*Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	desc := fileScene{
		Camera:   newFileCamera(renderer.DefaultCameraConfig()),
		Sampling: newFileSampling(renderer.DefaultSamplingConfig()),
	}
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	materials := make(map[string]material.Material, len(desc.Materials))
	for name, fm := range desc.Materials {
		m, err := fm.build(name)
		if err != nil {
			return nil, err
		}
		materials[name] = m
	}

	world := geometry.NewHittableList()
	for i, obj := range desc.Objects {
		shape, err := obj.build(i, materials)
		if err != nil {
			return nil, err
		}
		world.Add(shape)
	}

	return &Scene{
		Name:         desc.Name,
		CameraConfig: desc.Camera.toConfig(),
		Sampling:     desc.Sampling.toConfig(),
		World:        world,
	}, nil
}

func newFileCamera(c renderer.CameraConfig) fileCamera {
	return fileCamera{
		LookFrom:      fromVec3(c.LookFrom),
		LookAt:        fromVec3(c.LookAt),
		Up:            fromVec3(c.Up),
		VFov:          c.VFov,
		AspectRatio:   c.AspectRatio,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		Time0:         c.Time0,
		Time1:         c.Time1,
	}
}

func (c fileCamera) toConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:      c.LookFrom.toVec3(),
		LookAt:        c.LookAt.toVec3(),
		Up:            c.Up.toVec3(),
		VFov:          c.VFov,
		AspectRatio:   c.AspectRatio,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		Time0:         c.Time0,
		Time1:         c.Time1,
	}
}

func newFileSampling(s renderer.SamplingConfig) fileSampling {
	return fileSampling{
		Width:           s.Width,
		Height:          s.Height,
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
	}
}

func (s fileSampling) toConfig() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		Width:           s.Width,
		Height:          s.Height,
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
	}
}

func (fm fileMaterial) build(name string) (material.Material, error) {
	kind, err := material.ParseKind(fm.Type)
	if err != nil {
		return material.Material{}, fmt.Errorf("material '%s': %w", name, err)
	}

	switch kind {
	case material.KindLambertian:
		return material.NewLambertian(fm.Albedo.toVec3()), nil
	case material.KindMetal:
		return material.NewMetal(fm.Albedo.toVec3(), fm.Fuzz), nil
	default:
		if fm.IOR <= 0 {
			return material.Material{}, fmt.Errorf("material '%s' ior must be positive", name)
		}
		return material.NewDielectric(fm.IOR), nil
	}
}

func (obj fileObject) build(index int, materials map[string]material.Material) (geometry.Shape, error) {
	if obj.Material == "" {
		return nil, fmt.Errorf("%s %d requires a 'material' property", obj.Type, index)
	}
	mat, ok := materials[obj.Material]
	if !ok {
		return nil, fmt.Errorf("%s %d references unknown material '%s'", obj.Type, index, obj.Material)
	}
	if obj.Radius == 0 {
		return nil, fmt.Errorf("%s %d radius must be non-zero", obj.Type, index)
	}

	switch obj.Type {
	case "sphere":
		return geometry.NewSphere(obj.Center.toVec3(), obj.Radius, mat), nil
	case "hollow-sphere":
		return geometry.NewHollowSphere(obj.Center.toVec3(), obj.Radius, mat), nil
	case "moving-sphere":
		if obj.Time1 == obj.Time0 {
			return nil, fmt.Errorf("moving-sphere %d requires time1 different from time0", index)
		}
		return geometry.NewMovingSphere(obj.Center0.toVec3(), obj.Center1.toVec3(), obj.Time0, obj.Time1, obj.Radius, mat), nil
	default:
		return nil, fmt.Errorf("unsupported object type '%s' for object %d", obj.Type, index)
	}
}
