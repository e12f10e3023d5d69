package server

import (
	"net/http"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestHandleInspect_Hit(t *testing.T) {
	_, ts := newTestServer(t)

	var resp InspectResponse
	status := getJSON(t, ts.URL+"/api/inspect?scene=two-spheres&width=16&height=9&x=8&y=4", &resp)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	if !resp.Hit {
		t.Fatal("Expected the center pixel to hit the sphere")
	}
	if resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
		t.Errorf("Expected lambertian sphere, got %s %s", resp.MaterialType, resp.GeometryType)
	}
	if !resp.FrontFace {
		t.Error("Expected front face hit")
	}
	if resp.Distance <= 0.5 || resp.Distance >= 1 {
		t.Errorf("Expected distance between 0.5 and 1, got %f", resp.Distance)
	}

	geom := resp.Properties["geometry"].(map[string]interface{})
	if geom["radius"] != 0.5 {
		t.Errorf("Expected radius 0.5, got %v", geom["radius"])
	}
}

func TestHandleInspect_Miss(t *testing.T) {
	_, ts := newTestServer(t)

	var resp InspectResponse
	if status := getJSON(t, ts.URL+"/api/inspect?scene=two-spheres&width=16&height=9&x=0&y=0", &resp); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if resp.Hit {
		t.Errorf("Expected the top-left pixel to see sky, got %+v", resp)
	}
}

func TestHandleInspect_BadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing x", "scene=two-spheres&width=16&height=9&y=1"},
		{"bad y", "scene=two-spheres&width=16&height=9&x=1&y=top"},
		{"out of bounds", "scene=two-spheres&width=16&height=9&x=16&y=0"},
		{"unknown scene", "scene=nope&width=16&height=9&x=1&y=1"},
		{"time outside shutter", "scene=two-spheres&width=16&height=9&x=1&y=1&time=0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			if status := getJSON(t, ts.URL+"/api/inspect?"+tt.query, &body); status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
			if body["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestInspectPixel_NearestShape(t *testing.T) {
	glass := material.NewDielectric(1.5)
	s := scene.NewTwoSpheresScene()
	s.World = geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -3), 0.5, material.NewLambertian(core.NewVec3(1, 0, 0))),
		geometry.NewHollowSphere(core.NewVec3(0, 0, -1), 0.5, glass),
	)

	result := inspectPixel(s, 9, 9, 4, 4, 0)
	if !result.Hit {
		t.Fatal("Expected a hit")
	}
	if result.Shape != s.World.Shapes()[1] {
		t.Errorf("Expected the nearer hollow sphere, got %T %v", result.Shape, result.Shape)
	}

	kind, _ := extractGeometryInfo(result.Shape)
	if kind != "hollow_sphere" {
		t.Errorf("Expected hollow_sphere, got %s", kind)
	}
	matKind, props := extractMaterialInfo(result.HitRecord.Material)
	if matKind != "dielectric" || props["refractiveIndex"] != 1.5 {
		t.Errorf("Expected dielectric with index 1.5, got %s %v", matKind, props)
	}
}

func TestExtractGeometryInfo_MovingSphere(t *testing.T) {
	ms := geometry.NewMovingSphere(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 0, 1, 0.2, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	kind, props := extractGeometryInfo(ms)
	if kind != "moving_sphere" {
		t.Errorf("Expected moving_sphere, got %s", kind)
	}
	if props["center1"] != [3]float64{0, 1, 0} {
		t.Errorf("Expected center1 (0, 1, 0), got %v", props["center1"])
	}
}

func TestExtractMaterialInfo_Metal(t *testing.T) {
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	kind, props := extractMaterialInfo(&gold)
	if kind != "metal" {
		t.Errorf("Expected metal, got %s", kind)
	}
	if props["fuzz"] != 0.3 {
		t.Errorf("Expected fuzz 0.3, got %v", props["fuzz"])
	}
	if props["color"] != "#cc9933" {
		t.Errorf("Expected #cc9933, got %v", props["color"])
	}
}
