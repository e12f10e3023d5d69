package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrUnknownScene is returned by Create for names that match no scene
var ErrUnknownScene = errors.New("unknown scene")

// layoutSeed fixes the random scene layouts so a name always means the same scene
const layoutSeed = 42

// SceneInfo describes a scene that Create can build
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by Create
	Name        string `json:"name"`               // Display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to JSON file (file type only)
}

type builtin struct {
	info  SceneInfo
	build func() *Scene
}

var builtins = []builtin{
	{
		info:  SceneInfo{ID: "default", Name: "Default Scene", Description: "Glass shell, diffuse and gold spheres on a ground sphere"},
		build: func() *Scene { return NewDefaultScene() },
	},
	{
		info:  SceneInfo{ID: "random", Name: "Random Spheres", Description: "Field of small random spheres around three large ones"},
		build: func() *Scene { return NewRandomScene(rand.New(rand.NewSource(layoutSeed))) },
	},
	{
		info:  SceneInfo{ID: "motion-blur", Name: "Motion Blur", Description: "Random spheres with bouncing diffuse spheres"},
		build: func() *Scene { return NewMotionBlurScene(rand.New(rand.NewSource(layoutSeed))) },
	},
	{
		info:  SceneInfo{ID: "two-spheres", Name: "Two Spheres", Description: "One diffuse sphere on a ground sphere"},
		build: func() *Scene { return NewTwoSpheresScene() },
	},
}

// Names returns the IDs of the built-in scenes in display order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.info.ID)
	}
	return names
}

// ListBuiltinScenes returns metadata for the built-in scenes
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// Create builds a built-in scene by ID, or loads a JSON scene when name ends in .json
func Create(name string) (*Scene, error) {
	if strings.HasSuffix(name, ".json") {
		return LoadFile(name)
	}

	for _, b := range builtins {
		if b.info.ID == name {
			return b.build(), nil
		}
	}

	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}
