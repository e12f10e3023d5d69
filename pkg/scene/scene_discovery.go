package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ListFileScenes returns the JSON scenes found directly in dir, sorted by name.
// A missing directory yields an empty list.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), ".json")
		scenes = append(scenes, SceneInfo{
			ID:       filePath,
			Name:     titleCase(nameWithoutExt),
			Type:     "file",
			FilePath: filePath,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the JSON scenes in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list file scenes: %w", err)
	}
	return append(ListBuiltinScenes(), fileScenes...), nil
}

// titleCase turns "glass-shell_scene" into "Glass Shell Scene"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
