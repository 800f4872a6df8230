package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"treegen/internal/mathutil"
	"treegen/internal/objfile"
	"treegen/internal/scene"
)

// foliageOrigin is where loaded sources sit in each job's scene, clear of
// the trees.
var foliageOrigin = mathutil.Vec3{0, -80, 0}

// LoadFoliage reads every .obj file in dir. Each object in a file becomes a
// foliage source named after the object, or after the file when the object
// is unnamed. Later files win on name clashes.
func LoadFoliage(dir string) (map[string]*scene.Mesh, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("foliage: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".obj") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	out := make(map[string]*scene.Mesh)
	for _, name := range files {
		groups, err := objfile.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("foliage: %w", err)
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		for _, g := range groups {
			key := g.Name
			if key == "" {
				key = stem
			}
			out[key] = g.Mesh
		}
	}
	return out, nil
}
