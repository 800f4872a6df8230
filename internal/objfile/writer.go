// Package objfile reads and writes Wavefront OBJ meshes.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"treegen/internal/scene"
)

// Write emits every mesh object as an "o" group with world-space
// vertices and one texture coordinate per face corner. Curve objects are
// skipped.
func Write(w io.Writer, objects []*scene.Object) error {
	bw := bufio.NewWriter(w)
	vBase, vtBase := 1, 1

	fmt.Fprintln(bw, "# treegen")
	for _, obj := range objects {
		if obj == nil || obj.Mesh == nil {
			continue
		}
		fmt.Fprintf(bw, "o %s\n", obj.Name)
		if obj.Material != "" {
			fmt.Fprintf(bw, "usemtl %s\n", obj.Material)
		}
		if obj.Flat {
			fmt.Fprintln(bw, "s off")
		}

		for _, v := range obj.WorldVertices() {
			fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v[0], v[1], v[2])
		}

		vt := vtBase
		for _, f := range obj.Mesh.Faces {
			for _, uv := range f.UV {
				fmt.Fprintf(bw, "vt %.6f %.6f\n", uv[0], uv[1])
			}
		}
		for _, f := range obj.Mesh.Faces {
			bw.WriteString("f")
			for c, vi := range f.V {
				if c < len(f.UV) {
					fmt.Fprintf(bw, " %d/%d", vi+vBase, vt+c)
				} else {
					fmt.Fprintf(bw, " %d", vi+vBase)
				}
			}
			bw.WriteString("\n")
			vt += len(f.UV)
		}

		vBase += len(obj.Mesh.Verts)
		vtBase = vt
	}
	return bw.Flush()
}

// WriteFile writes objects to path, creating parent directories.
func WriteFile(path string, objects []*scene.Object) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("objfile: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objfile: create %s: %w", path, err)
	}
	if err := Write(f, objects); err != nil {
		f.Close()
		return fmt.Errorf("objfile: write %s: %w", path, err)
	}
	return f.Close()
}
