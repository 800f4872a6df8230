package main

import (
	"fmt"
	"os"

	"treegen/internal/objfile"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect file.obj [file.obj ...]")
		os.Exit(2)
	}

	status := 0
	for _, path := range os.Args[1:] {
		groups, err := objfile.ReadFile(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			status = 1
			continue
		}

		fmt.Printf("%s: %d objects\n", path, len(groups))
		for i, g := range groups {
			m := g.Mesh
			lo, hi := m.Bounds()
			tris := 0
			for _, f := range m.Faces {
				tris += len(f.V) - 2
			}
			fmt.Printf("  Object[%d] %q: verts=%d, faces=%d, tris=%d, loose parts=%d, material=%q, flat=%v\n",
				i, g.Name, len(m.Verts), len(m.Faces), tris, len(m.Islands()), g.Material, g.Flat)
			fmt.Printf("    BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
			fmt.Printf("    Size: %.2f x %.2f x %.2f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])

			uvs := m.DistinctUVs()
			fmt.Printf("    UVs: %d distinct\n", len(uvs))
			for j, uv := range uvs {
				if j == 8 {
					fmt.Printf("      ... %d more\n", len(uvs)-j)
					break
				}
				fmt.Printf("      (%.3f, %.3f)\n", uv[0], uv[1])
			}
		}
	}
	os.Exit(status)
}
