package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"treegen/internal/mathutil"
	"treegen/internal/scene"
)

// Group is one named object read from an OBJ file. Vertices are as
// written in the file.
type Group struct {
	Name     string
	Material string
	Flat     bool
	Mesh     *scene.Mesh
}

// Read parses v, vt, f, o/g, usemtl and s records. Normals and anything
// else are ignored. Faces reference the global vertex list; each group gets
// its own compacted copy of the vertices it uses.
func Read(r io.Reader) ([]Group, error) {
	var (
		verts  []mathutil.Vec3
		uvs    [][2]float64
		groups []Group
		cur    *Group
		local  map[int]int
	)

	start := func(name string) {
		groups = append(groups, Group{Name: name, Mesh: &scene.Mesh{Pieces: 1}})
		cur = &groups[len(groups)-1]
		local = make(map[int]int)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			verts = append(verts, mathutil.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("objfile: line %d: %w", line, err)
			}
			uvs = append(uvs, [2]float64{v[0], v[1]})
		case "o", "g":
			name := ""
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
			start(name)
		case "usemtl":
			if cur == nil {
				start("")
			}
			if len(fields) > 1 {
				cur.Material = fields[1]
			}
		case "s":
			if cur == nil {
				start("")
			}
			cur.Flat = len(fields) > 1 && (fields[1] == "off" || fields[1] == "0")
		case "f":
			if cur == nil {
				start("")
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("objfile: line %d: face needs 3 corners", line)
			}
			var face scene.Face
			for _, corner := range fields[1:] {
				vi, ti, err := parseCorner(corner, len(verts), len(uvs))
				if err != nil {
					return nil, fmt.Errorf("objfile: line %d: %w", line, err)
				}
				li, ok := local[vi]
				if !ok {
					li = len(cur.Mesh.Verts)
					cur.Mesh.Verts = append(cur.Mesh.Verts, verts[vi])
					local[vi] = li
				}
				face.V = append(face.V, li)
				var uv [2]float64
				if ti >= 0 {
					uv = uvs[ti]
				}
				face.UV = append(face.UV, uv)
			}
			cur.Mesh.Faces = append(cur.Mesh.Faces, face)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}

	// Drop groups without faces (e.g. a leading "o" with nothing after).
	out := groups[:0]
	for _, g := range groups {
		if len(g.Mesh.Faces) > 0 {
			out = append(out, g)
		}
	}
	return out, nil
}

// ReadFile reads the OBJ file at path.
func ReadFile(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices. Negative indices count back from the end. ti is -1 when absent.
func parseCorner(s string, nv, nt int) (vi, ti int, err error) {
	parts := strings.Split(s, "/")
	vi, err = resolveIndex(parts[0], nv)
	if err != nil {
		return 0, 0, fmt.Errorf("vertex %q: %w", s, err)
	}
	ti = -1
	if len(parts) > 1 && parts[1] != "" {
		ti, err = resolveIndex(parts[1], nt)
		if err != nil {
			return 0, 0, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	return vi, ti, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index out of range (%d entries)", n)
	}
	return i, nil
}
