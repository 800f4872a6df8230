package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"treegen/internal/config"
	"treegen/internal/objfile"
	"treegen/internal/viewmatrix"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		OutputDir:   t.TempDir(),
		Presets:     config.DefaultPresets(),
		Camera:      viewmatrix.Preview(),
		RenderSize:  48,
		Supersample: 2,
		Workers:     2,
		ExportOBJ:   true,
		Render:      true,
		SheetCols:   2,
		Logger:      quietLogger(),
	}
}

func selectSpecies(t *testing.T, p *config.Presets, names ...string) []*config.Species {
	t.Helper()
	sp, err := p.Select(names)
	if err != nil {
		t.Fatal(err)
	}
	return sp
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	jobs := Jobs(selectSpecies(t, cfg.Presets, "TreeCube", "TreeBushy"), []int64{0, 1})
	if len(jobs) != 4 || jobs[2].Row != 1 {
		t.Fatalf("jobs = %+v", jobs)
	}

	results := Run(context.Background(), cfg, jobs)
	for _, r := range results {
		if !r.Success {
			t.Fatalf("%s failed: %s", r.Name, r.Error)
		}
		if r.Tips == 0 && r.Species == "TreeCube" {
			t.Errorf("%s has no tips", r.Name)
		}

		img, err := os.ReadFile(filepath.Join(cfg.OutputDir, r.Image))
		if err != nil {
			t.Fatalf("%s: %v", r.Name, err)
		}
		if len(img) < 12 || string(img[0:4]) != "RIFF" || string(img[8:12]) != "WEBP" {
			t.Errorf("%s: not a WebP file", r.Image)
		}

		groups, err := objfile.ReadFile(filepath.Join(cfg.OutputDir, r.OBJ))
		if err != nil {
			t.Fatalf("%s: %v", r.OBJ, err)
		}
		if len(groups) != len(r.Objects) {
			t.Errorf("%s: %d OBJ groups for objects %v", r.Name, len(groups), r.Objects)
		}
	}

	// TreeCube joins its foliage, TreeBushy keeps it separate.
	if got := len(results[0].Objects); got != 1 {
		t.Errorf("TreeCube objects = %v", results[0].Objects)
	}
	if got := results[2].Objects; len(got) != 2 || got[1] != "TreeBushy0Foliage0" {
		t.Errorf("TreeBushy objects = %v", got)
	}

	for _, sp := range []string{"TreeCube", "TreeBushy"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, sp, "sheet.webp")); err != nil {
			t.Errorf("contact sheet for %s: %v", sp, err)
		}
	}

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 || entries[0].Name != "TreeCube0" || entries[0].Image != "TreeCube/0.webp" {
		t.Errorf("manifest = %+v", entries)
	}
}

func TestRunDeterministic(t *testing.T) {
	p := config.DefaultPresets()
	jobs := Jobs(selectSpecies(t, p, "Rhododendron"), []int64{7})

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		cfg := testConfig(t)
		cfg.Render = false
		cfg.Workers = 1 + i
		results := Run(context.Background(), cfg, jobs)
		if !results[0].Success {
			t.Fatal(results[0].Error)
		}
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, results[0].OBJ))
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("same species and seed produced different OBJ output")
	}
}

func TestRunReportsFailures(t *testing.T) {
	p, err := config.ParsePresets([]byte(`
colours:
  brown: {x: 0.47, y_min: 0.85, y_max: 0.99}
species:
  - name: Ghost
    trunk:
      height: {min: 1, max: 2}
      thickness: {min: 0.1, max: 0.2}
      base_thickness_factor: 1
      colours: [brown]
    branch: {levels_min: 1, levels_max: 1, count: {min: 2, max: 2}, length: {base: 1, factor: 1}}
    foliage:
      - meshes: [NoSuchMesh]
        scale: {min: 1, max: 1}
        colours: [brown]
`))
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	cfg.Presets = p
	results := Run(context.Background(), cfg, Jobs(selectSpecies(t, p, "Ghost"), []int64{0}))
	if results[0].Success || results[0].Kind != "host_operation" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, cfg, Jobs(selectSpecies(t, cfg.Presets, "TreeSphere"), []int64{0, 1, 2}))
	for _, r := range results {
		if r.Success || r.Error == "" {
			t.Errorf("%s ran after cancel", r.Name)
		}
	}
}

func TestLoadFoliage(t *testing.T) {
	dir := t.TempDir()
	leaf := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "Leaf.obj"), []byte(leaf), 0644); err != nil {
		t.Fatal(err)
	}
	cube := "o FoliageCube\n" + leaf + "v 0 0 1\nf 1 2 4\n"
	if err := os.WriteFile(filepath.Join(dir, "extra.OBJ"), []byte(cube), 0644); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	meshes, err := LoadFoliage(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 2 || meshes["Leaf"] == nil || meshes["FoliageCube"] == nil {
		t.Fatalf("meshes = %v", meshes)
	}

	s, err := newScene(meshes)
	if err != nil {
		t.Fatal(err)
	}
	obj := s.Object("FoliageCube")
	if obj == nil || obj.Location != foliageOrigin || len(obj.Mesh.Faces) != 2 {
		t.Errorf("FoliageCube not replaced: %+v", obj)
	}
	if s.Object("Leaf") == nil {
		t.Error("Leaf not added")
	}
}
