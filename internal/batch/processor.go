// Package batch grows, exports and renders many trees on a worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"treegen/internal/config"
	"treegen/internal/objfile"
	"treegen/internal/palette"
	"treegen/internal/postprocess"
	"treegen/internal/raster"
	"treegen/internal/scene"
	"treegen/internal/tree"
	"treegen/internal/viewmatrix"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Presets     *config.Presets
	Foliage     map[string]*scene.Mesh // extra foliage sources, see LoadFoliage
	Palettes    *palette.Cache
	PalettePath string // "" selects the built-in gradient
	Camera      viewmatrix.Camera
	RenderSize  int
	Supersample int
	Workers     int
	ExportOBJ   bool
	Render      bool
	SheetCols   int
	Logger      *slog.Logger
}

// Job is one tree: a species and a seed. Row is the species' place in
// the layout grid.
type Job struct {
	Species *config.Species
	Row     int
	Seed    int64
}

// Result holds the outcome of processing one job.
type Result struct {
	Name    string
	Species string
	Seed    int64
	Levels  int
	Tips    int
	Objects []string
	Verts   int
	Faces   int
	OBJ     string // relative to OutputDir
	Image   string // relative to OutputDir
	Success bool
	Error   string
	Kind    string // error kind for generator failures

	tile *image.NRGBA
}

// Jobs expands species × seeds in species-major order.
func Jobs(species []*config.Species, seeds []int64) []Job {
	jobs := make([]Job, 0, len(species)*len(seeds))
	for row, s := range species {
		for _, seed := range seeds {
			jobs = append(jobs, Job{Species: s, Row: row, Seed: seed})
		}
	}
	return jobs
}

// Run processes all jobs using a worker pool. Jobs not started when ctx is
// cancelled are reported as failed.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Presets == nil {
		cfg.Presets = config.DefaultPresets()
	}
	if cfg.Palettes == nil {
		cfg.Palettes = palette.NewCache(256)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default().With("component", "batch")
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Logger.Info("progress", "done", p, "total", total, "trees_per_sec", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(jobs[idx], err)
				} else {
					results[idx] = processJob(cfg, jobs[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	if cfg.Render && cfg.SheetCols > 0 {
		if err := writeSheets(cfg, results); err != nil {
			cfg.Logger.Error("contact sheet", "error", err)
		}
	}

	return results
}

func failed(job Job, err error) Result {
	r := Result{
		Name:    fmt.Sprintf("%s%d", job.Species.Name, job.Seed),
		Species: job.Species.Name,
		Seed:    job.Seed,
		Error:   err.Error(),
	}
	var te *tree.Error
	if errors.As(err, &te) {
		r.Kind = string(te.Kind)
	}
	return r
}

func processJob(cfg Config, job Job) Result {
	log := cfg.Logger.With("species", job.Species.Name, "seed", job.Seed)

	build, err := job.Species.Build(job.Seed)
	if err != nil {
		return failed(job, err)
	}

	s, err := newScene(cfg.Foliage)
	if err != nil {
		return failed(job, err)
	}

	gen := tree.New(s, tree.WithLogger(log.With("component", "tree")))
	root := cfg.Presets.Root(job.Row, job.Seed)
	res, err := gen.MakeTree(job.Seed, root, build.Name, build.JoinObjects, build.Trunk, build.Branch, build.Foliage)
	if err != nil {
		log.Warn("make tree failed", "error", err)
		return failed(job, err)
	}

	r := Result{
		Name:    res.Name,
		Species: job.Species.Name,
		Seed:    job.Seed,
		Levels:  build.Branch.Levels,
		Tips:    len(res.Tips),
		Objects: res.Objects,
	}
	objs := make([]*scene.Object, 0, len(res.Objects))
	for _, name := range res.Objects {
		obj := s.Object(name)
		if obj == nil || obj.Mesh == nil {
			continue
		}
		objs = append(objs, obj)
		r.Verts += len(obj.Mesh.Verts)
		r.Faces += len(obj.Mesh.Faces)
	}

	dir := filepath.Join(cfg.OutputDir, job.Species.Name)

	if cfg.ExportOBJ {
		r.OBJ = filepath.ToSlash(filepath.Join(job.Species.Name, fmt.Sprintf("%d.obj", job.Seed)))
		if err := objfile.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.obj", job.Seed)), objs); err != nil {
			r.Error = err.Error()
			return r
		}
	}

	if cfg.Render {
		img, err := render(cfg, objs)
		if err != nil {
			r.Error = err.Error()
			return r
		}
		r.Image = filepath.ToSlash(filepath.Join(job.Species.Name, fmt.Sprintf("%d.webp", job.Seed)))
		if err := writeWebP(filepath.Join(dir, fmt.Sprintf("%d.webp", job.Seed)), img); err != nil {
			r.Error = err.Error()
			return r
		}
		if cfg.SheetCols > 0 {
			r.tile = postprocess.FitTile(img, cfg.RenderSize, 0.9)
		}
	}

	r.Success = true
	return r
}

// newScene returns a scene holding the built-in foliage library plus
// copies of the extra sources, which replace built-ins of the same name.
func newScene(extra map[string]*scene.Mesh) (*scene.Scene, error) {
	s := scene.New()
	if err := scene.AddFoliageLibrary(s); err != nil {
		return nil, err
	}
	for name, m := range extra {
		s.Delete(name)
		if err := s.AddMesh(name, m.Clone(), foliageOrigin); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func render(cfg Config, objs []*scene.Object) (*image.NRGBA, error) {
	pal, err := cfg.Palettes.Get(cfg.PalettePath)
	if err != nil {
		return nil, err
	}
	img := raster.RenderScene(objs, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Camera:      cfg.Camera,
		Palette:     pal,
	})

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	return img, nil
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}

// writeSheets writes <species>/sheet.webp from the successful renders of
// each species, in job order.
func writeSheets(cfg Config, results []Result) error {
	var order []string
	tiles := make(map[string][]*image.NRGBA)
	for _, r := range results {
		if r.tile == nil {
			continue
		}
		if _, ok := tiles[r.Species]; !ok {
			order = append(order, r.Species)
		}
		tiles[r.Species] = append(tiles[r.Species], r.tile)
	}
	for _, sp := range order {
		sheet := postprocess.ContactSheet(tiles[sp], cfg.SheetCols)
		if err := writeWebP(filepath.Join(cfg.OutputDir, sp, "sheet.webp"), sheet); err != nil {
			return fmt.Errorf("%s: %w", sp, err)
		}
	}
	return nil
}
