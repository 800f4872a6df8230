package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"treegen/internal/batch"
	"treegen/internal/config"
	"treegen/internal/logging"
	"treegen/internal/palette"
	"treegen/internal/scene"
	"treegen/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	presetsFile := flag.String("presets", "", "Species presets YAML (default: built-in species)")
	outputDir := flag.String("output", "", "Output directory (default: trees)")
	seeds := flag.String("seeds", "", `Seeds to grow, e.g. "0-9" or "1,4,7" (default: 0-9)`)
	species := flag.String("preset", "", "Comma separated species to grow (default: all)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	noRender := flag.Bool("no-render", false, "Skip WebP previews")
	noOBJ := flag.Bool("no-obj", false, "Skip OBJ export")
	side := flag.Bool("side", false, "Render orthographic side views instead of the preview camera")
	envFile := flag.String("env", ".env", "Optional .env file with TREEGEN_* overrides")

	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env: %v\n", err)
		os.Exit(1)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override env and config file
	err := cfg.Resolve(config.Flags{
		PresetsFile: *presetsFile,
		OutputDir:   *outputDir,
		Seeds:       *seeds,
		Species:     *species,
		Workers:     *workers,
		NoRender:    *noRender,
		NoOBJ:       *noOBJ,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.LogLevel, cfg.LogJSON)
	log := slog.With("component", "treegen")

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading presets: %v\n", err)
		os.Exit(1)
	}
	selected, err := presets.Select(cfg.Species)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var foliage map[string]*scene.Mesh
	if cfg.FoliageDir != "" {
		foliage, err = batch.LoadFoliage(cfg.FoliageDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading foliage: %v\n", err)
			os.Exit(1)
		}
		log.Info("foliage sources loaded", "dir", cfg.FoliageDir, "count", len(foliage))
	}

	palettes := palette.NewCache(256)
	if cfg.ShouldRender() {
		// Load once up front; workers share the cache
		if _, err := palettes.Get(cfg.Palette); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading palette: %v\n", err)
			os.Exit(1)
		}
	}

	camera := viewmatrix.Preview()
	if *side {
		camera = viewmatrix.Side()
	}

	jobs := batch.Jobs(selected, cfg.Seeds)
	if len(jobs) == 0 {
		fmt.Println("No trees to grow.")
		os.Exit(0)
	}

	// Print summary
	fmt.Printf("Low-poly tree generator → OBJ/WebP\n")
	fmt.Printf("Species: %d, Seeds: %d, Trees: %d, Workers: %d\n", len(selected), len(cfg.Seeds), len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Presets:     presets,
		Foliage:     foliage,
		Palettes:    palettes,
		PalettePath: cfg.Palette,
		Camera:      camera,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		ExportOBJ:   cfg.ShouldExportOBJ(),
		Render:      cfg.ShouldRender(),
		SheetCols:   cfg.SheetCols,
		Logger:      slog.With("component", "batch"),
	}

	results := batch.Run(ctx, batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Grown: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			if e.Kind != "" {
				fmt.Printf("  %s [%s]: %s\n", e.Name, e.Kind, e.Error)
			} else {
				fmt.Printf("  %s: %s\n", e.Name, e.Error)
			}
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
