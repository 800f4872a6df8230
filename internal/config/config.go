package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Resolve. An optional .env file is
// loaded first by LoadEnv.
const (
	EnvOutputDir = "TREEGEN_OUTPUT_DIR"
	EnvWorkers   = "TREEGEN_WORKERS"
	EnvLogLevel  = "TREEGEN_LOG_LEVEL"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	PresetsFile string `json:"presets_file"`
	FoliageDir  string `json:"foliage_dir"`
	Palette     string `json:"palette"`
	OutputDir   string `json:"output_dir"`

	// Batch
	Seeds     []int64  `json:"seeds"`
	Species   []string `json:"species"`
	ExportOBJ *bool    `json:"export_obj"`
	Render    *bool    `json:"render"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	Workers     int `json:"workers"`
	SheetCols   int `json:"sheet_columns"` // contact sheet width in tiles; negative disables

	// Logging
	LogLevel string `json:"log_level"`
	LogJSON  bool   `json:"log_json"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv loads variables from the given .env files (".env" when none are
// named) without overriding ones already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: env %s: %w", p, err)
		}
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	PresetsFile string
	OutputDir   string
	Seeds       string // "0-9" or "1,4,7"
	Species     string // comma separated preset names
	Workers     int
	NoRender    bool
	NoOBJ       bool
}

// Resolve fills in any empty fields with defaults.
// Precedence is flags, then environment, then the config file.
func (c *Config) Resolve(flags Flags) error {
	// Environment overrides config file
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	// CLI flags override both
	if flags.PresetsFile != "" {
		c.PresetsFile = flags.PresetsFile
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Seeds != "" {
		seeds, err := ParseSeeds(flags.Seeds)
		if err != nil {
			return err
		}
		c.Seeds = seeds
	}
	if flags.Species != "" {
		c.Species = splitList(flags.Species)
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.NoRender {
		c.Render = boolPtr(false)
	}
	if flags.NoOBJ {
		c.ExportOBJ = boolPtr(false)
	}

	if c.OutputDir == "" {
		c.OutputDir = "trees"
	}
	if c.FoliageDir != "" && !filepath.IsAbs(c.FoliageDir) && c.PresetsFile != "" {
		c.FoliageDir = filepath.Join(filepath.Dir(c.PresetsFile), c.FoliageDir)
	}

	// Defaults for batch and render settings
	if len(c.Seeds) == 0 {
		c.Seeds = seedRange(0, 9)
	}
	if c.ExportOBJ == nil {
		c.ExportOBJ = boolPtr(true)
	}
	if c.Render == nil {
		c.Render = boolPtr(true)
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.SheetCols == 0 {
		c.SheetCols = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// ShouldExportOBJ reports whether OBJ files are written. Valid after Resolve.
func (c *Config) ShouldExportOBJ() bool { return c.ExportOBJ == nil || *c.ExportOBJ }

// ShouldRender reports whether WebP previews are written. Valid after Resolve.
func (c *Config) ShouldRender() bool { return c.Render == nil || *c.Render }

// MaxSeeds bounds the number of seeds ParseSeeds will expand.
const MaxSeeds = 1_000_000

// ParseSeeds parses a comma separated list of seeds and inclusive ranges,
// e.g. "0-4,10,12-13".
func ParseSeeds(s string) ([]int64, error) {
	var out []int64
	for _, part := range splitList(s) {
		lo, hi, isRange := strings.Cut(part, "-")
		if isRange && lo != "" {
			a, err := strconv.ParseInt(lo, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("config: seeds %q: %w", part, err)
			}
			b, err := strconv.ParseInt(hi, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("config: seeds %q: %w", part, err)
			}
			if b < a {
				return nil, fmt.Errorf("config: seeds %q: empty range", part)
			}
			if uint64(b-a) >= uint64(MaxSeeds-len(out)) {
				return nil, fmt.Errorf("config: seeds %q: more than %d seeds", part, MaxSeeds)
			}
			out = append(out, seedRange(a, b)...)
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: seeds %q: %w", part, err)
		}
		if len(out) >= MaxSeeds {
			return nil, fmt.Errorf("config: seeds %q: more than %d seeds", s, MaxSeeds)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("config: no seeds in %q", s)
	}
	return out, nil
}

// seedRange expands [a, b]. The span must fit in an int.
func seedRange(a, b int64) []int64 {
	n := int(uint64(b-a)) + 1
	out := make([]int64, n)
	for i := range out {
		out[i] = a + int64(i)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
