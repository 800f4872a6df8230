// Package tree grows low-poly trees: a trunk curve, recursive branches
// split from its tips, foliage meshes at the final tips, and the mesh
// finalization that turns the skeleton into renderable geometry.
//
// All scene edits go through a Host. One Generator call is fully
// synchronous and owns the host's scene for its duration.
package tree

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"treegen/internal/mathutil"
)

// pcgStream is the fixed second PCG word; the seed supplies the first.
const pcgStream = 0x7265656774726565

// Generator builds trees into a Host.
type Generator struct {
	host Host
	log  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New returns a Generator editing host.
func New(host Host, opts ...Option) *Generator {
	g := &Generator{
		host: host,
		log:  slog.Default().With("component", "tree"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result describes what MakeTree left in the scene.
type Result struct {
	Name    string
	Tips    []PointReference // terminal tips, in growth order
	Objects []string         // objects still present in the scene
}

// NewRand returns the generator's random stream for seed. MakeTree uses
// exactly this stream, so draws made from it are reproducible.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}

// MakeTree builds the tree called name at root. The same seed and configs
// always produce the same tree.
//
// Any existing object called name is replaced. If joinObjects is set the
// foliage layers are merged into the tree mesh, otherwise they stay as
// separate objects named FoliageName(name, i).
//
// Configuration errors are reported before the scene is touched. A host
// failure aborts the call and leaves the partial object in the scene.
func (g *Generator) MakeTree(
	seed int64,
	root mathutil.Vec3,
	name string,
	joinObjects bool,
	trunk TrunkConfig,
	branch BranchConfig,
	foliage []FoliageConfig,
) (*Result, error) {
	if name == "" {
		return nil, Configurationf("tree: empty name")
	}
	if err := trunk.Validate(); err != nil {
		return nil, err
	}
	if err := branch.Validate(); err != nil {
		return nil, err
	}
	for i, fc := range foliage {
		if err := fc.Validate(); err != nil {
			return nil, Configurationf("foliage %d: %v", i, err)
		}
	}

	r := &run{
		host: g.host,
		log:  g.log.With("tree", name),
		rng:  NewRand(seed),
		seed: seed,
		root: root,
		name: name,
	}

	if err := r.host.Delete(name); err != nil {
		return nil, WrapHost(fmt.Sprintf("tree: delete %q", name), err)
	}
	if err := r.deleteStaleFoliage(); err != nil {
		return nil, err
	}

	r.log.Info("make tree", "seed", seed, "root", root, "levels", branch.Levels, "foliage_layers", len(foliage))

	trunkTip, err := r.makeTrunk(trunk)
	if err != nil {
		return nil, err
	}

	tips, err := r.growBranches(branch, trunkTip)
	if err != nil {
		return nil, err
	}

	objects := []string{name}
	for i, fc := range foliage {
		fname := FoliageName(name, i)
		objects = append(objects, fname)
		if err := r.makeFoliage(fname, tips, fc); err != nil {
			return nil, err
		}
	}

	if err := r.finalizeMesh(trunk); err != nil {
		return nil, err
	}

	if joinObjects && len(objects) > 1 {
		if err := r.host.Merge(name, objects[1:]...); err != nil {
			return nil, WrapHost(fmt.Sprintf("tree: join %q", name), err)
		}
		objects = objects[:1]
	}

	r.log.Info("tree done", "tips", len(tips), "objects", objects)
	return &Result{Name: name, Tips: tips, Objects: objects}, nil
}

// run holds the state of one MakeTree call.
type run struct {
	host Host
	log  *slog.Logger
	rng  *rand.Rand
	seed int64
	root mathutil.Vec3
	name string
}

// logSplines dumps the skeleton layout at debug level.
func (r *run) logSplines() {
	if !r.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	counts, err := r.host.Splines(r.name)
	if err != nil {
		r.log.Debug("splines unavailable", "error", err)
		return
	}
	r.log.Debug("skeleton", "splines", len(counts), "points", counts)
}

// deleteStaleFoliage removes the foliage layers left by an earlier run,
// which may have had more layers or not joined them. Layers are numbered
// from 0, so the first missing name ends the scan.
func (r *run) deleteStaleFoliage() error {
	for i := 0; ; i++ {
		fname := FoliageName(r.name, i)
		if _, err := r.host.Origin(fname); err != nil {
			return nil
		}
		if err := r.host.Delete(fname); err != nil {
			return WrapHost(fmt.Sprintf("tree: delete %q", fname), err)
		}
	}
}
