// Package scene is an in-memory host for the tree generator: a registry of
// named curve and mesh objects plus the editing operators the generator
// drives. A Scene is not safe for concurrent use; give each goroutine its
// own.
package scene

import (
	"sort"

	"treegen/internal/mathutil"
	"treegen/internal/tree"
)

var _ tree.Host = (*Scene)(nil)

// Scene maps object names to objects.
type Scene struct {
	objects   map[string]*Object
	materials map[string]bool
}

// New returns an empty scene that knows the palette material.
func New() *Scene {
	return &Scene{
		objects:   make(map[string]*Object),
		materials: map[string]bool{tree.PaletteMaterial: true},
	}
}

// Object returns the named object, or nil.
func (s *Scene) Object(name string) *Object {
	return s.objects[name]
}

// Names returns all object names, sorted.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.objects))
	for n := range s.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// AddMaterial registers a material name.
func (s *Scene) AddMaterial(name string) {
	s.materials[name] = true
}

// AddMesh stores mesh as a new object at location at.
func (s *Scene) AddMesh(name string, mesh *Mesh, at mathutil.Vec3) error {
	if _, exists := s.objects[name]; exists {
		return tree.HostFailuref("scene: object %q already exists", name)
	}
	s.objects[name] = newObject(name, KindMesh, at, nil, mesh)
	return nil
}

// Delete removes the named object. Missing names are ignored.
func (s *Scene) Delete(name string) error {
	delete(s.objects, name)
	return nil
}

func (s *Scene) get(name string) (*Object, error) {
	obj, ok := s.objects[name]
	if !ok {
		return nil, tree.HostFailuref("scene: no object %q", name)
	}
	return obj, nil
}

func (s *Scene) curve(name string) (*Object, error) {
	obj, err := s.get(name)
	if err != nil {
		return nil, err
	}
	if obj.Kind != KindCurve {
		return nil, tree.HostFailuref("scene: %q is a %s, not a curve", name, obj.Kind)
	}
	return obj, nil
}

func (s *Scene) mesh(name string) (*Object, error) {
	obj, err := s.get(name)
	if err != nil {
		return nil, err
	}
	if obj.Kind != KindMesh {
		return nil, tree.HostFailuref("scene: %q is a %s, not a mesh", name, obj.Kind)
	}
	return obj, nil
}

func (s *Scene) create(name string, obj *Object) error {
	if name == "" {
		return tree.HostFailuref("scene: empty object name")
	}
	if _, exists := s.objects[name]; exists {
		return tree.HostFailuref("scene: object %q already exists", name)
	}
	s.objects[name] = obj
	return nil
}
