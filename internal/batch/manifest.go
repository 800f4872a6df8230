package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one tree in the output manifest.
type ManifestEntry struct {
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Seed    int64    `json:"seed"`
	Levels  int      `json:"levels"`
	Tips    int      `json:"tips"`
	Objects []string `json:"objects"`
	Verts   int      `json:"verts"`
	Faces   int      `json:"faces"`
	OBJ     string   `json:"obj,omitempty"`
	Image   string   `json:"image,omitempty"`
}

// WriteManifest writes the successful results as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:    r.Name,
			Species: r.Species,
			Seed:    r.Seed,
			Levels:  r.Levels,
			Tips:    r.Tips,
			Objects: r.Objects,
			Verts:   r.Verts,
			Faces:   r.Faces,
			OBJ:     r.OBJ,
			Image:   r.Image,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
