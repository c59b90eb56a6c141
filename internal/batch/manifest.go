package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry records one refined mesh in the output manifest.
type ManifestEntry struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Verts   int    `json:"verts"`
	Quads   int    `json:"quads,omitempty"`
	Patches int    `json:"patches,omitempty"`
	OBJ     string `json:"obj,omitempty"`
	Atlas   string `json:"atlas,omitempty"`
}

// WriteManifest writes manifest.json for the successful results.
func WriteManifest(path string, results []Result) error {
	var entries []ManifestEntry
	for _, r := range results {
		if !r.Success {
			continue
		}
		e := ManifestEntry{
			Name:    r.Name,
			Source:  r.Source,
			Verts:   r.Verts,
			Quads:   r.Quads,
			Patches: r.Patches,
		}
		if r.OBJ != "" {
			e.OBJ = filepath.Base(r.OBJ)
		}
		if r.Atlas != "" {
			e.Atlas = filepath.Base(r.Atlas)
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
