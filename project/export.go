package project

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/reelcraft-cli/reelcraft/where"
)

// Manifest describes what a render of the project would contain.
// No media is encoded.
type Manifest struct {
	Name     string        `json:"name"`
	Duration float64       `json:"duration" jsonschema:"description=Timeline length in seconds."`
	Canvas   Canvas        `json:"canvas"`
	Elements []FileElement `json:"elements"`
	Exported time.Time     `json:"exported"`
	Version  string        `json:"version"`
}

// ExportPath is where the manifest of a project is written.
func ExportPath(name string) string {
	return filepath.Join(where.Exports(), util.SanitizeFilename(util.Dashed(name))+".json")
}

// Export writes the manifest and reports success or failure.
func Export(p Project, reporter notice.Reporter) (string, error) {
	f := p.File()
	manifest := Manifest{
		Name:     p.Name,
		Duration: p.Duration(),
		Canvas:   p.Canvas,
		Elements: f.Elements,
		Exported: time.Now(),
		Version:  constant.Version,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}

	path := ExportPath(p.Name)
	if err := filesystem.WriteAtomic(path, data); err != nil {
		reporter.Report(notice.New(notice.Error, "Export failed: %s", err))
		return "", err
	}

	reporter.Report(notice.New(notice.Success, "Project exported successfully"))
	return path, nil
}
