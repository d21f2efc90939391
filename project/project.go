// Package project saves and loads timelines together with their canvas
// settings, and keeps track of recently opened projects.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/reelcraft-cli/reelcraft/where"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// ErrNotFound is returned when no project file exists under a name.
var ErrNotFound = errors.New("project not found")

// DefaultName is given to projects created without one.
const DefaultName = "Untitled Project"

const extension = ".json"

// Project is a named timeline on a canvas.
type Project struct {
	Name     string
	Canvas   Canvas
	Elements []element.Element
}

// New creates an empty project.
func New(name string, canvas Canvas) Project {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return Project{Name: name, Canvas: canvas}
}

// Duration is the timeline length of the project.
func (p Project) Duration() float64 {
	return element.Duration(p.Elements)
}

// File converts the project to its serialized form.
func (p Project) File() File {
	return File{
		Name:     p.Name,
		Canvas:   p.Canvas,
		Elements: lo.Map(p.Elements, func(e element.Element, _ int) FileElement { return toFileElement(e) }),
	}
}

// FromFile rebuilds a project, rejecting unknown element kinds.
func FromFile(f File) (Project, error) {
	elements := make([]element.Element, 0, len(f.Elements))
	for _, fe := range f.Elements {
		e, err := fromFileElement(fe)
		if err != nil {
			return Project{}, err
		}
		elements = append(elements, e)
	}

	canvas := f.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = Preset(canvas.AspectRatio)
	}

	return Project{Name: f.Name, Canvas: canvas, Elements: elements}, nil
}

// Path is where a project with the given name is stored.
func Path(name string) string {
	return filepath.Join(where.Projects(), util.SanitizeFilename(name)+extension)
}

// Save writes the project atomically and records it as recently opened.
func Save(p Project) (string, error) {
	data, err := json.MarshalIndent(p.File(), "", "  ")
	if err != nil {
		return "", err
	}

	path := Path(p.Name)
	if err := filesystem.WriteAtomic(path, data); err != nil {
		return "", fmt.Errorf("save %q: %w", p.Name, err)
	}

	log.Infof("project: saved %q with %s", p.Name, util.Quantify(len(p.Elements), "element", "elements"))
	if err := Touch(p.Name, path); err != nil {
		log.Warn(err)
	}
	return path, nil
}

// Load reads a project by name, or by path when name points at a file.
func Load(name string) (Project, error) {
	path := name
	if exists, _ := filesystem.API().Exists(path); !exists || filepath.Ext(path) != extension {
		path = Path(name)
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Project{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Project{}, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return Project{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	p, err := FromFile(f)
	if err != nil {
		return Project{}, err
	}

	if err := Touch(p.Name, path); err != nil {
		log.Warn(err)
	}
	return p, nil
}

// Summary describes a saved project without decoding its elements.
type Summary struct {
	Name     string
	Path     string
	Modified time.Time
}

// List returns the saved projects, most recently modified first.
func List() ([]Summary, error) {
	dir := where.Projects()
	infos, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var summaries []Summary
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != extension || strings.HasPrefix(info.Name(), ".") {
			continue
		}

		summaries = append(summaries, Summary{
			Name:     strings.TrimSuffix(info.Name(), extension),
			Path:     filepath.Join(dir, info.Name()),
			Modified: info.ModTime(),
		})
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return b.Modified.Compare(a.Modified)
	})
	return summaries, nil
}

// Delete removes a saved project and its recent entry.
func Delete(name string) error {
	path := Path(name)
	if exists, _ := filesystem.API().Exists(path); !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := filesystem.API().Remove(path); err != nil {
		return err
	}
	return Forget(name)
}
