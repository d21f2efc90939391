package project

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// Schema describes the project file, or the export manifest when manifest is true.
func Schema(manifest bool) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "file", "canvas", "manifest":
			return filepath.Base(t.PkgPath()) + "." + name
		}
		return name
	}

	if manifest {
		return reflector.Reflect(&Manifest{})
	}
	return reflector.Reflect(&File{})
}
