package solidity

import (
	"path"
	"strings"

	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
)

type Converter struct{}

func NewConverter() *Converter {
	return &Converter{}
}

// ConvertToClasses returns one class per contract definition in the file. Every class of a file
// shares the file's imports.
func (c *Converter) ConvertToClasses(unit *SourceUnit, filename string, remappings []sourcecode.Remapping) []*Class {
	imports := make([]Import, 0)
	for _, item := range unit.Items {
		if item.Import == nil {
			continue
		}
		p := item.Import.Path()
		if p == "" {
			continue
		}
		imports = append(imports, Import{
			Path:         p,
			ResolvedPath: ResolveImportPath(filename, p, remappings),
		})
	}

	classes := make([]*Class, 0)
	for _, item := range unit.Items {
		if item.Contract == nil {
			continue
		}
		def := item.Contract

		kind := ClassKind(def.Kind)
		if def.Abstract {
			kind = ClassKind_Abstract
		}

		bases := make([]string, 0, len(def.Bases))
		for _, b := range def.Bases {
			bases = append(bases, b.TypeName())
		}

		classes = append(classes, &Class{
			Name:         def.Name,
			Kind:         kind,
			RelativePath: filename,
			Bases:        bases,
			Imports:      imports,
		})
	}
	return classes
}

// ResolveImportPath resolves "./" and "../" imports against the importing file's directory.
// Other imports are rewritten by the first remapping that matches, if any.
func ResolveImportPath(importer string, importPath string, remappings []sourcecode.Remapping) string {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		return path.Join(path.Dir(importer), importPath)
	}
	for _, r := range remappings {
		if r.From.MatchString(importPath) {
			return r.From.ReplaceAllLiteralString(importPath, r.To)
		}
	}
	return importPath
}
