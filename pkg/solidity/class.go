package solidity

type ClassKind string

const (
	ClassKind_Contract  ClassKind = "contract"
	ClassKind_Abstract  ClassKind = "abstract"
	ClassKind_Interface ClassKind = "interface"
	ClassKind_Library   ClassKind = "library"
)

type Import struct {
	// Path is the import path as written in the source
	Path string `json:"path"`
	// ResolvedPath is Path after relative resolution and remappings, comparable to source filenames
	ResolvedPath string `json:"resolvedPath"`
}

// Class is one contract, abstract contract, interface or library.
type Class struct {
	Name         string    `json:"name"`
	Kind         ClassKind `json:"kind"`
	RelativePath string    `json:"relativePath"`
	Bases        []string  `json:"bases"`
	Imports      []Import  `json:"imports"`
}

func (c *Class) GetRelativePath() string {
	return c.RelativePath
}
