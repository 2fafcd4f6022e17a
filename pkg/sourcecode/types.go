package sourcecode

import (
	"encoding/json"
	"regexp"
	"strings"
)

type SourceFile struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
}

// Remapping rewrites an import path prefix, e.g. "@openzeppelin/=lib/openzeppelin-contracts/".
// From is anchored to the start of the path.
type Remapping struct {
	From *regexp.Regexp
	To   string
}

func (r Remapping) Prefix() string {
	return strings.TrimPrefix(r.From.String(), "^")
}

func (r Remapping) String() string {
	return r.Prefix() + "=" + r.To
}

func (r Remapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		From string `json:"from"`
		To   string `json:"to"`
	}{
		From: r.Prefix(),
		To:   r.To,
	})
}

type ContractMetadata struct {
	ContractName    string `json:"contractName"`
	CompilerVersion string `json:"compilerVersion"`
}

type FetchResult struct {
	Files []SourceFile `json:"files"`
	ContractMetadata
	Remappings []Remapping `json:"remappings"`
}

func (fr *FetchResult) FindFile(filename string) (SourceFile, bool) {
	for _, f := range fr.Files {
		if f.Filename == filename {
			return f, true
		}
	}
	return SourceFile{}, false
}

// ExplorerRecord is one element of the explorer's getsourcecode result array.
// SourceCode is kept raw since explorers return it either as a string or as an object.
type ExplorerRecord struct {
	SourceCode       json.RawMessage `json:"SourceCode"`
	ContractName     string          `json:"ContractName"`
	CompilerVersion  string          `json:"CompilerVersion"`
	ABI              string          `json:"ABI,omitempty"`
	OptimizationUsed string          `json:"OptimizationUsed,omitempty"`
	Runs             string          `json:"Runs,omitempty"`
	EVMVersion       string          `json:"EVMVersion,omitempty"`
	LicenseType      string          `json:"LicenseType,omitempty"`
	Proxy            string          `json:"Proxy,omitempty"`
	Implementation   string          `json:"Implementation,omitempty"`
}

func (er ExplorerRecord) Metadata() ContractMetadata {
	return ContractMetadata{
		ContractName:    er.ContractName,
		CompilerVersion: er.CompilerVersion,
	}
}
