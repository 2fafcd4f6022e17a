package sourcecode

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Shape is the encoding an explorer used for the SourceCode field of a result record.
type Shape int

const (
	ShapeUnverified Shape = iota
	ShapeSingleFile
	ShapeWrapped
	ShapeDoubleWrapped
	ShapeSourcesObject
)

func (s Shape) String() string {
	switch s {
	case ShapeUnverified:
		return "unverified"
	case ShapeSingleFile:
		return "single-file"
	case ShapeWrapped:
		return "json-string"
	case ShapeDoubleWrapped:
		return "double-wrapped-json-string"
	case ShapeSourcesObject:
		return "sources-object"
	default:
		return "unknown"
	}
}

// keys of the standard JSON compiler input that are not source files
var standardJsonKeys = map[string]bool{
	"language": true,
	"settings": true,
}

type sourceContent struct {
	Content string `json:"content"`
}

type projectSettings struct {
	Remappings []string `json:"remappings"`
}

type project struct {
	Sources  json.RawMessage  `json:"sources"`
	Settings *projectSettings `json:"settings"`
}

// ClassifySourceCode works out which encoding the SourceCode field uses.
// For string encodings the decoded string is returned along with the shape.
func ClassifySourceCode(raw json.RawMessage) (Shape, string, error) {
	if isAbsent(raw) {
		return ShapeUnverified, "", nil
	}

	var value any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return ShapeUnverified, "", err
	}

	switch v := value.(type) {
	case bool:
		if !v {
			return ShapeUnverified, "", nil
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ShapeUnverified, "", nil
		}
		return ShapeSingleFile, v.String(), nil
	case string:
		switch {
		case v == "":
			return ShapeUnverified, "", nil
		case strings.HasPrefix(v, "{{"):
			return ShapeDoubleWrapped, v, nil
		case strings.HasPrefix(v, "{"):
			return ShapeWrapped, v, nil
		default:
			return ShapeSingleFile, v, nil
		}
	case map[string]any:
		if sources, ok := v["sources"]; ok && sources != nil {
			return ShapeSourcesObject, "", nil
		}
	}
	return ShapeSingleFile, string(raw), nil
}

// NormalizeRecord turns one explorer result record into its source files and remappings.
// Records without multiple files are named after the contract address.
func NormalizeRecord(record ExplorerRecord, address string) ([]SourceFile, []Remapping, error) {
	shape, code, err := ClassifySourceCode(record.SourceCode)
	if err != nil {
		return nil, nil, &MalformedSourceCodeError{Raw: string(record.SourceCode), Err: err}
	}

	switch shape {
	case ShapeUnverified:
		return nil, nil, ErrUnverifiedContract
	case ShapeDoubleWrapped:
		// Etherscan sometimes wraps the standard JSON input in an extra pair of braces
		return normalizeJsonString(code[1:len(code)-1], code)
	case ShapeWrapped:
		return normalizeJsonString(code, code)
	case ShapeSourcesObject:
		return normalizeSourcesObject(record.SourceCode)
	case ShapeSingleFile:
		return []SourceFile{{Filename: address, Code: code}}, []Remapping{}, nil
	default:
		return nil, nil, errors.Errorf("unhandled SourceCode shape %s", shape)
	}
}

func normalizeJsonString(parsable string, raw string) ([]SourceFile, []Remapping, error) {
	files, remappings, err := decodeProject([]byte(parsable))
	if err != nil {
		return nil, nil, &MalformedSourceCodeError{Raw: raw, Err: err}
	}
	return files, remappings, nil
}

func normalizeSourcesObject(raw json.RawMessage) ([]SourceFile, []Remapping, error) {
	files, remappings, err := decodeProject(raw)
	if err != nil {
		return nil, nil, &MalformedSourceCodeError{Raw: string(raw), Err: err}
	}
	return files, remappings, nil
}

// decodeProject reads the files of a multi file project in the order the explorer listed them.
// Files are either under a "sources" key or are the top level entries themselves.
func decodeProject(data []byte) ([]SourceFile, []Remapping, error) {
	var p project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil, err
	}

	body := []byte(p.Sources)
	topLevel := false
	if isAbsent(p.Sources) {
		body = data
		topLevel = true
	}

	entries := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(body, entries); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode source files")
	}

	if key, ok := duplicateKey(body); ok {
		return nil, nil, errors.Errorf("duplicate source filename %s", key)
	}

	files := make([]SourceFile, 0, entries.Len())
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		if topLevel && standardJsonKeys[pair.Key] {
			continue
		}
		var content sourceContent
		if err := json.Unmarshal(pair.Value, &content); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to decode source file %s", pair.Key)
		}
		files = append(files, SourceFile{
			Filename: pair.Key,
			Code:     content.Content,
		})
	}

	remappings := []Remapping{}
	if p.Settings != nil {
		remappings = ParseRemappings(p.Settings.Remappings)
	}
	return files, remappings, nil
}

// duplicateKey returns the first repeated key of a JSON object.
func duplicateKey(object []byte) (string, bool) {
	decoder := json.NewDecoder(bytes.NewReader(object))
	if tok, err := decoder.Token(); err != nil || tok != json.Delim('{') {
		return "", false
	}

	seen := make(map[string]bool)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return "", false
		}
		key, ok := tok.(string)
		if !ok {
			return "", false
		}
		if seen[key] {
			return key, true
		}
		seen[key] = true

		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return "", false
		}
	}
	return "", false
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
