package sourcecode

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type FileSummary struct {
	Filename string `csv:"filename"`
	Lines    int    `csv:"lines"`
	Bytes    int    `csv:"bytes"`
}

func SummarizeFiles(files []SourceFile) []*FileSummary {
	summaries := make([]*FileSummary, 0, len(files))
	for _, f := range files {
		lines := strings.Count(f.Code, "\n")
		if f.Code != "" && !strings.HasSuffix(f.Code, "\n") {
			lines++
		}
		summaries = append(summaries, &FileSummary{
			Filename: f.Filename,
			Lines:    lines,
			Bytes:    len(f.Code),
		})
	}
	return summaries
}

func WriteFileSummariesCSV(w io.Writer, files []SourceFile) error {
	summaries := SummarizeFiles(files)
	return gocsv.Marshal(&summaries, w)
}

// WriteFiles writes each source file under dir using its filename as the relative path.
// Files reported without a .sol extension (single file contracts) get one appended.
func WriteFiles(fs afero.Fs, dir string, files []SourceFile) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := safeRelativePath(f.Filename)
		if err != nil {
			return written, err
		}
		if path.Ext(rel) != ".sol" {
			rel += ".sol"
		}

		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.Wrapf(err, "failed to create directory for %s", f.Filename)
		}
		if err := afero.WriteFile(fs, target, []byte(f.Code), 0o644); err != nil {
			return written, errors.Wrapf(err, "failed to write source file %s", f.Filename)
		}
		written = append(written, target)
	}
	return written, nil
}

func safeRelativePath(filename string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(filename, "\\", "/"))
	rel := strings.TrimPrefix(cleaned, "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("invalid source filename %q", filename)
	}
	return rel, nil
}
