package sourceMerger

import (
	"fmt"
	"strings"
	"time"

	"github.com/MainbaseT/sol2uml/internal/metrics"
	"github.com/MainbaseT/sol2uml/internal/metrics/metricsTypes"
	"github.com/MainbaseT/sol2uml/pkg/solidity"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Parser interface {
	ParseSourceCode(filename string, code string) (*solidity.SourceUnit, error)
}

type Converter interface {
	ConvertToClasses(unit *solidity.SourceUnit, filename string, remappings []sourcecode.Remapping) []*solidity.Class
}

type Sorter interface {
	SortClasses(classes []*solidity.Class) []*solidity.Class
}

// VersionParser normalizes an explorer compiler version for use in a pragma.
type VersionParser func(raw string) string

// ProgressFunc is called after each source file has been parsed.
type ProgressFunc func(filename string)

type ParseError struct {
	ContractName string
	Filename     string
	Code         string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse solidity code from source file %s of contract %s: %v", e.Filename, e.ContractName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type MergedSource struct {
	SolidityCode string `json:"solidityCode"`
	ContractName string `json:"contractName"`
}

type UmlClasses struct {
	Classes      []*solidity.Class `json:"classes"`
	ContractName string            `json:"contractName"`
}

type SourceMergerConfig struct {
	// TolerateParseErrors logs files that fail to parse instead of failing,
	// so they are merged as non dependent files.
	TolerateParseErrors bool
	Progress            ProgressFunc
}

type SourceMerger struct {
	parser       Parser
	converter    Converter
	sorter       Sorter
	parseVersion VersionParser
	config       *SourceMergerConfig
	metricsSink  *metrics.MetricsSink
	Logger       *zap.Logger
}

func NewSourceMerger(
	cfg *SourceMergerConfig,
	p Parser,
	c Converter,
	s Sorter,
	vp VersionParser,
	ms *metrics.MetricsSink,
	l *zap.Logger,
) *SourceMerger {
	if cfg == nil {
		cfg = &SourceMergerConfig{}
	}
	return &SourceMerger{
		parser:       p,
		converter:    c,
		sorter:       s,
		parseVersion: vp,
		config:       cfg,
		metricsSink:  ms,
		Logger:       l,
	}
}

// NewDefaultSourceMerger uses the participle based Solidity parser from pkg/solidity.
func NewDefaultSourceMerger(cfg *SourceMergerConfig, ms *metrics.MetricsSink, l *zap.Logger) *SourceMerger {
	return NewSourceMerger(
		cfg,
		solidity.NewParser(),
		solidity.NewConverter(),
		solidity.NewSorter(),
		solidity.ParseSolidityVersion,
		ms,
		l,
	)
}

// GetUmlClasses parses every fetched file in order and converts it to classes.
func (sm *SourceMerger) GetUmlClasses(result *sourcecode.FetchResult) (*UmlClasses, error) {
	classes := make([]*solidity.Class, 0)
	for _, file := range result.Files {
		unit, err := sm.parser.ParseSourceCode(file.Filename, file.Code)
		if err != nil {
			parseErr := &ParseError{
				ContractName: result.ContractName,
				Filename:     file.Filename,
				Code:         file.Code,
				Err:          err,
			}
			if !sm.config.TolerateParseErrors {
				return nil, parseErr
			}
			sm.Logger.Sugar().Warnw("Skipping source file that failed to parse",
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
		} else {
			classes = append(classes, sm.converter.ConvertToClasses(unit, file.Filename, result.Remappings)...)
		}

		if sm.config.Progress != nil {
			sm.config.Progress(file.Filename)
		}
	}
	return &UmlClasses{
		Classes:      classes,
		ContractName: result.ContractName,
	}, nil
}

// OrderFilenames returns the filenames of the dependency sorted classes, each name once.
// Files without classes are not included.
func (sm *SourceMerger) OrderFilenames(result *sourcecode.FetchResult) ([]string, error) {
	umlClasses, err := sm.GetUmlClasses(result)
	if err != nil {
		return nil, err
	}

	sorted := sm.sorter.SortClasses(umlClasses.Classes)

	seen := make(map[string]bool)
	filenames := make([]string, 0)
	for _, c := range sorted {
		if seen[c.RelativePath] {
			continue
		}
		seen[c.RelativePath] = true
		filenames = append(filenames, c.RelativePath)
	}
	return filenames, nil
}

// MergeSourceCode flattens the fetched files into one source that compiles on its own.
func (sm *SourceMerger) MergeSourceCode(result *sourcecode.FetchResult) (*MergedSource, error) {
	start := time.Now()
	merged, err := sm.merge(result)

	_ = sm.metricsSink.Incr(metricsTypes.Metric_Incr_SourceMerged, []metricsTypes.MetricsLabel{
		{Name: "outcome", Value: mergeOutcome(err)},
	}, 1)
	_ = sm.metricsSink.Timing(metricsTypes.Metric_Timing_MergeDuration, time.Since(start), nil)

	if err != nil {
		sm.Logger.Sugar().Errorw("Failed to merge source code",
			zap.Error(err),
			zap.String("contractName", result.ContractName),
		)
		return nil, err
	}
	return merged, nil
}

func (sm *SourceMerger) merge(result *sourcecode.FetchResult) (*MergedSource, error) {
	dependentFilenames, err := sm.OrderFilenames(result)
	if err != nil {
		return nil, err
	}

	dependent := make(map[string]bool, len(dependentFilenames))
	for _, f := range dependentFilenames {
		dependent[f] = true
	}

	nonDependentFilenames := make([]string, 0)
	for _, f := range result.Files {
		if !dependent[f.Filename] {
			nonDependentFilenames = append(nonDependentFilenames, f.Filename)
		}
	}
	if len(nonDependentFilenames) > 0 {
		sm.Logger.Sugar().Debugw("Failed to find dependencies to files",
			zap.Strings("filenames", nonDependentFilenames),
		)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("pragma solidity =%s;\n", sm.parseVersion(result.CompilerVersion)))

	// non dependent files go first in case a dependency was missed
	filenames := append(nonDependentFilenames, dependentFilenames...)
	for _, filename := range filenames {
		file, ok := result.FindFile(filename)
		if !ok {
			return nil, errors.Wrapf(sourcecode.ErrMissingFileForOrdering, "failed to find file with filename %q for contract %s", filename, result.ContractName)
		}
		code := transformSource(file.Code)
		sb.WriteString(code)
		if !strings.HasSuffix(code, "\n") {
			sb.WriteString("\n")
		}
	}

	return &MergedSource{
		SolidityCode: sb.String(),
		ContractName: result.ContractName,
	}, nil
}

func mergeOutcome(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return "parse_error"
	}
	return sourcecode.Kind(err)
}
