package sourceFetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/internal/metrics"
	"github.com/MainbaseT/sol2uml/internal/metrics/metricsTypes"
	"github.com/MainbaseT/sol2uml/pkg/clients/etherscan"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ExplorerClient interface {
	GetSourceCode(ctx context.Context, address string) (*etherscan.EtherscanResponse, error)
}

type SourceFetcher struct {
	client      ExplorerClient
	metricsSink *metrics.MetricsSink
	Logger      *zap.Logger
}

func NewSourceFetcher(client ExplorerClient, ms *metrics.MetricsSink, l *zap.Logger) *SourceFetcher {
	return &SourceFetcher{
		client:      client,
		metricsSink: ms,
		Logger:      l,
	}
}

// NewSourceFetcherFromConfig wires an Etherscan client for the configured network.
// It returns config.ErrMissingApiKey when neither an api key nor a custom explorer url is set.
func NewSourceFetcherFromConfig(cfg *config.Config, hc *http.Client, ms *metrics.MetricsSink, l *zap.Logger) (*SourceFetcher, error) {
	if err := cfg.ExplorerConfig.Validate(); err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.ExplorerConfig.Timeout}
	}
	return NewSourceFetcher(etherscan.NewEtherscanClient(hc, l, cfg), ms, l), nil
}

// FetchSourceCode gets the verified source files of a contract.
// When filename is not empty only files named <filename>.sol, in any directory, are kept.
func (sf *SourceFetcher) FetchSourceCode(ctx context.Context, address string, filename string) (*sourcecode.FetchResult, error) {
	description := fmt.Sprintf("get verified source code for address %s from explorer", address)

	if !common.IsHexAddress(address) {
		return nil, errors.WithMessagef(sourcecode.ErrInvalidAddress, "failed to %s", description)
	}

	result, err := sf.fetch(ctx, address, filename)

	_ = sf.metricsSink.Incr(metricsTypes.Metric_Incr_ExplorerRequest, []metricsTypes.MetricsLabel{
		{Name: "outcome", Value: sourcecode.Kind(err)},
	}, 1)

	if err != nil {
		sf.Logger.Sugar().Errorw("Failed to get verified source code",
			zap.Error(err),
			zap.String("address", address),
			zap.String("filename", filename),
		)
		return nil, errors.WithMessagef(err, "failed to %s", description)
	}

	_ = sf.metricsSink.Gauge(metricsTypes.Metric_Gauge_SourceFiles, float64(len(result.Files)), nil)

	sf.Logger.Sugar().Debugw("Got verified source code",
		zap.String("address", address),
		zap.String("contractName", result.ContractName),
		zap.Int("files", len(result.Files)),
	)
	return result, nil
}

func (sf *SourceFetcher) fetch(ctx context.Context, address string, filename string) (*sourcecode.FetchResult, error) {
	start := time.Now()
	res, err := sf.client.GetSourceCode(ctx, address)
	_ = sf.metricsSink.Timing(metricsTypes.Metric_Timing_ExplorerRequestDuration, time.Since(start), nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(res.Result)
	if err != nil {
		return nil, err
	}

	result := &sourcecode.FetchResult{
		Files:            []sourcecode.SourceFile{},
		ContractMetadata: records[0].Metadata(),
		Remappings:       []sourcecode.Remapping{},
	}

	seen := make(map[string]bool)
	for _, record := range records {
		files, remappings, err := sourcecode.NormalizeRecord(record, address)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f.Filename] {
				return nil, &sourcecode.MalformedSourceCodeError{
					Raw: string(record.SourceCode),
					Err: errors.Errorf("duplicate source filename %s", f.Filename),
				}
			}
			seen[f.Filename] = true
			result.Files = append(result.Files, f)
		}
		result.Remappings = append(result.Remappings, remappings...)
	}

	if filename == "" {
		return result, nil
	}

	result.Files = filterByBaseName(result.Files, filename+".sol")
	if len(result.Files) == 0 {
		return nil, errors.Wrapf(sourcecode.ErrFileNotFound, "no source file with name %s.sol", filename)
	}
	return result, nil
}

func decodeRecords(raw json.RawMessage) ([]sourcecode.ExplorerRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.Wrapf(sourcecode.ErrUnexpectedResponseShape, "result is not an array: %s", sourcecode.Preview(string(raw)))
	}

	var records []sourcecode.ExplorerRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, errors.Wrapf(sourcecode.ErrUnexpectedResponseShape, "failed to decode result records: %v", err)
	}
	if len(records) == 0 {
		return nil, errors.Wrap(sourcecode.ErrUnexpectedResponseShape, "result array is empty")
	}
	return records, nil
}

func filterByBaseName(files []sourcecode.SourceFile, baseName string) []sourcecode.SourceFile {
	filtered := make([]sourcecode.SourceFile, 0)
	for _, f := range files {
		if path.Base(f.Filename) == baseName {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
