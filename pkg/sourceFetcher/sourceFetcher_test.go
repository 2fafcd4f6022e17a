package sourceFetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/internal/logger"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/jarcoal/httpmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	mockUrl     = "https://api.etherscan.io/v2/api"
)

func setup() (*zap.Logger, *config.Config, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	if err != nil {
		return nil, nil, err
	}
	cfg := &config.Config{
		Network: "ethereum",
		ExplorerConfig: config.ExplorerConfig{
			ApiKey: "test-api-key",
		},
	}
	return l, cfg, nil
}

// explorerResponse builds a getsourcecode body where each record's SourceCode is a JSON string
func explorerResponse(t *testing.T, sourceCodes ...string) string {
	records := make([]map[string]any, 0, len(sourceCodes))
	for i, sc := range sourceCodes {
		name := "Foo"
		if i > 0 {
			name = "Other"
		}
		records = append(records, map[string]any{
			"SourceCode":      sc,
			"ContractName":    name,
			"CompilerVersion": "v0.8.19+commit.7dd6d404",
			"ABI":             "[]",
		})
	}
	body, err := json.Marshal(map[string]any{
		"status":  "1",
		"message": "OK",
		"result":  records,
	})
	require.Nil(t, err)
	return string(body)
}

const fooBarProject = `{
	"language": "Solidity",
	"sources": {
		"contracts/Foo.sol": {"content": "contract Foo is Bar {}"},
		"contracts/lib/Bar.sol": {"content": "contract Bar {}"}
	},
	"settings": {"remappings": ["@openzeppelin/=lib/openzeppelin-contracts/"]}
}`

func Test_SourceFetcher(t *testing.T) {
	l, cfg, err := setup()
	if err != nil {
		t.Fatal(err)
	}

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	mockHttpClient := &http.Client{
		Transport: httpmock.DefaultTransport,
	}

	sf, err := NewSourceFetcherFromConfig(cfg, mockHttpClient, nil, l)
	require.Nil(t, err)

	t.Run("Test fetching a multi file project", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, "{"+fooBarProject+"}")))

		result, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		require.Nil(t, err)

		require.Len(t, result.Files, 2)
		assert.Equal(t, "contracts/Foo.sol", result.Files[0].Filename)
		assert.Equal(t, "contracts/lib/Bar.sol", result.Files[1].Filename)
		assert.Equal(t, "Foo", result.ContractName)
		assert.Equal(t, "v0.8.19+commit.7dd6d404", result.CompilerVersion)
		require.Len(t, result.Remappings, 1)
		assert.Equal(t, "@openzeppelin/=lib/openzeppelin-contracts/", result.Remappings[0].String())
	})
	t.Run("Test filtering by file name", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, fooBarProject)))

		result, err := sf.FetchSourceCode(context.Background(), testAddress, "Foo")
		require.Nil(t, err)

		require.Len(t, result.Files, 1)
		assert.Equal(t, "contracts/Foo.sol", result.Files[0].Filename)
		assert.Equal(t, "Foo", result.ContractName)
	})
	t.Run("Test filter is case sensitive and missing files fail", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, fooBarProject)))

		for _, filename := range []string{"Baz", "foo"} {
			result, err := sf.FetchSourceCode(context.Background(), testAddress, filename)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, sourcecode.ErrFileNotFound), filename)
		}
	})
	t.Run("Test single file contract is named after the address", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, "pragma solidity ^0.8.0;\ncontract Foo {}")))

		result, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		require.Nil(t, err)

		require.Len(t, result.Files, 1)
		assert.Equal(t, testAddress, result.Files[0].Filename)
		assert.Equal(t, []sourcecode.Remapping{}, result.Remappings)
	})
	t.Run("Test unverified contract", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, "")))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrUnverifiedContract))
		assert.Contains(t, err.Error(), "failed to get verified source code for address "+testAddress+" from explorer")
	})
	t.Run("Test malformed SourceCode json", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, `{"sources": {`)))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrMalformedSourceCode))

		var me *sourcecode.MalformedSourceCodeError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, `{"sources": {`, me.Raw)
	})
	t.Run("Test result that is not an array", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrUnexpectedResponseShape))
		assert.Contains(t, err.Error(), "Invalid API Key")
	})
	t.Run("Test empty result array", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, `{"status":"1","message":"OK","result":[]}`))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrUnexpectedResponseShape))
	})
	t.Run("Test http error status", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(503, `Service Unavailable`))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrTransport))

		var te *sourcecode.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, 503, te.StatusCode)
	})
	t.Run("Test no http response", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewErrorResponder(errors.New("dial tcp: lookup api.etherscan.io: no such host")))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrNoHttpResponse))
	})
	t.Run("Test records are flattened and metadata comes from the first", func(t *testing.T) {
		second := `{"sources": {"contracts/Other.sol": {"content": "contract Other {}"}}, "settings": {"remappings": ["ds-test/=lib/ds-test/src/"]}}`
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, fooBarProject, second)))

		result, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		require.Nil(t, err)

		assert.Len(t, result.Files, 3)
		assert.Equal(t, "contracts/Other.sol", result.Files[2].Filename)
		assert.Equal(t, "Foo", result.ContractName)
		require.Len(t, result.Remappings, 2)
		assert.Equal(t, "ds-test/=lib/ds-test/src/", result.Remappings[1].String())
	})
	t.Run("Test duplicate filenames across records", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockUrl,
			httpmock.NewStringResponder(200, explorerResponse(t, fooBarProject, fooBarProject)))

		_, err := sf.FetchSourceCode(context.Background(), testAddress, "")
		assert.True(t, errors.Is(err, sourcecode.ErrMalformedSourceCode))
		assert.Contains(t, err.Error(), "duplicate source filename contracts/Foo.sol")
	})
	t.Run("Test invalid address does not call the explorer", func(t *testing.T) {
		calls := 0
		httpmock.RegisterResponder("GET", mockUrl,
			func(req *http.Request) (*http.Response, error) {
				calls++
				return httpmock.NewStringResponse(200, explorerResponse(t, fooBarProject)), nil
			})

		_, err := sf.FetchSourceCode(context.Background(), "0x1234", "")
		assert.True(t, errors.Is(err, sourcecode.ErrInvalidAddress))
		assert.Equal(t, 0, calls)
	})
}

func Test_NewSourceFetcherFromConfig(t *testing.T) {
	l, _, err := setup()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Test missing api key is a configuration error", func(t *testing.T) {
		cfg := &config.Config{Network: "ethereum"}
		sf, err := NewSourceFetcherFromConfig(cfg, nil, nil, l)
		assert.Nil(t, sf)
		assert.True(t, errors.Is(err, config.ErrMissingApiKey))
	})
	t.Run("Test custom url does not need an api key", func(t *testing.T) {
		cfg := &config.Config{
			Network:        "ethereum",
			ExplorerConfig: config.ExplorerConfig{Url: "https://explorer.example.org/api"},
		}
		sf, err := NewSourceFetcherFromConfig(cfg, nil, nil, l)
		assert.Nil(t, err)
		assert.NotNil(t, sf)
	})
}
