package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"go.uber.org/zap"
)

var defaultBackoffSchedule = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

var rateLimitPattern = regexp.MustCompile(`^Max rate limit reached`)

type EtherscanClient struct {
	httpClient      *http.Client
	Logger          *zap.Logger
	Config          *config.Config
	backoffSchedule []time.Duration
}

type EtherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func NewEtherscanClient(hc *http.Client, l *zap.Logger, cfg *config.Config) *EtherscanClient {
	retries := cfg.ExplorerConfig.RateLimitRetries
	if retries < 0 {
		retries = 0
	}
	if retries > len(defaultBackoffSchedule) {
		retries = len(defaultBackoffSchedule)
	}
	return &EtherscanClient{
		httpClient:      hc,
		Logger:          l,
		Config:          cfg,
		backoffSchedule: defaultBackoffSchedule[:retries],
	}
}

// SetBackoffSchedule replaces the waits used between rate limited attempts. An empty schedule disables retries.
func (ec *EtherscanClient) SetBackoffSchedule(schedule []time.Duration) {
	ec.backoffSchedule = schedule
}

func (ec *EtherscanClient) buildUrl(values url.Values) (string, error) {
	u, err := url.Parse(ec.Config.GetExplorerUrl())
	if err != nil {
		return "", err
	}
	// keep parameters already on the base url, e.g. chainid
	query := u.Query()
	for k, v := range values {
		query[k] = v
	}
	if ec.Config.ExplorerConfig.ApiKey != "" {
		query.Set("apikey", ec.Config.ExplorerConfig.ApiKey)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (ec *EtherscanClient) makeRequest(ctx context.Context, values url.Values) (*EtherscanResponse, error) {
	fullUrl, err := ec.buildUrl(values)
	if err != nil {
		ec.Logger.Sugar().Errorw("Failed to build the explorer URL",
			zap.Error(err),
		)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, http.NoBody)
	if err != nil {
		ec.Logger.Sugar().Errorw("Failed to create the explorer HTTP request",
			zap.Error(err),
		)
		return nil, err
	}

	req.Header.Set("User-Agent", "sol2uml(Go)")
	req.Header.Set("Accept", "application/json")

	ec.Logger.Sugar().Debugw("Sending explorer request",
		zap.String("module", values.Get("module")),
		zap.String("action", values.Get("action")),
		zap.String("address", values.Get("address")),
	)

	res, err := ec.httpClient.Do(req)
	if err != nil {
		ec.Logger.Sugar().Errorw("Failed to perform the explorer HTTP request",
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", sourcecode.ErrNoHttpResponse, err)
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		ec.Logger.Sugar().Errorw("Failed to read the explorer HTTP response",
			zap.Error(err),
		)
		return nil, &sourcecode.TransportError{StatusCode: res.StatusCode, Status: res.Status, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &sourcecode.TransportError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       string(bodyBytes),
		}
	}

	parsedBody := &EtherscanResponse{}
	if err := json.Unmarshal(bodyBytes, parsedBody); err != nil {
		ec.Logger.Sugar().Errorw("Failed to parse json from the explorer response",
			zap.Error(err),
		)
		return nil, &sourcecode.TransportError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       string(bodyBytes),
			Err:        err,
		}
	}

	ec.Logger.Sugar().Debugw("Received explorer response",
		zap.String("status", parsedBody.Status),
		zap.String("message", parsedBody.Message),
	)
	return parsedBody, nil
}

func isRateLimited(res *EtherscanResponse) bool {
	if res.Status == "1" {
		return false
	}
	var result string
	if err := json.Unmarshal(res.Result, &result); err != nil {
		return false
	}
	return rateLimitPattern.MatchString(result)
}

func (ec *EtherscanClient) makeRequestWithBackoff(ctx context.Context, values url.Values) (*EtherscanResponse, error) {
	for attempt := 0; ; attempt++ {
		res, err := ec.makeRequest(ctx, values)
		if err != nil {
			return nil, err
		}

		if !isRateLimited(res) || attempt >= len(ec.backoffSchedule) {
			return res, nil
		}

		backoff := ec.backoffSchedule[attempt]
		ec.Logger.Sugar().Infow("Rate limit reached, backing off",
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", sourcecode.ErrNoHttpResponse, ctx.Err())
		case <-time.After(backoff):
		}
	}
}

func (ec *EtherscanClient) buildBaseUrlParams(module string, action string) url.Values {
	return url.Values{
		"module": []string{module},
		"action": []string{action},
	}
}

// GetSourceCode calls the getsourcecode action for an address. The result is returned raw so the
// caller can deal with the different shapes explorers use.
func (ec *EtherscanClient) GetSourceCode(ctx context.Context, address string) (*EtherscanResponse, error) {
	baseUrlParams := ec.buildBaseUrlParams("contract", "getsourcecode")
	baseUrlParams.Add("address", address)

	res, err := ec.makeRequestWithBackoff(ctx, baseUrlParams)
	if err != nil {
		ec.Logger.Sugar().Errorw("Failed to get source code from the explorer",
			zap.Error(err),
			zap.String("address", address),
		)
		return nil, err
	}
	return res, nil
}
