package nymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Node types accepted by the unbond endpoints
const (
	NodeTypeMixnode = "mixnode"
	NodeTypeGateway = "gateway"
)

// ErrUnexpectedStatus is matched by every APIError
var ErrUnexpectedStatus = errors.New("unexpected status code")

// APIError is a non-2xx response from the wallet backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Client talks to the wallet backend over HTTP
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client with a 30s timeout
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: 30 * time.Second}, baseURL)
}

// NewClientWithHTTP creates a client with a custom HTTP client and base URL
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// GetDelegationSummary returns every delegation of the wallet on the given network plus totals
func (c *Client) GetDelegationSummary(ctx context.Context, network string) (DelegationsSummaryResponse, error) {
	var resp DelegationsSummaryResponse
	endpoint := "/v1/delegations/summary?network=" + url.QueryEscape(network)
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetGasFee estimates the fee of a signing operation
func (c *Client) GetGasFee(ctx context.Context, operation string) (MajorCurrencyAmount, error) {
	var resp MajorCurrencyAmount
	err := c.do(ctx, http.MethodGet, "/v1/fees/"+url.PathEscape(operation), nil, &resp)
	return resp, err
}

// Unbond releases a node bonded from the main account
func (c *Client) Unbond(ctx context.Context, nodeType string) (TransactionResponse, error) {
	var resp TransactionResponse
	err := c.do(ctx, http.MethodPost, "/v1/bond/unbond", unbondRequest{NodeType: nodeType}, &resp)
	return resp, err
}

// VestingUnbond releases a node bonded from the vesting account
func (c *Client) VestingUnbond(ctx context.Context, nodeType string) (TransactionResponse, error) {
	var resp TransactionResponse
	err := c.do(ctx, http.MethodPost, "/v1/vesting/bond/unbond", unbondRequest{NodeType: nodeType}, &resp)
	return resp, err
}

// GetMixnodeStatus returns the rewarded set status of a mixnode
func (c *Client) GetMixnodeStatus(ctx context.Context, identity string) (MixnodeStatusResponse, error) {
	var resp MixnodeStatusResponse
	err := c.do(ctx, http.MethodGet, mixnodePath(identity, "status"), nil, &resp)
	return resp, err
}

// GetMixnodeStakeSaturation returns the stake saturation of a mixnode
func (c *Client) GetMixnodeStakeSaturation(ctx context.Context, identity string) (StakeSaturationResponse, error) {
	var resp StakeSaturationResponse
	err := c.do(ctx, http.MethodGet, mixnodePath(identity, "stake-saturation"), nil, &resp)
	return resp, err
}

// GetInclusionProbability returns the selection chance of a mixnode
func (c *Client) GetInclusionProbability(ctx context.Context, identity string) (InclusionProbabilityResponse, error) {
	var resp InclusionProbabilityResponse
	err := c.do(ctx, http.MethodGet, mixnodePath(identity, "inclusion-probability"), nil, &resp)
	return resp, err
}

func mixnodePath(identity, resource string) string {
	return "/v1/mixnodes/" + url.PathEscape(identity) + "/" + resource
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// readAPIError keeps the backend's human readable message when it sent one
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
	}

	return apiErr
}
