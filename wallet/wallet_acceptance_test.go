package wallet_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/mixdelegator/pkg/logger"
	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/api"
	"github.com/screwyprof/mixdelegator/wallet/handler"
	"github.com/screwyprof/mixdelegator/wallet/metrics"
	"github.com/screwyprof/mixdelegator/wallet/state"
	"github.com/screwyprof/mixdelegator/wallet/testcfg"
)

const (
	settleTimeout = 5 * time.Second
	pollEvery     = 10 * time.Millisecond
)

// TestWalletAPIAcceptanceBehavior drives the wallet service against a fake wallet backend
func TestWalletAPIAcceptanceBehavior(t *testing.T) {
	t.Parallel()

	t.Run("it loads delegations from the backend and serves them sorted", func(t *testing.T) {
		t.Parallel()

		// Arrange
		backend := newFakeBackend(t)
		server := createTestServer(t, backend.URL(), "MAINNET")
		client := createTestAPIClient(t)

		// Act
		body := waitForStatus(t, client, server.URL, "loaded")

		// Assert
		assert.Equal(t, "MAINNET", body.Network)
		assert.Equal(t, "350 NYM", body.TotalDelegations)
		assert.Equal(t, "1.25 NYM", body.TotalRewards)
		require.Len(t, body.Rows, 2)
		assert.Equal(t, "DiYR9o8KgeQ81woKPYVAu4LNaAEg8SWkiufDCahNnPov", body.Rows[0].NodeIdentity)
		assert.Equal(t, "DiYR9o...hNnPov", body.Rows[0].IdentityLabel)
		assert.Equal(t, "12/02/2022", body.Rows[0].DelegatedOn)
		assert.Equal(t, "10%", body.Rows[0].ProfitMargin)
		assert.Equal(t, "85.671%", body.Rows[0].StakeSaturation)
		assert.Equal(t, "-", body.Rows[1].Reward)
		assert.True(t, body.Rows[1].Actions[2].Disabled)
	})

	t.Run("it reloads the list when the network changes", func(t *testing.T) {
		t.Parallel()

		// Arrange
		backend := newFakeBackend(t)
		server := createTestServer(t, backend.URL(), "MAINNET")
		client := createTestAPIClient(t)
		waitForStatus(t, client, server.URL, "loaded")

		// Act
		resp := postJSON(t, client, server.URL+"/network", `{"network":"SANDBOX"}`)
		accepted := parseJSONResponse[api.StateResponse](t, resp)
		body := waitForStatus(t, client, server.URL, "loaded")

		// Assert
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, "SANDBOX", accepted.Network)
		assert.Equal(t, "SANDBOX", body.Network)
		assert.Empty(t, body.Rows)
		assert.Equal(t, "empty", body.Placeholder)
		assert.Equal(t, []string{"MAINNET", "SANDBOX"}, backend.summaryRequests())
	})

	t.Run("it surfaces the backend message when the list cannot load", func(t *testing.T) {
		t.Parallel()

		// Arrange
		backend := newFakeBackend(t)
		backend.failSummaries("wallet is locked")
		server := createTestServer(t, backend.URL(), "MAINNET")
		client := createTestAPIClient(t)

		// Act
		body := waitForStatus(t, client, server.URL, "error")

		// Assert
		assert.Equal(t, "wallet is locked", body.Error)
		assert.Empty(t, body.Rows)
	})

	t.Run("it refreshes the list after a failed unbond", func(t *testing.T) {
		t.Parallel()

		// Arrange
		backend := newFakeBackend(t)
		server := createTestServer(t, backend.URL(), "MAINNET")
		client := createTestAPIClient(t)
		waitForStatus(t, client, server.URL, "loaded")

		// Act
		resp := postJSON(t, client, server.URL+"/bond/unbond", `{"node_type":"mixnode"}`)
		defer resp.Body.Close()
		waitForStatus(t, client, server.URL, "loaded")

		// Assert
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Len(t, backend.summaryRequests(), 2)
	})

	t.Run("it exports refresh metrics", func(t *testing.T) {
		t.Parallel()

		// Arrange
		backend := newFakeBackend(t)
		server := createTestServer(t, backend.URL(), "MAINNET")
		client := createTestAPIClient(t)
		waitForStatus(t, client, server.URL, "loaded")

		// Act
		var text string
		require.Eventually(t, func() bool {
			resp, err := client.Get(server.URL + "/metrics")
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			raw, _ := io.ReadAll(resp.Body)
			text = string(raw)
			return strings.Contains(text, `mixdelegator_store_delegations{network="MAINNET"} 2`)
		}, settleTimeout, pollEvery)

		// Assert
		assert.Contains(t, text, `mixdelegator_store_refreshes_finished_total{network="MAINNET",outcome="completed"} 1`)
	})
}

// fakeBackend serves the wallet backend endpoints the service depends on
type fakeBackend struct {
	server *httptest.Server

	mu          sync.Mutex
	requests    []string
	failMessage string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/delegations/summary", b.summary)
	mux.HandleFunc("POST /v1/bond/unbond", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no mixnode bonded"})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBackend) URL() string { return b.server.URL }

func (b *fakeBackend) failSummaries(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failMessage = message
}

func (b *fakeBackend) summaryRequests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *fakeBackend) summary(w http.ResponseWriter, r *http.Request) {
	network := r.URL.Query().Get("network")

	b.mu.Lock()
	b.requests = append(b.requests, network)
	failMessage := b.failMessage
	b.mu.Unlock()

	if failMessage != "" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": failMessage})
		return
	}

	if network != "MAINNET" {
		writeJSON(w, http.StatusOK, nymapi.DelegationsSummaryResponse{
			Delegations:      []nymapi.DelegationWithEverything{},
			TotalDelegations: nymapi.MajorCurrencyAmount{Amount: "0", Denom: "NYM"},
			TotalRewards:     nymapi.MajorCurrencyAmount{Amount: "0", Denom: "NYM"},
		})
		return
	}

	profit := 10.0
	saturation := 0.856712
	writeJSON(w, http.StatusOK, nymapi.DelegationsSummaryResponse{
		Delegations: []nymapi.DelegationWithEverything{
			{
				NodeIdentity:           "4yRfauFzZnejJhG2FACTVQ7UnYEcFUYw3HzXrmuwLMaR",
				Amount:                 &nymapi.MajorCurrencyAmount{Amount: "100", Denom: "NYM"},
				DelegatedOnISODatetime: "2022-03-01T08:30:00Z",
			},
			{
				NodeIdentity:           "DiYR9o8KgeQ81woKPYVAu4LNaAEg8SWkiufDCahNnPov",
				Amount:                 &nymapi.MajorCurrencyAmount{Amount: "250", Denom: "NYM"},
				AccumulatedRewards:     &nymapi.MajorCurrencyAmount{Amount: "1.25", Denom: "NYM"},
				DelegatedOnISODatetime: "2022-02-12T17:45:00Z",
				ProfitMarginPercent:    &profit,
				StakeSaturation:        &saturation,
			},
		},
		TotalDelegations: nymapi.MajorCurrencyAmount{Amount: "350", Denom: "NYM"},
		TotalRewards:     nymapi.MajorCurrencyAmount{Amount: "1.25", Denom: "NYM"},
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func createTestAPIClient(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{Timeout: settleTimeout}
}

// createTestServer wires the service the way cmd/wallet does
func createTestServer(t *testing.T, backendURL, network string) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	backend := nymapi.NewClient(backendURL)
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	store := state.NewStore(backend, network)
	events, done := store.Start(ctx)
	subCloser := state.NewSubscriber(events, recorder.SubscriberOptions()...)

	mux := http.NewServeMux()
	handler.NewDelegations(store, "https://explorer.nymtech.net").AddRoutes(mux)
	handler.NewBond(backend, store).AddRoutes(mux)
	handler.NewFees(backend).AddRoutes(mux)
	handler.NewMixnodeSettings(backend).AddRoutes(mux)
	metrics.AddRoutes(mux, reg)

	testCfg := testcfg.New()
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         testCfg.LogLevel,
		LogHumanFriendly: testCfg.LogHumanFriendly,
	})
	server := httptest.NewServer(logger.NewMiddleware(log)(mux))

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
		subCloser()
	})

	return server
}

func waitForStatus(t *testing.T, client *http.Client, baseURL, status string) api.DelegationsResponse {
	t.Helper()

	var body api.DelegationsResponse
	require.Eventually(t, func() bool {
		resp, err := client.Get(baseURL + "/delegations")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		body = api.DelegationsResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return false
		}
		return body.Status == status
	}, settleTimeout, pollEvery, "delegations should reach status %q", status)

	return body
}

func postJSON(t *testing.T, client *http.Client, url, body string) *http.Response {
	t.Helper()

	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)

	return resp
}

func parseJSONResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()

	var result T
	err := json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err, "Response should be valid JSON")

	return result
}
