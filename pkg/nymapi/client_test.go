package nymapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/mixdelegator/pkg/nymapi"
)

const summaryJSON = `{
  "delegations": [
    {
      "owner": "n1owner",
      "node_identity": "DT8S942S8AQs2zKHS9SVo1GyHmuca3pfL2uLhLksJ3D8",
      "amount": {"amount": "100.5", "denom": "NYM"},
      "total_delegation": null,
      "pledge_amount": {"amount": "1000", "denom": "NYM"},
      "block_height": 1234,
      "delegated_on_iso_datetime": "2022-03-01T10:00:00Z",
      "profit_margin_percent": 10,
      "avg_uptime_percent": null,
      "stake_saturation": 0.123456,
      "proxy": null,
      "accumulated_rewards": {"amount": "0.25", "denom": "NYM"}
    }
  ],
  "total_delegations": {"amount": "100.5", "denom": "NYM"},
  "total_rewards": {"amount": "0.25", "denom": "NYM"}
}`

func TestClientParsesDelegationSummary(t *testing.T) {
	t.Parallel()

	// Arrange
	var gotPath, gotNetwork string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotNetwork = r.URL.Query().Get("network")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(summaryJSON))
	}))
	defer server.Close()

	client := nymapi.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	summary, err := client.GetDelegationSummary(t.Context(), "MAINNET")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/v1/delegations/summary", gotPath)
	assert.Equal(t, "MAINNET", gotNetwork)

	require.Len(t, summary.Delegations, 1)
	d := summary.Delegations[0]
	assert.Equal(t, "DT8S942S8AQs2zKHS9SVo1GyHmuca3pfL2uLhLksJ3D8", d.NodeIdentity)
	require.NotNil(t, d.Amount)
	assert.Equal(t, "100.5", d.Amount.Amount)
	assert.Nil(t, d.TotalDelegation)
	assert.Nil(t, d.AvgUptimePercent)
	require.NotNil(t, d.StakeSaturation)
	assert.InDelta(t, 0.123456, *d.StakeSaturation, 1e-9)
	assert.Equal(t, uint64(1234), d.BlockHeight)
	assert.Equal(t, nymapi.MajorCurrencyAmount{Amount: "0.25", Denom: "NYM"}, summary.TotalRewards)
}

func TestClientSurfacesBackendRejections(t *testing.T) {
	t.Parallel()

	t.Run("it keeps the backend message", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"account has no bonded mixnode"}`))
		}))
		defer server.Close()

		client := nymapi.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		_, err := client.Unbond(t.Context(), nymapi.NodeTypeMixnode)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, nymapi.ErrUnexpectedStatus)

		var apiErr *nymapi.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "account has no bonded mixnode", apiErr.Message)
	})

	t.Run("it tolerates bodies that are not JSON", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`upstream down`))
		}))
		defer server.Close()

		client := nymapi.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		_, err := client.GetDelegationSummary(t.Context(), "SANDBOX")

		// Assert
		require.Error(t, err)
		assert.EqualError(t, err, "unexpected status code: 503")
	})

	t.Run("it reports undecodable success bodies", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"delegations": "nope"`))
		}))
		defer server.Close()

		client := nymapi.NewClientWithHTTP(server.Client(), server.URL)

		// Act
		_, err := client.GetDelegationSummary(t.Context(), "SANDBOX")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})
}

func TestClientSendsUnbondRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		call     func(c *nymapi.Client, r *http.Request) error
		wantPath string
	}{
		{
			name: "main account",
			call: func(c *nymapi.Client, r *http.Request) error {
				_, err := c.Unbond(r.Context(), nymapi.NodeTypeGateway)
				return err
			},
			wantPath: "/v1/bond/unbond",
		},
		{
			name: "vesting account",
			call: func(c *nymapi.Client, r *http.Request) error {
				_, err := c.VestingUnbond(r.Context(), nymapi.NodeTypeGateway)
				return err
			},
			wantPath: "/v1/vesting/bond/unbond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			var gotPath, gotMethod string
			var gotBody map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath, gotMethod = r.URL.Path, r.Method
				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &gotBody)
				_, _ = w.Write([]byte(`{"transaction_hash":"ABC","transaction_url":"https://explorer/tx/ABC"}`))
			}))
			defer server.Close()

			client := nymapi.NewClientWithHTTP(server.Client(), server.URL)
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			// Act
			err := tt.call(client, req)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, http.MethodPost, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, map[string]string{"node_type": "gateway"}, gotBody)
		})
	}
}

func TestClientFetchesNodeSettings(t *testing.T) {
	t.Parallel()

	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/mixnodes/node1/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"active"}`))
	})
	mux.HandleFunc("GET /v1/mixnodes/node1/stake-saturation", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"saturation":0.457,"as_at":1650000000}`))
	})
	mux.HandleFunc("GET /v1/mixnodes/node1/inclusion-probability", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"in_active":"High","in_reserve":"Low"}`))
	})
	mux.HandleFunc("GET /v1/fees/BondMixnode", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":"0.004","denom":"NYM"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := nymapi.NewClientWithHTTP(server.Client(), server.URL)

	// Act
	status, statusErr := client.GetMixnodeStatus(t.Context(), "node1")
	saturation, saturationErr := client.GetMixnodeStakeSaturation(t.Context(), "node1")
	probability, probabilityErr := client.GetInclusionProbability(t.Context(), "node1")
	fee, feeErr := client.GetGasFee(t.Context(), "BondMixnode")

	// Assert
	require.NoError(t, statusErr)
	require.NoError(t, saturationErr)
	require.NoError(t, probabilityErr)
	require.NoError(t, feeErr)

	assert.Equal(t, "active", status.Status)
	assert.InDelta(t, 0.457, saturation.Saturation, 1e-9)
	assert.Equal(t, nymapi.InclusionProbabilityResponse{InActive: "High", InReserve: "Low"}, probability)
	assert.Equal(t, nymapi.MajorCurrencyAmount{Amount: "0.004", Denom: "NYM"}, fee)
}
