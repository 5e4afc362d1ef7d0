package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/screwyprof/mixdelegator/pkg/httpkit"
	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/api"
)

const GetMixnodeSettingsRoute = http.MethodGet + " " + "/mixnodes/{identity}/settings"

var ErrSettingsLookup = errors.New("mixnode settings lookup failed")

// Defaults shown before a node is known
const (
	DefaultMixnodeStatus = "not_found"
	DefaultSelectionRank = "VeryLow"
)

// MixnodeInspector reads the live metrics of a mixnode
type MixnodeInspector interface {
	GetMixnodeStatus(ctx context.Context, identity string) (nymapi.MixnodeStatusResponse, error)
	GetMixnodeStakeSaturation(ctx context.Context, identity string) (nymapi.StakeSaturationResponse, error)
	GetInclusionProbability(ctx context.Context, identity string) (nymapi.InclusionProbabilityResponse, error)
}

type MixnodeSettings struct {
	inspector MixnodeInspector
}

func NewMixnodeSettings(inspector MixnodeInspector) *MixnodeSettings {
	return &MixnodeSettings{inspector: inspector}
}

func (h *MixnodeSettings) AddRoutes(m *http.ServeMux) {
	m.Handle(GetMixnodeSettingsRoute, httpkit.HandlerFunc(h.GetSettings))
}

func defaultSettings(identity string) api.SettingsResponse {
	return api.SettingsResponse{
		Identity: identity,
		Status:   DefaultMixnodeStatus,
		InclusionProbability: api.InclusionProbability{
			InActive:  DefaultSelectionRank,
			InReserve: DefaultSelectionRank,
		},
	}
}

// GetSettings fetches status, saturation and inclusion probability concurrently
func (h *MixnodeSettings) GetSettings(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	identity := strings.TrimSpace(r.PathValue("identity"))
	resp := defaultSettings(identity)
	if identity == "" {
		return httpkit.JSON(resp)
	}

	var (
		status      nymapi.MixnodeStatusResponse
		saturation  nymapi.StakeSaturationResponse
		probability nymapi.InclusionProbabilityResponse
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		status, err = h.inspector.GetMixnodeStatus(ctx, identity)
		return err
	})
	g.Go(func() (err error) {
		saturation, err = h.inspector.GetMixnodeStakeSaturation(ctx, identity)
		return err
	})
	g.Go(func() (err error) {
		probability, err = h.inspector.GetInclusionProbability(ctx, identity)
		return err
	})

	if err := g.Wait(); err != nil {
		return httpkit.JsonError(api.BadGateway(fmt.Errorf("%w: %w", ErrSettingsLookup, err), "Failed to load mixnode settings"))
	}

	if status.Status != "" {
		resp.Status = status.Status
	}
	resp.SaturationPercent = int(math.Round(saturation.Saturation * 100))
	if probability.InActive != "" {
		resp.InclusionProbability.InActive = probability.InActive
	}
	if probability.InReserve != "" {
		resp.InclusionProbability.InReserve = probability.InReserve
	}

	return httpkit.JSON(resp)
}
