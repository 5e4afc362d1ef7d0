package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/screwyprof/mixdelegator/pkg/nymapi"
	"github.com/screwyprof/mixdelegator/wallet/nym"
	"github.com/screwyprof/mixdelegator/wallet/state"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List delegations",
	Long:  "Load the delegation list of a network once and print it as a sorted table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listDelegations(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("sort", "s", string(nym.DefaultSorting.Column), "Column to sort by")
	listCmd.Flags().StringP("order", "o", string(nym.DefaultSorting.Order), "Sort direction (asc or desc)")
	listCmd.Flags().StringP("network", "n", "MAINNET", "Network to load delegations for")
	listCmd.Flags().String("backend-url", "http://localhost:8090", "Wallet backend base URL")
	listCmd.Flags().String("explorer-url", "https://explorer.nymtech.net", "Network explorer base URL")
	listCmd.Flags().Duration("timeout", 30*time.Second, "Time to wait for the list to load")
}

func listDelegations(cmd *cobra.Command) error {
	sortBy, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")
	network, _ := cmd.Flags().GetString("network")
	backendURL, _ := cmd.Flags().GetString("backend-url")
	explorerURL, _ := cmd.Flags().GetString("explorer-url")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	sorting, err := nym.NewSorting(sortBy, order)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client := nymapi.NewClientWithHTTP(&http.Client{Timeout: timeout}, backendURL)
	st, err := loadOnce(ctx, client, network)
	if err != nil {
		return err
	}

	if st.Status == state.StatusError {
		return fmt.Errorf("failed to load delegations: %s", st.Error)
	}

	view := nym.BuildListView(st.Delegations, nym.ListOptions{
		Sorting:     sorting,
		ExplorerURL: explorerURL,
	})

	return renderList(cmd.OutOrStdout(), st, view)
}

// loadOnce runs a store until its first fetch settles and returns that state
func loadOnce(ctx context.Context, client state.SummaryClient, network string) (state.State, error) {
	storeCtx, stop := context.WithCancel(ctx)
	defer stop()

	store := state.NewStore(client, network)
	events, done := store.Start(storeCtx)

	settled := make(chan struct{}, 1)
	signal := func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}
	closer := state.NewSubscriber(events,
		state.OnRefreshCompleted(func(state.RefreshCompleted) { signal() }),
		state.OnRefreshFailed(func(state.RefreshFailed) { signal() }),
	)

	var err error
	select {
	case <-settled:
	case <-ctx.Done():
		err = errors.New("timed out waiting for delegations")
	}

	st := store.Snapshot()

	stop()
	<-done
	closer()

	return st, err
}
