package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runchengxie/a-share-animal-index/internal/api"
	"github.com/runchengxie/a-share-animal-index/internal/api/handlers"
)

var apiPort string

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the ledger and snapshots over HTTP",
	Long: `Start a read-only HTTP API over the published data directory.

Endpoints:
  GET /health                   - Health check
  GET /api/nav?start=&end=      - NAV ledger rows
  GET /api/nav/latest           - Latest ledger row
  GET /api/holdings/{date}      - Holdings snapshot
  GET /api/changes/{date}       - Constituent changes

Examples:
  go run ./cmd/zooindex api
  go run ./cmd/zooindex api --port 9000`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default PORT)")
}

func runAPI(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("port") {
		a.cfg.Port = apiPort
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	navHandler := handlers.NewNavHandler(a.store(), a.layout(), a.cfg.Index.BenchmarkLabel, a.log)
	router := api.NewRouter(navHandler, a.log)

	PrintInfo(fmt.Sprintf("Listening on :%s (Ctrl+C to stop)", a.cfg.Port))
	return api.New(a.cfg, a.log, router).Run(ctx)
}
