package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s4_ledger"
)

var (
	backfillStart string
	backfillEnd   string
)

// backfillCmd recomputes a date range
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Compute every trading day in a date range",
	Long: `Compute all open trading days between --start and --end (inclusive),
merge them into the NAV ledger and recompute NAVs from the base.

The first failing date aborts the batch and leaves the ledger unchanged.

Examples:
  go run ./cmd/zooindex backfill --start 20240101 --end 20240131`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "first date YYYYMMDD")
	backfillCmd.Flags().StringVar(&backfillEnd, "end", "", "last date YYYYMMDD (default: today)")
	_ = backfillCmd.MarkFlagRequired("start")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	end := backfillEnd
	if end == "" {
		end = a.today()
	}
	for _, d := range []string{backfillStart, end} {
		if !contracts.IsDate(d) {
			return fmt.Errorf("invalid date %q, expected YYYYMMDD", d)
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	orch, cleanup, err := a.orchestrator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	PrintHeader("Backfill", fmt.Sprintf("Range: %s ~ %s", backfillStart, end))

	result, err := orch.Backfill(ctx, backfillStart, end)
	if err != nil {
		return err
	}
	if len(result.Dates) == 0 {
		PrintWarning("区间内没有交易日")
		return nil
	}

	PrintSuccess(fmt.Sprintf("%d 个交易日已回填, 调仓 %d 次, 用时 %s",
		len(result.Dates), len(result.RebalanceDates), result.Duration.Round(1e6)))
	if len(result.LowCoverage) > 0 {
		PrintWarning(fmt.Sprintf("价格覆盖率偏低的日期: %s", strings.Join(result.LowCoverage, ",")))
	}
	if latest, ok := s4_ledger.Latest(result.Ledger); ok {
		fmt.Printf("  最新 %s: 严格 %s  扩展 %s  %s %s\n",
			latest.Date,
			formatNAV(latest.StrictNAV),
			formatNAV(latest.ExtendedNAV),
			a.cfg.Index.BenchmarkLabel,
			formatNAV(latest.BenchmarkNAV),
		)
	}
	return nil
}
