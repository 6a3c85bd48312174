package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runchengxie/a-share-animal-index/internal/brain"
	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/internal/s5_publish"
)

var runDate string

// runCmd computes one trading day
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the index for one trading day",
	Long: `Compute strict, extended and benchmark returns for one date,
upsert the NAV ledger and publish holdings, changes, badges, chart and page.

Non-trading days are skipped. A date earlier than the ledger's latest row is rejected.

Examples:
  go run ./cmd/zooindex run
  go run ./cmd/zooindex run --date 20240105`,
	RunE: runDaily,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "trading date YYYYMMDD (default: today in market timezone)")
}

func runDaily(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	date := runDate
	if date == "" {
		date = a.today()
	}
	if !contracts.IsDate(date) {
		return fmt.Errorf("invalid --date %q, expected YYYYMMDD", date)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	orch, cleanup, err := a.orchestrator(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orch.RunDaily(ctx, date)
	if err != nil {
		if errors.Is(err, contracts.ErrDateRejected) {
			PrintWarning(fmt.Sprintf("%s 早于账本最新日期, 已拒绝", date))
		}
		return err
	}
	if result.Outcome == brain.OutcomeSkipped {
		PrintInfo(fmt.Sprintf("%s 非交易日, 跳过", date))
		return nil
	}

	printDaily(result, a.cfg.Index.BenchmarkLabel)
	return nil
}

func printDaily(r *brain.DailyResult, label string) {
	row := r.Row
	fmt.Printf("%s 动物园严格版 %s (%s) 扩展版 %s (%s) %s %s (%s)\n",
		row.Date,
		formatNAV(row.StrictNAV), formatPct(row.StrictRet),
		formatNAV(row.ExtendedNAV), formatPct(row.ExtendedRet),
		label,
		formatNAV(row.BenchmarkNAV), formatPct(row.BenchmarkRet),
	)

	if r.Day != nil {
		fmt.Printf("  成分股: 严格 %d/%d  扩展 %d/%d  (调仓日 %s)\n",
			r.Day.StrictStats.Priced, r.Day.StrictStats.Total,
			r.Day.ExtendedStats.Priced, r.Day.ExtendedStats.Total,
			r.Day.RebalanceDate(),
		)
	}

	if r.Quality != nil {
		for _, v := range r.Quality.Below {
			PrintWarning(fmt.Sprintf("%s 价格覆盖率偏低: %.1f%%", v, r.Quality.Coverage[v]*100))
		}
	}

	for _, v := range contracts.Variants {
		c := r.Changes.Changes[v]
		if len(c.NewIn) == 0 && len(c.Removed) == 0 {
			continue
		}
		fmt.Printf("  %s: 新进 %s  剔除 %s\n", v, changeNames(c.NewIn), changeNames(c.Removed))
	}
}

func changeNames(changes []s5_publish.Change) string {
	if len(changes) == 0 {
		return "-"
	}
	out := ""
	for i, c := range changes {
		if i > 0 {
			out += ","
		}
		out += c.Name
	}
	return out
}
