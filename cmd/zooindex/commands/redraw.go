package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// redrawCmd re-renders the chart from the stored ledger
var redrawCmd = &cobra.Command{
	Use:   "redraw",
	Short: "Re-render the NAV chart from the ledger",
	Long: `Re-render docs/chart.png from data/nav.csv without fetching any market data.

Examples:
  go run ./cmd/zooindex redraw`,
	RunE: runRedraw,
}

func init() {
	rootCmd.AddCommand(redrawCmd)
}

func runRedraw(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	store := a.store()
	rows, err := store.Load()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		PrintWarning(fmt.Sprintf("%s 为空, 未生成图表", store.Path()))
		return nil
	}

	pub := a.publisher()
	if err := pub.Redraw(rows); err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("%s (%d 行)", pub.Layout().ChartPath(), len(rows)))
	return nil
}
