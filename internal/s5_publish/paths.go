package s5_publish

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Layout resolves output locations under the data and docs directories
type Layout struct {
	DataDir string
	DocsDir string
}

// NavPath is the durable ledger
func (l Layout) NavPath() string {
	return filepath.Join(l.DataDir, "nav.csv")
}

// HoldingsPath is the holdings snapshot of a run date
func (l Layout) HoldingsPath(date string) string {
	return filepath.Join(l.DataDir, fmt.Sprintf("holdings_%s.csv", date))
}

// ConstituentsPath is the constituent snapshot of a rebalance date
func (l Layout) ConstituentsPath(date string) string {
	return filepath.Join(l.DataDir, fmt.Sprintf("constituents_%s.csv", date))
}

// ChangesPath is the membership change report of a run date
func (l Layout) ChangesPath(date string) string {
	return filepath.Join(l.DataDir, fmt.Sprintf("changes_%s.json", date))
}

// LatestPath is the published summary
func (l Layout) LatestPath() string {
	return filepath.Join(l.DocsDir, "latest.json")
}

// BadgesDir holds shields.io endpoint payloads
func (l Layout) BadgesDir() string {
	return filepath.Join(l.DocsDir, "badges")
}

// ChartPath is the NAV chart image
func (l Layout) ChartPath() string {
	return filepath.Join(l.DocsDir, "chart.png")
}

// IndexPath is the static page
func (l Layout) IndexPath() string {
	return filepath.Join(l.DocsDir, "index.html")
}

// EnsureDirs creates the data and docs directories
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.DataDir, l.DocsDir, l.BadgesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

var holdingsFile = regexp.MustCompile(`^holdings_(\d{8})\.csv$`)

// HoldingsDates lists the dates that have a holdings snapshot, ascending
func (l Layout) HoldingsDates() ([]string, error) {
	entries, err := os.ReadDir(l.DataDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.DataDir, err)
	}

	dates := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := holdingsFile.FindStringSubmatch(e.Name()); m != nil {
			dates = append(dates, m[1])
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// PreviousHoldings returns the latest holdings snapshot strictly before date
func (l Layout) PreviousHoldings(date string) (string, bool, error) {
	dates, err := l.HoldingsDates()
	if err != nil {
		return "", false, err
	}
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i] < date {
			return l.HoldingsPath(dates[i]), true, nil
		}
	}
	return "", false, nil
}
