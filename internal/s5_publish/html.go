package s5_publish

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
)

// Page is the data behind docs/index.html
type Page struct {
	Row            contracts.LedgerRow
	Strict         contracts.IndexStats
	Extended       contracts.IndexStats
	BenchmarkLabel string
	Adjusted       bool
}

type card struct {
	Title string
	NAV   string
	Daily string
	Count string
}

func (p Page) cards() []card {
	count := func(s contracts.IndexStats) string { return fmt.Sprintf("%d/%d", s.Priced, s.Total) }
	return []card{
		{"严格动物园", nav4(p.Row.StrictNAV), pct2(p.Row.StrictRet), count(p.Strict)},
		{"扩展动物园", nav4(p.Row.ExtendedNAV), pct2(p.Row.ExtendedRet), count(p.Extended)},
		{benchmarkTitle(p.BenchmarkLabel), nav4(p.Row.BenchmarkNAV), pct2(p.Row.BenchmarkRet), ""},
	}
}

func benchmarkTitle(label string) string {
	if label == "HS300" {
		return "沪深300"
	}
	return label
}

func nav4(v float64) string { return fmt.Sprintf("%.4f", v) }
func pct2(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

var pageTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="zh-CN">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>A股动物园指数</title>
  <style>
    :root { color-scheme: light; font-family: "Noto Sans SC", "Microsoft YaHei", sans-serif; --bg: #f6f5f1; --card: #ffffff; --text: #2b2b2b; --muted: #666; --accent: #1f6f54; }
    body { margin: 0; background: var(--bg); color: var(--text); }
    header { padding: 32px 20px 12px; text-align: center; }
    h1 { margin: 0; font-size: 28px; letter-spacing: 1px; }
    .subtitle { margin-top: 6px; color: var(--muted); font-size: 14px; }
    main { max-width: 980px; margin: 0 auto; padding: 12px 20px 40px; }
    .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 16px; margin-bottom: 24px; }
    .card, .chart { background: var(--card); border-radius: 12px; padding: 16px; box-shadow: 0 6px 16px rgba(0,0,0,0.06); }
    .card h3 { margin: 0 0 12px; font-size: 16px; color: var(--accent); }
    .stat { font-size: 22px; font-weight: 600; margin-bottom: 6px; }
    .stat small { font-size: 12px; color: var(--muted); }
    .chart img { width: 100%; border-radius: 8px; }
    .notes { margin-top: 16px; color: var(--muted); font-size: 13px; line-height: 1.6; }
  </style>
</head>
<body>
  <header>
    <h1>A股动物园指数</h1>
    <div class="subtitle">最近更新：{{.Date}}</div>
  </header>
  <main>
    <section class="cards">
{{- range .Cards}}
      <div class="card">
        <h3>{{.Title}}</h3>
        <div class="stat nav">{{.NAV}}</div>
        <div class="stat daily"><small>今日涨跌</small> {{.Daily}}</div>
{{- if .Count}}
        <div class="stat count"><small>成分股</small> {{.Count}}</div>
{{- end}}
      </div>
{{- end}}
    </section>
    <section class="chart">
      <img src="chart.png" alt="动物园指数曲线" />
    </section>
    <section class="notes">
      <p>说明：严格动物园仅收录明确动物词汇，扩展动物园包含单字动物/神兽词，噪声更高但更热闹。</p>
{{- if .Adjusted}}
      <p>成分股收益按复权因子调整，已计入分红送转。</p>
{{- else}}
      <p>净值为价格指数口径，未做分红送转调整。</p>
{{- end}}
    </section>
  </main>
</body>
</html>
`))

// RenderPage executes the page template
func RenderPage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, struct {
		Date     string
		Cards    []card
		Adjusted bool
	}{p.Row.Date, p.cards(), p.Adjusted})
}

// WritePage renders index.html to path
func WritePage(path string, p Page) error {
	var buf bytes.Buffer
	if err := RenderPage(&buf, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
