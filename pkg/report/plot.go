package report

import (
	"cmp"
	"fmt"
	"io"
	"path"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
)

const (
	topFilesLimit = 30
	xAxisRotate   = 45
	chartWidth    = "100%"
	chartHeight   = "500px"

	colorDocumented = "#91cc75"
	colorMissing    = "#ee6666"
	colorReadable   = "#5470c6"
)

// fileStat is the per-file data plotted.
type fileStat struct {
	path     string
	count    float64
	missing  float64
	fkgls    float64
	hasFKGLS bool
}

// WritePlot renders an HTML page with per-file coverage and readability charts.
func WritePlot(w io.Writer, root *evaluate.Node) error {
	files := collectFiles(root)

	slices.SortStableFunc(files, func(a, b fileStat) int {
		return cmp.Compare(b.count+b.missing, a.count+a.missing)
	})

	if len(files) > topFilesLimit {
		files = files[:topFilesLimit]
	}

	page := components.NewPage()
	page.PageTitle = "Comment quality: " + root.Name
	page.AddCharts(coverageChart(files), readabilityChart(files))

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func collectFiles(root *evaluate.Node) []fileStat {
	var files []fileStat

	var visit func(prefix string, n *evaluate.Node)

	visit = func(prefix string, n *evaluate.Node) {
		p := path.Join(prefix, n.Name)

		if n.IsDir() {
			for _, c := range n.Children {
				visit(p, c)
			}

			return
		}

		fs := fileStat{path: p}

		if v, ok := n.Stats.Get(evaluate.ColCount); ok && v != nil {
			fs.count = *v
		}

		if v, ok := n.Stats.Get(evaluate.ColCountMissing); ok && v != nil {
			fs.missing = *v
		}

		if v, ok := n.Stats.Get(evaluate.ColFKGLS); ok && v != nil {
			fs.fkgls = *v
			fs.hasFKGLS = true
		}

		files = append(files, fs)
	}

	for _, c := range root.Children {
		visit("", c)
	}

	return files
}

func coverageChart(files []fileStat) *charts.Bar {
	bar := newBar("Comment coverage", "Documented and missing comments per file", "Comments")

	labels := make([]string, len(files))
	documented := make([]opts.BarData, len(files))
	missing := make([]opts.BarData, len(files))

	for i, f := range files {
		labels[i] = f.path
		documented[i] = opts.BarData{Value: f.count}
		missing[i] = opts.BarData{Value: f.missing}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Documented", documented,
		charts.WithBarChartOpts(opts.BarChart{Stack: "comments"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorDocumented}),
	)
	bar.AddSeries("Missing", missing,
		charts.WithBarChartOpts(opts.BarChart{Stack: "comments"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorMissing}),
	)

	return bar
}

func readabilityChart(files []fileStat) *charts.Bar {
	bar := newBar("Readability", "Mean Flesch-Kincaid grade level per file", "Grade level")

	labels := make([]string, 0, len(files))
	grades := make([]opts.BarData, 0, len(files))

	for _, f := range files {
		if !f.hasFKGLS {
			continue
		}

		labels = append(labels, f.path)
		grades = append(grades, opts.BarData{Value: f.fkgls})
	}

	bar.SetXAxis(labels)
	bar.AddSeries("FKGL", grades, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorReadable}))

	return bar
}

func newBar(title, subtitle, yName string) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "10%"}),
		charts.WithGridOpts(opts.Grid{Top: "20%", Bottom: "25%", ContainLabel: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	return bar
}
