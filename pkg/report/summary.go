package report

import (
	"fmt"
	"io"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/coality/pkg/alg/stats"
	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
)

const missingValue = "-"

// summaryColumns are the statistics shown per row of the summary table.
var summaryColumns = []struct {
	header string
	name   string
	count  bool
}{
	{"Comments", evaluate.ColCount, true},
	{"Missing", evaluate.ColCountMissing, true},
	{"Trivial", evaluate.ColIsTrivial, true},
	{"Unrelated", evaluate.ColIsUnrelated, true},
	{"Code", evaluate.ColIsCode, true},
	{"FKGL", evaluate.ColFKGLS, false},
	{"FRE", evaluate.ColFREL, false},
	{"Fog", evaluate.ColFI, false},
}

// Distribution summarizes one statistic across file nodes.
type Distribution struct {
	Files  int
	Median float64
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// FileDistribution collects the named statistic of every file that has a
// value for it.
func FileDistribution(root *evaluate.Node, name string) Distribution {
	var values []float64

	root.Walk(func(n *evaluate.Node) {
		if n.IsDir() {
			return
		}

		v, ok := n.Stats.Get(name)
		if ok && v != nil {
			values = append(values, *v)
		}
	})

	if len(values) == 0 {
		return Distribution{}
	}

	mean, stddev := stats.MeanStdDev(values)

	return Distribution{
		Files:  len(values),
		Median: stats.Median(values),
		Min:    stats.Min(values),
		Max:    stats.Max(values),
		Mean:   mean,
		StdDev: stddev,
	}
}

// WriteSummary writes a table with the root and its direct children,
// followed by the per-file readability spread.
func WriteSummary(w io.Writer, rep *evaluate.Report, colorize bool) error {
	title := color.New(color.Bold, color.FgCyan)
	warn := color.New(color.FgYellow)

	if !colorize {
		title.DisableColor()
		warn.DisableColor()
	}

	root := rep.Root

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	header := table.Row{"Path"}
	for _, col := range summaryColumns {
		header = append(header, col.header)
	}

	tbl.AppendHeader(header)
	tbl.AppendRow(summaryRow(root.Name, root))

	for _, child := range root.Children {
		name := path.Join(root.Name, child.Name)
		if child.IsDir() {
			name += "/"
		}

		tbl.AppendRow(summaryRow(name, child))
	}

	files := 0

	root.Walk(func(n *evaluate.Node) {
		if !n.IsDir() {
			files++
		}
	})

	tbl.AppendFooter(table.Row{"Files: " + humanize.Comma(int64(files))})

	dist := FileDistribution(root, evaluate.ColFKGLS)

	_, err := fmt.Fprintf(w, "%s\n", title.Sprint("Comment quality report"))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if rep.RunID != "" {
		_, err = fmt.Fprintf(w, "Run: %s\n", rep.RunID)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	_, err = fmt.Fprintf(w, "%s\n", tbl.Render())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if dist.Files > 0 {
		_, err = fmt.Fprintf(w, "FKGL across %s files: median %.2f, min %.2f, max %.2f, mean %.2f, stddev %.2f\n",
			humanize.Comma(int64(dist.Files)), dist.Median, dist.Min, dist.Max, dist.Mean, dist.StdDev)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	for _, msg := range rep.Warnings {
		_, err = fmt.Fprintf(w, "%s %s\n", warn.Sprint("warning:"), msg)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	return nil
}

func summaryRow(name string, n *evaluate.Node) table.Row {
	row := table.Row{name}

	for _, col := range summaryColumns {
		v, ok := n.Stats.Get(col.name)

		switch {
		case !ok || v == nil:
			row = append(row, missingValue)
		case col.count:
			row = append(row, humanize.Comma(int64(*v)))
		default:
			row = append(row, fmt.Sprintf("%.2f", *v))
		}
	}

	return row
}
