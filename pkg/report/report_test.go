package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
)

func num(v float64) *float64 {
	return &v
}

func nodeStats(values map[string]*float64) evaluate.Stats {
	out := make(evaluate.Stats, 0, len(evaluate.DefaultColumns))

	for _, col := range evaluate.DefaultColumns {
		v := values[col.Name]
		if v == nil && col.Op == evaluate.Sum {
			v = num(0)
		}

		out = append(out, evaluate.Stat{Name: col.Name, Value: v})
	}

	return out
}

func sampleReport() *evaluate.Report {
	row := evaluate.Row{
		Type:         comment.TypeFunction,
		Path:         "project/src/App.java",
		Position:     comment.Position{Line: 7, Column: 5},
		Text:         "// Returns the name.",
		CodeLanguage: "Java",
		Handle:       "getName",
		Label:        "summary",
		Metrics: map[string]*float64{
			evaluate.ColFKGLS:        num(3),
			evaluate.ColCount:        num(1),
			evaluate.ColCountMissing: num(0),
		},
	}

	app := &evaluate.Node{
		Name:      "App.java",
		Structure: evaluate.StructureFile,
		Stats: nodeStats(map[string]*float64{
			evaluate.ColFKGLS: num(3), evaluate.ColCount: num(2), evaluate.ColCountMissing: num(1),
		}),
		Comments: []evaluate.Row{row},
	}

	util := &evaluate.Node{
		Name:      "Util.java",
		Structure: evaluate.StructureFile,
		Stats: nodeStats(map[string]*float64{
			evaluate.ColFKGLS: num(5), evaluate.ColCount: num(1),
		}),
		Comments: []evaluate.Row{},
	}

	empty := &evaluate.Node{
		Name:      "empty.h",
		Structure: evaluate.StructureFile,
		Stats:     nodeStats(nil),
		Comments:  []evaluate.Row{},
	}

	src := &evaluate.Node{
		Name:      "src",
		Structure: evaluate.StructureDirectory,
		Stats: nodeStats(map[string]*float64{
			evaluate.ColFKGLS: num(4), evaluate.ColCount: num(3), evaluate.ColCountMissing: num(1),
		}),
		Children: []*evaluate.Node{app, util, empty},
	}

	root := &evaluate.Node{
		Name:      "project",
		Structure: evaluate.StructureDirectory,
		Stats:     src.Stats,
		Children:  []*evaluate.Node{src},
	}

	return &evaluate.Report{RunID: "run-1", Root: root, Warnings: []string{"stat project/broken: denied"}}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"text", FormatText, false},
		{"html", FormatHTML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON_ValidatesAndRoundTrips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleReport().Root))

	violations, err := Validate(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, violations)

	root, err := ReadJSON(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "project", root.Name)
	require.Len(t, root.Children, 1)
	require.Len(t, root.Children[0].Children, 3)

	var again bytes.Buffer

	require.NoError(t, WriteJSON(&again, root))
	assert.JSONEq(t, buf.String(), again.String())
}

func TestValidate_RejectsMalformedReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown structure", `{"name":"p","structure":"folder","children":[]}`},
		{"file with children", `{"name":"a.c","structure":"file","children":[]}`},
		{"string statistic", `{"name":"p","structure":"directory","count":"four","children":[]}`},
		{"bad position", `{"name":"a.c","structure":"file","comments":[{"type":"header","path":"a.c",` +
			`"position":"one","text":"x","code_language":"C","ignore":true,"count":1,"count_missing":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations, err := Validate([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidReport)
			assert.NotEmpty(t, violations)
		})
	}
}

func TestValidate_NotJSON(t *testing.T) {
	t.Parallel()

	_, err := Validate([]byte("{"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidReport)
}

func TestWriteYAML_SameShapeAsJSON(t *testing.T) {
	t.Parallel()

	root := sampleReport().Root

	var jsonBuf, yamlBuf bytes.Buffer

	require.NoError(t, WriteJSON(&jsonBuf, root))
	require.NoError(t, WriteYAML(&yamlBuf, root))

	out := yamlBuf.String()
	assert.True(t, strings.HasPrefix(out, "name: project\nstructure: directory\nfkgls: 4\n"), out)
	assert.NotContains(t, out, "{")

	var decoded map[string]any

	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &decoded))

	converted, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, jsonBuf.String(), string(converted))
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleReport(), false))

	out := buf.String()
	assert.Contains(t, out, "Comment quality report")
	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "project/src/")
	assert.Contains(t, out, "4.00")
	assert.Contains(t, strings.ToUpper(out), "FILES: 3")
	assert.Contains(t, out, "FKGL across 2 files: median 4.00, min 3.00, max 5.00, mean 4.00, stddev 1.00")
	assert.Contains(t, out, "warning: stat project/broken: denied")
	assert.NotContains(t, out, "\x1b[")
}

func TestFileDistribution(t *testing.T) {
	t.Parallel()

	root := sampleReport().Root

	dist := FileDistribution(root, evaluate.ColFKGLS)
	assert.Equal(t, Distribution{Files: 2, Median: 4, Min: 3, Max: 5, Mean: 4, StdDev: 1}, dist)

	assert.Equal(t, Distribution{}, FileDistribution(root, "absent"))
}

func TestWritePlot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, WritePlot(&buf, sampleReport().Root))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Comment coverage")
	assert.Contains(t, out, "src/App.java")
}

func TestRender(t *testing.T) {
	t.Parallel()

	rep := sampleReport()

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, Render(context.Background(), &buf, rep, Options{Format: f}))
			assert.NotEmpty(t, buf.String())
		})
	}

	err := Render(context.Background(), &bytes.Buffer{}, rep, Options{Format: "pdf"})
	require.ErrorIs(t, err, ErrUnknownFormat)
}
