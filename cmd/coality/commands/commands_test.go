package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
	"github.com/Sumatoshi-tech/coality/pkg/extract"
	"github.com/Sumatoshi-tech/coality/pkg/label"
	"github.com/Sumatoshi-tech/coality/pkg/report"
)

const javaSource = `package com.example;

/** A user record. */
public class User {
    private String name;

    // Returns the user name.
    public String getUserName() {
        return name;
    }

    public User(String name) {
        this.name = name;
    }
}
`

const cSource = `/* Math helpers. */
#include <stdio.h>

/* Adds two numbers. */
int add(int a, int b) { return a + b; }

int sub(int a, int b) { return a - b; }
`

type fixture struct {
	project string
	config  string
	out     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	project := filepath.Join(t.TempDir(), "project")
	out := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(project, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	write("src/User.java", javaSource)
	write("lib/math.c", cSource)

	config := filepath.Join(out, "coality.yaml")
	require.NoError(t, os.WriteFile(config, []byte("observability:\n  log_level: error\n"), 0o600))

	return fixture{project: project, config: config, out: out}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func stat(t *testing.T, n *evaluate.Node, name string) float64 {
	t.Helper()

	v, ok := n.Stats.Get(name)
	require.True(t, ok, name)
	require.NotNil(t, v, name)

	return *v
}

func TestRun_JSONReport(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	reportPath := filepath.Join(fx.out, "report.json")

	_, err := execute(t, "run", fx.project, "-c", fx.config, "-q", "-o", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	violations, err := report.Validate(data)
	require.NoError(t, err)
	assert.Empty(t, violations)

	root, err := report.ReadJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "project", root.Name)
	assert.InDelta(t, 4, stat(t, root, evaluate.ColCount), 1e-9)
	assert.InDelta(t, 3, stat(t, root, evaluate.ColCountMissing), 1e-9)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "lib", root.Children[0].Name)
	assert.Equal(t, "src", root.Children[1].Name)
}

func TestRun_TextFormatToStdout(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	out, err := execute(t, "run", fx.project, "-c", fx.config, "-q", "-f", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment quality report")
	assert.Contains(t, out, "project/src/")
}

func TestRun_UnknownFormat(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	_, err := execute(t, "run", fx.project, "-c", fx.config, "-q", "-f", "pdf")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestRun_NotDirectory(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	_, err := execute(t, "run", filepath.Join(fx.project, "absent"), "-c", fx.config, "-q")
	require.ErrorIs(t, err, extract.ErrNotDirectory)
}

func TestRateThenEvaluate(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	commentsPath := filepath.Join(fx.out, "comments.csv")
	missingPath := filepath.Join(fx.out, "missing.csv")

	_, err := execute(t, "rate", fx.project, "-c", fx.config, "-q",
		"--comments", commentsPath, "--missing", missingPath)
	require.NoError(t, err)

	f, err := os.Open(commentsPath)
	require.NoError(t, err)

	comments, err := comment.ReadComments(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.Len(t, comments, 4)

	for i, c := range comments {
		assert.Equal(t, i, c.ID)
		assert.NotEmpty(t, c.ProcessedText)
	}

	out, err := execute(t, "evaluate", fx.project, "-c", fx.config, "-q",
		"--comments", commentsPath, "--missing", missingPath)
	require.NoError(t, err)

	root, err := report.ReadJSON(strings.NewReader(out))
	require.NoError(t, err)
	assert.InDelta(t, 4, stat(t, root, evaluate.ColCount), 1e-9)
	assert.InDelta(t, 3, stat(t, root, evaluate.ColCountMissing), 1e-9)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	commentsPath := filepath.Join(fx.out, "comments.csv")

	_, err := execute(t, "rate", fx.project, "-c", fx.config, "-q",
		"--comments", commentsPath, "--missing", filepath.Join(fx.out, "missing.csv"))
	require.NoError(t, err)

	out, err := execute(t, "filter", "-q", "-i", commentsPath, "--language", extract.LangC)
	require.NoError(t, err)

	kept, err := comment.ReadComments(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, kept, 2)

	for _, c := range kept {
		assert.Equal(t, extract.LangC, c.CodeLanguage)
	}

	_, err = execute(t, "filter", "-i", commentsPath)
	require.ErrorIs(t, err, ErrNoFilter)
}

func TestTrainAndPredict(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	dataset := filepath.Join(fx.out, "dataset.txt")
	modelsDir := filepath.Join(fx.out, "models")

	lines := []string{
		"__label__summary returns the user name",
		"__label__summary returns the number of rows",
		"__label__summary creates a new parser",
		"__label__todo fix this hack later",
		"__label__todo remove this workaround later",
		"__label__todo fix the broken hack",
	}
	require.NoError(t, os.WriteFile(dataset, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	_, err := execute(t, "train", dataset, "-c", fx.config, "-q", "--models-dir", modelsDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(modelsDir, "summary.model"))
	assert.FileExists(t, filepath.Join(modelsDir, "todo.model"))

	out, err := execute(t, "predict", "-c", fx.config, "-q", "--models-dir", modelsDir, "fix", "this", "hack")
	require.NoError(t, err)

	name, _, ok := strings.Cut(strings.TrimSpace(out), "\t")
	require.True(t, ok, out)
	assert.Equal(t, "todo", name)
}

func TestPredict_NoModels(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)

	_, err := execute(t, "predict", "-c", fx.config, "-q", "some text")
	require.ErrorIs(t, err, label.ErrModelsUnavailable)

	_, err = execute(t, "predict", "-c", fx.config, "-q", "--models-dir", filepath.Join(fx.out, "absent"), "text")
	require.ErrorIs(t, err, label.ErrModelsUnavailable)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	reportPath := filepath.Join(fx.out, "report.json")

	_, err := execute(t, "run", fx.project, "-c", fx.config, "-q", "-o", reportPath)
	require.NoError(t, err)

	out, err := execute(t, "validate", reportPath, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "report is valid")

	broken := filepath.Join(fx.out, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":"p","structure":"folder"}`), 0o600))

	out, err = execute(t, "validate", broken, "--no-color")
	require.ErrorIs(t, err, report.ErrInvalidReport)
	assert.Contains(t, out, "report is invalid")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "coality "), out)
}
