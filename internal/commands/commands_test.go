package commands_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wozniak7/Analisador-Financeiro/internal/commands"
	"github.com/Wozniak7/Analisador-Financeiro/internal/report"
	"github.com/Wozniak7/Analisador-Financeiro/internal/runlog"
)

func runAnalisador(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// project creates a directory with the fixture statement copied into
// import/ and returns the directory and its config path.
func project(t *testing.T, fixtures ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	for _, name := range fixtures {
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), data, 0o644))
	}
	return dir, filepath.Join(dir, "analisador.yaml")
}

func decodeReports(t *testing.T, out string) []report.Report {
	t.Helper()
	var reports []report.Report
	dec := json.NewDecoder(strings.NewReader(out))
	for {
		var r report.Report
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		reports = append(reports, r)
	}
	return reports
}

func TestAnalyze_TextReport(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")

	out, _, err := runAnalisador(t, "analyze", filepath.Join(dir, "import", "extrato.csv"), "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "extrato.csv")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "R$ 5,800.00")
	assert.Contains(t, out, "R$ 1,870.40")
	assert.Contains(t, out, "R$ 3,929.60")
	assert.Contains(t, out, "By account")
}

func TestAnalyze_JSONReport(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")

	out, _, err := runAnalisador(t, "analyze", filepath.Join(dir, "import", "extrato.csv"),
		"--config", cfgPath, "--format", "json", "--limit", "1")
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "R$ 3,929.60", reports[0].Summary.Balance)
	assert.Len(t, reports[0].IncomeDetails, 1)
	assert.Len(t, reports[0].ExpenseDetails, 1)
}

func TestAnalyze_ScansDirectoryInOrder(t *testing.T) {
	dir, cfgPath := project(t, "ragged.csv", "extrato.csv", "header_only.csv")

	out, _, err := runAnalisador(t, "analyze", "--dir", filepath.Join(dir, "import"),
		"--config", cfgPath, "--format", "json", "--jobs", "2")
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 3)
	// extrato.csv sorts first
	assert.Equal(t, "R$ 3,929.60", reports[0].Summary.Balance)
	assert.Equal(t, "R$ 0.00", reports[1].Summary.Balance)
}

func TestAnalyze_FailedSourceSetsExitError(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")
	bad := filepath.Join(dir, "import", "sem_valor.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Data;Descrição\n01/01/2024;Mercado\n"), 0o644))

	out, stderr, err := runAnalisador(t, "analyze", filepath.Join(dir, "import", "extrato.csv"), bad,
		"--config", cfgPath, "--format", "json", "--log-format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, stderr, `"message":"analysis failed"`)
	assert.Contains(t, stderr, "SchemaError: ")

	reports := decodeReports(t, out)
	require.Len(t, reports, 2)
	assert.Nil(t, reports[0].Error)
	require.NotNil(t, reports[1].Error)
	assert.Equal(t, "SchemaError", reports[1].Error.Kind)
}

func TestAnalyze_ExportAndHistory(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")
	exportPath := filepath.Join(dir, "normalized.csv")

	_, _, err := runAnalisador(t, "analyze", filepath.Join(dir, "import", "extrato.csv"),
		"--config", cfgPath, "--export", exportPath, "--history")
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "id,date,amount,type,account,description", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-001,2024-01-05,5000.00,Income,Nubank,"), lines[1])

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "extrato.csv", entries[0].Source)
	assert.Equal(t, "delimited-text", entries[0].Kind)
	assert.Equal(t, 6, entries[0].Rows)
	assert.Equal(t, "R$ 3,929.60", entries[0].Balance)

	out, _, err := runAnalisador(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "extrato.csv")
	assert.Contains(t, out, "R$ 3,929.60")
}

func TestAnalyze_ImportDirRelativeToConfig(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")

	out, _, err := runAnalisador(t, "analyze", "--config", cfgPath, "--format", "json", "--history")
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "R$ 3,929.60", reports[0].Summary.Balance)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "extrato.csv", entries[0].Source)
}

func TestHistory_Empty(t *testing.T) {
	_, cfgPath := project(t)

	out, _, err := runAnalisador(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No analysis runs recorded.")
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")
	file := filepath.Join(dir, "import", "extrato.csv")

	_, _, err := runAnalisador(t, "analyze", file, "--config", cfgPath, "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")

	_, _, err = runAnalisador(t, "analyze", file, "--config", cfgPath, "--kind", "pdf")
	assert.ErrorContains(t, err, "unsupported source kind")

	_, _, err = runAnalisador(t, "analyze", file, "--config", cfgPath, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestAnalyze_EmptyImportDir(t *testing.T) {
	dir, cfgPath := project(t)

	_, _, err := runAnalisador(t, "analyze", "--dir", filepath.Join(dir, "import"), "--config", cfgPath)
	assert.ErrorContains(t, err, "no files to analyze")
}

func TestAnalyze_ConfigDetailLimit(t *testing.T) {
	dir, cfgPath := project(t, "extrato.csv")
	require.NoError(t, os.WriteFile(cfgPath, []byte("report:\n  detail_limit: 1\n"), 0o644))

	out, _, err := runAnalisador(t, "analyze", filepath.Join(dir, "import", "extrato.csv"),
		"--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].IncomeDetails, 1)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runAnalisador(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized analisador project")

	for _, d := range []string{"import", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "analisador.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "detail_limit: 10")
	assert.Contains(t, contents, "import_dir: import")
	assert.Contains(t, contents, "reference_year: 2024")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runAnalisador(t, "init", dir)
	require.NoError(t, err)

	_, _, err = runAnalisador(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = runAnalisador(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestInit_KeepsExistingGitignore(t *testing.T) {
	dir := t.TempDir()
	gitignore := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(gitignore, []byte("node_modules/\n"), 0o644))

	_, _, err := runAnalisador(t, "init", dir)
	require.NoError(t, err)
	_, _, err = runAnalisador(t, "init", dir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(gitignore)
	require.NoError(t, err)
	assert.Equal(t, "node_modules/\n", string(data))
}

func TestVersion(t *testing.T) {
	out, _, err := runAnalisador(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "analisador version dev")
}
