package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/config"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestCalcPrintsResult(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--data-dir", dir, "calc", "10", "+", "5")
	require.NoError(t, err)
	assert.Equal(t, "Result: 10 + 5 = 15\n", out)

	// Without --save nothing reaches disk.
	_, statErr := os.Stat(filepath.Join(dir, config.DefaultHistoryFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCalcNegativeOperand(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "calc", "--", "-3", "x", "4")
	require.NoError(t, err)
	assert.Equal(t, "Result: -3 × 4 = -12\n", out)
}

func TestCalcSaveWritesBothFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--data-dir", dir, "calc", "--save", "10", "+", "5")
	require.NoError(t, err)
	_, err = execute(t, "--data-dir", dir, "calc", "--save", "1", "/", "4")
	require.NoError(t, err)

	assert.Equal(t,
		"Index, Operation, Result\n1, 10 + 5 = 15, 15\n2, 1 ÷ 4 = 0.25, 0.25\n",
		readFile(t, filepath.Join(dir, config.DefaultHistoryFile)))

	settingsText := readFile(t, filepath.Join(dir, config.DefaultSettingsFile))
	assert.Contains(t, settingsText, "TotalCalculations=2\n")
	assert.Contains(t, settingsText, "FirstNumber=1\n")
	assert.Contains(t, settingsText, "SecondNumber=4\n")
	assert.Contains(t, settingsText, "LastResult=0.25\n")
}

func TestCalcJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "--data-dir", t.TempDir(), "calc", "7", "div", "2")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "7 ÷ 2 = 3.5", data["description"])
	assert.Equal(t, "3.5", data["result"])
	assert.Equal(t, float64(1), data["count"])
}

func TestCalcRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
		msg  string
	}{
		{"divide by zero", []string{"1", "/", "0"}, ErrCodeDivideByZero, "cannot divide by zero"},
		{"invalid first", []string{"abc", "+", "1"}, ErrCodeInvalidOperand, "first number is invalid"},
		{"invalid second", []string{"1", "+", ""}, ErrCodeInvalidOperand, "second number is invalid"},
		{"overflow", []string{"1e308", "*", "10"}, ErrCodeOverflow, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"--format", "json", "--data-dir", dir, "calc", "--save"}, tt.args...)

			out, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			resp := decodeResponse(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.msg)

			_, statErr := os.Stat(filepath.Join(dir, config.DefaultHistoryFile))
			assert.True(t, os.IsNotExist(statErr), "rejected calculation must not save")
		})
	}
}

func TestCalcUnknownOperator(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "calc", "1", "%", "2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]")
}

func TestHistoryListAfterSave(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{{"2", "+", "2"}, {"3", "x", "3"}} {
		_, err := execute(t, append([]string{"--data-dir", dir, "calc", "--save"}, args...)...)
		require.NoError(t, err)
	}

	out, err := execute(t, "--data-dir", dir, "history", "list")
	require.NoError(t, err)
	assert.Equal(t,
		"1. 2 + 2 = 4 (Result: 4)\n2. 3 × 3 = 9 (Result: 9)\n2/50 slots used\n",
		out)
}

func TestHistoryListEmpty(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "No calculations stored yet.\n", out)
}

func TestHistorySaveEmpty(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--data-dir", dir, "history", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "History saved to "+filepath.Join(dir, config.DefaultHistoryFile))
	assert.Contains(t, out, "No calculations stored yet.")
	assert.Equal(t, "Index, Operation, Result\n", readFile(t, filepath.Join(dir, config.DefaultHistoryFile)))
}

func TestHistoryLoadMissing(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "history", "load")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}

func TestHistoryLoadInvalidHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultHistoryFile), []byte("1, x, 2\n"), 0644))

	out, err := execute(t, "--data-dir", dir, "history", "load")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E202]")
}

func TestLoadReadFailure(t *testing.T) {
	for _, tc := range []struct{ group, file string }{
		{"history", config.DefaultHistoryFile},
		{"settings", config.DefaultSettingsFile},
	} {
		t.Run(tc.group, func(t *testing.T) {
			dir := t.TempDir()
			// A directory opens fine but cannot be read as a file.
			require.NoError(t, os.Mkdir(filepath.Join(dir, tc.file), 0755))

			out, err := execute(t, "--format", "json", "--data-dir", dir, tc.group, "load")
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeReadFailed, resp.Error.Code)
		})
	}
}

func TestHistoryLoadSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	content := "Index, Operation, Result\n1, a, 1\n2, b, oops\nshort\n3, c, 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultHistoryFile), []byte(content), 0644))

	out, err := execute(t, "--data-dir", dir, "history", "load")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 calculations")
}

func TestHistoryImport(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(grid, []byte(`
- operation: 5 + 3 = 8
  result: "8"
- operation: ""
  result: "1"
- operation: 1 ÷ 4 = 0.25
  result: 0.25
`), 0644))

	out, err := execute(t, "--data-dir", dir, "history", "import", grid)
	require.NoError(t, err)
	assert.Equal(t, "History updated with 2 entries\n", out)

	assert.Equal(t,
		"Index, Operation, Result\n1, 5 + 3 = 8, 8\n2, 1 ÷ 4 = 0.25, 0.25\n",
		readFile(t, filepath.Join(dir, config.DefaultHistoryFile)))
	assert.Contains(t, readFile(t, filepath.Join(dir, config.DefaultSettingsFile)), "TotalCalculations=2\n")
}

func TestHistoryImportBadRow(t *testing.T) {
	dir := t.TempDir()
	grid := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(grid, []byte(`
- {operation: ok, result: "1"}
- {operation: bad, result: "one"}
`), 0644))

	out, err := execute(t, "--format", "json", "--data-dir", dir, "history", "import", grid)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidEdit, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "row 2")

	_, statErr := os.Stat(filepath.Join(dir, config.DefaultHistoryFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestHistoryGridRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--data-dir", dir, "calc", "--save", "6", "-", "8")
	require.NoError(t, err)

	out, err := execute(t, "--data-dir", dir, "history", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "6 − 8 = -2")

	grid := filepath.Join(dir, "rows.yaml")
	require.NoError(t, os.WriteFile(grid, []byte(out), 0644))
	out, err = execute(t, "--data-dir", dir, "history", "import", grid)
	require.NoError(t, err)
	assert.Equal(t, "History updated with 1 entries\n", out)
}

func TestSettingsShow(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "settings", "show")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "LastCalculationDate="))
	assert.Equal(t, "TotalCalculations=0", lines[1])
	assert.Equal(t, "MaxHistoryEntries=50", lines[2])
	assert.Equal(t, "LastResult=0", lines[5])
}

func TestSettingsLoadRestoresLastResult(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultSettingsFile),
		[]byte("LastResult=42.5\nTotalCalculations=0\nbogus\n"), 0644))

	out, err := execute(t, "--data-dir", dir, "settings", "load")
	require.NoError(t, err)
	assert.Contains(t, out, "LastResult=42.5")
	assert.NotContains(t, out, "TotalCalculations")
}

func TestSettingsLoadMissing(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "settings", "load")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSettingsEdit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--data-dir", dir, "settings", "edit", "FirstNumber=12", "LastResult = 36")
	require.NoError(t, err)
	assert.Contains(t, out, "FirstNumber=12\n")
	assert.Contains(t, out, "LastResult=36\n")

	saved := readFile(t, filepath.Join(dir, config.DefaultSettingsFile))
	assert.Contains(t, saved, "FirstNumber=12\n")
	assert.Contains(t, saved, "LastResult=36\n")
}

func TestSettingsEditRejected(t *testing.T) {
	tests := map[string]struct {
		arg  string
		exit int
	}{
		"unknown key":   {"Colour=red", ExitCommandError},
		"no equals":     {"FirstNumber", ExitCommandError},
		"bad number":    {"SecondNumber=two", ExitFailure},
		"over capacity": {"TotalCalculations=51", ExitFailure},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			out, err := execute(t, "--data-dir", dir, "settings", "edit", tt.arg)
			require.Error(t, err)
			assert.Equal(t, tt.exit, GetExitCode(err))
			assert.Contains(t, out, "Error [E204]")

			_, statErr := os.Stat(filepath.Join(dir, config.DefaultSettingsFile))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestJournalRecordsCalculations(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tally.db")

	_, err := execute(t, "--data-dir", dir, "--journal", db, "calc", "2", "x", "3")
	require.NoError(t, err)
	_, err = execute(t, "--data-dir", dir, "--journal", db, "calc", "1", "/", "0")
	require.Error(t, err)
	_, err = execute(t, "--data-dir", dir, "--journal", db, "calc", "9", "-", "1")
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "--data-dir", dir, "--journal", db, "journal")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])

	entries, ok := data["entries"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, "2 × 3 = 6", entries[0].(map[string]interface{})["description"])
	assert.Equal(t, "9 − 1 = 8", entries[1].(map[string]interface{})["description"])

	out, err = execute(t, "--data-dir", dir, "--journal", db, "journal", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "9 − 1 = 8")
	assert.NotContains(t, out, "2 × 3 = 6")
	assert.Contains(t, out, "1 of 2 entries")
}

func TestJournalFlagRelativeToWorkingDir(t *testing.T) {
	work := t.TempDir()
	data := t.TempDir()
	t.Chdir(work)

	_, err := execute(t, "--data-dir", data, "--journal", "rel.db", "calc", "1", "+", "1")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(work, "rel.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(data, "rel.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestJournalEnvRelativeToDataDir(t *testing.T) {
	data := t.TempDir()
	t.Setenv(config.EnvJournal, "env.db")

	_, err := execute(t, "--data-dir", data, "calc", "1", "+", "1")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(data, "env.db"))
	require.NoError(t, err)
}

func TestJournalNotConfigured(t *testing.T) {
	out, err := execute(t, "--data-dir", t.TempDir(), "journal")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "no journal configured")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "smoke.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
name: smoke
save: true
steps:
  - {op: "+", first: 10, second: 5, expect: {result: 15}}
  - {op: "/", first: 1, second: 0, expect: {status: divide_by_zero}}
`), 0644))

	out, err := execute(t, "--data-dir", dir, "batch", script)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch: smoke")
	assert.Contains(t, out, "[ok] 1. 10 + 5 = 15")
	assert.Contains(t, out, "[ok] 2. cannot divide by zero")
	assert.Contains(t, out, "Data files saved.")

	assert.Equal(t, "Index, Operation, Result\n1, 10 + 5 = 15, 15\n",
		readFile(t, filepath.Join(dir, config.DefaultHistoryFile)))
}

func TestBatchFailedExpectation(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
steps:
  - {op: "*", first: 2, second: 2, expect: {result: 5}}
`), 0644))

	out, err := execute(t, "--data-dir", dir, "batch", script)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[FAIL] 1. 2 × 2 = 4")
	assert.Contains(t, out, "expected result 5, got 4")
	assert.Contains(t, out, "Error [E301]: 1 of 1 steps failed")
}

func TestBatchInvalidScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(script, []byte("steps: [{op: '%', first: 1, second: 2}]\n"), 0644))

	_, err := execute(t, "--data-dir", dir, "batch", script)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFileAutosave(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tally.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"data_dir = \""+filepath.ToSlash(dir)+"\"\nhistory_file = \"hist.txt\"\nautosave = true\ncapacity = 3\n"), 0644))

	_, err := execute(t, "--config", cfgPath, "calc", "1", "+", "1")
	require.NoError(t, err)

	assert.Equal(t, "Index, Operation, Result\n1, 1 + 1 = 2, 2\n", readFile(t, filepath.Join(dir, "hist.txt")))
	assert.Contains(t, readFile(t, filepath.Join(dir, config.DefaultSettingsFile)), "MaxHistoryEntries=3\n")
}

func TestConfigFileInvalid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tally.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("capacity: 0\n"), 0644))

	_, err := execute(t, "--config", cfgPath, "history", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}
