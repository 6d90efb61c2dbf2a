package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `id,country,amount,date
1,USA,100.50,2024-01-15
2,USA,$200.00,2024-01-16
3,USA,ERROR,2024-01-17
4,Spain,300.00,2024-01-18
5,Spain,50.50,2024-01-19
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"REVETL_INPUT", "REVETL_DELIMITER", "REVETL_DB_DRIVER", "REVETL_DB_DSN", "REVETL_TABLE",
		"REVETL_ROW_POLICY", "REVETL_LOG_LEVEL", "REVETL_DRY_RUN", "MONGO_CONNECTION_STRING",
	} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunThenInspect(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte(salesCSV), 0o644))
	dbPath := filepath.Join(dir, "revenue.db")

	out, err := execute(t, "run", "--input", input, "--output", dbPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "5 rows read, 4 kept, 2 countries written to sqlite:revenue_by_country")
	assert.Contains(t, out, "unparseable_amount")

	out, err = execute(t, "inspect", "--output", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Spain")
	assert.Contains(t, lines[1], "350.50")
	assert.Contains(t, lines[2], "USA")
	assert.Contains(t, lines[2], "300.50")
}

func TestRunDryRunDoesNotCreateStore(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte(salesCSV), 0o644))
	dbPath := filepath.Join(dir, "revenue.db")

	out, err := execute(t, "run", "-i", input, "-o", dbPath, "--dry-run", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "not written (dry run)")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingInputFails(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := execute(t, "run", "-i", filepath.Join(dir, "nope.csv"), "-o", filepath.Join(dir, "revenue.db"), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read stage failed")
	assert.Contains(t, err.Error(), "source not found")
}

func TestRunConfigFileAndFlagPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte(strings.ReplaceAll(salesCSV, ",", ";")), 0o644))

	cfgPath := filepath.Join(dir, "revetl.yaml")
	cfg := "input: " + input + "\ndelimiter: \";\"\ntable: from_file\ndb_dsn: " + filepath.Join(dir, "file.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := execute(t, "run", "-c", cfgPath, "--table", "from_flag", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite:from_flag")
}

func TestRunRejectsInvalidPolicy(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "run", "-i", "x.csv", "--policy", "fuzzy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestInspectRunsRequiresMongo(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(input, []byte(salesCSV), 0o644))
	dbPath := filepath.Join(dir, "revenue.db")

	_, err := execute(t, "run", "-i", input, "-o", dbPath, "--log-level", "error")
	require.NoError(t, err)

	_, err = execute(t, "inspect", "-o", dbPath, "--runs", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_CONNECTION_STRING")
}
