package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goto/sieve/cli"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/savedsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loansJSON = `[
	{"id": "L1", "name": "Rahul Sharma", "status": "active", "totalValue": 150000},
	{"id": "L2", "name": "Rahul Verma", "status": "closed", "totalValue": 50000},
	{"id": "L3", "name": "Priya Patel", "status": "active", "totalValue": 300000}
]`

func testConfig(t *testing.T) *cli.Config {
	t.Helper()

	cfg, _ := cli.LoadConfig()
	cfg.LogLevel = "error"
	cfg.Store.Driver = "file"
	cfg.Store.File.Dir = t.TempDir()
	return cfg
}

func recordsFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "loans.json")
	require.NoError(t, os.WriteFile(path, []byte(loansJSON), 0o600))
	return path
}

func execute(t *testing.T, cfg *cli.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.New(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func ids(t *testing.T, out string) []string {
	t.Helper()

	var records []record.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))

	result := []string{}
	for _, r := range records {
		result = append(result, r["id"].(string))
	}
	return result
}

func TestSearchCommand(t *testing.T) {
	cases := []struct {
		Description string
		Args        []string
		Expected    []string
	}{
		{
			Description: "should rank records matching the text",
			Args:        []string{"Rahul", "--threshold", "0.6"},
			Expected:    []string{"L2", "L1"},
		},
		{
			Description: "should return every record without text",
			Expected:    []string{"L1", "L2", "L3"},
		},
		{
			Description: "should filter and sort",
			Args:        []string{"--filter", "status:equals:active", "--sort", "totalValue:desc"},
			Expected:    []string{"L3", "L1"},
		},
		{
			Description: "should combine filters",
			Args:        []string{"-f", "totalValue:between:100000,300000", "-f", "name:startsWith:Priya"},
			Expected:    []string{"L3"},
		},
		{
			Description: "should honour exact match",
			Args:        []string{"rahul verma", "--exact", "--fields", "name"},
			Expected:    []string{"L2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Description, func(t *testing.T) {
			cfg := testConfig(t)
			args := append([]string{"search", "--records", recordsFile(t), "-o", "json"}, tc.Args...)

			out, err := execute(t, cfg, args...)
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, ids(t, out))
		})
	}

	t.Run("should require records", func(t *testing.T) {
		_, err := execute(t, testConfig(t), "search", "Rahul")
		assert.Error(t, err)
	})

	t.Run("should reject invalid filters", func(t *testing.T) {
		_, err := execute(t, testConfig(t), "search", "--records", recordsFile(t), "--filter", "status:like:x")
		assert.Error(t, err)
	})

	t.Run("should print suggestions", func(t *testing.T) {
		out, err := execute(t, testConfig(t), "search", "Rah", "--records", recordsFile(t), "--suggest", "--fields", "name")
		require.NoError(t, err)
		assert.Contains(t, out, "Rahul Sharma")
		assert.Contains(t, out, "Rahul Verma")
		assert.NotContains(t, out, "Priya Patel")
	})
}

func TestSavedCommands(t *testing.T) {
	cfg := testConfig(t)

	_, err := execute(t, cfg, "saved", "create",
		"--name", "active by value",
		"--filter", "status:equals:active",
		"--sort", "totalValue:asc",
		"--default",
	)
	require.NoError(t, err)

	out, err := execute(t, cfg, "saved", "list", "-o", "json")
	require.NoError(t, err)

	var searches []savedsearch.SavedSearch
	require.NoError(t, json.Unmarshal([]byte(out), &searches))
	require.Len(t, searches, 1)
	saved := searches[0]
	assert.Equal(t, "active by value", saved.Name)
	assert.True(t, saved.IsDefault)

	out, err = execute(t, cfg, "search", "--records", recordsFile(t), "--saved", saved.ID, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"L1", "L3"}, ids(t, out))

	out, err = execute(t, cfg, "saved", "view", saved.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "active by value"`)

	out, err = execute(t, cfg, "saved", "default")
	require.NoError(t, err)
	assert.Contains(t, out, saved.ID)

	_, err = execute(t, cfg, "saved", "delete", saved.ID)
	require.NoError(t, err)

	_, err = execute(t, cfg, "saved", "view", saved.ID)
	assert.ErrorAs(t, err, &savedsearch.NotFoundError{})

	_, err = execute(t, cfg, "saved", "delete", saved.ID)
	assert.ErrorAs(t, err, &savedsearch.NotFoundError{})

	_, err = execute(t, cfg, "saved", "create", "--query", "nameless")
	assert.Error(t, err)
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sieve.yaml")

	_, err := execute(t, testConfig(t), "config", "init", "--path", path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "log_level: info")
	assert.Contains(t, string(b), "driver: file")

	_, err = execute(t, testConfig(t), "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	var cfg cli.Config
	require.NoError(t, cli.LoadConfigFromFlag(path, &cfg))
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, 0.3, cfg.Search.Threshold)
}
