package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeConfig writes a config with the demo collections served by ts.
func writeConfig(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	data, err := os.ReadFile("datatable.example.yaml")
	require.NoError(t, err)
	yaml := strings.ReplaceAll(string(data), "http://localhost:8081", ts.URL)
	path := filepath.Join(t.TempDir(), "datatable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func demoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for name, coll := range demoCollections() {
		prefix := "/" + name
		mux.Handle(prefix, http.StripPrefix(prefix, coll))
		mux.Handle(prefix+"/", http.StripPrefix(prefix, coll))
	}
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	path := writeConfig(t, demoServer(t))
	out := filepath.Join(t.TempDir(), "page.html")

	runCommand(t, "render", "--config", path, "--log-level", "error", "--out", out)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(html), "<title>Directory</title>")
	require.Contains(t, string(html), "<td>Ann Smith</td>")
	require.Contains(t, string(html), `#1e90ff</span>`)
	require.Contains(t, string(html), "<td>Roadster</td>")
}

func TestExportCommand(t *testing.T) {
	path := writeConfig(t, demoServer(t))
	out := filepath.Join(t.TempDir(), "cars.csv")

	runCommand(t, "export", "cars", "--config", path, "--log-level", "error", "--out", out)

	csv, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "№;Model;Price\r\n1;Roadster;24999.5 €\r\n", string(csv))
}

func TestColumnsCommand(t *testing.T) {
	path := writeConfig(t, demoServer(t))

	out := runCommand(t, "columns", "cars", "--config", path, "--log-level", "error")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Title|Value "), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "Model|model "), lines[1])
	require.Contains(t, lines[1], "|model:text")
	require.Equal(t, `Price|"{{.price}} {{default .currency ""€""}}"|price:number currency:select`, lines[2])
	for _, line := range lines {
		require.Equal(t, len([]rune(lines[2])), len([]rune(line)), "aligned columns")
	}
}
