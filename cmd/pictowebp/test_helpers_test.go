package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pictowebp/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"PICTOWEBP_QUALITY", "PICTOWEBP_WORKERS", "PICTOWEBP_FORMAT", "PICTOWEBP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	stateDir := filepath.Join(base, "state")
	configPath := filepath.Join(homeDir, ".config", "pictowebp", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf("[paths]\nlog_dir = %q\nstate_dir = %q\n\n[conversion]\nworkers = 4\n",
		filepath.Join(base, "logs"), stateDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath, stateDir: stateDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeSourceTree creates a small image tree: two valid PNGs (one nested),
// a valid JPEG, and a zero-byte jpg.
func writeSourceTree(t *testing.T, root string) {
	t.Helper()
	writePNG(t, filepath.Join(root, "a", "1.png"))
	writePNG(t, filepath.Join(root, "b", "c", "3.png"))
	testsupport.WriteJPEG(t, filepath.Join(root, "b", "4.jpeg"), 8, 8)
	testsupport.WriteFile(t, filepath.Join(root, "a", "2.jpg"), 0)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	testsupport.WritePNG(t, path, 8, 8)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
