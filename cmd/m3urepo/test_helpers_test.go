package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	repoRoot   string
	configPath string
}

func (e *cliTestEnv) catalogPath(parts ...string) string {
	return filepath.Join(append([]string{e.repoRoot, "api"}, parts...)...)
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("M3UREPO_ROOT", "")

	env := &cliTestEnv{
		baseDir:    base,
		repoRoot:   filepath.Join(base, "repo"),
		configPath: filepath.Join(base, "config.toml"),
	}
	if err := os.MkdirAll(env.repoRoot, 0o755); err != nil {
		t.Fatalf("mkdir repo: %v", err)
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nrepo_root = %q\nstate_dir = %q\nlog_dir = %q\n\n[catalog]\nlock_timeout_seconds = 2\n",
		env.repoRoot,
		filepath.Join(env.baseDir, "state"),
		filepath.Join(env.baseDir, "logs"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	flags := []string{"--env-file", ""}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeIssueBody(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "issue.md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write issue body: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
