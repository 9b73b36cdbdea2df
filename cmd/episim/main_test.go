package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// parsed returns the subcommand with its flags parsed but not run.
func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := newRootCmd()
	cmd, rest, err := root.Find(args)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags(rest); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(parsed(t, "run"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("horizon: 80\nalpha: 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(parsed(t, "run", "--preset", "seir", "--config", path, "--alpha", "0.5"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "seir" {
		t.Errorf("preset not applied: model %s", cfg.Model)
	}
	if cfg.Horizon != 80 {
		t.Errorf("file should override preset: horizon %v", cfg.Horizon)
	}
	if cfg.Alpha != 0.5 {
		t.Errorf("flag should override file: alpha %v", cfg.Alpha)
	}
	if cfg.Beta != config.DefaultBeta {
		t.Errorf("unset flag should not override: beta %v", cfg.Beta)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(parsed(t, "run", "--preset", "nope")); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := loadConfig(parsed(t, "run", "--population", "-5")); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "out.png")
	out, err := execute(t, "run", "--horizon", "20", "--png", png)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Epidemic Evolution", "peak_infected", "samples"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Errorf("expected png at %s", png)
	}
}

func TestExportCSVCommand(t *testing.T) {
	out, err := execute(t, "export-csv", "--horizon", "1")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 || lines[0] != "time,S,I,R" {
		t.Errorf("unexpected csv:\n%s", out)
	}
}

func TestExportJSONCommand(t *testing.T) {
	out, err := execute(t, "export-json", "--horizon", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"model": "sir"`) {
		t.Errorf("unexpected json:\n%s", out)
	}
}

func TestListCommands(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.ListPresets() {
		if !strings.Contains(out, name) {
			t.Errorf("presets output missing %s", name)
		}
	}

	out, err = execute(t, "models")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"sir", "seir", "rk4", "euler"} {
		if !strings.Contains(out, name) {
			t.Errorf("models output missing %s", name)
		}
	}
}

func TestAnalysisCommands(t *testing.T) {
	out, err := execute(t, "compare", "--horizon", "10", "rk4", "euler")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "MAX_DIFF(rk4)") || !strings.Contains(out, "euler") {
		t.Errorf("unexpected compare output:\n%s", out)
	}

	out, err = execute(t, "sweep", "--horizon", "10", "alpha", "0.1", "0.2")
	if err != nil {
		t.Fatal(err)
	}
	if len(strings.Split(strings.TrimSpace(out), "\n")) != 3 {
		t.Errorf("expected header plus 2 rows:\n%s", out)
	}

	if _, err := execute(t, "sweep", "alpha", "abc"); err == nil {
		t.Error("expected parse error")
	}

	out, err = execute(t, "converge", "--horizon", "5", "--steps", "0.2,0.1", "rk4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ORDER") {
		t.Errorf("unexpected converge output:\n%s", out)
	}

	if _, err := execute(t, "phase", "--horizon", "5", "--y-axis", "7"); err == nil {
		t.Error("expected axis error")
	}
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	data := "name: demo\nsteps:\n  - name: a\n    config:\n      horizon: 5\n  - name: b\n    preset: euler\n    config:\n      horizon: 5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "batch", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "demo") || !strings.Contains(out, "euler") {
		t.Errorf("unexpected batch output:\n%s", out)
	}
}
