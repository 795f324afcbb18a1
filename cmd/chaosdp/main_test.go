package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestCmd(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "realtime" || cfg.Population != "default" || cfg.InitialAngleDeg != 120 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("fps: 30\ninitial_angle_deg: 90\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd(t, "--angle", "45")
	preset, configFile = "chaos", path

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Population != "chaos" {
		t.Errorf("preset not applied, population %q", cfg.Population)
	}
	if cfg.FPS != 30 {
		t.Errorf("file not applied, fps %d", cfg.FPS)
	}
	if cfg.InitialAngleDeg != 45 {
		t.Errorf("flag should win over file, angle %f", cfg.InitialAngleDeg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cmd := newTestCmd(t)
	preset = "nope"
	if _, err := loadConfig(cmd); err == nil {
		t.Error("unknown preset should fail")
	}

	cmd = newTestCmd(t, "--mode", "turbo")
	if _, err := loadConfig(cmd); err == nil {
		t.Error("unknown mode should fail")
	}
}

func newAnalysisCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addAnalysisFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestAnalysisSetup_ReleaseState(t *testing.T) {
	cfg, model, x0, err := analysisSetup(newAnalysisCmd(t, "--angle", "90", "--dt", "0.01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(x0) != model.StateDim() {
		t.Fatalf("expected %d state entries, got %d", model.StateDim(), len(x0))
	}
	if cfg.InitialAngleDeg != 90 {
		t.Errorf("angle flag not applied, got %f", cfg.InitialAngleDeg)
	}
	if math.Abs(x0[0]-math.Pi/2) > 1e-12 || math.Abs(x0[1]-math.Pi/2) > 1e-12 {
		t.Errorf("expected both arms at π/2, got %v", x0)
	}
	if x0[2] != 0 || x0[3] != 0 {
		t.Errorf("expected release from rest, got %v", x0)
	}
}

func TestAnalysisSetup_RejectsStep(t *testing.T) {
	if _, _, _, err := analysisSetup(newAnalysisCmd(t, "--dt", "0")); err == nil {
		t.Error("zero dt should fail")
	}
}
