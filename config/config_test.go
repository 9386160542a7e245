package config

import (
	"strings"
	"testing"
)

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse(`
[package]
name = "demo"
version = "0.1.0"
authors = ["a@example.com"]
license = "MIT"

[[dependencies]]
name = "tensor-core"
version = "1.2.3"

[build]
optimization_level = "O2"
target = "aarch64-unknown-linux-gnu"
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Errorf("package name = %q, want demo", cfg.Package.Name)
	}
	if len(cfg.Dependencies) != 1 || cfg.Dependencies[0].Name != "tensor-core" {
		t.Errorf("dependencies = %+v", cfg.Dependencies)
	}
	lvl, err := cfg.OptLevel()
	if err != nil || lvl != 2 {
		t.Errorf("OptLevel() = %d, %v, want 2", lvl, err)
	}
	// target is parsed but has no effect on the core
	if cfg.Build.Target != "aarch64-unknown-linux-gnu" {
		t.Errorf("target = %q", cfg.Build.Target)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(`[package]
name = "bare"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lvl, err := cfg.OptLevel()
	if err != nil || lvl != 0 {
		t.Errorf("OptLevel() = %d, %v, want 0 for absent [build]", lvl, err)
	}
}

func TestParseRejectsBadOptLevel(t *testing.T) {
	_, err := Parse(`[build]
optimization_level = "O9"`)
	if err == nil || !strings.Contains(err.Error(), "optimization_level") {
		t.Fatalf("expected optimization_level error, got %v", err)
	}
}

func TestParseRejectsBadSemver(t *testing.T) {
	_, err := Parse(`[package]
name = "x"
version = "not-a-version"`)
	if err == nil || !strings.Contains(err.Error(), "semver") {
		t.Fatalf("expected semver error, got %v", err)
	}
}
