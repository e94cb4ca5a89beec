package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	rt := Defaults()
	if rt.TargetStack != "lovable-supabase-github" {
		t.Errorf("TargetStack = %q", rt.TargetStack)
	}
	if rt.StepDelay != 100*time.Millisecond {
		t.Errorf("StepDelay = %v", rt.StepDelay)
	}
	if rt.ResearchTimeout != 30*time.Second {
		t.Errorf("ResearchTimeout = %v", rt.ResearchTimeout)
	}
	if rt.ResearchUserAgent != "Metapod-Agent/1.0 (Backend Refactoring Bot)" {
		t.Errorf("ResearchUserAgent = %q", rt.ResearchUserAgent)
	}
	if rt.TelemetryEnabled {
		t.Error("telemetry enabled by default")
	}
}

func TestLoadRuntimeOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("targetStack", "go-gin")
	viper.Set("stepDelay", "0s")
	viper.Set("research.timeout", "5s")
	viper.Set("research.userAgent", "custom/1.0")
	viper.Set("telemetry.enabled", true)

	rt := LoadRuntime()
	if rt.TargetStack != "go-gin" {
		t.Errorf("TargetStack = %q", rt.TargetStack)
	}
	if rt.StepDelay != 0 {
		t.Errorf("StepDelay = %v, want 0", rt.StepDelay)
	}
	if rt.ResearchTimeout != 5*time.Second {
		t.Errorf("ResearchTimeout = %v", rt.ResearchTimeout)
	}
	if rt.ResearchUserAgent != "custom/1.0" {
		t.Errorf("ResearchUserAgent = %q", rt.ResearchUserAgent)
	}
	if !rt.TelemetryEnabled {
		t.Error("telemetry override not applied")
	}
}

func TestLoadRuntimeFallsBackToDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if rt := LoadRuntime(); rt != Defaults() {
		t.Errorf("LoadRuntime() with no settings = %+v, want defaults", rt)
	}
}

func TestStackFor(t *testing.T) {
	for _, stack := range KnownStacks() {
		cfg, ok := StackFor(stack)
		if !ok {
			t.Errorf("StackFor(%q) not found", stack)
		}
		if cfg.Validation == "" || cfg.Logging == "" {
			t.Errorf("StackFor(%q) incomplete: %+v", stack, cfg)
		}
	}
	if _, ok := StackFor("cobol-cics"); ok {
		t.Error("StackFor accepted an unknown stack")
	}
}

func TestQualityGatesCount(t *testing.T) {
	if len(QualityGates) != 10 {
		t.Errorf("len(QualityGates) = %d, want 10", len(QualityGates))
	}
}
