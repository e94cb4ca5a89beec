package config

import (
	"time"

	"github.com/spf13/viper"
)

// Runtime holds the settings a session reads at startup. Precedence is
// explicit viper config > environment variables (METAPOD_*) > defaults.
type Runtime struct {
	TargetStack       string        `mapstructure:"targetStack" validate:"required"`
	StepDelay         time.Duration `mapstructure:"stepDelay" validate:"min=0"`
	ResearchTimeout   time.Duration `mapstructure:"researchTimeout" validate:"gt=0"`
	ResearchUserAgent string        `mapstructure:"researchUserAgent" validate:"required"`
	TelemetryEnabled  bool          `mapstructure:"telemetryEnabled"`
	Verbose           bool          `mapstructure:"verbose"`
}

// Defaults returns the built-in runtime configuration.
func Defaults() Runtime {
	return Runtime{
		TargetStack:       DefaultTargetStack,
		StepDelay:         DefaultStepDelay,
		ResearchTimeout:   ResearchTimeout,
		ResearchUserAgent: ResearchUserAgent,
	}
}

// LoadRuntime resolves the runtime configuration from viper. The CLI layer is
// responsible for binding flags and setting up env handling before calling
// this; it does not prompt or mutate global state.
func LoadRuntime() Runtime {
	rt := Defaults()

	if v := viper.GetString("targetStack"); v != "" {
		rt.TargetStack = v
	}
	if viper.IsSet("stepDelay") {
		rt.StepDelay = viper.GetDuration("stepDelay")
	}
	if viper.IsSet("research.timeout") {
		rt.ResearchTimeout = viper.GetDuration("research.timeout")
	}
	if v := viper.GetString("research.userAgent"); v != "" {
		rt.ResearchUserAgent = v
	}
	rt.TelemetryEnabled = viper.GetBool("telemetry.enabled")
	rt.Verbose = viper.GetBool("verbose")

	return rt
}
