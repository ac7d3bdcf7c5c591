package config_test

import (
	"testing"

	"github.com/bkyoung/review-aggregator/internal/config"
	"github.com/stretchr/testify/assert"
)

func validConfig() config.Config {
	return config.Config{
		Input:  config.InputConfig{Directory: "findings"},
		Output: config.OutputConfig{Directory: "out", Basename: "report"},
		Report: config.ReportConfig{MaxComments: 15},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateAllowsZeroMaxComments(t *testing.T) {
	cfg := validConfig()
	cfg.Report.MaxComments = 0

	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsCallerMistakes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "negative maxComments", mutate: func(c *config.Config) { c.Report.MaxComments = -1 }},
		{name: "empty input directory", mutate: func(c *config.Config) { c.Input.Directory = "" }},
		{name: "empty output directory", mutate: func(c *config.Config) { c.Output.Directory = "" }},
		{name: "empty output basename", mutate: func(c *config.Config) { c.Output.Basename = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
