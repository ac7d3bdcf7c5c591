package config

import "fmt"

// Config represents the full application configuration.
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output"`
	Report        ReportConfig        `yaml:"report"`
	Rewrite       RewriteConfig       `yaml:"rewrite"`
	GitHub        GitHubConfig        `yaml:"github"`
	HTTP          HTTPConfig          `yaml:"http"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputConfig locates the per-tool findings files.
type InputConfig struct {
	Directory string `yaml:"directory"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Basename  string `yaml:"basename"`
	Markdown  bool   `yaml:"markdown"`
}

// ReportConfig configures the aggregation behavior.
type ReportConfig struct {
	// MaxComments caps how many issues the report displays. The full
	// count is always reported; 0 is legal and emits no issues.
	MaxComments int `yaml:"maxComments"`
}

// RewriteConfig configures the optional LLM rewrite pass. Any failure
// during rewriting falls back to the deterministic text report.
type RewriteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
}

// GitHubConfig configures the review comment publisher.
type GitHubConfig struct {
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// StoreConfig configures the run history persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warn
	Format  string `yaml:"format"` // json, human
}

// Validate rejects caller mistakes before the pipeline runs. Data
// problems in findings files are never validation errors; these are.
func (c Config) Validate() error {
	if c.Report.MaxComments < 0 {
		return fmt.Errorf("report.maxComments must be non-negative, got %d", c.Report.MaxComments)
	}
	if c.Input.Directory == "" {
		return fmt.Errorf("input.directory must not be empty")
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("output.directory must not be empty")
	}
	if c.Output.Basename == "" {
		return fmt.Errorf("output.basename must not be empty")
	}
	return nil
}
