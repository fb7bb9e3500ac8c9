package am

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Qualtrics defaults
const (
	DefaultTimeoutSeconds    = 30
	DefaultMaxRetries        = 3
	DefaultRequestsPerSecond = 2.0
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output defaults: labels only, no question or answer text
	v.SetDefault("output.include_declarations", false)
	v.SetDefault("output.include_question_text", false)
	v.SetDefault("output.include_answer_text", false)

	v.SetDefault("spss.substitutions", []Substitution{})

	v.SetDefault("qualtrics.data_center", "")
	v.SetDefault("qualtrics.api_token", "")
	v.SetDefault("qualtrics.base_url", "")
	v.SetDefault("qualtrics.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("qualtrics.max_retries", DefaultMaxRetries)
	v.SetDefault("qualtrics.requests_per_second", DefaultRequestsPerSecond)
}

// BindSensitiveEnvVars explicitly binds credentials to environment variables.
// The QSF_ names take precedence over the legacy ones.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("qualtrics.api_token", EnvPrefix+"_QUALTRICS_API_TOKEN", EnvAPIToken)
	v.BindEnv("qualtrics.data_center", EnvPrefix+"_QUALTRICS_DATA_CENTER", EnvDataCenter)
	v.BindEnv("qualtrics.base_url", EnvPrefix+"_QUALTRICS_BASE_URL")
}

// GetBaseURL returns the API root, derived from the data center when no base
// URL is configured. The result always ends in a slash.
func (c QualtricsConfig) GetBaseURL() string {
	base := c.BaseURL
	if base == "" {
		if c.DataCenter == "" {
			return ""
		}
		base = fmt.Sprintf("https://%s.qualtrics.com/API/v3/", c.DataCenter)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// GetTimeoutSeconds returns the request timeout (default: 30)
func (c QualtricsConfig) GetTimeoutSeconds() int {
	if c.TimeoutSeconds == 0 {
		return DefaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}

// String returns a string representation of the config with the token masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Output: {Declarations: %t, QuestionText: %t, AnswerText: %t}, Qualtrics: {DataCenter: %s, Token: %s}}",
		c.Output.IncludeDeclarations, c.Output.IncludeQuestionText, c.Output.IncludeAnswerText,
		c.Qualtrics.DataCenter, MaskSecret(c.Qualtrics.APIToken))
}

// MaskSecret keeps the last four characters of a secret
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
