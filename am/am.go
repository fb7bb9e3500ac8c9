package am

// Config represents the qsfdecode configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	SPSS      SPSSConfig      `mapstructure:"spss" toml:"spss" json:"spss" yaml:"spss"`
	Qualtrics QualtricsConfig `mapstructure:"qualtrics" toml:"qualtrics" json:"qualtrics" yaml:"qualtrics"`
}

// OutputConfig controls what the generated syntax contains
type OutputConfig struct {
	IncludeDeclarations bool `mapstructure:"include_declarations" toml:"include_declarations" json:"include_declarations" yaml:"include_declarations"`
	IncludeQuestionText bool `mapstructure:"include_question_text" toml:"include_question_text" json:"include_question_text" yaml:"include_question_text"`
	IncludeAnswerText   bool `mapstructure:"include_answer_text" toml:"include_answer_text" json:"include_answer_text" yaml:"include_answer_text"`
}

// SPSSConfig configures variable name generation
type SPSSConfig struct {
	// Substitutions are applied to every variable name before invalid
	// characters are replaced. A list rather than a table: config keys are
	// case-folded and split on dots, substitution sources must not be.
	Substitutions []Substitution `mapstructure:"substitutions" toml:"substitutions" json:"substitutions" yaml:"substitutions"`
}

// Substitution replaces From with To in variable names
type Substitution struct {
	From string `mapstructure:"from" toml:"from" json:"from" yaml:"from"`
	To   string `mapstructure:"to" toml:"to" json:"to" yaml:"to"`
}

// SubstitutionMap returns the substitutions keyed by source text. Later
// entries win on duplicate sources.
func (c SPSSConfig) SubstitutionMap() map[string]string {
	out := make(map[string]string, len(c.Substitutions))
	for _, s := range c.Substitutions {
		out[s.From] = s.To
	}
	return out
}

// QualtricsConfig configures access to the Qualtrics v3 API
type QualtricsConfig struct {
	DataCenter        string  `mapstructure:"data_center" toml:"data_center" json:"data_center" yaml:"data_center"` // e.g. "ca1", "fra1"
	APIToken          string  `mapstructure:"api_token" toml:"api_token" json:"api_token" yaml:"api_token"`
	BaseURL           string  `mapstructure:"base_url" toml:"base_url" json:"base_url" yaml:"base_url"` // empty = derived from data_center
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries        int     `mapstructure:"max_retries" toml:"max_retries" json:"max_retries" yaml:"max_retries"`                                 // retries after the first attempt
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"` // 0 = unpaced
}

// Legacy environment variable names read by earlier exporter scripts
const (
	EnvDataCenter = "Q_DATA_CENTER"
	EnvAPIToken   = "Q_API_TOKEN"
)

// EnvPrefix prefixes every environment override (QSF_QUALTRICS_API_TOKEN, ...)
const EnvPrefix = "QSF"

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
	SecretFilePermissions  = 0600 // Config files holding an API token
)
