package am

import "github.com/teranos/qsfdecode/errors"

// Validate checks that the configuration is valid. Credentials are not
// required here; commands that talk to Qualtrics check them via
// ValidateCredentials.
func (c *Config) Validate() error {
	for i, s := range c.SPSS.Substitutions {
		if s.From == "" {
			return errors.Newf("spss.substitutions[%d].from cannot be empty", i)
		}
	}

	q := c.Qualtrics
	// 0 = default timeout, negative = invalid
	if q.TimeoutSeconds < 0 {
		return errors.Newf("qualtrics.timeout_seconds must be >= 0, got %d", q.TimeoutSeconds)
	}
	// 0 = no retries
	if q.MaxRetries < 0 {
		return errors.Newf("qualtrics.max_retries must be >= 0, got %d", q.MaxRetries)
	}
	// 0 = unpaced
	if q.RequestsPerSecond < 0 {
		return errors.Newf("qualtrics.requests_per_second must be >= 0, got %f", q.RequestsPerSecond)
	}

	return nil
}

// ValidateCredentials checks that the Qualtrics API can be addressed
func (c QualtricsConfig) ValidateCredentials() error {
	if c.APIToken == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, "qualtrics.api_token is not set"),
			"Set QSF_QUALTRICS_API_TOKEN (or Q_API_TOKEN), or add api_token under [qualtrics] in am.toml",
		)
	}
	if c.GetBaseURL() == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, "qualtrics.data_center is not set"),
			"Set QSF_QUALTRICS_DATA_CENTER (or Q_DATA_CENTER) to your data center ID, e.g. ca1",
		)
	}
	return nil
}
