package config

// Redacted returns a shallow copy of cfg with sensitive fields replaced by
// the redaction placeholder "***". Use this when logging the active
// configuration so secret names never leak their contents' location.
func Redacted(cfg *Config) Config {
	out := *cfg

	redact(&out.AWS.SecretName)
	redact(&out.AWS.MessageParam)

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
