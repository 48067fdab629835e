package xlcfg

import "fmt"

// ConfigError reports an invalid or incomplete configuration value.
// It is always produced at Build time, before any external call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid xl config: field %q %s", e.Field, e.Reason)
}

func missingRequiredField(field string) *ConfigError {
	return &ConfigError{Field: field, Reason: "is required"}
}
