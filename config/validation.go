package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks that the values every environment needs are present
// and that the tuning values are usable. The Gemini key is optional here;
// report generation reports it as a configuration error at request time.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	required := map[string]string{
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_PASSWORD": cfg.DBPassword,
		"DB_NAME":     cfg.DBName,
		"JWT_SECRET":  cfg.JWTSecret,
	}
	for _, field := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET"} {
		if required[field] == "" {
			msg := "is required"
			if cfg.Env == Production && isSecret(field) {
				msg = "secret " + strings.ToLower(field) + " is required"
			}
			errs = append(errs, ValidationError{Field: field, Message: msg})
		}
	}

	if cfg.ReportTemperature < 0 || cfg.ReportTemperature > 2 {
		errs = append(errs, ValidationError{Field: "REPORT_TEMPERATURE", Message: "must be between 0 and 2"})
	}
	if cfg.ReportTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "REPORT_TIMEOUT", Message: "must be positive"})
	}
	if cfg.ReportRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "REPORT_RATE_LIMIT", Message: "must not be negative"})
	}
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		errs = append(errs, ValidationError{Field: "REPORT_TIMEZONE", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isSecret(field string) bool {
	switch field {
	case "DB_USER", "DB_PASSWORD", "JWT_SECRET":
		return true
	}
	return false
}
