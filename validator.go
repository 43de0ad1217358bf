package abuseguard

import (
	"fmt"
	"strconv"
	"strings"
)

type DefaultConfigValidator struct{}

func NewDefaultConfigValidator() *DefaultConfigValidator {
	return &DefaultConfigValidator{}
}

// Validate runs before defaults are applied, so zero values are allowed.
func (v *DefaultConfigValidator) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if strings.TrimSpace(config.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if config.CacheTTL < 0 {
		return fmt.Errorf("%w: cache TTL must not be negative, got %s", ErrInvalidConfig, config.CacheTTL)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidConfig, config.Timeout)
	}
	if config.SweepInterval < 0 {
		return fmt.Errorf("%w: sweep interval must not be negative, got %s", ErrInvalidConfig, config.SweepInterval)
	}
	if config.MaxInFlight < 0 {
		return fmt.Errorf("%w: max in-flight must not be negative, got %d", ErrInvalidConfig, config.MaxInFlight)
	}
	if config.Categories != "" {
		if err := v.validateCategories(config.Categories); err != nil {
			return err
		}
	}
	return nil
}

// validateCategories accepts comma separated numeric codes such as "18,21".
func (v *DefaultConfigValidator) validateCategories(categories string) error {
	for _, code := range strings.Split(categories, ",") {
		if _, err := strconv.Atoi(strings.TrimSpace(code)); err != nil {
			return fmt.Errorf("%w: category %q is not a numeric code", ErrInvalidConfig, code)
		}
	}
	return nil
}
