package tool

import (
	"fmt"
	"net/url"
)

// ValidateRange checks that value is within [min, max]. Returns nil on success.
func ValidateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be %d-%d", name, min, max)
	}
	return nil
}

// ValidateURL checks that value is a valid absolute HTTP(S) URL.
func ValidateURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("'%s' is required", name)
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %s", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", name)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", name)
	}
	return nil
}

// clampDefault substitutes def when value is unset (<= 0) and caps the
// result at max.
func clampDefault(value, def, max int) int {
	if value <= 0 {
		value = def
	}
	if max > 0 && value > max {
		value = max
	}
	return value
}
