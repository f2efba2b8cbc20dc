package common

import (
	"fmt"
	"slices"
	"strings"
)

var formatAliases = map[string]string{
	"md":  "markdown",
	"txt": "text",
}

// NormalizeFormat lower-cases a format name and resolves short aliases
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := formatAliases[f]; ok {
		return alias
	}
	return f
}

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat applies the default when format is empty, normalizes
// it and checks it against the supported formats
func ResolveOutputFormat(format, defaultFormat string, supportedFormats []string) (string, error) {
	if strings.TrimSpace(format) == "" {
		format = defaultFormat
	}
	format = NormalizeFormat(format)
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}
