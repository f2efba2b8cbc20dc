package config

import "fmt"

// pemSource describes one PEM input that may come from a file or inline content
type pemSource struct {
	name    string
	file    string
	content string
}

func (p pemSource) present() bool { return p.file != "" || p.content != "" }

func (p pemSource) validateSingle() error {
	if p.file != "" && p.content != "" {
		return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", p.name, p.name)
	}
	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	return validateTLS(c.Server.TLS)
}

func validateTLS(tls TLSConfig) error {
	cert := pemSource{name: "cert", file: tls.CertFile, content: tls.CertContent}
	key := pemSource{name: "key", file: tls.KeyFile, content: tls.KeyContent}
	ca := pemSource{name: "ca", file: tls.CAFile, content: tls.CAContent}

	var required []pemSource
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		required = []pemSource{cert, key}
	case "mutual":
		required = []pemSource{cert, key, ca}
		if err := validateClientAuthPolicy(tls.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	for _, src := range required {
		if !src.present() {
			return fmt.Errorf("TLS %s is required for %s mode (provide either %sFile or %sContent)",
				src.name, tls.Mode, src.name, src.name)
		}
		if err := src.validateSingle(); err != nil {
			return err
		}
	}

	return validateTLSVersion(tls.MinVersion)
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "", "require", "request", "verify":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}
