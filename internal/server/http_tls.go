package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"skillsync/internal/config"
)

// certReloader serves the current server certificate and swaps it in place
// when the files on disk change
type certReloader struct {
	cfg      config.TLSConfig
	cert     atomic.Pointer[tls.Certificate]
	loadedAt atomic.Pointer[time.Time]
	reloads  atomic.Int64
}

func newCertReloader(cfg config.TLSConfig) (*certReloader, error) {
	cr := &certReloader{cfg: cfg}
	if err := cr.reload(); err != nil {
		return nil, err
	}
	return cr, nil
}

// reload loads the key pair; on failure the previous certificate stays
func (cr *certReloader) reload() error {
	cert, err := loadServerCertificate(cr.cfg)
	if err != nil {
		return err
	}
	now := time.Now()
	cr.cert.Store(&cert)
	cr.loadedAt.Store(&now)
	return nil
}

// rotate is the file watcher callback
func (cr *certReloader) rotate() error {
	if err := cr.reload(); err != nil {
		return err
	}
	cr.reloads.Add(1)
	return nil
}

func (cr *certReloader) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return cr.cert.Load(), nil
}

// files returns the on-disk paths worth watching
func (cr *certReloader) files() []string {
	var files []string
	if cr.cfg.CertContent == "" && cr.cfg.CertFile != "" {
		files = append(files, cr.cfg.CertFile)
	}
	if cr.cfg.KeyContent == "" && cr.cfg.KeyFile != "" {
		files = append(files, cr.cfg.KeyFile)
	}
	return files
}

func (cr *certReloader) status() map[string]any {
	if cr == nil {
		return map[string]any{"tls": false}
	}
	st := map[string]any{
		"tls":     true,
		"mode":    cr.cfg.Mode,
		"reloads": cr.reloads.Load(),
	}
	if t := cr.loadedAt.Load(); t != nil {
		st["loaded_at"] = t.UTC().Format(time.RFC3339)
	}
	if c := cr.cert.Load(); c != nil && c.Leaf != nil {
		st["not_after"] = c.Leaf.NotAfter.UTC().Format(time.RFC3339)
		st["subject"] = c.Leaf.Subject.CommonName
	}
	return st
}

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil
	case "server", "mutual":
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	certs, err := newCertReloader(s.TLSConfig)
	if err != nil {
		return err
	}
	tlsConfig, err := buildTLSConfig(s.TLSConfig)
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	tlsConfig.GetCertificate = certs.getCertificate

	s.certs = certs
	httpServer.TLSConfig = tlsConfig
	return nil
}

// buildTLSConfig creates everything except the certificate source
func buildTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tlsVersion(cfg.MinVersion),
		ClientAuth: tls.NoClientCert,
	}

	if len(cfg.CipherSuites) > 0 {
		suites := make([]uint16, 0, len(cfg.CipherSuites))
		for _, name := range cfg.CipherSuites {
			if id := getCipherSuiteID(name); id != 0 {
				suites = append(suites, id)
			}
		}
		tlsConfig.CipherSuites = suites
	}

	if cfg.Mode == "mutual" {
		pool, err := loadCACertificatePool(cfg)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = clientAuthPolicy(cfg.ClientAuthPolicy)
	}

	return tlsConfig, nil
}

// loadServerCertificate loads the server certificate from content or files
func loadServerCertificate(cfg config.TLSConfig) (tls.Certificate, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cfg.CertContent != "" && cfg.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
	case cfg.CertFile != "" && cfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
	default:
		return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}

	if cert.Leaf == nil && len(cert.Certificate) > 0 {
		if leaf, err := x509.ParseCertificate(cert.Certificate[0]); err == nil {
			cert.Leaf = leaf
		}
	}
	return cert, nil
}

// loadCACertificatePool loads the CA pool used to verify client certificates
func loadCACertificatePool(cfg config.TLSConfig) (*x509.CertPool, error) {
	var caCert []byte
	switch {
	case cfg.CAContent != "":
		caCert = []byte(cfg.CAContent)
	case cfg.CAFile != "":
		data, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCert = data
	default:
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, fmt.Errorf("failed to append CA cert")
	}
	return pool, nil
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// getCipherSuiteID returns the cipher suite ID for a given name
func getCipherSuiteID(name string) uint16 {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID
		}
	}
	return 0
}
