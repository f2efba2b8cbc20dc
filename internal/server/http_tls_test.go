package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skillsync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSigned(t *testing.T, cn string) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
}

func TestCertReloaderRotate(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "tls.crt"), filepath.Join(dir, "tls.key")
	writePair := func(cn string) {
		c, k := selfSigned(t, cn)
		require.NoError(t, os.WriteFile(certFile, c, 0o600))
		require.NoError(t, os.WriteFile(keyFile, k, 0o600))
	}
	writePair("first")

	cr, err := newCertReloader(config.TLSConfig{Mode: "server", CertFile: certFile, KeyFile: keyFile})
	require.NoError(t, err)
	assert.Equal(t, []string{certFile, keyFile}, cr.files())
	assert.Equal(t, "first", cr.status()["subject"])
	assert.EqualValues(t, 0, cr.status()["reloads"])

	writePair("second")
	require.NoError(t, cr.rotate())
	cert, err := cr.getCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "second", cert.Leaf.Subject.CommonName)

	// A broken pair keeps the previous certificate
	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0o600))
	assert.Error(t, cr.rotate())
	assert.Equal(t, "second", cr.status()["subject"])
	assert.EqualValues(t, 1, cr.status()["reloads"])
}

func TestCertReloaderFromContent(t *testing.T) {
	c, k := selfSigned(t, "inline")
	cr, err := newCertReloader(config.TLSConfig{Mode: "server", CertContent: string(c), KeyContent: string(k)})
	require.NoError(t, err)
	assert.Empty(t, cr.files())
}

func TestBuildTLSConfig(t *testing.T) {
	ca, _ := selfSigned(t, "ca")

	tests := []struct {
		name           string
		cfg            config.TLSConfig
		wantErr        bool
		wantMinVersion uint16
		wantClientAuth tls.ClientAuthType
		wantSuites     int
	}{
		{
			name:           "server defaults",
			cfg:            config.TLSConfig{Mode: "server"},
			wantMinVersion: tls.VersionTLS12,
			wantClientAuth: tls.NoClientCert,
		},
		{
			name:           "tls13 with suites",
			cfg:            config.TLSConfig{Mode: "server", MinVersion: "1.3", CipherSuites: []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", "NOT_A_SUITE"}},
			wantMinVersion: tls.VersionTLS13,
			wantClientAuth: tls.NoClientCert,
			wantSuites:     1,
		},
		{
			name:           "mutual verify",
			cfg:            config.TLSConfig{Mode: "mutual", CAContent: string(ca), ClientAuthPolicy: "verify"},
			wantMinVersion: tls.VersionTLS12,
			wantClientAuth: tls.VerifyClientCertIfGiven,
		},
		{
			name:    "mutual without ca",
			cfg:     config.TLSConfig{Mode: "mutual"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildTLSConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinVersion, got.MinVersion)
			assert.Equal(t, tt.wantClientAuth, got.ClientAuth)
			assert.Len(t, got.CipherSuites, tt.wantSuites)
		})
	}
}

func TestConfigureTLSDisabled(t *testing.T) {
	s := &Server{TLSConfig: config.TLSConfig{Mode: "disabled"}}
	srv := &http.Server{}
	require.NoError(t, s.configureTLS(srv))
	assert.Nil(t, srv.TLSConfig)
	assert.Nil(t, s.certs)

	s.TLSConfig.Mode = "bogus"
	assert.Error(t, s.configureTLS(srv))
}
