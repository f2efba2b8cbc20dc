package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"skillsync/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretReader struct {
	secrets map[string]*api.Secret
	err     error
}

func (f *fakeSecretReader) Read(path string) (*api.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.secrets[path], nil
}

func kv2(data map[string]any, version any) *api.Secret {
	return &api.Secret{Data: map[string]any{
		"data":     data,
		"metadata": map[string]any{"version": version},
	}}
}

func newTestVaultClient(secrets map[string]*api.Secret) *VaultClient {
	return &VaultClient{
		reader: &fakeSecretReader{secrets: secrets},
		logger: errors.NewNopLogger(),
	}
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64", input: int64(42), expected: 42},
		{name: "int", input: 7, expected: 7},
		{name: "float64", input: float64(3), expected: 3},
		{name: "string", input: "12", expected: 12},
		{name: "bad string", input: "twelve", expectError: true},
		{name: "unsupported type", input: []string{"1"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetSecretV2(t *testing.T) {
	client := newTestVaultClient(map[string]*api.Secret{
		"secret/data/ok":          kv2(map[string]any{"api_key": "abc"}, "3"),
		"secret/data/kv1":         {Data: map[string]any{"api_key": "abc"}},
		"secret/data/no-metadata": {Data: map[string]any{"data": map[string]any{}}},
	})

	secret, err := client.GetSecretV2("secret/data/ok")
	require.NoError(t, err)
	assert.Equal(t, int64(3), secret.Version)
	assert.Equal(t, "abc", secret.Data["api_key"])

	_, err = client.GetSecretV2("secret/data/kv1")
	assert.ErrorContains(t, err, "missing 'data' field")

	_, err = client.GetSecretV2("secret/data/no-metadata")
	assert.ErrorContains(t, err, "missing 'metadata' field")

	_, err = client.GetSecretV2("secret/data/absent")
	assert.ErrorContains(t, err, "secret not found")
}

func TestGetSecretV2ReadError(t *testing.T) {
	client := &VaultClient{
		reader: &fakeSecretReader{err: fmt.Errorf("permission denied")},
		logger: errors.NewNopLogger(),
	}
	_, err := client.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "permission denied")

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "not initialized")
}

func TestGetStringSecret(t *testing.T) {
	client := newTestVaultClient(map[string]*api.Secret{
		"secret/data/gemini": kv2(map[string]any{"api_key": "gemini-secret", "count": 2}, int64(1)),
	})

	value, err := client.GetStringSecret("secret/data/gemini", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "gemini-secret", value)

	_, err = client.GetStringSecret("secret/data/gemini", "missing")
	assert.ErrorContains(t, err, "not found")

	_, err = client.GetStringSecret("secret/data/gemini", "count")
	assert.ErrorContains(t, err, "not a string")
}

func TestApplySecrets(t *testing.T) {
	client := newTestVaultClient(map[string]*api.Secret{
		"secret/data/gemini": kv2(map[string]any{"api_key": "vault-gemini"}, int64(1)),
		"secret/data/keys":   kv2(map[string]any{"keys": "k1, k2"}, int64(2)),
		"secret/data/tls":    kv2(map[string]any{"cert": "CERT", "key": "KEY"}, int64(1)),
	})

	cfg := &Config{}
	cfg.AI.Chat.APIKey = "chat-own-key"
	cfg.Vault.Secrets = VaultSecrets{
		GeminiKey: "secret/data/gemini",
		APIKeys:   "secret/data/keys",
		TLSCerts:  "secret/data/tls",
	}

	require.NoError(t, applySecrets(client, cfg, errors.NewNopLogger()))

	assert.Equal(t, "vault-gemini", cfg.AI.APIKey)
	assert.Equal(t, "vault-gemini", cfg.AI.Extract.APIKey)
	assert.Equal(t, "vault-gemini", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "chat-own-key", cfg.AI.Chat.APIKey)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "CERT", cfg.Server.TLS.CertContent)
	assert.Equal(t, "KEY", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
}

func TestResolveVaultToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0600))

	token, err := resolveVaultToken(VaultConfig{Token: "direct"})
	require.NoError(t, err)
	assert.Equal(t, "direct", token)

	token, err = resolveVaultToken(VaultConfig{TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "file-token", token)

	_, err = resolveVaultToken(VaultConfig{TokenFile: filepath.Join(dir, "missing")})
	assert.Error(t, err)

	_, err = resolveVaultToken(VaultConfig{})
	assert.ErrorContains(t, err, "token is required")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ApplyVaultSecrets(cfg, errors.NewNopLogger()))
	assert.Empty(t, cfg.AI.APIKey)
}
