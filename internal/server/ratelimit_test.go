package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterManagerAllow(t *testing.T) {
	m := NewRateLimiter(60, 2, nil)

	assert.True(t, m.Allow("ip:10.0.0.1"))
	assert.True(t, m.Allow("ip:10.0.0.1"))
	assert.False(t, m.Allow("ip:10.0.0.1"), "burst exhausted")
	assert.True(t, m.Allow("ip:10.0.0.2"), "keys are independent")
	assert.Equal(t, 2, m.GetStats()["active_limiters"])

	m.cleanup(0)
	assert.Equal(t, 0, m.GetStats()["active_limiters"])
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{name: "api key preferred", headers: map[string]string{"X-API-Key": "k1"}, byAPIKey: true, byIP: true, want: "api:k1"},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer k2"}, byAPIKey: true, want: "api:k2"},
		{name: "falls back to ip", byAPIKey: true, byIP: true, want: "ip:192.0.2.1"},
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, byIP: true, want: "ip:203.0.113.7"},
		{name: "disabled", headers: map[string]string{"X-API-Key": "k1"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/community", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getRateLimitKey(r, tt.byAPIKey, tt.byIP))
		})
	}
}

func TestMaskRateLimitKey(t *testing.T) {
	assert.Equal(t, "api:abcdefgh****", maskRateLimitKey("api:abcdefghijkl"))
	assert.Equal(t, "api:****", maskRateLimitKey("api:short"))
	assert.Equal(t, "ip:10.0.0.1", maskRateLimitKey("ip:10.0.0.1"))
}
