package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbms/pkg/requestcontext"
)

func captureMetadata(t *testing.T, m *Metadata, configure func(r *http.Request)) requestcontext.ClientMetadata {
	t.Helper()
	var captured requestcontext.ClientMetadata
	handler := m.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = requestcontext.GetClientMetadata(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/readiness", nil)
	req.RemoteAddr = "203.0.113.47:51234"
	if configure != nil {
		configure(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return captured
}

func TestMetadataAnonymizesIP(t *testing.T) {
	meta := captureMetadata(t, NewMetadata(MetadataConfig{}), nil)
	assert.Equal(t, "203.0.113.0", meta.IP)
}

func TestMetadataIgnoresXFFFromUntrustedProxy(t *testing.T) {
	meta := captureMetadata(t, NewMetadata(MetadataConfig{}), func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7")
	})
	assert.Equal(t, "203.0.113.0", meta.IP)
}

func TestMetadataTrustsConfiguredProxy(t *testing.T) {
	prefix, err := netip.ParsePrefix("203.0.113.0/24")
	require.NoError(t, err)
	m := NewMetadata(MetadataConfig{TrustedProxies: []netip.Prefix{prefix}})

	meta := captureMetadata(t, m, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.47")
	})
	assert.Equal(t, "198.51.100.0", meta.IP)
}

func TestMetadataReducesUserAgentToFamily(t *testing.T) {
	meta := captureMetadata(t, NewMetadata(MetadataConfig{}), func(r *http.Request) {
		r.Header.Set("User-Agent",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})
	assert.True(t, strings.HasPrefix(meta.UserAgent, "Chrome/"), "got %q", meta.UserAgent)
	assert.NotContains(t, meta.UserAgent, "Mozilla")
}

func TestMetadataEmptyUserAgent(t *testing.T) {
	meta := captureMetadata(t, NewMetadata(MetadataConfig{}), nil)
	assert.Equal(t, "unknown", meta.UserAgent)
}
