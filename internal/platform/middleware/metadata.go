package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"nbms/internal/platform/privacy"
	"nbms/pkg/requestcontext"
)

// MaxXFFHeaderLength is the maximum allowed length for the X-Forwarded-For
// header, to prevent header injection.
const MaxXFFHeaderLength = 500

// MetadataConfig holds configuration for the client-metadata middleware.
type MetadataConfig struct {
	// TrustedProxies is a list of IP prefixes (CIDR notation) that are
	// trusted to set X-Forwarded-For headers. If empty, XFF is never
	// trusted.
	TrustedProxies []netip.Prefix
}

// Metadata extracts anonymized client info for audit attribution. The raw
// IP never enters the context: it is anonymized first, and the User-Agent
// is reduced to its browser/OS family.
type Metadata struct {
	config MetadataConfig
}

// NewMetadata creates the client-metadata middleware.
func NewMetadata(cfg MetadataConfig) *Metadata {
	return &Metadata{config: cfg}
}

// Handler attaches the anonymized client metadata to the request context.
func (m *Metadata) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := requestcontext.ClientMetadata{
			IP:        privacy.AnonymizeIP(m.extractClientIP(r)),
			UserAgent: clientFamily(r.Header.Get("User-Agent")),
		}
		ctx := requestcontext.WithClientMetadata(r.Context(), meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientFamily compresses the full User-Agent string into "browser/os",
// which is enough for audit forensics without fingerprinting the client.
func clientFamily(raw string) string {
	if raw == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, _ := ua.Browser()
	if name == "" {
		name = "other"
	}
	os := ua.OSInfo().Name
	if os == "" {
		os = "other"
	}
	return name + "/" + os
}

// extractClientIP extracts the client IP with trusted proxy validation.
func (m *Metadata) extractClientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		if xri := r.Header.Get("X-Real-IP"); xri != "" && m.isTrustedProxy(remoteIP) {
			if len(xri) <= MaxXFFHeaderLength {
				return strings.TrimSpace(xri)
			}
		}
		return remoteIP
	}

	// XFF header present - only trust if request came from trusted proxy.
	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}
	if len(xff) > MaxXFFHeaderLength {
		return remoteIP
	}

	// First IP in the XFF chain is the original client.
	var clientIP string
	if before, _, ok := strings.Cut(xff, ","); ok {
		clientIP = strings.TrimSpace(before)
	} else {
		clientIP = strings.TrimSpace(xff)
	}
	if _, err := netip.ParseAddr(clientIP); err != nil {
		return remoteIP
	}
	return clientIP
}

// isTrustedProxy checks if the given IP is in the trusted proxy list.
func (m *Metadata) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseRemoteAddr extracts the IP from RemoteAddr (strips port).
func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}

	// Handle IPv6 with brackets: [::1]:port
	if strings.HasPrefix(remoteAddr, "[") {
		if idx := strings.LastIndex(remoteAddr, "]:"); idx != -1 {
			return remoteAddr[1:idx]
		}
		return strings.Trim(strings.Split(remoteAddr, "]:")[0], "[]")
	}

	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}
	return remoteAddr
}
