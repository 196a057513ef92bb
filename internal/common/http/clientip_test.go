package http

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestClientIPResolver(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name    string
		trusted []netip.Prefix
		remote  string
		xff     string
		realIP  string
		want    string
	}{
		{"no proxies ignores xff", nil, "203.0.113.7:4000", "198.51.100.1", "", "203.0.113.7"},
		{"no proxies ignores real ip", nil, "203.0.113.7:4000", "", "198.51.100.1", "203.0.113.7"},
		{"untrusted peer ignores xff", proxies, "203.0.113.7:4000", "198.51.100.1", "", "203.0.113.7"},
		{"trusted peer uses xff", proxies, "10.1.2.3:4000", "198.51.100.1", "", "198.51.100.1"},
		{"spoofed leftmost hop skipped", proxies, "10.1.2.3:4000", "1.1.1.1, 198.51.100.1, 10.9.9.9", "", "198.51.100.1"},
		{"trusted peer falls back to real ip", proxies, "10.1.2.3:4000", "", "198.51.100.2", "198.51.100.2"},
		{"trusted peer without headers", proxies, "10.1.2.3:4000", "", "", "10.1.2.3"},
		{"ipv6 peer", nil, "[2001:db8::1]:4000", "", "", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := NewClientIPResolver(tt.trusted).Resolve(req); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
