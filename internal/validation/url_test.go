package validation

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndNormalize(t *testing.T) {
	tests := []struct {
		name      string
		validator *URLValidator
		input     string
		expected  string
		wantErr   bool
	}{
		{name: "local backend", validator: NewBaseURLValidator(), input: "http://localhost:8080/", expected: "http://localhost:8080"},
		{name: "missing scheme", validator: NewBaseURLValidator(), input: "api.example.org", expected: "https://api.example.org"},
		{name: "private IP allowed for backend", validator: NewBaseURLValidator(), input: "http://192.168.1.10:8080", expected: "http://192.168.1.10:8080"},
		{name: "path kept", validator: NewBaseURLValidator(), input: " https://api.example.org/stocks/ ", expected: "https://api.example.org/stocks"},
		{name: "empty", validator: NewBaseURLValidator(), input: "  ", wantErr: true},
		{name: "bad scheme", validator: NewBaseURLValidator(), input: "ftp://example.org", wantErr: true},
		{name: "script chars", validator: NewBaseURLValidator(), input: "https://x.org/<script>", wantErr: true},
		{name: "traversal", validator: NewBaseURLValidator(), input: "https://x.org/a/../b", wantErr: true},
		{name: "unroutable", validator: NewBaseURLValidator(), input: "http://0.0.0.0:8080", wantErr: true},
		{name: "external quote page", validator: NewExternalURLValidator(), input: "https://finance.yahoo.com/quote/AAPL", expected: "https://finance.yahoo.com/quote/AAPL"},
		{name: "external localhost", validator: NewExternalURLValidator(), input: "http://localhost/quote", wantErr: true},
		{name: "external private IP", validator: NewExternalURLValidator(), input: "http://10.0.0.5/quote", wantErr: true},
		{name: "too long", validator: NewBaseURLValidator(), input: "https://x.org/" + strings.Repeat("a", 2048), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	for _, h := range []string{"localhost", "127.0.0.1", "::1", "api.localhost"} {
		assert.True(t, isLocalhost(h), h)
	}
	for _, h := range []string{"example.org", "localhost.org", "10.0.0.1"} {
		assert.False(t, isLocalhost(h), h)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"169.254.1.1", true},
		{"127.0.0.1", true},
		{"8.8.8.8", false},
		{"fd00::1", true},
		{"fe80::1", true},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}
