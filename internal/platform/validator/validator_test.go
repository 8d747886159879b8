// internal/platform/validator/validator_test.go
package validator

import (
	"testing"

	"subsift/internal/testutil"
)

func TestIsDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid domain", "example.com", true},
		{"valid subdomain", "test.example.com", true},
		{"valid multi-level", "api.test.example.com", true},
		{"empty string", "", false},
		{"too long", string(make([]byte, 300)), false},
		{"ip address", "192.168.1.1", false},
		{"invalid chars", "exam ple.com", false},
		{"starts with hyphen", "-example.com", false},
		{"ends with hyphen", "example-.com", false},
		{"single label", "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsDomain(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "domain validation")
		})
	}
}

func TestIsSubdomain(t *testing.T) {
	tests := []struct {
		name       string
		subdomain  string
		baseDomain string
		expected   bool
	}{
		{"valid subdomain", "test.example.com", "example.com", true},
		{"multi-level subdomain", "api.test.example.com", "example.com", true},
		{"same domain", "example.com", "example.com", false},
		{"not a subdomain", "other.com", "example.com", false},
		{"partial match", "example.com.test", "example.com", false},
		{"case insensitive", "API.Example.COM", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsSubdomain(tt.subdomain, tt.baseDomain)
			testutil.AssertEqual(t, result, tt.expected, "subdomain check")
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "EXAMPLE.COM", "example.com"},
		{"remove trailing dot", "example.com.", "example.com"},
		{"trim spaces", "  example.com  ", "example.com"},
		{"www is kept", "www.example.com", "www.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeDomain(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "normalized domain")
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "API.Example.COM", "api.example.com"},
		{"trailing dot", "api.example.com.", "api.example.com"},
		{"wildcard label", "*.example.com", "example.com"},
		{"leading dot", ".example.com", "example.com"},
		{"spaces", "  mail.example.com ", "mail.example.com"},
		{"already clean", "mail.example.com", "mail.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeName(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "normalized name")
		})
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"apex", "example.com", "example.com", false},
		{"subdomain collapses", "api.test.example.com", "example.com", false},
		{"multi-part suffix", "foo.bar.co.uk", "bar.co.uk", false},
		{"bare suffix", "co.uk", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RegistrableDomain(tt.input)
			if tt.wantErr {
				testutil.AssertError(t, err, "suffix-only input")
				return
			}
			testutil.AssertNoError(t, err, "registrable")
			testutil.AssertEqual(t, result, tt.expected, "etld+1")
		})
	}
}

func TestIsIP(t *testing.T) {
	for _, ip := range testutil.FixtureIPs {
		testutil.AssertTrue(t, IsIP(ip), "valid IPv4 "+ip)
		testutil.AssertTrue(t, IsIPv4(ip), "IsIPv4 "+ip)
		testutil.AssertFalse(t, IsIPv6(ip), "not IPv6 "+ip)
	}
	for _, ip := range testutil.FixtureIPv6 {
		testutil.AssertTrue(t, IsIP(ip), "valid IPv6 "+ip)
		testutil.AssertTrue(t, IsIPv6(ip), "IsIPv6 "+ip)
	}
	testutil.AssertFalse(t, IsIP("not-an-ip"), "invalid IP")
	testutil.AssertFalse(t, IsIP("999.1.1.1"), "out of range octet")
}

func TestIsPort(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"53", true},
		{"1", true},
		{"65535", true},
		{"0", false},
		{"65536", false},
		{"-1", false},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, IsPort(tt.input), tt.expected, "port validation")
		})
	}
}

func TestNormalizeResolver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"bare ipv4", "8.8.8.8", "8.8.8.8:53", true},
		{"ipv4 with port", "8.8.8.8:5353", "8.8.8.8:5353", true},
		{"bare ipv6", "2001:db8::1", "[2001:db8::1]:53", true},
		{"hostname with port", "dns.example.com:53", "dns.example.com:53", true},
		{"spaces trimmed", " 1.1.1.1 ", "1.1.1.1:53", true},
		{"empty", "", "", false},
		{"bad port", "8.8.8.8:99999", "", false},
		{"garbage", "not a resolver", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := NormalizeResolver(tt.input)
			testutil.AssertEqual(t, ok, tt.ok, "validity")
			if tt.ok {
				testutil.AssertEqual(t, result, tt.expected, "canonical address")
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	testutil.AssertTrue(t, IsEmpty(""), "empty string")
	testutil.AssertTrue(t, IsEmpty("   "), "spaces only")
	testutil.AssertFalse(t, IsEmpty("x"), "non-empty")
}

func TestIsAlphanumeric(t *testing.T) {
	testutil.AssertTrue(t, IsAlphanumeric("abc123"), "alnum")
	testutil.AssertFalse(t, IsAlphanumeric("abc-123"), "hyphen")
	testutil.AssertFalse(t, IsAlphanumeric(""), "empty")
}
