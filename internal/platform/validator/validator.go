// internal/platform/validator/validator.go
package validator

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	// Permite dominios internacionales (IDN) y punycode.
	domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// Domain validators

// IsDomain verifica si un string es un dominio válido.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	if !domainRegex.MatchString(domain) {
		return false
	}

	// Verificar que no sea una IP
	if net.ParseIP(domain) != nil {
		return false
	}

	return true
}

// IsSubdomain verifica si subdomain es un subdominio válido de baseDomain.
func IsSubdomain(subdomain, baseDomain string) bool {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	baseDomain = strings.ToLower(strings.TrimSpace(baseDomain))

	if subdomain == baseDomain {
		return false
	}

	return strings.HasSuffix(subdomain, "."+baseDomain)
}

// NormalizeDomain normaliza un dominio objetivo a su forma canónica.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimSuffix(domain, ".")
	return domain
}

// NormalizeName normalizes a candidate hostname as it arrives from a
// dataset: lowercase, trimmed, without trailing dot and without a leading
// wildcard label. Certificate transparency data in particular carries
// "*.example.com" entries.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".")
	name = strings.TrimPrefix(name, "*.")
	name = strings.TrimPrefix(name, ".")
	return name
}

// RegistrableDomain retorna el eTLD+1 del dominio según la Public Suffix List.
func RegistrableDomain(domain string) (string, error) {
	return publicsuffix.EffectiveTLDPlusOne(NormalizeDomain(domain))
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsIPv4 verifica si un string es una dirección IPv4 válida.
func IsIPv4(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.To4() != nil
}

// IsIPv6 verifica si un string es una dirección IPv6 válida.
func IsIPv6(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.To4() == nil
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(portStr string) bool {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port >= 1 && port <= 65535
}

// NormalizeResolver acepta una IP o un host:puerto y retorna la dirección
// canónica host:puerto de un servidor DNS. Retorna false si es inválida.
func NormalizeResolver(addr string) (string, bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", false
	}

	if ip := net.ParseIP(addr); ip != nil {
		return net.JoinHostPort(ip.String(), "53"), true
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil || !IsPort(port) {
		return "", false
	}
	if net.ParseIP(host) == nil && !IsDomain(host) {
		return "", false
	}
	return net.JoinHostPort(host, port), true
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsAlphanumeric verifica si un string contiene solo caracteres alfanuméricos.
func IsAlphanumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	return alphanumericRegex.MatchString(s)
}
