// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureTargets contiene dominios apex de prueba válidos.
var FixtureTargets = []string{
	"example.com",
	"example.org",
	"sub.example.com",
}

// FixtureSubdomains contiene nombres de subdominios tal como llegan de los
// datasets, incluyendo variantes de mayúsculas para tests de deduplicación.
var FixtureSubdomains = []string{
	"api.example.com",
	"API.example.com",
	"mail.example.com",
	"www.example.com",
	"dev.api.example.com",
}

// FixtureInvalidDomains contiene dominios inválidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"2001:db8::1",
	"-invalid.com",
	"invalid-.com",
	".example.com",
	"example..com",
}

// FixtureIPs contiene direcciones IPv4 de prueba.
var FixtureIPs = []string{
	"192.168.1.1",
	"10.0.0.1",
	"9.9.9.9",
	"8.8.8.8",
}

// FixtureIPv6 contiene direcciones IPv6 de prueba.
var FixtureIPv6 = []string{
	"2001:db8::1",
	"fe80::1",
	"::1",
}

// FixtureResolvers contiene servidores DNS de prueba en formato host:puerto.
var FixtureResolvers = []string{
	"8.8.8.8:53",
	"1.1.1.1:53",
	"9.9.9.9:53",
}
