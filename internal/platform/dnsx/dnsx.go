// Package dnsx provides the DNS client used for candidate resolution and
// wildcard probing, mapping response codes onto the error taxonomy.
package dnsx

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"

	"subsift/internal/core/domain"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
)

// Config holds the configuration for the DNS client.
type Config struct {
	// Servers is the list of resolvers as host:port. Empty means the
	// system resolv.conf, falling back to well-known public resolvers.
	Servers []string

	// Timeout is the per-exchange timeout. Default: 5s.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
	}
}

// Client resolves names against a rotating list of DNS servers.
type Client struct {
	client  *dns.Client
	servers []string
	logger  logx.Logger
	next    atomic.Uint32
}

// DefaultServers returns well-known public resolvers.
func DefaultServers() []string {
	return []string{
		"8.8.8.8:53",
		"8.8.4.4:53",
		"1.1.1.1:53",
		"1.0.0.1:53",
		"9.9.9.9:53",
	}
}

// SystemServers reads the resolvers from /etc/resolv.conf. Returns nil if
// the file is missing or lists no servers.
func SystemServers() []string {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return nil
	}
	servers := make([]string, 0, len(cfg.Servers))
	for _, srv := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(srv, cfg.Port))
	}
	return servers
}

// New creates a DNS client. With no configured servers it tries the system
// resolv.conf and then the public defaults.
func New(cfg Config, logger logx.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	servers := cfg.Servers
	if len(servers) == 0 {
		servers = SystemServers()
	}
	if len(servers) == 0 {
		servers = DefaultServers()
	}

	return &Client{
		client:  &dns.Client{Timeout: cfg.Timeout},
		servers: servers,
		logger:  logger.With("component", "dnsx"),
	}
}

// Servers returns the resolvers the client rotates over.
func (c *Client) Servers() []string {
	out := make([]string, len(c.servers))
	copy(out, c.servers)
	return out
}

// Lookup queries A and AAAA records for name. NXDOMAIN comes back as
// ErrNameNotFound and is authoritative; SERVFAIL and transport failures map
// onto transient taxonomy errors so the caller's retry policy can act.
func (c *Client) Lookup(ctx context.Context, name string) (domain.RRSet, error) {
	var rrset domain.RRSet

	if err := c.query(ctx, name, dns.TypeA, &rrset); err != nil {
		return domain.RRSet{}, err
	}

	// Un fallo de AAAA no invalida las respuestas A ya obtenidas.
	if err := c.query(ctx, name, dns.TypeAAAA, &rrset); err != nil {
		c.logger.Debug("AAAA query failed", "name", name, "error", err.Error())
	}

	return rrset, nil
}

func (c *Client) query(ctx context.Context, name string, qtype uint16, rrset *domain.RRSet) error {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	start := int(c.next.Add(1))
	var lastErr error

	for i := 0; i < len(c.servers); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		server := c.servers[(start+i)%len(c.servers)]
		resp, _, err := c.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = classifyExchange(err, server)
			c.logger.Debug("DNS exchange failed",
				"server", server,
				"name", name,
				"error", err.Error(),
			)
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			collect(resp, rrset)
			return nil
		case dns.RcodeNameError:
			// NXDOMAIN es autoritativo, no se consulta otro servidor
			return errors.Wrapf(errors.ErrNameNotFound, "%s", name)
		case dns.RcodeServerFailure, dns.RcodeRefused:
			lastErr = errors.Wrapf(errors.ErrServerFailure, "%s from %s for %s",
				dns.RcodeToString[resp.Rcode], server, name)
			continue
		default:
			return errors.Errorf("unexpected rcode %s for %s", dns.RcodeToString[resp.Rcode], name)
		}
	}

	if lastErr == nil {
		lastErr = errors.Wrap(errors.ErrConnectionFailed, "no DNS servers available")
	}
	return lastErr
}

func collect(resp *dns.Msg, rrset *domain.RRSet) {
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			rrset.A = append(rrset.A, v.A.String())
		case *dns.AAAA:
			rrset.AAAA = append(rrset.AAAA, v.AAAA.String())
		case *dns.CNAME:
			rrset.CNAME = append(rrset.CNAME, strings.TrimSuffix(v.Target, "."))
		}
	}
}

func classifyExchange(err error, server string) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrapf(errors.ErrTimeout, "DNS exchange with %s: %v", server, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrapf(errors.ErrConnectionFailed, "DNS exchange with %s: %v", server, err)
}
