package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// Resolver is the subset of *net.Resolver used for mail domain checks.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// MailDomains checks that a guest's email domain can receive mail.
type MailDomains struct {
	resolver Resolver
	timeout  time.Duration
}

func NewMailDomains(resolver Resolver, timeout time.Duration) *MailDomains {
	return &MailDomains{resolver: resolver, timeout: timeout}
}

// DomainOf returns the lower-cased part after the last "@", or "".
func DomainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(email[at+1:], "."))
}

// Accepts reports whether the email's domain publishes a usable MX record
// or, lacking MX, an address. A null MX ("." host) refuses mail outright.
func (m *MailDomains) Accepts(ctx context.Context, email string) bool {
	domain := DomainOf(email)
	if domain == "" {
		return false
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if mx, err := m.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return !(len(mx) == 1 && mx[0].Host == ".")
	}

	ips, err := m.resolver.LookupIPAddr(ctx, domain)
	return err == nil && len(ips) > 0
}
