package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx  map[string][]*net.MX
	ips map[string][]net.IPAddr
}

func (r fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := r.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (r fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if ips, ok := r.ips[host]; ok {
		return ips, nil
	}
	return nil, errors.New("no such host")
}

func TestDomainOf(t *testing.T) {
	cases := map[string]string{
		"ana@Example.COM":   "example.com",
		"a@b@barberia.com.": "barberia.com",
		"no-at-sign":        "",
		"trailing@":         "",
	}
	for email, want := range cases {
		if got := DomainOf(email); got != want {
			t.Errorf("DomainOf(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestMailDomainsAccepts(t *testing.T) {
	m := NewMailDomains(fakeResolver{
		mx: map[string][]*net.MX{
			"example.com": {{Host: "mx.example.com.", Pref: 10}},
			"nomail.com":  {{Host: ".", Pref: 0}},
		},
		ips: map[string][]net.IPAddr{
			"host-only.com": {{IP: net.ParseIP("192.0.2.1")}},
		},
	}, 0)

	cases := map[string]bool{
		"ana@example.com":   true,
		"ana@host-only.com": true,
		"ana@nomail.com":    false,
		"ana@missing.test":  false,
		"malformed":         false,
	}
	for email, want := range cases {
		if got := m.Accepts(context.Background(), email); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", email, got, want)
		}
	}
}
