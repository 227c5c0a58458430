package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNS classification for a failed endpoint, used to enrich failure reasons.
// It layers diagnostics on top of a check without changing its outcome.
const (
	DNSResolves    = "RESOLVES"
	DNSNXDomain    = "NXDOMAIN"
	DNSNoARecord   = "NO_A_RECORD"
	DNSServerError = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// DNSDiagnosis describes what the OS resolver knows about a hostname.
type DNSDiagnosis struct {
	Domain        string
	Class         string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	ResolverError string
}

// DiagnoseDNS classifies a hostname: resolving, missing A/AAAA records,
// nonexistent, or a resolver-side failure.
func DiagnoseDNS(domain string) DNSDiagnosis {
	d := DNSDiagnosis{Domain: strings.TrimSpace(domain)}
	if d.Domain == "" || strings.Contains(d.Domain, "://") {
		d.Class = DNSInvalidName
		return d
	}

	ctx, cancel := context.WithTimeout(context.Background(), dnsTimeout)
	defer cancel()
	r := &net.Resolver{}

	ips, err := r.LookupIP(ctx, "ip", d.Domain)
	switch {
	case err == nil && len(ips) > 0:
		d.IPs = ips
		d.Class = DNSResolves
	case err != nil:
		d.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				d.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				d.Class = DNSServerError
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, d.Domain); err == nil && !strings.EqualFold(cname, d.Domain+".") {
		d.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := r.LookupNS(ctx, d.Domain); err == nil && len(ns) > 0 {
		for _, n := range ns {
			d.Nameservers = append(d.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		// the zone exists even though the name didn't resolve
		if d.Class == DNSNXDomain {
			d.Class = DNSNoARecord
		}
	}

	if d.Class == "" {
		switch {
		case len(d.Nameservers) > 0:
			d.Class = DNSNoARecord
		case d.ResolverError != "":
			d.Class = DNSServerError
		default:
			d.Class = DNSNXDomain
		}
	}
	return d
}

// ExtractHost pulls the hostname out of a URL string, falling back to the
// raw input for bare hostnames.
func ExtractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
