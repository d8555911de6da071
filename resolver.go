package funclog

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/eryajf/promwrite"
	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// refreshDNS re-resolves the remote-write host and recreates the client when
// the resolved IP set changed. Returns whether the client was refreshed.
// Resolves are throttled to once a minute unless forced. The refresh lock
// serializes the push retry path against the periodic refresh goroutine.
func (e *Exporter) refreshDNS(force bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.targetHost == "" {
		return false
	}
	if !force && time.Since(e.lastResolve) < time.Minute {
		return false
	}

	newSet, err := e.resolveHost(e.targetHost)
	e.lastResolve = time.Now()
	if err != nil || len(newSet) == 0 {
		if e.config.Logger != nil {
			e.config.Logger.Warn("DNS lookup failed",
				zap.String("host", e.targetHost), zap.Error(err))
		}
		return false
	}

	changed := !stringSlicesEqual(newSet, e.resolvedIPs)
	e.resolvedIPs = newSet
	if !changed && !force {
		return false
	}

	// Recreate the client to force new connections.
	if e.config.RemoteWriteURL != "" {
		e.client = promwrite.NewClient(e.config.RemoteWriteURL)
		if e.config.Logger != nil {
			e.config.Logger.Info("refreshed remote write client after DNS update",
				zap.String("host", e.targetHost), zap.Strings("ips", e.resolvedIPs))
		}
	}
	return true
}

// resolveHost tries each configured UDP server in order and falls back to the
// system resolver.
func (e *Exporter) resolveHost(host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(e.ctx, e.config.DNSTimeout)
	defer cancel()

	var firstErr error
	for _, server := range e.config.DNSServers {
		ips, err := resolveUDP(ctx, host, server)
		if err == nil && len(ips) > 0 {
			return ips, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	netIPs, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, err
	}
	ips := make([]string, 0, len(netIPs))
	for _, ip := range netIPs {
		ips = append(ips, ip.String())
	}
	return ips, nil
}

func resolveUDP(ctx context.Context, host, server string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	c := &dns.Client{Net: "udp", Timeout: 800 * time.Millisecond}
	r, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil || r == nil || r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("udp dns failed: %v", err)
	}
	ips := make([]string, 0, len(r.Answer))
	for _, ans := range r.Answer {
		if a, ok := ans.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	return ips, nil
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetOutboundIPv4 gets the outbound IPv4 address of the local machine.
func GetOutboundIPv4() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
