package security

import (
	"context"
	"crypto/tls"
	"math"
	"net"
	"net/url"
	"time"

	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/pkg/types"
)

// expiringWindow is the remaining lifetime below which a certificate is
// reported as "expiring".
const expiringWindow = 30 * 24 * time.Hour

// Check dials the hub's TLS endpoint and returns a CertStatus describing the
// leaf certificate.
//
// Returns nil for non-HTTPS endpoints — there is no certificate to inspect.
// Uses a 10-second dial timeout so a slow or unreachable hub does not stall
// the poll loop.
func Check(ctx context.Context, hub config.HubConfig) *types.CertStatus {
	u, err := url.Parse(hub.Endpoint)
	if err != nil || u.Scheme != "https" {
		return nil
	}

	cs := &types.CertStatus{Endpoint: hub.Endpoint}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		// No explicit port in the URL — append the HTTPS default.
		host = net.JoinHostPort(host, "443")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			InsecureSkipVerify: hub.TLS.InsecureSkipVerify, //nolint:gosec
		},
	}

	netConn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		cs.Status = types.CertUnreachable
		return cs
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		cs.Status = types.CertUnreachable
		return cs
	}

	leaf := peerCerts[0]
	left := time.Until(leaf.NotAfter)

	cs.NotAfter = leaf.NotAfter.UTC().Format(time.RFC3339)
	cs.Issuer = leaf.Issuer.CommonName
	cs.DaysLeft = int(math.Floor(left.Hours() / 24))

	switch {
	case left <= 0:
		cs.Status = types.CertExpired
	case left <= expiringWindow:
		cs.Status = types.CertExpiring
	default:
		cs.Status = types.CertValid
	}

	return cs
}
