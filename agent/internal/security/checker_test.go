package security

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/pkg/types"
)

func TestCheck_PlainHTTPReturnsNil(t *testing.T) {
	cs := Check(context.Background(), config.HubConfig{Endpoint: "http://hub.local:8123"})
	if cs != nil {
		t.Errorf("Check(http endpoint) = %+v, want nil", cs)
	}
}

func TestCheck_UnparseableEndpointReturnsNil(t *testing.T) {
	cs := Check(context.Background(), config.HubConfig{Endpoint: "://not a url"})
	if cs != nil {
		t.Errorf("Check(bad endpoint) = %+v, want nil", cs)
	}
}

func TestCheck_SelfSignedCert(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	cs := Check(context.Background(), config.HubConfig{
		Endpoint: srv.URL,
		TLS:      config.TLSConfig{InsecureSkipVerify: true},
	})
	if cs == nil {
		t.Fatal("Check returned nil for an https endpoint")
	}
	if cs.Endpoint != srv.URL {
		t.Errorf("Endpoint = %q, want %q", cs.Endpoint, srv.URL)
	}
	// httptest certificates are valid for years from generation.
	if cs.Status != types.CertValid {
		t.Errorf("Status = %q, want %q (days_left=%d)", cs.Status, types.CertValid, cs.DaysLeft)
	}
	if cs.NotAfter == "" {
		t.Error("NotAfter not populated")
	}
}

func TestCheck_UnreachableHost(t *testing.T) {
	// Grab a free local port, then close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cs := Check(context.Background(), config.HubConfig{
		Endpoint: "https://" + addr,
	})
	if cs == nil {
		t.Fatal("Check returned nil for an https endpoint")
	}
	if cs.Status != types.CertUnreachable {
		t.Errorf("Status = %q, want %q", cs.Status, types.CertUnreachable)
	}
}
