package shipper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/pkg/types"
)

// ingestPath is the server endpoint reports are posted to.
const ingestPath = "/api/v1/ingest"

const (
	backoffInitial    = 1 * time.Second
	backoffMax        = 60 * time.Second
	backoffMultiplier = 2.0
	sendTimeout       = 10 * time.Second
)

// Shipper buffers report envelopes and ships them to homepulse-server over
// HTTP. Ship() is non-blocking; when the buffer is full the oldest envelope
// is evicted. Run() must be called in a goroutine to drain the buffer.
type Shipper struct {
	cfg    config.AgentConfig
	buf    chan *types.ReportEnvelope
	client *http.Client
	postFn postFunc // injectable for tests
}

// postFunc is the function used to deliver one envelope.
// Abstracted so tests can observe deliveries without a live server.
type postFunc func(ctx context.Context, env *types.ReportEnvelope) error

// permanentError marks a server response that retrying cannot fix.
type permanentError struct {
	status int
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("server returned status %d", e.status)
}

// New creates a Shipper using the given agent config.
func New(cfg config.AgentConfig) *Shipper {
	s := &Shipper{
		cfg:    cfg,
		buf:    make(chan *types.ReportEnvelope, cfg.BufferSize),
		client: &http.Client{Timeout: sendTimeout},
	}
	s.postFn = s.post
	return s
}

// Ship enqueues an envelope for delivery. If the buffer is full the oldest
// entry is evicted to make room for the newest.
func (s *Shipper) Ship(env *types.ReportEnvelope) {
	select {
	case s.buf <- env:
	default:
		// Buffer full — drop the oldest envelope, keep the newest.
		select {
		case <-s.buf:
			slog.Warn("shipper: buffer full, evicted oldest report",
				"instance", env.InstanceID, "buffer_cap", cap(s.buf))
		default:
		}
		s.buf <- env
	}
}

// Pending returns the number of envelopes waiting in the buffer.
func (s *Shipper) Pending() int {
	return len(s.buf)
}

// Run drains the buffer, posting envelopes to the server. Failed deliveries
// are requeued and retried with exponential backoff; permanent rejections
// are discarded. Run blocks until ctx is cancelled.
func (s *Shipper) Run(ctx context.Context) {
	bo := newBackoff()

	for {
		select {
		case <-ctx.Done():
			return

		case env := <-s.buf:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := s.postFn(sendCtx, env)
			cancel()

			if err == nil {
				slog.Debug("shipper: report delivered", "instance", env.InstanceID)
				bo.reset()
				continue
			}

			var perm *permanentError
			if errors.As(err, &perm) {
				slog.Error("shipper: server rejected report, discarding",
					"instance", env.InstanceID, "err", err)
				continue
			}

			// Transient failure — put the envelope back if there's room and
			// wait before the next attempt. A full buffer means fresher data
			// is already queued, so losing this one is acceptable.
			select {
			case s.buf <- env:
			default:
			}

			wait := bo.next()
			slog.Warn("shipper: delivery failed, will retry",
				"endpoint", s.cfg.ServerEndpoint, "err", err, "retry_in", wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}
}

// post delivers one envelope to the server's ingest endpoint.
func (s *Shipper) post(ctx context.Context, env *types.ReportEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return &permanentError{status: http.StatusBadRequest}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.ServerEndpoint+ingestPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.ServerAuth.Mode == "apikey" {
		req.Header.Set(s.cfg.ServerAuth.EffectiveHeader(), s.cfg.ServerAuth.Key())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return &permanentError{status: resp.StatusCode}
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff() *backoff {
	return &backoff{current: backoffInitial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	// ±25% jitter so a fleet of agents does not retry in lockstep.
	jitter := 0.75 + rand.Float64()*0.5
	return time.Duration(float64(d) * jitter)
}

func (b *backoff) reset() {
	b.current = backoffInitial
}
