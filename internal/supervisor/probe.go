package supervisor

import (
	"io"
	"net/http"
	"time"
)

// State is the lifecycle state of the readiness state machine.
type State string

const (
	StateNoProcess          State = "no_process"
	StateAwaitingConnection State = "awaiting_connection"
	StateModelLoading       State = "model_loading"
	StateReady              State = "ready"
	StateFailed             State = "failed"
)

// probeResult tags the outcome of a single health probe.
type probeResult int

const (
	probeUnreachable probeResult = iota // connection refused, timeout, DNS
	probeLoading                        // HTTP 503: process live, model not loaded
	probeReady                          // HTTP 200
	probeFatal                          // any other status
)

func (r probeResult) label() string {
	switch r {
	case probeUnreachable:
		return "unreachable"
	case probeLoading:
		return "loading"
	case probeReady:
		return "ready"
	default:
		return "fatal"
	}
}

// Defaults applied when corresponding ProbeConfig fields are unset.
const (
	defaultMaxConnAttempts  = 10
	defaultConnRetryDelay   = 10 * time.Millisecond
	defaultLoadPollInterval = 1 * time.Second
	defaultMaxModelLoadWait = 60 * time.Second
)

// ProbeConfig bounds the readiness polling loop. The connection-attempt
// budget and the model-load budget are independent: neither resets the
// other across iterations of the same loop.
type ProbeConfig struct {
	// MaxConnAttempts is how many unreachable probes are tolerated before
	// readiness resolves to false.
	MaxConnAttempts int
	// ConnRetryDelay is slept between connection attempts.
	ConnRetryDelay time.Duration
	// LoadPollInterval is slept between probes while the model is loading;
	// each sleep counts against MaxModelLoadWait.
	LoadPollInterval time.Duration
	// MaxModelLoadWait is the total time the server may report 503 before
	// readiness resolves to false.
	MaxModelLoadWait time.Duration
}

func (c ProbeConfig) withDefaults() ProbeConfig {
	if c.MaxConnAttempts <= 0 {
		c.MaxConnAttempts = defaultMaxConnAttempts
	}
	if c.ConnRetryDelay <= 0 {
		c.ConnRetryDelay = defaultConnRetryDelay
	}
	if c.LoadPollInterval <= 0 {
		c.LoadPollInterval = defaultLoadPollInterval
	}
	if c.MaxModelLoadWait <= 0 {
		c.MaxModelLoadWait = defaultMaxModelLoadWait
	}
	return c
}

// probeOnce issues one GET against the health endpoint and tags the outcome.
func (s *Supervisor) probeOnce() (probeResult, int) {
	resp, err := s.client.Get(s.desc.HealthURL())
	if err != nil {
		probesTotal.WithLabelValues(probeUnreachable.label()).Inc()
		return probeUnreachable, 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	var res probeResult
	switch resp.StatusCode {
	case http.StatusOK:
		res = probeReady
	case http.StatusServiceUnavailable:
		res = probeLoading
	default:
		res = probeFatal
	}
	probesTotal.WithLabelValues(res.label()).Inc()
	return res, resp.StatusCode
}

// IsRunning blocks until the supervised server is ready or a budget is
// exhausted, using the supervisor's probe bounds. It returns false without
// any network call when no subprocess has been spawned. Callers must treat
// this as a potentially slow, synchronous operation.
func (s *Supervisor) IsRunning() bool { return s.IsRunningWith(s.probeCfg) }

// IsRunningWith drives the readiness state machine with explicit bounds.
// Per iteration it probes the health endpoint once and transitions on the
// tagged result: unreachable spends the connection budget, 503 spends the
// model-load budget, 200 is terminal success, and any other status is a
// terminal failure with no retry.
func (s *Supervisor) IsRunningWith(cfg ProbeConfig) bool {
	cfg = cfg.withDefaults()
	if !s.hasProcess() {
		s.setState(StateNoProcess)
		return false
	}

	attempts := 0
	var loading time.Duration
	for {
		res, status := s.probeOnce()
		switch res {
		case probeReady:
			s.setState(StateReady)
			s.log.Debug().Int("status", status).Msg("server is ready")
			s.pub.Publish(Event{Name: "ready", Fields: map[string]any{"url": s.desc.BaseURL()}})
			return true

		case probeLoading:
			s.setState(StateModelLoading)
			if loading > cfg.MaxModelLoadWait {
				s.setState(StateFailed)
				s.log.Error().Dur("waited", loading).
					Msg("model failed to load in time; consider raising the model-load wait")
				s.pub.Publish(Event{Name: "load_timeout", Fields: map[string]any{"waited": loading.String()}})
				return false
			}
			s.log.Info().Dur("remaining", cfg.MaxModelLoadWait-loading).Int("status", status).
				Msg("model still loading, or server at capacity")
			time.Sleep(cfg.LoadPollInterval)
			loading += cfg.LoadPollInterval

		case probeUnreachable:
			s.setState(StateAwaitingConnection)
			attempts++
			if attempts > cfg.MaxConnAttempts {
				s.setState(StateFailed)
				s.log.Error().Int("attempts", cfg.MaxConnAttempts).Msg("could not establish connection")
				s.pub.Publish(Event{Name: "unreachable", Fields: map[string]any{"attempts": attempts}})
				return false
			}
			s.log.Debug().Int("attempt", attempts).Int("max", cfg.MaxConnAttempts).
				Msg("connection refused, retrying")
			time.Sleep(cfg.ConnRetryDelay)

		case probeFatal:
			// Broken rather than transient: do not retry.
			s.setState(StateFailed)
			s.log.Error().Int("status", status).Msg("server responded with an unexpected status")
			s.pub.Publish(Event{Name: "fatal_status", Fields: map[string]any{"status": status}})
			return false
		}
	}
}
