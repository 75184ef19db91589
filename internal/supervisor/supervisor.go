package supervisor

import (
	"fmt"
	"net/http"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// defaultStopGrace is how long Stop waits after SIGTERM before killing.
const defaultStopGrace = 2 * time.Second

// probeRequestTimeout bounds a single health probe so a wedged server
// cannot stall the polling loop; the loop's own budgets live in ProbeConfig.
const probeRequestTimeout = 2 * time.Second

// Supervisor owns exactly one llama.cpp server subprocess at a time.
type Supervisor struct {
	desc    StartupDescriptor
	command []string

	mu        sync.Mutex
	cmd       *exec.Cmd
	state     State
	startedAt time.Time

	client    *http.Client
	probeCfg  ProbeConfig
	stopGrace time.Duration
	pub       EventPublisher
	log       zerolog.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger installs a structured logger. Default is a no-op logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Supervisor) { s.log = l } }

// WithPublisher installs an EventPublisher for lifecycle events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Supervisor) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithProbeConfig overrides the readiness bounds used by Start and IsRunning.
func WithProbeConfig(cfg ProbeConfig) Option { return func(s *Supervisor) { s.probeCfg = cfg } }

// New builds a Supervisor for the given descriptor. The launch command is
// computed once here; no subprocess exists until Start.
func New(desc StartupDescriptor, opts ...Option) *Supervisor {
	s := &Supervisor{
		desc:      desc,
		command:   BuildCommand(desc),
		state:     StateNoProcess,
		client:    &http.Client{Timeout: probeRequestTimeout},
		stopGrace: defaultStopGrace,
		pub:       noopPublisher{},
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Descriptor returns the immutable startup descriptor.
func (s *Supervisor) Descriptor() StartupDescriptor { return s.desc }

// Command returns a copy of the launch command.
func (s *Supervisor) Command() []string {
	return append([]string(nil), s.command...)
}

// Start spawns the server subprocess with its stdout/stderr discarded, then
// blocks until the readiness check resolves. On a failed check the
// subprocess is stopped and reaped before the error returns, so a failed
// Start never leaves an orphan behind. The returned error satisfies
// IsStartupError and includes the exact launch command.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	if s.cmd != nil {
		s.mu.Unlock()
		return ErrStartup(s.command, "a server process is already running")
	}
	s.mu.Unlock()

	s.log.Info().Strs("command", s.command).Msg("starting llama server")
	// Stdout/Stderr left nil: the subprocess writes to the null device.
	// Log collection is an external concern.
	cmd := exec.Command(s.command[0], s.command[1:]...)
	if err := cmd.Start(); err != nil {
		startupsTotal.WithLabelValues("spawn_error").Inc()
		return ErrStartup(s.command, fmt.Sprintf("spawn: %v", err))
	}

	s.mu.Lock()
	s.cmd = cmd
	s.startedAt = time.Now()
	s.mu.Unlock()
	s.pub.Publish(Event{Name: "start", Fields: map[string]any{"pid": cmd.Process.Pid}})

	begin := time.Now()
	if !s.IsRunning() {
		s.Stop()
		startupsTotal.WithLabelValues("not_ready").Inc()
		return ErrStartup(s.command, "server did not become ready, check its logs")
	}
	startupsTotal.WithLabelValues("ok").Inc()
	startupDuration.Observe(time.Since(begin).Seconds())
	s.log.Info().Int("pid", cmd.Process.Pid).Str("url", s.desc.BaseURL()).Msg("llama server ready")
	return nil
}

// Stop terminates the supervised subprocess: SIGTERM first, kill after a
// grace period, and always reaps before returning. Idempotent; calling it
// with no process is a no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}

	pid := cmd.Process.Pid
	_ = cmd.Process.Signal(syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.stopGrace):
		_ = cmd.Process.Kill()
		<-done
	}

	s.setState(StateNoProcess)
	stopsTotal.Inc()
	s.pub.Publish(Event{Name: "stop", Fields: map[string]any{"pid": pid}})
	s.log.Info().Int("pid", pid).Msg("llama server stopped")
}

// Close makes the Supervisor usable as a scoped resource (defer s.Close()).
// Equivalent to Stop; never returns an error.
func (s *Supervisor) Close() error {
	s.Stop()
	return nil
}

// PID returns the subprocess pid, or 0 when nothing is running.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

func (s *Supervisor) hasProcess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()
	if prev != st {
		s.log.Debug().Str("from", string(prev)).Str("to", string(st)).Msg("state transition")
	}
}
