package supervisor

import (
	"time"

	"llamad/pkg/types"
)

// Snapshot is a read-only projection of the supervisor state.
type Snapshot struct {
	State State
	PID   int
}

// Snapshot returns the current state and pid without blocking on probes.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state}
	if s.cmd != nil && s.cmd.Process != nil {
		snap.PID = s.cmd.Process.Pid
	}
	return snap
}

// Ready reports whether the last observed state is Ready. It reflects probe
// history only and never issues a network call itself.
func (s *Supervisor) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady
}

// Status builds a detailed status response for the control plane.
func (s *Supervisor) Status() types.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := types.StatusResponse{
		State:         string(s.state),
		Port:          s.desc.Port,
		ModelPath:     s.desc.ModelPath,
		Command:       append([]string(nil), s.command...),
		BaseURL:       s.desc.BaseURL(),
		CompletionURL: s.desc.CompletionURL(),
		HealthURL:     s.desc.HealthURL(),
	}
	if s.cmd != nil && s.cmd.Process != nil {
		resp.PID = s.cmd.Process.Pid
		resp.UptimeSeconds = int64(time.Since(s.startedAt).Seconds())
	}
	return resp
}
