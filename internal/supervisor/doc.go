// Package supervisor owns the lifecycle of a single local llama.cpp server
// subprocess: launch, readiness polling, status reporting, and teardown.
// It is structured into small files by concern:
//
//   - descriptor.go: StartupDescriptor, launch command, derived URLs.
//   - supervisor.go: Supervisor type, Start/Stop/Close, process ownership.
//   - probe.go: readiness state machine (IsRunning) and its budgets.
//   - errors.go: error types and helpers (IsStartupError).
//   - events.go: lifecycle event publishing (noop by default).
//   - eventpub_memory.go: in-memory publisher for tests.
//   - metrics.go: prometheus collectors for probes and lifecycle ops.
//   - status.go: Snapshot/Status reporting for the control plane.
//
// A Supervisor owns at most one OS process at a time and is the only
// component allowed to signal or reap it. One caller drives Start/Stop;
// concurrent Status reads are safe. Callers must guarantee Stop (or Close)
// runs on every exit path, typically via defer, so a subprocess never
// outlives its handle.
package supervisor
