package supervisor

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

// buildTestBinary builds the fake llama server used for subprocess tests
// and returns its path.
func buildTestBinary(t *testing.T) string {
	t.Helper()
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "fake_llama_server")
	cmd := exec.Command("go", "build", "-o", bin, "./testdata/fake_llama_server.go")
	cmd.Dir = "." // package dir internal/supervisor
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build fake server: %v: %s", err, string(out))
	}
	return bin
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// spawnProbe gives subprocess tests room for go-build plus process startup.
var spawnProbe = ProbeConfig{
	MaxConnAttempts:  400,
	ConnRetryDelay:   5 * time.Millisecond,
	LoadPollInterval: 20 * time.Millisecond,
	MaxModelLoadWait: 5 * time.Second,
}

func fakeServerSupervisor(t *testing.T, bin string, port int, opts ...Option) *Supervisor {
	t.Helper()
	t.Setenv("LLAMAD_FAKE_PORT", strconv.Itoa(port))
	desc := StartupDescriptor{ExecPath: bin, ModelPath: "/models/m.gguf", Port: port}
	opts = append([]Option{WithProbeConfig(spawnProbe)}, opts...)
	s := New(desc, opts...)
	t.Cleanup(s.Stop)
	return s
}

func TestStartReadyStop(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	s := fakeServerSupervisor(t, bin, freePort(t))

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Ready() {
		t.Fatalf("expected ready after Start")
	}
	if s.PID() <= 0 {
		t.Fatalf("expected a live pid")
	}
	st := s.Status()
	if st.State != string(StateReady) || st.PID != s.PID() {
		t.Fatalf("unexpected status: %+v", st)
	}

	s.Stop()
	if s.PID() != 0 {
		t.Fatalf("expected process reference cleared after Stop")
	}
	// Idempotent: a second Stop is a no-op.
	s.Stop()
}

func TestStartWhileModelLoading(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	t.Setenv("LLAMAD_FAKE_LOADING_MS", "150")
	s := fakeServerSupervisor(t, bin, freePort(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start during loading phase: %v", err)
	}
	if !s.Ready() {
		t.Fatalf("expected ready after loading phase")
	}
}

func TestStartNotReadyReapsProcess(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	// The fake server listens on a different port than the descriptor's, so
	// readiness can never be established.
	t.Setenv("LLAMAD_FAKE_PORT", strconv.Itoa(freePort(t)))
	desc := StartupDescriptor{ExecPath: bin, ModelPath: "/models/m.gguf", Port: freePort(t)}
	s := New(desc, WithProbeConfig(ProbeConfig{
		MaxConnAttempts: 3,
		ConnRetryDelay:  time.Millisecond,
	}))
	t.Cleanup(s.Stop)

	err := s.Start()
	if err == nil {
		t.Fatalf("expected startup error")
	}
	if !IsStartupError(err) {
		t.Fatalf("expected startup error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), bin) {
		t.Fatalf("diagnostic must include the launch command: %v", err)
	}
	if s.PID() != 0 {
		t.Fatalf("failed Start must not leave a process behind")
	}
	// Verifiable via a subsequent no-op Stop.
	s.Stop()
}

func TestStartSpawnError(t *testing.T) {
	desc := StartupDescriptor{ExecPath: "/nonexistent/server", ModelPath: "/models/m.gguf", Port: freePort(t)}
	s := New(desc)
	err := s.Start()
	if err == nil || !IsStartupError(err) {
		t.Fatalf("expected startup error, got %v", err)
	}
	if s.PID() != 0 {
		t.Fatalf("spawn failure must not record a process")
	}
}

func TestStartTwiceRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	s := fakeServerSupervisor(t, bin, freePort(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); err == nil || !IsStartupError(err) {
		t.Fatalf("second Start must fail while a process is owned, got %v", err)
	}
}

func TestLifecycleEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	pub := NewMemoryPublisher()
	s := fakeServerSupervisor(t, bin, freePort(t), WithPublisher(pub))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var names []string
	for _, e := range pub.Events() {
		names = append(names, e.Name)
	}
	want := []string{"start", "ready", "stop"}
	if len(names) != len(want) {
		t.Fatalf("unexpected events: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("event %d: want %s, got %v", i, want[i], names)
		}
	}
	// Close is reusable as a scoped guard: second call is a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestStopKillsSigtermIgnoringChild(t *testing.T) {
	cmd := exec.Command("sh", "-c", "trap '' TERM; sleep 60")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start helper shell: %v", err)
	}
	// Let the shell install its trap before we signal it.
	time.Sleep(200 * time.Millisecond)

	s := New(StartupDescriptor{ExecPath: "/opt/llama.cpp/server", ModelPath: "/m.gguf", Port: freePort(t)})
	s.cmd = cmd
	s.stopGrace = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return for a SIGTERM-ignoring child")
	}
	if pid := s.PID(); pid != 0 {
		t.Fatalf("PID after Stop: want 0, got %d", pid)
	}
	if err := cmd.Process.Signal(syscall.Signal(0)); err == nil {
		t.Fatal("child still signalable after Stop, expected it killed and reaped")
	}
}
