package supervisor

import (
	"fmt"
	"path/filepath"

	"llamad/internal/common/fsutil"
)

// DefaultPort is used when the configuration omits an explicit port. It
// matches the llama.cpp server's own default, which matters because the
// launch command does not pass a port flag.
const DefaultPort = 8080

// serverBinaryName is the server binary inside the llama.cpp repo directory.
const serverBinaryName = "server"

// gpuLayerCount is the -ngl value passed when GPU offload is enabled.
// llama.cpp clamps it to the model's layer count, so a large fixed value
// means "offload everything".
const gpuLayerCount = "1000"

// StartupDescriptor is the immutable, fully-resolved set of parameters
// needed to launch the server subprocess. Both paths are absolute.
type StartupDescriptor struct {
	ExecPath  string
	ModelPath string
	Port      int
	UseGPU    bool
}

// NewStartupDescriptor resolves the server binary under repoPath and the
// model file to absolute locations. A non-positive port falls back to
// DefaultPort. Neither path is required to exist yet; a bad path surfaces
// when the subprocess is spawned.
func NewStartupDescriptor(repoPath, modelPath string, port int, useGPU bool) (StartupDescriptor, error) {
	execPath, err := fsutil.Resolve(filepath.Join(repoPath, serverBinaryName))
	if err != nil {
		return StartupDescriptor{}, fmt.Errorf("resolve server binary: %w", err)
	}
	model, err := fsutil.Resolve(modelPath)
	if err != nil {
		return StartupDescriptor{}, fmt.Errorf("resolve model path: %w", err)
	}
	if port <= 0 {
		port = DefaultPort
	}
	return StartupDescriptor{ExecPath: execPath, ModelPath: model, Port: port, UseGPU: useGPU}, nil
}

// BuildCommand returns the argv-style launch command for the descriptor.
// Pure and deterministic: [ExecPath, "-m", ModelPath], with "-ngl" appended
// when GPU offload is on.
func BuildCommand(d StartupDescriptor) []string {
	cmd := []string{d.ExecPath, "-m", d.ModelPath}
	if d.UseGPU {
		cmd = append(cmd, "-ngl", gpuLayerCount)
	}
	return cmd
}

// BaseURL returns the root URL of the supervised server.
func (d StartupDescriptor) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", d.Port)
}

// CompletionURL returns the completion endpoint consumed by callers.
func (d StartupDescriptor) CompletionURL() string {
	return d.BaseURL() + "/completion"
}

// HealthURL returns the health endpoint polled for readiness.
func (d StartupDescriptor) HealthURL() string {
	return d.BaseURL() + "/health"
}
