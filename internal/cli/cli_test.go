package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := buildRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "llamad.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "llamad") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	p := writeConfig(t, "LlamaServer:\n  llama_cpp_repo_path: /opt/llama.cpp\n  model_path: /models/m.gguf\n  use_gpu: false\n")
	out, err := runCommand(t, "check", "--config", p)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "/opt/llama.cpp/server -m /models/m.gguf") {
		t.Fatalf("expected launch command in output, got: %q", out)
	}
	if strings.Contains(out, "-ngl") {
		t.Fatalf("gpu flag must be omitted: %q", out)
	}
}

func TestCheckCommandUnconfigured(t *testing.T) {
	p := writeConfig(t, "addr: :9090\n")
	out, err := runCommand(t, "check", "--config", p)
	if err != nil {
		t.Fatalf("an absent section is not an error: %v", err)
	}
	if !strings.Contains(out, "no llama server configured") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCheckCommandBadConfig(t *testing.T) {
	p := writeConfig(t, "LlamaServer:\n  model_path: /models/m.gguf\n")
	if _, err := runCommand(t, "check", "--config", p); err == nil {
		t.Fatalf("expected error for missing required field")
	}
}

func TestCheckCommandCustomSection(t *testing.T) {
	p := writeConfig(t, "services:\n  llama:\n    llama_cpp_repo_path: /opt/llama.cpp\n    model_path: /m.gguf\n")
	out, err := runCommand(t, "check", "--config", p, "--section", "services,llama")
	if err != nil {
		t.Fatalf("check with nested section: %v", err)
	}
	if !strings.Contains(out, "-ngl 1000") {
		t.Fatalf("gpu default must apply: %q", out)
	}
}
