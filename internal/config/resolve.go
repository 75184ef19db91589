package config

import (
	"fmt"
	"math"

	"llamad/internal/supervisor"
)

// DefaultSection is the top-level key holding the llama server section.
const DefaultSection = "LlamaServer"

// Field names of the llama server section.
const (
	fieldRepoPath = "llama_cpp_repo_path"
	fieldModel    = "model_path"
	fieldPort     = "port"
	fieldUseGPU   = "use_gpu"
)

// Resolve descends tree along the given section path and builds a startup
// descriptor from the final mapping. A missing key at any depth yields an
// empty mapping, and an empty final mapping means "not configured": Resolve
// returns (nil, nil), never an error for that case. An empty path resolves
// against the root mapping. Missing required fields, mistyped fields, and
// unknown fields produce a config error (IsConfigError).
func Resolve(tree map[string]any, section ...string) (*supervisor.StartupDescriptor, error) {
	m := tree
	for _, key := range section {
		sub, _ := m[key].(map[string]any)
		m = sub
	}
	if len(m) == 0 {
		return nil, nil
	}

	for key := range m {
		switch key {
		case fieldRepoPath, fieldModel, fieldPort, fieldUseGPU:
		default:
			return nil, errUnknownField(key)
		}
	}

	repo, err := stringField(m, fieldRepoPath)
	if err != nil {
		return nil, err
	}
	model, err := stringField(m, fieldModel)
	if err != nil {
		return nil, err
	}
	port, err := intField(m, fieldPort, supervisor.DefaultPort)
	if err != nil {
		return nil, err
	}
	if port <= 0 {
		return nil, errBadValue(fieldPort, "must be a positive integer")
	}
	useGPU, err := boolField(m, fieldUseGPU, true)
	if err != nil {
		return nil, err
	}

	d, err := supervisor.NewStartupDescriptor(repo, model, port, useGPU)
	if err != nil {
		return nil, errBadValue(fieldRepoPath, err.Error())
	}
	return &d, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errMissingField(key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errBadType(key, "non-empty string", v)
	}
	return s, nil
}

// intField tolerates the integer representations of all three config
// decoders: yaml gives int, toml int64, json float64.
func intField(m map[string]any, key string, def int) (int, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errBadType(key, "integer", v)
		}
		return int(n), nil
	default:
		return 0, errBadType(key, "integer", v)
	}
}

func boolField(m map[string]any, key string, def bool) (bool, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errBadType(key, "boolean", v)
	}
	return b, nil
}

func errBadType(key, want string, got any) error {
	return errBadValue(key, fmt.Sprintf("want %s, got %T", want, got))
}
