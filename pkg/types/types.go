package types

// StatusResponse is the control-plane view of the supervised llama server.
type StatusResponse struct {
	// Current lifecycle state (no_process, awaiting_connection, model_loading, ready, failed).
	// example: ready
	State string `json:"state" example:"ready"`
	// PID of the supervised subprocess, when one is running.
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
	// TCP port the supervised server listens on.
	// example: 8080
	Port int `json:"port" example:"8080"`
	// Absolute path of the model file passed to the server.
	// example: /models/tinyllama-q4.gguf
	ModelPath string `json:"model_path" example:"/models/tinyllama-q4.gguf"`
	// Exact launch command, argv style.
	Command []string `json:"command"`
	// Base URL of the supervised server.
	// example: http://localhost:8080
	BaseURL string `json:"base_url" example:"http://localhost:8080"`
	// Completion endpoint URL, for downstream clients.
	// example: http://localhost:8080/completion
	CompletionURL string `json:"completion_url" example:"http://localhost:8080/completion"`
	// Health endpoint URL the supervisor polls.
	// example: http://localhost:8080/health
	HealthURL string `json:"health_url" example:"http://localhost:8080/health"`
	// Seconds since the subprocess was spawned (0 when not running).
	// example: 42
	UptimeSeconds int64 `json:"uptime_seconds,omitempty" example:"42"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: server not ready
	Error string `json:"error" example:"server not ready"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}
