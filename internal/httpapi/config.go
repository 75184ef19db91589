package httpapi

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the control-plane server.
// Nil methods/headers fall back to a read-only default set.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	if len(methods) == 0 {
		methods = []string{"GET", "OPTIONS"}
	}
	corsAllowedMethods = append([]string(nil), methods...)
	if len(headers) == 0 {
		headers = []string{"Accept", "Content-Type"}
	}
	corsAllowedHeaders = append([]string(nil), headers...)
}
