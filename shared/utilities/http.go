package utilities

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address without the port.
// chi's RealIP middleware is expected to have rewritten RemoteAddr from
// X-Forwarded-For / X-Real-IP already.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// WriteJSON encodes body as the JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}
