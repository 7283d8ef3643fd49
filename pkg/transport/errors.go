package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrSessionExpired    = errors.New("Sesi telah berakhir, silakan login kembali")
	ErrFileNotAccessible = errors.New("File tidak dapat diakses")
)

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrSessionExpired) match 401 responses.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusFound {
		return ErrSessionExpired
	}
	return nil
}

// IsSessionExpired reports whether err means the user must log in again.
// Errors produced by this package are checked structurally; foreign errors
// fall back to the message heuristic the web client always used.
func IsSessionExpired(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") || strings.Contains(msg, "login") || strings.Contains(msg, "302")
}

// Message turns err into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if IsSessionExpired(err) {
		return ErrSessionExpired.Error()
	}
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return err.Error()
}
