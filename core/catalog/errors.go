package catalog

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// Kind separates failures the retry loop may try again from failures that
// must propagate immediately.
type Kind string

const (
	// KindTransient marks rate limiting, 5xx responses and flaky-network
	// transport failures.
	KindTransient Kind = "transient"
	// KindPermanent marks validation errors, 4xx responses and malformed
	// response shapes.
	KindPermanent Kind = "permanent"
)

// Error is the typed failure returned by the client. It carries the full
// context the caller needs to log and classify the failure: HTTP status,
// response body when present, and how many attempts were spent.
type Error struct {
	Kind     Kind
	Op       string
	Status   int
	Body     string
	Attempts int
	Err      error

	// retryAfter overrides the backoff formula when the server asked for a
	// fixed delay (THROTTLED semantic error).
	retryAfter time.Duration
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("catalog %s failed (%s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(", status %d", e.Status)
	}
	if e.Attempts > 0 {
		msg += fmt.Sprintf(", %d attempts", e.Attempts)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a catalog error of the transient kind.
func IsTransient(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindTransient
}

// IsPermanent reports whether err is a catalog error of the permanent kind.
func IsPermanent(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindPermanent
}

// classifyStatus maps an HTTP status to an error kind. Rate limiting and
// server errors are worth retrying; anything else 4xx is not.
func classifyStatus(status int) Kind {
	if status == 429 || status >= 500 {
		return KindTransient
	}
	return KindPermanent
}

// classifyTransport maps a transport-level error to an error kind. Timeouts,
// connection resets and DNS failures are the flaky-network class; everything
// else (bad URL, TLS misconfiguration) will not get better on retry.
func classifyTransport(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return KindTransient
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindTransient
	}
	return KindPermanent
}
