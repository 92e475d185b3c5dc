package models

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Error taxonomy shared by stores and controllers. Handlers translate these
// to HTTP status codes; nothing below this layer knows about transports.
var (
	// ErrInvalidInput marks malformed or policy-violating fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateKey marks a uniqueness violation (email, nickname, like pair).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor that does not own the target entity.
	ErrForbidden = errors.New("forbidden")
	// ErrAuthFailed marks a login credential mismatch. The message is the same
	// for unknown email and wrong password.
	ErrAuthFailed = errors.New("invalid email or password")
	// ErrUpstreamUnavailable marks a text-generation collaborator failure. It is
	// absorbed inside the background pipeline and never reaches a request.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// isDuplicateErr normalizes driver-specific unique-constraint violations.
// MySQL reports error 1062; SQLite (used by tests) reports a constraint message.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
