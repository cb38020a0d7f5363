package remote

import "fmt"

type ErrorKind string

const (
	// KindNetwork covers transport failures: DNS, timeouts, refused
	// connections, interrupted bodies.
	KindNetwork ErrorKind = "network"
	// KindAuth covers rejected credentials (401/403).
	KindAuth ErrorKind = "auth"
	// KindSchema covers everything the backend understood but refused:
	// missing tables, malformed filters, constraint violations.
	KindSchema ErrorKind = "schema"
)

// Error is the typed result of any remote call. The data access layer
// branches on it explicitly instead of recovering from panics or unwinding
// through exception-style control flow.
type Error struct {
	Kind      ErrorKind
	Operation string
	Table     string
	Status    int
	Detail    string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s on %s: %s (status %d): %s", e.Operation, e.Table, e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("remote %s on %s: %s: %s", e.Operation, e.Table, e.Kind, e.Detail)
}
