package vmm

// FaultKind enumerates the four translation-fault kinds a walk can produce
// (spec §7). It is exhaustive: every Fault the core returns carries exactly
// one of these.
type FaultKind uint8

const (
	// Malformed signals a page-table-walk invariant violation: a VPN
	// mismatch, an L0 entry tagged Internal, or a terminating entry
	// whose size does not belong at its level. This represents a test
	// harness / table-construction bug, not an OS-level event.
	Malformed FaultKind = iota
	// NotValid signals a page-table entry on the walk path with
	// Valid == false: a page fault an OS would resolve.
	NotValid
	// Unauthorized signals that the permission subset test failed for
	// an intermediate or terminating entry.
	Unauthorized
	// PrivilegeMismatch signals request.Privilege != the terminating
	// entry's Privilege.
	PrivilegeMismatch
)

// String implements fmt.Stringer.
func (k FaultKind) String() string {
	switch k {
	case Malformed:
		return "MALFORMED"
	case NotValid:
		return "NOT_VALID"
	case Unauthorized:
		return "UNAUTHORIZED"
	case PrivilegeMismatch:
		return "PRIVILEGE_MISMATCH"
	default:
		return "UNKNOWN_FAULT"
	}
}

// Fault is the stable error surface described in spec §6.3 and §7: every
// translation failure, from either the walker or the TLB, is reported as a
// Fault carrying one of the four FaultKind values.
type Fault struct {
	Kind    FaultKind
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return f.Kind.String() + ": " + f.Message
}

func newFault(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}
