package vmm

// PageSize identifies one of the three page sizes the walker can terminate
// a translation at, or Internal for an entry that points at the next level's
// table instead of a physical page.
type PageSize uint8

const (
	// Internal marks an entry that holds the base of the next-level
	// table rather than a physical frame.
	Internal PageSize = iota
	// FourK is a 4 KiB page (12-bit offset); only L0 may terminate
	// here.
	FourK
	// TwoM is a 2 MiB page (21-bit offset); L1 or L0 may terminate here.
	TwoM
	// OneG is a 1 GiB page (30-bit offset); L2, L1 or L0 may terminate
	// here.
	OneG
)

// String implements fmt.Stringer for use in log fields and test failure
// messages.
func (s PageSize) String() string {
	switch s {
	case Internal:
		return "internal"
	case FourK:
		return "4K"
	case TwoM:
		return "2M"
	case OneG:
		return "1G"
	default:
		return "unknown"
	}
}

// offsetBits returns the number of low-order virtual-address bits that form
// the in-page offset for this page size. Only meaningful for terminating
// sizes.
func (s PageSize) offsetBits() uint {
	switch s {
	case FourK:
		return 12
	case TwoM:
		return 21
	case OneG:
		return 30
	default:
		return 0
	}
}

// terminatingLevel returns the paging level (0-indexed, L3=0..L0=3) at which
// a mapping of this size is expected to terminate.
func (s PageSize) terminatingLevel() uint8 {
	switch s {
	case OneG:
		return 1 // L2
	case TwoM:
		return 2 // L1
	case FourK:
		return 3 // L0
	default:
		return 0
	}
}

// legalAt reports whether a terminating entry of this size is allowed to
// appear at the given paging level, per spec §4.3 step 5a:
//
//	L2 (level 1) -> ONE_G
//	L1 (level 2) -> TWO_M or ONE_G
//	L0 (level 3) -> FOUR_K, TWO_M or ONE_G
func legalAt(size PageSize, level uint8) bool {
	switch level {
	case 1:
		return size == OneG
	case 2:
		return size == TwoM || size == OneG
	case 3:
		return size == FourK || size == TwoM || size == OneG
	default:
		return false
	}
}
