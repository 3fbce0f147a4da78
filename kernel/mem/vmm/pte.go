package vmm

// PageTable is a single level's array of page-table entries. Every level
// holds exactly entriesPerTable entries, indexed by the corresponding 9 bits
// of the virtual address (spec §3).
//
// Unlike the teacher kernel's recursive CR3-mapping trick, which only makes
// sense when the paging hierarchy is the real, currently-active MMU table,
// a PageTable here is an ordinary Go value that a collaborator owns and
// links explicitly: the Size field of each entry decides whether Next points
// at another owned PageTable or the entry is a leaf mapping.
type PageTable struct {
	Entries [entriesPerTable]PageTableEntry
}

// NewPageTable returns a PageTable with every entry initially invalid.
func NewPageTable() *PageTable {
	return &PageTable{}
}

// PageTableEntry is a single node in the paging hierarchy. It is modeled as
// a tagged variant rather than a union of packed bitfields (spec §9's
// re-architecture recommendation): Next is meaningful only when Size is
// Internal, and Frame/Permissions/Privilege are meaningful only when Size
// names a terminating page size.
type PageTableEntry struct {
	// VPN is the high-order virtual-page-number bits this entry is
	// expected to match, retained purely as an invariant check (spec
	// §3 Page-table entry).
	VPN uint64

	// Size is Internal for a non-terminating entry, or one of
	// FourK/TwoM/OneG for a terminating one.
	Size PageSize

	// Next is the table this entry descends to. Non-nil only when
	// Size == Internal.
	Next *PageTable

	// Frame is the physical-frame base this entry maps to. Meaningful
	// only when Size != Internal.
	Frame PhysAddr

	// Permissions records what this entry (intermediate or terminal)
	// allows.
	Permissions Permissions

	// Privilege is the privilege level required to use this mapping.
	// Compared against the request only for terminating entries (spec
	// §9 Open Questions).
	Privilege Privilege

	// Valid mirrors the hardware "present" bit. An invalid entry faults
	// with NotValid regardless of anything else it carries.
	Valid bool

	// Noncacheable, Dirty and Global are carried for fidelity with real
	// page-table entries but are not consulted anywhere in the core
	// (spec §3).
	Noncacheable bool
	Dirty        bool
	Global       bool
}

// NewInternalEntry builds a valid, non-terminating entry that descends to
// next. Only read permission is meaningful on an intermediate entry (spec
// §4.3 step 4a); callers typically grant Read: true so ordinary walks
// succeed.
func NewInternalEntry(vpn uint64, next *PageTable, perm Permissions) PageTableEntry {
	return PageTableEntry{
		VPN:         vpn,
		Size:        Internal,
		Next:        next,
		Permissions: perm,
		Valid:       true,
	}
}

// NewTerminalEntry builds a valid, terminating entry mapping to frame at the
// given size, with the given permissions and privilege.
func NewTerminalEntry(vpn uint64, size PageSize, frame PhysAddr, perm Permissions, priv Privilege) PageTableEntry {
	return PageTableEntry{
		VPN:         vpn,
		Size:        size,
		Frame:       frame,
		Permissions: perm,
		Privilege:   priv,
		Valid:       true,
	}
}
