package vmm

// Map installs a mapping of the given size at va in the page-table hierarchy
// rooted at root, reusing any valid internal tables already on the path,
// allocating a fresh internal table wherever the path's slot holds anything
// else, and overwriting whatever entry occupies the terminal slot. A nil root
// allocates a fresh L3 table. Map is a construction-time convenience for
// callers that assemble page tables programmatically (scenario loaders,
// tests) — it is not part of the translation path itself and performs no
// permission or validity checking of its own.
func Map(root *PageTable, va VirtualAddr, size PageSize, frame PhysAddr, perm Permissions, priv Privilege) *PageTable {
	if root == nil {
		root = NewPageTable()
	}

	table := root
	terminateLevel := size.terminatingLevel()
	for level := uint8(0); level <= terminateLevel; level++ {
		idx := indexAt(va, level)
		if level == terminateLevel {
			table.Entries[idx] = NewTerminalEntry(tagAt(va, level), size, frame, perm, priv)
			return root
		}

		entry := &table.Entries[idx]
		if entry.Size != Internal || !entry.Valid {
			next := NewPageTable()
			*entry = NewInternalEntry(tagAt(va, level), next, Permissions{Read: true, Write: true, Execute: true})
		}
		table = entry.Next
	}
	return root
}

// ParsePageSize maps the scenario-file spellings ("4k", "2m", "1g") onto a
// PageSize. It returns false for anything else, including "internal".
func ParsePageSize(s string) (PageSize, bool) {
	switch s {
	case "4k", "4K":
		return FourK, true
	case "2m", "2M":
		return TwoM, true
	case "1g", "1G":
		return OneG, true
	default:
		return Internal, false
	}
}

// ParsePrivilege maps the scenario-file spellings ("user", "supervisor") onto
// a Privilege.
func ParsePrivilege(s string) (Privilege, bool) {
	switch s {
	case "user":
		return User, true
	case "supervisor":
		return Supervisor, true
	default:
		return User, false
	}
}
