package vmm

// indexAt returns the 9-bit index into the table at the given paging level
// (0=L3 .. 3=L0) extracted from the virtual address.
func indexAt(va VirtualAddr, level uint8) uint64 {
	shift := pageLevelShifts[level]
	return uint64(va>>shift) & (entriesPerTable - 1)
}

// indexL3 returns the 9-bit L3 index (bits 39-47) of a virtual address.
func indexL3(va VirtualAddr) uint64 { return indexAt(va, 0) }

// indexL2 returns the 9-bit L2 index (bits 30-38) of a virtual address.
func indexL2(va VirtualAddr) uint64 { return indexAt(va, 1) }

// indexL1 returns the 9-bit L1 index (bits 21-29) of a virtual address.
func indexL1(va VirtualAddr) uint64 { return indexAt(va, 2) }

// indexL0 returns the 9-bit L0 index (bits 12-20) of a virtual address.
func indexL0(va VirtualAddr) uint64 { return indexAt(va, 3) }

// tagAt returns the virtual-address bits at and above the index position of
// the given level: this is the VPN prefix a PTE at that level is expected to
// carry, used for the walk's sanity check (spec §3, §4.3 step 2).
func tagAt(va VirtualAddr, level uint8) uint64 {
	shift := pageLevelShifts[level]
	return uint64(va) >> shift
}

// offsetFor returns the low-order bits of va that form the in-page offset
// for the given page size.
func offsetFor(va VirtualAddr, size PageSize) uint64 {
	bits := size.offsetBits()
	if bits == 0 {
		return 0
	}
	return uint64(va) & (1<<bits - 1)
}

// compose combines a physical frame base with the offset-within-page
// extracted from a virtual address, producing the final physical address
// (spec §4.1).
func compose(frame PhysAddr, va VirtualAddr, size PageSize) PhysAddr {
	return frame | PhysAddr(offsetFor(va, size))
}
