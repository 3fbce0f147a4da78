package vmm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// chainBuilder wires up intermediate L3/L2/L1 tables for a given virtual
// address, stopping and inserting the supplied terminal entry at
// terminateLevel (1=L2, 2=L1, 3=L0). Intermediate entries are granted full
// RWX so the walker's read-only requirement on internal entries (spec
// §4.3 step 4a) never accidentally fails a test aimed at something else.
func chainBuilder(t *testing.T, va VirtualAddr, terminateLevel uint8, terminal PageTableEntry) *PageTable {
	t.Helper()

	l3 := NewPageTable()
	table := l3

	for level := uint8(0); level <= terminateLevel; level++ {
		idx := indexAt(va, level)
		if level == terminateLevel {
			table.Entries[idx] = terminal
			return l3
		}
		next := NewPageTable()
		table.Entries[idx] = NewInternalEntry(tagAt(va, level), next, Permissions{Read: true, Write: true, Execute: true})
		table = next
	}

	// Unreachable: the loop always returns at level == terminateLevel.
	// terminateLevel == 0 places the terminal directly in L3, which the
	// walker rejects as Malformed.
	return l3
}

func mustTerminal(va VirtualAddr, level uint8, size PageSize, frame PhysAddr, perm Permissions, priv Privilege) PageTableEntry {
	return NewTerminalEntry(tagAt(va, level), size, frame, perm, priv)
}

func TestWalk4KMapping(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	frame := PhysAddr(0x0000_0000_ABC4_5000)
	perm := Permissions{Read: true, Write: true, Execute: true}

	root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, frame, perm, User))

	gotFrame, size, gotPerm, fault := walkPageTables(root, Request{VA: va, Permissions: Permissions{Read: true, Write: true}, Privilege: User})
	require.Nil(t, fault)
	require.Equal(t, FourK, size)
	require.Equal(t, frame, gotFrame)
	require.Equal(t, perm, gotPerm)
}

func TestWalk2MMapping(t *testing.T) {
	va := VirtualAddr(0x0000_0000_4567_8000)
	frameBase := PhysAddr(0x0000_0000_DE60_0000)
	perm := Permissions{Read: true, Write: true, Execute: true}

	root := chainBuilder(t, va, 2, mustTerminal(va, 2, TwoM, frameBase, perm, User))

	gotFrame, size, gotPerm, fault := walkPageTables(root, Request{VA: va, Permissions: Permissions{Read: true, Write: true}, Privilege: User})
	require.Nil(t, fault)
	require.Equal(t, TwoM, size)
	// The walker returns the aligned frame base, not composed with the
	// requested VA's offset — composition is the caller's job.
	require.Equal(t, frameBase, gotFrame)
	require.Equal(t, perm, gotPerm)
	require.Equal(t, PhysAddr(0x0000_0000_DE77_8000), compose(gotFrame, va, size))
}

func TestWalk1GMapping(t *testing.T) {
	va := VirtualAddr(0x0000_0000_789A_0000)
	frameBase := PhysAddr(0x0000_0001_2000_0000)
	perm := Permissions{Read: true, Write: true, Execute: true}

	root := chainBuilder(t, va, 1, mustTerminal(va, 1, OneG, frameBase, perm, User))

	gotFrame, size, gotPerm, fault := walkPageTables(root, Request{VA: va, Permissions: Permissions{Read: true, Write: true}, Privilege: User})
	require.Nil(t, fault)
	require.Equal(t, OneG, size)
	require.Equal(t, frameBase, gotFrame)
	require.Equal(t, perm, gotPerm)
	require.Equal(t, PhysAddr(0x0000_0001_589A_0000), compose(gotFrame, va, size))
}

func TestWalkPermissionFailure(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	frame := PhysAddr(0x0000_0000_ABC4_5000)
	perm := Permissions{Read: true} // no write

	root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, frame, perm, User))

	_, _, _, fault := walkPageTables(root, Request{VA: va, Permissions: Permissions{Write: true}, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, Unauthorized, fault.Kind)
}

func TestWalkPrivilegeMismatch(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	frame := PhysAddr(0x0000_0000_ABC4_5000)
	perm := Permissions{Read: true, Write: true, Execute: true}

	root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, frame, perm, Supervisor))

	_, _, _, fault := walkPageTables(root, Request{VA: va, Permissions: Permissions{Read: true, Write: true}, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, PrivilegeMismatch, fault.Kind)
}

func TestWalkNotValid(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := NewPageTable()
	root.Entries[indexL3(va)] = PageTableEntry{VPN: tagAt(va, 0), Size: Internal, Valid: false}

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, NotValid, fault.Kind)
}

func TestWalkMalformedVPNMismatch(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := NewPageTable()
	root.Entries[indexL3(va)] = PageTableEntry{VPN: tagAt(va, 0) ^ 1, Size: Internal, Valid: true, Permissions: Permissions{Read: true}}

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, Malformed, fault.Kind)
}

func TestWalkL0TaggedInternalIsMalformed(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := chainBuilder(t, va, 3, PageTableEntry{
		VPN:         tagAt(va, 3),
		Size:        Internal,
		Next:        NewPageTable(),
		Valid:       true,
		Permissions: Permissions{Read: true},
	})

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, Malformed, fault.Kind)
}

func TestWalkIntermediateDeniedWithoutRead(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, PhysAddr(0x1000), Permissions{Read: true}, User))
	// Strip read from the L3 intermediate entry.
	root.Entries[indexL3(va)].Permissions = Permissions{}

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, Unauthorized, fault.Kind)
}

func TestWalkOneGMayTerminateAtL1(t *testing.T) {
	// Per the legal-size table in spec §4.3 step 5a, L1 accepts either
	// TWO_M or ONE_G; a 1 GiB mapping is allowed to terminate one level
	// below its canonical L2 termination point.
	va := VirtualAddr(0x0000_0000_1234_5000)
	perm := Permissions{Read: true}
	root := chainBuilder(t, va, 2, mustTerminal(va, 2, OneG, PhysAddr(0x1000), perm, User))

	_, size, _, fault := walkPageTables(root, Request{VA: va, Permissions: perm, Privilege: User})
	require.Nil(t, fault)
	require.Equal(t, OneG, size)
}

func TestWalkTwoMIllegalAtL2(t *testing.T) {
	// L2 only ever accepts ONE_G (spec §4.3 step 5a); a TWO_M entry
	// there is malformed.
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := chainBuilder(t, va, 1, mustTerminal(va, 1, TwoM, PhysAddr(0x1000), Permissions{Read: true}, User))

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, Malformed, fault.Kind)
}

func TestWalkInternalL3ButNotValidL2(t *testing.T) {
	// L3 entry is internal and valid; its child L2 entry is present but
	// not valid. Expect NOT_VALID, not MALFORMED (spec §8 Boundary
	// behaviors).
	va := VirtualAddr(0x0000_0000_1234_5000)
	l3 := NewPageTable()
	l2 := NewPageTable()
	l3.Entries[indexL3(va)] = NewInternalEntry(tagAt(va, 0), l2, Permissions{Read: true})
	l2.Entries[indexL2(va)] = PageTableEntry{VPN: tagAt(va, 1), Size: Internal, Valid: false}

	_, _, _, fault := walkPageTables(l3, Request{VA: va, Privilege: User})
	require.NotNil(t, fault)
	require.Equal(t, NotValid, fault.Kind)
}

func TestWalkEmptyPermissionRequestAlwaysSatisfied(t *testing.T) {
	va := VirtualAddr(0x0000_0000_1234_5000)
	root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, PhysAddr(0x1000), Permissions{}, User))

	_, _, _, fault := walkPageTables(root, Request{VA: va, Privilege: User})
	require.Nil(t, fault)
}

func TestWalkBoundaryAddresses(t *testing.T) {
	for _, va := range []VirtualAddr{0, VirtualAddr(1<<48 - 1)} {
		perm := Permissions{Read: true}
		root := chainBuilder(t, va, 3, mustTerminal(va, 3, FourK, PhysAddr(0), perm, User))

		_, _, _, fault := walkPageTables(root, Request{VA: va, Permissions: perm, Privilege: User})
		require.Nil(t, fault)
	}
}
