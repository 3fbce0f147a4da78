package vmm

// Context owns everything the core mutates for one simulated address-space
// universe: the per-PID page-table roots and the three size-specific TLBs
// (spec §4.7). All mutable state the package needs lives here — there are
// no package-level globals — so independent Contexts used from independent
// goroutines never interfere with each other (spec §5).
type Context struct {
	roots [MaxPID]*PageTable
	tlbs  *tlbSubsystem
}

// NewContext returns a Context with every PID unmapped and every TLB empty.
func NewContext() *Context {
	return &Context{tlbs: newTLBSubsystem()}
}

// SetRoot installs root as the L3 table for pid. A collaborator (normally a
// test harness) calls this once per process before issuing translations;
// the core never allocates or populates page-table storage itself (spec
// §4.7, §6.2).
func (c *Context) SetRoot(pid uint32, root *PageTable) {
	c.roots[pid] = root
}

// Root returns the L3 table currently installed for pid, or nil if pid has
// no mapping.
func (c *Context) Root(pid uint32) *PageTable {
	return c.roots[pid]
}

// Translate is the core's single entry point (spec §4.6): it consults the
// TLB subsystem first, falls back to a page-table walk on a clean miss, and
// populates the TLB with whatever the walk found before returning. Exactly
// one TLB mutation happens per call that does not end in a Fault: a counter
// increment on a hit, or one insertion after a successful miss-then-walk.
// Nothing is mutated on any failure path.
func (c *Context) Translate(req Request) (PhysAddr, *Fault) {
	if addr, hit, fault := c.tlbs.check(req); hit {
		return addr, nil
	} else if fault != nil {
		return 0, fault
	}

	if req.PID >= MaxPID {
		return 0, newFault(NotValid, "no page table is mapped for this PID")
	}

	root := c.roots[req.PID]
	if root == nil {
		return 0, newFault(NotValid, "no page table is mapped for this PID")
	}

	frame, size, perm, fault := walkPageTables(root, req)
	if fault != nil {
		return 0, fault
	}

	c.tlbs.insertAfterWalk(req, frame, size, perm)
	return compose(frame, req.VA, size), nil
}

// InvalidateByPage clears any TLB entries of the given size whose tag
// matches va, analogous to the x86 INVLPG instruction (spec §6.1). It does
// not touch page-table storage and does not cross TLB sizes.
func (c *Context) InvalidateByPage(va VirtualAddr, size PageSize) {
	c.tlbs.invalidateByPage(va, size)
}

// InvalidateAll clears every TLB entry across every size, resetting
// occupancy and counters, without touching page tables (spec §6.1).
func (c *Context) InvalidateAll() {
	c.tlbs.invalidateAll()
}

// TLBOccupancy reports the number of in-use slots in each size-specific
// TLB, keyed by PageSize.String(). It exists for CLI/debug introspection
// and is not consulted by Translate.
func (c *Context) TLBOccupancy() map[string]int {
	return map[string]int{
		OneG.String():  c.tlbs.oneG.Occupied(),
		TwoM.String():  c.tlbs.twoM.Occupied(),
		FourK.String(): c.tlbs.fourK.Occupied(),
	}
}
