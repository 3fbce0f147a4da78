package vmm

// tlbSubsystem aggregates the three size-specific TLBs and implements the
// parallel-lookup semantics of spec §4.5: the coarsest size is consulted
// first, since a larger-size hit dominates a finer-size hit and a
// PermissionDenied from any size is authoritative without needing to check
// smaller sizes.
type tlbSubsystem struct {
	oneG *Tlb
	twoM *Tlb
	fourK *Tlb
}

func newTLBSubsystem() *tlbSubsystem {
	return &tlbSubsystem{
		oneG:  newTlb(OneG),
		twoM:  newTlb(TwoM),
		fourK: newTlb(FourK),
	}
}

// tlbOf returns the size-specific Tlb for size, in large-first order when
// ranged over via orderedLargeFirst.
func (s *tlbSubsystem) tlbOf(size PageSize) *Tlb {
	switch size {
	case OneG:
		return s.oneG
	case TwoM:
		return s.twoM
	case FourK:
		return s.fourK
	default:
		return nil
	}
}

func (s *tlbSubsystem) orderedLargeFirst() [3]*Tlb {
	return [3]*Tlb{s.oneG, s.twoM, s.fourK}
}

// check consults all three TLBs in large-first order. hit reports whether
// addr is valid. fault is non-nil only for the PermissionDenied case (spec
// §4.5: surfaced as UNAUTHORIZED without consulting smaller sizes). When
// both hit is false and fault is nil, every TLB missed and the caller must
// fall through to a page-table walk.
func (s *tlbSubsystem) check(req Request) (addr PhysAddr, hit bool, fault *Fault) {
	for _, t := range s.orderedLargeFirst() {
		a, outcome := t.lookup(req.VA, req.PID, req.Privilege, req.Permissions)
		switch outcome {
		case tlbHit:
			return a, true, nil
		case tlbPermissionDenied:
			return 0, false, newFault(Unauthorized, "cached translation does not permit the requested access")
		}
	}
	return 0, false, nil
}

// insertAfterWalk evicts if necessary and inserts the translation that a
// successful walk just produced into the single TLB matching walkedSize.
// Smaller-size TLBs are never populated when a coarser mapping was found
// (spec §4.5, §9 Open Questions). It caches the terminating entry's own
// aligned frame base and its own permissions — not the request's — so a
// later lookup asking for a different (but still page-granted) subset of
// permissions, or a different offset within the same page, still hits (spec
// §8 TLB-soundness invariant).
func (s *tlbSubsystem) insertAfterWalk(req Request, walkedFrame PhysAddr, walkedSize PageSize, walkedPermissions Permissions) {
	t := s.tlbOf(walkedSize)
	if t == nil {
		return
	}
	t.evictIfFull()
	t.insert(req.VA, req.PID, req.Privilege, walkedPermissions, walkedFrame)
}

// invalidateByPage clears the TLB matching size only (spec §6.1).
func (s *tlbSubsystem) invalidateByPage(va VirtualAddr, size PageSize) {
	if t := s.tlbOf(size); t != nil {
		t.invalidatePage(va)
	}
}

// invalidateAll clears every TLB entry in every size-specific TLB (spec
// §6.1).
func (s *tlbSubsystem) invalidateAll() {
	for _, t := range s.orderedLargeFirst() {
		t.invalidateAll()
	}
}
