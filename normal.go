package ulc

// Normalization
// -------------

// normal_go forces whnf at host, then recurses into every child slot of the
// revealed head, writing results back through link. The seen set is keyed by
// host slot: duplicators make the graph a DAG and shared subterms must be
// visited once.
func normal_go(mem *Heap, host uint64, seen map[uint64]bool) Ptr {
	term := ask_lnk(mem, host)
	if seen[host] {
		return term
	}
	term = reduce(mem, host)
	seen[host] = true
	rec_locs := []uint64{}
	switch get_tag(term) {
	case LAM:
		rec_locs = append(rec_locs, get_loc(term, 1))
	case APP:
		rec_locs = append(rec_locs, get_loc(term, 0))
		rec_locs = append(rec_locs, get_loc(term, 1))
	case PAR:
		rec_locs = append(rec_locs, get_loc(term, 0))
		rec_locs = append(rec_locs, get_loc(term, 1))
	case DP0, DP1:
		rec_locs = append(rec_locs, get_loc(term, 2))
	case CTR, CAL:
		arity := get_ari(term)
		for i := uint64(0); i < arity; i++ {
			rec_locs = append(rec_locs, get_loc(term, i))
		}
	}
	for _, loc := range rec_locs {
		lnk := normal_go(mem, loc, seen)
		link(mem, loc, lnk)
	}
	return term
}

// normal runs normalization passes to a fixpoint. Nodes carry no parent
// pointers, so a rewrite deep in the graph can open a redex above a slot a
// pass already left behind; the pass is rerun until gas stops moving.
func normal(mem *Heap, host uint64) Ptr {
	term := ask_lnk(mem, host)
	for {
		before := mem.cost
		term = normal_go(mem, host, map[uint64]bool{})
		if mem.cost == before || out_of_gas(mem) {
			return term
		}
	}
}
