package ulc

import "fmt"

// Sanity
// ------

// SanityCheck walks the graph reachable from host and verifies the
// binder/occurrence invariant: every Var, Dp0 and Dp1 must be pointed back
// at by the slot it names, and every occupied λ binder slot must hold a Lnk
// to its Var. Duplicator slots are checked only from the Dp0/Dp1 occurrences
// that reach them. A failure is a programmer bug in a rewrite rule or
// a graph builder, not a property of any input term.
func SanityCheck(mem *Heap, host uint64) error {
	return check_slot(mem, host, map[uint64]bool{})
}

func check_slot(mem *Heap, slot uint64, seen map[uint64]bool) error {
	if seen[slot] {
		return nil
	}
	seen[slot] = true
	term := ask_lnk(mem, slot)
	switch get_tag(term) {
	case VAR:
		if ask_lnk(mem, get_loc(term, 0)) != Lnk(slot) {
			return fmt.Errorf("var at %d: binder slot %d does not link back", slot, get_loc(term, 0))
		}
	case DP0:
		if ask_lnk(mem, get_loc(term, 0)) != Lnk(slot) {
			return fmt.Errorf("dp0 at %d: dup slot %d does not link back", slot, get_loc(term, 0))
		}
		return check_slot(mem, get_loc(term, 2), seen)
	case DP1:
		if ask_lnk(mem, get_loc(term, 1)) != Lnk(slot) {
			return fmt.Errorf("dp1 at %d: dup slot %d does not link back", slot, get_loc(term, 1))
		}
		return check_slot(mem, get_loc(term, 2), seen)
	case LAM:
		bnd := ask_arg(mem, term, 0)
		switch get_tag(bnd) {
		case NIL:
		case LNK:
			occ := ask_lnk(mem, get_loc(bnd, 0))
			if get_tag(occ) != VAR || get_loc(occ, 0) != get_loc(term, 0) {
				return fmt.Errorf("lam at %d: occurrence slot %d holds %s, not its var", get_loc(term, 0), get_loc(bnd, 0), show_lnk(occ))
			}
		default:
			return fmt.Errorf("lam at %d: binder slot holds %s", get_loc(term, 0), show_lnk(bnd))
		}
		return check_slot(mem, get_loc(term, 1), seen)
	case APP:
		if err := check_slot(mem, get_loc(term, 0), seen); err != nil {
			return err
		}
		return check_slot(mem, get_loc(term, 1), seen)
	case PAR:
		if err := check_slot(mem, get_loc(term, 0), seen); err != nil {
			return err
		}
		return check_slot(mem, get_loc(term, 1), seen)
	case CTR, CAL:
		arity := get_ari(term)
		for i := uint64(0); i < arity; i++ {
			if err := check_slot(mem, get_loc(term, i), seen); err != nil {
				return err
			}
		}
	}
	return nil
}
