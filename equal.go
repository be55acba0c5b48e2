package ulc

// Structural equality
// -------------------

// GraphEqual reports whether two graphs are the same term up to binder
// positions and a renaming of colors. It is the oracle used to compare
// normal forms reached in different heaps (for instance by different
// reduction orders), where absolute cell positions and colors differ.
func GraphEqual(ma *Heap, a Ptr, mb *Heap, b Ptr) bool {
	e := &equalizer{
		ma:   ma,
		mb:   mb,
		fwd:  map[uint64]uint64{},
		bwd:  map[uint64]uint64{},
		cfwd: map[uint64]uint64{},
		cbwd: map[uint64]uint64{},
		seen: map[[2]uint64]bool{},
	}
	return e.eq(a, b)
}

type equalizer struct {
	ma, mb     *Heap
	fwd, bwd   map[uint64]uint64 // node base correspondence
	cfwd, cbwd map[uint64]uint64 // color correspondence
	seen       map[[2]uint64]bool
}

func (e *equalizer) corr(x, y uint64) bool {
	if v, ok := e.fwd[x]; ok {
		return v == y && e.bwd[y] == x
	}
	if _, ok := e.bwd[y]; ok {
		return false
	}
	e.fwd[x] = y
	e.bwd[y] = x
	return true
}

func (e *equalizer) colcorr(x, y uint64) bool {
	if v, ok := e.cfwd[x]; ok {
		return v == y && e.cbwd[y] == x
	}
	if _, ok := e.cbwd[y]; ok {
		return false
	}
	e.cfwd[x] = y
	e.cbwd[y] = x
	return true
}

func (e *equalizer) eq(a, b Ptr) bool {
	if get_tag(a) != get_tag(b) {
		return false
	}
	switch get_tag(a) {
	case NIL:
		return true
	case VAR:
		return e.corr(get_val(a), get_val(b))
	case LAM:
		if !e.corr(get_val(a), get_val(b)) {
			return false
		}
		usedA := get_tag(ask_arg(e.ma, a, 0)) != NIL
		usedB := get_tag(ask_arg(e.mb, b, 0)) != NIL
		if usedA != usedB {
			return false
		}
		key := [2]uint64{get_val(a), get_val(b)}
		if e.seen[key] {
			return true
		}
		e.seen[key] = true
		return e.eq(ask_arg(e.ma, a, 1), ask_arg(e.mb, b, 1))
	case DP0, DP1:
		if !e.corr(get_val(a), get_val(b)) {
			return false
		}
		if !e.colcorr(get_ex0(a), get_ex0(b)) {
			return false
		}
		key := [2]uint64{get_val(a), get_val(b)}
		if e.seen[key] {
			return true
		}
		e.seen[key] = true
		return e.eq(ask_arg(e.ma, a, 2), ask_arg(e.mb, b, 2))
	case APP:
		return e.eq(ask_arg(e.ma, a, 0), ask_arg(e.mb, b, 0)) &&
			e.eq(ask_arg(e.ma, a, 1), ask_arg(e.mb, b, 1))
	case PAR:
		if !e.colcorr(get_ex0(a), get_ex0(b)) {
			return false
		}
		return e.eq(ask_arg(e.ma, a, 0), ask_arg(e.mb, b, 0)) &&
			e.eq(ask_arg(e.ma, a, 1), ask_arg(e.mb, b, 1))
	case CTR, CAL:
		if get_ex0(a) != get_ex0(b) || get_ex1(a) != get_ex1(b) {
			return false
		}
		arity := get_ari(a)
		for i := uint64(0); i < arity; i++ {
			if !e.eq(ask_arg(e.ma, a, i), ask_arg(e.mb, b, i)) {
				return false
			}
		}
		return true
	}
	return a == b
}
