package ulc

import "fmt"

// Readback
// --------

// show_lnk renders one cell for traces and error messages.
func show_lnk(x Ptr) string {
	if x == 0 {
		return "~"
	}
	tgs := "???"
	switch get_tag(x) {
	case DP0:
		tgs = "DP0"
	case DP1:
		tgs = "DP1"
	case VAR:
		tgs = "VAR"
	case LNK:
		tgs = "LNK"
	case NIL:
		tgs = "NIL"
	case LAM:
		tgs = "LAM"
	case APP:
		tgs = "APP"
	case PAR:
		tgs = "PAR"
	case CTR:
		tgs = "CTR"
	case CAL:
		tgs = "CAL"
	}
	return fmt.Sprintf("%s:%x:%x:%x", tgs, get_ex0(x), get_ex1(x), get_val(x))
}

type shower struct {
	mem   *Heap
	names map[uint64]string
	dirs  map[uint64][]uint64
	seen  map[uint64]bool
	count int
}

// Show prints the graph under term in the textual surface syntax with
// canonical binder names x0, x1, ... assigned in discovery order.
//
// Projections do not print as binders: a Dp0/Dp1 pushes its side onto a
// per-color direction stack and prints its duplicator's expression, and a
// Par whose color has a pending direction prints only the chosen side. A
// normal form routinely keeps fans stuck on neutral spines (a duplicator
// over a variable never fires a rule); following directions through them
// reads the term those fans denote, so shared occurrences print as repeated
// variables. Only a Par met with no pending direction prints as &c<a b>.
func Show(mem *Heap, term Ptr) string {
	s := &shower{
		mem:   mem,
		names: map[uint64]string{},
		dirs:  map[uint64][]uint64{},
		seen:  map[uint64]bool{},
	}
	s.find_names(term)
	return s.term(term)
}

func (s *shower) find_names(term Ptr) {
	loc := get_val(term)
	switch get_tag(term) {
	case LAM:
		if s.seen[loc] {
			return
		}
		s.seen[loc] = true
		s.names[loc] = fmt.Sprintf("%d", s.count)
		s.count++
		s.find_names(ask_arg(s.mem, term, 1))
	case APP, PAR:
		if s.seen[loc] {
			return
		}
		s.seen[loc] = true
		s.find_names(ask_arg(s.mem, term, 0))
		s.find_names(ask_arg(s.mem, term, 1))
	case DP0, DP1:
		if s.seen[loc] {
			return
		}
		s.seen[loc] = true
		s.find_names(ask_arg(s.mem, term, 2))
	case CTR, CAL:
		if s.seen[loc] {
			return
		}
		s.seen[loc] = true
		arity := get_ari(term)
		for i := uint64(0); i < arity; i++ {
			s.find_names(ask_arg(s.mem, term, i))
		}
	}
}

func (s *shower) term(term Ptr) string {
	switch get_tag(term) {
	case VAR:
		if name, ok := s.names[get_loc(term, 0)]; ok {
			return "x" + name
		}
		return "?"
	case DP0, DP1:
		col := get_ex0(term)
		side := get_tag(term) // DP0 = 0, DP1 = 1
		s.dirs[col] = append(s.dirs[col], side)
		text := s.term(ask_arg(s.mem, term, 2))
		s.dirs[col] = s.dirs[col][:len(s.dirs[col])-1]
		return text
	case LAM:
		return fmt.Sprintf("λx%s: %s", s.names[get_loc(term, 0)], s.term(ask_arg(s.mem, term, 1)))
	case APP:
		return fmt.Sprintf("(%s %s)", s.term(ask_arg(s.mem, term, 0)), s.term(ask_arg(s.mem, term, 1)))
	case PAR:
		col := get_ex0(term)
		if n := len(s.dirs[col]); n > 0 {
			head := s.dirs[col][n-1]
			s.dirs[col] = s.dirs[col][:n-1]
			text := s.term(ask_arg(s.mem, term, head))
			s.dirs[col] = append(s.dirs[col], head)
			return text
		}
		return fmt.Sprintf("&%d<%s %s>", col, s.term(ask_arg(s.mem, term, 0)), s.term(ask_arg(s.mem, term, 1)))
	case CTR, CAL:
		sigil := "$"
		if get_tag(term) == CAL {
			sigil = "@"
		}
		arity := get_ari(term)
		args := ""
		for i := uint64(0); i < arity; i++ {
			if i > 0 {
				args += " "
			}
			args += s.term(ask_arg(s.mem, term, i))
		}
		return fmt.Sprintf("%s%d:%d{%s}", sigil, get_ex1(term), arity, args)
	case NIL:
		return "*"
	}
	return "?"
}
