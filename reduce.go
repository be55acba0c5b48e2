package ulc

import "fmt"

// Gas
// ---

func inc_cost(mem *Heap) {
	mem.cost++
}

func out_of_gas(mem *Heap) bool {
	return mem.limit != 0 && mem.cost >= mem.limit
}

// Substitution
// ------------

// subst installs val at the occurrence a binder slot points to. A Nil binder
// means the variable was never used: the value is unreachable on this path
// and is handed to the collector.
func subst(mem *Heap, lnk, val Ptr) {
	if get_tag(lnk) != NIL {
		link(mem, get_loc(lnk, 0), val)
	} else {
		collect(mem, val, no_host)
	}
}

// Collection
// ----------

const no_host = ^uint64(0)

// collect frees a subgraph that became unreachable, niling any binder slots
// it crosses. It is optimistic: a Par stops the walk, since its subgraph is
// fan-shared with a possibly live duplicator. The host slot, when known, is
// niled so the dead Par is unhooked. Whatever leaks here is left to an
// external full collector.
func collect(mem *Heap, term Ptr, host uint64) {
	switch get_tag(term) {
	case DP0:
		link(mem, get_loc(term, 0), Nil())
	case DP1:
		link(mem, get_loc(term, 1), Nil())
	case VAR:
		link(mem, get_loc(term, 0), Nil())
	case LAM:
		if get_tag(ask_arg(mem, term, 0)) != NIL {
			link(mem, get_loc(ask_arg(mem, term, 0), 0), Nil())
		}
		collect(mem, ask_arg(mem, term, 1), get_loc(term, 1))
		free(mem, get_loc(term, 0), 2)
	case APP:
		collect(mem, ask_arg(mem, term, 0), get_loc(term, 0))
		collect(mem, ask_arg(mem, term, 1), get_loc(term, 1))
		free(mem, get_loc(term, 0), 2)
	case PAR:
		if host != no_host {
			link(mem, host, Nil())
		}
	case CTR, CAL:
		arity := get_ari(term)
		for i := uint64(0); i < arity; i++ {
			collect(mem, ask_arg(mem, term, i), get_loc(term, i))
		}
		free(mem, get_loc(term, 0), arity)
	}
}

// Reduction
// ---------

// cal_par commutes a Cal whose n-th strict argument turned out to be a
// superposition: the call is copied, each other argument is shared through a
// fresh duplicator of the Par's color, and the two copies are superposed.
// Meant to be called from a registered Rewriter; exported as CalPar.
func cal_par(mem *Heap, host uint64, term, argn Ptr, n uint64) Ptr {
	inc_cost(mem)
	arit := get_ari(term)
	fun := get_ex1(term)
	fun0 := get_loc(term, 0)
	fun1 := alloc(mem, arit)
	par0 := get_loc(argn, 0)
	for i := uint64(0); i < arit; i++ {
		if i != n {
			leti := alloc(mem, 3)
			argi := ask_arg(mem, term, i)
			link(mem, fun0+i, Dp0(get_ex0(argn), leti))
			link(mem, fun1+i, Dp1(get_ex0(argn), leti))
			link(mem, leti+2, argi)
		} else {
			link(mem, fun0+i, ask_arg(mem, argn, 0))
			link(mem, fun1+i, ask_arg(mem, argn, 1))
		}
	}
	link(mem, par0+0, Cal(arit, fun, fun0))
	link(mem, par0+1, Cal(arit, fun, fun1))
	done := Par(get_ex0(argn), par0)
	link(mem, host, done)
	return done
}

// reduce drives the term at root to weak head normal form. The loop walks
// down the spine (function slot of an App, expression slot of a Dp0/Dp1)
// pushing the hosts it passes, then pops back up dispatching rules on each
// interacting pair. Rules that rewrite the head in place (App-Lam, Let-Lam,
// annihilating Let-Par) re-enter the descent; rules that install a fresh Par
// or Ctr at the host (App-Par, commuting Let-Par, Let-Ctr) fall back to the parent,
// since the new head exposes no redex at this host.
func reduce(mem *Heap, root uint64) Ptr {
	stack := []uint64{}
	host := root
	init := true
	for {
		if out_of_gas(mem) {
			return ask_lnk(mem, root)
		}
		term := ask_lnk(mem, host)
		if mem.trace {
			fmt.Printf("%08x %s\n", host, show_lnk(term))
		}
		if init {
			switch get_tag(term) {
			case APP:
				stack = append(stack, host)
				host = get_loc(term, 0)
				continue
			case DP0, DP1:
				stack = append(stack, host)
				host = get_loc(term, 2)
				continue
			case CAL:
				if fn, ok := mem.funcs[get_ex1(term)]; ok {
					if fn.Rewriter(mem, host, term) {
						continue
					}
				}
			}
		} else {
			switch get_tag(term) {
			case APP:
				arg0 := ask_arg(mem, term, 0)
				switch get_tag(arg0) {
				case LAM:
					// (λx: b a)
					// ---------- App-Lam
					// x <- a
					// b
					inc_cost(mem)
					subst(mem, ask_arg(mem, arg0, 0), ask_arg(mem, term, 1))
					link(mem, host, ask_arg(mem, arg0, 1))
					free(mem, get_loc(term, 0), 2)
					free(mem, get_loc(arg0, 0), 2)
					init = true
					continue
				case PAR:
					// (&c<f0 f1> a)
					// ----------------------- App-Par
					// !c<a0 a1> = a
					// &c<(f0 a0) (f1 a1)>
					inc_cost(mem)
					app0 := get_loc(term, 0)
					app1 := get_loc(arg0, 0)
					let0 := alloc(mem, 3)
					par0 := alloc(mem, 2)
					link(mem, let0+2, ask_arg(mem, term, 1))
					link(mem, app0+1, Dp0(get_ex0(arg0), let0))
					link(mem, app0+0, ask_arg(mem, arg0, 0))
					link(mem, app1+0, ask_arg(mem, arg0, 1))
					link(mem, app1+1, Dp1(get_ex0(arg0), let0))
					link(mem, par0+0, App(app0))
					link(mem, par0+1, App(app1))
					link(mem, host, Par(get_ex0(arg0), par0))
				}
			case DP0, DP1:
				arg0 := ask_arg(mem, term, 2)
				switch get_tag(arg0) {
				case LAM:
					// !c<r s> = λx: f
					// --------------- Let-Lam
					// r <- λx0: f0
					// s <- λx1: f1
					// x <- &c<x0 x1>
					// !c<f0 f1> = f
					inc_cost(mem)
					let0 := get_loc(term, 0)
					par0 := get_loc(arg0, 0)
					lam0 := alloc(mem, 2)
					lam1 := alloc(mem, 2)
					link(mem, let0+2, ask_arg(mem, arg0, 1))
					link(mem, par0+1, Var(lam1))
					arg0_arg_0 := ask_arg(mem, arg0, 0)
					link(mem, par0+0, Var(lam0))
					subst(mem, arg0_arg_0, Par(get_ex0(term), par0))
					term_arg_0 := ask_arg(mem, term, 0)
					link(mem, lam0+1, Dp0(get_ex0(term), let0))
					subst(mem, term_arg_0, Lam(lam0))
					term_arg_1 := ask_arg(mem, term, 1)
					link(mem, lam1+1, Dp1(get_ex0(term), let0))
					subst(mem, term_arg_1, Lam(lam1))
					done := Lam(lam1)
					if get_tag(term) == DP0 {
						done = Lam(lam0)
					}
					link(mem, host, done)
					init = true
					continue
				case PAR:
					if get_ex0(term) == get_ex0(arg0) {
						// !c<r s> = &c<a b>
						// ----------------- Let-Par (annihilate)
						// r <- a
						// s <- b
						inc_cost(mem)
						subst(mem, ask_arg(mem, term, 0), ask_arg(mem, arg0, 0))
						subst(mem, ask_arg(mem, term, 1), ask_arg(mem, arg0, 1))
						side := uint64(1)
						if get_tag(term) == DP0 {
							side = 0
						}
						link(mem, host, ask_arg(mem, arg0, side))
						free(mem, get_loc(term, 0), 3)
						free(mem, get_loc(arg0, 0), 2)
						init = true
						continue
					}
					// !a<r s> = &b<x y>
					// --------------------- Let-Par (commute)
					// r <- &b<xA yA>
					// s <- &b<xB yB>
					// !a<xA xB> = x
					// !a<yA yB> = y
					inc_cost(mem)
					par0 := alloc(mem, 2)
					let0 := get_loc(term, 0)
					par1 := get_loc(arg0, 0)
					let1 := alloc(mem, 3)
					link(mem, let0+2, ask_arg(mem, arg0, 0))
					link(mem, let1+2, ask_arg(mem, arg0, 1))
					term_arg_0 := ask_arg(mem, term, 0)
					term_arg_1 := ask_arg(mem, term, 1)
					link(mem, par1+0, Dp1(get_ex0(term), let0))
					link(mem, par1+1, Dp1(get_ex0(term), let1))
					link(mem, par0+0, Dp0(get_ex0(term), let0))
					link(mem, par0+1, Dp0(get_ex0(term), let1))
					subst(mem, term_arg_0, Par(get_ex0(arg0), par0))
					subst(mem, term_arg_1, Par(get_ex0(arg0), par1))
					parN := par1
					if get_tag(term) == DP0 {
						parN = par0
					}
					link(mem, host, Par(get_ex0(arg0), parN))
				case CTR:
					// !c<r s> = $id:k{x1 .. xk}
					// ------------------------- Let-Ctr
					// !c<x1A x1B> = x1 .. !c<xkA xkB> = xk
					// r <- $id:k{x1A .. xkA}
					// s <- $id:k{x1B .. xkB}
					inc_cost(mem)
					fun := get_ex1(arg0)
					arit := get_ari(arg0)
					if arit == 0 {
						subst(mem, ask_arg(mem, term, 0), Ctr(0, fun, 0))
						subst(mem, ask_arg(mem, term, 1), Ctr(0, fun, 0))
						free(mem, get_loc(term, 0), 3)
						link(mem, host, Ctr(0, fun, 0))
					} else {
						ctr0 := get_loc(arg0, 0)
						ctr1 := alloc(mem, arit)
						for i := uint64(0); i < arit-1; i++ {
							leti := alloc(mem, 3)
							link(mem, leti+2, ask_arg(mem, arg0, i))
							link(mem, ctr0+i, Dp0(get_ex0(term), leti))
							link(mem, ctr1+i, Dp1(get_ex0(term), leti))
						}
						leti := get_loc(term, 0)
						link(mem, leti+2, ask_arg(mem, arg0, arit-1))
						term_arg_0 := ask_arg(mem, term, 0)
						link(mem, ctr0+arit-1, Dp0(get_ex0(term), leti))
						subst(mem, term_arg_0, Ctr(arit, fun, ctr0))
						term_arg_1 := ask_arg(mem, term, 1)
						link(mem, ctr1+arit-1, Dp1(get_ex0(term), leti))
						subst(mem, term_arg_1, Ctr(arit, fun, ctr1))
						loc := ctr1
						if get_tag(term) == DP0 {
							loc = ctr0
						}
						link(mem, host, Ctr(arit, fun, loc))
					}
				}
			}
		}
		if len(stack) == 0 {
			break
		}
		host = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		init = false
	}
	return ask_lnk(mem, root)
}
