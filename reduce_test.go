package ulc

import "testing"

// read parses code into mem and returns the root slot.
func read(t *testing.T, mem *Heap, code string) uint64 {
	t.Helper()
	host, err := ReadTerm(mem, code)
	if err != nil {
		t.Fatalf("read %q: %v", code, err)
	}
	return host
}

// canon returns the canonical printed form of code, unreduced.
func canon(t *testing.T, code string) string {
	t.Helper()
	mem := NewHeap()
	host := read(t, mem, code)
	return Show(mem, ask_lnk(mem, host))
}

// run_normal parses, fully normalizes and sanity-checks code.
func run_normal(t *testing.T, code string) (*Heap, uint64, Ptr) {
	t.Helper()
	mem := NewHeap()
	host := read(t, mem, code)
	term := Normal(mem, host)
	if err := SanityCheck(mem, host); err != nil {
		t.Fatalf("sanity after normalizing %q: %v", code, err)
	}
	return mem, host, term
}

func want_normal(t *testing.T, code, expected string, minGas, maxGas uint64) {
	t.Helper()
	mem, _, term := run_normal(t, code)
	got := Show(mem, term)
	want := canon(t, expected)
	if got != want {
		t.Fatalf("normal(%q) = %s, want %s", code, got, want)
	}
	if g := Gas(mem); g < minGas || g > maxGas {
		t.Fatalf("normal(%q) took %d rewrites, want %d..%d", code, g, minGas, maxGas)
	}
}

// Scenarios
// ---------

func TestAppLam(t *testing.T) {
	want_normal(t, "(λx: x λa: λb: a)", "λa: λb: a", 1, 1)
}

func TestSelfApplication(t *testing.T) {
	want_normal(t, "(λx: (x x) λy: y)", "λz: z", 3, 8)
}

func TestDupLam(t *testing.T) {
	want_normal(t, "!0<a b> = λx: x; (a b)", "λz: z", 3, 8)
}

func TestAppPar(t *testing.T) {
	want_normal(t, "(&0<λx: x λx: x> λk: k)", "&0<λk: k λk: k>", 2, 10)
}

func TestLetCtr(t *testing.T) {
	want_normal(t,
		"!0<a b> = $7:2{λx: x $3:0{}}; $9:2{a b}",
		"$9:2{$7:2{λx: x $3:0{}} $7:2{λy: y $3:0{}}}",
		3, 10)
}

// Edge cases
// ----------

func TestErasedArgumentCollected(t *testing.T) {
	want_normal(t, "(λx: λy: y λk: k)", "λy: y", 1, 1)
	mem, _, _ := run_normal(t, "(λx: λy: y λk: k)")
	// App-Lam frees the App and the λx (two blocks); the collected λk is the third
	if n := len(mem.reuse[2]); n < 3 {
		t.Fatalf("collector did not free the erased argument: %d 2-cell blocks on the free list, want 3", n)
	}
}

func TestWhnfStopsAtHead(t *testing.T) {
	mem := NewHeap()
	host := read(t, mem, "(λa: λb: (a b) λx: x)")
	term := Whnf(mem, host)
	if get_tag(term) != LAM {
		t.Fatalf("whnf head = %s, want a lambda", show_lnk(term))
	}
	if g := Gas(mem); g != 1 {
		t.Fatalf("whnf took %d rewrites, want 1", g)
	}
	term = Normal(mem, host)
	if got, want := Show(mem, term), canon(t, "λb: b"); got != want {
		t.Fatalf("normal = %s, want %s", got, want)
	}
	if g := Gas(mem); g != 2 {
		t.Fatalf("normal took %d rewrites total, want 2", g)
	}
}

func TestWhnfNoRedex(t *testing.T) {
	mem := NewHeap()
	host := read(t, mem, "λx: (λy: y x)")
	term := Whnf(mem, host)
	if get_tag(term) != LAM || Gas(mem) != 0 {
		t.Fatalf("whnf under a lambda rewrote: %s after %d rewrites", show_lnk(term), Gas(mem))
	}
}

func TestDupCalIsOpaque(t *testing.T) {
	mem, _, term := run_normal(t, "!0<a b> = @5:2{λx: x $1:0{}}; $2:2{a b}")
	// the call is shared, not copied: both projections print the same body
	want := "$2:2{@5:2{λx0: x0 $1:0{}} @5:2{λx0: x0 $1:0{}}}"
	if got := Show(mem, term); got != want {
		t.Fatalf("normal = %s, want %s", got, want)
	}
	if g := Gas(mem); g != 0 {
		t.Fatalf("opaque call rewrote %d times", g)
	}
}

// Gas
// ---

func TestGasLimitHalts(t *testing.T) {
	mem := NewHeap()
	SetLimit(mem, 1)
	host := read(t, mem, "(λx: (x x) λy: y)")
	Normal(mem, host)
	if g := Gas(mem); g != 1 {
		t.Fatalf("gas after limited run = %d, want 1", g)
	}
	if !OutOfGas(mem) {
		t.Fatalf("expected the out-of-gas flag")
	}
	// further calls are no-ops
	Normal(mem, host)
	Whnf(mem, host)
	if g := Gas(mem); g != 1 {
		t.Fatalf("gas moved after exhaustion: %d", g)
	}
}

func TestGasConvergence(t *testing.T) {
	code := "(λx: (x x) λy: y)"
	full, _, fterm := run_normal(t, code)
	want := Show(full, fterm)

	exact := NewHeap()
	SetLimit(exact, Gas(full))
	host := read(t, exact, code)
	term := Normal(exact, host)
	if got := Show(exact, term); got != want {
		t.Fatalf("run limited to the exact budget = %s, want %s", got, want)
	}

	starved := NewHeap()
	SetLimit(starved, 1)
	host = read(t, starved, code)
	Normal(starved, host)
	if !OutOfGas(starved) {
		t.Fatalf("starved run did not flag out-of-gas")
	}
}

// Confluence
// ----------

func TestConfluenceSpotCheck(t *testing.T) {
	code := "(&0<λx: x λy: y> (λa: a λb: b))"

	ma, _, ta := run_normal(t, code)

	mb := NewHeap()
	host := read(t, mb, code)
	app := ask_lnk(mb, host)
	reduce(mb, get_loc(app, 1)) // force the argument before the head redex
	tb := Normal(mb, host)
	if err := SanityCheck(mb, host); err != nil {
		t.Fatalf("sanity: %v", err)
	}

	if sa, sb := Show(ma, ta), Show(mb, tb); sa != sb {
		t.Fatalf("orders disagree: %s vs %s", sa, sb)
	}
	if !GraphEqual(ma, ta, mb, tb) {
		t.Fatalf("normal forms are not structurally equal")
	}
	if Gas(ma) != Gas(mb) {
		t.Fatalf("orders applied different rule counts: %d vs %d", Gas(ma), Gas(mb))
	}
}

// Cal extension
// -------------

func TestCalRewriter(t *testing.T) {
	unbox := Function{Arity: 1, Rewriter: func(m *Heap, host uint64, term Ptr) bool {
		arg := AskArg(m, term, 0)
		switch GetTag(arg) {
		case CTR:
			IncGas(m)
			Link(m, host, arg)
			Free(m, GetLoc(term, 0), 1)
			return true
		case PAR:
			CalPar(m, host, term, arg, 0)
			return true
		}
		return false
	}}

	mem := NewHeap()
	Register(mem, 5, unbox)
	host := read(t, mem, "@5:1{$2:0{}}")
	term := Normal(mem, host)
	if got, want := Show(mem, term), canon(t, "$2:0{}"); got != want {
		t.Fatalf("unbox = %s, want %s", got, want)
	}
	if g := Gas(mem); g != 1 {
		t.Fatalf("unbox took %d rewrites, want 1", g)
	}

	mem = NewHeap()
	Register(mem, 5, unbox)
	host = read(t, mem, "@5:1{&0<$1:0{} $2:0{}>}")
	term = Normal(mem, host)
	if got, want := Show(mem, term), canon(t, "&0<$1:0{} $2:0{}>"); got != want {
		t.Fatalf("unbox over par = %s, want %s", got, want)
	}
	if g := Gas(mem); g != 3 {
		t.Fatalf("unbox over par took %d rewrites, want 3", g)
	}
}

// Invariants
// ----------

func TestSanityCheckDetectsCorruption(t *testing.T) {
	mem := NewHeap()
	host := read(t, mem, "λx: x")
	if err := SanityCheck(mem, host); err != nil {
		t.Fatalf("fresh graph: %v", err)
	}
	term := ask_lnk(mem, host)
	mem.node[get_loc(term, 0)] = Lnk(get_loc(term, 0))
	if SanityCheck(mem, host) == nil {
		t.Fatalf("corrupted back edge went undetected")
	}
}

func live_cells(mem *Heap, term Ptr, acc map[uint64]uint64, seen map[uint64]bool) {
	loc := get_val(term)
	switch get_tag(term) {
	case LAM:
		if seen[loc] {
			return
		}
		seen[loc] = true
		acc[loc] = 2
		live_cells(mem, ask_arg(mem, term, 1), acc, seen)
	case APP, PAR:
		if seen[loc] {
			return
		}
		seen[loc] = true
		acc[loc] = 2
		live_cells(mem, ask_arg(mem, term, 0), acc, seen)
		live_cells(mem, ask_arg(mem, term, 1), acc, seen)
	case DP0, DP1:
		if seen[loc] {
			return
		}
		seen[loc] = true
		acc[loc] = 3
		live_cells(mem, ask_arg(mem, term, 2), acc, seen)
	case CTR, CAL:
		if seen[loc] {
			return
		}
		seen[loc] = true
		arity := get_ari(term)
		acc[loc] = arity
		for i := uint64(0); i < arity; i++ {
			live_cells(mem, ask_arg(mem, term, i), acc, seen)
		}
	}
}

func TestFreeListDisjointFromLiveGraph(t *testing.T) {
	mem, host, _ := run_normal(t, "(λx: (x x) λy: y)")
	acc := map[uint64]uint64{}
	live_cells(mem, ask_lnk(mem, host), acc, map[uint64]bool{})
	for size := uint64(1); size < MAX_ARITY; size++ {
		for _, freed := range mem.reuse[size] {
			for base, n := range acc {
				if freed < base+n && base < freed+size {
					t.Fatalf("freed block [%d,%d) overlaps live node [%d,%d)", freed, freed+size, base, base+n)
				}
			}
		}
	}
}
