package ulc

// Embedding API
// -------------
// Exported surface for graph builders and embedders. The engine owns the
// heap; callers build a graph with Alloc/Link and the Ptr constructors, then
// drive it with Whnf or Normal.

// Reset drops every cell and free list and zeroes the gas counter. The gas
// limit and the registered Cal table survive.
func Reset(mem *Heap) {
	mem.node = mem.node[:0]
	for i := range mem.reuse {
		mem.reuse[i] = nil
	}
	mem.cost = 0
}

// Alloc returns the base index of size fresh contiguous cells.
func Alloc(mem *Heap, size uint64) uint64 {
	return alloc(mem, size)
}

// Free returns size cells at loc to the allocator.
func Free(mem *Heap, loc, size uint64) {
	free(mem, loc, size)
}

// Link writes lnk into loc, maintaining the binder back-edge invariant.
func Link(mem *Heap, loc uint64, lnk Ptr) Ptr {
	return link(mem, loc, lnk)
}

// AskLnk reads the cell at loc.
func AskLnk(mem *Heap, loc uint64) Ptr {
	return ask_lnk(mem, loc)
}

// AskArg reads the arg-th slot of the node term points to.
func AskArg(mem *Heap, term Ptr, arg uint64) Ptr {
	return ask_arg(mem, term, arg)
}

func GetTag(lnk Ptr) uint64 { return get_tag(lnk) }
func GetEx0(lnk Ptr) uint64 { return get_ex0(lnk) }
func GetEx1(lnk Ptr) uint64 { return get_ex1(lnk) }
func GetPos(lnk Ptr) uint64 { return get_val(lnk) }

func GetLoc(lnk Ptr, arg uint64) uint64 { return get_loc(lnk, arg) }

// Whnf reduces the term at host to weak head normal form and returns it.
func Whnf(mem *Heap, host uint64) Ptr {
	return reduce(mem, host)
}

// Normal fully normalizes the term at host, rerunning passes to a fixpoint.
func Normal(mem *Heap, host uint64) Ptr {
	return normal(mem, host)
}

// Gas returns the number of rewrite rules applied so far.
func Gas(mem *Heap) uint64 {
	return mem.cost
}

// IncGas counts one rewrite. Registered Rewriters must call it once per
// rule they apply.
func IncGas(mem *Heap) {
	inc_cost(mem)
}

// SetLimit caps the number of rewrites; 0 means unlimited. Once the counter
// reaches the limit every rule becomes a no-op and reduction returns the
// current, possibly partial, term.
func SetLimit(mem *Heap, limit uint64) {
	mem.limit = limit
}

// OutOfGas reports whether the gas limit has been reached, flagging a
// partial result.
func OutOfGas(mem *Heap) bool {
	return out_of_gas(mem)
}

// SetTrace toggles printing of every visited head during reduction.
func SetTrace(mem *Heap, on bool) {
	mem.trace = on
}

// HeapSize returns the heap tail in words, freed or not.
func HeapSize(mem *Heap) uint64 {
	return uint64(len(mem.node))
}

// Register installs the evaluator for a Cal function id. The whnf driver
// invokes it whenever a Cal with that id reaches the head.
func Register(mem *Heap, id uint64, fn Function) {
	mem.funcs[id] = fn
}

// CalPar commutes a Cal over a superposed strict argument; see cal_par.
func CalPar(mem *Heap, host uint64, term, argn Ptr, n uint64) Ptr {
	return cal_par(mem, host, term, argn, n)
}
