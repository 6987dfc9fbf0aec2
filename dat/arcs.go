package dat

// arcRegistry records, per node, the arc codes leaving it in insertion order.
// It is indexed like BASE/CHECK and resized with them.
type arcRegistry struct {
	leaving [][]int32
}

func newArcRegistry(capacity int) arcRegistry {
	return arcRegistry{leaving: make([][]int32, capacity)}
}

func (r *arcRegistry) resize(n int) {
	if n <= len(r.leaving) {
		return
	}
	grownArcs := make([][]int32, n)
	copy(grownArcs, r.leaving)
	r.leaving = grownArcs
}

func (r *arcRegistry) arcsLeaving(node int32) []int32 {
	return r.leaving[node]
}

func (r *arcRegistry) count(node int32) int {
	return len(r.leaving[node])
}

func (r *arcRegistry) record(node int32, code int32) int {
	r.leaving[node] = append(r.leaving[node], code)
	return len(r.leaving[node])
}

func (r *arcRegistry) clear(node int32) {
	r.leaving[node] = nil
}

// move hands the arcs of from to to. The caller clears from once the slot
// is released.
func (r *arcRegistry) move(from, to int32) {
	r.leaving[to] = r.leaving[from]
}
