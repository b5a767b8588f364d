package repositorycache

// idIndex tracks the task IDs the cache is expected to hold, in insertion order.
type idIndex struct {
	order []string
	pos   map[string]int
}

func newIDIndex() *idIndex {
	return &idIndex{pos: make(map[string]int)}
}

func (x *idIndex) add(id string) {
	if _, ok := x.pos[id]; ok {
		return
	}
	x.pos[id] = len(x.order)
	x.order = append(x.order, id)
}

func (x *idIndex) remove(id string) {
	i, ok := x.pos[id]
	if !ok {
		return
	}
	x.order = append(x.order[:i], x.order[i+1:]...)
	delete(x.pos, id)
	for j := i; j < len(x.order); j++ {
		x.pos[x.order[j]] = j
	}
}

func (x *idIndex) has(id string) bool {
	_, ok := x.pos[id]
	return ok
}

func (x *idIndex) ids() []string {
	return append([]string(nil), x.order...)
}

func (x *idIndex) len() int {
	return len(x.order)
}

func (x *idIndex) reset() {
	x.order = nil
	x.pos = make(map[string]int)
}
