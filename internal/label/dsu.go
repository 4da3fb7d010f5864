package label

// disjointSet is an array-indexed union-find forest over provisional labels.
// Labels are dense integers indexing directly into the parent and size arrays,
// so no per-node allocation happens during the raster scan.
type disjointSet struct {
	parent []int32
	size   []int32
}

func newDisjointSet(capacity int) *disjointSet {
	return &disjointSet{
		parent: make([]int32, 0, capacity),
		size:   make([]int32, 0, capacity),
	}
}

// add creates a fresh singleton set and returns its label.
func (d *disjointSet) add() int32 {
	id := int32(len(d.parent))
	d.parent = append(d.parent, id)
	d.size = append(d.size, 1)
	return id
}

// find returns the canonical representative of i, compressing the path.
func (d *disjointSet) find(i int32) int32 {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		d.parent[i], i = root, d.parent[i]
	}
	return root
}

// union merges the sets containing i and j, attaching the smaller tree
// under the larger.
func (d *disjointSet) union(i, j int32) {
	ri, rj := d.find(i), d.find(j)
	if ri == rj {
		return
	}
	if d.size[ri] < d.size[rj] {
		ri, rj = rj, ri
	}
	d.parent[rj] = ri
	d.size[ri] += d.size[rj]
}
