package prefgraph

// Closure is the transitive closure R* of a View's direct relation: the
// smallest relation containing R such that (a,b) in R* and (b,c) in R*
// implies (a,c) in R*.
//
// Computed via boolean Floyd-Warshall over a flat row-major reachability
// matrix: a dense in-place APSP loop (k -> i -> j, row bases hoisted out of
// the inner loop) with min-plus distance accumulation replaced by boolean
// OR, which scales better than naive Warshall-until-fixpoint as item counts
// grow.
type Closure struct {
	index map[string]int
	ids   []string
	n     int
	reach []bool // row-major n*n: reach[i*n+j] == true iff ids[i] can reach ids[j]
}

// BuildClosure computes R* for v. Complexity: O(n^3) time, O(n^2) space,
// acceptable for item counts up to roughly a thousand.
func BuildClosure(v *View) *Closure {
	n := len(v.items)
	index := make(map[string]int, n)
	ids := make([]string, n)
	for i, it := range v.items {
		index[it] = i
		ids[i] = it
	}

	reach := make([]bool, n*n)
	for i, from := range ids {
		base := i * n
		for to := range v.adj[from] {
			if j, ok := index[to]; ok {
				reach[base+j] = true
			}
		}
	}

	// Floyd-Warshall-style fixpoint: k is the intermediate vertex, i the
	// source, j the destination. Deterministic loop order for reproducible
	// output.
	var k, i, j int
	for k = 0; k < n; k++ {
		baseK := k * n
		for i = 0; i < n; i++ {
			baseI := i * n
			if !reach[baseI+k] {
				continue // i cannot reach k: no path through k can help
			}
			for j = 0; j < n; j++ {
				if reach[baseK+j] {
					reach[baseI+j] = true
				}
			}
		}
	}

	return &Closure{index: index, ids: ids, n: n, reach: reach}
}

// Reaches reports whether (a,b) is in R*: a transitively beats b.
func (c *Closure) Reaches(a, b string) bool {
	ia, ok := c.index[a]
	if !ok {
		return false
	}
	ib, ok := c.index[b]
	if !ok {
		return false
	}
	return c.reach[ia*c.n+ib]
}

// KnownOrdered reports whether the unordered pair {a,b} has a known
// ordering: (a,b) or (b,a) appears in R*.
func (c *Closure) KnownOrdered(a, b string) bool {
	return c.Reaches(a, b) || c.Reaches(b, a)
}

// KnownPairCount returns |K|, the number of unordered pairs whose ordering
// is determined (directly or transitively).
func (c *Closure) KnownPairCount() int {
	count := 0
	for i := 0; i < c.n; i++ {
		for j := i + 1; j < c.n; j++ {
			if c.reach[i*c.n+j] || c.reach[j*c.n+i] {
				count++
			}
		}
	}
	return count
}

// TotalPossiblePairs returns n*(n-1)/2 for the closure's item count.
func (c *Closure) TotalPossiblePairs() int {
	return c.n * (c.n - 1) / 2
}

// UncertainCount returns U = total possible pairs - |K|.
func (c *Closure) UncertainCount() int {
	return c.TotalPossiblePairs() - c.KnownPairCount()
}

// UnknownPairs enumerates every unordered pair whose ordering is not yet
// known, in a fixed (lexicographic-by-index, i.e. input item order)
// iteration order so callers that need deterministic tie-breaking can rely
// on it.
func (c *Closure) UnknownPairs() [][2]string {
	out := make([][2]string, 0, c.UncertainCount())
	for i := 0; i < c.n; i++ {
		for j := i + 1; j < c.n; j++ {
			if !c.reach[i*c.n+j] && !c.reach[j*c.n+i] {
				out = append(out, [2]string{c.ids[i], c.ids[j]})
			}
		}
	}
	return out
}
