package model

import (
	"math/rand"
	"slices"
)

// leaf marks a Node without children.
const leaf = -1

// Node is one entry of a flattened regression tree. Internal nodes send a
// sample left when x[Feature] <= Threshold.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return n.Feature == leaf }

// RegressionTree is a CART tree grown with the squared-error criterion.
type RegressionTree struct {
	MaxDepth        int // 0 => unbounded
	MinSamplesSplit int
	MinSamplesLeaf  int
	Nodes           []Node
}

// NewRegressionTree returns a tree with the given depth bound.
func NewRegressionTree(maxDepth, minSamplesSplit, minSamplesLeaf int) *RegressionTree {
	return &RegressionTree{
		MaxDepth:        maxDepth,
		MinSamplesSplit: max(minSamplesSplit, 2),
		MinSamplesLeaf:  max(minSamplesLeaf, 1),
	}
}

type treeBuilder struct {
	tree     *RegressionTree
	X        [][]float64
	y        []float64
	features []int
}

// fit grows the tree on the samples listed in idx (repeats allowed, which is
// how bootstrap samples are expressed). Candidate features are scanned in
// the order given by rnd; the first strictly better split wins.
func (t *RegressionTree) fit(X [][]float64, y []float64, idx []int, rnd *rand.Rand) {
	p := len(X[0])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if rnd != nil {
		features = rnd.Perm(p)
	}
	t.Nodes = t.Nodes[:0]
	b := treeBuilder{tree: t, X: X, y: y, features: features}
	b.grow(slices.Clone(idx), 0)
}

func (b *treeBuilder) grow(idx []int, depth int) int {
	t := b.tree
	var sum float64
	for _, i := range idx {
		sum += b.y[i]
	}
	n := len(idx)
	pos := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: leaf, Left: leaf, Right: leaf, Value: sum / float64(n), Samples: n})

	if (t.MaxDepth > 0 && depth >= t.MaxDepth) || n < t.MinSamplesSplit || n < 2*t.MinSamplesLeaf || b.constant(idx) {
		return pos
	}
	feature, threshold, ok := b.bestSplit(idx, sum)
	if !ok {
		return pos
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	t.Nodes[pos].Feature = feature
	t.Nodes[pos].Threshold = threshold
	t.Nodes[pos].Left = l
	t.Nodes[pos].Right = r
	return pos
}

func (b *treeBuilder) constant(idx []int) bool {
	first := b.y[idx[0]]
	for _, i := range idx[1:] {
		if b.y[i] != first {
			return false
		}
	}
	return true
}

// bestSplit maximises sumL²/nL + sumR²/nR, which is equivalent to minimising
// the summed squared error of both children.
func (b *treeBuilder) bestSplit(idx []int, total float64) (int, float64, bool) {
	n := len(idx)
	minLeaf := b.tree.MinSamplesLeaf
	parent := total * total / float64(n)
	best := parent
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, n)
	for _, f := range b.features {
		copy(sorted, idx)
		slices.SortStableFunc(sorted, func(a, c int) int {
			switch va, vc := b.X[a][f], b.X[c][f]; {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})
		var left float64
		for k := 1; k < n; k++ {
			left += b.y[sorted[k-1]]
			lo, hi := b.X[sorted[k-1]][f], b.X[sorted[k]][f]
			if lo == hi || k < minLeaf || n-k < minLeaf {
				continue
			}
			right := total - left
			score := left*left/float64(k) + right*right/float64(n-k)
			if score > best {
				best = score
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// predictRow walks the tree for a single sample.
func (t *RegressionTree) predictRow(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (t *RegressionTree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}
