package model

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// RandomForestName is the display name of the tree ensemble.
const RandomForestName = "RandomForest"

// RandomForest averages bootstrapped CART regression trees.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Bootstrap       bool
	RandomState     int64

	Trees     []*RegressionTree
	NFeatures int
}

// RandomForestOption configures a RandomForest.
type RandomForestOption func(*RandomForest)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }

// WithMaxDepth bounds the depth of every tree.
func WithMaxDepth(d int) RandomForestOption { return func(rf *RandomForest) { rf.MaxDepth = d } }

// WithMinSamplesSplit sets the smallest node that may be split.
func WithMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the smallest allowed leaf.
func WithMinSamplesLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}

// WithBootstrap toggles bootstrap sampling per tree.
func WithBootstrap(b bool) RandomForestOption { return func(rf *RandomForest) { rf.Bootstrap = b } }

// WithRandomState seeds the forest; tree i uses seed+i.
func WithRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

// NewRandomForest returns the small forest used by the trainer: 10 trees of
// depth at most 5, bootstrapped, seed 42.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     10,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Name returns RandomForestName.
func (rf *RandomForest) Name() string { return RandomForestName }

// Fit grows NEstimators trees. Tree i draws its bootstrap sample and feature
// order from a source seeded with RandomState+i, so a fixed seed gives the
// same forest on the same data.
func (rf *RandomForest) Fit(X mat.Matrix, y []float64) error {
	n, p, err := checkFitInput(X, y)
	if err != nil {
		return err
	}
	if rf.NEstimators < 1 {
		rf.NEstimators = 1
	}
	data := rows(X)
	rf.Trees = make([]*RegressionTree, rf.NEstimators)
	for t := range rf.Trees {
		rnd := rand.New(rand.NewSource(rf.RandomState + int64(t)))
		idx := make([]int, n)
		for i := range idx {
			if rf.Bootstrap {
				idx[i] = rnd.Intn(n)
			} else {
				idx[i] = i
			}
		}
		tree := NewRegressionTree(rf.MaxDepth, rf.MinSamplesSplit, rf.MinSamplesLeaf)
		tree.fit(data, y, idx, rnd)
		rf.Trees[t] = tree
	}
	rf.NFeatures = p
	return nil
}

// Predict returns the mean of the tree predictions for every row.
func (rf *RandomForest) Predict(X mat.Matrix) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, ErrNotFitted
	}
	r, err := checkPredictInput(X, rf.NFeatures)
	if err != nil {
		return nil, err
	}
	out := make([]float64, r)
	row := make([]float64, rf.NFeatures)
	for i := range out {
		mat.Row(row, i, X)
		var sum float64
		for _, t := range rf.Trees {
			sum += t.predictRow(row)
		}
		out[i] = sum / float64(len(rf.Trees))
	}
	return out, nil
}
