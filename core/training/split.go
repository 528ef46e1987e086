package training

import (
	"fmt"
	"math"
	"math/rand"
)

// Split shuffles row indices with a seeded source and returns the train and
// test partitions. The test partition holds ceil(testSize*n) rows.
func Split(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("training: test size %v outside (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if n-nTest < 1 || nTest < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows cannot be split with test size %v", ErrEmptyDataset, n, testSize)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
