// Package training fits the candidate regressors on the featured dataset,
// keeps the one with the lower test RMSE and persists it.
//
// The split and every candidate are seeded, so the same input file always
// yields the same partition, the same scores and the same winner.
package training
