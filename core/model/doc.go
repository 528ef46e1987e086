// Package model contains the regressors compared by the trainer: an ordinary
// least squares linear model and a small random forest of CART regression
// trees. Both satisfy Regressor and are persisted as a gob artifact that also
// records the feature column order seen at fit time.
package model
