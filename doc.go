// Package statkit provides classical statistical learning primitives for Go:
// Gaussian Naive Bayes, principal component analysis, ordinary least squares,
// feature scalers and categorical encoders.
//
// Every estimator follows the same two-step shape. An estimator value holds
// only hyperparameters; Fit validates its input and returns a new, immutable
// fitted model. Fitted models are safe for concurrent use and never change
// after construction.
//
// # Installation
//
//	go get github.com/YuminosukeSato/statkit
//
// # Quick Start
//
// Here's a Gaussian Naive Bayes classifier:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/statkit/naive_bayes"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{
//	        1.0, 1.1,
//	        1.2, 0.9,
//	        5.0, 5.2,
//	        5.1, 4.8,
//	    })
//	    y := []string{"small", "small", "large", "large"}
//
//	    nb, err := naive_bayes.NewGaussianNB[string]().Fit(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := nb.Predict(mat.NewDense(1, 2, []float64{4.9, 5.0}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred) // [large]
//	}
//
// # Packages
//
//   - naive_bayes: Gaussian Naive Bayes classifier over arbitrary comparable labels
//   - decomposition: PCA via eigendecomposition of the covariance matrix
//   - linear: Ordinary least squares via the normal equations
//   - preprocessing: StandardScaler, MinMaxScaler, OneHotEncoder, OrdinalEncoder
//   - metrics: Accuracy, MSE, RMSE, MAE, R²
//   - model_selection: Seedable train/test split and k-fold splitting
//   - dataset: Immutable labelled datasets
//   - visualize: Scatter plots of 2-D projections
//   - core/model: Estimator and transformer contracts, persistence, weights export
//   - core/parallel: Row-chunked parallel helpers
//   - pkg/errors: Structured errors and numerical warnings
//   - pkg/log: Structured logging (zerolog by default, slog optional)
//
// # Variance Convention
//
// GaussianNB, PCA and StandardScaler estimate variance with the sample
// (N-1) denominator by default. GaussianNB and PCA accept
// model.PopulationVariance through their options.
//
// # Error Handling
//
// Failures are returned, never panicked. Use errors.Is against the sentinels
// in pkg/errors (ErrSingularMatrix, ErrZeroVariance, ErrUnknownCategory, ...)
// or errors.As against the structured types (DimensionError, NotFittedError,
// ValidationError). Recoverable numerical corrections such as clipping a
// slightly negative eigenvalue are reported through errors.Warn and logged.
//
// # License
//
// statkit is released under the MIT License.
package statkit
