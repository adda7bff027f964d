package naive_bayes

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func benchmarkPredictProba(b *testing.B, rows, cols int) {
	X := mat.NewDense(rows, cols, nil)
	y := make([]int, rows)
	for i := 0; i < rows; i++ {
		mu := float64(i%3) * 2
		for j := 0; j < cols; j++ {
			X.Set(i, j, distuv.Normal{Mu: mu, Sigma: 1}.Rand())
		}
		y[i] = i % 3
	}
	m, err := NewGaussianNB[int](WithLogger(quietLogger())).Fit(X, y)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.PredictProba(X); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGaussianNBPredictProba_Small(b *testing.B) {
	benchmarkPredictProba(b, 100, 4)
}

func BenchmarkGaussianNBPredictProba_Large(b *testing.B) {
	benchmarkPredictProba(b, 10000, 20)
}
