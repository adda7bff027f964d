package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   mat.Vector
		yPred   mat.Vector
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			want:  0,
		},
		{
			name:  "simple case",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25,
		},
		{
			name:  "larger errors",
			yTrue: mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred: mat.NewVecDense(3, []float64{12, 18, 33}),
			want:  17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
		{
			name:    "nil vector",
			yTrue:   nil,
			yPred:   mat.NewVecDense(1, []float64{1}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 1, 4})

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Sqrt(5.0 / 4.0); math.Abs(rmse-want) > 1e-12 {
		t.Errorf("RMSE() = %v, want %v", rmse, want)
	}

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mae-0.75) > 1e-12 {
		t.Errorf("MAE() = %v, want 0.75", mae)
	}

	if _, err := RMSE(yTrue, mat.NewVecDense(1, []float64{1})); err == nil {
		t.Error("RMSE() expected dimension error")
	}
}

func TestR2Score(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	perfect, err := R2Score(yTrue, yTrue)
	if err != nil {
		t.Fatal(err)
	}
	if perfect != 1 {
		t.Errorf("R2Score(perfect) = %v, want 1", perfect)
	}

	// 平均値で予測すると0
	mean, err := R2Score(yTrue, mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mean) > 1e-12 {
		t.Errorf("R2Score(mean) = %v, want 0", mean)
	}

	_, err = R2Score(mat.NewVecDense(3, []float64{7, 7, 7}), mat.NewVecDense(3, []float64{7, 7, 7}))
	if !errors.Is(err, errors.ErrZeroVariance) {
		t.Errorf("R2Score(constant) error = %v, want ErrZeroVariance", err)
	}
}

func BenchmarkMSE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.5)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
