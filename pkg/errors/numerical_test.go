package errors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLogSumExp(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, math.Inf(-1)},
		{"single", []float64{2}, 2},
		{"equal pair", []float64{0, 0}, math.Log(2)},
		{"underflow safe", []float64{-1000, -1000}, -1000 + math.Log(2)},
		{"all -inf", []float64{math.Inf(-1), math.Inf(-1)}, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogSumExp(tt.values)
			if math.IsInf(tt.want, -1) {
				if !math.IsInf(got, -1) {
					t.Errorf("LogSumExp() = %v, want -Inf", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("LogSumExp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckMatrix(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 2,
		3, math.NaN(),
		math.Inf(1), 0,
	})

	err := CheckMatrix("test", m, 3, 2)
	if err == nil {
		t.Fatal("expected instability error")
	}

	var instErr *NumericalInstabilityError
	if !As(err, &instErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %T", err)
	}
	if instErr.Row != 1 {
		t.Errorf("Row = %d, want 1", instErr.Row)
	}

	if err := CheckMatrix("test", mat.NewDense(1, 1, []float64{1}), 1, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("ok", 1.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckScalar("nan", math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
	if err := CheckNumericalStability("inf", []float64{1, math.Inf(-1)}); err == nil {
		t.Error("expected error for -Inf")
	}
}
