package linear

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/core/parallel"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

const nSamplesMeta = "n_samples"

// ExportWeights は係数を言語非依存の ModelWeights として書き出す
func (m *OLSModel) ExportWeights() (*model.ModelWeights, error) {
	if err := m.shape.RequireFitted(olsName, "ExportWeights"); err != nil {
		return nil, err
	}
	return &model.ModelWeights{
		ModelType:    olsName,
		Version:      model.WeightsVersion,
		Coefficients: m.Coefficients(),
		Intercept:    m.Intercept(),
		Metadata:     map[string]any{nSamplesMeta: m.shape.NSamples},
	}, nil
}

// ImportWeights は ExportWeights の出力から学習済みモデルを復元する
func ImportWeights(w *model.ModelWeights, opts ...Option) (*OLSModel, error) {
	if w == nil {
		return nil, errors.NewValueError("linear.ImportWeights", "nil weights")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.ModelType != olsName {
		return nil, errors.NewValidationError("model_type", "expected "+olsName, w.ModelType)
	}

	d := len(w.Coefficients)
	// JSON 経由では数値が float64 になる
	nSamples := d + 1
	switch v := w.Metadata[nSamplesMeta].(type) {
	case int:
		nSamples = v
	case float64:
		nSamples = int(v)
	}

	o := NewOrdinaryLeastSquares(opts...)
	beta := mat.NewVecDense(d+1, append(append([]float64(nil), w.Coefficients...), w.Intercept))
	return o.newModel(d, nSamples, beta), nil
}

func (o *OrdinaryLeastSquares) newModel(nFeatures, nSamples int, beta *mat.VecDense) *OLSModel {
	return &OLSModel{
		shape:             model.Shape{NFeatures: nFeatures, NSamples: nSamples},
		beta:              beta,
		parallelThreshold: o.parallelThreshold,
		logger:            o.baseLogger().With(log.ModelNameKey, olsName),
	}
}

type olsSnapshot struct {
	NFeatures int
	NSamples  int
	Beta      []float64
}

// GobEncode implements gob.GobEncoder.
func (m *OLSModel) GobEncode() ([]byte, error) {
	if err := m.shape.RequireFitted(olsName, "GobEncode"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	snap := olsSnapshot{NFeatures: m.shape.NFeatures, NSamples: m.shape.NSamples, Beta: m.beta.RawVector().Data}
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, errors.Wrap(err, "encode OLSModel")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *OLSModel) GobDecode(data []byte) error {
	var snap olsSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return errors.Wrap(err, "decode OLSModel")
	}
	if snap.NFeatures <= 0 || snap.NSamples <= 0 || len(snap.Beta) != snap.NFeatures+1 {
		return errors.NewValueError("OLSModel.GobDecode", "inconsistent snapshot")
	}
	o := &OrdinaryLeastSquares{parallelThreshold: parallel.DefaultThreshold}
	*m = *o.newModel(snap.NFeatures, snap.NSamples, mat.NewVecDense(len(snap.Beta), snap.Beta))
	return nil
}
