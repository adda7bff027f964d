package decomposition

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

type pcaSnapshot struct {
	NFeatures         int
	NSamples          int
	Variance          model.VarianceConvention
	Mean              []float64
	Components        []float64 // K×D 行優先
	ExplainedVariance []float64
	TotalVariance     float64
}

// GobEncode implements gob.GobEncoder.
func (m *PCAModel) GobEncode() ([]byte, error) {
	if err := m.shape.RequireFitted(pcaName, "GobEncode"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(pcaSnapshot{
		NFeatures:         m.shape.NFeatures,
		NSamples:          m.shape.NSamples,
		Variance:          m.variance,
		Mean:              m.mean,
		Components:        m.components.RawMatrix().Data,
		ExplainedVariance: m.explainedVariance,
		TotalVariance:     m.totalVariance,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode PCAModel")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *PCAModel) GobDecode(data []byte) error {
	var snap pcaSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return errors.Wrap(err, "decode PCAModel")
	}
	k, d := len(snap.ExplainedVariance), snap.NFeatures
	if k == 0 || d <= 0 || snap.NSamples <= 0 || len(snap.Mean) != d || len(snap.Components) != k*d {
		return errors.NewValueError("PCAModel.GobDecode", "inconsistent snapshot")
	}

	*m = PCAModel{
		shape:             model.Shape{NFeatures: d, NSamples: snap.NSamples},
		variance:          snap.Variance,
		mean:              snap.Mean,
		components:        mat.NewDense(k, d, snap.Components),
		explainedVariance: snap.ExplainedVariance,
		totalVariance:     snap.TotalVariance,
		logger:            log.GetLoggerWithName("decomposition").With(log.ModelNameKey, pcaName),
	}
	return nil
}
