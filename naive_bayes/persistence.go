package naive_bayes

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/errors"
	"github.com/YuminosukeSato/statkit/pkg/log"
)

// gaussianNBSnapshot は gob 用の公開フィールドだけを持つ表現
type gaussianNBSnapshot[L comparable] struct {
	NFeatures int
	NSamples  int
	Variance  model.VarianceConvention
	Labels    []L
	Counts    []int
	Priors    []float64
	Means     []float64 // K×D 行優先
	Vars      []float64
}

// GobEncode implements gob.GobEncoder.
func (m *GaussianNBModel[L]) GobEncode() ([]byte, error) {
	if err := m.shape.RequireFitted(modelName, "GobEncode"); err != nil {
		return nil, err
	}
	snap := gaussianNBSnapshot[L]{
		NFeatures: m.shape.NFeatures,
		NSamples:  m.shape.NSamples,
		Variance:  m.variance,
		Labels:    m.labels,
		Counts:    m.counts,
		Priors:    m.priors,
		Means:     m.means.RawMatrix().Data,
		Vars:      m.vars.RawMatrix().Data,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, errors.Wrap(err, "encode GaussianNBModel")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *GaussianNBModel[L]) GobDecode(data []byte) error {
	var snap gaussianNBSnapshot[L]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return errors.Wrap(err, "decode GaussianNBModel")
	}

	k, d := len(snap.Labels), snap.NFeatures
	if k == 0 || d <= 0 || snap.NSamples <= 0 || len(snap.Counts) != k || len(snap.Priors) != k ||
		len(snap.Means) != k*d || len(snap.Vars) != k*d {
		return errors.NewValueError("GaussianNBModel.GobDecode", "inconsistent snapshot")
	}
	if err := snap.Variance.Validate(); err != nil {
		return err
	}

	*m = GaussianNBModel[L]{
		shape:    model.Shape{NFeatures: d, NSamples: snap.NSamples},
		variance: snap.Variance,
		labels:   snap.Labels,
		counts:   snap.Counts,
		priors:   snap.Priors,
		means:    mat.NewDense(k, d, snap.Means),
		vars:     mat.NewDense(k, d, snap.Vars),
		logger:   log.GetLoggerWithName("naive_bayes").With(log.ModelNameKey, modelName),
	}
	return nil
}
