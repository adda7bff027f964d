package preprocessing

import (
	"bytes"
	"encoding/gob"

	"github.com/YuminosukeSato/statkit/core/model"
	"github.com/YuminosukeSato/statkit/pkg/errors"
)

func encodeSnapshot(name string, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, errors.Wrapf(err, "encode %s", name)
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(name string, data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	return nil
}

type standardScalerSnapshot struct {
	NFeatures int
	NSamples  int
	Mean      []float64
	Scale     []float64
	WithMean  bool
	WithStd   bool
}

// GobEncode implements gob.GobEncoder.
func (m *StandardScalerModel) GobEncode() ([]byte, error) {
	if err := m.shape.RequireFitted("StandardScaler", "GobEncode"); err != nil {
		return nil, err
	}
	return encodeSnapshot("StandardScalerModel", standardScalerSnapshot{
		NFeatures: m.shape.NFeatures,
		NSamples:  m.shape.NSamples,
		Mean:      m.mean,
		Scale:     m.scale,
		WithMean:  m.withMean,
		WithStd:   m.withStd,
	})
}

// GobDecode implements gob.GobDecoder.
func (m *StandardScalerModel) GobDecode(data []byte) error {
	var snap standardScalerSnapshot
	if err := decodeSnapshot("StandardScalerModel", data, &snap); err != nil {
		return err
	}
	if snap.NFeatures <= 0 || snap.NSamples <= 0 || len(snap.Mean) != snap.NFeatures || len(snap.Scale) != snap.NFeatures {
		return errors.NewValueError("StandardScalerModel.GobDecode", "inconsistent snapshot")
	}
	*m = StandardScalerModel{
		shape:    model.Shape{NFeatures: snap.NFeatures, NSamples: snap.NSamples},
		mean:     snap.Mean,
		scale:    snap.Scale,
		withMean: snap.WithMean,
		withStd:  snap.WithStd,
	}
	return nil
}

type minMaxSnapshot struct {
	DataMin      float64
	DataMax      float64
	FeatureRange [2]float64
	N            int
}

// GobEncode implements gob.GobEncoder.
func (m *MinMaxModel) GobEncode() ([]byte, error) {
	if m.n == 0 {
		return nil, errors.NewNotFittedError("MinMaxScaler", "GobEncode")
	}
	return encodeSnapshot("MinMaxModel", minMaxSnapshot{
		DataMin:      m.dataMin,
		DataMax:      m.dataMax,
		FeatureRange: m.featureRange,
		N:            m.n,
	})
}

// GobDecode implements gob.GobDecoder.
func (m *MinMaxModel) GobDecode(data []byte) error {
	var snap minMaxSnapshot
	if err := decodeSnapshot("MinMaxModel", data, &snap); err != nil {
		return err
	}
	if snap.N <= 0 || !(snap.DataMin < snap.DataMax) || !(snap.FeatureRange[0] < snap.FeatureRange[1]) {
		return errors.NewValueError("MinMaxModel.GobDecode", "inconsistent snapshot")
	}
	*m = MinMaxModel{dataMin: snap.DataMin, dataMax: snap.DataMax, featureRange: snap.FeatureRange, n: snap.N}
	return nil
}

// GobEncode implements gob.GobEncoder. Only the category list is stored;
// the index is rebuilt on decode.
func (m *OneHotModel[V]) GobEncode() ([]byte, error) {
	if len(m.categories) == 0 {
		return nil, errors.NewNotFittedError("OneHotEncoder", "GobEncode")
	}
	return encodeSnapshot("OneHotModel", m.categories)
}

// GobDecode implements gob.GobDecoder.
func (m *OneHotModel[V]) GobDecode(data []byte) error {
	var categories []V
	if err := decodeSnapshot("OneHotModel", data, &categories); err != nil {
		return err
	}
	index := make(map[V]int, len(categories))
	for i, c := range categories {
		if _, dup := index[c]; dup {
			return errors.NewValueError("OneHotModel.GobDecode", "duplicate category")
		}
		index[c] = i
	}
	if len(categories) == 0 {
		return errors.NewValueError("OneHotModel.GobDecode", "empty vocabulary")
	}
	*m = OneHotModel[V]{categories: categories, index: index}
	return nil
}
