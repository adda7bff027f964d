package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/statkit/pkg/errors"
)

// SaveModel は学習済みモデルを gob 形式でファイルに保存する
//
// 使用例:
//
//	nb, _ := naive_bayes.NewGaussianNB[string]().Fit(X, y)
//	err := model.SaveModel(nb, "nb.gob")
func SaveModel(m any, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	if err := SaveModelToWriter(m, file); err != nil {
		return err
	}
	return errors.Wrap(file.Close(), "close model file")
}

// LoadModel はファイルからモデルを読み込む。m はポインタを渡す
//
//	var nb naive_bayes.GaussianNBModel[string]
//	err := model.LoadModel(&nb, "nb.gob")
func LoadModel(m any, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(m, file)
}

// SaveModelToWriter はモデルを io.Writer に保存する
func SaveModelToWriter(m any, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader は io.Reader からモデルを読み込む
func LoadModelFromReader(m any, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
