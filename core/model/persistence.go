package model

import (
	"encoding/gob"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// formatVersion is written into every gob payload.
const formatVersion = 1

// persistedModel is the on-disk gob shape. Coefficients holds {slope, intercept};
// a slice is used because gob drops zero-valued scalar fields, which would make a
// legitimately zero intercept indistinguishable from a missing one.
type persistedModel struct {
	FormatVersion int
	Coefficients  []float64
	Metadata      Metadata
}

// SaveModel はモデルをファイルに保存する
//
// 親ディレクトリは必要に応じて作成される。同じディレクトリの一時ファイルに書き込んでから
// rename するため、並行して読み込む側が書きかけのファイルを見ることはない。
// 拡張子が .json の場合は scikit-learn 互換の JSON、それ以外は gob で保存する。
//
// 使用例:
//
//	err := model.SaveModel(fitted, "outputs/model.gob")
func SaveModel(m *FittedModel, filename string) (err error) {
	if m == nil {
		return errors.NewNotFittedError("FittedModel", "SaveModel")
	}
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("model.SaveModel", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return errors.NewIOError("model.SaveModel", filename, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if isJSON(filename) {
		err = ExportSKLearnWriter(m, tmp)
	} else {
		err = SaveModelToWriter(m, tmp)
	}
	if err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIOError("model.SaveModel", filename, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return errors.NewIOError("model.SaveModel", filename, err)
	}
	return nil
}

// LoadModel はファイルからモデルを読み込む
//
// ファイルが存在しない場合は NotFoundError、内容を期待する形に復元できない場合は
// CorruptionError を返す。
func LoadModel(filename string) (*FittedModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(filename)
		}
		return nil, errors.NewIOError("model.LoadModel", filename, err)
	}
	defer file.Close()

	if isJSON(filename) {
		return LoadSKLearnReader(file, filename)
	}
	return LoadModelFromReader(file, filename)
}

// RemoveModel は保存済みモデルを削除する
func RemoveModel(filename string) error {
	if err := os.Remove(filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.NewNotFoundError(filename)
		}
		return errors.NewIOError("model.RemoveModel", filename, err)
	}
	return nil
}

// SaveModelToWriter はモデルをgob形式でio.Writerに保存する
func SaveModelToWriter(m *FittedModel, w io.Writer) error {
	payload := persistedModel{
		FormatVersion: formatVersion,
		Coefficients:  []float64{m.slope, m.intercept},
		Metadata:      m.meta,
	}
	if err := gob.NewEncoder(w).Encode(&payload); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからgob形式のモデルを読み込む
//
// name はエラーメッセージに使うソース名。
func LoadModelFromReader(r io.Reader, name string) (*FittedModel, error) {
	var payload persistedModel
	if err := gob.NewDecoder(r).Decode(&payload); err != nil {
		return nil, errors.NewCorruptionError(name, "cannot decode gob payload", err)
	}
	if payload.FormatVersion != formatVersion {
		return nil, errors.NewCorruptionError(name, "unsupported format version", errors.Newf("version %d", payload.FormatVersion))
	}
	if len(payload.Coefficients) != 2 {
		return nil, errors.NewCorruptionError(name, "missing slope/intercept", nil)
	}
	m, err := NewFittedModel(payload.Coefficients[0], payload.Coefficients[1], payload.Metadata)
	if err != nil {
		return nil, errors.NewCorruptionError(name, "non-finite coefficients", err)
	}
	return m, nil
}

func isJSON(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}
