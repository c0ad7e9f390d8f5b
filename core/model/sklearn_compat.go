package model

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// SKLearnModelSpec はscikit-learnからエクスポートされたモデルの識別情報
type SKLearnModelSpec struct {
	Name           string `json:"name"`
	FormatVersion  string `json:"format_version"`
	SKLearnVersion string `json:"sklearn_version,omitempty"`
}

// SKLearnModel はscikit-learn互換JSONのトップレベル構造
type SKLearnModel struct {
	ModelSpec SKLearnModelSpec `json:"model_spec"`
	Params    json.RawMessage  `json:"params"`
	Metadata  *Metadata        `json:"metadata,omitempty"`
}

// SKLearnLinearRegressionParams はLinearRegressionのパラメータ
// （coef_ と intercept_ に対応）
type SKLearnLinearRegressionParams struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    *float64  `json:"intercept"`
	NFeatures    int       `json:"n_features"`
}

// ExportSKLearnWriter はモデルをscikit-learn互換のJSON形式でWriterに書き出す
func ExportSKLearnWriter(m *FittedModel, w io.Writer) error {
	intercept := m.intercept
	params, err := json.Marshal(SKLearnLinearRegressionParams{
		Coefficients: []float64{m.slope},
		Intercept:    &intercept,
		NFeatures:    1,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}

	meta := m.meta
	skModel := SKLearnModel{
		ModelSpec: SKLearnModelSpec{
			Name:          AlgorithmOLS,
			FormatVersion: "1.0",
		},
		Params:   params,
		Metadata: &meta,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&skModel); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadSKLearnReader はscikit-learn互換JSONからモデルを読み込む
//
// 単一特徴量の LinearRegression のみを受け付ける。
func LoadSKLearnReader(r io.Reader, name string) (*FittedModel, error) {
	var skModel SKLearnModel
	if err := json.NewDecoder(r).Decode(&skModel); err != nil {
		return nil, errors.NewCorruptionError(name, "cannot decode JSON payload", err)
	}
	if skModel.ModelSpec.Name != AlgorithmOLS {
		return nil, errors.NewCorruptionError(name, "unexpected model type "+skModel.ModelSpec.Name, nil)
	}
	if len(skModel.Params) == 0 {
		return nil, errors.NewCorruptionError(name, "missing params", nil)
	}

	var params SKLearnLinearRegressionParams
	if err := json.Unmarshal(skModel.Params, &params); err != nil {
		return nil, errors.NewCorruptionError(name, "cannot decode params", err)
	}
	if len(params.Coefficients) != 1 || params.Intercept == nil {
		return nil, errors.NewCorruptionError(name, "missing slope/intercept", nil)
	}
	if params.NFeatures != 0 && params.NFeatures != 1 {
		return nil, errors.NewCorruptionError(name, "expected a single-feature model", nil)
	}

	var meta Metadata
	if skModel.Metadata != nil {
		meta = *skModel.Metadata
	}
	m, err := NewFittedModel(params.Coefficients[0], *params.Intercept, meta)
	if err != nil {
		return nil, errors.NewCorruptionError(name, "non-finite coefficients", err)
	}
	return m, nil
}
