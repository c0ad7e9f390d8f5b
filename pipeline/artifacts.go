package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/metrics"
	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/prediction"
)

// DemoRow is one line of the demo prediction table.
type DemoRow struct {
	Temperature    int `json:"temperature"`
	PredictedSales int `json:"predicted_sales"`
}

// DemoPredictions predicts every integer temperature in [from, to].
func DemoPredictions(m *model.FittedModel, from, to int) ([]DemoRow, error) {
	if from > to {
		return nil, errors.NewConfigError("output.demo_min", "must not exceed output.demo_max", from)
	}
	rows := make([]DemoRow, 0, to-from+1)
	for t := from; t <= to; t++ {
		sales, err := prediction.PredictSales(m, float64(t))
		if err != nil {
			return nil, err
		}
		rows = append(rows, DemoRow{Temperature: t, PredictedSales: sales})
	}
	return rows, nil
}

// WriteDemoCSV writes rows with the header Temperature,PredictedSales.
func WriteDemoCSV(rows []DemoRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("pipeline.WriteDemoCSV", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("pipeline.WriteDemoCSV", path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{"Temperature", "PredictedSales"})
	for _, r := range rows {
		_ = w.Write([]string{strconv.Itoa(r.Temperature), strconv.Itoa(r.PredictedSales)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errors.NewIOError("pipeline.WriteDemoCSV", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("pipeline.WriteDemoCSV", path, err)
	}
	return nil
}

// Summary is the machine-readable record of a training run.
type Summary struct {
	ModelID     string              `json:"model_id"`
	Algorithm   string              `json:"algorithm"`
	Slope       float64             `json:"slope"`
	Intercept   float64             `json:"intercept"`
	FittedAt    time.Time           `json:"fitted_at"`
	DataPath    string              `json:"data_path"`
	Rows        int                 `json:"rows"`
	Dropped     int                 `json:"dropped"`
	TrainSize   int                 `json:"train_size"`
	HoldoutSize int                 `json:"holdout_size"`
	TestSize    float64             `json:"test_size"`
	Seed        uint64              `json:"seed"`
	Metrics     metrics.Metrics     `json:"metrics"`
	Description dataset.Description `json:"description"`
	Artifacts   Artifacts           `json:"artifacts"`
}

func newSummary(opts Options, data *dataset.Dataset, res *Result) Summary {
	meta := res.Model.Metadata()
	return Summary{
		ModelID:     meta.ID,
		Algorithm:   meta.Algorithm,
		Slope:       res.Model.Slope(),
		Intercept:   res.Model.Intercept(),
		FittedAt:    meta.FittedAt,
		DataPath:    opts.DataPath,
		Rows:        data.Rows(),
		Dropped:     len(data.Dropped()),
		TrainSize:   res.TrainSize,
		HoldoutSize: res.HoldoutSize,
		TestSize:    opts.TestSize,
		Seed:        opts.Seed,
		Metrics:     res.Metrics,
		Description: res.Description,
		Artifacts:   res.Artifacts,
	}
}

// WriteSummary writes s as indented JSON.
func WriteSummary(s Summary, path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode run summary")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("pipeline.WriteSummary", path, err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return errors.NewIOError("pipeline.WriteSummary", path, err)
	}
	return nil
}
