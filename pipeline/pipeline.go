// Package pipeline runs the training workflow end to end: load, describe,
// split, fit, evaluate, save, then the demo table, charts and run summary.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/icesales/config"
	"github.com/YuminosukeSato/icesales/core/model"
	"github.com/YuminosukeSato/icesales/dataset"
	"github.com/YuminosukeSato/icesales/linear"
	"github.com/YuminosukeSato/icesales/metrics"
	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

// Stage names, in execution order.
const (
	StageLoad     = "load"
	StageDescribe = "describe"
	StageSplit    = "split"
	StageFit      = "fit"
	StageEvaluate = "evaluate"
	StageSave     = "save"
	StageDemo     = "demo"
	StagePlots    = "plots"
	StageSummary  = "summary"
)

// Artifact file names inside Options.OutputDir.
const (
	DemoFile              = "demo_predictions.csv"
	RegressionPlotFile    = "regression.png"
	ActualVsPredictedFile = "actual_vs_predicted.png"
	SummaryFile           = "run_summary.json"
)

// Options parameterizes one training run.
type Options struct {
	DataPath  string
	ModelPath string
	OutputDir string
	TestSize  float64
	Seed      uint64
	DemoMin   int
	DemoMax   int
	Plots     bool

	// Now overrides the clock stamped into the model metadata.
	Now func() time.Time
}

// OptionsFromConfig maps the file/env configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DataPath:  cfg.Data.Path,
		ModelPath: cfg.Model.Path,
		OutputDir: cfg.Output.Dir,
		TestSize:  cfg.Data.TestSize,
		Seed:      cfg.Data.Seed,
		DemoMin:   cfg.Output.DemoMin,
		DemoMax:   cfg.Output.DemoMax,
		Plots:     cfg.Output.Plots,
	}
}

// Artifacts lists the files a run wrote. Empty entries were skipped.
type Artifacts struct {
	Model                 string `json:"model"`
	DemoCSV               string `json:"demo_csv"`
	RegressionPlot        string `json:"regression_plot,omitempty"`
	ActualVsPredictedPlot string `json:"actual_vs_predicted_plot,omitempty"`
	Summary               string `json:"summary"`
}

// Result is everything a successful run produced.
type Result struct {
	Model       *model.FittedModel
	Description dataset.Description
	Metrics     metrics.Metrics
	TrainSize   int
	HoldoutSize int
	Demo        []DemoRow
	Summary     Summary
	Artifacts   Artifacts
}

type run struct {
	opts   Options
	logger log.Logger

	data    *dataset.Dataset
	train   *dataset.Dataset
	holdout *dataset.Dataset
	result  Result
}

// Run はパイプライン全体を実行する
//
// 各ステージは開始・終了をログに出し、panic は PanicError に変換される。
// 最初に失敗したステージで中断し、"stage <name>" を付けたエラーを返す。
// ステージの間で ctx のキャンセルを確認する。
func Run(ctx context.Context, opts Options, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	r := &run{
		opts:   opts,
		logger: logger.With(log.ComponentKey, "pipeline"),
	}

	stages := []struct {
		name  string
		phase string
		fn    func() error
	}{
		{StageLoad, log.PhasePreprocessing, r.load},
		{StageDescribe, log.PhasePreprocessing, r.describe},
		{StageSplit, log.PhasePreprocessing, r.split},
		{StageFit, log.PhaseTraining, r.fit},
		{StageEvaluate, log.PhaseValidation, r.evaluate},
		{StageSave, log.PhaseTraining, r.save},
		{StageDemo, log.PhaseInference, r.demo},
		{StagePlots, log.PhaseValidation, r.plots},
		{StageSummary, log.PhaseValidation, r.summary},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "stage %s", s.name)
		}
		stageLogger := r.logger.With(log.StageKey, s.name, log.PhaseKey, s.phase)
		stageLogger.Debug("Stage started")

		start := time.Now()
		if err := errors.SafeExecute("pipeline."+s.name, s.fn); err != nil {
			stageLogger.Error("Stage failed", err, log.DurationMsKey, time.Since(start).Milliseconds())
			return nil, errors.Wrapf(err, "stage %s", s.name)
		}
		stageLogger.Debug("Stage finished", log.DurationMsKey, time.Since(start).Milliseconds())
	}

	r.logger.Info("Pipeline finished",
		log.ModelIDKey, r.result.Model.Metadata().ID,
		log.SourceKey, r.result.Artifacts.Summary,
	)
	return &r.result, nil
}

func (r *run) load() error {
	ds, err := dataset.Load(r.opts.DataPath)
	if err != nil {
		return err
	}
	r.data = ds
	r.logger.Info("Data loaded",
		log.OperationKey, log.OperationLoad,
		log.SourceKey, ds.Source(),
		log.SamplesKey, ds.Rows(),
		log.FeaturesKey, ds.Columns(),
		log.DroppedKey, len(ds.Dropped()),
	)
	for _, issue := range ds.Dropped() {
		r.logger.Debug("Row dropped", "line", issue.Line, "reason", issue.Reason)
	}
	return nil
}

func (r *run) describe() error {
	d, err := dataset.Describe(r.data)
	if err != nil {
		return err
	}
	r.result.Description = d
	r.logger.Info("Data summary",
		log.OperationKey, log.OperationDescribe,
		"temperature", d.Temperature,
		"sales", d.Sales,
		"correlation", d.Correlation,
	)
	return nil
}

func (r *run) split() error {
	train, holdout, err := dataset.TrainTestSplit(r.data, r.opts.TestSize, r.opts.Seed)
	if err != nil {
		return err
	}
	r.train, r.holdout = train, holdout
	r.result.TrainSize, r.result.HoldoutSize = train.Rows(), holdout.Rows()
	r.logger.Info("Data split",
		log.OperationKey, log.OperationSplit,
		log.TrainSizeKey, train.Rows(),
		log.HoldoutSizeKey, holdout.Rows(),
		log.TestSizeKey, r.opts.TestSize,
		log.RandomSeedKey, r.opts.Seed,
	)
	return nil
}

func (r *run) fit() error {
	m, err := linear.FitDataset(r.train,
		linear.WithClock(r.opts.Now),
		linear.WithSplit(r.opts.Seed, r.opts.TestSize),
	)
	if err != nil {
		return err
	}
	r.result.Model = m
	r.logger.Info("Model fitted",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, m.Metadata().Algorithm,
		log.ModelIDKey, m.Metadata().ID,
		log.SlopeKey, m.Slope(),
		log.InterceptKey, m.Intercept(),
		log.SamplesKey, m.Metadata().NSamples,
	)
	return nil
}

func (r *run) evaluate() error {
	got, err := metrics.Evaluate(r.result.Model, r.holdout)
	if err != nil {
		return err
	}
	r.result.Metrics = got
	r.logger.Info("Model evaluated",
		log.OperationKey, log.OperationEvaluate,
		log.MAEKey, got.MAE,
		log.MSEKey, got.MSE,
		log.RMSEKey, got.RMSE,
		log.R2ScoreKey, got.R2,
		log.SamplesKey, got.N,
	)
	return nil
}

func (r *run) save() error {
	if err := model.SaveModel(r.result.Model, r.opts.ModelPath); err != nil {
		return err
	}
	r.result.Artifacts.Model = r.opts.ModelPath
	r.logger.Info("Model saved",
		log.OperationKey, log.OperationSave,
		log.SourceKey, r.opts.ModelPath,
	)
	return nil
}

func (r *run) demo() error {
	rows, err := DemoPredictions(r.result.Model, r.opts.DemoMin, r.opts.DemoMax)
	if err != nil {
		return err
	}
	path := filepath.Join(r.opts.OutputDir, DemoFile)
	if err := WriteDemoCSV(rows, path); err != nil {
		return err
	}
	r.result.Demo = rows
	r.result.Artifacts.DemoCSV = path
	r.logger.Info("Demo predictions written",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, len(rows),
		log.SourceKey, path,
	)
	return nil
}

func (r *run) plots() error {
	if !r.opts.Plots {
		r.logger.Debug("Plots disabled")
		return nil
	}
	regression := filepath.Join(r.opts.OutputDir, RegressionPlotFile)
	if err := PlotRegression(r.data, r.result.Model, regression); err != nil {
		return err
	}
	avp := filepath.Join(r.opts.OutputDir, ActualVsPredictedFile)
	if err := PlotActualVsPredicted(r.holdout, r.result.Model, avp); err != nil {
		return err
	}
	r.result.Artifacts.RegressionPlot = regression
	r.result.Artifacts.ActualVsPredictedPlot = avp
	r.logger.Info("Plots written", "files", []string{regression, avp})
	return nil
}

func (r *run) summary() error {
	path := filepath.Join(r.opts.OutputDir, SummaryFile)
	r.result.Artifacts.Summary = path
	r.result.Summary = newSummary(r.opts, r.data, &r.result)
	return WriteSummary(r.result.Summary, path)
}
