// Standard attribute keys for pipeline and serving logs.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so records from the trainer, the CLI and the HTTP server
// can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	ModelNameKey = "model.name"

	// ModelIDKey is the unique identifier assigned to a fitted model.
	ModelIDKey = "model.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "load", "split", "fit", "evaluate", "save", "predict"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"

	// StageKey names a pipeline stage.
	StageKey = "pipeline.stage"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns in the dataset.
	FeaturesKey = "data.features"

	// DroppedKey indicates the number of rows dropped during load.
	DroppedKey = "data.dropped"

	// SourceKey is the path the data or model was read from or written to.
	SourceKey = "data.source"

	// TrainSizeKey and HoldoutSizeKey are the sizes of the two split sides.
	TrainSizeKey   = "data.train_size"
	HoldoutSizeKey = "data.holdout_size"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	MAEKey  = "metrics.mae"
	MSEKey  = "metrics.mse"
	RMSEKey = "metrics.rmse"

	// R2ScoreKey records R² coefficient of determination for regression.
	// Range typically [-∞, 1.0], with 1.0 being perfect prediction.
	R2ScoreKey = "metrics.r2_score"
)

// Coefficients and Prediction Context
const (
	SlopeKey       = "model.slope"
	InterceptKey   = "model.intercept"
	TemperatureKey = "preds.temperature"
	PredictionKey  = "preds.sales"
	PredsKey       = "preds.count"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Hyperparameters and Configuration
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// TestSizeKey records the holdout fraction.
	TestSizeKey = "config.test_size"
)

// Standard attribute value constants.
const (
	OperationLoad     = "load"
	OperationDescribe = "describe"
	OperationSplit    = "split"
	OperationFit      = "fit"
	OperationEvaluate = "evaluate"
	OperationSave     = "save"
	OperationPredict  = "predict"
	OperationReload   = "reload"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
)
