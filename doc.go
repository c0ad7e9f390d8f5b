// Package icesales forecasts daily ice-cream sales from the day's
// temperature with a single-feature ordinary least squares model.
//
// The module is organized as a small pipeline plus a serving layer:
//
//   - dataset: CSV loading, train/holdout split, summary statistics and synthetic data
//   - linear: closed-form OLS fitting and a LinearRegression estimator
//   - metrics: MAE, MSE, RMSE and R² on a holdout set
//   - core/model: the fitted model, its persistence and a concurrency-safe handle
//   - prediction: temperature to integer sales forecasts
//   - pipeline: load, split, fit, evaluate, save and report as one run
//   - server: HTTP prediction API with Prometheus metrics
//   - config, pkg/log, pkg/errors: configuration, logging and typed errors
//
// # Quick Start
//
//	icesales generate --rows 200 --out inputs/ice_cream_sales.csv
//	icesales train --data inputs/ice_cream_sales.csv
//	icesales predict -t 30
//	icesales serve
//
// From Go:
//
//	ds, err := dataset.Load("inputs/ice_cream_sales.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := linear.FitDataset(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sales, err := prediction.PredictSales(m, 30)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(prediction.Message(30, sales))
package icesales
