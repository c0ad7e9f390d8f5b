package dataset

import (
	"encoding/csv"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

const dateLayout = "02/01/2006"

// seed observations every synthetic dataset starts with
var seedRecords = []Record{
	{Date: "01/01/2025", Temperature: 30, Sales: 120},
	{Date: "02/01/2025", Temperature: 32, Sales: 150},
	{Date: "03/01/2025", Temperature: 28, Sales: 100},
	{Date: "04/01/2025", Temperature: 33, Sales: 180},
	{Date: "05/01/2025", Temperature: 29, Sales: 130},
	{Date: "06/01/2025", Temperature: 31, Sales: 170},
	{Date: "07/01/2025", Temperature: 30, Sales: 140},
	{Date: "08/01/2025", Temperature: 32, Sales: 160},
	{Date: "09/01/2025", Temperature: 27, Sales: 110},
}

const (
	minSyntheticTemp = 20
	maxSyntheticTemp = 37
	salesFloor       = 50
	noiseStd         = 15
	jitter           = 10
)

// GenerateSynthetic は再現可能な合成データを n 行生成する
//
// 先頭は固定の観測 9 行。それ以降は 20〜37℃ の整数温度ごとに
// max(round(10·t − 180 + N(0,15)), 50) を一度だけ引いて基準値とし、
// 各行はランダムに選んだ温度の基準値に U[-10,10] を加える。
// 日付は最後の固定観測の翌日から 1 日ずつ進む。
func GenerateSynthetic(n int, seed uint64) (*Dataset, error) {
	if n <= 0 {
		return nil, errors.NewConfigError("rows", "must be positive", n)
	}
	if n <= len(seedRecords) {
		return New("synthetic", append([]Record(nil), seedRecords[:n]...)), nil
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	base := make(map[int]int, maxSyntheticTemp-minSyntheticTemp+1)
	for t := minSyntheticTemp; t <= maxSyntheticTemp; t++ {
		v := 10*float64(t) - 180 + rng.NormFloat64()*noiseStd
		base[t] = int(math.Round(math.Max(v, salesFloor)))
	}

	last, _ := time.Parse(dateLayout, seedRecords[len(seedRecords)-1].Date)
	records := append(make([]Record, 0, n), seedRecords...)
	for i := 1; len(records) < n; i++ {
		t := minSyntheticTemp + rng.IntN(maxSyntheticTemp-minSyntheticTemp+1)
		records = append(records, Record{
			Date:        last.AddDate(0, 0, i).Format(dateLayout),
			Temperature: float64(t),
			Sales:       base[t] + rng.IntN(2*jitter+1) - jitter,
		})
	}
	return New("synthetic", records), nil
}

// WriteCSV writes ds to path as Date,Temperature,Sales, creating parent
// directories as needed.
func WriteCSV(ds *Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("dataset.WriteCSV", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("dataset.WriteCSV", path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{ColumnDate, ColumnTemperature, ColumnSales})
	for _, r := range ds.records {
		_ = w.Write([]string{
			r.Date,
			strconv.FormatFloat(r.Temperature, 'f', -1, 64),
			strconv.Itoa(r.Sales),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errors.NewIOError("dataset.WriteCSV", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("dataset.WriteCSV", path, err)
	}
	return nil
}
