package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/icesales/pkg/errors"
)

// TrainTestSplit は Dataset を学習用とホールドアウト用に分割する
//
// ホールドアウトの件数は ceil(testSize·n)、学習用は残り全件。
// シャッフルは seed から作った PCG による順列なので、同じ seed と入力順なら
// 常に同じ分割になる。各部分集合の並びは順列の順序に従う。
//
// testSize が (0,1) の範囲外なら ConfigError、どちらかが空になる場合は DataError を返す。
func TrainTestSplit(ds *Dataset, testSize float64, seed uint64) (train, holdout *Dataset, err error) {
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewConfigError("test_size", "must be in (0, 1)", testSize)
	}
	n := ds.Rows()
	if n == 0 {
		return nil, nil, errors.NewDataError("dataset.TrainTestSplit", "dataset is empty")
	}

	nHoldout := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nHoldout
	if nHoldout == 0 || nTrain == 0 {
		return nil, nil, errors.NewDataError("dataset.TrainTestSplit",
			fmt.Sprintf("split of %d rows at test_size %g leaves an empty side", n, testSize))
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	holdoutRecs := make([]Record, 0, nHoldout)
	trainRecs := make([]Record, 0, nTrain)
	for i, idx := range perm {
		if i < nHoldout {
			holdoutRecs = append(holdoutRecs, ds.records[idx])
		} else {
			trainRecs = append(trainRecs, ds.records[idx])
		}
	}
	return ds.subset(trainRecs), ds.subset(holdoutRecs), nil
}
