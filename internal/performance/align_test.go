package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlign_ExactMatch(t *testing.T) {
	closes := map[string]float64{"2020-01-01": 1000, "2020-01-02": 1010}
	assert.Equal(t, 1010.0, Align(date("2020-01-02"), closes, 1))
}

func TestAlign_NearestWithinTolerance(t *testing.T) {
	closes := map[string]float64{"2020-01-01": 1000}
	assert.Equal(t, 1000.0, Align(date("2020-01-02"), closes, 1))
	assert.Equal(t, 1000.0, Align(date("2020-01-04"), closes, 1), "three days is still within tolerance")
}

func TestAlign_BeyondToleranceUsesBaseline(t *testing.T) {
	closes := map[string]float64{"2020-01-01": 1000}
	assert.Equal(t, 42.0, Align(date("2020-01-10"), closes, 42))
	assert.Equal(t, 42.0, Align(date("2020-01-05"), closes, 42))
}

func TestAlign_EmptyMapping(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, 1400.0, Align(date("2020-01-01"), map[string]float64{}, 1400))
		assert.Equal(t, 7.0, Align(date("2020-01-01"), nil, 7))
	})
}

func TestAlign_TieBreaksToEarlierDate(t *testing.T) {
	closes := map[string]float64{"2020-01-01": 1000, "2020-01-05": 2000}
	assert.Equal(t, 1000.0, Align(date("2020-01-03"), closes, 0))
}

func TestAlign_PicksClosest(t *testing.T) {
	closes := map[string]float64{"2019-12-30": 900, "2020-01-04": 1100}
	assert.Equal(t, 1100.0, Align(date("2020-01-02"), closes, 0))
}

func TestBenchmarkIndex_Baseline(t *testing.T) {
	idx := NewBenchmarkIndex(map[string]float64{"2020-01-03": 1200, "2020-01-10": 1300})

	assert.Equal(t, 1200.0, idx.Baseline(date("2020-01-03")), "exact")
	assert.Equal(t, 1200.0, idx.Baseline(date("2020-01-01")), "nearest")
	assert.Equal(t, 1200.0, idx.Baseline(date("2019-06-01")), "earliest close")
	assert.Equal(t, FallbackBenchmarkBaseline, NewBenchmarkIndex(nil).Baseline(date("2020-01-01")))
}
