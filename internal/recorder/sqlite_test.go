package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "trends.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_Recommendations(t *testing.T) {
	r := openTemp(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, winner := range []string{"GOOG", "AAPL", "MSFT"} {
		require.NoError(t, r.RecordRecommendation(&RecommendationEvent{
			Label1: "GOOG", Label2: winner, Peak1: 100, Peak2: 110 + float64(i),
			Winner: winner, HorizonYears: 1, RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := r.RecentRecommendations(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MSFT", got[0].Winner)
	assert.Equal(t, "AAPL", got[1].Winner)
	assert.Equal(t, 112.0, got[0].Peak2)
	assert.Equal(t, base.Add(2*time.Hour), got[0].RecordedAt)

	all, err := r.RecentRecommendations(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteRecorder_RecordForecast(t *testing.T) {
	r := openTemp(t)
	err := r.RecordForecast(&ForecastRun{
		Symbol: "GOOG", Provider: "mock", HorizonDays: 365, HistoryLen: 2400,
		FirstDate: time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		LastClose: 178.2, PeakPredicted: 201.5, FinalPredicted: 199, FinalLower: 180, FinalUpper: 220,
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM forecast_runs WHERE symbol = ?`, "GOOG").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRecommendation(&RecommendationEvent{Label1: "A", Label2: "B", Winner: "B"}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.RecentRecommendations(10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordForecast(&ForecastRun{}))
	assert.NoError(t, r.RecordRecommendation(&RecommendationEvent{}))
	got, err := r.RecentRecommendations(5)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, r.Close())
}
