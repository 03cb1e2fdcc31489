package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBestCost(t *testing.T) {
	before := testutil.ToFloat64(IncumbentsTotal)
	RecordBestCost(42.5)
	assert.Equal(t, before+1, testutil.ToFloat64(IncumbentsTotal))
}

func TestRecordSearchStatus(t *testing.T) {
	RecordSearchStatus("optimal")
	assert.Equal(t, 2.0, testutil.ToFloat64(SearchStatus))
	RecordSearchStatus("infeasible")
	assert.Equal(t, 3.0, testutil.ToFloat64(SearchStatus))
}

func TestObserveSolveDuration(t *testing.T) {
	assert.NotPanics(t, func() { ObserveSolveDuration(2 * time.Second) })
}

func TestHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}
