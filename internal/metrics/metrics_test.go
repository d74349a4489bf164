package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTurn(t *testing.T) {
	before := testutil.ToFloat64(turnsTotal.WithLabelValues("logged"))
	RecordTurn("logged")
	RecordTurn("logged")

	if got := testutil.ToFloat64(turnsTotal.WithLabelValues("logged")) - before; got != 2 {
		t.Errorf("expected 2 logged turns, got %v", got)
	}
}

func TestRecordDefault(t *testing.T) {
	before := testutil.ToFloat64(defaultsTotal.WithLabelValues("duration"))
	RecordDefault("duration")

	if got := testutil.ToFloat64(defaultsTotal.WithLabelValues("duration")) - before; got != 1 {
		t.Errorf("expected 1 defaulted duration, got %v", got)
	}
}

func TestRecordCall(t *testing.T) {
	RecordCall("submit", time.Now(), nil)
	RecordCall("submit", time.Now(), errors.New("boom"))

	if n := testutil.CollectAndCount(callSeconds, "tally_collaborator_call_seconds"); n < 2 {
		t.Errorf("expected at least 2 series, got %d", n)
	}
}
