package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()

	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Gauge != nil {
		return out.GetGauge().GetValue()
	}
	return out.GetCounter().GetValue()
}

type staticUsers struct {
	users []string
	err   error
}

func (s staticUsers) KnownUsers(context.Context) ([]string, error) {
	return s.users, s.err
}

func TestUsersCollector_Collect(t *testing.T) {
	c := NewUsersCollector(staticUsers{users: []string{"1", "2", "3"}}, 0, nil)

	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, float64(3), value(t, knownUsers))
}

func TestUsersCollector_CollectError(t *testing.T) {
	SetKnownUsers(7)
	c := NewUsersCollector(staticUsers{err: errors.New("store down")}, 0, nil)

	assert.Error(t, c.Collect(context.Background()))
	assert.Equal(t, float64(7), value(t, knownUsers))
}

func TestRecordGeneration(t *testing.T) {
	before := value(t, generationsTotal.WithLabelValues("article", "ok"))
	RecordGeneration("article", "ok")
	assert.Equal(t, before+1, value(t, generationsTotal.WithLabelValues("article", "ok")))
}

func TestRecordStateTransition_EmptyLabels(t *testing.T) {
	before := value(t, stateTransitionsTotal.WithLabelValues("unknown", "idle"))
	RecordStateTransition("", "idle")
	assert.Equal(t, before+1, value(t, stateTransitionsTotal.WithLabelValues("unknown", "idle")))
}
