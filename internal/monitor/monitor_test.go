package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mateengine/internal/tt"
)

func TestTickIncrementsNodes(t *testing.T) {
	m := New(tt.NewTable(1))
	m.Reset()
	require.Equal(t, int64(1), m.Tick())
	require.Equal(t, int64(2), m.Tick())
	require.Equal(t, int64(2), m.Nodes())
}

func TestShouldStopOnExplicitStop(t *testing.T) {
	m := New(tt.NewTable(1))
	m.Reset()
	require.False(t, m.ShouldStop())
	m.Stop()
	require.True(t, m.ShouldStop())
}

func TestShouldStopOnNodeLimit(t *testing.T) {
	m := New(tt.NewTable(1))
	m.Reset()
	m.SetLimits(3, 0)
	for i := 0; i < 2; i++ {
		m.Tick()
	}
	require.False(t, m.ShouldStop())
	m.Tick()
	require.True(t, m.ShouldStop())
}

func TestShouldStopOnDeadline(t *testing.T) {
	m := New(tt.NewTable(1))
	m.Reset()
	m.SetLimits(0, time.Millisecond)
	require.Eventually(t, m.ShouldStop, 200*time.Millisecond, 2*time.Millisecond)
}

func TestRunBackgroundGCStopsOnCancel(t *testing.T) {
	m := New(tt.NewTable(1))
	cancel, wait := m.RunBackgroundGC(context.Background(), time.Millisecond, 0.5)
	cancel()
	require.NoError(t, wait())
}
