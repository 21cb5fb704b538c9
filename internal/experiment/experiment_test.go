package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/vehsim/internal/canbus"
	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListScenarios(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"coast", "cruise", "ramp", "track"}, r.ListScenarios())
	for _, name := range r.ListScenarios() {
		assert.NotEmpty(t, r.Describe(name), name)
	}
}

func TestUnknownScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "drift"

	_, err := NewRegistry().GetDriver(cfg, nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownScenario))
}

func TestRunNotSetup(t *testing.T) {
	_, err := New(config.DefaultConfig()).Run(context.Background())
	assert.Error(t, err)
}

func TestRampExperiment(t *testing.T) {
	e := New(config.DefaultConfig())
	require.NoError(t, e.Setup(NewRegistry(), nil))

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Samples, 2001)

	tc, ok := result.CrossingTime(150)
	require.True(t, ok)
	assert.InDelta(t, 15.0, tc, 0.5)
	assert.Contains(t, result.Metrics, "max_speed")
	assert.Contains(t, result.Metrics, "distance")
}

func TestTrackExperimentSendsFrames(t *testing.T) {
	cfg := config.GetPreset("track", "urban")
	cfg.Duration = 5

	rec := &canbus.Recorder{}
	e := New(cfg)
	require.NoError(t, e.Setup(NewRegistry(), canbus.NewSink(rec)))

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, rec.Frames(), 500)
	assert.Contains(t, result.Metrics, "speed_rms_error")
}

func TestTrackExperimentRerunMatches(t *testing.T) {
	cfg := config.GetPreset("track", "urban")
	cfg.Duration = 10

	e := New(cfg)
	require.NoError(t, e.Setup(NewRegistry(), nil))

	first, err := e.Run(context.Background())
	require.NoError(t, err)
	second, err := e.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, second.Samples, len(first.Samples))
	for i := range first.Samples {
		require.Equal(t, first.Samples[i], second.Samples[i], "sample %d", i)
	}
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestWaypointsGenerated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TargetSpeed = 10
	cfg.Duration = 60

	wps, err := Waypoints(cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, wps.Length(), 1.5*10*60)
	for _, w := range wps {
		assert.Equal(t, 10.0, w.Speed)
	}
}

func TestWaypointsFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wps.csv")
	require.NoError(t, os.WriteFile(file, []byte("x,y,speed\n0, 0, 5\n10, 0, 6\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.WaypointsFile = file

	wps, err := Waypoints(cfg)
	require.NoError(t, err)
	require.Len(t, wps, 2)
	assert.Equal(t, 6.0, wps[1].Speed)
}

func TestWaypointsEmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(file, []byte("# nothing\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.WaypointsFile = file

	_, err := Waypoints(cfg)
	assert.True(t, errors.Is(err, dynamo.ErrNoWaypoints))
}

func TestStreamStopsEarly(t *testing.T) {
	e := New(config.DefaultConfig())
	require.NoError(t, e.Setup(NewRegistry(), nil))

	n := 0
	err := e.Stream(context.Background(), func(dynamo.Sample) bool {
		n++
		return n < 10
	})
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
