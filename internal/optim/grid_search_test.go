package optim

import (
	"context"
	"testing"

	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackConfig() *config.Config {
	cfg := config.GetPreset("track", "urban")
	cfg.Duration = 20
	return cfg
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
}

func TestGridSearchVisitsEveryPoint(t *testing.T) {
	g := NewGridSearch([]string{"kp", "ki"}, [][]float64{{0.5, 1, 2}, {0, 0.2}})

	_, _, trials, err := g.Search(context.Background(), FromConfig(trackConfig(), experiment.NewRegistry()), "speed_rms_error")
	require.NoError(t, err)
	assert.Len(t, trials, 6)
}

func TestGridSearchPicksMinimum(t *testing.T) {
	g := NewGridSearch([]string{"kp"}, [][]float64{{0.05, 1, 4}})

	best, val, trials, err := g.Search(context.Background(), FromConfig(trackConfig(), experiment.NewRegistry()), "speed_rms_error")
	require.NoError(t, err)

	for _, tr := range trials {
		require.NoError(t, tr.Err)
		assert.GreaterOrEqual(t, tr.Value, val)
	}
	assert.NotEqual(t, 0.05, best["kp"])
}

func TestGridSearchUnknownParam(t *testing.T) {
	g := NewGridSearch([]string{"warp"}, [][]float64{{1}})

	_, _, trials, err := g.Search(context.Background(), FromConfig(trackConfig(), experiment.NewRegistry()), "speed_rms_error")
	assert.Error(t, err)
	require.Len(t, trials, 1)
	assert.Error(t, trials[0].Err)
}

func TestGridSearchMismatchedGrid(t *testing.T) {
	g := NewGridSearch([]string{"kp", "ki"}, [][]float64{{1}})
	_, _, _, err := g.Search(context.Background(), FromConfig(trackConfig(), experiment.NewRegistry()), "speed_rms_error")
	assert.Error(t, err)
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"kp"}, [][]float64{{1, 2, 3}})
	_, _, trials, err := g.Search(ctx, FromConfig(trackConfig(), experiment.NewRegistry()), "speed_rms_error")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, trials, 1)
}
