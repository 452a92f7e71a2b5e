package seed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/johnwards/takeout/internal/seed"
)

func TestResultSuccessRate(t *testing.T) {
	assert.Equal(t, 100.0, seed.Result{}.SuccessRate(), "empty stage is fully successful")

	r := seed.Result{Created: 6, Updated: 2, Failed: 2}
	assert.Equal(t, 10, r.TotalProcessed())
	assert.InDelta(t, 80.0, r.SuccessRate(), 1e-9)

	allFailed := seed.Result{Failed: 3}
	assert.Zero(t, allFailed.SuccessRate())
}

func TestResultDurationSeconds(t *testing.T) {
	r := seed.Result{Duration: 1500 * time.Millisecond}
	assert.InDelta(t, 1.5, r.DurationSeconds(), 1e-9)
}

func TestMergeRecomputesDerivedValues(t *testing.T) {
	a := seed.Result{Created: 6, Failed: 0, Duration: time.Second, Errors: []string{"a"}}
	b := seed.Result{Updated: 2, Failed: 2, Duration: 2 * time.Second, Errors: []string{"b1", "b2"}}

	m := seed.Merge(a, b)

	assert.Equal(t, 6, m.Created)
	assert.Equal(t, 2, m.Updated)
	assert.Equal(t, 2, m.Failed)
	assert.Equal(t, 3*time.Second, m.Duration)
	assert.Equal(t, []string{"a", "b1", "b2"}, m.Errors)
	assert.InDelta(t, 80.0, m.SuccessRate(), 1e-9)
	// 100 + 50 would be wrong: rates are never summed.
	assert.NotEqual(t, a.SuccessRate()+b.SuccessRate(), m.SuccessRate())
}

func TestTotalFollowsOrder(t *testing.T) {
	results := map[string]seed.Result{
		seed.TypeVideos:   {Created: 1, Errors: []string{"video"}},
		seed.TypeChannels: {Created: 2, Errors: []string{"channel"}},
	}

	total := seed.Total(results, seed.DataTypes())

	assert.Equal(t, 3, total.Created)
	assert.Equal(t, []string{"channel", "video"}, total.Errors)
}

func TestProgressNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		seed.NewProgress(nil).Update(seed.TypeChannels)
		seed.Progress{}.Update(seed.TypeChannels)
	})
}

func TestProgressInvokesFunc(t *testing.T) {
	var got []string
	p := seed.NewProgress(func(dt string) { got = append(got, dt) })

	p.Update(seed.TypeVideos)
	p.Update(seed.TypePlaylists)

	assert.Equal(t, []string{seed.TypeVideos, seed.TypePlaylists}, got)
}
