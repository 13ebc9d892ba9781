package systems

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/conifer/engine/config"
	"github.com/spaghettifunk/conifer/engine/formation"
	"github.com/spaghettifunk/conifer/engine/gesture"
	"github.com/spaghettifunk/conifer/engine/math"
)

func managerGroupConfig(name string, count int) *formation.GroupConfig {
	return &formation.GroupConfig{
		Name:  name,
		Count: count,
		Scattered: func(i int) math.Vec3 {
			return formation.UniformInSphere(6.0)
		},
		Assembled: func(i int) math.Vec3 {
			return formation.UniformInCone(4.2, 1.6)
		},
	}
}

func TestNewSystemManagerDefaults(t *testing.T) {
	sm, err := NewSystemManager(nil)
	require.NoError(t, err)
	defer sm.Shutdown()

	assert.Equal(t, config.Default(), sm.Config)
	assert.NotNil(t, sm.CameraSystem)
	assert.NotNil(t, sm.Registry)
	assert.NotNil(t, sm.Bridge)
}

func TestFormationCreateRegistersInConfigOrder(t *testing.T) {
	sm, err := NewSystemManager(config.Default())
	require.NoError(t, err)
	defer sm.Shutdown()

	configs := []*formation.GroupConfig{
		managerGroupConfig("foliage", 100),
		managerGroupConfig("garland", 40),
		managerGroupConfig("topper", 1),
	}
	require.NoError(t, sm.FormationCreate(configs))

	groups := sm.Registry.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "foliage", groups[0].Name)
	assert.Equal(t, "garland", groups[1].Name)
	assert.Equal(t, "topper", groups[2].Name)
	assert.Equal(t, 100, groups[0].Count())
}

func TestFormationCreatePropagatesGeneratorErrors(t *testing.T) {
	sm, err := NewSystemManager(config.Default())
	require.NoError(t, err)
	defer sm.Shutdown()

	bad := managerGroupConfig("broken", 0)
	err = sm.FormationCreate([]*formation.GroupConfig{
		managerGroupConfig("ok", 10),
		bad,
	})
	assert.Error(t, err)
}

func TestFormationCreateRejectsEmptyInput(t *testing.T) {
	sm, err := NewSystemManager(config.Default())
	require.NoError(t, err)
	defer sm.Shutdown()

	assert.Error(t, sm.FormationCreate(nil))
}

func TestGestureSampleDisabledWithoutFeed(t *testing.T) {
	sm, err := NewSystemManager(config.Default())
	require.NoError(t, err)
	defer sm.Shutdown()

	_, ok := sm.GestureSample()
	assert.False(t, ok)
}

func TestApplyConfigReachesCamera(t *testing.T) {
	sm, err := NewSystemManager(config.Default())
	require.NoError(t, err)
	defer sm.Shutdown()

	updated := config.Default()
	updated.Camera.AutoRotateRate = 2.0
	sm.ApplyConfig(updated)
	assert.Equal(t, updated, sm.Config)

	// The new idle rate takes effect immediately.
	before, _ := sm.CameraSystem.Angles()
	sm.CameraSystem.Update(0.2, gesture.Sample{HasHand: false}, true)
	after, _ := sm.CameraSystem.Angles()
	assert.InDelta(t, float64(before)+2.0*0.2, float64(after), 1e-6)
}

func TestJobSystemRunsSubmittedTasks(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)

	const n = 32
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		i := i
		js.Submit(JobTask{
			OnStart: func() error {
				results <- i
				return nil
			},
		})
	}
	require.NoError(t, js.Shutdown())

	assert.Len(t, results, n)
}

func TestJobSystemFailureCallback(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)

	failures := make(chan error, 1)
	js.Submit(JobTask{
		OnStart:   func() error { return fmt.Errorf("boom") },
		OnFailure: func(err error) { failures <- err },
	})
	require.NoError(t, js.Shutdown())

	select {
	case err := <-failures:
		assert.EqualError(t, err, "boom")
	default:
		t.Fatal("failure callback never ran")
	}
}

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 4)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(2, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}
