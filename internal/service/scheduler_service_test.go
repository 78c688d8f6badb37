package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("backup", "07:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 7 * * *", spec)

	spec, err = buildDailySpec("backup", " 23:05 ")
	require.NoError(t, err)
	assert.Equal(t, "0 5 23 * * *", spec)

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd"} {
		_, err := buildDailySpec("backup", bad)
		require.Error(t, err, bad)
		assert.Contains(t, err.Error(), "schedule backup", bad)
	}
}

func TestScheduleDailyNamesFailingJob(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)
	_, err := s.ScheduleDaily("digest", "25:00", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest")
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)
	_, err := s.ScheduleInterval("digest", 0, func() {})
	assert.Error(t, err)
}

func TestSchedulerRunsJob(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)
	ran := make(chan struct{}, 1)
	id, err := s.ScheduleInterval("tick", time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	assert.False(t, s.Next(id).IsZero())
}
