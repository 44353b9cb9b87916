package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFireReachesListenersInOrder(t *testing.T) {
	require.True(t, EventSystemInitialize())
	defer EventSystemShutdown()

	var got []int
	EventRegister(EVENT_CODE_RESIZED, func(EventContext) { got = append(got, 1) })
	EventRegister(EVENT_CODE_RESIZED, func(ctx EventContext) {
		se, ok := ctx.Data.(*SystemEvent)
		require.True(t, ok)
		assert.Equal(t, uint32(640), se.WindowWidth)
		got = append(got, 2)
	})

	handled := EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{WindowWidth: 640, WindowHeight: 480}})
	assert.True(t, handled)
	assert.Equal(t, []int{1, 2}, got)
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED}))
}

func TestInputKeyTransitionsFireOnce(t *testing.T) {
	require.True(t, EventSystemInitialize())
	defer EventSystemShutdown()
	require.NoError(t, InputInitialize())
	defer InputShutdown()

	pressed := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, func(EventContext) { pressed++ })

	require.NoError(t, InputProcessKey(KEY_W, true))
	require.NoError(t, InputProcessKey(KEY_W, true))
	assert.Equal(t, 1, pressed)
	assert.True(t, InputIsKeyDown(KEY_W))
	assert.False(t, InputWasKeyDown(KEY_W))

	require.NoError(t, InputUpdate(0.016))
	assert.True(t, InputWasKeyDown(KEY_W))
}

func TestMetricsAveragesFrameTime(t *testing.T) {
	MetricsReset()
	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsUpdate(0.010, 7)
	}
	fps, ms, calls := MetricsFrame()
	assert.InDelta(t, 10.0, ms, 1e-9)
	assert.Equal(t, uint32(7), calls)
	assert.Zero(t, fps)

	for i := 0; i < 100; i++ {
		MetricsUpdate(0.010, 7)
	}
	fps, _, _ = MetricsFrame()
	assert.Equal(t, float64(100), fps)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLogLevel("loud")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestClockMeasuresElapsed(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())
	c.Start()
	c.Update()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.0)
	c.Stop()
}
