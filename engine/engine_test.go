package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/assets"
	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
	"github.com/spaghettifunk/flatland/engine/renderer/rendertest"
)

type recordingGame struct {
	updates  int
	renders  int
	resizes  [][2]uint32
	failWith error
}

func newHeadlessEngine(t *testing.T, rg *recordingGame) (*Engine, *rendertest.Recorder) {
	t.Helper()
	g := &Game{}
	g.FnInitialize = func() error { return nil }
	g.FnUpdate = func(float64) error {
		rg.updates++
		return nil
	}
	g.FnRender = func(float64) error {
		rg.renders++
		if rg.failWith != nil {
			return rg.failWith
		}
		return g.SystemManager.RendererSystem.SubmitQuad(math.NewVec3(400, 300, 0), math.NewVec3(50, 50, 1), 0, math.NewVec4Create(1, 1, 1, 1), "")
	}
	g.FnOnResize = func(w, h uint32) error {
		rg.resizes = append(rg.resizes, [2]uint32{w, h})
		return nil
	}

	cfg := config.Default()
	cfg.Assets.Dir = t.TempDir()
	rec := rendertest.New(256)
	e, err := newEngine(g, cfg, nil, rec)
	require.NoError(t, err)

	require.NoError(t, e.initializeCore())
	require.NoError(t, e.initializeSystems())
	require.NoError(t, e.initializeGame())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, rec
}

func TestEngineFrame(t *testing.T) {
	rg := &recordingGame{}
	e, rec := newHeadlessEngine(t, rg)
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, [][2]uint32{{800, 600}}, rg.resizes)

	require.NoError(t, e.frame(0.016))
	assert.Equal(t, 1, rg.updates)
	assert.Equal(t, 1, rg.renders)
	assert.Equal(t, 1, rec.Presented)
	require.Len(t, rec.DrawCalls, 1)
	assert.Equal(t, metadata.PrimitiveKindQuad, rec.DrawCalls[0].Kind)

	// the accumulator is empty again once the frame is over
	assert.Zero(t, e.systemManager.RendererSystem.Pending(metadata.PrimitiveKindQuad))
}

func TestEngineFrameErrorStopsRendering(t *testing.T) {
	boom := errors.New("boom")
	rg := &recordingGame{failWith: boom}
	e, rec := newHeadlessEngine(t, rg)

	err := e.frame(0.016)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, rec.Presented)
}

func TestEngineEscapeQuits(t *testing.T) {
	e, _ := newHeadlessEngine(t, &recordingGame{})
	require.True(t, e.IsRunning())

	require.NoError(t, core.InputProcessKey(core.KEY_ESCAPE, true))
	assert.False(t, e.IsRunning())
}

func TestEngineResize(t *testing.T) {
	rg := &recordingGame{}
	e, rec := newHeadlessEngine(t, rg)

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{WindowWidth: 1024, WindowHeight: 768}})
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(1024), w)
	assert.Equal(t, uint32(768), h)
	assert.Equal(t, uint32(1024), rec.Width)
	assert.Equal(t, [2]uint32{1024, 768}, rg.resizes[len(rg.resizes)-1])

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{}})
	assert.True(t, e.isSuspended)

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{WindowWidth: 640, WindowHeight: 480}})
	assert.False(t, e.isSuspended)
}

func TestEngineQueuesImageReloads(t *testing.T) {
	e, _ := newHeadlessEngine(t, &recordingGame{})

	e.onAssetChanged(assets.AssetInfo{Name: "flatland.toml", Type: metadata.ResourceTypeConfig})
	e.onAssetChanged(assets.AssetInfo{Name: "enemy.png", Type: metadata.ResourceTypeImage})
	require.Equal(t, 1, e.reloads.Len())

	e.processReloads()
	assert.True(t, e.reloads.IsEmpty())
}

func TestNewApplicationConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	app := NewApplicationConfig(cfg)
	assert.Equal(t, "Flatland", app.Name)
	assert.Equal(t, uint32(800), app.StartWidth)
	assert.Equal(t, core.DebugLevel, app.LogLevel)
}

func TestEngineResizeKeepsLogicalUnitsOnHiDPI(t *testing.T) {
	rg := &recordingGame{}
	e, rec := newHeadlessEngine(t, rg)

	core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{
		WindowWidth:       800,
		WindowHeight:      600,
		FramebufferWidth:  1600,
		FramebufferHeight: 1200,
	}})

	w, h := e.GetWindowSize()
	assert.Equal(t, [2]uint32{800, 600}, [2]uint32{w, h})
	fw, fh := e.GetFramebufferSize()
	assert.Equal(t, [2]uint32{1600, 1200}, [2]uint32{fw, fh})
	assert.Equal(t, uint32(1600), rec.Width)
	assert.Equal(t, uint32(1200), rec.Height)
	assert.Equal(t, [2]uint32{800, 600}, rg.resizes[len(rg.resizes)-1])

	// the middle of the window stays the middle of clip space
	center := math.NewVec3(400, 300, 0).Transform(e.systemManager.RendererSystem.Projection())
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)
}
