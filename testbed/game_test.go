package testbed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
	"github.com/spaghettifunk/flatland/engine/renderer/rendertest"
	"github.com/spaghettifunk/flatland/engine/systems"
)

func newTestbed(t *testing.T, cfg *config.Config) (*TestGame, *rendertest.Recorder) {
	t.Helper()
	rec := rendertest.New(256)
	sm, err := systems.NewSystemManager(rec, nil, cfg)
	require.NoError(t, err)
	require.NoError(t, sm.Initialize())
	t.Cleanup(func() { _ = sm.Shutdown() })

	tg, err := NewTestGame(cfg)
	require.NoError(t, err)
	tg.SystemManager = sm
	require.NoError(t, tg.Initialize())
	require.NoError(t, tg.OnResize(cfg.Window.Width, cfg.Window.Height))
	return tg, rec
}

func TestTestbedFallsBackToSolidTextures(t *testing.T) {
	tg, rec := newTestbed(t, config.Default())
	for _, src := range textureSources {
		assert.True(t, tg.SystemManager.TextureSystem.Exists(src.name), src.name)
		assert.Equal(t, 1, rec.Uploads(src.name))
	}
}

func TestTestbedRenderFrame(t *testing.T) {
	tg, rec := newTestbed(t, config.Default())
	rs := tg.SystemManager.RendererSystem

	rs.BeginFrame()
	require.NoError(t, tg.Update(0.016))
	require.NoError(t, tg.Render(0.016))

	// player plus three enemies
	assert.Equal(t, 4, rs.Pending(metadata.PrimitiveKindQuad))
	// two player lines, one per enemy and two outlines of four edges
	assert.Equal(t, 13, rs.Pending(metadata.PrimitiveKindLine))
	assert.Equal(t, 1, rs.Pending(metadata.PrimitiveKindCircle))

	require.NoError(t, rs.DrawFrame())
	rs.EndFrame()
	assert.Equal(t, 1, rec.Presented)
	assert.Len(t, rec.DrawCalls, 18)
}

func TestTestbedDropsOverflow(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.MaxLines = 6
	tg, _ := newTestbed(t, cfg)
	rs := tg.SystemManager.RendererSystem

	rs.BeginFrame()
	defer rs.EndFrame()
	require.NoError(t, tg.Render(0))
	assert.Equal(t, 5, rs.Pending(metadata.PrimitiveKindLine))
	// both outlines were turned away
	assert.Equal(t, 2, tg.State.(*gameState).dropped)
}

func TestTestbedMovesPlayer(t *testing.T) {
	require.NoError(t, core.InputInitialize())
	t.Cleanup(func() { _ = core.InputShutdown() })

	tg, _ := newTestbed(t, config.Default())
	state := tg.State.(*gameState)
	start := state.player.position

	require.NoError(t, core.InputProcessKey(core.KEY_D, true))
	require.NoError(t, core.InputProcessKey(core.KEY_W, true))
	require.NoError(t, tg.Update(0.016))

	assert.InDelta(t, start.X+state.player.speed, state.player.position.X, 1e-4)
	assert.InDelta(t, start.Y+state.player.speed, state.player.position.Y, 1e-4)
}

func TestRotateAround(t *testing.T) {
	p := rotateAround(math.NewVec3(2, 1, 0), math.NewVec3(1, 1, 0), math.DegToRad(90))
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 2, p.Y, 1e-5)
}

func TestRespawnStaysInsideWindow(t *testing.T) {
	state := newGameState()
	state.width, state.height = 800, 600
	state.enemies[0].health = 0

	state.respawn()
	for _, e := range state.enemies {
		assert.Equal(t, 100, e.health)
		assert.GreaterOrEqual(t, e.position.X, e.scale.X/2)
		assert.LessOrEqual(t, e.position.X, 800-e.scale.X/2)
		assert.GreaterOrEqual(t, e.position.Y, e.scale.Y/2)
		assert.LessOrEqual(t, e.position.Y, 600-e.scale.Y/2)
	}
}
