package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/flatland/engine/assets"
	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/containers"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/platform"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
	"github.com/spaghettifunk/flatland/engine/renderer/webgpu"
	"github.com/spaghettifunk/flatland/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// reloadQueueSize bounds the asset changes waiting for the next frame.
const reloadQueueSize = 64

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *config.Config
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      float64

	// logical window size, what the game and the projection see
	width  uint32
	height uint32

	// drawable size in pixels
	framebufferWidth  uint32
	framebufferHeight uint32

	// asset names written on disk, filled by the watcher and drained on the frame thread
	reloads      *containers.RingQueue[string]
	shutdownOnce sync.Once
}

func New(g *Game, cfg *config.Config) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		return nil, err
	}
	return newEngine(g, cfg, p, webgpu.New(p))
}

func newEngine(g *Game, cfg *config.Config, p *platform.Platform, backend renderer.RendererBackend) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("func New - game must not be nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = NewApplicationConfig(cfg)
	}
	// the game's window settings win over the file
	cfg.Window.Name = g.ApplicationConfig.Name
	cfg.Window.X = g.ApplicationConfig.StartPosX
	cfg.Window.Y = g.ApplicationConfig.StartPosY
	cfg.Window.Width = g.ApplicationConfig.StartWidth
	cfg.Window.Height = g.ApplicationConfig.StartHeight
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(backend, am, cfg)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage:      EngineStageBootComplete,
		gameInstance:      g,
		config:            cfg,
		clock:             core.NewClock(),
		platform:          p,
		assetManager:      am,
		systemManager:     sm,
		isSuspended:       false,
		width:             g.ApplicationConfig.StartWidth,
		height:            g.ApplicationConfig.StartHeight,
		framebufferWidth:  g.ApplicationConfig.StartWidth,
		framebufferHeight: g.ApplicationConfig.StartHeight,
		lastTime:          0,
		reloads:           containers.NewRingQueue[string](reloadQueueSize),
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := e.initializeCore(); err != nil {
		return err
	}

	app := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		return err
	}
	if w, h := e.platform.WindowSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}
	// HiDPI displays hand out more pixels than the window size
	if w, h := e.platform.FramebufferSize(); w > 0 && h > 0 {
		e.framebufferWidth, e.framebufferHeight = w, h
	}

	if err := e.initializeSystems(); err != nil {
		return err
	}
	if e.width != app.StartWidth || e.height != app.StartHeight ||
		e.framebufferWidth != e.width || e.framebufferHeight != e.height {
		rs := e.systemManager.RendererSystem
		if err := rs.Resize(e.width, e.height, e.framebufferWidth, e.framebufferHeight); err != nil {
			return err
		}
	}
	return e.initializeGame()
}

func (e *Engine) initializeCore() error {
	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	return nil
}

func (e *Engine) initializeSystems() error {
	if err := e.assetManager.Initialize(e.config.Assets.Dir); err != nil {
		return err
	}
	e.assetManager.OnChange(e.onAssetChanged)

	if err := e.systemManager.Initialize(); err != nil {
		return err
	}
	e.gameInstance.SystemManager = e.systemManager
	return nil
}

func (e *Engine) initializeGame() error {
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	core.MetricsReset()

	var lastReport float64 = e.lastTime
	var reportSeconds float64 = 5.0

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			// nothing to draw into, give the time back to the OS
			e.platform.Sleep(16)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = e.platform.GetAbsoluteTime()

		if err := e.frame(delta); err != nil {
			core.LogError("Frame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		// Figure out how long the frame took.
		var frameElapsedTime float64 = e.platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsedTime, e.systemManager.RendererSystem.DrawCalls())
		if currentTime-lastReport >= reportSeconds {
			fps, ms, calls := core.MetricsFrame()
			core.LogDebug("FPS: %.0f, frame: %.3fms, draw calls: %d", fps, ms, calls)
			lastReport = currentTime
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		core.InputUpdate(delta)

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// frame runs one accumulate, upload, draw and clear cycle.
func (e *Engine) frame(delta float64) error {
	e.processReloads()

	rs := e.systemManager.RendererSystem
	rs.BeginFrame()
	defer rs.EndFrame()

	if err := e.gameInstance.FnUpdate(delta); err != nil {
		return fmt.Errorf("game update failed: %w", err)
	}
	if err := e.gameInstance.FnRender(delta); err != nil {
		return fmt.Errorf("game render failed: %w", err)
	}
	return rs.DrawFrame()
}

// Stop makes Run return after the current frame. Safe from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) IsRunning() bool {
	return e.isRunning.Load()
}

func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.currentStage = EngineStageShuttingDown
		e.isRunning.Store(false)
		e.clock.Stop()
		if e.gameInstance.FnShutdown != nil {
			err = errors.Join(err, e.gameInstance.FnShutdown())
		}
		err = errors.Join(err,
			core.EventSystemShutdown(),
			core.InputShutdown(),
			e.systemManager.Shutdown(),
			e.assetManager.Shutdown(),
		)
		if e.platform != nil {
			err = errors.Join(err, e.platform.Shutdown())
		}
		e.currentStage = EngineStageUninitialized
	})
	return err
}

// GetWindowSize returns the logical width and height (in this order)
// of the application window
func (e *Engine) GetWindowSize() (uint32, uint32) {
	return e.width, e.height
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.framebufferWidth, e.framebufferHeight
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
			e.isRunning.Store(false)
		}
	}
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	}
}

func (e *Engine) onResized(context core.EventContext) {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight
	fbWidth, fbHeight := se.Framebuffer()

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height && fbWidth == e.framebufferWidth && fbHeight == e.framebufferHeight {
		return
	}
	e.width = width
	e.height = height
	e.framebufferWidth = fbWidth
	e.framebufferHeight = fbHeight
	core.LogDebug("Window resize: %d, %d (framebuffer %d, %d)", width, height, fbWidth, fbHeight)

	if err := e.systemManager.RendererSystem.Resize(width, height, fbWidth, fbHeight); err != nil {
		core.LogError(err.Error())
	}

	// Handle minimization
	if width == 0 || height == 0 || fbWidth == 0 || fbHeight == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
}

// onAssetChanged runs on the watcher goroutine; the upload waits for the frame thread.
func (e *Engine) onAssetChanged(info assets.AssetInfo) {
	if info.Type != metadata.ResourceTypeImage {
		return
	}
	if err := e.reloads.Enqueue(info.Name); err != nil {
		core.LogWarn("asset reload queue full, dropping %s", info.Name)
	}
}

func (e *Engine) processReloads() {
	for {
		name, err := e.reloads.Dequeue()
		if err != nil {
			return
		}
		if _, err := e.systemManager.TextureSystem.ReloadAsset(name); err != nil {
			core.LogWarn("failed to reload %s: %s", name, err)
		}
	}
}
