package engine

import (
	"github.com/spaghettifunk/flatland/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// SystemManager is set by the engine before FnInitialize runs.
	SystemManager *systems.SystemManager
	State         interface{}
	FnInitialize  Initialize
	FnUpdate      Update
	FnRender      Render
	FnOnResize    OnResize
	FnShutdown    Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render submits the frame's primitives. The engine uploads and draws them
// once it returns.
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
