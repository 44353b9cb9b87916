package systems

import (
	"github.com/spaghettifunk/flatland/engine/assets"
	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/math"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

type SystemManager struct {
	TextureSystem  *TextureSystem
	RendererSystem *RendererSystem
}

func NewSystemManager(backend renderer.RendererBackend, am *assets.AssetManager, cfg *config.Config) (*SystemManager, error) {
	ts, err := NewTextureSystem(backend, am)
	if err != nil {
		return nil, err
	}
	cc := cfg.Renderer.ClearColor
	rs, err := NewRendererSystem(backend, ts, &RendererSystemConfig{
		AppName:     cfg.Window.Name,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		VSync:       cfg.Renderer.VSync,
		ClearColour: math.NewVec4Create(cc[0], cc[1], cc[2], cc[3]),
		MaxInstances: map[metadata.PrimitiveKind]uint32{
			metadata.PrimitiveKindQuad:   cfg.Renderer.MaxQuads,
			metadata.PrimitiveKindLine:   cfg.Renderer.MaxLines,
			metadata.PrimitiveKindCircle: cfg.Renderer.MaxCircles,
		},
	})
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		TextureSystem:  ts,
		RendererSystem: rs,
	}, nil
}

// Initialize brings the backend up before any texture is created.
func (sm *SystemManager) Initialize() error {
	if err := sm.RendererSystem.Initialize(); err != nil {
		return err
	}
	return sm.TextureSystem.Initialize()
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	return sm.RendererSystem.Shutdown()
}
