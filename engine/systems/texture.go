package systems

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/flatland/engine/assets"
	"github.com/spaghettifunk/flatland/engine/assets/loaders"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

// TextureSystem owns every texture the renderer can sample. Entries are
// created once and live until Shutdown. Registration may happen from any
// goroutine; a single lock serializes the table and the GPU uploads.
type TextureSystem struct {
	mu sync.Mutex
	// Hashtable for texture lookups.
	registered map[string]*metadata.Texture
	// asset each texture was loaded from, by texture name
	sources        map[string]string
	defaultTexture *metadata.Texture
	sampler        metadata.SamplerConfig
	// sub systems
	backend      renderer.RendererBackend
	assetManager *assets.AssetManager
}

func NewTextureSystem(backend renderer.RendererBackend, am *assets.AssetManager) (*TextureSystem, error) {
	if backend == nil {
		return nil, fmt.Errorf("func NewTextureSystem - backend must not be nil")
	}
	return &TextureSystem{
		registered:   make(map[string]*metadata.Texture),
		sources:      make(map[string]string),
		sampler:      metadata.DefaultSamplerConfig,
		backend:      backend,
		assetManager: am,
	}, nil
}

// Initialize creates the 1x1 white fallback texture.
func (ts *TextureSystem) Initialize() error {
	if err := ts.RegisterSolid(metadata.DEFAULT_TEXTURE_NAME, [4]uint8{255, 255, 255, 255}); err != nil {
		return err
	}
	ts.mu.Lock()
	ts.defaultTexture = ts.registered[metadata.DEFAULT_TEXTURE_NAME]
	ts.mu.Unlock()
	core.LogInfo("Texture system initialized.")
	return nil
}

func (ts *TextureSystem) Shutdown() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for name, t := range ts.registered {
		ts.backend.TextureDestroy(t)
		delete(ts.registered, name)
	}
	clear(ts.sources)
	ts.defaultTexture = nil
	return nil
}

// Register decodes raw image bytes and uploads them under name. Registering
// a name that already exists does nothing.
func (ts *TextureSystem) Register(name string, raw []byte) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, ok := ts.registered[name]; ok {
		return nil
	}
	img, err := loaders.DecodeImage(raw)
	if err != nil {
		return fmt.Errorf("texture %q: %w", name, err)
	}
	return ts.create(name, img.Width, img.Height, img.Pixels)
}

// RegisterAsset loads the image asset (relative path or base name) through
// the asset manager and registers it under name.
func (ts *TextureSystem) RegisterAsset(name, asset string) error {
	if ts.Exists(name) {
		return nil
	}
	if ts.assetManager == nil {
		return fmt.Errorf("texture %q: %w: no asset manager", name, core.ErrAssetNotFound)
	}
	res, err := ts.assetManager.LoadAsset(asset, metadata.ResourceTypeImage, nil)
	if err != nil {
		return fmt.Errorf("texture %q: %w", name, err)
	}
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return fmt.Errorf("texture %q: %w", name, core.ErrInvalidTexture)
	}
	if err := ts.RegisterPixels(name, img.Width, img.Height, img.Pixels); err != nil {
		return err
	}
	if info, ok := ts.assetManager.Lookup(asset); ok {
		ts.mu.Lock()
		ts.sources[name] = info.Name
		ts.mu.Unlock()
	}
	return nil
}

// ReloadAsset uploads the current contents of asset again into every
// texture that was registered from it and returns how many were refreshed.
// It must run on the thread that records frames.
func (ts *TextureSystem) ReloadAsset(asset string) (int, error) {
	ts.mu.Lock()
	var names []string
	for name, src := range ts.sources {
		if src == asset {
			names = append(names, name)
		}
	}
	ts.mu.Unlock()
	if len(names) == 0 {
		return 0, nil
	}

	res, err := ts.assetManager.LoadAsset(asset, metadata.ResourceTypeImage, nil)
	if err != nil {
		return 0, err
	}
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return 0, fmt.Errorf("asset %q: %w", asset, core.ErrInvalidTexture)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	sort.Strings(names)
	for i, name := range names {
		t, ok := ts.registered[name]
		if !ok {
			continue
		}
		// upload into a copy so a failed upload keeps the old size and data
		next := *t
		next.Width = img.Width
		next.Height = img.Height
		if err := ts.backend.TextureCreate(img.Pixels, &next, ts.sampler); err != nil {
			return i, fmt.Errorf("texture %q: %w", name, err)
		}
		*t = next
		core.LogInfo("texture '%s' reloaded from %s (generation %d)", name, asset, t.Generation)
	}
	return len(names), nil
}

// RegisterPixels uploads already decoded RGBA pixels under name.
func (ts *TextureSystem) RegisterPixels(name string, width, height uint32, pixels []uint8) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if _, ok := ts.registered[name]; ok {
		return nil
	}
	return ts.create(name, width, height, pixels)
}

// RegisterSolid registers a 1x1 texture of the given color.
func (ts *TextureSystem) RegisterSolid(name string, rgba [4]uint8) error {
	return ts.RegisterPixels(name, 1, 1, rgba[:])
}

func (ts *TextureSystem) create(name string, width, height uint32, pixels []uint8) error {
	if width == 0 || height == 0 || uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		return fmt.Errorf("texture %q: %w: %dx%d with %d bytes", name, core.ErrInvalidTexture, width, height, len(pixels))
	}
	t := &metadata.Texture{
		ID:     uuid.New(),
		Name:   name,
		Width:  width,
		Height: height,
	}
	if err := ts.backend.TextureCreate(pixels, t, ts.sampler); err != nil {
		return fmt.Errorf("texture %q: %w", name, err)
	}
	ts.registered[name] = t
	core.LogDebug("texture '%s' registered (%dx%d, id=%s)", name, width, height, t.ID)
	return nil
}

// Lookup returns the texture registered under name.
func (ts *TextureSystem) Lookup(name string) (*metadata.Texture, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.registered[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownTexture, name)
	}
	return t, nil
}

// Resolve is Lookup except that an empty name yields the default texture.
func (ts *TextureSystem) Resolve(name string) (*metadata.Texture, error) {
	if name == "" {
		if d := ts.GetDefaultTexture(); d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("%w: default texture not initialized", core.ErrUnknownTexture)
	}
	return ts.Lookup(name)
}

func (ts *TextureSystem) GetDefaultTexture() *metadata.Texture {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.defaultTexture
}

func (ts *TextureSystem) Exists(name string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.registered[name]
	return ok
}

// Names returns the registered texture names, sorted.
func (ts *TextureSystem) Names() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, 0, len(ts.registered))
	for k := range ts.registered {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
