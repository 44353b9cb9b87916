package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/flatland/engine/assets/loaders"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/renderer/metadata"
)

type AssetInfo struct {
	// Name is the slash separated path relative to the asset root.
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
	ModTime    time.Time
}

// FnOnAssetChanged is called from the watcher goroutine when an indexed file is written.
type FnOnAssetChanged func(info AssetInfo)

type AssetManager struct {
	root     string
	assets   map[string]AssetInfo
	aliases  map[string]string
	loaders  map[metadata.ResourceType]Loader
	onChange []FnOnAssetChanged

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		aliases:  make(map[string]string),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	return am, nil
}

// Initialize indexes every known asset under assetsDir and keeps the index
// current while the engine runs. A missing directory leaves the index empty.
func (am *AssetManager) Initialize(assetsDir string) error {
	abs, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = abs

	go am.start()

	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("asset directory %s does not exist, asset index is empty", abs)
		return nil
	}
	if err := am.addRecursive(abs); err != nil {
		return err
	}
	core.LogInfo("asset manager indexed %d assets from %s", am.Count(), abs)
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	if am.root != "" {
		<-am.stopped
	} else {
		am.fsnotify.Close()
	}
	return nil
}

// OnChange registers a callback for modified assets.
func (am *AssetManager) OnChange(fn FnOnAssetChanged) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.onChange = append(am.onChange, fn)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Lookup resolves an asset by its relative path ("textures/tree.png") or by
// its base name without extension ("tree").
func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	key := filepath.ToSlash(name)
	if info, ok := am.assets[key]; ok {
		return info, true
	}
	if full, ok := am.aliases[key]; ok {
		info, ok := am.assets[full]
		return info, ok
	}
	return AssetInfo{}, false
}

// Count returns the number of indexed assets.
func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Names returns the indexed asset names, sorted.
func (am *AssetManager) Names() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]string, 0, len(am.assets))
	for k := range am.assets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	asset, exists := am.Lookup(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
	}
	if asset.Type != resourceType {
		return nil, fmt.Errorf("asset %s has type %d, requested %d", name, asset.Type, resourceType)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}

	res, err := loader.Load(asset.Path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset.LastLoaded = time.Now()
	am.assets[asset.Name] = asset
	am.mutex.Unlock()

	return res, nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			if e.Op&fsnotify.Create != 0 {
				am.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Write != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					am.notify(info)
				}
			}
			// Can't stat a deleted path, so just drop it from the index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notify(info AssetInfo) {
	am.mutex.RLock()
	listeners := append([]FnOnAssetChanged(nil), am.onChange...)
	am.mutex.RUnlock()
	core.LogDebug("asset %s changed", info.Name)
	for _, fn := range listeners {
		fn(info)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}
	name, err := filepath.Rel(am.root, path)
	if err != nil {
		return AssetInfo{}, false
	}
	name = filepath.ToSlash(name)

	info := AssetInfo{
		Name: name,
		Path: path,
		Type: assetType,
	}
	if fi, err := os.Stat(path); err == nil {
		info.ModTime = fi.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.assets[name]; ok {
		info.LastLoaded = prev.LastLoaded
	}
	am.assets[name] = info
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if _, taken := am.aliases[base]; !taken {
		am.aliases[base] = name
	}
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	name, err := filepath.Rel(am.root, path)
	if err != nil {
		return
	}
	name = filepath.ToSlash(name)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, name)
	for alias, target := range am.aliases {
		if target == name {
			delete(am.aliases, alias)
		}
	}
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".toml":
		return metadata.ResourceTypeConfig
	default:
		return metadata.ResourceTypeNone
	}
}
