package engine

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errNoAssetFS = errors.New("no asset filesystem configured")

type assetState struct {
	img image.Image
	err error
}

// Asset is an image that may still be loading. Readers poll Image each
// frame; the loader publishes the result once, atomically.
type Asset struct {
	src   string
	state atomic.Pointer[assetState]
}

// Source returns the identifier the asset was requested with.
func (a *Asset) Source() string { return a.src }

// Loaded reports whether the image is ready.
func (a *Asset) Loaded() bool {
	st := a.state.Load()
	return st != nil && st.img != nil
}

// Image returns the decoded image, or nil while loading or after a failure.
func (a *Asset) Image() image.Image {
	if st := a.state.Load(); st != nil {
		return st.img
	}
	return nil
}

// Err returns the load error, if any.
func (a *Asset) Err() error {
	if st := a.state.Load(); st != nil {
		return st.err
	}
	return nil
}

// AssetCache shares loaded images by source identifier. Each source is
// loaded once, in the background; repeated requests get the same Asset.
type AssetCache struct {
	fsys   fs.FS
	logger *log.Logger

	mu     sync.Mutex
	assets map[string]*Asset
	wg     sync.WaitGroup
}

// NewAssetCache creates a cache reading from fsys. fsys may be nil when
// every image is registered with Put.
func NewAssetCache(fsys fs.FS, logger *log.Logger) *AssetCache {
	return &AssetCache{fsys: fsys, logger: logger, assets: make(map[string]*Asset)}
}

// Request returns the asset for src, starting a load on first request.
func (c *AssetCache) Request(src string) *Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.assets[src]; ok {
		return a
	}
	a := &Asset{src: src}
	c.assets[src] = a
	c.wg.Add(1)
	go c.load(a)
	return a
}

// Put registers an already decoded image under src, replacing any
// previous or pending load.
func (c *AssetCache) Put(src string, img image.Image) *Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assets[src]
	if !ok {
		a = &Asset{src: src}
		c.assets[src] = a
	}
	a.state.Store(&assetState{img: img})
	return a
}

// Len returns the number of distinct sources known to the cache.
func (c *AssetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.assets)
}

// Wait blocks until every pending load has finished.
func (c *AssetCache) Wait() {
	c.wg.Wait()
}

func (c *AssetCache) load(a *Asset) {
	defer c.wg.Done()
	img, err := c.decode(a.src)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("asset load failed", "src", a.src, "err", err)
		}
		a.state.CompareAndSwap(nil, &assetState{err: err})
		return
	}
	// A Put that raced ahead of the load wins.
	a.state.CompareAndSwap(nil, &assetState{img: img})
}

func (c *AssetCache) decode(src string) (image.Image, error) {
	if c.fsys == nil {
		return nil, errNoAssetFS
	}
	f, err := c.fsys.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}
