package texture

import (
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/teenygame/spright/common"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache map[string]*Texture

	workers int
	pool    worker.DynamicWorkerPool

	textureOptions []TextureBuilderOption
}

// Loader loads image files into textures and caches them by path. Decoding
// runs on a bounded worker pool so a large asset set spreads across cores;
// GPU uploads always happen on the calling goroutine, which must be the one
// that owns the queue.
type Loader interface {
	// Load returns the cached texture for path, decoding and uploading it
	// first if needed.
	//
	// Parameters:
	//   - device: the device to allocate textures from
	//   - queue: the queue used for pixel uploads
	//   - path: the image file to load
	//
	// Returns:
	//   - *Texture: the cached or newly uploaded texture
	//   - error: error if decoding or upload fails
	Load(device *wgpu.Device, queue *wgpu.Queue, path string) (*Texture, error)

	// LoadAll loads every path, decoding uncached files in parallel on the
	// worker pool and uploading them in order on the calling goroutine. On
	// error the textures uploaded so far stay cached, so a retry after
	// fixing the failing file does not repeat their work.
	//
	// Parameters:
	//   - device: the device to allocate textures from
	//   - queue: the queue used for pixel uploads
	//   - paths: the image files to load
	//
	// Returns:
	//   - map[string]*Texture: every requested texture keyed by path
	//   - error: the first decode or upload error
	LoadAll(device *wgpu.Device, queue *wgpu.Queue, paths []string) (map[string]*Texture, error)

	// ReleaseAll releases every cached texture and empties the cache. Only
	// call it once no submitted frame samples the cached textures anymore.
	ReleaseAll()
}

var _ Loader = &loader{}

// NewLoader creates a texture loader with an empty cache. The decode pool
// sizes itself to the machine by default; workers idle out after a second so
// an idle loader holds no goroutines.
//
// Parameters:
//   - options: optional configuration, see LoaderBuilderOption
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache: make(map[string]*Texture),
	}
	for _, option := range options {
		option(l)
	}
	l.workers = common.Coalesce(l.workers, max(runtime.NumCPU()-1, 1))
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loader) Load(device *wgpu.Device, queue *wgpu.Queue, path string) (*Texture, error) {
	l.mu.RLock()
	if cached, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	tex, err := LoadFile(device, queue, path, l.textureOptions...)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if cached, ok := l.cache[path]; ok {
		// Lost a race against another Load of the same path; keep the first.
		l.mu.Unlock()
		tex.Release()
		return cached, nil
	}
	l.cache[path] = tex
	l.mu.Unlock()
	return tex, nil
}

func (l *loader) LoadAll(device *wgpu.Device, queue *wgpu.Queue, paths []string) (map[string]*Texture, error) {
	decoded := make([]image.Image, len(paths))
	decodeErrs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		l.mu.RLock()
		_, ok := l.cache[path]
		l.mu.RUnlock()
		if ok {
			continue
		}

		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				decoded[idx], decodeErrs[idx] = decodeFile(p)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i := range paths {
		if decodeErrs[i] != nil {
			return nil, decodeErrs[i]
		}
	}

	out := make(map[string]*Texture, len(paths))
	for i, path := range paths {
		l.mu.RLock()
		cached, ok := l.cache[path]
		l.mu.RUnlock()
		if ok {
			out[path] = cached
			continue
		}

		opts := append([]TextureBuilderOption{WithLabel(path)}, l.textureOptions...)
		tex, err := FromImage(device, queue, decoded[i], opts...)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[path] = tex
		l.mu.Unlock()
		out[path] = tex
	}
	return out, nil
}

func (l *loader) ReleaseAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tex := range l.cache {
		tex.Release()
	}
	clear(l.cache)
}
