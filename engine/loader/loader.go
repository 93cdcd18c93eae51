// Package loader reads models, skeletons, animations and textures from disk and caches
// them by path.
package loader

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned for files whose extension no backend reads.
var ErrUnsupportedFormat = errors.New("loader: unsupported format")

// clipSeparator splits an animation path from the clip name, e.g. "fox.glb#Walk".
const clipSeparator = "#"

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	root    string
	workers int
	debug   bool

	backends map[string]loaderBackend

	models     map[string]*model.Model
	skeletons  map[string]*animation.Skeleton
	animations map[string][]*animation.Frame
	textures   map[string]common.TextureData
}

// Loader reads asset files and caches every result by the path it was requested with.
// The backend is selected by file extension: .smd for Valve SMD, .gltf and .glb for glTF.
// All methods are safe for concurrent use.
type Loader interface {
	// LoadModel reads the meshes of a model file.
	//
	// Parameters:
	//   - path: the model file, relative to the loader root unless absolute
	//
	// Returns:
	//   - *model.Model: the model
	//   - error: error if the file is missing, corrupt or of an unknown format
	LoadModel(path string) (*model.Model, error)

	// LoadModelReader reads the meshes of a model stream and caches it by name.
	// The extension of name selects the backend.
	//
	// Parameters:
	//   - name: the cache key and format hint, e.g. "crate.glb"
	//   - r: the model data
	//
	// Returns:
	//   - *model.Model: the model
	//   - error: error if the data is corrupt or of an unknown format
	LoadModelReader(name string, r io.Reader) (*model.Model, error)

	// LoadSkeleton reads the bone hierarchy and rest pose of a file.
	//
	// Parameters:
	//   - path: the file, relative to the loader root unless absolute
	//
	// Returns:
	//   - *animation.Skeleton: the skeleton
	//   - error: error if the file is missing, corrupt or has no skeleton
	LoadSkeleton(path string) (*animation.Skeleton, error)

	// LoadAnimation reads the key frames of an animation. A "#name" suffix selects a clip
	// of a file holding several; without it the first clip is read.
	//
	// Parameters:
	//   - path: the file, relative to the loader root unless absolute
	//
	// Returns:
	//   - []*animation.Frame: the frames at animation.FrameRate
	//   - error: error if the file is missing, corrupt or has no such animation
	LoadAnimation(path string) ([]*animation.Frame, error)

	// LoadTexture decodes a PNG or JPEG image into bottom-up RGBA pixels.
	//
	// Parameters:
	//   - path: the image, relative to the loader root unless absolute
	//
	// Returns:
	//   - common.TextureData: the pixels
	//   - error: error if the image is missing or corrupt
	LoadTexture(path string) (common.TextureData, error)

	// LoadAll reads models and textures in parallel on a worker pool and waits for all
	// of them. Each path is loaded as a texture if its extension is an image format,
	// as a model otherwise.
	//
	// Parameters:
	//   - paths: the files to load
	//
	// Returns:
	//   - error: the first failure, annotated with the failure count
	LoadAll(paths ...string) error

	// Get retrieves a cached model. Returns nil if not loaded.
	//
	// Parameters:
	//   - path: the path the model was loaded with
	//
	// Returns:
	//   - *model.Model: the cached model or nil
	Get(path string) *model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]*model.Model: all cached models keyed by path
	Models() map[string]*model.Model
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the SMD and glTF backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:    defaultWorkers,
		models:     make(map[string]*model.Model),
		skeletons:  make(map[string]*animation.Skeleton),
		animations: make(map[string][]*animation.Frame),
		textures:   make(map[string]common.TextureData),
	}
	gltfBackend := newGLTFLoaderBackend()
	l.backends = map[string]loaderBackend{
		".smd":  newSMDLoaderBackend(),
		".gltf": gltfBackend,
		".glb":  gltfBackend,
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadModel(path string) (*model.Model, error) {
	return load(l, l.models, path, func(b loaderBackend, src source) (*model.Model, error) {
		return b.Model(src)
	})
}

func (l *loader) LoadModelReader(name string, r io.Reader) (*model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.models[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	b, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}
	m, err := b.Model(source{name: modelName(name), r: r})
	if err != nil {
		return nil, errors.Wrapf(err, "loader: %s", name)
	}

	l.mu.Lock()
	l.models[name] = m
	l.mu.Unlock()
	return m, nil
}

func (l *loader) LoadSkeleton(path string) (*animation.Skeleton, error) {
	return load(l, l.skeletons, path, func(b loaderBackend, src source) (*animation.Skeleton, error) {
		return b.Skeleton(src)
	})
}

func (l *loader) LoadAnimation(path string) ([]*animation.Frame, error) {
	file, clip, _ := strings.Cut(path, clipSeparator)
	l.mu.RLock()
	if cached, ok := l.animations[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	frames, err := load(l, nil, file, func(b loaderBackend, src source) ([]*animation.Frame, error) {
		return b.Frames(src, clip)
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.animations[path] = frames
	l.mu.Unlock()
	return frames, nil
}

func (l *loader) LoadTexture(path string) (common.TextureData, error) {
	l.mu.RLock()
	if cached, ok := l.textures[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	tex, err := common.DecodeTextureFile(l.resolve(path))
	if err != nil {
		return common.TextureData{}, errors.Wrap(err, "loader")
	}
	if l.debug {
		log.Printf("loader: texture %s is %dx%d", path, tex.Width, tex.Height)
	}

	l.mu.Lock()
	l.textures[path] = tex
	l.mu.Unlock()
	return tex, nil
}

func (l *loader) LoadAll(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	pool := worker.NewDynamicWorkerPool(l.workers, len(paths), time.Second)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		first  error
		failed int
	)
	for i, path := range paths {
		wg.Add(1)
		p := path
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				var err error
				if isImage(p) {
					_, err = l.LoadTexture(p)
				} else {
					_, err = l.LoadModel(p)
				}
				if err != nil {
					mu.Lock()
					if first == nil {
						first = err
					}
					failed++
					mu.Unlock()
				}
				return nil, err
			},
		})
	}
	wg.Wait()

	if first != nil {
		return errors.Wrapf(first, "loader: %d of %d loads failed", failed, len(paths))
	}
	return nil
}

func (l *loader) Get(path string) *model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.models[path]
}

func (l *loader) Models() map[string]*model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.Model, len(l.models))
	for k, v := range l.models {
		result[k] = v
	}
	return result
}

// load reads path with its backend through the cache. A nil cache skips caching.
func load[T any](l *loader, cache map[string]T, path string, read func(loaderBackend, source) (T, error)) (T, error) {
	var zero T
	if cache != nil {
		l.mu.RLock()
		if cached, ok := cache[path]; ok {
			l.mu.RUnlock()
			return cached, nil
		}
		l.mu.RUnlock()
	}

	b, err := l.resolveBackend(path)
	if err != nil {
		return zero, err
	}
	full := l.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return zero, errors.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	start := time.Now()
	out, err := read(b, source{name: modelName(path), path: full, r: f})
	if err != nil {
		return zero, errors.Wrapf(err, "loader: %s", path)
	}
	if l.debug {
		log.Printf("loader: read %s in %v", path, time.Since(start))
	}

	if cache != nil {
		l.mu.Lock()
		cache[path] = out
		l.mu.Unlock()
	}
	return out, nil
}

// resolveBackend selects the backend registered for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	b, ok := l.backends[ext]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	return b, nil
}

func (l *loader) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

// modelName is the file name without directory or extension.
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
