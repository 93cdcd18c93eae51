// Package engine runs the application: it owns the backends, the frame loop and the scenes.
package engine

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/audio"
	"github.com/Carmen-Shannon/gdt-go/engine/core"
	"github.com/Carmen-Shannon/gdt-go/engine/graphics"
	"github.com/Carmen-Shannon/gdt-go/engine/physics"
	"github.com/Carmen-Shannon/gdt-go/engine/platform"
	"github.com/pkg/errors"
)

// coreUpdates is the measurement covering frame start and input polling.
const coreUpdates = "core updates"

// engine implements the Engine interface.
type engine struct {
	ctx *core.Context

	platformOptions []platform.BackendOption
	graphicsOptions []graphics.BackendOption
	physicsOptions  []physics.BackendOption
	audioOptions    []audio.BackendOption

	profiler         *core.Profiler
	profilingEnabled bool
	profileInterval  time.Duration
	debug            bool

	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	scenes    map[int]core.Scene
	factories map[int]core.SceneFactory
	onKey     func(ctx *core.Context, key common.Key)

	resized   bool
	closeOnce sync.Once
}

// Engine is the main entry point of an application.
// It creates the backends, runs the frame loop and dispatches resizes to its scenes.
type Engine interface {
	// Context returns the frame context shared with every scene.
	//
	// Returns:
	//   - *core.Context: the context
	Context() *core.Context

	// Run builds the first scene and runs the frame loop until the platform closes or
	// Quit is called. Every frame polls input, clears the screen, updates then renders
	// the scenes in ascending key order and presents.
	//
	// Parameters:
	//   - first: the factory of the scene registered at key 0; nil keeps the registered scenes
	//
	// Returns:
	//   - error: the first scene error, or a recovered panic
	Run(first core.SceneFactory) error

	// AddScene registers a scene at the given key, replacing any scene there.
	//
	// Parameters:
	//   - key: the order of the scene, lower updates and renders first
	//   - s: the scene
	AddScene(key int, s core.Scene)

	// RemoveScene removes the scene at the given key.
	//
	// Parameters:
	//   - key: the key of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene at the given key, nil if none.
	//
	// Parameters:
	//   - key: the key of the scene
	//
	// Returns:
	//   - core.Scene: the scene or nil
	Scene(key int) core.Scene

	// Scenes returns a copy of the registered scenes.
	//
	// Returns:
	//   - map[int]core.Scene: the scenes keyed by order
	Scenes() map[int]core.Scene

	// SetKeyCallback registers the function called on every key press.
	//
	// Parameters:
	//   - callback: the key handler
	SetKeyCallback(callback func(ctx *core.Context, key common.Key))

	// EnableProfiler enables periodic profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables profiling output.
	DisableProfiler()

	// Quit stops the frame loop after the current frame.
	Quit()

	// Close releases the backends. Safe to call more than once.
	//
	// Returns:
	//   - error: the first backend error
	Close() error
}

var _ Engine = &engine{}

// NewEngine creates the engine and every backend not supplied through an option:
// a GLFW window, the WebGPU device presenting to it, the built-in physics and the beep
// speaker.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine
//   - error: error if a backend fails to initialize
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		ctx:             &core.Context{},
		profileInterval: time.Second,
		scenes:          make(map[int]core.Scene),
		factories:       make(map[int]core.SceneFactory),
	}
	for _, opt := range options {
		opt(e)
	}
	e.profiler = core.NewProfiler(e.profileInterval)
	e.ctx.Profiler = e.profiler
	e.ctx.Debug = e.debug

	if err := e.initBackends(); err != nil {
		e.Close()
		return nil, err
	}

	e.ctx.Platform.SetResizeCallback(func(width, height int) {
		e.ctx.Graphics.Resize(width, height)
		e.resized = true
	})
	e.ctx.Platform.SetKeyCallback(func(key common.Key) {
		if e.onKey != nil {
			e.onKey(e.ctx, key)
		}
	})
	log.Printf("engine: initialized %dx%d", e.ctx.Screen().Width(), e.ctx.Screen().Height())
	return e, nil
}

// initBackends creates the backends the options left empty.
func (e *engine) initBackends() error {
	var err error
	if e.ctx.Platform == nil {
		if e.ctx.Platform, err = platform.NewBackend(platform.BackendTypeGLFW, e.platformOptions...); err != nil {
			return errors.Wrap(err, "engine: platform")
		}
	}
	if e.ctx.Graphics == nil {
		screen := e.ctx.Platform.Screen()
		opts := append([]graphics.BackendOption{
			graphics.WithSurfaceDescriptor(e.ctx.Platform.SurfaceDescriptor()),
			graphics.WithSize(screen.Width(), screen.Height()),
		}, e.graphicsOptions...)
		if e.ctx.Graphics, err = graphics.NewBackend(graphics.BackendTypeWGPU, opts...); err != nil {
			return errors.Wrap(err, "engine: graphics")
		}
	}
	if e.ctx.Physics == nil {
		e.ctx.Physics = physics.NewBackend(physics.BackendTypeBuiltin, e.physicsOptions...)
	}
	if e.ctx.Audio == nil {
		if e.ctx.Audio, err = audio.NewBackend(audio.BackendTypeBeep, e.audioOptions...); err != nil {
			return errors.Wrap(err, "engine: audio")
		}
	}
	return nil
}

func (e *engine) Context() *core.Context {
	return e.ctx
}

func (e *engine) Run(first core.SceneFactory) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: frame loop recovered from panic: %v", r)
			err = errors.Errorf("engine: panic: %v", r)
		}
	}()

	if first != nil {
		e.factories[0] = first
	}
	for key, factory := range e.factories {
		s, err := factory(e.ctx)
		if err != nil {
			return errors.Wrapf(err, "engine: build scene %d", key)
		}
		e.scenes[key] = s
	}
	e.factories = make(map[int]core.SceneFactory)
	if len(e.scenes) == 0 {
		return errors.New("engine: Run requires a scene")
	}

	log.Printf("engine: run started with %d scene(s)", len(e.scenes))
	e.ctx.Elapsed = 0
	start := time.Now()
	for e.ctx.Platform.ProcessEvents() && !e.ctx.Quitting() {
		if err := e.frame(); err != nil {
			return err
		}
		if e.frameLimit > 0 {
			if remaining := e.frameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
		now := time.Now()
		e.ctx.Elapsed = float32(now.Sub(start).Seconds())
		start = now
	}
	log.Printf("engine: run ended")
	return nil
}

// frame runs one iteration of the loop.
func (e *engine) frame() error {
	m := e.ctx.Measure(coreUpdates)
	m.Begin()
	if err := e.ctx.Graphics.UpdateFrame(); err != nil {
		return errors.Wrap(err, "engine: update frame")
	}
	e.ctx.Platform.UpdateWindow()
	e.ctx.Platform.UpdateKeyboard()
	e.ctx.Platform.UpdateMouse()
	m.End()

	keys := e.sceneKeys()
	if e.resized {
		e.resized = false
		for _, k := range keys {
			e.scenes[k].OnScreenResize(e.ctx)
		}
	}

	e.ctx.Graphics.ClearScreen()
	for _, k := range keys {
		if err := e.scenes[k].Update(e.ctx); err != nil {
			return errors.Wrapf(err, "engine: update scene %d", k)
		}
	}
	for _, k := range keys {
		if err := e.scenes[k].Render(e.ctx); err != nil {
			return errors.Wrapf(err, "engine: render scene %d", k)
		}
	}
	if err := e.ctx.Graphics.Present(); err != nil {
		return errors.Wrap(err, "engine: present")
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

func (e *engine) sceneKeys() []int {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (e *engine) AddScene(key int, s core.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) core.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]core.Scene {
	cp := make(map[int]core.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) SetKeyCallback(callback func(ctx *core.Context, key common.Key)) {
	e.onKey = callback
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Quit() {
	e.ctx.Quit()
}

func (e *engine) Close() error {
	var first error
	e.closeOnce.Do(func() {
		keep := func(err error) {
			if err != nil && first == nil {
				first = err
			}
		}
		if e.ctx.Audio != nil {
			keep(e.ctx.Audio.Close())
		}
		if e.ctx.Graphics != nil {
			keep(e.ctx.Graphics.Close())
		}
		if e.ctx.Platform != nil {
			keep(e.ctx.Platform.Close())
		}
	})
	return first
}
