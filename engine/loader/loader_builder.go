package loader

import (
	"runtime"

	"github.com/Carmen-Shannon/gdt-go/engine/model"
)

// defaultWorkers is the LoadAll pool size when none is configured.
var defaultWorkers = runtime.NumCPU()

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRoot is an option builder that sets the directory relative paths are resolved against.
//
// Parameters:
//   - dir: the resource root, e.g. "res"
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = dir
	}
}

// WithWorkers is an option builder that sets the maximum number of LoadAll workers.
//
// Parameters:
//   - n: the worker count, ignored if not positive
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithDebug is an option builder that logs every file read and its duration.
//
// Parameters:
//   - debug: true to log
//
// Returns:
//   - LoaderBuilderOption: a function that applies the debug option to a loader
func WithDebug(debug bool) LoaderBuilderOption {
	return func(l *loader) {
		l.debug = debug
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, m *model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.models[key] = m
	}
}
