package loader

import (
	"sync"

	"go.uber.org/zap"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/errors"
)

// Loader resolves driver entry points through a ProcSource and owns the
// underlying library handle when one was opened. Safe for concurrent use.
type Loader struct {
	src    vk.ProcSource
	lib    *library
	mu     sync.Mutex
	closed bool
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	path string
	src  vk.ProcSource
}

// WithLibrary overrides the platform default library name with an
// explicit path.
func WithLibrary(path string) Option {
	return func(c *openConfig) { c.path = path }
}

// WithProcSource bypasses library loading entirely and serves resolution
// from src. Used by the testbed driver and by embedders that already
// hold a vkGetInstanceProcAddr equivalent.
func WithProcSource(src vk.ProcSource) Option {
	return func(c *openConfig) { c.src = src }
}

// New wraps an in-process ProcSource. The returned Loader owns no
// library handle; Close only marks it unusable.
func New(src vk.ProcSource) *Loader {
	return &Loader{src: src}
}

// Open loads the driver library and binds its vkGetInstanceProcAddr.
// Without options it probes the platform default names.
func Open(opts ...Option) (*Loader, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.src != nil {
		return New(cfg.src), nil
	}

	lib, err := openLibrary(cfg.path)
	if err != nil {
		return nil, err
	}

	addr := lib.symbol(procAddrName)
	if addr == 0 {
		_ = lib.close()
		return nil, errors.NotInstalled("driver library exposes no "+procAddrName, nil)
	}

	Logger().Debug("driver library loaded",
		zap.String("library", lib.name),
		zap.Uintptr("get_instance_proc_addr", addr))

	return &Loader{
		src: newDLSource(addr),
		lib: lib,
	}, nil
}

// procAddrName is the loader's root resolution entry point. Every other
// command address flows from it.
const procAddrName = "vkGetInstanceProcAddr"

// Resolve looks up name in the given scope and returns its raw address.
// An empty name is an invalid_argument error, raised before the source
// is consulted. An unknown name returns (0, nil): absence is an expected
// outcome, not an error. Repeated calls are safe; nothing is cached.
func (l *Loader) Resolve(scope Scope, name string) (uintptr, error) {
	if name == "" {
		return 0, errors.InvalidArgument(errors.PhaseResolve, "entry point name must not be empty")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, errors.NotInitialized(errors.PhaseResolve, "loader")
	}
	src := l.src
	l.mu.Unlock()

	return src.ProcAddr(scope.instance, name), nil
}

// ProcAddr implements vulkanruntime.ProcSource, so a Loader can itself
// back another Loader or be handed to code that wants raw resolution.
// Unlike Resolve it applies no argument validation.
func (l *Loader) ProcAddr(instance vk.Handle, name string) uintptr {
	addr, err := l.Resolve(Scope{instance: instance}, name)
	if err != nil {
		return 0
	}
	return addr
}

// Close releases the library handle. Resolved addresses and functions
// bound through this Loader become invalid. Close is idempotent.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.lib != nil {
		return l.lib.close()
	}
	return nil
}
