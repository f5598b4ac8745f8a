// Package face manages directory-driven sprite animations for a display
// device: it discovers animation assets on disk, lazily decodes image
// frames into memory, and drives per-animation playback through a
// transition-then-idle state machine governed by declarative playback
// lists.
//
// An animation is a directory with up to two subdirectories, "transition"
// and "idle", each holding sortable frame images and an optional playback
// file:
//
//	root/<name>/{transition,idle}/<frame>.{gif,jpg,png}
//	root/<name>/{transition,idle}/frames
//
// The 1-based rank of a frame file under plain lexicographic sort of its
// directory is the frame number that playback lists refer to.
package face

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// Library composes the animation path cache, the frame cache, and the
// active playback instances behind one facade.
//
// The path cache is authoritative for which animations exist; the frame
// cache is a lazily populated, evictable subset of it holding decoded
// frames. Load, unload, and remove are blocking file and decode calls meant
// for scene boundaries; UpdateAnimation ticks are the steady-state hot path
// and never touch the disk.
type Library struct {
	mu     sync.RWMutex
	root   string
	config Config
	loader ImageLoader
	logger *slog.Logger

	pathCache  map[string]*AnimationSource
	frameCache map[string]*loadedAnimation
	active     map[string]*Animation
}

// Option configures a Library.
type Option func(*Library)

// WithConfig replaces the default policy configuration.
func WithConfig(cfg Config) Option {
	return func(l *Library) { l.config = cfg }
}

// WithLoader injects the image loader capability.
func WithLoader(loader ImageLoader) Option {
	return func(l *Library) { l.loader = loader }
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// WithTargetSize bounds decoded frames to an aspect-preserving fit within
// width x height pixels.
func WithTargetSize(width, height int) Option {
	return func(l *Library) { l.config.Target = Size{Width: width, Height: height} }
}

// WithStretch scales frames to exactly the target size instead of
// aspect-fitting within it.
func WithStretch(stretch bool) Option {
	return func(l *Library) { l.config.Stretch = stretch }
}

// Open initializes a Library over an animation root directory and discovers
// the animations inside it without decoding any frames. Invalid animation
// directories are skipped and logged; the Library remains usable.
func Open(root string, opts ...Option) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("face: animation root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("face: animation root %q is not a directory", root)
	}

	l := &Library{
		root:       root,
		config:     DefaultConfig(),
		loader:     fileLoader{},
		logger:     slog.Default(),
		pathCache:  make(map[string]*AnimationSource),
		frameCache: make(map[string]*loadedAnimation),
		active:     make(map[string]*Animation),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.config.Validate(); err != nil {
		return nil, fmt.Errorf("face: config: %w", err)
	}

	if err := l.AddAnimations(root); err != nil {
		l.logger.Warn("discovery skipped invalid animations",
			slog.String("root", root),
			slog.String("error", err.Error()))
	}
	return l, nil
}

// Close drops all playback state and decoded frames. Discovery results are
// kept, so animations can be loaded again.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frameCache = make(map[string]*loadedAnimation)
	l.active = make(map[string]*Animation)
	return nil
}

// Root returns the animation root directory the Library was opened with.
func (l *Library) Root() string { return l.root }

// Animations returns the names of all discovered animations, sorted.
func (l *Library) Animations() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.namesLocked()
}

// Has reports whether name is present in the path cache.
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pathCache[name]
	return ok
}

// IsLoaded reports whether name has decoded frames in the frame cache.
func (l *Library) IsLoaded(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.frameCache[name]
	return ok
}

// Source returns a copy of the path cache entry for name.
func (l *Library) Source(name string) (AnimationSource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src, ok := l.pathCache[name]
	if !ok {
		return AnimationSource{}, fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}
	return *src, nil
}

// AnimationOption configures a playback instance.
type AnimationOption func(*Animation)

// WithSkipTransition starts playback directly in the idle loop.
func WithSkipTransition() AnimationOption {
	return func(a *Animation) { a.skip = true }
}

// CreateAnimation builds a playback instance for a loaded animation and
// registers it for UpdateAnimation ticks, replacing any previous instance
// for the same name. The animation must already be in the frame cache;
// otherwise CreateAnimation fails with ErrNotLoaded and mutates nothing.
func (l *Library) CreateAnimation(name string, opts ...AnimationOption) (*Animation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pathCache[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}
	entry, ok := l.frameCache[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}

	anim, err := newAnimation(name, entry, false)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(anim)
	}
	l.active[name] = anim
	return anim, nil
}

// UpdateAnimation delegates one tick to the playback instance for name and
// returns its info record.
func (l *Library) UpdateAnimation(name string) (Info, error) {
	l.mu.RLock()
	anim, ok := l.active[name]
	l.mu.RUnlock()

	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotPlaying, name)
	}
	return anim.Update(), nil
}

// FrameImage returns the decoded image for the current playback position of
// name, or nil before its first tick.
func (l *Library) FrameImage(name string) (image.Image, error) {
	l.mu.RLock()
	anim, ok := l.active[name]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPlaying, name)
	}
	return anim.Frame(), nil
}

// StopAnimation discards the playback state for name. The decoded frames
// stay cached; stopping an inactive name is a no-op.
func (l *Library) StopAnimation(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, name)
}

// namesLocked returns the sorted path cache keys. Callers hold l.mu.
func (l *Library) namesLocked() []string {
	names := make([]string, 0, len(l.pathCache))
	for name := range l.pathCache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
