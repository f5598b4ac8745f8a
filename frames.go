// Copyright (c) Face SDK contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package face

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/facekit/face-sdk/internal/playlist"
)

// loadedSub holds the decoded frames and resolved playback list of one
// subanimation. Frame number n maps to frames[n-1].
type loadedSub struct {
	frames   []image.Image
	playback []playlist.Entry
}

func (s *loadedSub) empty() bool {
	return len(s.frames) == 0 && len(s.playback) == 0
}

// loadedAnimation is a frame cache entry, mirroring the shape of its
// AnimationSource counterpart in the path cache.
type loadedAnimation struct {
	path       string
	transition loadedSub
	idle       loadedSub
}

func (a *loadedAnimation) sub(sub Subanimation) *loadedSub {
	if sub == SubTransition {
		return &a.transition
	}
	return &a.idle
}

// LoadAnimation decodes both subanimations of name into the frame cache.
// Loading an already loaded animation refreshes it in place.
func (l *Library) LoadAnimation(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(name, SubTransition, SubIdle)
}

// LoadSubanimation decodes a single subanimation of name, leaving the other
// one untouched.
func (l *Library) LoadSubanimation(name string, sub Subanimation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(name, sub)
}

// LoadAll decodes every discovered animation. Per-animation failures are
// accumulated in the returned error instead of aborting the rest.
func (l *Library) LoadAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, name := range l.namesLocked() {
		if err := l.loadLocked(name, SubTransition, SubIdle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UnloadAnimation evicts the decoded frames of name, freeing their memory.
// The path cache entry is untouched, so the animation can be reloaded
// without re-discovery.
func (l *Library) UnloadAnimation(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pathCache[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}
	delete(l.frameCache, name)
	return nil
}

// UnloadSubanimation evicts the decoded frames of a single subanimation.
// When the other subanimation holds nothing either, the whole frame cache
// entry is dropped.
func (l *Library) UnloadSubanimation(name string, sub Subanimation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pathCache[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}
	entry, ok := l.frameCache[name]
	if !ok {
		return nil
	}

	*entry.sub(sub) = loadedSub{}
	if entry.transition.empty() && entry.idle.empty() {
		delete(l.frameCache, name)
	}
	return nil
}

// UnloadAll evicts every decoded frame, returning the frame cache to its
// initial empty state.
func (l *Library) UnloadAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frameCache = make(map[string]*loadedAnimation)
}

// RemoveAnimation deletes name from both the path and frame caches and
// drops any active playback instance. Subsequent operations on the name
// fail with ErrUnknownAnimation.
func (l *Library) RemoveAnimation(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pathCache[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}
	delete(l.pathCache, name)
	delete(l.frameCache, name)
	delete(l.active, name)
	return nil
}

// RemoveAll empties both caches and stops all playback.
func (l *Library) RemoveAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pathCache = make(map[string]*AnimationSource)
	l.frameCache = make(map[string]*loadedAnimation)
	l.active = make(map[string]*Animation)
}

// ReloadAnimation re-decodes an already loaded animation and rebinds any
// active playback instance to the fresh frames. Use it after changing the
// target display size.
func (l *Library) ReloadAnimation(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.frameCache[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	if err := l.loadLocked(name, SubTransition, SubIdle); err != nil {
		return err
	}
	if anim, ok := l.active[name]; ok {
		anim.rebind(l.frameCache[name])
	}
	return nil
}

// loadLocked decodes the given subanimations of name into the frame cache.
// The work happens on a staging entry so a failed load leaves the cache
// without a partial entry. Callers hold l.mu.
func (l *Library) loadLocked(name string, subs ...Subanimation) error {
	src, ok := l.pathCache[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAnimation, name)
	}

	staged := &loadedAnimation{path: src.Path}
	if prev, ok := l.frameCache[name]; ok {
		*staged = *prev
	}

	for _, sub := range subs {
		loaded, err := l.loadSub(src.sub(sub))
		if err != nil {
			return fmt.Errorf("%s/%s: %w", name, sub, err)
		}
		*staged.sub(sub) = loaded
	}

	l.frameCache[name] = staged
	return nil
}

// loadSub resolves the playback list for one subanimation and decodes its
// frames. The playback list is validated against the frame count before any
// decode happens.
func (l *Library) loadSub(src *SubanimationSource) (loadedSub, error) {
	var out loadedSub

	if src.PlaybackPath != "" {
		data, err := os.ReadFile(src.PlaybackPath)
		if err != nil {
			return out, fmt.Errorf("read playback file: %w", err)
		}
		out.playback, err = playlist.Parse(data, l.config.DefaultRepeats)
		if err != nil {
			return out, err
		}
	} else {
		out.playback = playlist.Sequential(len(src.FramePaths))
	}
	if err := playlist.Validate(out.playback, len(src.FramePaths)); err != nil {
		return loadedSub{}, err
	}

	bounds := l.config.Target.point()
	for _, path := range src.FramePaths {
		img, err := l.loader.Load(path, bounds, l.config.Stretch)
		if err != nil {
			return loadedSub{}, fmt.Errorf("%w: %s: %w", ErrImageDecode, path, err)
		}
		out.frames = append(out.frames, img)
	}
	return out, nil
}
