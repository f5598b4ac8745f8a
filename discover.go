// Copyright (c) Face SDK contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package face

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Subanimation names one of the two fixed phases of an animation on disk.
type Subanimation string

const (
	// SubTransition plays once when an animation starts.
	SubTransition Subanimation = "transition"

	// SubIdle loops after the transition until playback stops.
	SubIdle Subanimation = "idle"
)

// SubanimationSource holds the on-disk references of one subanimation.
// FramePaths is ordered by plain lexicographic filename sort; the 1-based
// rank in that order is the frame number. Note that unpadded numeric names
// ("1", "10", "2") sort alphanumerically, not numerically.
type SubanimationSource struct {
	FramePaths   []string
	PlaybackPath string // empty when the subanimation has no playback file
}

// AnimationSource is a path cache entry: everything discovery found for a
// single animation directory. Either subanimation may be empty.
type AnimationSource struct {
	Name       string
	Path       string
	Transition SubanimationSource
	Idle       SubanimationSource
}

func (a *AnimationSource) sub(sub Subanimation) *SubanimationSource {
	if sub == SubTransition {
		return &a.Transition
	}
	return &a.Idle
}

func (a *AnimationSource) frameCount() int {
	return len(a.Transition.FramePaths) + len(a.Idle.FramePaths)
}

// AddAnimations discovers the animations under dir and merges them into the
// path cache without decoding any frames. Entries with the same name are
// replaced. Invalid animation directories are skipped; their errors are
// joined into the returned error while valid siblings are still added.
func (l *Library) AddAnimations(dir string) error {
	found, err := l.discoverAnimations(dir)

	l.mu.Lock()
	for name, src := range found {
		l.pathCache[name] = src
	}
	l.mu.Unlock()

	return err
}

// AddAndLoadAnimations discovers the animations under dir and immediately
// decodes them into the frame cache. Per-animation failures are joined into
// the returned error; the remaining animations are still added and loaded.
func (l *Library) AddAndLoadAnimations(dir string) error {
	found, err := l.discoverAnimations(dir)

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, name := range names {
		l.pathCache[name] = found[name]
		if lerr := l.loadLocked(name, SubTransition, SubIdle); lerr != nil {
			errs = append(errs, lerr)
		}
	}
	return errors.Join(errs...)
}

// AddSubanimation registers a hand-built subanimation in the path cache
// without loading it, validating every path against the extension
// allow-list. The animation entry is created when name is new.
func (l *Library) AddSubanimation(name string, sub Subanimation, framePaths []string, playbackPath string) error {
	if sub != SubTransition && sub != SubIdle {
		return fmt.Errorf("%w: unknown subanimation %q", ErrInvalidAnimationDir, sub)
	}
	for _, path := range framePaths {
		if !l.config.allowsFile(path) {
			return fmt.Errorf("%w: %s is not an allowed image file", ErrInvalidAnimationDir, path)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	src, ok := l.pathCache[name]
	if !ok {
		src = &AnimationSource{Name: name}
		l.pathCache[name] = src
	}
	target := src.sub(sub)
	target.FramePaths = append([]string(nil), framePaths...)
	target.PlaybackPath = playbackPath
	return nil
}

// AddAndLoadSubanimation registers a hand-built subanimation and
// immediately decodes it into the frame cache.
func (l *Library) AddAndLoadSubanimation(name string, sub Subanimation, framePaths []string, playbackPath string) error {
	if err := l.AddSubanimation(name, sub, framePaths, playbackPath); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(name, sub)
}

// discoverAnimations scans the immediate subdirectories of root, producing
// a path cache fragment. The scan is read-only and idempotent: rerunning it
// over an unchanged tree yields a structurally identical result.
func (l *Library) discoverAnimations(root string) (map[string]*AnimationSource, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read animation root %s: %w", root, err)
	}

	found := make(map[string]*AnimationSource)
	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		src, err := l.discoverAnimation(filepath.Join(root, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found[src.Name] = src
	}
	return found, errors.Join(errs...)
}

// discoverAnimation inspects a single candidate animation directory. A
// directory with neither a transition nor an idle subdirectory, or with
// zero frame images in total, is rejected with ErrInvalidAnimationDir.
func (l *Library) discoverAnimation(dir string) (*AnimationSource, error) {
	src := &AnimationSource{Name: filepath.Base(dir), Path: dir}

	haveDir := false
	for _, sub := range []Subanimation{SubTransition, SubIdle} {
		subDir := filepath.Join(dir, string(sub))
		info, err := os.Stat(subDir)
		if err != nil || !info.IsDir() {
			continue
		}
		haveDir = true

		scanned, err := l.scanSubanimation(subDir)
		if err != nil {
			return nil, err
		}
		*src.sub(sub) = scanned
	}

	if !haveDir {
		return nil, fmt.Errorf("%w: %s has neither a transition nor an idle directory",
			ErrInvalidAnimationDir, dir)
	}
	if src.frameCount() == 0 {
		return nil, fmt.Errorf("%w: %s contains no frame images", ErrInvalidAnimationDir, dir)
	}
	return src, nil
}

func (l *Library) scanSubanimation(dir string) (SubanimationSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return SubanimationSource{}, fmt.Errorf("read subanimation %s: %w", dir, err)
	}

	var out SubanimationSource
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() == l.config.PlaybackFile {
			out.PlaybackPath = filepath.Join(dir, entry.Name())
			continue
		}
		if l.config.allowsFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	// The sort order IS the frame numbering function.
	sort.Strings(names)
	for _, name := range names {
		out.FramePaths = append(out.FramePaths, filepath.Join(dir, name))
	}
	return out, nil
}
