package face

import "errors"

// Errors reported by the animation library.
var (
	// ErrUnknownAnimation is returned when a name is absent from the path cache.
	ErrUnknownAnimation = errors.New("unknown animation")

	// ErrNotLoaded is returned when playback is requested for an animation
	// that has no decoded frames in the frame cache.
	ErrNotLoaded = errors.New("animation not loaded")

	// ErrNotPlaying is returned when a tick is requested for a name with no
	// active playback instance.
	ErrNotPlaying = errors.New("animation not playing")

	// ErrEmptyPlayback is returned when an animation has nothing to play:
	// both its transition and idle playback lists are empty.
	ErrEmptyPlayback = errors.New("empty playback list")

	// ErrInvalidAnimationDir marks a directory without usable transition or
	// idle content. Such directories are skipped during discovery.
	ErrInvalidAnimationDir = errors.New("invalid animation directory")

	// ErrImageDecode wraps a failure of the image loader. A failed decode
	// aborts the load of its subanimation, leaving the frame cache without
	// a partial entry.
	ErrImageDecode = errors.New("image decode failed")
)
