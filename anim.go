package face

import (
	"fmt"
	"image"

	"github.com/facekit/face-sdk/internal/playlist"
)

// Phase identifies which subanimation a playback instance is consuming.
// The numeric values (-1, 0, 1) are kept stable for renderers that record
// them, but callers should compare against the constants.
type Phase int

const (
	// PhaseUninitialized is the state before the first Update call.
	PhaseUninitialized Phase = iota - 1

	// PhaseTransition plays the transition list once.
	PhaseTransition

	// PhaseIdle loops the idle list until playback stops.
	PhaseIdle
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTransition:
		return "transition"
	case PhaseIdle:
		return "idle"
	default:
		return "uninitialized"
	}
}

// Info is the per-tick playback snapshot handed to the rendering layer.
type Info struct {
	Animation    string // animation name
	Frame        int    // 1-based frame number, not a playback list index
	FrameRepeats int    // total ticks configured for the current entry
	RepeatIndex  int    // 0-based ticks already spent on the current entry
	Phase        Phase
}

// Animation is a playback instance over one loaded animation: a cursor over
// (frame, repeats) playback entries that plays the transition list once,
// then loops the idle list until the instance is stopped or removed.
//
// An Animation is owned by a single caller and updated once per render
// tick; it is not safe for concurrent use.
type Animation struct {
	name       string
	transition loadedSub
	idle       loadedSub
	skip       bool

	phase   Phase
	entry   int // index into the current phase's playback list
	repeat  int // ticks completed on the current entry
	current image.Image
}

// newAnimation binds the loaded subanimations of name into a playback
// instance. At least one playback list must be non-empty.
func newAnimation(name string, src *loadedAnimation, skipTransition bool) (*Animation, error) {
	if len(src.transition.playback) == 0 && len(src.idle.playback) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlayback, name)
	}
	return &Animation{
		name:       name,
		transition: src.transition,
		idle:       src.idle,
		skip:       skipTransition,
		phase:      PhaseUninitialized,
	}, nil
}

// Name returns the animation name.
func (a *Animation) Name() string { return a.name }

// Phase returns the current playback phase.
func (a *Animation) Phase() Phase { return a.phase }

// Frame returns the decoded image for the current playback position, or nil
// before the first Update.
func (a *Animation) Frame() image.Image { return a.current }

// SkipTransition forces the instance into the idle loop on its next Update,
// even when a transition is already in progress.
func (a *Animation) SkipTransition() { a.skip = true }

// Reset rewinds playback to the beginning. The transition plays again
// unless SkipTransition was requested.
func (a *Animation) Reset() {
	a.phase = PhaseUninitialized
	a.entry, a.repeat = 0, 0
	a.current = nil
}

// Update advances playback by exactly one tick and reports the resulting
// position. It never fails once the instance is constructed.
func (a *Animation) Update() Info {
	a.step()

	e := a.list()[a.entry]
	a.current = a.frameImage(e.Frame)

	info := Info{
		Animation:    a.name,
		Frame:        e.Frame,
		FrameRepeats: e.Repeats,
		RepeatIndex:  a.repeat,
		Phase:        a.phase,
	}
	a.advance(e)
	return info
}

// step settles the phase for the upcoming tick: it leaves the
// uninitialized state, honors a pending transition skip, and falls back to
// whichever list is non-empty.
func (a *Animation) step() {
	if a.phase == PhaseUninitialized {
		a.phase, a.entry, a.repeat = PhaseTransition, 0, 0
	}
	if a.phase == PhaseTransition && (a.skip || len(a.transition.playback) == 0) {
		if len(a.idle.playback) > 0 {
			a.phase, a.entry, a.repeat = PhaseIdle, 0, 0
		}
	}
	if a.phase == PhaseIdle && len(a.idle.playback) == 0 {
		a.phase, a.entry, a.repeat = PhaseTransition, 0, 0
	}
}

// advance moves the cursor past the tick that was just reported.
func (a *Animation) advance(e playlist.Entry) {
	a.repeat++
	if a.repeat < e.Repeats {
		return
	}
	a.repeat = 0

	a.entry++
	if a.entry < len(a.list()) {
		return
	}
	a.entry = 0

	// The transition hands off to idle once exhausted; idle wraps forever.
	// An animation without idle entries keeps looping its transition.
	if a.phase == PhaseTransition && len(a.idle.playback) > 0 {
		a.phase = PhaseIdle
	}
}

func (a *Animation) list() []playlist.Entry {
	if a.phase == PhaseTransition {
		return a.transition.playback
	}
	return a.idle.playback
}

func (a *Animation) frameImage(number int) image.Image {
	frames := a.idle.frames
	if a.phase == PhaseTransition {
		frames = a.transition.frames
	}
	if number < 1 || number > len(frames) {
		return nil
	}
	return frames[number-1]
}

// rebind swaps in freshly decoded subanimations, preserving the cursor.
// Used after a reload; the cursor is rewound when the new lists no longer
// cover its position.
func (a *Animation) rebind(src *loadedAnimation) {
	if len(src.transition.playback) == 0 && len(src.idle.playback) == 0 {
		return
	}
	a.transition = src.transition
	a.idle = src.idle

	if a.phase != PhaseUninitialized && a.entry >= len(a.list()) {
		a.entry, a.repeat = 0, 0
	}
}
