package face

import (
	"image"
	"testing"

	"github.com/facekit/face-sdk/internal/playlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLoaded assembles a frame cache entry for state machine tests. Frames
// are numbered 1..n with distinct sizes so tests can tell them apart.
func buildLoaded(transition, idle []playlist.Entry, transitionFrames, idleFrames int) *loadedAnimation {
	makeFrames := func(n int) []image.Image {
		out := make([]image.Image, n)
		for i := range out {
			out[i] = image.NewRGBA(image.Rect(0, 0, i+1, 1))
		}
		return out
	}
	return &loadedAnimation{
		transition: loadedSub{frames: makeFrames(transitionFrames), playback: transition},
		idle:       loadedSub{frames: makeFrames(idleFrames), playback: idle},
	}
}

type tick struct {
	frame     int
	repeatIdx int
	phase     Phase
}

func collectTicks(t *testing.T, a *Animation, n int) []tick {
	t.Helper()
	out := make([]tick, 0, n)
	for i := 0; i < n; i++ {
		info := a.Update()
		assert.Equal(t, a.name, info.Animation)
		out = append(out, tick{frame: info.Frame, repeatIdx: info.RepeatIndex, phase: info.Phase})
	}
	return out
}

func TestAnimationIdleWrap(t *testing.T) {
	// Idle [(1,2),(2,1)]: frame 1 twice, frame 2 once, then wrap.
	src := buildLoaded(nil, []playlist.Entry{{Frame: 1, Repeats: 2}, {Frame: 2, Repeats: 1}}, 0, 2)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	assert.Equal(t, PhaseUninitialized, anim.Phase())
	got := collectTicks(t, anim, 4)
	assert.Equal(t, []tick{
		{1, 0, PhaseIdle},
		{1, 1, PhaseIdle},
		{2, 0, PhaseIdle},
		{1, 0, PhaseIdle}, // wrapped back to the first entry
	}, got)
}

func TestAnimationTransitionHandoff(t *testing.T) {
	src := buildLoaded(
		[]playlist.Entry{{Frame: 1, Repeats: 1}, {Frame: 2, Repeats: 2}},
		[]playlist.Entry{{Frame: 1, Repeats: 1}},
		2, 1,
	)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	got := collectTicks(t, anim, 5)
	assert.Equal(t, []tick{
		{1, 0, PhaseTransition},
		{2, 0, PhaseTransition},
		{2, 1, PhaseTransition},
		{1, 0, PhaseIdle},
		{1, 0, PhaseIdle},
	}, got)
}

func TestAnimationSkipTransitionAtConstruction(t *testing.T) {
	src := buildLoaded(
		[]playlist.Entry{{Frame: 1, Repeats: 5}},
		[]playlist.Entry{{Frame: 1, Repeats: 1}},
		1, 1,
	)
	anim, err := newAnimation("test", src, true)
	require.NoError(t, err)

	info := anim.Update()
	assert.Equal(t, PhaseIdle, info.Phase)
	assert.Equal(t, 1, info.Frame)
	assert.Equal(t, 0, info.RepeatIndex)
}

func TestAnimationSkipTransitionMidFlight(t *testing.T) {
	src := buildLoaded(
		[]playlist.Entry{{Frame: 1, Repeats: 3}, {Frame: 2, Repeats: 3}},
		[]playlist.Entry{{Frame: 1, Repeats: 1}, {Frame: 2, Repeats: 1}},
		2, 2,
	)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	info := anim.Update()
	assert.Equal(t, PhaseTransition, info.Phase)

	anim.SkipTransition()
	info = anim.Update()
	assert.Equal(t, PhaseIdle, info.Phase)
	assert.Equal(t, 1, info.Frame)
	assert.Equal(t, 0, info.RepeatIndex)
}

func TestAnimationEmptyTransitionStartsIdle(t *testing.T) {
	src := buildLoaded(nil, []playlist.Entry{{Frame: 1, Repeats: 1}}, 0, 1)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	info := anim.Update()
	assert.Equal(t, PhaseIdle, info.Phase)
	assert.Equal(t, 1, info.Frame)
}

func TestAnimationEmptyIdleLoopsTransition(t *testing.T) {
	src := buildLoaded([]playlist.Entry{{Frame: 1, Repeats: 1}, {Frame: 2, Repeats: 1}}, nil, 2, 0)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	got := collectTicks(t, anim, 5)
	assert.Equal(t, []tick{
		{1, 0, PhaseTransition},
		{2, 0, PhaseTransition},
		{1, 0, PhaseTransition},
		{2, 0, PhaseTransition},
		{1, 0, PhaseTransition},
	}, got)
}

func TestAnimationEmptyPlayback(t *testing.T) {
	src := buildLoaded(nil, nil, 0, 0)
	_, err := newAnimation("test", src, false)
	assert.ErrorIs(t, err, ErrEmptyPlayback)
}

func TestAnimationFrameImage(t *testing.T) {
	src := buildLoaded(nil, []playlist.Entry{{Frame: 2, Repeats: 1}, {Frame: 1, Repeats: 1}}, 0, 2)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	assert.Nil(t, anim.Frame())

	anim.Update()
	require.NotNil(t, anim.Frame())
	assert.Equal(t, 2, anim.Frame().Bounds().Dx()) // frame number 2 is 2px wide

	anim.Update()
	assert.Equal(t, 1, anim.Frame().Bounds().Dx())
}

func TestAnimationReset(t *testing.T) {
	src := buildLoaded(
		[]playlist.Entry{{Frame: 1, Repeats: 1}},
		[]playlist.Entry{{Frame: 1, Repeats: 1}},
		1, 1,
	)
	anim, err := newAnimation("test", src, false)
	require.NoError(t, err)

	anim.Update()
	anim.Update()
	assert.Equal(t, PhaseIdle, anim.Phase())

	anim.Reset()
	assert.Equal(t, PhaseUninitialized, anim.Phase())
	assert.Nil(t, anim.Frame())

	info := anim.Update()
	assert.Equal(t, PhaseTransition, info.Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "transition", PhaseTransition.String())
	assert.Equal(t, "idle", PhaseIdle.String())
}

func TestPhaseValues(t *testing.T) {
	// The numeric values are part of the info record contract.
	assert.Equal(t, Phase(-1), PhaseUninitialized)
	assert.Equal(t, Phase(0), PhaseTransition)
	assert.Equal(t, Phase(1), PhaseIdle)
}
