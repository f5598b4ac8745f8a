package face

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureSub describes one subanimation of a test fixture tree.
type fixtureSub struct {
	frames   []string // filenames, each written as a small encoded PNG
	playback string   // playback file content, empty for none
}

// fixtureAnimation describes one animation directory of a test fixture tree.
type fixtureAnimation struct {
	transition *fixtureSub
	idle       *fixtureSub
}

// testWith opens a Library over a standard fixture tree and runs fn with it.
func testWith(t *testing.T, fn func(t *testing.T, lib *Library)) {
	t.Helper()

	root := writeFixture(t, map[string]fixtureAnimation{
		"happy": {
			transition: &fixtureSub{frames: []string{"a.png", "b.png"}},
			idle:       &fixtureSub{frames: []string{"1.png", "2.png", "3.png"}},
		},
		"sleepy": {
			idle: &fixtureSub{frames: []string{"z1.png", "z2.png"}, playback: "1 2\n2 1\n"},
		},
	})

	lib, err := Open(root)
	require.NoError(t, err, "failed to open library over fixture tree")
	require.NotNil(t, lib)

	fn(t, lib)
}

// writeFixture materializes an animation tree under a temp directory.
func writeFixture(t *testing.T, animations map[string]fixtureAnimation) string {
	t.Helper()

	root := t.TempDir()
	for name, anim := range animations {
		writeFixtureSub(t, filepath.Join(root, name, string(SubTransition)), anim.transition)
		writeFixtureSub(t, filepath.Join(root, name, string(SubIdle)), anim.idle)
	}
	return root
}

func writeFixtureSub(t *testing.T, dir string, sub *fixtureSub) {
	t.Helper()
	if sub == nil {
		return
	}

	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range sub.frames {
		writeTestImage(t, filepath.Join(dir, name), 4, 3)
	}
	if sub.playback != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPlaybackFile), []byte(sub.playback), 0o644))
	}
}

// writeTestImage writes a small solid PNG. Decoding sniffs the content, not
// the filename, so the same bytes work for any allowed extension.
func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0xc0, B: 0x60, A: 0xff})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
