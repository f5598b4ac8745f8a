// Copyright (c) Face SDK contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package face

import (
	"fmt"
	"image"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Recognized frame image extensions.
const (
	ExtGIF = ".gif"
	ExtJPG = ".jpg"
	ExtPNG = ".png"
)

// DefaultPlaybackFile is the filename looked up inside each subanimation
// directory for an explicit playback list.
const DefaultPlaybackFile = "frames"

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Validate validates the size.
func (s *Size) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Width, validation.Min(0)),
		validation.Field(&s.Height, validation.Min(0)),
	)
}

func (s Size) point() image.Point {
	return image.Point{X: s.Width, Y: s.Height}
}

// Config carries the library policy: which files count as frames, where
// playback lists live, and how decoded frames are sized for the display
// target. Multiple libraries can coexist with different configurations.
type Config struct {
	// Extensions is the allow-list of frame file extensions, matched
	// case-insensitively against filenames.
	Extensions []string `yaml:"extensions"`

	// PlaybackFile is the filename of the optional per-subanimation
	// playback list.
	PlaybackFile string `yaml:"playback_file"`

	// DefaultRepeats is used for playback lines that omit a repeat count.
	DefaultRepeats int `yaml:"default_repeats"`

	// Target bounds decoded frames; a zero size keeps native frame sizes.
	Target Size `yaml:"target"`

	// Stretch scales frames to exactly Target instead of aspect-fitting
	// within it.
	Stretch bool `yaml:"stretch"`
}

// DefaultConfig returns the policy used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		Extensions:     []string{ExtGIF, ExtJPG, ExtPNG},
		PlaybackFile:   DefaultPlaybackFile,
		DefaultRepeats: 1,
	}
}

// LoadConfig reads a yaml configuration file, applies it over the defaults
// and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Extensions, validation.Required,
			validation.Each(validation.In(ExtGIF, ExtJPG, ExtPNG))),
		validation.Field(&c.PlaybackFile, validation.Required),
		validation.Field(&c.DefaultRepeats, validation.Min(1)),
	); err != nil {
		return err
	}
	return c.Target.Validate()
}

// allowsFile reports whether filename matches the extension allow-list.
func (c *Config) allowsFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range c.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
