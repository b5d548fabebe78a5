// Package config loads pattern generation settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bead-pattern/internal/generator"
	"bead-pattern/internal/preprocess"
	"bead-pattern/internal/quantize"
)

// File is the on-disk settings document. Unset fields keep the defaults
// from generator.DefaultOptions.
type File struct {
	BoardsWidth        *int           `yaml:"boards_width,omitempty"`
	BoardsHeight       *int           `yaml:"boards_height,omitempty"`
	RareColorThreshold *float64       `yaml:"rare_color_threshold,omitempty"`
	Palette            string         `yaml:"palette,omitempty"` // Path to a palette JSON file; empty uses the built-in palette
	Preprocess         *PreprocessCfg `yaml:"preprocess,omitempty"`
	Quantize           *QuantizeCfg   `yaml:"quantize,omitempty"`
}

// PreprocessCfg selects and tunes the preprocessing pipeline.
type PreprocessCfg struct {
	Mode             string   `yaml:"mode,omitempty"` // "basic" or "advanced"
	Contrast         *float64 `yaml:"contrast,omitempty"`
	RemoveBackground *bool    `yaml:"remove_background,omitempty"`
	EnhanceColors    *bool    `yaml:"enhance_colors,omitempty"`
	ColorBoost       *float64 `yaml:"color_boost,omitempty"`
	ContrastBoost    *float64 `yaml:"contrast_boost,omitempty"`
	BrightnessBoost  *float64 `yaml:"brightness_boost,omitempty"`
	SimplifyDetails  *bool    `yaml:"simplify_details,omitempty"`
	Method           string   `yaml:"simplification_method,omitempty"`   // bilateral, mean_shift, gaussian
	Strength         string   `yaml:"simplification_strength,omitempty"` // light, medium, strong
}

// QuantizeCfg tunes resampling and palette reduction.
type QuantizeCfg struct {
	Resampler   string `yaml:"resampler,omitempty"` // lanczos or nearest
	PreQuantize *bool  `yaml:"pre_quantize,omitempty"`
	Dither      *bool  `yaml:"dither,omitempty"`
}

// Load reads and validates a settings file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a settings document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &f, nil
}

// Validate checks enum strings and numeric ranges.
func (f *File) Validate() error {
	_, err := f.Options()
	return err
}

// Options applies the file on top of generator.DefaultOptions.
func (f *File) Options() (generator.Options, error) {
	opts := generator.DefaultOptions()

	if f.BoardsWidth != nil {
		opts.BoardsWidth = *f.BoardsWidth
	}
	if f.BoardsHeight != nil {
		opts.BoardsHeight = *f.BoardsHeight
	}
	if f.RareColorThreshold != nil {
		opts.RareColorThreshold = *f.RareColorThreshold
	}

	if p := f.Preprocess; p != nil {
		switch p.Mode {
		case "", "basic":
			opts.Advanced = false
		case "advanced":
			opts.Advanced = true
		default:
			return opts, fmt.Errorf("preprocess.mode must be 'basic' or 'advanced', got %q", p.Mode)
		}
		setFloat(&opts.Contrast, p.Contrast)

		adv := &opts.Preprocess
		setBool(&adv.RemoveBackground, p.RemoveBackground)
		setBool(&adv.EnhanceColors, p.EnhanceColors)
		setFloat(&adv.Saturation, p.ColorBoost)
		setFloat(&adv.Contrast, p.ContrastBoost)
		setFloat(&adv.Brightness, p.BrightnessBoost)
		setBool(&adv.Simplify, p.SimplifyDetails)
		if p.Method != "" {
			m, err := preprocess.ParseMethod(p.Method)
			if err != nil {
				return opts, fmt.Errorf("preprocess.simplification_method: %w", err)
			}
			adv.Method = m
		}
		if p.Strength != "" {
			s, err := preprocess.ParseStrength(p.Strength)
			if err != nil {
				return opts, fmt.Errorf("preprocess.simplification_strength: %w", err)
			}
			adv.Strength = s
		}
	}

	if q := f.Quantize; q != nil {
		if q.Resampler != "" {
			r, err := quantize.ParseResampler(q.Resampler)
			if err != nil {
				return opts, fmt.Errorf("quantize.resampler: %w", err)
			}
			opts.Resampler = r
		}
		setBool(&opts.PreQuantize, q.PreQuantize)
		setBool(&opts.Dither, q.Dither)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
