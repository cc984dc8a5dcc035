/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader layers configuration sources the way the teacher's cobra/viper
// pairing does: a compiled-in Default(), overridden by an optional file,
// overridden by SFNUL_-prefixed environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with no file bound yet. Call File before Load
// to read from disk; Load alone reads only environment and defaults.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("SFNUL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Loader{v: v}
}

// File binds path as the configuration file to read on Load. path's
// extension selects the decoder (yaml/yml/json/toml, anything viper
// itself supports).
func (l *Loader) File(path string) *Loader {
	l.v.SetConfigFile(path)
	return l
}

// Load merges Default() with whatever file was bound via File and any
// matching SFNUL_* environment variables, decodes the result into a
// Config via mapstructure, and validates it.
func (l *Loader) Load() (*Config, error) {
	base := Default()
	defaults, err := toStringMap(base)
	if err != nil {
		return nil, fmt.Errorf("config: encoding defaults: %w", err)
	}
	for k, v := range defaults {
		l.v.SetDefault(k, v)
	}

	if l.v.ConfigFileUsed() != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := &Config{}
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := l.v.Unmarshal(cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// toStringMap round-trips v through YAML into a generic map so its field
// values can seed viper's default layer using the same mapstructure tag
// names Unmarshal later reads back.
func toStringMap(v *Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return flatten("", out), nil
}

func flatten(prefix string, m map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}
