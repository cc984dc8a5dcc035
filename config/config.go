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

// Package config is the top-level application configuration loader: one
// Config struct assembling every component's own option bag, decoded
// through viper's layered file/env sources and validated with
// go-playground/validator. This is distinct from socket/config, which only
// holds the per-socket buffer/TLS settings the sockets themselves consume.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/binary1248/sfnul-go/logger"
	scfg "github.com/binary1248/sfnul-go/socket/config"
)

var validate = validator.New()

// Reactor configures the worker pool (spec §4.1/§5).
type Reactor struct {
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" validate:"gte=1"`
}

// Synchronizer configures the object-replication protocol (spec §3, §4.9).
type Synchronizer struct {
	StreamPeriod time.Duration `mapstructure:"stream_period" json:"stream_period" yaml:"stream_period" validate:"gte=0"`
}

// Config is the effective, validated configuration for one sfnul-go
// process: how many reactor workers to run, how to log, which TCP/UDP
// listeners and outbound clients to bring up, and the Synchronizer's
// timing.
type Config struct {
	Reactor      Reactor         `mapstructure:"reactor" json:"reactor" yaml:"reactor"`
	Log          logger.Options  `mapstructure:"log" json:"log" yaml:"log"`
	Synchronizer Synchronizer    `mapstructure:"synchronizer" json:"synchronizer" yaml:"synchronizer"`
	Listeners    []scfg.Server   `mapstructure:"listeners" json:"listeners" yaml:"listeners"`
	Clients      []scfg.Client   `mapstructure:"clients" json:"clients" yaml:"clients"`
}

// Default returns a Config populated with this module's documented
// defaults (spec §5/§6/§3), suitable as the base layer viper merges file
// and environment sources on top of.
func Default() *Config {
	return &Config{
		Reactor: Reactor{Workers: 4},
		Log:     logger.Options{Level: "info"},
		Synchronizer: Synchronizer{
			StreamPeriod: 1000 * time.Millisecond,
		},
	}
}

// Validate checks struct tags on Config and every nested Listener/Client,
// matching the per-subsystem Validate methods those structs already
// expose (socket/config.Server.Validate, socket/config.Client.Validate,
// certificates.Config.Validate via the TLS field inside them).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for i := range c.Listeners {
		if err := c.Listeners[i].Validate(); err != nil {
			return err
		}
	}
	for i := range c.Clients {
		if err := c.Clients[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
