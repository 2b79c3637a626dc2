// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"github.com/packetd/readline/confengine"
	"github.com/packetd/readline/readline"
	"github.com/packetd/readline/sinker"
)

// TailConfig 实时订阅 /lines 配置
type TailConfig struct {
	Enabled bool `config:"enabled"`

	// QueueSize 每个订阅方的缓冲长度 写满后新消息被丢弃
	QueueSize int `config:"queueSize"`
}

func (c *TailConfig) Validate() {
	if c.QueueSize <= 0 {
		c.QueueSize = 100
	}
}

type Config struct {
	Reader readline.Config
	Sinker sinker.Config
	Tail   TailConfig
}

func loadConfig(conf *confengine.Config) (Config, error) {
	cfg := Config{
		Reader: readline.DefaultConfig(),
		Sinker: sinker.Config{Console: true},
	}

	if err := conf.UnpackChild("reader", &cfg.Reader); err != nil {
		return cfg, err
	}
	if err := cfg.Reader.Validate(); err != nil {
		return cfg, err
	}

	if err := conf.UnpackChild("sinker", &cfg.Sinker); err != nil {
		return cfg, err
	}
	if err := cfg.Sinker.Validate(); err != nil {
		return cfg, err
	}

	if err := conf.UnpackChild("tail", &cfg.Tail); err != nil {
		return cfg, err
	}
	cfg.Tail.Validate()
	return cfg, nil
}
