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

package readline

import (
	"github.com/packetd/readline/common"
)

// Encoding 行内容解码使用的固定字符集 非法字节序列会被替换为 U+FFFD
const Encoding = "utf-8"

// 超出 CapacityBytes 时的处理策略
const (
	// OverflowTruncate 丢弃超出部分 字节仍然计入 byteCount 并在 Line 上标记 Truncated
	OverflowTruncate = "truncate"

	// OverflowError 产生 ErrBufferOverflow 并终止
	OverflowError = "error"

	// OverflowGrow 按倍数扩容缓冲区
	OverflowGrow = "grow"
)

type Config struct {
	// CapacityBytes 单行累积缓冲区长度
	CapacityBytes int `config:"capacityBytes"`

	// RetainBuffer 为 true 时 Line 携带原始字节 否则携带解码后的文本
	RetainBuffer bool `config:"retainBuffer"`

	// Overflow 缓冲区溢出策略 truncate/error/grow
	Overflow string `config:"overflow"`

	// ChunkSize Reader 单次从数据源读取的字节数
	ChunkSize int `config:"chunkSize"`

	// AutoClose 数据读取结束后是否关闭外部传入的 io.Closer
	AutoClose bool `config:"autoClose"`
}

// DefaultConfig 返回默认配置 解析配置文件前应先以此填充
func DefaultConfig() Config {
	return Config{
		CapacityBytes: common.DefaultCapacityBytes,
		Overflow:      OverflowTruncate,
		ChunkSize:     common.DefaultChunkSize,
		AutoClose:     true,
	}
}

// Validate 校验配置并补齐可缺省的字段
func (c *Config) Validate() error {
	if c.CapacityBytes <= 0 {
		return invalidConfig("capacityBytes must be positive, got %d", c.CapacityBytes)
	}

	switch c.Overflow {
	case "":
		c.Overflow = OverflowTruncate
	case OverflowTruncate, OverflowError, OverflowGrow:
	default:
		return invalidConfig("unknown overflow policy %q", c.Overflow)
	}

	if c.ChunkSize <= 0 {
		c.ChunkSize = common.DefaultChunkSize
	}
	return nil
}

// NewConfigFromOptions 从松散类型的配置项中构造 Config
//
// 可识别的 key 为 capacityBytes/retainBuffer/overflow/chunkSize/autoClose 缺省的 key 使用默认值
func NewConfigFromOptions(opts common.Options) (Config, error) {
	cfg := DefaultConfig()

	var err error
	if opts.Has("capacityBytes") {
		if cfg.CapacityBytes, err = opts.GetInt("capacityBytes"); err != nil {
			return cfg, invalidConfig("capacityBytes: %v", err)
		}
	}
	if opts.Has("retainBuffer") {
		if cfg.RetainBuffer, err = opts.GetBool("retainBuffer"); err != nil {
			return cfg, invalidConfig("retainBuffer: %v", err)
		}
	}
	if opts.Has("overflow") {
		if cfg.Overflow, err = opts.GetString("overflow"); err != nil {
			return cfg, invalidConfig("overflow: %v", err)
		}
	}
	if opts.Has("chunkSize") {
		if cfg.ChunkSize, err = opts.GetInt("chunkSize"); err != nil {
			return cfg, invalidConfig("chunkSize: %v", err)
		}
	}
	if opts.Has("autoClose") {
		if cfg.AutoClose, err = opts.GetBool("autoClose"); err != nil {
			return cfg, invalidConfig("autoClose: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
