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

package sinker

import (
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/packetd/readline/logger"
	"github.com/packetd/readline/readline"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Console    bool   `config:"console"`
	Format     string `config:"format"`
	WithNumber bool   `config:"withNumber"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"` // unit: days
}

func (c *Config) Validate() error {
	switch c.Format {
	case "":
		c.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("sinker: unknown format %q", c.Format)
	}

	if c.Filename == "" {
		c.Filename = "readline.lines"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Record 为 json 格式下单行的输出结构
type Record struct {
	Source    string `json:"source"`
	Number    int64  `json:"number"`
	Bytes     int64  `json:"bytes"`
	Text      string `json:"text,omitempty"`
	Raw       []byte `json:"raw,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Sinker 将切割后的行写入 stdout 或者滚动文件 实现 readline.Handler 接口
//
// 同一个 Sinker 可以先后服务多个数据源 但不允许并发使用
type Sinker struct {
	wr      io.WriteCloser
	cfg     Config
	encoder *json.Encoder
	source  string
	written int64
	err     error
}

func New(cfg Config) (*Sinker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var wr io.WriteCloser
	switch {
	case cfg.Console:
		wr = nopCloser{Writer: os.Stdout}
	default:
		wr = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  true,
		}
	}
	return newSinker(cfg, wr), nil
}

// NewWriter 创建写入 w 的 Sinker 实例 Close 不会关闭 w
func NewWriter(cfg Config, w io.Writer) (*Sinker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newSinker(cfg, nopCloser{Writer: w}), nil
}

func newSinker(cfg Config, wr io.WriteCloser) *Sinker {
	return &Sinker{
		wr:      wr,
		cfg:     cfg,
		encoder: json.NewEncoder(wr),
	}
}

// Written 返回成功写入的行数
func (s *Sinker) Written() int64 {
	return s.written
}

// Err 返回当前数据源第一次写入失败的错误
//
// 写入失败后当前数据源剩余的行被丢弃 下一个数据源 open 时重置
func (s *Sinker) Err() error {
	return s.err
}

func (s *Sinker) OnOpen(desc readline.Descriptor) {
	s.source = desc.Name
	s.err = nil
	logger.Debugf("sinker: source %s opened (fd=%d)", desc.Name, desc.Fd)
}

func (s *Sinker) OnLine(line readline.Line) {
	if s.err != nil {
		return
	}

	var err error
	switch s.cfg.Format {
	case FormatJSON:
		err = s.encoder.Encode(Record{
			Source:    s.source,
			Number:    line.Number,
			Bytes:     line.Bytes,
			Text:      line.Text,
			Raw:       line.Raw,
			Truncated: line.Truncated,
		})
	default:
		err = s.writeText(line)
	}

	if err != nil {
		s.err = errors.Wrapf(err, "sinker: write line %d", line.Number)
		logger.Errorf("sinker: failed to write line %d of %s: %v", line.Number, s.source, err)
		return
	}
	s.written++
}

func (s *Sinker) writeText(line readline.Line) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if s.cfg.WithNumber {
		buf.B = strconv.AppendInt(buf.B, line.Number, 10)
		buf.B = append(buf.B, '\t')
	}
	if line.Raw != nil {
		buf.B = append(buf.B, line.Raw...)
	} else {
		buf.B = append(buf.B, line.Text...)
	}
	buf.B = append(buf.B, '\n')

	_, err := s.wr.Write(buf.B)
	return err
}

func (s *Sinker) OnError(err error) {
	logger.Errorf("sinker: source %s failed: %v", s.source, err)
}

func (s *Sinker) OnEnd() {
	logger.Debugf("sinker: source %s ended", s.source)
}

func (s *Sinker) OnClose() {
	logger.Debugf("sinker: source %s closed", s.source)
}

func (s *Sinker) Close() error {
	return s.wr.Close()
}
