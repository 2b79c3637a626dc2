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
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/packetd/readline/internal/bufbytes"
	"github.com/packetd/readline/internal/rescue"
	"github.com/packetd/readline/internal/splitio"
)

// State Splitter 生命周期状态
//
// UNOPENED -> OPEN -> ENDED -> CLOSED
// OPEN 状态下可以随时进入 ERRORED 终态
type State int

const (
	StateUnopened State = iota
	StateOpen
	StateEnded
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "UNOPENED"
	case StateOpen:
		return "OPEN"
	case StateEnded:
		return "ENDED"
	case StateClosed:
		return "CLOSED"
	case StateErrored:
		return "ERRORED"
	}
	return "UNKNOWN"
}

// Splitter 将按块推送的字节流切割成行
//
// `\n` 结束一行 `\r` 被直接丢弃且不会结束一行 两者均计入 byteCount
// 任意时刻内存中只保留一行未完成的数据 跨数据块的行会被正确拼接
//
// Splitter 不是并发安全的 每个数据源应使用独立的实例
type Splitter struct {
	cfg     Config
	handler Handler
	buf     *bufbytes.Bytes
	scanner *splitio.Scanner

	state     State
	err       error
	lines     int64
	bytes     int64
	truncated bool
}

// NewSplitter 创建并返回 *Splitter 实例
//
// CapacityBytes 非正数时返回 ErrInvalidConfiguration
func NewSplitter(cfg Config, h Handler) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, invalidConfig("nil handler")
	}

	return &Splitter{
		cfg:     cfg,
		handler: h,
		buf:     bufbytes.New(cfg.CapacityBytes),
		scanner: splitio.NewScanner(nil),
	}, nil
}

func (s *Splitter) State() State {
	return s.state
}

// Err 返回导致 ERRORED 的错误
func (s *Splitter) Err() error {
	return s.err
}

// LineCount 返回已经产生的行数
func (s *Splitter) LineCount() int64 {
	return s.lines
}

// ByteCount 返回已经处理的字节数
func (s *Splitter) ByteCount() int64 {
	return s.bytes
}

// Open 标记数据源已经打开 并产生 open 通知
func (s *Splitter) Open(desc Descriptor) error {
	if s.state != StateUnopened {
		return invalidState("open", s.state)
	}

	s.state = StateOpen
	s.handler.OnOpen(desc)
	return nil
}

// Write 处理一个数据块 实现 io.Writer 接口
//
// 未调用 Open 时会以空 Descriptor 隐式打开
// 进入 ERRORED 状态后返回导致错误的原因 返回的 n 为已经处理的字节数
func (s *Splitter) Write(p []byte) (int, error) {
	if err := s.ensureOpen("write"); err != nil {
		return 0, err
	}

	var n int
	s.scanner.Reset(p)
	for s.scanner.Scan() {
		if !s.appendSegment(s.scanner.Bytes()) {
			return n, s.err
		}

		size := s.scanner.Len()
		n += size
		s.bytes += int64(size)
		bytesTotal.Add(float64(size))

		if s.scanner.Terminated() {
			if !s.flush() {
				return n, s.err
			}
		}
	}
	return n, nil
}

// End 标记数据源已经读取完毕
//
// 缓冲区中残留的未以 `\n` 结尾的数据会作为最后一行产生 随后产生 end 通知
func (s *Splitter) End() error {
	if err := s.ensureOpen("end"); err != nil {
		return err
	}

	if s.buf.Len() > 0 {
		if !s.flush() {
			return s.err
		}
	}

	s.state = StateEnded
	s.handler.OnEnd()
	return nil
}

// Fail 报告数据源读取失败
//
// 进入 ERRORED 终态 缓冲区中未完成的行被丢弃 此后不再产生任何通知
func (s *Splitter) Fail(err error) error {
	switch s.state {
	case StateUnopened, StateOpen:
	default:
		return invalidState("fail", s.state)
	}

	var se *SourceError
	if !errors.As(err, &se) {
		err = &SourceError{Err: err}
	}
	s.fail(err, "source")
	return nil
}

// Close 标记数据源已经释放 并产生 close 通知
//
// 未结束的 Splitter 也允许 Close 此时不会产生 end 通知 缓冲区中的数据被丢弃
// 未打开的 Splitter 不允许 Close close 通知总是在 open 之后
func (s *Splitter) Close() error {
	switch s.state {
	case StateUnopened, StateErrored, StateClosed:
		return invalidState("close", s.state)
	}

	s.buf.Reset()
	s.state = StateClosed
	s.handler.OnClose()
	return nil
}

func (s *Splitter) ensureOpen(op string) error {
	switch s.state {
	case StateUnopened:
		return s.Open(Descriptor{Fd: -1})
	case StateOpen:
		return nil
	case StateErrored:
		return s.err
	}
	return invalidState(op, s.state)
}

// appendSegment 将不含 `\n` 的片段移除 `\r` 后写入缓冲区
func (s *Splitter) appendSegment(seg []byte) bool {
	ok := true
	splitio.DropCR(seg, func(p []byte) bool {
		ok = s.appendRun(p)
		return ok
	})
	return ok
}

func (s *Splitter) appendRun(p []byte) bool {
	switch s.cfg.Overflow {
	case OverflowGrow:
		s.buf.Grow(len(p))

	case OverflowError:
		if len(p) > s.buf.Available() {
			err := errors.Wrapf(ErrBufferOverflow, "line %d exceeds %d bytes", s.lines+1, s.buf.Cap())
			s.fail(err, "overflow")
			return false
		}
	}

	if n := s.buf.Write(p); n < len(p) {
		s.truncated = true
		overflowBytesTotal.Add(float64(len(p) - n))
	}
	return true
}

// flush 产生一行并清空缓冲区 回调 panic 时进入 ERRORED 并返回 false
func (s *Splitter) flush() bool {
	s.lines++
	line := Line{
		Number:    s.lines,
		Bytes:     s.bytes,
		Truncated: s.truncated,
	}
	if s.cfg.RetainBuffer {
		line.Raw = s.buf.Clone()
	} else {
		line.Text = decodeText(s.buf.Bytes())
	}
	s.buf.Reset()
	s.truncated = false

	linesTotal.Inc()
	if err := s.deliver(line); err != nil {
		s.fail(err, "handler")
		return false
	}
	return true
}

func (s *Splitter) deliver(line Line) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rescue.Handle(r)
			err = errors.Wrapf(ErrHandlerPanic, "line %d: %v", line.Number, r)
		}
	}()

	s.handler.OnLine(line)
	return nil
}

func (s *Splitter) fail(err error, reason string) {
	s.buf.Reset()
	s.err = err
	s.state = StateErrored
	errorsTotal.WithLabelValues(reason).Inc()
	s.handler.OnError(err)
}

func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
