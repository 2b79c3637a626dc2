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

// Descriptor 描述已经打开的数据源
type Descriptor struct {
	// Name 数据源名称 文件路径或者类型名
	Name string

	// Fd 文件描述符 非文件类数据源为 -1
	Fd int
}

// Line 代表一行已经完成切割的数据 不包含 `\n` 且所有 `\r` 均已移除
type Line struct {
	// Text 解码后的文本 RetainBuffer 为 true 时为空
	Text string

	// Raw 原始字节 仅在 RetainBuffer 为 true 时设置 为 Splitter 内部缓冲区的拷贝
	Raw []byte

	// Number 行号 从 1 开始
	Number int64

	// Bytes 截至此行(包含其 `\n`)从数据源读取的字节总数
	Bytes int64

	// Truncated 行内容因超出 CapacityBytes 而被截断
	Truncated bool
}

// Content 返回行内容 忽略 RetainBuffer 差异
func (l Line) Content() string {
	if l.Raw != nil {
		return string(l.Raw)
	}
	return l.Text
}

// Handler 接收 Splitter 产生的通知
//
// 所有回调均在驱动 Splitter 的 goroutine 中同步执行 实现方不应阻塞
type Handler interface {
	OnOpen(desc Descriptor)
	OnLine(line Line)
	OnError(err error)
	OnEnd()
	OnClose()
}

// HandlerFuncs 允许只关心部分通知 未设置的回调会被忽略
type HandlerFuncs struct {
	Open  func(desc Descriptor)
	Line  func(line Line)
	Error func(err error)
	End   func()
	Close func()
}

func (h HandlerFuncs) OnOpen(desc Descriptor) {
	if h.Open != nil {
		h.Open(desc)
	}
}

func (h HandlerFuncs) OnLine(line Line) {
	if h.Line != nil {
		h.Line(line)
	}
}

func (h HandlerFuncs) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}

func (h HandlerFuncs) OnEnd() {
	if h.End != nil {
		h.End()
	}
}

func (h HandlerFuncs) OnClose() {
	if h.Close != nil {
		h.Close()
	}
}

type multiHandler []Handler

// Multi 将通知按顺序分发给多个 Handler
func Multi(handlers ...Handler) Handler {
	return multiHandler(handlers)
}

func (m multiHandler) OnOpen(desc Descriptor) {
	for _, h := range m {
		h.OnOpen(desc)
	}
}

func (m multiHandler) OnLine(line Line) {
	for _, h := range m {
		h.OnLine(line)
	}
}

func (m multiHandler) OnError(err error) {
	for _, h := range m {
		h.OnError(err)
	}
}

func (m multiHandler) OnEnd() {
	for _, h := range m {
		h.OnEnd()
	}
}

func (m multiHandler) OnClose() {
	for _, h := range m {
		h.OnClose()
	}
}

type EventKind string

const (
	EventOpen  EventKind = "open"
	EventLine  EventKind = "line"
	EventError EventKind = "error"
	EventEnd   EventKind = "end"
	EventClose EventKind = "close"
)

// Event 是通知的值表示 用于记录与转发
type Event struct {
	Kind       EventKind
	Descriptor Descriptor
	Line       Line
	Err        error
}

// Recorder 按顺序记录所有通知 非并发安全
type Recorder struct {
	events []Event
}

func (r *Recorder) OnOpen(desc Descriptor) {
	r.events = append(r.events, Event{Kind: EventOpen, Descriptor: desc})
}

func (r *Recorder) OnLine(line Line) {
	r.events = append(r.events, Event{Kind: EventLine, Line: line})
}

func (r *Recorder) OnError(err error) {
	r.events = append(r.events, Event{Kind: EventError, Err: err})
}

func (r *Recorder) OnEnd() {
	r.events = append(r.events, Event{Kind: EventEnd})
}

func (r *Recorder) OnClose() {
	r.events = append(r.events, Event{Kind: EventClose})
}

func (r *Recorder) Events() []Event {
	return r.events
}

// Kinds 返回通知类型序列
func (r *Recorder) Kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *Recorder) Lines() []Line {
	var lines []Line
	for _, e := range r.events {
		if e.Kind == EventLine {
			lines = append(lines, e.Line)
		}
	}
	return lines
}

// Contents 返回所有行的内容
func (r *Recorder) Contents() []string {
	var contents []string
	for _, line := range r.Lines() {
		contents = append(contents, line.Content())
	}
	return contents
}

// Errors 返回所有错误通知
func (r *Recorder) Errors() []error {
	var errs []error
	for _, e := range r.events {
		if e.Kind == EventError {
			errs = append(errs, e.Err)
		}
	}
	return errs
}
