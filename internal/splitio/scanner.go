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

package splitio

import (
	"bytes"
)

const (
	CharLF = '\n'
	CharCR = '\r'
)

// Scanner 将单个数据块切割成以 LF 结尾的片段
//
// 数据块边界不保证与行边界对齐 最后一个片段可能不以 LF 结尾 由调用方负责跨块拼接
// Scanner 不拷贝任何数据 返回的切片均为原始数据块的视图
type Scanner struct {
	l, r       int
	terminated bool
	buf        []byte
}

// NewScanner 创建并返回 *Scanner 实例
func NewScanner(b []byte) *Scanner {
	return &Scanner{
		buf: b,
	}
}

// Reset 复用 Scanner 扫描新的数据块
func (s *Scanner) Reset(b []byte) {
	s.l, s.r = 0, 0
	s.terminated = false
	s.buf = b
}

// Scan 扫描下一个 LF 字符并标记索引
func (s *Scanner) Scan() bool {
	s.l = s.r
	if len(s.buf) == s.l {
		return false
	}

	idx := bytes.IndexByte(s.buf[s.l:], CharLF)
	if idx == -1 {
		s.r = len(s.buf)
		s.terminated = false
	} else {
		s.r = s.l + idx + 1
		s.terminated = true
	}
	return true
}

// Bytes 返回当前片段 不包含结尾的 LF
func (s *Scanner) Bytes() []byte {
	if s.terminated {
		return s.buf[s.l : s.r-1]
	}
	return s.buf[s.l:s.r]
}

// Terminated 返回当前片段是否以 LF 结尾
func (s *Scanner) Terminated() bool {
	return s.terminated
}

// Len 返回当前片段在原始数据块中占用的字节数 包含 LF
func (s *Scanner) Len() int {
	return s.r - s.l
}

// DropCR 依次将 b 中不含 CR 的连续片段交给 fn 处理
//
// fn 返回 false 时提前终止
func DropCR(b []byte, fn func(p []byte) bool) {
	for len(b) > 0 {
		idx := bytes.IndexByte(b, CharCR)
		if idx == -1 {
			fn(b)
			return
		}
		if idx > 0 && !fn(b[:idx]) {
			return
		}
		b = b[idx+1:]
	}
}
