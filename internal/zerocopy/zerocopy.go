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

package zerocopy

import (
	"io"
)

// maxEmptyReads 连续读取到 0 字节且无错误的最大次数 超过后返回 io.ErrNoProgress
const maxEmptyReads = 100

// Reader ZeroCopy-API
//
// Reader Read 读取至多 n 字节数据 返回的切片在下一次 Read 之前有效
// 数据读取完毕时返回 io.EOF
type Reader interface {
	Read(n int) ([]byte, error)
}

type buffer struct {
	r int
	b []byte
}

// NewBuffer 创建并返回 Reader 实例
//
// 用于将内存中的完整数据按块投递给下游 调用方 `不允许修改任何字节数据`
func NewBuffer(p []byte) Reader {
	return &buffer{
		b: p,
	}
}

// Read 实现 Reader 接口
func (buf *buffer) Read(n int) ([]byte, error) {
	if buf.r == len(buf.b) {
		return nil, io.EOF
	}

	if buf.r+n >= len(buf.b) {
		b := buf.b[buf.r:len(buf.b)]
		buf.r = len(buf.b)
		return b, nil
	}

	b := buf.b[buf.r : buf.r+n]
	buf.r += n
	return b, nil
}

type ioReader struct {
	r   io.Reader
	buf []byte
	err error
}

// FromReader 将 io.Reader 适配为 Reader
//
// 内部复用同一块读缓冲区 返回的切片在下一次 Read 时会被覆盖
// 对于同时返回数据和错误的 io.Reader 先交付数据 错误在下一次 Read 时返回
func FromReader(r io.Reader) Reader {
	return &ioReader{r: r}
}

// Read 实现 Reader 接口
func (ir *ioReader) Read(n int) ([]byte, error) {
	if ir.err != nil {
		return nil, ir.err
	}
	if n <= 0 {
		n = 1
	}
	if cap(ir.buf) < n {
		ir.buf = make([]byte, n)
	}

	for i := 0; i < maxEmptyReads; i++ {
		nr, err := ir.r.Read(ir.buf[:n])
		if err != nil {
			ir.err = err
		}
		if nr > 0 {
			return ir.buf[:nr], nil
		}
		if err != nil {
			return nil, err
		}
	}

	ir.err = io.ErrNoProgress
	return nil, ir.err
}
