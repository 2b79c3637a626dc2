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

package bufbytes

// Bytes 是一块定长的累积缓冲区
//
// 容量在创建时确定 写入超出容量的部分会被直接丢弃 调用方可以通过 Write 的返回值判断是否截断
// 如需扩容 显式调用 Grow
type Bytes struct {
	size int
	buf  []byte
}

// New 创建并返回 *Bytes 实例 底层内存一次性分配
func New(size int) *Bytes {
	return &Bytes{
		size: size,
		buf:  make([]byte, 0, size),
	}
}

// Write 写入 p 并返回实际写入的字节数
func (b *Bytes) Write(p []byte) int {
	l := b.size - len(b.buf)
	if l <= 0 {
		return 0
	}
	if len(p) > l {
		p = p[:l]
	}
	b.buf = append(b.buf, p...)
	return len(p)
}

// Grow 保证缓冲区至少还能容纳 n 字节 容量按倍数增长
func (b *Bytes) Grow(n int) {
	if b.Available() >= n {
		return
	}

	size := b.size
	if size <= 0 {
		size = 1
	}
	for size-len(b.buf) < n {
		size *= 2
	}
	b.size = size

	if cap(b.buf) < size {
		buf := make([]byte, len(b.buf), size)
		copy(buf, b.buf)
		b.buf = buf
	}
}

// Available 返回剩余可写入的字节数
func (b *Bytes) Available() int {
	return b.size - len(b.buf)
}

func (b *Bytes) Len() int {
	return len(b.buf)
}

func (b *Bytes) Cap() int {
	return b.size
}

// Bytes 返回已写入的数据 下一次 Write 或 Reset 之后失效
func (b *Bytes) Bytes() []byte {
	return b.buf
}

// Clone 拷贝一份已写入的数据 空缓冲区返回长度为 0 的非 nil 切片
func (b *Bytes) Clone() []byte {
	return append([]byte{}, b.buf...)
}

// Reset 清空缓冲区 不释放底层内存
func (b *Bytes) Reset() {
	b.buf = b.buf[:0]
}
