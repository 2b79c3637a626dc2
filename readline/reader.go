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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/packetd/readline/internal/zerocopy"
	"github.com/packetd/readline/logger"
)

// Reader 从数据源按块读取数据并交由 Splitter 切割
//
// 数据源可以是文件路径(由 Reader 打开并关闭) 已经打开的 io.Reader 或者内存中的字节数据
// Reader 只能 Run 一次
type Reader struct {
	cfg      Config
	path     string
	chunks   zerocopy.Reader
	closer   io.Closer
	desc     Descriptor
	splitter *Splitter
}

// Open 创建读取 path 的 *Reader 实例 文件在 Run 时打开
func Open(path string, cfg Config, h Handler) (*Reader, error) {
	splitter, err := NewSplitter(cfg, h)
	if err != nil {
		return nil, err
	}

	return &Reader{
		cfg:      splitter.cfg,
		path:     path,
		splitter: splitter,
	}, nil
}

// New 创建读取 r 的 *Reader 实例
//
// AutoClose 为 true 且 r 实现了 io.Closer 时 读取结束后会关闭 r
func New(r io.Reader, cfg Config, h Handler) (*Reader, error) {
	splitter, err := NewSplitter(cfg, h)
	if err != nil {
		return nil, err
	}

	rd := &Reader{
		cfg:      splitter.cfg,
		chunks:   zerocopy.FromReader(r),
		desc:     describe(r),
		splitter: splitter,
	}
	if c, ok := r.(io.Closer); ok && splitter.cfg.AutoClose {
		rd.closer = c
	}
	return rd, nil
}

// NewBytes 创建读取 b 的 *Reader 实例 b 按 ChunkSize 切块投递且不会被拷贝
func NewBytes(b []byte, cfg Config, h Handler) (*Reader, error) {
	splitter, err := NewSplitter(cfg, h)
	if err != nil {
		return nil, err
	}

	return &Reader{
		cfg:      splitter.cfg,
		chunks:   zerocopy.NewBuffer(b),
		desc:     Descriptor{Name: "bytes", Fd: -1},
		splitter: splitter,
	}, nil
}

// Splitter 返回 Reader 持有的 *Splitter 实例
func (r *Reader) Splitter() *Splitter {
	return r.splitter
}

// Run 读取数据源直至结束 出错或者 ctx 被取消
//
// ctx 仅在两次读取之间检查 阻塞中的 Read 由数据源自身负责超时
// ctx 取消时释放数据源并产生 close 通知 不会产生 end 通知
func (r *Reader) Run(ctx context.Context) error {
	if r.splitter.State() != StateUnopened {
		return invalidState("run", r.splitter.State())
	}

	if err := r.open(); err != nil {
		r.splitter.Fail(err)
		return r.splitter.Err()
	}
	if err := r.splitter.Open(r.desc); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			logger.Debugf("reader %s detached after %d lines: %v", r.desc.Name, r.splitter.LineCount(), err)
			if rerr := r.release(); rerr != nil {
				return multierror.Append(err, rerr)
			}
			r.splitter.Close()
			return err
		}

		chunk, err := r.chunks.Read(r.cfg.ChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			r.splitter.Fail(err)
			return r.abort(r.splitter.Err())
		}
		if _, err := r.splitter.Write(chunk); err != nil {
			return r.abort(err)
		}
	}

	if err := r.splitter.End(); err != nil {
		return r.abort(err)
	}
	if err := r.release(); err != nil {
		return err
	}
	return r.splitter.Close()
}

func (r *Reader) open() error {
	if r.path == "" {
		return nil
	}

	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	r.chunks = zerocopy.FromReader(f)
	r.closer = f
	r.desc = Descriptor{Name: r.path, Fd: int(f.Fd())}
	return nil
}

func (r *Reader) release() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	if err := c.Close(); err != nil {
		return &SourceError{Err: err}
	}
	return nil
}

// abort 在出错后释放数据源 不再产生任何通知
func (r *Reader) abort(err error) error {
	if rerr := r.release(); rerr != nil {
		return multierror.Append(err, rerr)
	}
	return err
}

func describe(r io.Reader) Descriptor {
	if f, ok := r.(*os.File); ok {
		return Descriptor{Name: f.Name(), Fd: int(f.Fd())}
	}
	if n, ok := r.(interface{ Name() string }); ok {
		return Descriptor{Name: n.Name(), Fd: -1}
	}
	return Descriptor{Name: fmt.Sprintf("%T", r), Fd: -1}
}
