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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct {
	io.Reader
	closed int
	err    error
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.err
}

type namedReader struct {
	io.Reader
}

func (namedReader) Name() string {
	return "named"
}

func TestReaderBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 3

	rec := &Recorder{}
	r, err := NewBytes([]byte("hello\nworld"), cfg, rec)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []EventKind{EventOpen, EventLine, EventLine, EventEnd, EventClose}, rec.Kinds())
	assert.Equal(t, Descriptor{Name: "bytes", Fd: -1}, rec.Events()[0].Descriptor)
	assert.Equal(t, []string{"hello", "world"}, rec.Contents())
	assert.Equal(t, StateClosed, r.Splitter().State())
	assert.Equal(t, int64(11), r.Splitter().ByteCount())
}

func TestReaderPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	content := strings.Repeat("0123456789\r\n", 1000) + "tail"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := DefaultConfig()
	cfg.ChunkSize = 100

	rec := &Recorder{}
	r, err := Open(path, cfg, rec)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	events := rec.Events()
	assert.Equal(t, path, events[0].Descriptor.Name)
	assert.GreaterOrEqual(t, events[0].Descriptor.Fd, 0)

	lines := rec.Lines()
	require.Len(t, lines, 1001)
	assert.Equal(t, "0123456789", lines[0].Text)
	assert.Equal(t, "tail", lines[1000].Text)
	assert.Equal(t, int64(len(content)), lines[1000].Bytes)

	kinds := rec.Kinds()
	assert.Equal(t, []EventKind{EventEnd, EventClose}, kinds[len(kinds)-2:])
}

func TestReaderPathNotExist(t *testing.T) {
	rec := &Recorder{}
	r, err := Open(filepath.Join(t.TempDir(), "missing"), DefaultConfig(), rec)
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrSourceRead))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, []EventKind{EventError}, rec.Kinds())
}

func TestReaderSourceFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &closeCounter{Reader: io.MultiReader(strings.NewReader("one\ntwo"), iotest.ErrReader(boom))}

	rec := &Recorder{}
	r, err := New(src, DefaultConfig(), rec)
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrSourceRead))
	assert.True(t, errors.Is(err, boom))

	assert.Equal(t, []EventKind{EventOpen, EventLine, EventError}, rec.Kinds())
	assert.Equal(t, []string{"one"}, rec.Contents())
	assert.Equal(t, 1, src.closed)
}

// stalledReader 先交付数据 之后每次读取都返回 0 字节且无错误
type stalledReader struct {
	data []byte
}

func (r *stalledReader) Read(p []byte) (int, error) {
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestReaderNoProgress(t *testing.T) {
	rec := &Recorder{}
	r, err := New(&stalledReader{data: []byte("one\ntw")}, DefaultConfig(), rec)
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrSourceRead))
	assert.True(t, errors.Is(err, io.ErrNoProgress))
	assert.Equal(t, []EventKind{EventOpen, EventLine, EventError}, rec.Kinds())
	assert.Equal(t, []string{"one"}, rec.Contents())
}

func TestReaderAutoClose(t *testing.T) {
	tests := []struct {
		name      string
		autoClose bool
		closed    int
	}{
		{name: "Enabled", autoClose: true, closed: 1},
		{name: "Disabled", autoClose: false, closed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &closeCounter{Reader: strings.NewReader("a\nb\n")}
			cfg := DefaultConfig()
			cfg.AutoClose = tt.autoClose

			rec := &Recorder{}
			r, err := New(src, cfg, rec)
			require.NoError(t, err)
			require.NoError(t, r.Run(context.Background()))

			assert.Equal(t, tt.closed, src.closed)
			assert.Equal(t, []EventKind{EventOpen, EventLine, EventLine, EventEnd, EventClose}, rec.Kinds())
		})
	}
}

func TestReaderCloseFailure(t *testing.T) {
	closeErr := errors.New("close failed")
	src := &closeCounter{Reader: strings.NewReader("a\n"), err: closeErr}

	rec := &Recorder{}
	r, err := New(src, DefaultConfig(), rec)
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, closeErr))
	assert.Equal(t, []EventKind{EventOpen, EventLine, EventEnd}, rec.Kinds())
}

func TestReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &closeCounter{Reader: strings.NewReader("a\nb\n")}
	rec := &Recorder{}
	r, err := New(src, DefaultConfig(), rec)
	require.NoError(t, err)

	err = r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []EventKind{EventOpen, EventClose}, rec.Kinds())
	assert.Equal(t, 1, src.closed)
}

func TestReaderCancelMidStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := DefaultConfig()
	cfg.ChunkSize = 2

	rec := &Recorder{}
	h := Multi(rec, HandlerFuncs{
		Line: func(line Line) {
			if line.Number == 1 {
				cancel()
			}
		},
	})
	r, err := NewBytes([]byte("a\nb\nc\n"), cfg, h)
	require.NoError(t, err)

	err = r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []EventKind{EventOpen, EventLine, EventClose}, rec.Kinds())
}

func TestReaderOverflowError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapacityBytes = 2
	cfg.Overflow = OverflowError

	rec := &Recorder{}
	r, err := NewBytes([]byte("ok\ntoo long\n"), cfg, rec)
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBufferOverflow))
	assert.Equal(t, []EventKind{EventOpen, EventLine, EventError}, rec.Kinds())
}

func TestReaderRunTwice(t *testing.T) {
	r, err := NewBytes([]byte("x"), DefaultConfig(), &Recorder{})
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.True(t, errors.Is(r.Run(context.Background()), ErrInvalidState))
}

func TestReaderInvalidConfiguration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CapacityBytes = 0

	_, err := Open("whatever", cfg, &Recorder{})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = New(strings.NewReader(""), cfg, &Recorder{})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	_, err = NewBytes(nil, cfg, &Recorder{})
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestReaderEmptySource(t *testing.T) {
	rec := &Recorder{}
	r, err := New(strings.NewReader(""), DefaultConfig(), rec)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	assert.Empty(t, rec.Lines())
	assert.Equal(t, []EventKind{EventOpen, EventEnd, EventClose}, rec.Kinds())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, Descriptor{Name: "named", Fd: -1}, describe(namedReader{}))
	assert.Equal(t, Descriptor{Name: "*strings.Reader", Fd: -1}, describe(strings.NewReader("")))

	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer f.Close()
	desc := describe(f)
	assert.Equal(t, os.DevNull, desc.Name)
	assert.GreaterOrEqual(t, desc.Fd, 0)
}
