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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufBytesWrite(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		inputs   [][]byte
		expected []byte
		written  int
	}{
		{
			name:     "Empty write",
			size:     10,
			inputs:   [][]byte{},
			expected: []byte{},
		},
		{
			name:     "Single fit",
			size:     5,
			inputs:   [][]byte{[]byte("hello")},
			expected: []byte("hello"),
			written:  5,
		},
		{
			name:     "Single write within capacity",
			size:     10,
			inputs:   [][]byte{[]byte("hello")},
			expected: []byte("hello"),
			written:  5,
		},
		{
			name:     "Single write exceeds capacity",
			size:     5,
			inputs:   [][]byte{[]byte("helloworld")},
			expected: []byte("hello"),
			written:  5,
		},
		{
			name:     "Multiple inputs within capacity",
			size:     10,
			inputs:   [][]byte{[]byte("hello"), []byte("world")},
			expected: []byte("helloworld"),
			written:  10,
		},
		{
			name:     "Multiple inputs exceed capacity",
			size:     8,
			inputs:   [][]byte{[]byte("hello"), []byte("world")},
			expected: []byte("hellowor"),
			written:  8,
		},
		{
			name:     "Write after full",
			size:     2,
			inputs:   [][]byte{[]byte("ab"), []byte("cd")},
			expected: []byte("ab"),
			written:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.size)
			var n int
			for _, input := range tt.inputs {
				n += b.Write(input)
			}
			assert.Equal(t, tt.expected, b.Clone())
			assert.Equal(t, tt.written, n)
			assert.Equal(t, tt.size-n, b.Available())
		})
	}
}

func TestBufBytesGrow(t *testing.T) {
	b := New(4)
	b.Write([]byte("abc"))

	b.Grow(1)
	assert.Equal(t, 4, b.Cap())

	b.Grow(6)
	assert.Equal(t, 16, b.Cap())
	assert.Equal(t, "abc", string(b.Bytes()))

	assert.Equal(t, 6, b.Write([]byte("defghi")))
	assert.Equal(t, "abcdefghi", string(b.Bytes()))
}

func TestBufBytesReset(t *testing.T) {
	b := New(4)
	b.Write([]byte("abcd"))
	assert.Equal(t, 0, b.Available())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Available())
	assert.NotNil(t, b.Clone())
	assert.Len(t, b.Clone(), 0)

	b.Write([]byte("xy"))
	assert.Equal(t, []byte("xy"), b.Bytes())
}

func TestBufBytesClone(t *testing.T) {
	b := New(4)
	b.Write([]byte("ab"))

	cloned := b.Clone()
	b.Reset()
	b.Write([]byte("zz"))
	assert.Equal(t, []byte("ab"), cloned)
}
