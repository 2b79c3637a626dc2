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
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type segment struct {
	b          []byte
	terminated bool
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []segment
	}{
		{
			name:  "EmptyInput",
			input: []byte{},
			want:  nil,
		},
		{
			name:  "SingleLineWithoutLF",
			input: []byte("hello world"),
			want: []segment{
				{[]byte("hello world"), false},
			},
		},
		{
			name:  "SingleLineWithLF",
			input: []byte("hello\n"),
			want: []segment{
				{[]byte("hello"), true},
			},
		},
		{
			name:  "MultipleLines",
			input: []byte("line1\nline2\nline3\n"),
			want: []segment{
				{[]byte("line1"), true},
				{[]byte("line2"), true},
				{[]byte("line3"), true},
			},
		},
		{
			name:  "MixedLineEndings",
			input: []byte("unix\nwindows\r\nmac\r"),
			want: []segment{
				{[]byte("unix"), true},
				{[]byte("windows\r"), true},
				{[]byte("mac\r"), false},
			},
		},
		{
			name:  "ConsecutiveLFs",
			input: []byte("\n\n\n"),
			want: []segment{
				{[]byte{}, true},
				{[]byte{}, true},
				{[]byte{}, true},
			},
		},
		{
			name:  "BinaryData",
			input: []byte{0x00, 0x0A, 0xFF, 0x0A, 0x0D},
			want: []segment{
				{[]byte{0x00}, true},
				{[]byte{0xFF}, true},
				{[]byte{0x0D}, false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input)
			var segments []segment
			var total int
			for scanner.Scan() {
				segments = append(segments, segment{scanner.Bytes(), scanner.Terminated()})
				total += scanner.Len()
			}
			assert.Equal(t, tt.want, segments)
			assert.Equal(t, len(tt.input), total)
		})
	}
}

func TestScannerReset(t *testing.T) {
	scanner := NewScanner([]byte("a\nb"))
	for scanner.Scan() {
	}

	scanner.Reset([]byte("c\n"))
	assert.True(t, scanner.Scan())
	assert.Equal(t, []byte("c"), scanner.Bytes())
	assert.True(t, scanner.Terminated())
	assert.False(t, scanner.Scan())
}

func TestDropCR(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "NoCR", input: "abc", want: []string{"abc"}},
		{name: "OnlyCR", input: "\r\r", want: nil},
		{name: "Leading", input: "\rab", want: []string{"ab"}},
		{name: "Trailing", input: "ab\r", want: []string{"ab"}},
		{name: "Middle", input: "a\r\rb\rc", want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			DropCR([]byte(tt.input), func(p []byte) bool {
				got = append(got, string(p))
				return true
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDropCRStop(t *testing.T) {
	var got []string
	DropCR([]byte("a\rb\rc"), func(p []byte) bool {
		got = append(got, string(p))
		return len(got) < 2
	})
	assert.Equal(t, []string{"a", "b"}, got)
}

type mockScanner interface {
	Scan() bool
	Bytes() []byte
}

func BenchmarkZeroCopyScanner(b *testing.B) {
	benchmarkScanner(b, func(b []byte) mockScanner {
		return NewScanner(b)
	})
}

func BenchmarkBufioScanner(b *testing.B) {
	benchmarkScanner(b, func(b []byte) mockScanner {
		return bufio.NewScanner(bytes.NewBuffer(b))
	})
}

func benchmarkScanner(b *testing.B, f func([]byte) mockScanner) {
	var input []byte
	input = append(input, bytes.Repeat([]byte(strings.Repeat("x", 1024)+"\n"), 100)...)

	b.ReportAllocs()
	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	b.RunParallel(func(pb *testing.PB) {
		var n int
		for pb.Next() {
			scanner := f(input)
			for scanner.Scan() {
				line := scanner.Bytes()
				n += len(line)
			}
		}
	})
}
