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

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel("unknown"))
}

func TestOptionsValidate(t *testing.T) {
	opt := Options{MaxSize: 5}
	opt.Validate()
	assert.Equal(t, Options{
		Filename:   "readline.log",
		MaxSize:    5,
		MaxAge:     7,
		MaxBackups: 10,
	}, opt)
}

func TestSetLoggerLevel(t *testing.T) {
	SetOptions(Options{Stdout: true, Level: "info"})
	assert.Equal(t, "info", GetLoggerLevel())

	SetLoggerLevel(" DEBUG ")
	assert.Equal(t, "debug", GetLoggerLevel())
	Debugf("level switched to %s", GetLoggerLevel())
}
