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
	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "readline: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrInvalidConfiguration 配置不合法 构造时同步返回
	ErrInvalidConfiguration = newError("invalid configuration")

	// ErrBufferOverflow 单行长度超出 CapacityBytes 仅在 OverflowError 策略下产生
	ErrBufferOverflow = newError("buffer overflow")

	// ErrSourceRead 数据源读取失败
	ErrSourceRead = newError("source read failure")

	// ErrInvalidState 当前状态不允许此操作
	ErrInvalidState = newError("invalid state")

	// ErrHandlerPanic 行回调发生 panic
	ErrHandlerPanic = newError("handler panic")
)

func invalidConfig(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

func invalidState(op string, state State) error {
	return errors.Wrapf(ErrInvalidState, "%s in state %s", op, state)
}

// SourceError 包装数据源返回的错误
//
// errors.Is(err, ErrSourceRead) 成立 同时可以 Unwrap 出原始错误
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return ErrSourceRead.Error() + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceRead
}
