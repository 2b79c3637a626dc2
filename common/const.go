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

package common

import "time"

const (
	// App 应用程序名称
	App = "readline"

	// Version 应用程序版本
	Version = "v0.1.0"

	// DefaultCapacityBytes 单行累积缓冲区的默认长度
	DefaultCapacityBytes = 4096

	// DefaultChunkSize 从数据源单次读取的默认块大小
	DefaultChunkSize = 64 << 10
)

var started = time.Now().Unix()

// Started 返回进程启动时间戳
func Started() int64 {
	return started
}
