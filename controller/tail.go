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

package controller

import (
	"github.com/packetd/readline/internal/pubsub"
	"github.com/packetd/readline/readline"
)

// TailRecord 为 /lines 输出的单条记录
type TailRecord struct {
	Kind      readline.EventKind `json:"kind"`
	Source    string             `json:"source"`
	Number    int64              `json:"number,omitempty"`
	Bytes     int64              `json:"bytes,omitempty"`
	Text      string             `json:"text,omitempty"`
	Truncated bool               `json:"truncated,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// tailHandler 将单个数据源的通知广播给所有订阅方
type tailHandler struct {
	bus    *pubsub.PubSub[TailRecord]
	source string
}

func (h *tailHandler) OnOpen(desc readline.Descriptor) {
	h.source = desc.Name
	h.bus.Publish(TailRecord{Kind: readline.EventOpen, Source: h.source})
}

func (h *tailHandler) OnLine(line readline.Line) {
	h.bus.Publish(TailRecord{
		Kind:      readline.EventLine,
		Source:    h.source,
		Number:    line.Number,
		Bytes:     line.Bytes,
		Text:      line.Content(),
		Truncated: line.Truncated,
	})
}

func (h *tailHandler) OnError(err error) {
	h.bus.Publish(TailRecord{Kind: readline.EventError, Source: h.source, Error: err.Error()})
}

func (h *tailHandler) OnEnd() {
	h.bus.Publish(TailRecord{Kind: readline.EventEnd, Source: h.source})
}

func (h *tailHandler) OnClose() {
	h.bus.Publish(TailRecord{Kind: readline.EventClose, Source: h.source})
}
