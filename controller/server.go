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
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/readline/logger"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)

	// Tail Routes
	if c.cfg.Tail.Enabled {
		c.svr.RegisterGetRoute("/lines", c.routeLines)
	}

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", c.routeMetrics)
}

func (c *Controller) routeMetrics(w http.ResponseWriter, r *http.Request) {
	c.recordMetrics()
	promhttp.Handler().ServeHTTP(w, r)
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	logger.SetLoggerLevel(level)
	w.Write([]byte(`{"status": "success", "level": "` + logger.GetLoggerLevel() + `"}`))
}

// routeLines 以 ndjson 格式推送实时产生的通知
//
// max_message 最多推送的消息数 timeout 两条消息之间的最长等待时间 超时即结束响应
func (c *Controller) routeLines(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return
	}

	var maxMessage int
	maxMessage, _ = strconv.Atoi(r.URL.Query().Get("max_message"))
	if maxMessage <= 0 {
		maxMessage = 100
	}

	var timeout time.Duration
	timeout, _ = time.ParseDuration(r.URL.Query().Get("timeout"))
	if timeout <= 0 {
		timeout = time.Second * 5
	}

	queue := c.bus.Subscribe(c.cfg.Tail.QueueSize)
	defer c.bus.Unsubscribe(queue)

	w.Header().Set("Content-Type", "application/x-ndjson")
	encoder := json.NewEncoder(w)
	for i := 0; i < maxMessage; i++ {
		if r.Context().Err() != nil {
			return
		}

		record, ok := queue.PopTimeout(timeout)
		if !ok {
			break
		}
		if err := encoder.Encode(record); err != nil {
			logger.Debugf("failed to write tail record: %v", err)
			return
		}
		flusher.Flush()
	}

	if dropped := queue.Dropped(); dropped > 0 {
		logger.Warnf("tail subscriber %s dropped %d records", queue.ID(), dropped)
	}
}
