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
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/readline/common"
	"github.com/packetd/readline/confengine"
	"github.com/packetd/readline/internal/pubsub"
	"github.com/packetd/readline/internal/rescue"
	"github.com/packetd/readline/logger"
	"github.com/packetd/readline/readline"
	"github.com/packetd/readline/server"
	"github.com/packetd/readline/sinker"
)

// SourceStdin 代表从标准输入读取
const SourceStdin = "-"

// stopTimeout Stop 等待 Run 退出的最长时间
const stopTimeout = 5 * time.Second

type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       Config
	buildInfo common.BuildInfo

	sink *sinker.Sinker
	svr  *server.Server
	bus  *pubsub.PubSub[TailRecord]

	mut     sync.Mutex
	running chan struct{}
}

func setupLogger(conf *confengine.Config) error {
	opts := logger.Options{Stdout: true, Level: string(logger.LevelInfo)}
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	opts.Validate()
	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(conf)
	if err != nil {
		return nil, err
	}

	sink, err := sinker.New(cfg.Sinker)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		buildInfo: buildInfo,
		sink:      sink,
		svr:       svr,
		bus:       pubsub.New[TailRecord](),
	}, nil
}

func (c *Controller) Start() error {
	c.setupServer()

	if c.svr != nil {
		go func() {
			defer rescue.HandleCrash()
			err := c.svr.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}
	return nil
}

// Run 依次读取所有数据源 每个数据源使用独立的 Reader
//
// 单个数据源失败不影响后续数据源 所有错误合并后返回
// Stop 被调用后剩余的数据源不再读取
func (c *Controller) Run(sources []string) error {
	if len(sources) == 0 {
		sources = []string{SourceStdin}
	}

	running := make(chan struct{})
	c.mut.Lock()
	c.running = running
	c.mut.Unlock()
	defer close(running)

	var errs *multierror.Error
	for _, source := range sources {
		if c.ctx.Err() != nil {
			break
		}

		start := time.Now()
		r, err := c.newReader(source)
		if err != nil {
			return err
		}

		err = r.Run(c.ctx)
		if err == nil {
			err = c.sink.Err()
		}
		if err != nil {
			handledSources.WithLabelValues("failed").Inc()
			errs = multierror.Append(errs, errors.Wrapf(err, "source %s", source))
			continue
		}

		handledSources.WithLabelValues("success").Inc()
		splitter := r.Splitter()
		logger.Infof("source %s handled: %d lines, %d bytes, took %v",
			source, splitter.LineCount(), splitter.ByteCount(), time.Since(start))
	}
	return errs.ErrorOrNil()
}

func (c *Controller) newReader(source string) (*readline.Reader, error) {
	var h readline.Handler = c.sink
	if c.cfg.Tail.Enabled {
		h = readline.Multi(c.sink, &tailHandler{bus: c.bus})
	}

	if source == SourceStdin {
		cfg := c.cfg.Reader
		cfg.AutoClose = false
		return readline.New(os.Stdin, cfg, h)
	}
	return readline.Open(source, c.cfg.Reader, h)
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Set(1)
}

// waitRun 等待正在执行的 Run 退出 Sinker 不允许并发使用 必须在 Run 退出后才能关闭
func (c *Controller) waitRun(timeout time.Duration) {
	c.mut.Lock()
	running := c.running
	c.mut.Unlock()
	if running == nil {
		return
	}

	select {
	case <-running:
	case <-time.After(timeout):
		logger.Warnf("controller: run still in progress after %v", timeout)
	}
}

func (c *Controller) Stop() error {
	c.cancel()
	c.waitRun(stopTimeout)

	var errs *multierror.Error
	if c.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.svr.Shutdown(ctx); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := c.sink.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	_ = logger.Sync()
	return errs.ErrorOrNil()
}
