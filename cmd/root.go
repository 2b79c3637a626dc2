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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/readline/common"
	"github.com/packetd/readline/confengine"
	"github.com/packetd/readline/controller"
	"github.com/packetd/readline/internal/sigs"
)

var rootCmd = &cobra.Command{
	Use:   common.App,
	Short: "Split byte streams into lines without loading them into memory",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(common.GetBuildInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runController 创建并运行 Controller 读取完所有数据源或者收到退出信号后返回
func runController(cfg *confengine.Config, sources []string) {
	ctr, err := controller.New(cfg, common.GetBuildInfo())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
		os.Exit(1)
	}
	if err := ctr.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() {
		done <- ctr.Run(sources)
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-sigs.Terminate():
	}

	if err := ctr.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop controller: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}
