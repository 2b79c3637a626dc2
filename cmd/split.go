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
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/packetd/readline/common"
	"github.com/packetd/readline/confengine"
	"github.com/packetd/readline/readline"
)

type splitCmdConfig struct {
	CapacityBytes int
	RetainBuffer  bool
	Overflow      string
	ChunkSize     int
	Format        string
	WithNumber    bool
	Output        string
	OutputSize    int
	OutputBackups int
	LogLevel      string
	Address       string
	Tail          bool
}

func (c *splitCmdConfig) Yaml() []byte {
	text := `
logger:
  stdout: true
  level: {{ .LogLevel }}

reader:
  capacityBytes: {{ .CapacityBytes }}
  retainBuffer: {{ .RetainBuffer }}
  overflow: {{ .Overflow }}
  chunkSize: {{ .ChunkSize }}

sinker:
  console: {{ .Console }}
  format: {{ .Format }}
  withNumber: {{ .WithNumber }}
  filename: {{ .Output }}
  maxSize: {{ .OutputSize }}
  maxBackups: {{ .OutputBackups }}
  maxAge: 7

server:
  enabled: {{ .ServerEnabled }}
  address: {{ .Address }}

tail:
  enabled: {{ .Tail }}
`
	tpl, err := template.New("Config").Parse(text)
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	err = tpl.Execute(&buf, map[string]interface{}{
		"LogLevel":      c.LogLevel,
		"CapacityBytes": c.CapacityBytes,
		"RetainBuffer":  c.RetainBuffer,
		"Overflow":      c.Overflow,
		"ChunkSize":     c.ChunkSize,
		"Console":       c.Output == "",
		"Format":        c.Format,
		"WithNumber":    c.WithNumber,
		"Output":        c.Output,
		"OutputSize":    c.OutputSize,
		"OutputBackups": c.OutputBackups,
		"ServerEnabled": c.Address != "",
		"Address":       c.Address,
		"Tail":          c.Tail,
	})
	if err != nil {
		return nil
	}
	return buf.Bytes()
}

var splitConfig splitCmdConfig

var splitCmd = &cobra.Command{
	Use:   "split [files...]",
	Short: "Split files or stdin into lines",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadContent(splitConfig.Yaml())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		runController(cfg, args)
	},
	Example: "# cat app.log | readline split --format json --capacity 8192 -",
}

func init() {
	splitCmd.Flags().IntVar(&splitConfig.CapacityBytes, "capacity", common.DefaultCapacityBytes, "Maximum bytes buffered for a single line")
	splitCmd.Flags().BoolVar(&splitConfig.RetainBuffer, "raw", false, "Emit raw bytes instead of decoded text")
	splitCmd.Flags().StringVar(&splitConfig.Overflow, "overflow", readline.OverflowTruncate, "Policy for lines longer than capacity [truncate|error|grow]")
	splitCmd.Flags().IntVar(&splitConfig.ChunkSize, "chunk-size", common.DefaultChunkSize, "Bytes read from the source at a time")
	splitCmd.Flags().StringVar(&splitConfig.Format, "format", "text", "Output format [text|json]")
	splitCmd.Flags().BoolVar(&splitConfig.WithNumber, "number", false, "Prefix text output with line numbers")
	splitCmd.Flags().StringVar(&splitConfig.Output, "output", "", "Path to output file, stdout if empty")
	splitCmd.Flags().IntVar(&splitConfig.OutputSize, "output.size", 100, "Maximum size of output file in MB")
	splitCmd.Flags().IntVar(&splitConfig.OutputBackups, "output.backups", 10, "Maximum number of old output files to retain")
	splitCmd.Flags().StringVar(&splitConfig.LogLevel, "log-level", "info", "Logger level [debug|info|warn|error]")
	splitCmd.Flags().StringVar(&splitConfig.Address, "address", "", "Admin server address, disabled if empty")
	splitCmd.Flags().BoolVar(&splitConfig.Tail, "tail", false, "Serve live lines at /lines on the admin server")
	rootCmd.AddCommand(splitCmd)
}
