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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/readline/confengine"
	"github.com/packetd/readline/readline"
)

func TestSplitCmdConfigYaml(t *testing.T) {
	c := splitCmdConfig{
		CapacityBytes: 128,
		RetainBuffer:  true,
		Overflow:      readline.OverflowError,
		ChunkSize:     1024,
		Format:        "json",
		LogLevel:      "warn",
		Address:       "localhost:9099",
		Tail:          true,
	}

	conf, err := confengine.LoadContent(c.Yaml())
	require.NoError(t, err)

	cfg := readline.DefaultConfig()
	require.NoError(t, conf.UnpackChild("reader", &cfg))
	assert.Equal(t, readline.Config{
		CapacityBytes: 128,
		RetainBuffer:  true,
		Overflow:      readline.OverflowError,
		ChunkSize:     1024,
		AutoClose:     true,
	}, cfg)

	assert.True(t, conf.Enabled("server"))
	assert.True(t, conf.Enabled("tail"))

	var sink struct {
		Console bool   `config:"console"`
		Format  string `config:"format"`
	}
	require.NoError(t, conf.UnpackChild("sinker", &sink))
	assert.True(t, sink.Console)
	assert.Equal(t, "json", sink.Format)
}
