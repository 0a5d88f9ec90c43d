// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{
			name:   "no highlight selectors",
			mutate: func(c *Config) { c.Parser.HighlightSelectors = nil },
			errMsg: "highlight_selectors must not be empty",
		},
		{
			name:   "blank highlight selector",
			mutate: func(c *Config) { c.Parser.HighlightSelectors = []string{".noteText", "  "} },
			errMsg: "empty selector",
		},
		{
			name:   "bad skip pattern",
			mutate: func(c *Config) { c.Parser.SkipPatterns = []string{"(unclosed"} },
			errMsg: "compiling skip pattern",
		},
		{
			name:   "extension without dot",
			mutate: func(c *Config) { c.Output.Extension = "md" },
			errMsg: "must start with a dot",
		},
		{
			name:   "bare dot extension",
			mutate: func(c *Config) { c.Output.Extension = "." },
			errMsg: "must start with a dot",
		},
		{
			name:   "unknown naming",
			mutate: func(c *Config) { c.Output.Naming = "random" },
			errMsg: "output.naming",
		},
		{
			name:   "negative concurrency",
			mutate: func(c *Config) { c.Output.Concurrency = -1 },
			errMsg: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSkipRegexpsMatchWholeText(t *testing.T) {
	cfg := ParserConfig{SkipPatterns: []string{"Bookmark", `Note - Page \d+`}}
	res, err := cfg.SkipRegexps()
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.True(t, res[0].MatchString("Bookmark"))
	assert.False(t, res[0].MatchString("Bookmark - Page 4"))
	assert.False(t, res[0].MatchString("A Bookmark"))
	assert.True(t, res[1].MatchString("Note - Page 12"))
	assert.False(t, res[1].MatchString("Note - Page 12 and more"))
}

func TestSkipRegexpsDefaultPattern(t *testing.T) {
	res, err := DefaultConfig().Parser.SkipRegexps()
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert.True(t, res[0].MatchString("Bookmark - Location 120"))
	assert.False(t, res[0].MatchString("Highlight (yellow) - Location 120"))
}
