package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(n int) *int { return &n }

func TestOptionDefaults(t *testing.T) {
	var nilConf *Config
	assert.Equal(t, 8, nilConf.SummaryMaxItemsOrDefault())
	assert.Equal(t, 64, nilConf.MaxStringLenOrDefault())
	assert.Equal(t, 32, nilConf.MaxTraversalDepthOrDefault())
	assert.Equal(t, 256, nilConf.MaxGraphNodesOrDefault())
	assert.Equal(t, "127.0.0.1:8790", nilConf.ListenAddrOrDefault())
	assert.Equal(t, "LR", nilConf.DotRankDirOrDefault())

	zero := &Config{}
	assert.Equal(t, 8, zero.SummaryMaxItemsOrDefault())
	assert.Equal(t, "LR", zero.DotRankDirOrDefault())
}

func TestOptionOverrides(t *testing.T) {
	conf := &Config{
		SummaryMaxItems:   intp(16),
		MaxStringLen:      intp(100),
		MaxTraversalDepth: intp(4),
		MaxGraphNodes:     intp(10),
		ListenAddr:        "0.0.0.0:9000",
		DotRankDir:        "TB",
	}
	assert.Equal(t, 16, conf.SummaryMaxItemsOrDefault())
	assert.Equal(t, 100, conf.MaxStringLenOrDefault())
	assert.Equal(t, 4, conf.MaxTraversalDepthOrDefault())
	assert.Equal(t, 10, conf.MaxGraphNodesOrDefault())
	assert.Equal(t, "0.0.0.0:9000", conf.ListenAddrOrDefault())
	assert.Equal(t, "TB", conf.DotRankDirOrDefault())

	// Nonsensical values fall back to the defaults.
	conf.SummaryMaxItems = intp(-1)
	assert.Equal(t, 8, conf.SummaryMaxItemsOrDefault())
}
