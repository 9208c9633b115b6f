package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/transform_tree/config"
	"github.com/mogaika/transform_tree/transform"
	"github.com/mogaika/transform_tree/tree"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	defer config.Set(config.Default())

	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9100"
fixed_frame: world
demo:
  enabled: true
  children: 5
`), 0644))

	require.NoError(t, config.Load(path))
	c := config.Current()
	assert.Equal(t, ":9100", c.ListenAddr)
	assert.Equal(t, "world", c.FixedFrame)
	assert.True(t, c.Demo.Enabled)
	assert.Equal(t, 5, c.Demo.Children)
	// untouched keys keep their defaults
	assert.EqualValues(t, config.Default().MaxExtrapolationNanos, c.MaxExtrapolationNanos)
}

func TestLoadMissingFile(t *testing.T) {
	assert.Error(t, config.Load(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestFixedFramePolicySelection(t *testing.T) {
	defer config.Set(config.Default())

	tr := tree.NewTree()
	tr.AddTransform("sensor", "world", 1000, transform.Identity())

	config.SetFixedFrame("")
	name, ok := config.FixedFramePolicy().FixedFrame(tr)
	require.True(t, ok)
	assert.Equal(t, "world", name)

	config.SetFixedFrame("sensor")
	name, ok = config.FixedFramePolicy().FixedFrame(tr)
	require.True(t, ok)
	assert.Equal(t, "sensor", name)
}
