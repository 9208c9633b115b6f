package utils

import (
	"math/rand"
	"strings"

	"github.com/Pallinder/go-randomdata"
)

// FrameNameGenerator hands out unique lowercase frame names for the
// demo publisher ("sensor_crazyshannon" style).
type FrameNameGenerator struct {
	prefix string
	used   map[string]struct{}
}

func NewFrameNameGenerator(prefix string, seed int64) *FrameNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &FrameNameGenerator{
		prefix: prefix,
		used:   make(map[string]struct{}),
	}
}

func (g *FrameNameGenerator) Next() string {
	for {
		name := g.prefix + "_" + strings.ToLower(randomdata.SillyName())
		if _, exists := g.used[name]; !exists {
			g.used[name] = struct{}{}
			return name
		}
	}
}
