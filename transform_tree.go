package main

import (
	"flag"
	"log"
	"time"

	"github.com/mogaika/transform_tree/config"
	"github.com/mogaika/transform_tree/demo"
	"github.com/mogaika/transform_tree/tree"
	"github.com/mogaika/transform_tree/web"
)

func main() {
	var addr, configPath, fixedFrame string
	var maxExtrapolation time.Duration
	var demoEnabled bool
	var demoRate float64
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to yaml config file")
	flag.StringVar(&fixedFrame, "fixed", "", "Pinned fixed frame name, empty for most-samples policy")
	flag.DurationVar(&maxExtrapolation, "maxextrap", 0, "Default max sample extrapolation (overrides config)")
	flag.BoolVar(&demoEnabled, "demo", false, "Publish a synthetic moving hierarchy")
	flag.Float64Var(&demoRate, "demorate", 0, "Demo publish rate in hz (overrides config)")
	flag.Parse()

	if configPath != "" {
		if err := config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if fixedFrame != "" {
		config.SetFixedFrame(fixedFrame)
	}
	if maxExtrapolation > 0 {
		config.SetMaxExtrapolationNanos(maxExtrapolation.Nanoseconds())
	}

	conf := config.Current()
	if addr == "" {
		addr = conf.ListenAddr
	}

	t := tree.NewTree()

	if demoEnabled || conf.Demo.Enabled {
		if demoRate == 0 {
			demoRate = conf.Demo.RateHz
		}
		demo.NewPublisher(t, conf.Demo.Children).Start(demoRate)
	}

	if err := web.StartServer(addr, t); err != nil {
		log.Fatal(err)
	}
}
