package demo

import (
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/transform_tree/config"
	"github.com/mogaika/transform_tree/events"
	"github.com/mogaika/transform_tree/transform"
	"github.com/mogaika/transform_tree/tree"
	"github.com/mogaika/transform_tree/utils"
)

// Publisher feeds a synthetic hierarchy into a tree: world -> base ->
// N orbiting sensors. It exists so the server can be poked at without
// a live data source attached.
type Publisher struct {
	tree    *tree.Tree
	sensors []string
	stop    chan struct{}
}

func NewPublisher(t *tree.Tree, children int) *Publisher {
	gen := utils.NewFrameNameGenerator("sensor", time.Now().UnixNano())
	p := &Publisher{
		tree: t,
		stop: make(chan struct{}),
	}
	for i := 0; i < children; i++ {
		p.sensors = append(p.sensors, gen.Next())
	}
	return p
}

func (p *Publisher) Start(rateHz float64) {
	go p.run(publishPeriod(rateHz))
}

// publishPeriod resolves a rate override against the configured rate,
// falling back to defaults only when the config carries no usable
// rate either.
func publishPeriod(rateHz float64) time.Duration {
	if rateHz <= 0 {
		rateHz = config.Current().Demo.RateHz
	}
	if rateHz <= 0 {
		rateHz = config.Default().Demo.RateHz
	}
	return time.Duration(float64(time.Second) / rateHz)
}

func (p *Publisher) Stop() {
	close(p.stop)
}

func (p *Publisher) run(period time.Duration) {
	log.Printf("[demo] publishing %d sensor frames every %v", len(p.sensors), period)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-p.stop:
			return
		case now := <-ticker.C:
			p.publish(now.UnixNano(), now.Sub(start).Seconds())
		}
	}
}

func (p *Publisher) publish(timeNanos int64, elapsed float64) {
	// base drives a slow circle around the world origin
	base := transform.New(
		mgl64.Vec3{3 * math.Cos(elapsed/5), 3 * math.Sin(elapsed/5), 0},
		mgl64.QuatRotate(elapsed/5, mgl64.Vec3{0, 0, 1}))
	p.emit("base", "world", timeNanos, base)

	for i, name := range p.sensors {
		phase := elapsed + float64(i)*2*math.Pi/float64(len(p.sensors))
		sensor := transform.New(
			mgl64.Vec3{math.Cos(phase), math.Sin(phase), 0.5},
			mgl64.QuatRotate(phase, mgl64.Vec3{0, 0, 1}))
		p.emit(name, "base", timeNanos, sensor)
	}
}

func (p *Publisher) emit(child, parent string, timeNanos int64, tf transform.Rigid) {
	up := p.tree.AddTransform(child, parent, timeNanos, tf)
	for _, name := range up.NewFrames {
		log.Printf("[demo] new frame %q", name)
		events.FrameAdded(name, parent)
	}
	if up.Reparented {
		events.Reparented(child, parent)
	}
}
