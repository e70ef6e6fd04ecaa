package gallery

import (
	"context"
	"time"

	engine "github.com/zjrosen/posters/internal/carousel"
	"github.com/zjrosen/posters/internal/config"
	"github.com/zjrosen/posters/internal/deck"
	"github.com/zjrosen/posters/internal/log"
	"github.com/zjrosen/posters/internal/loop"
)

// Describe lays d out without a terminal, as it would appear width cells
// wide, and returns where every extended slide sits. Images are probed
// synchronously; a failed probe falls through the width tiers like it does
// on screen.
func Describe(ctx context.Context, d *deck.Deck, ui config.UIConfig, th engine.Thresholds, width int, prober *deck.Prober) ([]engine.Placement, error) {
	if prober == nil {
		prober = deck.NewProber()
	}
	var slides []deck.Slide
	if d != nil {
		slides = d.Slides
	}

	clock := loop.NewVirtual(time.Time{})
	t := newTrack(ui, slides, clock, loop.DefaultFrameInterval.Seconds())
	car, err := engine.New(engine.Options{
		Slides:     len(slides),
		Geometry:   t,
		Surface:    t,
		Scheduler:  clock,
		Thresholds: th,
	})
	if err != nil {
		return nil, err
	}
	defer car.Stop()
	t.attach(car)
	t.wrapper, t.window = width, width

	for _, s := range car.Registry().Slides() {
		path := d.ImagePath(s.Real)
		if path == "" {
			t.setImage(s.Index, deck.Metrics{}, nil, true)
			continue
		}
		m, err := prober.Probe(ctx, path)
		if err != nil {
			log.Warn(log.CatDeck, "Probe failed", "slide", s.Real, "path", path, "error", err)
		}
		t.setImage(s.Index, m, err, false)
	}

	car.Refresh()
	t.Flush()
	return car.Layout().Describe(), nil
}
