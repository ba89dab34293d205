package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Purger is anything whose expired entries can be dropped.
type Purger interface {
	Purge() int
}

// Janitor periodically purges expired entries from a set of caches.
type Janitor struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewJanitor schedules a purge of every named cache on schedule, which
// accepts standard cron expressions and descriptors such as "@every 1m".
func NewJanitor(schedule string, caches map[string]Purger, logger *slog.Logger) (*Janitor, error) {
	c := cron.New()
	j := &Janitor{cron: c, logger: logger}

	_, err := c.AddFunc(schedule, func() { j.sweep(caches) })
	if err != nil {
		return nil, fmt.Errorf("schedule cache purge %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) sweep(caches map[string]Purger) {
	for name, p := range caches {
		if n := p.Purge(); n > 0 {
			j.logger.Debug("purged expired cache entries", "cache", name, "count", n)
		}
	}
}

// Start runs the schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
