package tasks

import "time"

// Config tunes the background task queue.
type Config struct {
	Workers         int           // concurrent workers, at least 1
	ReleaseAfter    time.Duration // stuck tasks return to the queue after this long
	CleanupInterval time.Duration // how often backlite drops finished tasks
}

// DefaultConfig matches the TASK_* environment defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}
