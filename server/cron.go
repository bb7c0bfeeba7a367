package server

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/chart"
)

// Field name   | Mandatory? | Allowed values  | Allowed special characters
// ----------   | ---------- | --------------  | --------------------------
// Seconds      | Yes        | 0-59            | * / , -
// Minutes      | Yes        | 0-59            | * / , -
// Hours        | Yes        | 0-23            | * / , -
// Day of month | Yes        | 1-31            | * / , - ?
// Month        | Yes        | 1-12 or JAN-DEC | * / , -
// Day of week  | Yes        | 0-6 or SUN-SAT  | * / , - ?

// sweepSchedule runs the temp dir sweep every 10 minutes
const sweepSchedule = "0 */10 * * * *"

// Jobs configures the periodic housekeeping
type Jobs struct {
	StatsSchedule string
	TempDir       string
	TempMaxAge    time.Duration
}

type job struct {
	schedule string
	run      func()
}

func (js Jobs) list(c *cache.Cache) []job {
	jobs := []job{
		{sweepSchedule, func() { sweepTempDir(js.TempDir, js.TempMaxAge) }},
	}

	if js.StatsSchedule != "" {
		jobs = append(jobs, job{js.StatsSchedule, func() { logCacheStats(c) }})
	}

	return jobs
}

func logCacheStats(c *cache.Cache) {
	s := c.Stats()

	glog.Infof(
		"Cache: %d/%d items, %s/%s, %d hits, %d misses, %d evictions",
		s.ItemCount,
		s.MaxItems,
		humanize.Bytes(uint64(s.TotalSizeBytes)),
		humanize.Bytes(uint64(s.MaxSizeBytes)),
		s.Hits,
		s.Misses,
		s.Evictions,
	)
}

func sweepTempDir(dir string, maxAge time.Duration) {
	if dir == "" || maxAge <= 0 {
		return
	}

	if _, err := chart.SweepTempDir(dir, maxAge); err != nil {
		glog.Errorf("chart.SweepTempDir(%s) %+v", dir, err)
	}
}
