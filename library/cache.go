package library

import (
	"fmt"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/where"
)

type probeRecord struct {
	Duration float64   `json:"duration"`
	Probed   time.Time `json:"probed"`
}

var (
	probeMu     sync.Mutex
	probeCacher = sync.OnceValue(func() *gache.Cache[map[string]probeRecord] {
		return gache.New[map[string]probeRecord](&gache.Options{
			Path:       where.Probes(),
			Lifetime:   30 * 24 * time.Hour,
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

// probeKey identifies a file revision; an edited file gets a new key.
func probeKey(path string, size int64, mod time.Time) string {
	return fmt.Sprintf("%s|%d|%d", path, size, mod.UnixNano())
}

func cachedDuration(key string) (float64, bool) {
	probeMu.Lock()
	defer probeMu.Unlock()

	records, expired, err := probeCacher().Get()
	if expired || err != nil || records == nil {
		return 0, false
	}

	r, ok := records[key]
	return r.Duration, ok
}

func rememberDuration(key string, duration float64) error {
	probeMu.Lock()
	defer probeMu.Unlock()

	records, expired, err := probeCacher().Get()
	if expired || err != nil || records == nil {
		records = make(map[string]probeRecord)
	}

	records[key] = probeRecord{Duration: duration, Probed: time.Now()}
	return probeCacher().Set(records)
}
