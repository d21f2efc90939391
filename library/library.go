// Package library holds the media a project can draw from: uploaded files
// classified by kind, with durations probed from their containers.
package library

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Item is one file in the library.
type Item struct {
	ID        string
	Name      string
	Kind      element.Kind
	Source    string
	Size      int64
	Duration  mo.Option[float64]
	Thumbnail string
	Added     time.Time
}

// Defaults are the spans given to items whose duration is unknown.
type Defaults struct {
	Image float64
	Audio float64
}

// Library is an ordered, concurrency-safe collection of items.
type Library struct {
	mu       sync.RWMutex
	items    []Item
	defaults Defaults
	newID    func() string
}

// New creates an empty library. Zero defaults fall back to the built-in spans.
func New(defaults Defaults) *Library {
	if defaults.Image <= 0 {
		defaults.Image = constant.DefaultMediaDuration
	}
	if defaults.Audio <= 0 {
		defaults.Audio = constant.DefaultAudioDuration
	}

	return &Library{defaults: defaults, newID: uuid.NewString}
}

// Ingest classifies and probes the file at path and adds it.
// Adding the same path twice returns the existing item.
func (l *Library) Ingest(path string) (Item, error) {
	path = filepath.Clean(path)
	if existing, ok := l.bySource(path); ok {
		return existing, nil
	}

	info, err := filesystem.API().Stat(path)
	if err != nil {
		return Item{}, err
	}
	if info.IsDir() {
		return Item{}, fmt.Errorf("%w: %s is a directory", ErrUnsupportedType, path)
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return Item{}, err
	}
	defer file.Close()

	kind, err := Classify(path, file)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:     l.newID(),
		Name:   filepath.Base(path),
		Kind:   kind,
		Source: path,
		Size:   info.Size(),
		Added:  time.Now(),
	}

	switch kind {
	case element.Image:
		item.Thumbnail = path
	case element.Video, element.Audio:
		item.Duration = probe(file, path, info.Size(), info.ModTime())
	}

	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()

	log.Infof("library: added %s %q", kind, item.Name)
	return item, nil
}

// probe reads the duration through the cache, falling back to None when the
// container is not one we can parse.
func probe(r io.ReadSeeker, path string, size int64, mod time.Time) mo.Option[float64] {
	key := probeKey(path, size, mod)
	if d, ok := cachedDuration(key); ok {
		return mo.Some(d)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return mo.None[float64]()
	}

	var (
		duration float64
		err      error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		duration, err = probeWAV(r, size)
	default:
		duration, err = probeMP4(r, size)
	}

	if err != nil || duration <= 0 {
		log.Debugf("library: no duration for %s: %v", filepath.Base(path), err)
		return mo.None[float64]()
	}

	if err := rememberDuration(key, duration); err != nil {
		log.Warnf("library: caching probe for %s: %v", filepath.Base(path), err)
	}
	return mo.Some(duration)
}

func (l *Library) bySource(path string) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return lo.Find(l.items, func(i Item) bool { return i.Source == path })
}

// Items returns the items in insertion order.
func (l *Library) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.items)
}

// Len is the number of items.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}

// Get resolves an item by id, falling back to an exact name match.
func (l *Library) Get(idOrName string) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if item, ok := lo.Find(l.items, func(i Item) bool { return i.ID == idOrName }); ok {
		return item, true
	}
	return lo.Find(l.items, func(i Item) bool { return i.Name == idOrName })
}

// Remove drops an item. Elements already placed from it are unaffected.
func (l *Library) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := slices.IndexFunc(l.items, func(i Item) bool { return i.ID == id })
	if index < 0 {
		return false
	}

	l.items = slices.Delete(l.items, index, index+1)
	return true
}

// Search ranks items whose names fuzzily contain query, best match first.
// An empty query returns every item.
func (l *Library) Search(query string) []Item {
	items := l.Items()
	if strings.TrimSpace(query) == "" {
		return items
	}

	names := lo.Map(items, func(i Item, _ int) string { return i.Name })
	return lo.Map(Rank(query, names), func(index int, _ int) Item { return items[index] })
}

// Rank returns the indices of targets fuzzily containing query, closest first.
func Rank(query string, targets []string) []int {
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) int { return r.OriginalIndex })
}

// Media converts an item into element metadata, applying the default span
// when the duration is unknown.
func (l *Library) Media(item Item) element.Media {
	duration := item.Duration.OrElse(l.defaults.Image)
	if item.Kind == element.Audio {
		duration = item.Duration.OrElse(l.defaults.Audio)
	}
	if item.Kind == element.Image {
		duration = l.defaults.Image
	}

	return element.Media{
		Kind:      item.Kind,
		Name:      item.Name,
		Source:    item.Source,
		Duration:  duration,
		Thumbnail: item.Thumbnail,
	}
}

// Slot is where the next item of kind goes: its default track, right after
// the last element already on that track.
func Slot(elements []element.Element, kind element.Kind) (track int, start float64) {
	track = constant.MediaTrack
	if kind == element.Audio {
		track = constant.AudioTrack
	}

	for _, e := range elements {
		if e.Track == track && e.Range.End > start {
			start = e.Range.End
		}
	}
	return track, start
}

// DefaultsFromConfig reads the configured fallback spans.
func DefaultsFromConfig() Defaults {
	return Defaults{
		Image: viper.GetFloat64(key.LibraryDefaultImageDuration),
		Audio: viper.GetFloat64(key.LibraryDefaultAudioDuration),
	}
}
