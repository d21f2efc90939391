package project

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// recentLimit caps the registry.
const recentLimit = 20

// Entry is a recently opened project.
type Entry struct {
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	Opened time.Time `json:"opened"`
}

var (
	recentMu     sync.Mutex
	recentCacher = sync.OnceValue(func() *gache.Cache[[]Entry] {
		return gache.New[[]Entry](&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
)

func recentEntries() []Entry {
	entries, expired, err := recentCacher().Get()
	if expired || err != nil {
		return nil
	}
	return entries
}

// Touch moves a project to the front of the recent registry.
func Touch(name, path string) error {
	recentMu.Lock()
	defer recentMu.Unlock()

	entries := lo.Reject(recentEntries(), func(e Entry, _ int) bool { return e.Name == name })
	entries = append([]Entry{{Name: name, Path: path, Opened: time.Now()}}, entries...)
	if len(entries) > recentLimit {
		entries = entries[:recentLimit]
	}
	return recentCacher().Set(entries)
}

// Forget drops a project from the recent registry.
func Forget(name string) error {
	recentMu.Lock()
	defer recentMu.Unlock()

	entries := recentEntries()
	kept := lo.Reject(entries, func(e Entry, _ int) bool { return e.Name == name })
	if len(kept) == len(entries) {
		return nil
	}
	return recentCacher().Set(kept)
}

// Recent lists recently opened projects, newest first.
func Recent() []Entry {
	recentMu.Lock()
	defer recentMu.Unlock()

	entries := slices.Clone(recentEntries())
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Opened.Compare(a.Opened)
	})
	return entries
}

// Last is the most recently opened project, if any.
func Last() mo.Option[Entry] {
	entries := Recent()
	if len(entries) == 0 {
		return mo.None[Entry]()
	}
	return mo.Some(entries[0])
}
