// Package cache prunes files the editor leaves behind: old daily logs,
// temporary files of interrupted atomic writes and stray cache entries.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/where"
	"github.com/spf13/afero"
)

// TTL is how long a prunable file survives after its last modification.
const TTL = 7 * 24 * time.Hour

// CollectGarbage prunes expired files in the background.
func CollectGarbage() {
	go func() {
		now := time.Now()
		removed := Collect(where.Logs(), now, isLog)
		removed += Collect(where.Projects(), now, isPartialWrite)
		removed += Collect(where.Exports(), now, isPartialWrite)
		removed += Collect(where.Temp(), now, func(string) bool { return true })
		if removed > 0 {
			log.Infof("collected %d stale files", removed)
		}
	}()
}

// Collect removes files under dir accepted by match and older than TTL,
// returning how many were removed.
func Collect(dir string, now time.Time, match func(name string) bool) int {
	var removed int
	_ = afero.Walk(filesystem.API(), dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !match(info.Name()) {
			return nil
		}
		if now.Sub(info.ModTime()) <= TTL {
			return nil
		}
		if err := filesystem.API().Remove(path); err != nil {
			log.Warnf("remove %s: %s", path, err)
			return nil
		}
		removed++
		return nil
	})
	return removed
}

func isLog(name string) bool {
	return filepath.Ext(name) == ".log"
}

// isPartialWrite matches the hidden siblings filesystem.WriteAtomic writes before renaming.
func isPartialWrite(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, ".json.")
}
