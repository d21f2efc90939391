package playback

import (
	"sort"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// tracked is the synchronizer's record of one live handle and the values last applied to it.
type tracked struct {
	id     string
	kind   element.Kind
	source string
	name   string
	handle player.Handle

	// failed handles could not be opened and stay inert until re-admitted.
	failed bool
	// blocked handles refused to play and wait for the next hard resync.
	blocked bool
	// opening handles wait for an asynchronous Open.
	opening bool
	// cancelled is guarded by Synchronizer.mu.
	cancelled bool

	playing     bool
	endReported bool
	muted       mo.Option[bool]
	volume      mo.Option[float64]
	rate        mo.Option[float64]
}

func (t *tracked) call(op string, fn func(player.Handle) error) {
	if err := fn(t.handle); err != nil {
		log.With(log.Fields{"element": t.id, "op": op}).Warnf("media handle call failed: %v", err)
	}
}

func (t *tracked) dispose() {
	if t.handle == nil {
		return
	}
	if t.playing {
		t.call("pause", player.Handle.Pause)
	}
	t.call("close", player.Handle.Close)
	t.handle = nil
	t.playing = false
}

// HandleInfo is a read-only view of a live handle.
type HandleInfo struct {
	ID      string
	Kind    element.Kind
	Name    string
	Failed  bool
	Blocked bool
	Opening bool
	Playing bool
	Muted   bool
	Volume  float64
	Rate    float64
}

// Audible reports whether the handle is producing sound.
func (h HandleInfo) Audible() bool {
	return h.Playing && !h.Muted && h.Volume > 0
}

// Handles lists the tracked handles sorted by element id.
func (s *Synchronizer) Handles() []HandleInfo {
	infos := lo.MapToSlice(s.handles, func(id string, t *tracked) HandleInfo {
		return HandleInfo{
			ID:      id,
			Kind:    t.kind,
			Name:    t.name,
			Failed:  t.failed,
			Blocked: t.blocked,
			Opening: t.opening,
			Playing: t.playing,
			Muted:   t.muted.OrElse(false),
			Volume:  t.volume.OrElse(0),
			Rate:    t.rate.OrElse(1),
		}
	})
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

// Handle returns the info of one tracked handle.
func (s *Synchronizer) Handle(id string) (HandleInfo, bool) {
	return lo.Find(s.Handles(), func(h HandleInfo) bool {
		return h.ID == id
	})
}
