package player

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/reelcraft-cli/reelcraft/log"
)

// observed is the last known state of an mpv instance, fed by property-change events.
type observed struct {
	mu       sync.RWMutex
	position float64
	known    bool
	ended    bool
	paused   bool
}

func (o *observed) apply(name string, data interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch name {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			o.position = pos
			o.known = true
		}
	case "eof-reached":
		ended, _ := data.(bool)
		o.ended = ended
	case "pause":
		if paused, ok := data.(bool); ok {
			o.paused = paused
		}
	case "end-file":
		o.ended = true
	}
}

func (o *observed) snapshot() (position float64, known, ended bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.position, o.known, o.ended
}

// eventListener keeps a persistent connection to mpv and forwards property changes.
type eventListener struct {
	socketPath string
	conn       net.Conn
	state      *observed
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

var observedProperties = []string{"time-pos", "pause", "eof-reached"}

func newEventListener(socketPath string, state *observed) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		state:      state,
		stopCh:     make(chan struct{}),
	}
}

func (el *eventListener) start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// observers are bound to the connection that registered them
	for i, name := range observedProperties {
		payload, _ := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", i + 1, name}})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop()

	log.Debugf("observing %v on %s", observedProperties, el.socketPath)
	return nil
}

func (el *eventListener) stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

func (el *eventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder string

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("mpv event listener read error: %v", err)
			}
			return
		}

		var lines []string
		lines, remainder = splitEvents(remainder + string(buf[:n]))
		for _, line := range lines {
			if name, data, ok := parseEvent(line); ok {
				el.state.apply(name, data)
			}
		}
	}
}

// splitEvents returns the complete lines of data and the trailing partial line.
func splitEvents(data string) (lines []string, remainder string) {
	parts := strings.Split(data, "\n")
	remainder = parts[len(parts)-1]

	for _, line := range parts[:len(parts)-1] {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, remainder
}

// parseEvent extracts the property name and value of a property-change event.
// Other events are reported under their own name.
func parseEvent(line string) (name string, data interface{}, ok bool) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return "", nil, false
	}

	kind, ok := event["event"].(string)
	if !ok {
		return "", nil, false
	}

	if kind == "property-change" {
		name, _ = event["name"].(string)
		return name, event["data"], name != ""
	}
	return kind, event, true
}
