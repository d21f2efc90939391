package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/log"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 50 * time.Millisecond
	quitTimeout       = 2 * time.Second
)

// MPVFactory starts one mpv process per handle.
type MPVFactory struct {
	binary string
}

// NewMPVFactory returns a factory running the given mpv binary, "mpv" when empty.
func NewMPVFactory(binary string) *MPVFactory {
	if binary == "" {
		binary = "mpv"
	}
	return &MPVFactory{binary: binary}
}

// Open starts a paused mpv instance with the source loaded.
func (f *MPVFactory) Open(req Request) (Handle, error) {
	target, err := sanitizeMediaTarget(req.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}

	m := &MPV{exited: make(chan struct{})}
	if err := m.start(f.binary, target, req); err != nil {
		return nil, err
	}
	return m, nil
}

// MPV is a Handle backed by an mpv process controlled over JSON-IPC.
type MPV struct {
	ipc
	cmd    *exec.Cmd
	exited chan struct{}
	events *eventListener
	state  observed
}

func (m *MPV) start(binary, target string, req Request) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Reelcraft, randomBytes))

	m.cmd = exec.Command(binary, mpvArgs(m.socketPath, target, req)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout, m.cmd.Stderr, m.cmd.Stdin = nil, nil, nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = newEventListener(m.socketPath, &m.state)
	if err := m.events.start(); err != nil {
		log.Warnf("mpv events unavailable, falling back to polling: %v", err)
		m.events = nil
	}

	return nil
}

func mpvArgs(socketPath, target string, req Request) []string {
	title := sanitizeTitle(req.Title)
	if title == "" {
		title = filepath.Base(target)
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--force-media-title=" + title,
		"--pause=yes",
		"--keep-open=yes",
		"--idle=no",
	}

	if req.AudioOnly {
		args = append(args, "--no-video", "--force-window=no")
	} else {
		args = append(args, "--force-window=yes", "--title="+title)
	}

	return append(args, "--", target)
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Position prefers the last observed time-pos and polls when none arrived yet.
func (m *MPV) Position() (float64, error) {
	if pos, known, _ := m.state.snapshot(); known {
		return pos, nil
	}
	return m.float("time-pos")
}

func (m *MPV) SetPosition(seconds float64) error {
	if _, err := m.send("seek", seconds, "absolute+exact"); err != nil {
		return err
	}
	m.state.apply("time-pos", seconds)
	m.state.apply("eof-reached", false)
	return nil
}

func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", volume*100)
}

func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

func (m *MPV) SetRate(rate float64) error {
	return m.set("speed", rate)
}

func (m *MPV) Ended() bool {
	_, _, ended := m.state.snapshot()
	return ended
}

// Close quits mpv, killing it if it does not exit in time.
func (m *MPV) Close() error {
	if m.events != nil {
		m.events.stop()
	}

	_, _ = m.send("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// sanitizeMediaTarget accepts http(s) URLs and existing local files.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty source")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in source")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("source must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		case "file":
			l = u.Path
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	l = filepath.Clean(l)
	if exists, err := filesystem.API().Exists(l); err != nil || !exists {
		return "", fmt.Errorf("%s does not exist", l)
	}
	return l, nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
