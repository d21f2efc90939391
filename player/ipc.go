package player

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

type ipcCommand struct {
	Command []interface{} `json:"command"`
}

type ipcResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

const (
	maxRetries   = 3
	retryDelay   = 50 * time.Millisecond
	readDeadline = 500 * time.Millisecond
	readBufSize  = 4096
)

// ipc sends commands to one mpv instance over its unix socket.
type ipc struct {
	socketPath string
	mu         sync.Mutex
}

// send retries transient connection errors. Calls are serialized per socket.
func (c *ipc) send(command ...interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(c.socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// mpv answered; retrying will not change its mind
		if strings.HasPrefix(err.Error(), "mpv error") {
			break
		}
	}

	return nil, fmt.Errorf("ipc %v: %w", command[0], lastErr)
}

func (c *ipc) set(property string, value interface{}) error {
	_, err := c.send("set_property", property, value)
	return err
}

func (c *ipc) float(property string) (float64, error) {
	data, err := c.send("get_property", property)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected number, got %T", property, data)
	}
	return val, nil
}

func doSendCommand(socketPath string, command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv reads newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, readBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return parseResponse(buf[:n])
}

// parseResponse decodes the first reply line, skipping interleaved events.
func parseResponse(data []byte) (interface{}, error) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, `"event"`) {
			continue
		}

		var resp ipcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}
		return resp.Data, nil
	}

	return nil, fmt.Errorf("empty response")
}
