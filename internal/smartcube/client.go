package smartcube

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"
)

// DefaultNamePrefix matches the advertised name of GoCube devices.
const DefaultNamePrefix = "gocube"

var (
	serviceUUID = mustParseUUID(ServiceUUID)
	txCharUUID  = mustParseUUID(TxCharUUID)
	rxCharUUID  = mustParseUUID(RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(fmt.Sprintf("smartcube: bad UUID %q: %v", s, err))
	}
	return u
}

// ScanResult is a discovered cube.
type ScanResult struct {
	Name    string
	Address string
	RSSI    int16

	addr bluetooth.Address
}

// Client is a BLE connection to one GoCube.
type Client struct {
	adapter *bluetooth.Adapter
	logger  zerolog.Logger

	mu        sync.RWMutex
	device    bluetooth.Device
	rxChar    bluetooth.DeviceCharacteristic
	connected bool
	name      string
	address   string
	battery   int
}

// NewClient enables the default adapter.
func NewClient(logger zerolog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	return &Client{
		adapter: adapter,
		logger:  logger.With().Str("component", "smartcube").Logger(),
		battery: -1,
	}, nil
}

// Scan lists cubes advertising during timeout.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = make(map[string]bool)
	)

	err := c.scan(ctx, timeout, func(r ScanResult) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[r.Address] {
			seen[r.Address] = true
			results = append(results, r)
		}
		return false
	})
	return results, err
}

// Connect connects to the first cube whose name or address matches target.
// An empty target matches any GoCube.
func (c *Client) Connect(ctx context.Context, target string, timeout time.Duration) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	var (
		once  sync.Once
		found ScanResult
		ok    bool
	)
	err := c.scan(ctx, timeout, func(r ScanResult) bool {
		if target != "" && !strings.EqualFold(r.Name, target) && r.Address != target {
			return false
		}
		once.Do(func() {
			found = r
			ok = true
		})
		return true
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrCubeNotFound
	}
	return c.connect(found)
}

// scan runs the adapter scan until match returns true, ctx is done, or
// timeout elapses.
func (c *Client) scan(ctx context.Context, timeout time.Duration, match func(ScanResult) bool) error {
	matched := make(chan struct{})
	var matchOnce sync.Once
	done := make(chan error, 1)

	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), DefaultNamePrefix) {
				return
			}
			r := ScanResult{
				Name:    name,
				Address: result.Address.String(),
				RSSI:    result.RSSI,
				addr:    result.Address,
			}
			if match(r) {
				matchOnce.Do(func() { close(matched) })
			}
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-matched:
	case <-timer.C:
	case <-ctx.Done():
	}

	c.adapter.StopScan()
	if err := <-done; err != nil {
		return fmt.Errorf("failed to scan: %w", err)
	}
	return ctx.Err()
}

func (c *Client) connect(r ScanResult) error {
	device, err := c.adapter.Connect(r.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		device.Disconnect()
		return ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var txChar, rxChar bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			txChar = ch
		case rxCharUUID:
			rxChar = ch
		}
	}

	if err := txChar.EnableNotifications(c.handleNotification); err != nil {
		device.Disconnect()
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rxChar
	c.connected = true
	c.name = r.Name
	c.address = r.Address
	c.mu.Unlock()

	c.logger.Info().Str("cube", r.Name).Str("address", r.Address).Msg("cube connected")

	if err := c.Send(CmdRequestBattery); err != nil {
		c.logger.Warn().Err(err).Msg("battery request failed")
	}
	return nil
}

// Disconnect drops the connection. It is a no-op when not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.device.Disconnect()
	c.connected = false
	c.name = ""
	c.address = ""
	c.battery = -1
	return err
}

// IsConnected reports whether a cube is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Name returns the connected cube's advertised name.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Battery returns the last reported battery level, or -1 if unknown.
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// Send writes a command to the cube.
func (c *Client) Send(cmd Command) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	data := BuildCommand(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		if _, err := c.rxChar.Write(data); err != nil {
			return fmt.Errorf("failed to send %s: %w", cmd, err)
		}
	}
	return nil
}

func (c *Client) handleNotification(data []byte) {
	f, err := ParseFrame(data)
	if err != nil {
		c.logger.Debug().Err(err).Msg("dropping malformed frame")
		return
	}
	if f.Type != MsgTypeBattery {
		return
	}

	level, err := DecodeBattery(f)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.battery = level
	c.mu.Unlock()
	c.logger.Debug().Int("battery", level).Msg("battery level")
}
