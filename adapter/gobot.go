package adapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/imu"
)

var _ imu.I2CBus = &GobotBus{}

// GobotBus adapts a gobot I2C connector (NanoPi Neo, Raspberry Pi, ...) to
// the transport interface. A generic driver is created lazily per device
// address and kept started until Close.
//
// The write-then-read operation is issued as a pointer write followed by a
// read; the IMU keeps its register pointer across the stop condition, so the
// two-transaction form is equivalent to a repeated start here.
type GobotBus struct {
	mx      sync.Mutex
	conn    i2c.Connector
	busID   int
	devices map[byte]*i2c.GenericDriver
}

func NewGobotBus(conn i2c.Connector, busID int) *GobotBus {
	return &GobotBus{
		conn:    conn,
		busID:   busID,
		devices: make(map[byte]*i2c.GenericDriver),
	}
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Write(buffer)
	if err != nil {
		return fmt.Errorf("write to %#x failed: %w", address, err)
	}
	return nil
}

func (b *GobotBus) WriteReadToAddr(ctx context.Context, address byte, w, r []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	err = dev.Write(w)
	if err != nil {
		return fmt.Errorf("register pointer write to %#x failed: %w", address, err)
	}
	err = dev.Read(r)
	if err != nil {
		return fmt.Errorf("read from %#x failed: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for address, dev := range b.devices {
		if err := dev.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not halt i2c driver for %#x: %w", address, err)
		}
		delete(b.devices, address)
	}
	return firstErr
}

func (b *GobotBus) device(address byte) (*i2c.GenericDriver, error) {
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	busID := b.busID
	dev := i2c.NewGenericDriver(b.conn, "imu", int(address), func(c i2c.Config) {
		c.SetBus(busID)
	})
	if err := dev.Start(); err != nil {
		return nil, fmt.Errorf("could not start i2c driver for %#x: %w", address, err)
	}
	b.devices[address] = dev
	return dev, nil
}
