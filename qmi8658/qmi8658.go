package qmi8658

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mklimuk/imu"
)

// Register map (device-internal addresses)
const (
	regWhoAmI    = 0x00
	regCtrl1     = 0x02
	regCtrl7     = 0x08
	regStatusInt = 0x2D
	regTempL     = 0x33
	regAccelXL   = 0x35
)

// DefaultAddress is the 7-bit bus address the QMI8658A answers on when its
// SA0 pin is pulled high.
const DefaultAddress = 0x6B

// ChipID is the value the WHO_AM_I register is expected to hold.
const ChipID = 0x05

const sampleBlockSize = 12

const defaultLockAttempts = 100

// ErrLockTimeout is returned by ReadSample when the sensor reports a sample
// available but never latches it within the configured number of status
// reads.
var ErrLockTimeout = errors.New("sensor did not latch a sample")

// StatusFlags is the transient content of the STATUSINT register.
type StatusFlags byte

const (
	statusAvailable StatusFlags = 1 << 0
	statusLocked    StatusFlags = 1 << 1
)

// Available reports whether the sensor holds a new sample.
func (s StatusFlags) Available() bool { return s&statusAvailable != 0 }

// Locked reports whether the sample snapshot is latched and safe to burst-read.
func (s StatusFlags) Locked() bool { return s&statusLocked != 0 }

// Sample holds one consistent six-axis reading in raw sensor counts.
// Scaling to g and °/s depends on the configured full-scale ranges and is a
// caller concern.
type Sample struct {
	AccelX int16
	AccelY int16
	AccelZ int16
	GyroX  int16 // pitch rate
	GyroY  int16 // roll rate
	GyroZ  int16 // yaw rate
}

type Options struct {
	Address      byte
	LockAttempts int
}

type Option func(*Options)

// WithAddress overrides the default 7-bit bus address.
func WithAddress(address byte) Option {
	return func(o *Options) {
		o.Address = address
	}
}

// WithLockAttempts sets how many STATUSINT reads ReadSample performs while
// waiting for the sample latch before giving up with ErrLockTimeout.
func WithLockAttempts(attempts int) Option {
	return func(o *Options) {
		o.LockAttempts = attempts
	}
}

// QMI8658 represents a QST QMI8658A 6-axis IMU (accelerometer + gyroscope).
// Typical usage:
//
//	d := qmi8658.New(bus)
//	err := d.Initialize(ctx, qmi8658.NewConfig(
//		qmi8658.EnableAccelerometer(),
//		qmi8658.EnableGyroscope(),
//	))
//	sample, ok, err := d.ReadSample(ctx)
//
// The driver holds the transport for the duration of each call and keeps no
// state besides the address and the lock retry budget.
type QMI8658 struct {
	transport    imu.I2CBus
	address      byte
	lockAttempts int
}

func New(trans imu.I2CBus, opts ...Option) *QMI8658 {
	config := Options{
		Address:      DefaultAddress,
		LockAttempts: defaultLockAttempts,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &QMI8658{
		transport:    trans,
		address:      config.Address,
		lockAttempts: config.LockAttempts,
	}
}

// ReadChipID reads the WHO_AM_I register and returns the raw byte. No
// validation is performed; compare against ChipID.
func (d *QMI8658) ReadChipID(ctx context.Context) (byte, error) {
	var id [1]byte
	err := d.transport.WriteReadToAddr(ctx, d.address, []byte{regWhoAmI}, id[:])
	if err != nil {
		return 0, fmt.Errorf("qmi8658: chip id read failed: %w", err)
	}
	return id[0], nil
}

// Initialize writes CTRL1 then CTRL7 as two separate transactions. The device
// has no atomic multi-register write, so a CTRL7 failure leaves CTRL1 already
// applied; the returned error names the register that failed.
func (d *QMI8658) Initialize(ctx context.Context, cfg Config) error {
	ctrl1, ctrl7 := cfg.Bytes()
	err := d.transport.WriteToAddr(ctx, d.address, []byte{regCtrl1, ctrl1})
	if err != nil {
		return fmt.Errorf("qmi8658: ctrl1 write failed: %w", err)
	}
	err = d.transport.WriteToAddr(ctx, d.address, []byte{regCtrl7, ctrl7})
	if err != nil {
		return fmt.Errorf("qmi8658: ctrl7 write failed, ctrl1 already applied: %w", err)
	}
	return nil
}

// ReadTemperature returns the raw 16-bit temperature code (TEMP_L/TEMP_H,
// little-endian). Use Celsius to convert.
func (d *QMI8658) ReadTemperature(ctx context.Context) (int16, error) {
	var temp [2]byte
	err := d.transport.WriteReadToAddr(ctx, d.address, []byte{regTempL}, temp[:])
	if err != nil {
		return 0, fmt.Errorf("qmi8658: temperature read failed: %w", err)
	}
	return int16(binary.LittleEndian.Uint16(temp[:])), nil
}

// Celsius converts a raw temperature code to degrees Celsius (1/256 °C per
// LSB).
func Celsius(code int16) float32 {
	return float32(code) / 256
}

// ReadStatus reads the STATUSINT register once.
func (d *QMI8658) ReadStatus(ctx context.Context) (StatusFlags, error) {
	var status [1]byte
	err := d.transport.WriteReadToAddr(ctx, d.address, []byte{regStatusInt}, status[:])
	if err != nil {
		return 0, fmt.Errorf("qmi8658: status read failed: %w", err)
	}
	return StatusFlags(status[0]), nil
}

// ReadSample polls STATUSINT and, when a latched sample is ready, performs a
// single 12-byte burst read of the six axes.
//
// When no new sample is available the call returns ok=false with a nil
// error; poll again later. When the available bit is set the status register
// is re-read until the lock bit confirms the sensor has latched its snapshot
// (the latch prevents a read torn by an in-progress sample update). The
// available and lock bits are checked on separate reads, as the device
// protocol defines. The wait is bounded by the lock retry budget; exhaustion
// returns ErrLockTimeout.
func (d *QMI8658) ReadSample(ctx context.Context) (Sample, bool, error) {
	status, err := d.ReadStatus(ctx)
	if err != nil {
		return Sample{}, false, err
	}
	if !status.Available() {
		return Sample{}, false, nil
	}
	for attempt := 0; !status.Locked(); attempt++ {
		if attempt >= d.lockAttempts {
			return Sample{}, false, fmt.Errorf("qmi8658: %w within %d status reads", ErrLockTimeout, d.lockAttempts)
		}
		status, err = d.ReadStatus(ctx)
		if err != nil {
			return Sample{}, false, err
		}
	}
	var block [sampleBlockSize]byte
	err = d.transport.WriteReadToAddr(ctx, d.address, []byte{regAccelXL}, block[:])
	if err != nil {
		return Sample{}, false, fmt.Errorf("qmi8658: sample burst read failed: %w", err)
	}
	return Sample{
		AccelX: int16(binary.LittleEndian.Uint16(block[0:2])),
		AccelY: int16(binary.LittleEndian.Uint16(block[2:4])),
		AccelZ: int16(binary.LittleEndian.Uint16(block[4:6])),
		GyroX:  int16(binary.LittleEndian.Uint16(block[6:8])),
		GyroY:  int16(binary.LittleEndian.Uint16(block[8:10])),
		GyroZ:  int16(binary.LittleEndian.Uint16(block[10:12])),
	}, true, nil
}
