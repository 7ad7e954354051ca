package qmi8658

// CTRL1 bit assignments
const (
	ctrl1DisableHighSpeedOsc byte = 1 << 0
	ctrl1FIFOIntOnINT1       byte = 1 << 2
	ctrl1INT1Enable          byte = 1 << 3
	ctrl1INT2Enable          byte = 1 << 4
	ctrl1BigEndian           byte = 1 << 5
	ctrl1AddrAutoInc         byte = 1 << 6
	ctrl1SPI3Wire            byte = 1 << 7
)

// CTRL7 bit assignments
const (
	ctrl7AccelEnable      byte = 1 << 0
	ctrl7GyroEnable       byte = 1 << 1
	ctrl7GyroSnooze       byte = 1 << 4
	ctrl7DataReadyDisable byte = 1 << 5
	ctrl7SyncSample       byte = 1 << 7
)

// Config accumulates the CTRL1 and CTRL7 control registers from named
// options. Each option sets or clears one fixed bit, so options compose in
// any order. The zero configuration (no options) leaves both sensors
// disabled and serial data big-endian, matching the device reset state.
type Config struct {
	ctrl1 byte
	ctrl7 byte
}

type ConfigOption func(*Config)

// NewConfig builds an immutable register configuration from the given
// options.
func NewConfig(opts ...ConfigOption) Config {
	cfg := Config{ctrl1: ctrl1BigEndian}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Bytes returns the packed CTRL1 and CTRL7 register values.
func (c Config) Bytes() (ctrl1, ctrl7 byte) {
	return c.ctrl1, c.ctrl7
}

// DisableHighSpeedOscillator powers down the internal 2 MHz oscillator.
func DisableHighSpeedOscillator() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1DisableHighSpeedOsc }
}

// RouteFIFOInterruptToINT1 maps the FIFO interrupt onto the INT1 pin.
func RouteFIFOInterruptToINT1() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1FIFOIntOnINT1 }
}

// EnableINT1 enables the INT1 pin output.
func EnableINT1() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1INT1Enable }
}

// EnableINT2 enables the INT2 pin output.
func EnableINT2() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1INT2Enable }
}

// LittleEndianData clears the big-endian bit that is set on reset, so
// multi-byte sensor data is serialized little-endian.
func LittleEndianData() ConfigOption {
	return func(c *Config) { c.ctrl1 &^= ctrl1BigEndian }
}

// EnableAddressAutoIncrement makes the register address auto-increment
// during burst transactions.
func EnableAddressAutoIncrement() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1AddrAutoInc }
}

// SPI3WireMode selects 3-wire SPI for the serial interface.
func SPI3WireMode() ConfigOption {
	return func(c *Config) { c.ctrl1 |= ctrl1SPI3Wire }
}

// EnableAccelerometer enables the accelerometer (aEN).
func EnableAccelerometer() ConfigOption {
	return func(c *Config) { c.ctrl7 |= ctrl7AccelEnable }
}

// EnableGyroscope enables the gyroscope (gEN).
func EnableGyroscope() ConfigOption {
	return func(c *Config) { c.ctrl7 |= ctrl7GyroEnable }
}

// GyroscopeSnooze puts the gyroscope in snooze mode (gSN): the drive stays
// on but no data is output.
func GyroscopeSnooze() ConfigOption {
	return func(c *Config) { c.ctrl7 |= ctrl7GyroSnooze }
}

// DisableDataReady turns off data-ready signaling to the interrupt pins.
func DisableDataReady() ConfigOption {
	return func(c *Config) { c.ctrl7 |= ctrl7DataReadyDisable }
}

// EnableSyncSample enables sync-sample mode.
func EnableSyncSample() ConfigOption {
	return func(c *Config) { c.ctrl7 |= ctrl7SyncSample }
}
