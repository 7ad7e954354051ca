package qmi8658

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	ctrl1, ctrl7 := NewConfig().Bytes()
	assert.Equal(t, byte(0b0010_0000), ctrl1)
	assert.Equal(t, byte(0b0000_0000), ctrl7)
}

func TestConfig_SingleOptions(t *testing.T) {
	tests := []struct {
		name      string
		opt       ConfigOption
		wantCtrl1 byte
		wantCtrl7 byte
	}{
		{"disable high-speed oscillator", DisableHighSpeedOscillator(), 0b0010_0001, 0x00},
		{"fifo interrupt on INT1", RouteFIFOInterruptToINT1(), 0b0010_0100, 0x00},
		{"enable INT1", EnableINT1(), 0b0010_1000, 0x00},
		{"enable INT2", EnableINT2(), 0b0011_0000, 0x00},
		{"little-endian data", LittleEndianData(), 0b0000_0000, 0x00},
		{"address auto-increment", EnableAddressAutoIncrement(), 0b0110_0000, 0x00},
		{"3-wire SPI", SPI3WireMode(), 0b1010_0000, 0x00},
		{"enable accelerometer", EnableAccelerometer(), 0b0010_0000, 0b0000_0001},
		{"enable gyroscope", EnableGyroscope(), 0b0010_0000, 0b0000_0010},
		{"gyroscope snooze", GyroscopeSnooze(), 0b0010_0000, 0b0001_0000},
		{"disable data-ready", DisableDataReady(), 0b0010_0000, 0b0010_0000},
		{"sync-sample mode", EnableSyncSample(), 0b0010_0000, 0b1000_0000},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl1, ctrl7 := NewConfig(test.opt).Bytes()
			assert.Equal(t, test.wantCtrl1, ctrl1)
			assert.Equal(t, test.wantCtrl7, ctrl7)
		})
	}
}

// Options touch disjoint bits, so any subset in any order must produce the
// bitwise OR of the selected masks over the defaults.
func TestConfig_SubsetsAreOrderIndependent(t *testing.T) {
	setters := []struct {
		opt   ConfigOption
		ctrl1 byte
		ctrl7 byte
	}{
		{DisableHighSpeedOscillator(), 0b0000_0001, 0x00},
		{EnableINT1(), 0b0000_1000, 0x00},
		{EnableAddressAutoIncrement(), 0b0100_0000, 0x00},
		{EnableAccelerometer(), 0x00, 0b0000_0001},
		{EnableGyroscope(), 0x00, 0b0000_0010},
		{EnableSyncSample(), 0x00, 0b1000_0000},
	}
	for subset := 0; subset < 1<<len(setters); subset++ {
		t.Run(fmt.Sprintf("subset %#x", subset), func(t *testing.T) {
			wantCtrl1, wantCtrl7 := byte(0b0010_0000), byte(0)
			var forward, reverse []ConfigOption
			for i, s := range setters {
				if subset&(1<<i) == 0 {
					continue
				}
				wantCtrl1 |= s.ctrl1
				wantCtrl7 |= s.ctrl7
				forward = append(forward, s.opt)
				reverse = append([]ConfigOption{s.opt}, reverse...)
			}
			ctrl1, ctrl7 := NewConfig(forward...).Bytes()
			assert.Equal(t, wantCtrl1, ctrl1)
			assert.Equal(t, wantCtrl7, ctrl7)
			ctrl1, ctrl7 = NewConfig(reverse...).Bytes()
			assert.Equal(t, wantCtrl1, ctrl1)
			assert.Equal(t, wantCtrl7, ctrl7)
		})
	}
}

func TestConfig_OptionsAreIdempotent(t *testing.T) {
	once := NewConfig(LittleEndianData(), EnableGyroscope())
	twice := NewConfig(LittleEndianData(), EnableGyroscope(), LittleEndianData(), EnableGyroscope())
	assert.Equal(t, once, twice)
}

// LittleEndianData clears a default bit; its effect must not depend on where
// it appears in the option list.
func TestConfig_LittleEndianClearsDefaultBit(t *testing.T) {
	first, _ := NewConfig(LittleEndianData(), EnableINT1(), EnableAddressAutoIncrement()).Bytes()
	last, _ := NewConfig(EnableINT1(), EnableAddressAutoIncrement(), LittleEndianData()).Bytes()
	assert.Equal(t, byte(0b0100_1000), first)
	assert.Equal(t, first, last)
}
