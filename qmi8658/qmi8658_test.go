package qmi8658

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of imu.I2CBus using testify/mock.
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) WriteReadToAddr(ctx context.Context, address byte, w, r []byte) error {
	args := m.Called(ctx, address, w, r)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(r) {
			copy(r, data)
		}
	}
	return args.Error(1)
}

// regRead matches a write-then-read transaction addressing the given register.
func regRead(reg byte) interface{} {
	return mock.MatchedBy(func(w []byte) bool {
		return len(w) == 1 && w[0] == reg
	})
}

func TestQMI8658_ReadChipID(t *testing.T) {
	tests := []struct {
		name string
		id   byte
	}{
		{"expected id", ChipID},
		{"unexpected id is returned unvalidated", 0x42},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regWhoAmI), mock.Anything).
				Return([]byte{test.id}, nil).Once()

			d := New(bus)
			id, err := d.ReadChipID(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, test.id, id)
			bus.AssertExpectations(t)
		})
	}
}

func TestQMI8658_Initialize(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regCtrl1, 0b0110_0000}).
		Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regCtrl7, 0b0000_0011}).
		Return(nil).Once()

	d := New(bus)
	cfg := NewConfig(
		EnableAddressAutoIncrement(),
		EnableAccelerometer(),
		EnableGyroscope(),
	)
	assert.NoError(t, d.Initialize(context.Background(), cfg))
	bus.AssertExpectations(t)
}

func TestQMI8658_Initialize_Ctrl1FailureSkipsCtrl7(t *testing.T) {
	busErr := errors.New("i2c write failed")
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regCtrl1, 0b0010_0000}).
		Return(busErr).Once()

	d := New(bus)
	err := d.Initialize(context.Background(), NewConfig())
	assert.ErrorIs(t, err, busErr)
	assert.Contains(t, err.Error(), "ctrl1")
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
	bus.AssertExpectations(t)
}

func TestQMI8658_Initialize_Ctrl7FailureNamesRegister(t *testing.T) {
	busErr := errors.New("i2c write failed")
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regCtrl1, 0b0010_0000}).
		Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{regCtrl7, 0b0000_0001}).
		Return(busErr).Once()

	d := New(bus)
	err := d.Initialize(context.Background(), NewConfig(EnableAccelerometer()))
	assert.ErrorIs(t, err, busErr)
	assert.Contains(t, err.Error(), "ctrl7")
	bus.AssertExpectations(t)
}

func TestQMI8658_ReadSample_NotAvailable(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
		Return([]byte{0x00}, nil).Once()

	d := New(bus)
	sample, ok, err := d.ReadSample(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Sample{}, sample)
	// no burst transaction of any kind happened
	bus.AssertNumberOfCalls(t, "WriteReadToAddr", 1)
	bus.AssertExpectations(t)
}

func TestQMI8658_ReadSample(t *testing.T) {
	bus := new(MockI2CBus)
	// available, still unlocked, then locked
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
		Return([]byte{0x01}, nil).Twice()
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
		Return([]byte{0x03}, nil).Once()
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regAccelXL), mock.Anything).
		Return([]byte{0x01, 0x00, 0x02, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, nil).Once()

	d := New(bus)
	sample, ok, err := d.ReadSample(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Sample{
		AccelX: 1,
		AccelY: 2,
		AccelZ: -1,
		GyroX:  0,
		GyroY:  0,
		GyroZ:  -32768,
	}, sample)
	bus.AssertExpectations(t)
}

func TestQMI8658_ReadSample_ImmediatelyLocked(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
		Return([]byte{0x03}, nil).Once()
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regAccelXL), mock.Anything).
		Return(make([]byte, 12), nil).Once()

	d := New(bus)
	_, ok, err := d.ReadSample(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)
	bus.AssertExpectations(t)
}

func TestQMI8658_ReadSample_LockTimeout(t *testing.T) {
	bus := new(MockI2CBus)
	// available but the lock bit never appears: initial read plus the
	// whole retry budget
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
		Return([]byte{0x01}, nil).Times(4)

	d := New(bus, WithLockAttempts(3))
	_, ok, err := d.ReadSample(context.Background())
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, ok)
	bus.AssertExpectations(t)
}

func TestQMI8658_ReadTemperature(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regTempL), mock.Anything).
		Return([]byte{0x00, 0x01}, nil).Once()

	d := New(bus)
	code, err := d.ReadTemperature(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int16(256), code)
	bus.AssertExpectations(t)
}

func TestCelsius(t *testing.T) {
	tests := []struct {
		code     int16
		expected float32
	}{
		{0, 0},
		{256, 1},
		{-128, -0.5},
		{6400, 25},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, Celsius(test.code))
	}
}

func TestQMI8658_TransportErrorsPropagate(t *testing.T) {
	busErr := errors.New("NACK")
	tests := []struct {
		name      string
		setupMock func(*MockI2CBus)
		call      func(*QMI8658) error
	}{
		{
			name: "chip id read",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regWhoAmI), mock.Anything).
					Return(nil, busErr).Once()
			},
			call: func(d *QMI8658) error {
				_, err := d.ReadChipID(context.Background())
				return err
			},
		},
		{
			name: "control write",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
					Return(busErr).Once()
			},
			call: func(d *QMI8658) error {
				return d.Initialize(context.Background(), NewConfig())
			},
		},
		{
			name: "status poll",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
					Return(nil, busErr).Once()
			},
			call: func(d *QMI8658) error {
				_, _, err := d.ReadSample(context.Background())
				return err
			},
		},
		{
			name: "status re-read while waiting for lock",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
					Return([]byte{0x01}, nil).Once()
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
					Return(nil, busErr).Once()
			},
			call: func(d *QMI8658) error {
				_, _, err := d.ReadSample(context.Background())
				return err
			},
		},
		{
			name: "burst read",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regStatusInt), mock.Anything).
					Return([]byte{0x03}, nil).Once()
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regAccelXL), mock.Anything).
					Return(nil, busErr).Once()
			},
			call: func(d *QMI8658) error {
				_, _, err := d.ReadSample(context.Background())
				return err
			},
		},
		{
			name: "temperature read",
			setupMock: func(bus *MockI2CBus) {
				bus.On("WriteReadToAddr", mock.Anything, byte(DefaultAddress), regRead(regTempL), mock.Anything).
					Return(nil, busErr).Once()
			},
			call: func(d *QMI8658) error {
				_, err := d.ReadTemperature(context.Background())
				return err
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			test.setupMock(bus)

			d := New(bus)
			err := test.call(d)
			assert.ErrorIs(t, err, busErr)
			// no further transactions were attempted after the failure
			bus.AssertExpectations(t)
		})
	}
}

func TestQMI8658_WithAddress(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteReadToAddr", mock.Anything, byte(0x6A), regRead(regWhoAmI), mock.Anything).
		Return([]byte{ChipID}, nil).Once()

	d := New(bus, WithAddress(0x6A))
	id, err := d.ReadChipID(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, byte(ChipID), id)
	bus.AssertExpectations(t)
}
