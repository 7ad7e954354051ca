package qmi8658

import (
	"context"
)

// SampleBehaviorFunc defines the function signature for sample behavior.
// It returns a raw six-axis sample, whether one was available, or an error.
type SampleBehaviorFunc func(ctx context.Context) (Sample, bool, error)

// TemperatureBehaviorFunc defines the function signature for temperature
// behavior. It returns the raw temperature code or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (int16, error)

// MockMotionSensor is a mock implementation of a six-axis motion sensor that
// uses behavior functions to produce results without requiring any hardware.
type MockMotionSensor struct {
	sampleBehavior SampleBehaviorFunc
	tempBehavior   TemperatureBehaviorFunc
}

// NewMockMotionSensor creates a new mock motion sensor with the given
// behavior functions.
//
// Example usage:
//
//	sensor := NewMockMotionSensor(
//		func(ctx context.Context) (Sample, bool, error) { return Sample{AccelZ: 4096}, true, nil },
//		func(ctx context.Context) (int16, error) { return 25 * 256, nil },
//	)
func NewMockMotionSensor(sampleBehavior SampleBehaviorFunc, tempBehavior TemperatureBehaviorFunc) *MockMotionSensor {
	return &MockMotionSensor{
		sampleBehavior: sampleBehavior,
		tempBehavior:   tempBehavior,
	}
}

// ReadSample returns a sample by calling the sample behavior function.
func (m *MockMotionSensor) ReadSample(ctx context.Context) (Sample, bool, error) {
	return m.sampleBehavior(ctx)
}

// ReadTemperature returns the raw temperature code by calling the
// temperature behavior function.
func (m *MockMotionSensor) ReadTemperature(ctx context.Context) (int16, error) {
	return m.tempBehavior(ctx)
}
