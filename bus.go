package imu

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableTransceiver writes a register pointer and reads back data in a
// single bus transaction (repeated start on native I2C).
type AddressableTransceiver interface {
	WriteReadToAddr(ctx context.Context, address byte, w, r []byte) error
}

type I2CBus interface {
	AddressableWriter
	AddressableTransceiver
}
