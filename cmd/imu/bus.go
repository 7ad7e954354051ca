package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/adapter"
	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/i2c"
)

func adapterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Value:   "mcp2221",
			Usage:   "bus adapter: mcp2221, generic or nanopi",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Value:   "/dev/i2c-1",
			Usage:   "i2c device path (generic adapter)",
		},
		&cli.IntFlag{
			Name:  "bus",
			Value: 0,
			Usage: "i2c bus number (nanopi adapter)",
		},
		&cli.IntFlag{
			Name:  "speed",
			Value: 100,
			Usage: "bus speed in kHz (generic adapter)",
		},
		&cli.IntFlag{
			Name:  "address",
			Value: 0x6B,
			Usage: "7-bit device address",
		},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	}
}

// newBus opens the selected bus adapter. The returned cleanup function is
// never nil.
func newBus(c *cli.Context) (imu.I2CBus, func(), error) {
	switch c.String("adapter") {
	case "mcp2221":
		ad := adapter.NewMCP2221()
		if err := ad.Init(); err != nil {
			return nil, func() {}, fmt.Errorf("adapter initialization error: %w", err)
		}
		return ad, func() {}, nil
	case "generic":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, func() {}, fmt.Errorf("adapter initialization error: %w", err)
		}
		if err := bus.SetSpeed(physic.Frequency(c.Int("speed")) * physic.KiloHertz); err != nil {
			_ = bus.Close()
			return nil, func() {}, fmt.Errorf("could not set bus speed: %w", err)
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, func() {}, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := adapter.NewGobotBus(npi, c.Int("bus"))
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown adapter %q", c.String("adapter"))
	}
}
