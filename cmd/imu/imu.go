package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/qmi8658"
)

func configFlags() []cli.Flag {
	return append(adapterFlags(),
		&cli.BoolFlag{Name: "accel", Value: true, Usage: "enable accelerometer"},
		&cli.BoolFlag{Name: "gyro", Value: true, Usage: "enable gyroscope"},
		&cli.BoolFlag{Name: "auto-increment", Value: true, Usage: "enable register address auto-increment"},
		&cli.BoolFlag{Name: "little-endian", Usage: "serialize sensor data little-endian"},
		&cli.BoolFlag{Name: "int1", Usage: "enable INT1 output"},
		&cli.BoolFlag{Name: "int2", Usage: "enable INT2 output"},
		&cli.BoolFlag{Name: "snooze", Usage: "gyroscope snooze mode"},
		&cli.BoolFlag{Name: "no-drdy", Usage: "disable data-ready signaling"},
		&cli.BoolFlag{Name: "sync-sample", Usage: "enable sync-sample mode"},
	)
}

func buildConfig(c *cli.Context) qmi8658.Config {
	var opts []qmi8658.ConfigOption
	if c.Bool("accel") {
		opts = append(opts, qmi8658.EnableAccelerometer())
	}
	if c.Bool("gyro") {
		opts = append(opts, qmi8658.EnableGyroscope())
	}
	if c.Bool("auto-increment") {
		opts = append(opts, qmi8658.EnableAddressAutoIncrement())
	}
	if c.Bool("little-endian") {
		opts = append(opts, qmi8658.LittleEndianData())
	}
	if c.Bool("int1") {
		opts = append(opts, qmi8658.EnableINT1())
	}
	if c.Bool("int2") {
		opts = append(opts, qmi8658.EnableINT2())
	}
	if c.Bool("snooze") {
		opts = append(opts, qmi8658.GyroscopeSnooze())
	}
	if c.Bool("no-drdy") {
		opts = append(opts, qmi8658.DisableDataReady())
	}
	if c.Bool("sync-sample") {
		opts = append(opts, qmi8658.EnableSyncSample())
	}
	return qmi8658.NewConfig(opts...)
}

func newSensor(c *cli.Context) (*qmi8658.QMI8658, func(), error) {
	bus, cleanup, err := newBus(c)
	if err != nil {
		return nil, cleanup, err
	}
	return qmi8658.New(bus, qmi8658.WithAddress(byte(c.Int("address")))), cleanup, nil
}

var idCmd = cli.Command{
	Name:  "id",
	Usage: "read the WHO_AM_I register",
	Flags: adapterFlags(),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, cleanup, err := newSensor(c)
		defer cleanup()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		id, err := s.ReadChipID(ctx)
		if err != nil {
			return console.Exit(1, "error reading chip id: %s", console.Red(err))
		}
		if id == qmi8658.ChipID {
			console.Printf("chip id: %s\n", console.Green(id))
		} else {
			console.Printf("chip id: %s (expected %#x)\n", console.Yellow(id), qmi8658.ChipID)
		}
		return nil
	},
}

var initCmd = cli.Command{
	Name:  "init",
	Usage: "write the CTRL1/CTRL7 configuration",
	Flags: configFlags(),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, cleanup, err := newSensor(c)
		defer cleanup()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		id, err := s.ReadChipID(ctx)
		if err != nil {
			return console.Exit(1, "error reading chip id: %s", console.Red(err))
		}
		if id != qmi8658.ChipID {
			console.Warnf("unexpected chip id %#x (expected %#x)", id, qmi8658.ChipID)
			answer, err := console.YesOrNo("initialize anyway?")
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if answer != console.Yes {
				return nil
			}
		}
		cfg := buildConfig(c)
		ctrl1, ctrl7 := cfg.Bytes()
		err = s.Initialize(ctx, cfg)
		if err != nil {
			return console.Exit(1, "error initializing sensor: %s", console.Red(err))
		}
		console.Printf("initialized: ctrl1=%#08b ctrl7=%#08b\n", ctrl1, ctrl7)
		return nil
	},
}

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read one six-axis sample",
	Flags: append(adapterFlags(),
		&cli.IntFlag{Name: "lock-attempts", Value: 100, Usage: "status reads to wait for the sample latch"},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, cleanup, err := newBus(c)
		defer cleanup()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		s := qmi8658.New(bus,
			qmi8658.WithAddress(byte(c.Int("address"))),
			qmi8658.WithLockAttempts(c.Int("lock-attempts")),
		)
		sample, ok, err := s.ReadSample(ctx)
		if err != nil {
			return console.Exit(1, "error reading sample: %s", console.Red(err))
		}
		if !ok {
			console.Printf("%s no sample this cycle\n", console.PictoStop)
			return nil
		}
		printSample(sample)
		return nil
	},
}

var tempCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read the raw temperature code",
	Flags:   adapterFlags(),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, cleanup, err := newSensor(c)
		defer cleanup()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		code, err := s.ReadTemperature(ctx)
		if err != nil {
			return console.Exit(1, "error getting temperature read: %s", console.Red(err))
		}
		console.Printf("%s  %s (raw %#06x)\n", console.PictoThermometer, console.White(qmi8658.Celsius(code)), uint16(code))
		return nil
	},
}

var watchCmd = cli.Command{
	Name:  "watch",
	Usage: "initialize the sensor and poll it until interrupted",
	Flags: append(configFlags(),
		&cli.DurationFlag{Name: "interval", Value: 100 * time.Millisecond},
		&cli.BoolFlag{Name: "temperature", Usage: "log temperature along with samples"},
	),
	Action: func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx = console.SetVerbose(ctx, c.Bool("verbose"))
		s, cleanup, err := newSensor(c)
		defer cleanup()
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		err = s.Initialize(ctx, buildConfig(c))
		if err != nil {
			return console.Exit(1, "error initializing sensor: %s", console.Red(err))
		}
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			sample, ok, err := s.ReadSample(ctx)
			if err != nil {
				if errors.Is(err, qmi8658.ErrLockTimeout) {
					slog.Warn("sample latch timeout", "error", err)
					continue
				}
				return console.Exit(1, "error reading sample: %s", console.Red(err))
			}
			if !ok {
				slog.Debug("no sample this cycle")
				continue
			}
			slog.Info("sample",
				"ax", sample.AccelX, "ay", sample.AccelY, "az", sample.AccelZ,
				"gx", sample.GyroX, "gy", sample.GyroY, "gz", sample.GyroZ)
			if c.Bool("temperature") {
				code, err := s.ReadTemperature(ctx)
				if err != nil {
					return console.Exit(1, "error getting temperature read: %s", console.Red(err))
				}
				slog.Info("temperature", "celsius", qmi8658.Celsius(code), "raw", code)
			}
		}
	},
}

func printSample(sample qmi8658.Sample) {
	console.Printf("%s accel: %s %s %s\n", console.PictoCompass,
		console.White(sample.AccelX), console.White(sample.AccelY), console.White(sample.AccelZ))
	console.Printf("%s gyro:  %s %s %s\n", console.PictoCompass,
		console.White(sample.GyroX), console.White(sample.GyroY), console.White(sample.GyroZ))
}
