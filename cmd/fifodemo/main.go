// Command fifodemo runs the LSM6DSV16B FIFO continuous mode demo. Press
// Enter or send SIGUSR1 to start and stop it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/internal/config"
	log "github.com/sirupsen/logrus"
	"gobot.io/x/gobot/sysfs"
)

const pollInterval = 10 * time.Millisecond

var openBus = i2c.Open

// inputPin is the part of a gobot sysfs digital pin used here.
type inputPin interface {
	Export() error
	Unexport() error
	Direction(dir string) error
	Read() (int, error)
}

func main() {
	driver := flag.String("driver", config.DefaultBusDriver, "Bus driver: sysfs, periph, embd or spi")
	device := flag.String("device", config.DefaultBusDevice, "Bus device")
	address := flag.Int("address", config.DefaultIMUAddress, "LSM6DSV16B I2C address")
	int1 := flag.Int("int1", -1, "GPIO number wired to INT1, or -1 to poll the FIFO status")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(*driver, *device, *address, *int1); err != nil {
		log.Errorln(err)
		os.Exit(1)
	}
}

func run(driver, device string, address, int1 int) error {
	bus, closer, err := openBus(driver, device, address)
	if err != nil {
		return fmt.Errorf("open bus: %w", err)
	}
	defer closer.Close()

	b := iks4a1.NewBoard()
	inst := b.AddMotion(iks4a1.LSM6DSV16B(bus))
	if err := b.MotionInit(inst, iks4a1.MotionGyro); err != nil {
		return fmt.Errorf("init LSM6DSV16B: %w", err)
	}

	event := func() (bool, error) { return b.FIFOFullStatus(inst) }
	if int1 >= 0 {
		var pin inputPin = sysfs.NewDigitalPin(int1)
		if err := pin.Export(); err != nil {
			return fmt.Errorf("export INT1 pin: %w", err)
		}
		defer pin.Unexport()
		if err := pin.Direction(sysfs.IN); err != nil {
			return fmt.Errorf("set INT1 pin direction: %w", err)
		}
		event = func() (bool, error) {
			v, err := pin.Read()
			return v == 1, err
		}
	}

	d := newDemo(b, inst, os.Stdout, event)
	if err := d.config(); err != nil {
		return fmt.Errorf("configure demo: %w", err)
	}

	buttons := make(chan struct{}, 1)
	press := func() {
		select {
		case buttons <- struct{}{}:
		default:
		}
	}
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			press()
		}
	}()
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return nil
		case <-usr1:
			press()
		case <-buttons:
			d.button()
		case <-t.C:
			if err := d.step(); err != nil {
				return err
			}
		}
	}
}
