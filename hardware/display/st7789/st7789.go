// Package st7789 drives the 240x240 ST7789 panel family over SPI.
// Addressing-window commands and byte order are internal to this backend.
package st7789

import (
	"time"

	gpio "github.com/temoto/gpio-cdev-go"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

const (
	cmdSlpOut = 0x11
	cmdNorOn  = 0x13
	cmdInvOn  = 0x21
	cmdDispOn = 0x29
	cmdCaSet  = 0x2a
	cmdRaSet  = 0x2b
	cmdRamWr  = 0x2c
	cmdMadCtl = 0x36
	cmdColMod = 0x3a

	madctlMY = 0x80
	madctlMX = 0x40
	madctlMV = 0x20

	colmod16bit = 0x55

	// spidev transfer size limit
	chunkSize = 4096
)

type txer interface {
	Tx(w, r []byte) error
}

type Driver struct {
	cfg profile.DisplayConfig
	log *log2.Log

	port  spi.PortCloser
	conn  txer
	chip  gpio.Chiper
	lines gpio.Lineser

	setReset     gpio.LineSetFunc
	setDC        gpio.LineSetFunc
	setBacklight gpio.LineSetFunc // nil when the variant has no backlight line
	flush        func() error

	buf []byte
}

// compile-time interface compliance test
var _ display.Driver = new(Driver)

func New(cfg profile.DisplayConfig, log *log2.Log) *Driver {
	return &Driver{cfg: cfg, log: log}
}

func (d *Driver) Init() error {
	if _, err := host.Init(); err != nil {
		return types.WrapHardware(err, "periph init")
	}
	port, err := spireg.Open(d.cfg.SPIBus)
	if err != nil {
		return types.WrapHardware(err, "spi open "+d.cfg.SPIBus)
	}
	d.port = port
	conn, err := port.Connect(physic.Frequency(d.cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return types.WrapHardware(err, "spi connect")
	}
	d.conn = conn

	chip, err := gpio.Open(d.cfg.PinChip, "pocketpal-st7789")
	if err != nil {
		_ = port.Close()
		return types.WrapHardware(err, "gpio open "+d.cfg.PinChip)
	}
	d.chip = chip
	offsets := []uint32{d.cfg.PinReset, d.cfg.PinDC}
	if d.cfg.PinBacklight >= 0 {
		offsets = append(offsets, uint32(d.cfg.PinBacklight))
	}
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "st7789", offsets...)
	if err != nil {
		_ = chip.Close()
		_ = port.Close()
		return types.WrapHardware(err, "gpio lines")
	}
	d.lines = lines
	d.setReset = lines.SetFunc(d.cfg.PinReset)
	d.setDC = lines.SetFunc(d.cfg.PinDC)
	if d.cfg.PinBacklight >= 0 {
		d.setBacklight = lines.SetFunc(uint32(d.cfg.PinBacklight))
	}
	d.flush = lines.Flush

	if err := d.reset(); err != nil {
		return err
	}
	if err := d.initPanel(); err != nil {
		return err
	}
	if err := d.SetBacklight(true); err != nil {
		return err
	}
	d.log.Debugf("st7789 init ok bus=%s %dx%d rot=%d",
		d.cfg.SPIBus, d.cfg.Width, d.cfg.Height, d.cfg.Rotation)
	return nil
}

func (d *Driver) reset() error {
	d.setReset(1)
	if err := d.flush(); err != nil {
		return types.WrapHardware(err, "reset")
	}
	time.Sleep(10 * time.Millisecond)
	d.setReset(0)
	if err := d.flush(); err != nil {
		return types.WrapHardware(err, "reset")
	}
	time.Sleep(10 * time.Millisecond)
	d.setReset(1)
	if err := d.flush(); err != nil {
		return types.WrapHardware(err, "reset")
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

func (d *Driver) initPanel() error {
	if err := d.writeCmd(cmdSlpOut); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	if err := d.writeCmd(cmdColMod, colmod16bit); err != nil {
		return err
	}
	if err := d.writeCmd(cmdMadCtl, d.madctl()); err != nil {
		return err
	}
	// this panel family wants inversion on for correct colors
	if err := d.writeCmd(cmdInvOn); err != nil {
		return err
	}
	if err := d.writeCmd(cmdNorOn); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.writeCmd(cmdDispOn); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (d *Driver) madctl() byte {
	switch d.cfg.Rotation {
	case 90:
		return madctlMX | madctlMV
	case 180:
		return madctlMX | madctlMY
	case 270:
		return madctlMY | madctlMV
	}
	return 0
}

func (d *Driver) Present(c *display.Canvas) error {
	w, h := c.Size()
	if err := d.window(0, 0, w-1, h-1); err != nil {
		return err
	}
	need := w * h * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]
	for i, p := range c.Pix() {
		buf[2*i] = byte(p >> 8)
		buf[2*i+1] = byte(p)
	}
	return d.writeData(buf)
}

func (d *Driver) window(x0, y0, x1, y1 int) error {
	x0 += d.cfg.XOffset
	x1 += d.cfg.XOffset
	y0 += d.cfg.YOffset
	y1 += d.cfg.YOffset
	err := d.writeCmd(cmdCaSet,
		byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	if err != nil {
		return err
	}
	err = d.writeCmd(cmdRaSet,
		byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
	if err != nil {
		return err
	}
	return d.writeCmd(cmdRamWr)
}

func (d *Driver) writeCmd(cmd byte, data ...byte) error {
	d.setDC(0)
	if err := d.flush(); err != nil {
		return types.WrapHardware(err, "dc")
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return types.WrapHardware(err, "spi cmd")
	}
	if len(data) == 0 {
		return nil
	}
	return d.writeData(data)
}

func (d *Driver) writeData(data []byte) error {
	d.setDC(1)
	if err := d.flush(); err != nil {
		return types.WrapHardware(err, "dc")
	}
	for len(data) > 0 {
		n := len(data)
		if n > chunkSize {
			n = chunkSize
		}
		if err := d.conn.Tx(data[:n], nil); err != nil {
			return types.WrapHardware(err, "spi data")
		}
		data = data[n:]
	}
	return nil
}

func (d *Driver) SetBacklight(on bool) error {
	if d.setBacklight == nil {
		return nil
	}
	v := byte(0)
	if on {
		v = 1
	}
	d.setBacklight(v)
	return types.WrapHardware(d.flush(), "backlight")
}

func (d *Driver) Close() error {
	_ = d.SetBacklight(false)
	if d.lines != nil {
		_ = d.lines.Close()
	}
	if d.chip != nil {
		_ = d.chip.Close()
	}
	if d.port != nil {
		return d.port.Close()
	}
	return nil
}
