// Package ili9488 drives the 320x480 ILI9488 panel family over SPI.
// The SPI interface of this controller only accepts 18-bit color, so the
// RGB565 canvas is expanded to 3 bytes per pixel on the way out.
package ili9488

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
	cmdSlpOut   = 0x11
	cmdDispOn   = 0x29
	cmdCaSet    = 0x2a
	cmdPaSet    = 0x2b
	cmdRamWr    = 0x2c
	cmdMadCtl   = 0x36
	cmdPixFmt   = 0x3a
	cmdFrmCtr   = 0xb1
	cmdInvCtr   = 0xb4
	cmdDisCtrl  = 0xb6
	cmdEntryMod = 0xb7
	cmdPwCtrl1  = 0xc0
	cmdPwCtrl2  = 0xc1
	cmdVmCtrl   = 0xc5
	cmdPGamma   = 0xe0
	cmdNGamma   = 0xe1
	cmdAdjCtrl3 = 0xf7

	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlBGR = 0x08

	pixfmt18bit = 0x66

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

	setReset gpio.LineSetFunc
	setDC    gpio.LineSetFunc
	flush    func() error

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

	chip, err := gpio.Open(d.cfg.PinChip, "pocketpal-ili9488")
	if err != nil {
		_ = port.Close()
		return types.WrapHardware(err, "gpio open "+d.cfg.PinChip)
	}
	d.chip = chip
	lines, err := chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "ili9488",
		d.cfg.PinReset, d.cfg.PinDC)
	if err != nil {
		_ = chip.Close()
		_ = port.Close()
		return types.WrapHardware(err, "gpio lines")
	}
	d.lines = lines
	d.setReset = lines.SetFunc(d.cfg.PinReset)
	d.setDC = lines.SetFunc(d.cfg.PinDC)
	d.flush = lines.Flush

	if err := d.reset(); err != nil {
		return err
	}
	if err := d.initPanel(); err != nil {
		return err
	}
	d.log.Debugf("ili9488 init ok bus=%s %dx%d rot=%d",
		d.cfg.SPIBus, d.cfg.Width, d.cfg.Height, d.cfg.Rotation)
	return nil
}

func (d *Driver) reset() error {
	for _, step := range []struct {
		v byte
		t time.Duration
	}{{1, 5 * time.Millisecond}, {0, 20 * time.Millisecond}, {1, 150 * time.Millisecond}} {
		d.setReset(step.v)
		if err := d.flush(); err != nil {
			return types.WrapHardware(err, "reset")
		}
		time.Sleep(step.t)
	}
	return nil
}

func (d *Driver) initPanel() error {
	seq := []struct {
		cmd  byte
		data []byte
	}{
		{cmdPGamma, []byte{0x00, 0x03, 0x09, 0x08, 0x16, 0x0a, 0x3f, 0x78, 0x4c, 0x09, 0x0a, 0x08, 0x16, 0x1a, 0x0f}},
		{cmdNGamma, []byte{0x00, 0x16, 0x19, 0x03, 0x0f, 0x05, 0x32, 0x45, 0x46, 0x04, 0x0e, 0x0d, 0x35, 0x37, 0x0f}},
		{cmdPwCtrl1, []byte{0x17, 0x15}},
		{cmdPwCtrl2, []byte{0x41}},
		{cmdVmCtrl, []byte{0x00, 0x12, 0x80}},
		{cmdMadCtl, []byte{d.madctl()}},
		{cmdPixFmt, []byte{pixfmt18bit}},
		{cmdFrmCtr, []byte{0xa0}},
		{cmdInvCtr, []byte{0x02}},
		{cmdDisCtrl, []byte{0x02, 0x02, 0x3b}},
		{cmdEntryMod, []byte{0xc6}},
		{cmdAdjCtrl3, []byte{0xa9, 0x51, 0x2c, 0x82}},
	}
	for _, s := range seq {
		if err := d.writeCmd(s.cmd, s.data...); err != nil {
			return err
		}
	}
	if err := d.writeCmd(cmdSlpOut); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	if err := d.writeCmd(cmdDispOn); err != nil {
		return err
	}
	time.Sleep(25 * time.Millisecond)
	return nil
}

func (d *Driver) madctl() byte {
	m := byte(madctlBGR)
	switch d.cfg.Rotation {
	case 90:
		m |= madctlMV | madctlMY
	case 180:
		m |= madctlMX | madctlMY
	case 270:
		m |= madctlMV | madctlMX
	}
	return m
}

func (d *Driver) Present(c *display.Canvas) error {
	w, h := c.Size()
	if err := d.window(0, 0, w-1, h-1); err != nil {
		return err
	}
	need := w * h * 3
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:need]
	for i, p := range c.Pix() {
		r, g, b := encode666(p)
		buf[3*i] = r
		buf[3*i+1] = g
		buf[3*i+2] = b
	}
	return d.writeData(buf)
}

// encode666 expands RGB565 to the 18-bit wire format, one color per byte
// with the two low bits unused.
func encode666(p display.Color) (r, g, b byte) {
	r = byte(p>>11) << 3
	r |= r >> 5
	r &= 0xfc
	g = byte(p>>5&0x3f) << 2
	b = byte(p&0x1f) << 3
	b |= b >> 5
	b &= 0xfc
	return r, g, b
}

func (d *Driver) window(x0, y0, x1, y1 int) error {
	err := d.writeCmd(cmdCaSet,
		byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	if err != nil {
		return err
	}
	err = d.writeCmd(cmdPaSet,
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

// SetBacklight is a no-op: this module has no controllable backlight line.
func (d *Driver) SetBacklight(on bool) error { return nil }

func (d *Driver) Close() error {
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
