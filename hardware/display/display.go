package display

import (
	"image"

	"github.com/juju/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pocketpal/pocketpal/log2"
)

// Driver is implemented by each panel controller backend. Init failure is
// fatal: there is no fallback rendering path.
type Driver interface {
	Init() error
	Present(c *Canvas) error
	SetBacklight(on bool) error
	Close() error
}

// Display owns the single Canvas and the panel transport.
type Display struct {
	drv    Driver
	canvas *Canvas
	log    *log2.Log
}

func New(drv Driver, width, height int, log *log2.Log) (*Display, error) {
	if err := drv.Init(); err != nil {
		return nil, errors.Annotate(err, "display init")
	}
	d := &Display{
		drv:    drv,
		canvas: NewCanvas(width, height),
		log:    log,
	}
	return d, nil
}

func (d *Display) Canvas() *Canvas { return d.canvas }

// Present flushes the buffer to the panel.
func (d *Display) Present() error {
	return errors.Annotate(d.drv.Present(d.canvas), "display present")
}

func (d *Display) SetBacklight(on bool) error {
	d.log.Debugf("display backlight=%t", on)
	return errors.Annotate(d.drv.SetBacklight(on), "display backlight")
}

func (d *Display) Close() error { return d.drv.Close() }

// QR draws text as a QR code centered on the canvas, scaled to the largest
// integer module size that fits. Used by diagnostics screens.
func (d *Display) QR(text string, level qrcode.RecoveryLevel) error {
	qr, err := qrcode.New(text, level)
	if err != nil {
		return errors.Annotate(err, "QR")
	}
	qr.DisableBorder = true
	img, ok := qr.Image(-1).(*image.Paletted)
	if !ok {
		return errors.Errorf("QR unexpected image type")
	}
	side := img.Bounds().Dx()
	min := d.canvas.w
	if d.canvas.h < min {
		min = d.canvas.h
	}
	scale := min / (side + 2)
	if scale < 1 {
		return errors.Errorf("QR size=%d > display size=%dx%d", side, d.canvas.w, d.canvas.h)
	}
	x0 := (d.canvas.w - side*scale) / 2
	y0 := (d.canvas.h - side*scale) / 2
	d.canvas.FillRect(x0-scale, y0-scale, (side+2)*scale, (side+2)*scale, White)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if img.ColorIndexAt(img.Bounds().Min.X+x, img.Bounds().Min.Y+y) != 0 {
				d.canvas.FillRect(x0+x*scale, y0+y*scale, scale, scale, Black)
			}
		}
	}
	return nil
}
