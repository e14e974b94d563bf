// hw-cli is the hardware bring-up tool: poke the display and watch input
// events without booting the full firmware.
package main

import (
	"flag"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/hardware/display/ili9488"
	"github.com/pocketpal/pocketpal/hardware/display/st7789"
	"github.com/pocketpal/pocketpal/hardware/input"
	"github.com/pocketpal/pocketpal/hardware/profile"
	"github.com/pocketpal/pocketpal/helpers/cli"
	"github.com/pocketpal/pocketpal/log2"
)

const usage = `commands:
- fill RRGGBB            fill the whole screen
- rect X Y W H RRGGBB    filled rectangle
- text X Y MESSAGE       5x7 text
- qr TEXT                centered QR code
- backlight on|off
- present                flush the canvas to the panel
- poll SECONDS           print input events
- help
`

func main() {
	flagHardware := flag.String("hardware", "waveshare-1.3", "hardware profile id")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	p, err := profile.Resolve(*flagHardware)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	var drv display.Driver
	switch p.Display.Controller {
	case profile.ControllerST7789:
		drv = st7789.New(p.Display, log)
	case profile.ControllerILI9488:
		drv = ili9488.New(p.Display, log)
	default:
		log.Fatalf("unknown controller=%s", p.Display.Controller)
	}
	w, h := p.DisplayDimensions()
	disp, err := display.New(drv, w, h, log)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	defer disp.Close()

	poller := input.NewPoller(log, input.PollerConfig{})
	if p.SupportsJoystick() {
		if src, err := input.NewJoystick(p.Display.PinChip, p.Joystick); err != nil {
			log.Errorf("joystick err=%v", err)
		} else {
			poller.Register(src, true)
		}
	}
	if p.Buttons.Present {
		if src, err := input.NewButtons(p.Display.PinChip, p.Buttons); err != nil {
			log.Errorf("buttons err=%v", err)
		} else {
			poller.Register(src, true)
		}
	}
	if p.SupportsTouch() {
		if src, err := input.NewTouch(p.Touch, p.Rotation(), w, h); err != nil {
			log.Errorf("touch err=%v", err)
		} else {
			poller.Register(src, false)
		}
	}
	defer poller.Close()

	exec := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		if err := execLine(log, disp, poller, line); err != nil {
			log.Errorf("%s", errors.ErrorStack(err))
		}
	}
	cli.MainLoop("hw", exec, complete)
}

func execLine(log *log2.Log, disp *display.Display, poller *input.Poller, line string) error {
	words := strings.Fields(line)
	c := disp.Canvas()
	switch words[0] {
	case "help":
		log.Infof(usage)
	case "fill":
		color, err := parseColor(words, 1)
		if err != nil {
			return err
		}
		c.Fill(color)
	case "rect":
		args, err := parseInts(words, 1, 4)
		if err != nil {
			return err
		}
		color, err := parseColor(words, 5)
		if err != nil {
			return err
		}
		c.FillRect(args[0], args[1], args[2], args[3], color)
	case "text":
		args, err := parseInts(words, 1, 2)
		if err != nil {
			return err
		}
		if len(words) < 4 {
			return errors.Errorf("text X Y MESSAGE")
		}
		c.DrawText(strings.Join(words[3:], " "), args[0], args[1], display.White)
	case "qr":
		if len(words) < 2 {
			return errors.Errorf("qr TEXT")
		}
		return disp.QR(strings.Join(words[1:], " "), qrcode.Medium)
	case "backlight":
		if len(words) != 2 {
			return errors.Errorf("backlight on|off")
		}
		return disp.SetBacklight(words[1] == "on")
	case "present":
		return disp.Present()
	case "poll":
		args, err := parseInts(words, 1, 1)
		if err != nil {
			return err
		}
		deadline := time.Now().Add(time.Duration(args[0]) * time.Second)
		for time.Now().Before(deadline) {
			for _, e := range poller.PollTick(time.Now()) {
				log.Infof("%s", e.String())
			}
			time.Sleep(20 * time.Millisecond)
		}
	default:
		return errors.Errorf("unknown command=%s, try help", words[0])
	}
	return nil
}

func parseColor(words []string, idx int) (display.Color, error) {
	if len(words) <= idx {
		return 0, errors.Errorf("missing RRGGBB")
	}
	v, err := strconv.ParseUint(words[idx], 16, 32)
	if err != nil {
		return 0, errors.Annotatef(err, "color=%s", words[idx])
	}
	return display.RGB(byte(v>>16), byte(v>>8), byte(v)), nil
}

func parseInts(words []string, idx, n int) ([]int, error) {
	if len(words) < idx+n {
		return nil, errors.Errorf("need %d numbers", n)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(words[idx+i])
		if err != nil {
			return nil, errors.Annotatef(err, "number=%s", words[idx+i])
		}
		out[i] = v
	}
	return out, nil
}

func complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "fill", Description: "fill screen with RRGGBB"},
		{Text: "rect", Description: "filled rectangle"},
		{Text: "text", Description: "draw text"},
		{Text: "qr", Description: "draw QR code"},
		{Text: "backlight", Description: "backlight on|off"},
		{Text: "present", Description: "flush canvas to panel"},
		{Text: "poll", Description: "print input events"},
		{Text: "help", Description: "command list"},
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
