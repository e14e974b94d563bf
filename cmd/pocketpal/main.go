package main

import (
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"

	"github.com/pocketpal/pocketpal/apps"
	"github.com/pocketpal/pocketpal/internal/loop"
	"github.com/pocketpal/pocketpal/internal/power"
	"github.com/pocketpal/pocketpal/internal/state"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/internal/ui"
	"github.com/pocketpal/pocketpal/log2"
)

var BuildVersion string = "unknown" // set by ldflags

func main() {
	flagConfig := flag.String("config", "/etc/pocketpal.hcl", "tuning config path")
	flagBoot := flag.String("boot", "", "boot config path override")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	if sdnotify("start") {
		// under systemd, the journal stamps time for us
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Infof("pocketpal version=%s", BuildVersion)

	config, err := state.ReadConfig(log, *flagConfig)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	bootPath := config.Boot.File
	if *flagBoot != "" {
		bootPath = *flagBoot
	}
	bootFile, err := os.Open(bootPath)
	if err != nil {
		log.Fatal(errors.ErrorStack(types.WrapConfig(err, "boot config open")))
	}
	boot, err := state.ParseBootConfig(bootFile)
	_ = bootFile.Close()
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	g := state.NewGlobal(log, boot, config)
	g.BuildVersion = BuildVersion
	if err := g.InitHardware(); err != nil {
		// display never came up: log is the only diagnostic channel left
		log.Fatal(errors.ErrorStack(err))
	}
	defer g.Stop()

	disp := g.Hardware.Display
	ui.DrawBootSplash(disp.Canvas(), boot.FirstName, BuildVersion)
	if err := disp.Present(); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}

	launcher := ui.NewLauncher(log, disp, apps.Registry(BuildVersion), g.Prefs, ui.Config{
		Style:       config.UI.Style,
		OwnerName:   boot.FirstName,
		DataRoot:    config.Persist.Root,
		TZOffset:    boot.TZOffset(),
		MsgDuration: config.MsgDuration(),
		MsgLoadFail: config.UI.MsgLoadFail,
		MsgAppFail:  config.UI.MsgAppFail,
	})

	pw := power.NewMachine(log, power.Config{
		IdleAfter:   config.IdleAfter(),
		SleepAfter:  config.SleepAfter(),
		SleepButton: config.SleepButton(),
	})

	l := loop.New(log, g.Alive, disp, g.Hardware.Input, pw, launcher, loop.Config{
		Tick:      config.Tick(),
		SleepTick: config.SleepTick(),
		GCEvery:   config.Loop.GCEvery,
	})

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-signalCh
		log.Infof("signal %v, stopping", s)
		g.Alive.Stop()
	}()

	sdnotify(daemon.SdNotifyReady)
	l.Run()
	g.Alive.WaitTasks()

	if err := l.Err(); err != nil {
		// best effort: the display may be the thing that failed
		ui.DrawFatal(disp.Canvas(), err.Error())
		_ = disp.Present()
		time.Sleep(3 * time.Second)
		g.Stop()
		os.Exit(1)
	}
	log.Infof("goodbye")
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		stdlog.Fatal("sdnotify: ", err)
	}
	return ok
}
