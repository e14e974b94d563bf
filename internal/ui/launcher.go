// Package ui owns the launcher and the app lifecycle. Exactly one app
// object exists between launch and unload; the launcher is the only code
// that creates or drops app instances.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/juju/errors"

	"github.com/pocketpal/pocketpal/hardware/display"
	"github.com/pocketpal/pocketpal/internal/types"
	"github.com/pocketpal/pocketpal/log2"
)

type State byte

const (
	StateAtLauncher State = iota
	StateLaunching
	StateAppActive
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateAtLauncher:
		return "at-launcher"
	case StateLaunching:
		return "launching"
	case StateAppActive:
		return "app-active"
	case StateUnloading:
		return "unloading"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// PrefStore persists small launcher preferences across power cycles.
type PrefStore interface {
	Get(key string) string
	Set(key, value string) error
}

const (
	prefLastApp = "LAST_APP"

	StyleGrid   = "grid"
	StyleIntent = "intent"
)

type Config struct {
	Style       string
	OwnerName   string // greeting on the launcher screen
	DataRoot    string // per-app data directories live under here
	TZOffset    time.Duration
	MsgDuration time.Duration
	MsgLoadFail string
	MsgAppFail  string
}

type Launcher struct {
	log   *log2.Log
	disp  *display.Display
	apps  []types.AppDescriptor
	pres  Presenter
	cfg   Config
	store PrefStore

	state    State
	order    []int
	cursor   int
	app      types.Apper
	appID    string
	msg      string
	msgUntil time.Time
	dirty    bool
}

func NewLauncher(log *log2.Log, disp *display.Display, apps []types.AppDescriptor, store PrefStore, cfg Config) *Launcher {
	if cfg.MsgDuration <= 0 {
		cfg.MsgDuration = 4 * time.Second
	}
	if cfg.MsgLoadFail == "" {
		cfg.MsgLoadFail = "app failed to start"
	}
	if cfg.MsgAppFail == "" {
		cfg.MsgAppFail = "app crashed"
	}
	var pres Presenter
	switch cfg.Style {
	case StyleIntent:
		pres = NewIntentPresenter()
	default:
		pres = NewGridPresenter()
	}
	return &Launcher{
		log:   log,
		disp:  disp,
		apps:  apps,
		pres:  pres,
		cfg:   cfg,
		store: store,
		dirty: true,
	}
}

func (l *Launcher) State() State { return l.state }

// ForceRedraw marks the next Draw as a full repaint, used after wake.
func (l *Launcher) ForceRedraw() { l.dirty = true }

// HandleEvents feeds one tick's worth of input through the current state.
func (l *Launcher) HandleEvents(evs []types.InputEvent, now time.Time) {
	for i := range evs {
		switch l.state {
		case StateAtLauncher:
			l.handleLauncherInput(evs[i], now)
		case StateAppActive:
			l.forwardToApp(evs[i], now)
		default:
			// Launching and Unloading are transient inside one tick;
			// events arriving here are dropped.
			l.log.Debugf("ui state=%s drop %s", l.state, evs[i].String())
		}
	}
}

func (l *Launcher) handleLauncherInput(e types.InputEvent, now time.Time) {
	view := l.view(now)
	switch e.Kind {
	case types.InputDirection:
		if e.Dir == types.DirCenter {
			l.launchAt(l.cursor, now)
			return
		}
		if next := l.pres.Move(view, e.Dir); next != l.cursor {
			l.cursor = next
			l.dirty = true
		}
	case types.InputButton:
		if e.Btn == types.ButtonA {
			l.launchAt(l.cursor, now)
		}
	case types.InputTouch:
		if idx := l.pres.Hit(view, int(e.X), int(e.Y)); idx >= 0 {
			l.cursor = idx
			l.launchAt(idx, now)
		}
	}
}

func (l *Launcher) launchAt(cursor int, now time.Time) {
	if cursor < 0 || cursor >= len(l.order) {
		return
	}
	l.launch(l.apps[l.order[cursor]], now)
}

func (l *Launcher) launch(desc types.AppDescriptor, now time.Time) {
	if l.app != nil {
		panic("code error ui launch with app still loaded id=" + l.appID)
	}
	l.state = StateLaunching
	l.dirty = true
	l.log.Infof("ui launch id=%s", desc.ID)

	app, err := l.construct(desc)
	if err != nil {
		err = types.NewAppLoadError(desc.ID, err)
		l.log.Errorf("ui %s", errors.ErrorStack(err))
		l.showMsg(l.cfg.MsgLoadFail, now)
		l.state = StateAtLauncher
		runtime.GC()
		return
	}
	l.app = app
	l.appID = desc.ID
	l.state = StateAppActive
	if l.store != nil {
		if err := l.store.Set(prefLastApp, desc.ID); err != nil {
			l.log.Errorf("ui pref last-app err=%v", err)
		}
	}
}

// construct runs factory and Init under recover: a panicking app must not
// take the core down during load.
func (l *Launcher) construct(desc types.AppDescriptor) (app types.Apper, err error) {
	defer func() {
		if r := recover(); r != nil {
			app = nil
			err = errors.Errorf("panic: %v", r)
		}
	}()
	env := types.AppEnv{
		DataDir:  filepath.Join(l.cfg.DataRoot, desc.ID),
		TZOffset: l.cfg.TZOffset,
		Logf:     l.log.Clone(log2.LInfo).Infof,
	}
	if l.cfg.DataRoot != "" {
		if e := os.MkdirAll(env.DataDir, 0755); e != nil {
			return nil, errors.Annotate(e, "app data dir")
		}
	}
	app, err = desc.New(env)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = app.Init(); err != nil {
		return nil, errors.Trace(err)
	}
	return app, nil
}

func (l *Launcher) forwardToApp(e types.InputEvent, now time.Time) {
	ctl, err := l.safeHandleInput(e)
	if err != nil {
		l.appFailed("input", err, now)
		return
	}
	if ctl == types.ControlExit {
		l.unload()
	}
}

func (l *Launcher) safeHandleInput(e types.InputEvent) (ctl types.Control, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return l.app.HandleInput(e)
}

func (l *Launcher) safeDraw(c *display.Canvas) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return l.app.Draw(c)
}

// appFailed handles an app error at the core boundary: log, message,
// unload. The core keeps running.
func (l *Launcher) appFailed(op string, err error, now time.Time) {
	err = types.NewAppRuntimeError(l.appID, op, err)
	l.log.Errorf("ui %s", errors.ErrorStack(err))
	l.showMsg(l.cfg.MsgAppFail, now)
	l.unload()
}

// unload drops the only reference to the app instance and reclaims memory
// before the launcher screen comes back.
func (l *Launcher) unload() {
	l.state = StateUnloading
	l.log.Infof("ui unload id=%s", l.appID)
	l.app = nil
	l.appID = ""
	runtime.GC()
	l.state = StateAtLauncher
	l.order = nil // suggestions may change between visits
	l.dirty = true
}

func (l *Launcher) showMsg(msg string, now time.Time) {
	l.msg = msg
	l.msgUntil = now.Add(l.cfg.MsgDuration)
	l.dirty = true
}

func (l *Launcher) view(now time.Time) View {
	if l.order == nil {
		last := ""
		if l.store != nil {
			last = l.store.Get(prefLastApp)
		}
		l.order = l.pres.Order(l.apps, last, now)
		if l.cursor >= len(l.order) {
			l.cursor = 0
		}
	}
	if l.msg != "" && !now.Before(l.msgUntil) {
		l.msg = ""
		l.dirty = true
	}
	c := l.disp.Canvas()
	return View{
		Apps:   l.apps,
		Order:  l.order,
		Cursor: l.cursor,
		W:      c.Width(),
		H:      c.Height(),
		Msg:    l.msg,
		Owner:  l.cfg.OwnerName,
		Clock:  now,
	}
}

// Draw paints the current screen into the display canvas and reports
// whether the frame changed. The caller presents the frame.
func (l *Launcher) Draw(now time.Time) bool {
	c := l.disp.Canvas()
	if l.state == StateAppActive {
		if err := l.safeDraw(c); err != nil {
			l.appFailed("draw", err, now)
			// fall through to paint the launcher this same frame
		} else {
			return true
		}
	}
	v := l.view(now)
	if !l.dirty {
		return false
	}
	l.pres.Draw(c, v)
	l.dirty = false
	return true
}
