package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	log "github.com/sirupsen/logrus"
)

const title = "AnalogDpad"

// Options configures the tray menu.
type Options struct {
	URL     string
	Enabled bool

	// OnToggle receives the new state of the "Map stick to d-pad" item.
	OnToggle func(enabled bool)
	// OnExit is called once when "Exit" is clicked.
	OnExit func()
}

// Tray manages the system tray icon and menu
type Tray struct {
	opts         Options
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuMapping  *systray.MenuItem
	menuExit     *systray.MenuItem
}

func New(opts Options) *Tray {
	return &Tray{opts: opts}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, t.onExit)
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle(title)
	systray.SetTooltip(title + " - " + t.opts.URL)

	t.menuOpen = systray.AddMenuItem("Open Overlay", "Open web interface")
	t.menuMapping = systray.AddMenuItemCheckbox("Map stick to d-pad", "Enable analog d-pad mapping", t.opts.Enabled)
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	go t.handleMenuClicks()

	log.Info("System tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuMapping.ClickedCh:
			t.toggleMapping()
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				if t.opts.OnExit != nil {
					t.once.Do(t.opts.OnExit)
				}
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) toggleMapping() {
	enabled := !t.menuMapping.Checked()
	if enabled {
		t.menuMapping.Check()
	} else {
		t.menuMapping.Uncheck()
	}
	log.WithField("enabled", enabled).Info("D-pad mapping toggled from tray")
	if t.opts.OnToggle != nil {
		t.opts.OnToggle(enabled)
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Info("System tray exiting")
}

func (t *Tray) openBrowser() {
	if t.shuttingDown.Load() {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.opts.URL)
	case "darwin":
		cmd = exec.Command("open", t.opts.URL)
	default:
		cmd = exec.Command("xdg-open", t.opts.URL)
	}

	if err := cmd.Start(); err != nil {
		log.Warnf("Failed to open browser: %v", err)
	}
}
