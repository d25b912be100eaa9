// Command wltiledebug is a terminal visualizer for the window-management
// core: it drives a real internal/wm/output.Registry, internal/wm/master.Registry,
// internal/wm/cursor.Cursor and internal/wm/keybind.Map with synthetic windows
// instead of a wlroots backend, and renders the result as a bubbletea TUI.
// It exists so the core's tiling, focus and interactive behavior can be
// exercised and watched without a running Wayland session.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"rsc.io/getopt"

	"github.com/wltile/wltile/internal/logging"
)

var (
	flagWidth   = flag.Int("width", 120, "initial canvas width in cells")
	flagHeight  = flag.Int("height", 36, "initial canvas height in cells")
	flagWindows = flag.Int("windows", 3, "number of synthetic windows to spawn on the first workspace")
	flagTags    = flag.Int("tags", 9, "number of workspaces to create per output")
	flagVerbose = flag.Bool("verbose", false, "enable debug logging to a file under the log directory")
)

func init() {
	getopt.CommandLine.Init("wltiledebug", flag.ContinueOnError)
	getopt.CommandLine.SetOutput(io.Discard)
	getopt.Alias("w", "width")
	getopt.Alias("h", "height")
	getopt.Alias("n", "windows")
	getopt.Alias("t", "tags")
	getopt.Alias("v", "verbose")
	getopt.CommandLine.Usage = func() {}
}

// parseFlags mirrors the teacher pack's getopt.FlagSet driver
// (calico32-waybar-niri-windows), which rsc.io/getopt itself does not
// provide: it only aliases names onto the standard flag.FlagSet, the
// actual short/long/bundled parsing loop is left to the caller.
func parseFlags(f *getopt.FlagSet, args []string) error {
	for len(args) > 0 {
		arg := args[0]
		if len(arg) < 2 || arg[0] != '-' {
			break
		}
		args = args[1:]
		if arg[:2] == "--" {
			if arg == "--" {
				break
			}
			name := arg[2:]
			value, haveValue := "", false
			if i := strings.Index(name, "="); i >= 0 {
				name, value = name[:i], name[i+1:]
				haveValue = true
			}
			fg := f.Lookup(name)
			if fg == nil {
				if name == "h" || name == "help" {
					return flag.ErrHelp
				}
				return fmt.Errorf("flag provided but not defined: --%s", name)
			}
			if b, ok := fg.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				if !haveValue {
					value = "true"
				}
				if err := fg.Value.Set(value); err != nil {
					return fmt.Errorf("invalid value %q for --%s: %v", value, name, err)
				}
				continue
			}
			if !haveValue {
				if len(args) == 0 {
					return fmt.Errorf("missing argument for --%s", name)
				}
				value, args = args[0], args[1:]
			}
			if err := fg.Value.Set(value); err != nil {
				return fmt.Errorf("invalid value %q for flag --%s: %v", value, name, err)
			}
			continue
		}
		for arg = arg[1:]; arg != ""; {
			r, size := utf8.DecodeRuneInString(arg)
			if r == utf8.RuneError && size == 1 {
				return fmt.Errorf("invalid UTF8 in command-line flags")
			}
			name := arg[:size]
			arg = arg[size:]
			fg := f.Lookup(name)
			if fg == nil {
				if name == "h" {
					return flag.ErrHelp
				}
				return fmt.Errorf("flag provided but not defined: -%s", name)
			}
			if b, ok := fg.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				if err := fg.Value.Set("true"); err != nil {
					return fmt.Errorf("invalid boolean flag %s: %v", name, err)
				}
				continue
			}
			if arg == "" {
				if len(args) == 0 {
					return fmt.Errorf("missing argument for -%s", name)
				}
				arg, args = args[0], args[1:]
			}
			if err := fg.Value.Set(arg); err != nil {
				return fmt.Errorf("invalid value %q for flag -%s: %v", arg, name, err)
			}
			break
		}
	}
	f.FlagSet.Parse(append([]string{"--"}, args...))
	return nil
}

func main() {
	if err := parseFlags(&getopt.CommandLine, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			getopt.CommandLine.SetOutput(os.Stderr)
			getopt.CommandLine.PrintDefaults()
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagVerbose {
		home, _ := os.UserHomeDir()
		logDir := filepath.Join(home, ".wltile", "logs")
		if err := logging.Initialize(logDir, logging.LevelDebug); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not initialize logging: %v\n", err)
		}
		defer logging.Close()
	}

	c := newCore(*flagTags)
	defer c.stop()

	if home, err := os.UserHomeDir(); err == nil {
		cfgPath := filepath.Join(home, ".wltile", "config.json")
		if err := c.watchConfigFile(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not watch %s: %v\n", cfgPath, err)
		}
	}

	o := c.connectOutput(*flagWidth, *flagHeight)
	for i := 0; i < *flagWindows; i++ {
		c.spawnWindow(o, 1, fmt.Sprintf("window-%d", i+1))
	}

	m := newModel(c, o, *flagWidth, *flagHeight)
	p := tea.NewProgram(m, tea.WithFilter(mouseEventFilter))
	c.setSender(p.Send)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	lastMotionAt     time.Time
	lastMotionX      int
	lastMotionY      int
)

// mouseEventFilter throttles same-position motion events, the same idea
// the teacher applies in cmd/amux/main.go to keep a fast-polling pointer
// from flooding Update with redundant motion while still letting every
// position change and click/release through immediately.
func mouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	motion, ok := msg.(tea.MouseMotionMsg)
	if !ok {
		return msg
	}
	if motion.X != lastMotionX || motion.Y != lastMotionY {
		lastMotionX, lastMotionY = motion.X, motion.Y
		lastMotionAt = time.Now()
		return msg
	}
	if time.Since(lastMotionAt) < 15*time.Millisecond {
		return nil
	}
	lastMotionAt = time.Now()
	return msg
}
