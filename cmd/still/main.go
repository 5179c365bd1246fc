/*
DESCRIPTION
  still grabs frames from a video device, waits for the scene to be still
  and writes sharp frames as JPEG stills with their sharp regions
  highlighted.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package still is a command that writes stills of a static scene.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/stillcam/device"
	"github.com/ausocean/stillcam/device/webcam"
	"github.com/ausocean/stillcam/still"
	"github.com/ausocean/stillcam/still/config"
	"github.com/ausocean/stillcam/still/metrics"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Exit codes.
const (
	exitOK     = 0
	exitDevice = 1
	exitConfig = 2
	exitAbort  = 134 // As if killed by SIGABRT.
)

// Capture frame size requested from the device.
const (
	frameWidth  = 640
	frameHeight = 480
)

// Misc constants.
const (
	pkg             = "still: "
	profilePath     = "still.prof"
	metricsPath     = "/metrics"
	shutdownTimeout = 2 * time.Second
)

// This is set to true if the 'profile' build tag is provided on build.
var canProfile = false

// debugRoutes, when set, adds debugging handlers to the metrics server.
var debugRoutes func(mux *http.ServeMux)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the command line flags that are not config variables.
type options struct {
	showOpts   bool
	useCurses  bool
	showWindow bool
	configPath string
}

// execute parses args, runs the command and returns the exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newCommand(&code, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		return exitConfig
	}
	return code
}

func newCommand(code *int, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "still",
		Short: "Write highlighted stills of a static, sharp scene",
		Long: `still grabs frames from a video device. Once the scene has not changed for
still-change-time ms, a full size frame is checked for sharp tiles and, if
enough are found, written as <output-prefix><monotonic ns>.jpg with the
sharp tiles at full brightness and the rest at half brightness.

Integer options are rejected when out of range. Press q to quit when
--use-curses or --show-window is given, otherwise send SIGINT or SIGTERM.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = run(cmd.Flags(), opts, stdout, stderr)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.BoolVar(&opts.showOpts, "show-opts", false, "print option values before starting")
	fs.BoolVar(&opts.useCurses, "use-curses", false, "read keystrokes from the terminal, q quits")
	fs.BoolVar(&opts.showWindow, "show-window", false, "show retrieved frames in a window, q quits (needs Open CV)")
	fs.StringVar(&opts.configPath, "config", "", "TOML file of option values, watched for changes")
	for _, v := range config.Variables {
		if v.Get == nil {
			fs.String(v.Name, v.Default, v.Usage)
			continue
		}
		def, _ := strconv.Atoi(v.Default)
		fs.Int(v.Name, def, fmt.Sprintf("%s [%d..%d]", v.Usage, v.Low, v.High))
	}
	return cmd
}

// cliVars returns the config variables given on the command line. Integer
// values outside their range are reported as a device.MultiError of
// *config.RangeError.
func cliVars(fs *pflag.FlagSet) (map[string]string, error) {
	vars := make(map[string]string)
	var errs device.MultiError
	fs.Visit(func(f *pflag.Flag) {
		v, ok := config.Lookup(f.Name)
		if !ok {
			return
		}
		vars[f.Name] = f.Value.String()
		if v.Get == nil {
			return
		}
		n, err := fs.GetInt(f.Name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if n < v.Low || n > v.High {
			errs = append(errs, &config.RangeError{Name: v.Name, Value: n, Low: v.Low, High: v.High})
		}
	})
	if len(errs) != 0 {
		return nil, errs
	}
	return vars, nil
}

// loadVars merges the config file, if any, with the command line, which
// takes precedence.
func loadVars(fs *pflag.FlagSet, path string) (map[string]string, error) {
	cli, err := cliVars(fs)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cli, nil
	}
	vars, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for k, v := range cli {
		vars[k] = v
	}
	return vars, nil
}

// newLogger returns a logger writing to a rotated log file, or to w when
// path is empty.
func newLogger(path string, w io.Writer) logging.Logger {
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
	}
	return logging.New(logging.Info, w, logSuppress)
}

func run(fs *pflag.FlagSet, opts options, stdout, stderr io.Writer) int {
	vars, err := loadVars(fs, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitConfig
	}

	log := newLogger(vars[config.KeyLogPath], stderr)
	cfg := config.New(log)
	cfg.Update(vars)
	err = cfg.Check()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitConfig
	}
	cfg.Validate()
	log.SetLevel(cfg.LogLevel)
	live := config.NewLive(cfg)

	if opts.showOpts {
		showOpts(stdout, opts, cfg)
	}

	log.Info(pkg+"starting", "version", version)

	// If still has been built with the profile tag, then we'll start a CPU
	// profile.
	if canProfile {
		profile(log)
		defer pprof.StopCPUProfile()
		log.Info(pkg + "profiling started")
	}

	capture := webcam.New(log)
	err = capture.Open(cfg.VideoNum)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open the video device: %v\n", err)
		log.Error(pkg+"could not open video device", "index", cfg.VideoNum, "error", err.Error())
		return exitDevice
	}
	defer capture.Close()
	if !capture.Set(device.FrameWidth, frameWidth) || !capture.Set(device.FrameHeight, frameHeight) {
		log.Warning(pkg+"could not set frame size", "width", frameWidth, "height", frameHeight)
	}

	ui, err := newShowcase(log, live, opts.useCurses, opts.showWindow, os.Stdin)
	if err != nil {
		log.Warning(pkg+"could not start user interface", "error", err.Error())
	}
	defer ui.Close()

	m := metrics.New(nil)
	srv := serveMetrics(cfg.MetricsAddr, m, log)

	var watcher *config.Watcher
	if opts.configPath != "" {
		watcher = config.NewWatcher(opts.configPath, live, log, config.WithReloadHandler(func(c config.Config) {
			log.Info(pkg+"configuration reloaded", "file", opts.configPath)
		}))
		err = watcher.Start()
		if err != nil {
			log.Warning(pkg+"could not watch config file", "error", err.Error())
			watcher = nil
		}
	}
	defer watcher.Stop()

	pipeOpts := []still.Option{still.WithMetrics(m)}
	if opts.showWindow {
		pipeOpts = append(pipeOpts, still.WithPreview(ui))
	}
	proc := still.NewProcessor(live, nil, log, m)
	pipe := still.NewPipeline(capture, proc, live, log, pipeOpts...)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)
	defer signal.Stop(sigs)

	pipe.Start()
	notify(log, daemon.SdNotifyReady)
	log.Info(pkg + "started")

	code := exitOK
loop:
	for {
		select {
		case s := <-sigs:
			log.Info(pkg+"received signal", "signal", s.String())
			if s == syscall.SIGABRT {
				code = exitAbort
			}
			break loop
		default:
		}
		if ui.Check() {
			log.Info(pkg + "quit requested")
			break loop
		}
	}

	notify(log, daemon.SdNotifyStopping)
	if code == exitAbort {
		// Teardown without waiting on the running job.
		log.Error(pkg + "aborted")
		proc.Die()
		pipe.Stop()
		return code
	}

	log.Info(pkg + "stopping")
	pipe.Stop()
	proc.Wait()
	if s := proc.Status(); s.Terminal() {
		log.Debug(pkg+"last job finished", "status", s.String())
	}
	shutdown(srv, log)
	log.Info(pkg + "stopped")
	return code
}

// showOpts prints the option values.
func showOpts(w io.Writer, opts options, c config.Config) {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	fmt.Fprintf(w, "-use-curses: %d\n", b2i(opts.useCurses))
	fmt.Fprintf(w, "-show-window: %d\n", b2i(opts.showWindow))
	for _, v := range config.Variables {
		fmt.Fprintf(w, "-%s: %s\n", v.Name, c.Value(v.Name))
	}
}

// serveMetrics starts the metrics HTTP server on addr. It returns nil when
// addr is empty.
func serveMetrics(addr string, m *metrics.Metrics, l logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	srv := &http.Server{Addr: addr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		l.Info(pkg+"serving metrics", "addr", addr, "path", metricsPath)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error(pkg+"metrics server failed", "error", err.Error())
		}
	}()
	return srv
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, m.Handler())
	if debugRoutes != nil {
		debugRoutes(mux)
	}
	return mux
}

func shutdown(srv *http.Server, l logging.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	if err != nil {
		l.Warning(pkg+"could not shut down metrics server", "error", err.Error())
	}
}

// notify tells systemd about a state change. Nothing is sent when not run
// by systemd.
func notify(l logging.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		l.Warning(pkg+"could not notify systemd", "state", state, "error", err.Error())
		return
	}
	if sent {
		l.Debug(pkg+"notified systemd", "state", state)
	}
}

// profile opens a file to hold CPU profiling metrics and then starts the
// CPU profiler.
func profile(l logging.Logger) {
	f, err := os.Create(profilePath)
	if err != nil {
		l.Fatal(pkg+"could not create CPU profile", "error", err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Fatal(pkg+"could not start CPU profile", "error", err.Error())
	}
}
