// Package main provides the entry point for go-regulator, a rotary
// regulator dial with a conical gradient bar. The dial is configured with
// a Lua script and rendered with Ebiten, or headless into a PNG.
package main

import (
	"errors"
	"expvar"
	"flag"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-regulator/internal/profiling"
	"github.com/opd-ai/go-regulator/pkg/regulator"
)

// Version is the current version of go-regulator.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

// memoryCheckInterval is how often -debug-addr logs heap growth.
const memoryCheckInterval = time.Minute

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath string
	version    bool
	snapshot   string
	size       int
	headless   bool
	watch      bool
	logLevel   string
	logJSON    bool
	debugAddr  string
	cpuProfile string
	memProfile string
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	o := &cliOptions{}
	fs := flag.NewFlagSet("go-regulator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "c", "", "Path to the Lua configuration file (built-in defaults if empty)")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.StringVar(&o.snapshot, "snapshot", "", "Render the dial to this PNG file and exit")
	fs.IntVar(&o.size, "size", 0, "Dial diameter in pixels (overrides the configuration)")
	fs.BoolVar(&o.headless, "headless", false, "Run without a window")
	fs.BoolVar(&o.watch, "watch", false, "Reload the configuration when the file changes")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.logJSON, "log-json", false, "Write logs as JSON")
	fs.StringVar(&o.debugAddr, "debug-addr", "", "Serve /debug/vars and /debug/pprof on this address")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.size < 0 {
		return nil, fmt.Errorf("-size must not be negative, got %d", o.size)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cli.version {
		fmt.Fprintf(stdout, "go-regulator version %s\n", Version)
		return 0
	}

	logger, err := newLogger(cli, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	// Initialize profiling if requested
	profConfig := profiling.Config{
		CPUProfilePath: cli.cpuProfile,
		MemProfilePath: cli.memProfile,
	}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	opts := &regulator.Options{
		Size:        cli.size,
		Headless:    cli.headless || cli.snapshot != "",
		Logger:      logger,
		WatchConfig: cli.watch,
	}
	reg, err := newRegulator(cli.configPath, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating regulator: %v\n", err)
		return 1
	}

	if cli.snapshot != "" {
		if err := writeSnapshot(reg, cli.snapshot, cli.size); err != nil {
			fmt.Fprintf(stderr, "Snapshot failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", cli.snapshot)
		return 0
	}

	var onStarted func()
	if cli.debugAddr != "" {
		reg.Metrics().RegisterExpvar()
		go serveDebug(cli.debugAddr, logger)
		// The baseline is taken once the regulator's goroutines exist.
		onStarted = func() { go watchMemory(logger, memoryCheckInterval) }
	}

	return serve(reg, stdout, stderr, onStarted)
}

func newLogger(cli *cliOptions, w io.Writer) (regulator.Logger, error) {
	level, err := regulator.ParseLogLevel(cli.logLevel)
	if err != nil {
		return nil, err
	}
	format := regulator.LogFormatText
	if cli.logJSON {
		format = regulator.LogFormatJSON
	}
	return regulator.NewLogger(w, level, format), nil
}

// newRegulator loads path, or the built-in defaults when path is empty.
func newRegulator(path string, opts *regulator.Options) (regulator.Regulator, error) {
	if path == "" {
		return regulator.NewDefault(opts)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("error accessing configuration file %s: %w", path, err)
	}
	return regulator.New(path, opts)
}

// writeSnapshot renders the dial into a PNG file.
func writeSnapshot(reg regulator.Regulator, path string, size int) error {
	img, err := reg.Snapshot(size)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// serve starts reg and runs until a termination signal arrives or the
// window is closed. SIGHUP reloads the configuration in place.
func serve(reg regulator.Regulator, stdout, stderr io.Writer, onStarted func()) int {
	stopped := make(chan struct{}, 1)

	reg.SetErrorHandler(func(err error) {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	})
	reg.SetEventHandler(func(e regulator.Event) {
		switch e.Type {
		case regulator.EventAdjusting, regulator.EventAdjusted:
			return
		case regulator.EventStopped:
			select {
			case stopped <- struct{}{}:
			default:
			}
		}
		fmt.Fprintf(stdout, "[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
	})

	if err := reg.Start(); err != nil {
		fmt.Fprintf(stderr, "Failed to start: %v\n", err)
		return 1
	}
	if onStarted != nil {
		onStarted()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				fmt.Fprintln(stdout, "Received SIGHUP, reloading configuration...")
				if err := reg.ReloadConfig(); err != nil {
					fmt.Fprintf(stderr, "Reload failed: %v\n", err)
				}
				continue
			}
			fmt.Fprintln(stdout, "Shutting down...")
			if err := reg.Stop(); err != nil {
				fmt.Fprintf(stderr, "Stop error: %v\n", err)
				return 1
			}
			return 0
		case <-stopped:
			// The window was closed.
			return 0
		}
	}
}

// debugMux exposes expvar metrics and the pprof handlers.
func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func serveDebug(addr string, logger regulator.Logger) {
	logger.Info("debug server listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           debugMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("debug server stopped", "error", err)
	}
}

// watchMemory logs heap growth since start every interval.
func watchMemory(logger regulator.Logger, interval time.Duration) {
	base := profiling.TakeSnapshot()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		g := profiling.TakeSnapshot().Growth(base, profiling.DefaultGrowthThreshold)
		if g.PotentialLeak {
			logger.Warn("memory growth", "summary", g.String())
		} else {
			logger.Debug("memory growth", "summary", g.String())
		}
	}
}
