package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"hexdial/pkg/picker"
)

const version = "0.3.0"

func printVersion() {
	fmt.Printf("hexdial v%s\n", version)
	fmt.Println("Six-tile rotary picker daemon")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  hexdial [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Reads a rotary encoder from Linux input devices and drives a six-tile")
	fmt.Println("  wheel with inertia. When the encoder is quiet the wheel settles on the")
	fmt.Println("  nearest tile, which is highlighted and published over IPC and WebSocket.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  hexdial -config /etc/hexdial.yaml")
	fmt.Println("  hexdial -input-device /dev/input/event3 -axis wheel -log-level debug")
	fmt.Println("  hexdial -no-input -trace-csv /tmp/settles.csv   # drive it with hexdial-ctl")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to input devices (run as root or add user to 'input' group)")
}

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		inputDevice = flag.String("input-device", defaultInputDevice, "Linux input event device of the rotary encoder")
		inputAxis   = flag.String("axis", defaultAxis, "Relative axis to read: dial|wheel|misc")
		inputInvert = flag.Bool("invert", false, "Invert the encoder direction")
		noInput     = flag.Bool("no-input", false, "Do not open input devices (IPC/WebSocket only)")
		updateHz    = flag.Int("update-hz", defaultUpdateHz, "Frame loop frequency in Hz")
		friction    = flag.Float64("friction", picker.DefaultFriction, "Wheel friction in [0, 1]")
		debounceMS  = flag.Int("debounce-ms", 300, "Quiet time before the wheel settles (ms)")
		assetDir    = flag.String("asset-dir", defaultAssetDir, "Directory holding 1.svg .. 6.svg")
		ipcSocket   = flag.String("ipc-socket", defaultIPCSocket, "Unix domain socket path for IPC")
		wsPort      = flag.Int("ws-port", defaultWSPort, "State WebSocket port (0 disables)")
		traceCSV    = flag.String("trace-csv", "", "Append settle events to this CSV file")
		logLevelStr = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		showVersion = flag.Bool("version", false, "Print version and exit")
		showHelp    = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Only flags given on the command line override the file.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var o FlagOverrides
	if set["input-device"] {
		o.InputDevice = inputDevice
	}
	if set["axis"] {
		o.InputAxis = inputAxis
	}
	if set["invert"] {
		o.InputInvert = inputInvert
	}
	if set["update-hz"] {
		o.UpdateHz = updateHz
	}
	if set["friction"] {
		o.Friction = friction
	}
	if set["debounce-ms"] {
		o.DebounceMS = debounceMS
	}
	if set["asset-dir"] {
		o.AssetDir = assetDir
	}
	if set["ipc-socket"] {
		o.IPCSocketPath = ipcSocket
	}
	if set["ws-port"] {
		o.StateWSPort = wsPort
	}
	if set["trace-csv"] {
		o.TraceCSVPath = traceCSV
	}
	if set["log-level"] {
		o.LogLevel = logLevelStr
	}
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error: invalid config:", err)
		os.Exit(1)
	}

	logLevel, _ := parseLogLevel(cfg.Logging.Level)
	logger := setupLogger(logLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, !*noInput, logger); err != nil {
		logger.Error("hexdial stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shut down")
}

// run wires the daemon goroutines together and blocks until ctx is canceled or
// one of them fails.
func run(ctx context.Context, cfg Config, withInput bool, logger *slog.Logger) error {
	pickerCfg, err := cfg.ToPickerConfig()
	if err != nil {
		return err
	}

	trace, err := openSettleTrace(cfg.Trace.CSVPath)
	if err != nil {
		return err
	}
	defer trace.Close()

	events := make(chan Event, 64)

	// Nothing drains broadcasts without the WebSocket; leave it nil then.
	var broadcasts chan StateBroadcast
	if cfg.StateWS.Port > 0 {
		broadcasts = make(chan StateBroadcast, 64)
	}

	d, err := newDaemon(daemonOptions{
		Picker:     pickerCfg,
		Loader:     picker.DirLoader{Dir: ExpandPath(cfg.Picker.AssetDir), Logger: logger},
		Rotary:     cfg.ToRotaryConfig(),
		Broadcasts: broadcasts,
		Trace:      trace,
	}, logger)
	if err != nil {
		return fmt.Errorf("start picker: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.run(ctx, events, cfg.Picker.UpdateHz)
		return nil
	})

	g.Go(func() error {
		return runIPCServer(ctx, cfg.IPC.SocketPath, events, logger)
	})

	if cfg.StateWS.Port > 0 {
		srv := NewServer(logger, events, ServerConfig{})
		mux := http.NewServeMux()
		srv.Register(mux, cfg.StateWS.Path)

		g.Go(func() error {
			srv.Hub().Run(ctx)
			return nil
		})
		g.Go(func() error {
			RunBroadcaster(ctx, srv.Hub(), broadcasts, logger)
			return nil
		})
		g.Go(func() error {
			return runHTTPServer(ctx, cfg.StateWS.Port, mux, logger)
		})
	}

	if withInput {
		axis, err := axisCode(cfg.Input.Axis)
		if err != nil {
			return err
		}
		if err := startInput(ctx, g, cfg.Input.Devices, inputTranslator{axis: axis, invert: cfg.Input.Invert}, events, logger); err != nil {
			return err
		}
	}

	logger.Info("listening",
		"devices", cfg.Input.Devices,
		"input", withInput,
		"axis", cfg.Input.Axis,
		"ipc", cfg.IPC.SocketPath,
		"ws_port", cfg.StateWS.Port,
		"update_hz", cfg.Picker.UpdateHz)

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startInput opens the rotary devices and starts the reader and translator
// goroutines on g.
func startInput(ctx context.Context, g *errgroup.Group, devices []string, tr inputTranslator, events chan<- Event, logger *slog.Logger) error {
	files := make([]*os.File, 0, len(devices))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, dev := range devices {
		f, err := os.Open(dev)
		if err != nil {
			closeAll()
			logger.Error("failed to open input device", "device", dev, "error", err, "tip", "run as root or add user to 'input' group")
			return fmt.Errorf("open input device: %w", err)
		}
		files = append(files, f)
	}

	// Closing stopW wakes the epoll reader on shutdown.
	stopR, stopW, err := os.Pipe()
	if err != nil {
		closeAll()
		return fmt.Errorf("input stop pipe: %w", err)
	}

	raw := make(chan inputEvent, 64)

	g.Go(func() error {
		defer close(raw)
		defer closeAll()
		defer stopR.Close()
		if err := readInputEventsEpoll(files, stopR, raw); err != nil {
			return fmt.Errorf("input reader: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return stopW.Close()
	})

	g.Go(func() error {
		// Keep draining raw until the reader is gone so it never blocks on send.
		for ev := range raw {
			turn, ok := tr.translate(ev)
			if !ok {
				continue
			}
			select {
			case events <- turn:
			case <-ctx.Done():
			}
		}
		return nil
	})

	return nil
}
