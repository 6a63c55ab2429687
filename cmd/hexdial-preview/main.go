// cmd/hexdial-preview/main.go
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"hexdial/pkg/picker"
)

func main() {
	var (
		assetDir = flag.String("asset-dir", "assets", "Directory with the tile artwork (1.svg .. 6.svg)")
		scale    = flag.Int("scale", 4, "Window scale factor")
		overview = flag.Bool("overview", false, "Show the whole ring instead of the device display")
		friction = flag.Float64("friction", picker.DefaultFriction, "Wheel friction (0-1)")
		keyStep  = flag.Int("key-step", 4, "Detents per frame while an arrow key is held")
		debug    = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := picker.DefaultConfig()
	cfg.Friction = *friction

	app, err := newAppGame(cfg, picker.DirLoader{Dir: *assetDir, Logger: logger}, *overview, *keyStep, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer app.session.Shutdown()

	w, h := app.Layout(0, 0)
	ebiten.SetWindowSize(w**scale, h**scale)
	ebiten.SetWindowTitle("hexdial preview")
	if err := ebiten.RunGame(app); err != nil {
		logger.Error("preview exited", "error", err)
		os.Exit(1)
	}
}
