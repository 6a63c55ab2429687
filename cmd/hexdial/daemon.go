package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hexdial/pkg/picker"
)

// ============================================================================
// Central Daemon Loop
// ============================================================================
//
// The daemon goroutine is the single owner of the picker session. Everything
// else (input reader, IPC connections, WebSocket handlers) sends Events on one
// channel; the loop turns them into Session.Input / Session.Tick calls and
// publishes state changes as StateBroadcasts.
//
// ============================================================================

type daemonOptions struct {
	Picker picker.Config
	Loader picker.AssetLoader
	Rotary RotaryConfig

	// Broadcasts receives state changes for the WebSocket broadcaster. Optional.
	Broadcasts chan<- StateBroadcast
	// Trace records settles. Optional.
	Trace *settleTrace
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type daemon struct {
	session *picker.Session
	state   DaemonState

	rotary    *rotaryState
	rotaryCfg RotaryConfig

	broadcasts chan<- StateBroadcast
	trace      *settleTrace
	clock      func() time.Time
	logger     *slog.Logger
}

// newDaemon builds and initializes the picker session.
func newDaemon(opts daemonOptions, logger *slog.Logger) (*daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &daemon{
		rotary:     newRotaryState(),
		rotaryCfg:  opts.Rotary,
		broadcasts: opts.Broadcasts,
		trace:      opts.Trace,
		clock:      opts.Clock,
		logger:     logger,
	}
	if d.clock == nil {
		d.clock = time.Now
	}

	s, err := picker.NewSession(opts.Picker, logger, picker.SessionOptions{
		Loader:   opts.Loader,
		OnSettle: d.onSettle,
		Clock:    d.clock,
	})
	if err != nil {
		return nil, err
	}
	if st := s.Init(); st != picker.StatusOK {
		return nil, fmt.Errorf("picker init: %s", st)
	}
	d.session = s
	return d, nil
}

// run is the main daemon loop. It emits a Tick every 1/updateHz and handles
// events until ctx is canceled or events is closed, then shuts the session down.
func (d *daemon) run(ctx context.Context, events <-chan Event, updateHz int) {
	defer d.session.Shutdown()

	updateInterval := time.Second / time.Duration(updateHz)
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping (context canceled)")
			return

		case ev, ok := <-events:
			if !ok {
				d.logger.Info("daemon stopping (events channel closed)")
				return
			}
			d.handle(ev)

		case now := <-ticker.C:
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			d.handle(Tick{Now: now, Dt: dt})
		}
	}
}

// handle applies one event. Only the daemon goroutine calls it.
func (d *daemon) handle(ev Event) {
	switch ev := ev.(type) {
	case RotaryTurn:
		steps := d.rotary.scale(ev.Steps, d.clock(), d.rotaryCfg)
		if steps != ev.Steps {
			d.logger.Debug("rotary fast spin", "raw", ev.Steps, "scaled", steps)
		}
		if st := d.session.Input(steps); st != picker.StatusOK {
			d.logger.Warn("picker rejected input", "status", st)
		}

	case Tick:
		// The session reads its own clock; Tick only paces the loop.
		if st := d.session.Tick(); st != picker.StatusOK {
			d.logger.Warn("picker rejected tick", "status", st)
			return
		}
		f := d.session.Frame()
		moving := f.State == picker.StateMoving
		if d.state.WheelChanged(f.Angle, moving) {
			d.publish(BroadcastWheelMoved{Angle: f.Angle, Moving: moving, At: d.clock()})
		}

	case RequestStateSnapshot:
		if ev.Reply == nil {
			return
		}
		select {
		case ev.Reply <- d.snapshot():
		default:
			d.logger.Warn("snapshot reply dropped (receiver not ready)")
		}

	default:
		d.logger.Debug("daemon ignoring event", "type", fmt.Sprintf("%T", ev))
	}
}

// onSettle is called by the session on the frame the wheel settles.
func (d *daemon) onSettle(sel picker.Selection) {
	d.state.RecordSelection(sel)
	d.logger.Info("tile selected", "tile", sel.Index, "label", sel.Index+1, "angle", sel.Angle)

	d.publish(BroadcastTileSelected{Index: sel.Index, Angle: sel.Angle, At: sel.At})

	if err := d.trace.Record(sel); err != nil {
		d.logger.Warn("settle trace write failed", "error", err)
	}
}

func (d *daemon) snapshot() StateSnapshot {
	return d.state.Snapshot(d.session.Frame())
}

// publish hands a broadcast to the WS broadcaster without blocking the loop.
func (d *daemon) publish(b StateBroadcast) {
	if d.broadcasts == nil {
		return
	}
	select {
	case d.broadcasts <- b:
	default:
		d.logger.Warn("state broadcast queue full, dropping", "type", fmt.Sprintf("%T", b))
	}
}
