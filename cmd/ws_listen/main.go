package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// wsEnvelope mirrors the daemon's state stream framing.
type wsEnvelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wheelMoved struct {
	Angle  float64 `json:"angle"`
	Moving bool    `json:"moving"`
}

type tileSelected struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Angle float64 `json:"angle"`
}

type stateInit struct {
	Angle         float64 `json:"angle"`
	Moving        bool    `json:"moving"`
	Selected      int     `json:"selected"`
	SelectedKnown bool    `json:"selected_known"`
}

func main() {
	var (
		wsURL  = flag.String("ws", "ws://127.0.0.1:3002/state", "hexdial state websocket URL")
		raw    = flag.Bool("raw", false, "Print raw frames instead of a summary")
		quiet  = flag.Bool("quiet", false, "Only print tile selections")
		minDeg = flag.Float64("min-deg", 1.0, "Minimum angle change in degrees before printing a wheel update")
	)
	flag.Parse()

	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	log.Printf("connecting to %s...", u.String())
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected! (press Ctrl+C to exit)")

	// Protects concurrent writes (pings vs. close)
	var writeMu sync.Mutex

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	// The daemon pings us; answering resets our deadline too.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	go func() {
		for range pingTicker.C {
			writeMu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				log.Printf("ping failed: %v", err)
				return
			}
		}
	}()

	p := &printer{raw: *raw, quiet: *quiet, minDelta: *minDeg * math.Pi / 180}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				return
			}
			if messageType == websocket.TextMessage {
				p.handle(message)
			}
		}
	}()

	select {
	case <-sigc:
		log.Printf("shutting down...")
		writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		writeMu.Unlock()
		if err != nil {
			log.Printf("error closing connection: %v", err)
		}
	case <-done:
		log.Printf("connection closed")
	}
}

// printer summarizes state frames, suppressing wheel updates below minDelta.
type printer struct {
	raw      bool
	quiet    bool
	minDelta float64

	lastAngle *float64
	lastMove  *bool
}

func (p *printer) handle(message []byte) {
	if p.raw {
		fmt.Println(string(message))
		return
	}

	var env wsEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		fmt.Printf("[TEXT] %s\n", string(message))
		return
	}

	switch env.Type {
	case "state_init":
		var s stateInit
		if err := json.Unmarshal(env.Data, &s); err != nil {
			log.Printf("bad state_init: %v", err)
			return
		}
		p.lastAngle, p.lastMove = &s.Angle, &s.Moving
		if s.SelectedKnown {
			fmt.Printf("[INIT] tile %d selected, angle %.1f°\n", s.Selected+1, degrees(s.Angle))
		} else {
			fmt.Printf("[INIT] moving, angle %.1f°\n", degrees(s.Angle))
		}

	case "wheel_moved":
		if p.quiet {
			return
		}
		var w wheelMoved
		if err := json.Unmarshal(env.Data, &w); err != nil {
			log.Printf("bad wheel_moved: %v", err)
			return
		}
		moveChanged := p.lastMove == nil || *p.lastMove != w.Moving
		angleChanged := p.lastAngle == nil || math.Abs(*p.lastAngle-w.Angle) >= p.minDelta
		if !moveChanged && !angleChanged {
			return
		}
		p.lastAngle, p.lastMove = &w.Angle, &w.Moving
		status := "idle"
		if w.Moving {
			status = "moving"
		}
		fmt.Printf("[WHEEL] %7.1f° %s\n", degrees(w.Angle), status)

	case "tile_selected":
		var s tileSelected
		if err := json.Unmarshal(env.Data, &s); err != nil {
			log.Printf("bad tile_selected: %v", err)
			return
		}
		fmt.Printf("[SELECT] tile %s (index %d)\n", s.Label, s.Index)

	default:
		prettyJSON, _ := json.MarshalIndent(env, "", "  ")
		fmt.Printf("[EVENT]\n%s\n\n", string(prettyJSON))
	}
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
