package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
)

// ============================================================================
// hexdial-ctl - Command-line IPC Client
// ============================================================================
// Sends commands to the hexdial daemon over its Unix socket.
//
// Usage:
//   hexdial-ctl turn 3
//   hexdial-ctl next
//   hexdial-ctl state
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/hexdial.sock)
// ============================================================================

// Event types (duplicated from the daemon for a standalone binary)
type Event interface{}

type RotaryTurn struct {
	Steps int `json:"steps"`
}

type GetState struct{}

// EventEnvelope wraps events for JSON
type EventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// IPCResponse represents the daemon's response. State is kept raw and
// pretty-printed as is.
type IPCResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	State  json.RawMessage `json:"state,omitempty"`
}

func main() {
	socketPath := "/tmp/hexdial.sock"

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "-socket" || args[0] == "--socket" {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var ev Event

	switch args[0] {
	case "turn":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: turn requires a step count\n")
			os.Exit(1)
		}
		steps, err := strconv.Atoi(args[1])
		if err != nil || steps == 0 {
			fmt.Fprintf(os.Stderr, "error: invalid step count %q\n", args[1])
			os.Exit(1)
		}
		ev = RotaryTurn{Steps: steps}

	case "next", "cw":
		ev = RotaryTurn{Steps: 1}

	case "prev", "ccw":
		ev = RotaryTurn{Steps: -1}

	case "state", "get-state":
		ev = GetState{}

	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	resp, err := sendEvent(socketPath, ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(resp.State) > 0 {
		var state any
		if err := json.Unmarshal(resp.State, &state); err == nil {
			pretty, _ := json.MarshalIndent(state, "", "  ")
			fmt.Println(string(pretty))
			return
		}
	}
	fmt.Println("ok")
}

func sendEvent(socketPath string, ev Event) (IPCResponse, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return IPCResponse{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	data, err := marshalEvent(ev)
	if err != nil {
		return IPCResponse{}, fmt.Errorf("marshal event: %w", err)
	}

	// Line-delimited JSON
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		return IPCResponse{}, fmt.Errorf("send event: %w", err)
	}

	var response IPCResponse
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return IPCResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if response.Status == "error" {
		return response, fmt.Errorf("daemon error: %s", response.Error)
	}
	return response, nil
}

func marshalEvent(ev Event) ([]byte, error) {
	var env EventEnvelope

	switch e := ev.(type) {
	case RotaryTurn:
		env.Type = "rotary_turn"
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal RotaryTurn: %w", err)
		}
		env.Data = data

	case GetState:
		env.Type = "get_state"

	default:
		return nil, fmt.Errorf("unknown event type: %T", ev)
	}

	return json.Marshal(env)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `hexdial-ctl - Control the hexdial picker via IPC

Usage:
  hexdial-ctl [options] <command> [args]

Options:
  -socket PATH    Unix domain socket path (default: /tmp/hexdial.sock)

Commands:
  turn <steps>            Turn the wheel by a number of detents (negative = back)
  next, cw                Turn one detent clockwise
  prev, ccw               Turn one detent counter-clockwise
  state, get-state        Print the current picker state
  help, -h, --help        Show this help message

Examples:
  hexdial-ctl turn 6
  hexdial-ctl -socket /run/hexdial.sock state
`)
}
