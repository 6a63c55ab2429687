//go:build !linux

package main

import (
	"errors"
	"os"
)

func readInputEventsEpoll(files []*os.File, stop *os.File, events chan<- inputEvent) error {
	return errors.New("evdev input is only supported on linux")
}
