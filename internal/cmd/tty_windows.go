//go:build windows

package cmd

import "errors"

var errNoUnixTTY = errors.New("interactive picker requires a unix terminal")

// getTermWidthIoctl returns 0 on Windows; width detection falls back to $COLUMNS.
func getTermWidthIoctl() int {
	return 0
}

func checkTTY() error       { return errNoUnixTTY }
func checkTERM() error      { return nil }
func checkTermWidth() error { return nil }

func acquireLock(string) (int, error) { return -1, errNoUnixTTY }
func releaseLock(int)                 {}
