// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener hands a saved file to the desktop so the user can view or move it.
type Opener interface {
	// Name returns the opener command name.
	Name() string

	// Open launches the opener on path without waiting for it to exit.
	Open(path string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// opener runs a platform command with fixed leading arguments.
type opener struct {
	bin  string
	args []string
	exec executor
}

func (o *opener) Name() string { return o.bin }

func (o *opener) Open(path string) error {
	args := append(append([]string{}, o.args...), path)
	if err := o.exec.Start(o.bin, args...); err != nil {
		return fmt.Errorf("running %s: %w", o.bin, err)
	}
	return nil
}

// candidates lists opener commands per GOOS, in preference order.
var candidates = map[string][]opener{
	"linux":   {{bin: "xdg-open"}, {bin: "gio", args: []string{"open"}}},
	"freebsd": {{bin: "xdg-open"}},
	"darwin":  {{bin: "open"}},
	"windows": {{bin: "rundll32", args: []string{"url.dll,FileProtocolHandler"}}},
}

var defaultExec = &osExecutor{}

// DetectOpener returns the first opener found on PATH for this platform.
func DetectOpener() (Opener, error) {
	return detectOpener(runtime.GOOS, defaultExec)
}

func detectOpener(goos string, exec executor) (Opener, error) {
	for _, c := range candidates[goos] {
		if _, err := exec.LookPath(c.bin); err != nil {
			continue
		}
		return &opener{bin: c.bin, args: c.args, exec: exec}, nil
	}
	return nil, fmt.Errorf("no file opener available on %s", goos)
}
