// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/panic.go
// Summary: Panic capture for the compute and host goroutines.

package coordinator

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// PanicLogger captures panic stack traces and optionally appends them to a
// file. A captured panic terminates the process with status 2.
type PanicLogger struct {
	path string
	mu   sync.Mutex
	exit func(code int)
}

// NewPanicLogger writes to path when it is non-empty.
func NewPanicLogger(path string) *PanicLogger {
	return &PanicLogger{path: path, exit: os.Exit}
}

// Recover must be deferred directly by the goroutine it protects.
func (p *PanicLogger) Recover(where string) {
	if r := recover(); r != nil {
		p.logPanic(where, r)
		p.exit(2)
	}
}

func (p *PanicLogger) logPanic(where string, r interface{}) {
	buf := make([]byte, 1<<16)
	stack := buf[:runtime.Stack(buf, true)]
	log.Errorf("panic in %s: %v\n%s", where, r, stack)
	fmt.Fprintf(os.Stderr, "panic in %s: %v\n%s\n", where, r, stack)
	if p.path == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Errorf("panic: unable to write panic log: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "[%s] panic in %s: %v\n%s\n", time.Now().Format(time.RFC3339Nano), where, r, stack)
}
