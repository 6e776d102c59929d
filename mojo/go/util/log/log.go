/*
 * Copyright 2023 The Mojo Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package log provides semantic log functions.
package log // import "mojo.io/mojo/go/util/log"

import (
	"context"
	"io"
	"log"
	"reflect"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose enables or disables the debug log.
func SetVerbose(v bool) { verbose.Store(v) }

// Verbose reports whether the debug log is enabled.
func Verbose() bool { return verbose.Load() }

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) { log.SetOutput(w) }

// Debugf logs to the debug log, if it is enabled.
func Debugf(msg string, args ...any) {
	if Verbose() {
		log.Printf("DEBUG: "+msg, args...)
	}
}

// Debug logs to the debug log, if it is enabled.
func Debug(args ...any) {
	if Verbose() {
		log.Println(append([]any{"DEBUG:"}, args...)...)
	}
}

// Infof logs to the informational log.
func Infof(msg string, args ...any) { log.Printf(msg, args...) }

// Info logs to the informational log.
func Info(args ...any) { log.Println(args...) }

// Warningf logs to the warning log.
func Warningf(msg string, args ...any) { log.Printf("WARNING: "+msg, args...) }

// Warning logs to the warning log.
func Warning(args ...any) { log.Println(append([]any{"WARNING:"}, args...)...) }

// Errorf logs to the error log.
func Errorf(msg string, args ...any) { log.Printf("ERROR: "+msg, args...) }

// Error logs to the error log.
func Error(args ...any) { log.Println(append([]any{"ERROR:"}, args...)...) }

// Fatalf logs to the error log and exits.
func Fatalf(msg string, args ...any) { log.Fatalf(msg, args...) }

// Fatal logs to the error log and exits.
func Fatal(args ...any) { log.Fatal(args...) }

// DebugContextf logs to the debug log with a Context.
func DebugContextf(ctx context.Context, msg string, args ...any) { Debugf(msg, args...) }

// InfoContext logs to the informational log with a Context.
func InfoContext(ctx context.Context, args ...any) {
	InfoContextf(ctx, defaultFormat(args), args...)
}

// WarningContext logs to the warning log with a Context.
func WarningContext(ctx context.Context, args ...any) {
	WarningContextf(ctx, defaultFormat(args), args...)
}

// InfoContextf logs to the informational log with a Context.
func InfoContextf(ctx context.Context, msg string, args ...any) { Infof(msg, args...) }

// WarningContextf logs to the warning log with a Context.
func WarningContextf(ctx context.Context, msg string, args ...any) { Warningf(msg, args...) }

// defaultFormat returns a fmt.Printf format specifier that formats its
// arguments as if they were passed to fmt.Print.
func defaultFormat(args []any) string {
	n := len(args)
	switch n {
	case 0:
		return ""
	case 1:
		return "%v"
	}

	b := make([]byte, 0, n*3-1)
	wasString := true // Suppress leading space.
	for _, arg := range args {
		isString := arg != nil && reflect.TypeOf(arg).Kind() == reflect.String
		if wasString || isString {
			b = append(b, "%v"...)
		} else {
			b = append(b, " %v"...)
		}
		wasString = isString
	}
	return string(b)
}
