// Package logging forwards errors to Rollbar alongside the standard log.
package logging

import (
	"log"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/rollbar/rollbar-go"
)

var enabled atomic.Bool

// Setup configures error reporting. An empty token leaves reporting off.
func Setup(token, environment, codeVersion string) {
	if token == "" {
		log.Println("Error reporting disabled (no ROLLBAR_TOKEN)")
		rollbar.SetEnabled(false)
		enabled.Store(false)
		return
	}

	host, _ := os.Hostname()
	rollbar.SetToken(token)
	rollbar.SetEnvironment(environment)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(codeVersion)
	rollbar.SetEnabled(true)
	enabled.Store(true)
	log.Printf("Error reporting enabled (environment: %s)", environment)
}

// Enabled reports whether errors are forwarded
func Enabled() bool {
	return enabled.Load()
}

// Error logs msg with err and reports both
func Error(msg string, err error) {
	log.Printf("%s: %v", msg, err)
	if enabled.Load() {
		rollbar.Error(msg, err)
	}
}

// RequestError logs and reports an error raised while serving r
func RequestError(r *http.Request, msg string, err error) {
	log.Printf("%s %s: %s: %v", r.Method, r.URL.Path, msg, err)
	if enabled.Load() {
		rollbar.Error(r, msg, err)
	}
}

// Flush blocks until queued reports are sent
func Flush() {
	if enabled.Load() {
		rollbar.Wait()
	}
}
