// Package timeouts defines shared timeout constants.
package timeouts

import "time"

// IconRequest caps a single icon download, including reading the body.
const IconRequest = 30 * time.Second

// TelemetryShutdown limits how long pending spans may take to flush on exit.
const TelemetryShutdown = 5 * time.Second
