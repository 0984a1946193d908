// Package timeouts defines shared timeout constants used across the engine.
// Centralizing these values prevents drift between components and makes the
// durations discoverable.
package timeouts

import "time"

// AcceptWindow caps how long an open challenge waits for an acceptor before
// the challenger's stake is refunded.
const AcceptWindow = 30 * time.Second

// MoveWindow caps how long a challenge waits for the next move before the
// delinquent side's stake forfeits to the house.
const MoveWindow = 30 * time.Second

// SweepInterval is the cadence of the expiry sweep across active challenges.
const SweepInterval = 5 * time.Second

// Autosave is the cadence of snapshot persistence while the engine runs.
const Autosave = 5 * time.Minute

// Shutdown limits how long the server waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
