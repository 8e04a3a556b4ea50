package status

import (
	"time"

	"github.com/google/uuid"
)

// BotLifecycle holds the process-wide bot state. It is created in a
// "not ready" state and only ever mutated by three events: the bot
// logging in, a heartbeat, and a login failure
type BotLifecycle struct {
	Ready         bool        `json:"ready"`
	ReadyAt       *time.Time  `json:"readyAt"`
	LastHeartbeat *time.Time  `json:"lastHeartbeat"`
	LoginError    *LoginError `json:"loginError"`
}

type LoginError struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandStat accumulates counters for one named command.
// Counters only ever grow, except through ResetCommand
type CommandStat struct {
	Name             string     `json:"name"`
	RunCount         int        `json:"runCount"`
	SuccessCount     int        `json:"successCount"`
	ErrorCount       int        `json:"errorCount"`
	ResetCount       int        `json:"resetCount"`
	LastRunAt        *time.Time `json:"lastRunAt"`
	LastSuccessAt    *time.Time `json:"lastSuccessAt"`
	LastErrorAt      *time.Time `json:"lastErrorAt"`
	LastErrorMessage string     `json:"lastErrorMessage,omitempty"`
}

// MetaKind classifies the origin of a recorded command error
type MetaKind string

const (
	MetaNetwork   MetaKind = "network"
	MetaAuth      MetaKind = "auth"
	MetaRateLimit MetaKind = "ratelimit"
	MetaUserInput MetaKind = "userinput"
	MetaGeneric   MetaKind = "generic"
)

// ErrorMeta carries optional structured context for an error entry.
// Kind tags the known shapes, Fields is the fallback bag for anything else
type ErrorMeta struct {
	Kind       MetaKind          `json:"kind"`
	StatusCode int               `json:"statusCode,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// ErrorEntry is an immutable record of one command error
type ErrorEntry struct {
	ID        uuid.UUID  `json:"id"`
	Command   string     `json:"command"`
	Message   string     `json:"message"`
	Stack     string     `json:"stack,omitempty"`
	Meta      *ErrorMeta `json:"meta,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// UserActivity tallies command usage for one user.
// Username is the last seen display name
type UserActivity struct {
	UserID       string         `json:"userId"`
	Username     string         `json:"username"`
	CommandCount int            `json:"commandCount"`
	Commands     map[string]int `json:"commands"`
	LastActivity time.Time      `json:"lastActivity"`
}

// RuntimeSample is one point of the memory/load/throughput time series
type RuntimeSample struct {
	Timestamp     time.Time `json:"timestamp"`
	RssMB         float64   `json:"rssMB"`
	Load1         float64   `json:"load1"`
	CmdCountTotal int       `json:"cmdCountTotal"`
}

// Snapshot is an immutable point-in-time copy of the whole store.
// Callers may hold on to it for as long as they like
type Snapshot struct {
	Bot      BotLifecycle   `json:"bot"`
	Commands []CommandStat  `json:"commands"`
	Errors   []ErrorEntry   `json:"errors"`
	Users    []UserActivity `json:"users"`
	Metrics  Metrics        `json:"metrics"`
}

type Metrics struct {
	Samples []RuntimeSample `json:"samples"`
}
