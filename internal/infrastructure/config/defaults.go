package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPollInterval    = 15 * time.Second
	DefaultFetchTimeout    = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultSQLiteBusyMS    = 5000
	DefaultSQLiteMaxConns  = 4
	DefaultHTTPTimeout     = 8 * time.Second
)
