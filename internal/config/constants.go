package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 120 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const BlobSweepInterval = time.Hour

// Login throttling: attempts per window per client IP
const (
	LoginMaxAttempts = 5
	LoginWindow      = time.Minute
)

// Contact form throttling per client IP
const (
	ContactMaxPerWindow = 3
	ContactWindow       = 10 * time.Minute
)

// JSON request bodies; uploads get their own cap
const MaxJSONBodySize = 1 << 20
