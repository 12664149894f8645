// Package constants provides shared constants used throughout the doshii SDK.
// This includes endpoints, timeouts, protocol values and file permissions
// that should be consistent across the SDK and the CLI.
package constants

import "time"

// Endpoint constants for the Doshii partner platform
const (
	// SandboxAPIHost is the REST base URL template for the sandbox environment
	SandboxAPIHost = "https://sandbox.doshii.co/partner/v%d"

	// LiveAPIHost is the REST base URL template for the production environment
	LiveAPIHost = "https://live.doshii.co/partner/v%d"

	// SandboxSocketURL is the realtime socket endpoint for the sandbox environment
	SandboxSocketURL = "wss://sandbox-socket.doshii.co/app/socket"

	// LiveSocketURL is the realtime socket endpoint for the production environment
	LiveSocketURL = "wss://live-socket.doshii.co/app/socket"

	// DefaultAPIVersion is the partner API version used when none is configured
	DefaultAPIVersion = 3
)

// Realtime protocol constants
const (
	// HeartbeatInterval is the period between keep-alive frames on the socket
	HeartbeatInterval = 30 * time.Second

	// ProtocolVersion is sent with every keep-alive frame
	ProtocolVersion = "1.2.3"

	// SocketAuthParam is the query parameter carrying the socket credential
	SocketAuthParam = "auth"

	// WriteWait is the time allowed to write a frame to the socket
	WriteWait = 10 * time.Second

	// HandshakeTimeout bounds the websocket opening handshake
	HandshakeTimeout = 15 * time.Second
)

// HTTP header names used by the partner API
const (
	// HeaderLocationID scopes a request to a single venue
	HeaderLocationID = "doshii-location-id"

	// HeaderAPIKey carries the bulk data aggregation key
	HeaderAPIKey = "X-API-KEY"
)

// Timeout constants define various timeout durations used in the SDK
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the partner API
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout is the time the CLI waits for a graceful shutdown
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default values
const (
	// DefaultDataset is the bulk data aggregation dataset used when none is given
	DefaultDataset = "orders"

	// DefaultConfigName is the config file base name searched by the CLI
	DefaultConfigName = ".doshii"
)
