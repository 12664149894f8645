package constants_test

import (
	"fmt"
	"net/http"

	"github.com/agentstation/doshii/pkg/constants"
)

// Example_timeouts demonstrates timeout constants
func Example_timeouts() {
	// HTTP client with default timeout
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}

	fmt.Printf("HTTP timeout: %v\n", client.Timeout)
	fmt.Printf("Heartbeat: %v\n", constants.HeartbeatInterval)
	// Output:
	// HTTP timeout: 30s
	// Heartbeat: 30s
}

// Example_endpoints demonstrates building the REST base URL
func Example_endpoints() {
	fmt.Printf(constants.SandboxAPIHost+"\n", constants.DefaultAPIVersion)
	fmt.Println(constants.LiveSocketURL)
	// Output:
	// https://sandbox.doshii.co/partner/v3
	// wss://live-socket.doshii.co/app/socket
}
