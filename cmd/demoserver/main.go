// Command demoserver serves versioned JSON, XML and text fixtures to run
// respdiff comparisons against.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/respdiff/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   respdiff demo upstream")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Compare /v1/<name> against /v2/<name>, or switch")
	fmt.Println("what /api/<name> serves via /demo/set-version.")
	fmt.Println()
	for _, f := range demoserver.GetAllFixtures() {
		fmt.Printf("  - %-8s %s\n", f.Name, f.Description)
	}
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
