// Package main is the entry point of the Coloring Daemon, a resident
// service that receives coloring-page images via WebSocket and prints
// them through the host print spooler.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/judwhite/go-svc"

	"github.com/papelito/coloring-daemon/internal/daemon"
)

func main() {
	// Parse flags
	consoleMode := flag.Bool("console", false, "Run in console mode (not as service)")
	flag.Parse()

	prg := &daemon.Program{}

	// Check if running interactively (console mode)
	if *consoleMode || isInteractive() {
		runConsole(prg)
	} else {
		// Run under the OS service manager
		if err := svc.Run(prg, syscall.SIGINT, syscall.SIGTERM); err != nil {
			log.Fatal(err)
		}
	}
}

// runConsole runs the program in console mode
func runConsole(prg *daemon.Program) {
	// Initialize
	if err := prg.Init(nil); err != nil {
		log.Fatalf("Init failed: %v", err)
	}

	// Start
	if err := prg.Start(); err != nil {
		log.Fatalf("Start failed: %v", err)
	}

	log.Println("═══════════════════════════════════════════════════════")
	log.Println("  🖍️ COLORING DAEMON - Console mode")
	log.Println("  Press Ctrl+C to stop...")
	log.Println("═══════════════════════════════════════════════════════")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("\n🛑 Shutting down...")
	if err := prg.Stop(); err != nil {
		return
	}
}

// isInteractive checks if running from a terminal (not as service)
func isInteractive() bool {
	// Check if stdin is a terminal
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// If stdin is a character device (terminal), we're interactive
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
