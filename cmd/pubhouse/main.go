package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "createuser":
		if len(os.Args) != 5 {
			fmt.Fprintln(os.Stderr, "Usage: pubhouse createuser <username> <email> <password>")
			os.Exit(1)
		}
		if err := runCreateUser(os.Args[2], os.Args[3], os.Args[4]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("pubhouse %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pubhouse - A multi-author blogging platform built with Go, Echo, and templ

Usage:
  pubhouse <command> [arguments]

Commands:
  serve [-config file]                     Start the web server
  createuser <username> <email> <password> Create a user account
  version                                  Print the pubhouse version
  help                                     Show this help message

Configuration is read from pubhouse.yml and PUBHOUSE_* environment variables.

Examples:
  PUBHOUSE_SESSION_SECRET=change-me pubhouse serve
  pubhouse serve -config /etc/pubhouse.yml
  pubhouse createuser alice alice@example.com s3cret!`)
}
