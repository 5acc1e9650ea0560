// Command sf is the storefront maintenance CLI.
//
// Usage:
//
//	sf                          Show help
//	sf list -url <location>     Print the products a location shows
//	sf url [filter flags]       Build a canonical location
//	sf categories               Category labels and counts
//	sf cache [-purge]           Query cache entries
//	sf serve [-addr host:port]  JSON view server
//	sf events                   JSONL event log viewer
//	sf config [-init]           Show or create the config file
package main

import (
	"fmt"
	"os"
)

const usage = `sf - storefront catalog & maintenance CLI

Usage:
  sf <command> [flags]

Commands:
  list        Apply a location to the catalog and print the result
  url         Encode filter flags into a canonical location
  categories  Category labels with product counts
  cache       Show or purge the query cache
  serve       Serve catalog views as JSON over HTTP
  events      JSONL event log viewer
  config      Show the effective config or write the defaults

Environment:
  STOREFRONT_API_BASE    Catalog API base URL (default: https://fakestoreapi.com)
  STOREFRONT_CACHE_DB    Query cache database path
  STOREFRONT_OFFLINE     Serve cached data only (true/false)
  STOREFRONT_LOG_LEVEL   debug, info, warn, error
  STOREFRONT_SERVE_ADDR  Listen address for serve

Run 'sf <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "list":
		runList()
	case "url":
		runURL()
	case "categories":
		runCategories()
	case "cache":
		runCache()
	case "serve":
		runServe()
	case "events":
		runEvents()
	case "config":
		runConfig()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "sf: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
