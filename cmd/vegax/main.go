package main

import (
	"fmt"
	"os"
)

const (
	// Version 项目版本
	Version = "0.3.0"
	// AppName 应用名称
	AppName = "Vegax-Route"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return ExitUnavailable
	}

	command := args[0]
	positional, flags, err := parseFlags(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}

	app, cleanup, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUnavailable
	}
	defer cleanup()

	switch command {
	case "check":
		if len(positional) != 1 {
			usage()
			return ExitUnavailable
		}
		return app.cmdCheck(positional[0], flags)
	case "probe":
		return app.cmdProbe(positional, flags)
	case "status":
		return app.cmdStatus(flags)
	case "rate-limits":
		return app.cmdRateLimits(flags)
	case "resolve":
		if len(positional) != 1 {
			usage()
			return ExitUnavailable
		}
		return app.cmdResolve(positional[0], flags, false)
	case "resolve-chain":
		if len(positional) != 1 {
			usage()
			return ExitUnavailable
		}
		return app.cmdResolve(positional[0], flags, true)
	case "invalidate":
		return app.cmdInvalidate(positional, flags)
	case "serve":
		return app.cmdServe()
	case "version":
		fmt.Printf("%s v%s\n", AppName, Version)
		return ExitOK
	default:
		usage()
		return ExitUnavailable
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  vegax check <provider|tier|model> [--force] [--quiet] [--json] [--ttl <seconds>]")
	fmt.Fprintln(os.Stderr, "  vegax probe [provider|--all] [--force] [--quiet] [--json] [--ttl <seconds>]")
	fmt.Fprintln(os.Stderr, "  vegax status [--json]")
	fmt.Fprintln(os.Stderr, "  vegax rate-limits [--json]")
	fmt.Fprintln(os.Stderr, "  vegax resolve <tier> [--force] [--quiet] [--agent <name>]")
	fmt.Fprintln(os.Stderr, "  vegax resolve-chain <tier> [--force] [--quiet] [--agent <name>]")
	fmt.Fprintln(os.Stderr, "  vegax invalidate [provider]")
	fmt.Fprintln(os.Stderr, "  vegax serve")
	fmt.Fprintln(os.Stderr, "exit codes: 0 available, 1 unavailable/error, 2 rate limited, 3 credential missing/invalid")
}
