package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/datafund/swarm-provenance-SDK/pkg/gateway"
)

// runDownloadCmd implements `provenance download`.
//
// The content hash is always re-verified; a mismatch aborts without
// writing any output. Signature verification is on by default and its
// verdict is reported on stderr without affecting the exit code.
//
// Exit codes: 0 = downloaded, 1 = gateway/verification error,
// 2 = usage/runtime error.
func runDownloadCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("download", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		configPath = cmd.String("config", "", "Path to YAML config file")
		out        = cmd.String("out", "", "Write content to file (default: stdout)")
		noVerify   = cmd.Bool("no-verify", false, "Skip signature verification")
		jsonOut    = cmd.Bool("json", false, "Output the full result as JSON instead of raw content")
	)
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: provenance download [flags] <reference>")
		return 2
	}

	client, err := newClient(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	result, err := client.Download(context.Background(), cmd.Arg(0), gateway.DownloadOptions{
		SkipVerification: *noVerify,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if result.Verified != nil {
		if *result.Verified {
			_, _ = fmt.Fprintf(stderr, "Signatures verified (%d)\n", len(result.Signatures))
		} else {
			_, _ = fmt.Fprintln(stderr, "WARNING: signature verification failed")
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"metadata":     result.Metadata,
			"signatures":   result.Signatures,
			"verified":     result.Verified,
			"verification": result.Verification,
		})
		return 0
	}

	if *out != "" {
		if err := os.WriteFile(*out, result.Data, 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: writing %s: %v\n", *out, err)
			return 2
		}
		return 0
	}
	if _, err := stdout.Write(result.Data); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
