package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
)

// runHealthCmd implements `provenance health`.
//
// Exit codes: 0 = gateway healthy, 1 = unhealthy, 2 = runtime error.
func runHealthCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("health", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	configPath := cmd.String("config", "", "Path to YAML config file")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	client, err := newClient(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if !client.Health(context.Background()) {
		_, _ = fmt.Fprintf(stderr, "Gateway %s is unhealthy\n", client.GatewayURL())
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Gateway %s is healthy\n", client.GatewayURL())
	return 0
}

// runStatusCmd implements `provenance status`: notary and pool status in
// one view.
func runStatusCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("status", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	configPath := cmd.String("config", "", "Path to YAML config file")
	jsonOut := cmd.Bool("json", false, "Output as JSON")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	client, err := newClient(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx := context.Background()

	notaryInfo, err := client.NotaryInfo(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: fetching notary info: %v\n", err)
		return 2
	}
	poolStatus, err := client.PoolStatus(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: fetching pool status: %v\n", err)
		return 2
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"notary": notaryInfo, "pool": poolStatus})
		return 0
	}

	_, _ = fmt.Fprintf(stdout, "Notary: enabled=%v available=%v", notaryInfo.Enabled, notaryInfo.Available)
	if notaryInfo.Address != "" {
		_, _ = fmt.Fprintf(stdout, " address=%s", notaryInfo.Address)
	}
	_, _ = fmt.Fprintln(stdout)

	_, _ = fmt.Fprintf(stdout, "Pool: enabled=%v\n", poolStatus.Enabled)
	for size, count := range poolStatus.Available {
		_, _ = fmt.Fprintf(stdout, "  %s: available=%d reserve=%d\n", size, count, poolStatus.Reserve[size])
	}
	return 0
}

// runAcquireCmd implements `provenance acquire`.
func runAcquireCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("acquire", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	configPath := cmd.String("config", "", "Path to YAML config file")
	size := cmd.String("size", "", "Size class to acquire (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *size == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --size is required")
		return 2
	}

	client, err := newClient(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	stamp, err := client.AcquireStamp(context.Background(), *size)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Acquired stamp %s (depth %d, size %s, fallback %v)\n",
		stamp.BatchID, stamp.Depth, stamp.SizeName, stamp.FallbackUsed)
	return 0
}
