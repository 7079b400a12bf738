package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/datafund/swarm-provenance-SDK/pkg/gateway"
)

// runUploadCmd implements `provenance upload`.
//
// Content comes from --file or stdin. The stamp is either supplied with
// --stamp or acquired from the pool for --size.
//
// Exit codes: 0 = uploaded, 1 = gateway error, 2 = usage/runtime error.
func runUploadCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("upload", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		configPath  = cmd.String("config", "", "Path to YAML config file")
		file        = cmd.String("file", "", "File to upload (default: read stdin)")
		stamp       = cmd.String("stamp", "", "Use an already-acquired stamp id")
		size        = cmd.String("size", "", "Size class to acquire when no stamp is given")
		contentType = cmd.String("content-type", "", "Content type forwarded to the gateway")
		standard    = cmd.String("standard", "", "Provenance standard tag")
		encryption  = cmd.String("encryption", "", "Advisory encryption tag (content is uploaded as-is)")
		sign        = cmd.Bool("sign", false, "Request notary signing")
	)
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	var content []byte
	var err error
	if *file != "" {
		content, err = os.ReadFile(*file)
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: reading content: %v\n", err)
		return 2
	}

	client, err := newClient(*configPath, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	opts := gateway.UploadOptions{
		StampID:     *stamp,
		Size:        *size,
		ContentType: *contentType,
		Standard:    *standard,
		Encryption:  *encryption,
	}
	if *sign {
		opts.Sign = gateway.SignNotary
	}

	result, err := client.Upload(context.Background(), content, opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintln(stdout, result.Reference)
	if result.SignedDocument != nil {
		_, _ = fmt.Fprintf(stderr, "Signed by notary: %d signature(s)\n", len(result.SignedDocument.Signatures))
	}
	return 0
}
