package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/datafund/swarm-provenance-SDK/pkg/metadata"
	"github.com/datafund/swarm-provenance-SDK/pkg/notary"
)

// runVerifyCmd implements `provenance verify`: offline verification of a
// signed document (no network access).
//
// The input file holds either a signed document
// {"metadata": {...}, "signatures": [...]} or a bare metadata record.
// The content hash is always checked; signatures are checked against
// --signer when given, otherwise in hash-only mode.
//
// Exit codes: 0 = everything verified, 1 = verification failed,
// 2 = usage/runtime error.
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		file    = cmd.String("file", "", "Signed document or metadata JSON file (REQUIRED)")
		signer  = cmd.String("signer", "", "Expected notary signer address")
		jsonOut = cmd.Bool("json", false, "Output verification results as JSON")
	)
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	m, signatures, err := parseDocument(raw)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	hashOK := m.VerifyContentHash()
	verification := notary.VerifyAllSignatures(signatures, m, *signer)

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"content_hash_valid": hashOK,
			"signatures":         verification,
		})
	} else {
		_, _ = fmt.Fprintf(stdout, "Content hash: %s\n", verdict(hashOK))
		for i, result := range verification.Results {
			_, _ = fmt.Fprintf(stdout, "Signature %d (%s): %s", i, signatures[i].Signer, verdict(result.Valid))
			if result.Error != "" {
				_, _ = fmt.Fprintf(stdout, ": %s", result.Error)
			}
			_, _ = fmt.Fprintln(stdout)
			_, _ = fmt.Fprintf(stdout, "  signed message: %s\n", notary.ReconstructSignedMessage(signatures[i]))
		}
	}

	if !hashOK || !verification.AllValid {
		return 1
	}
	return 0
}

func verdict(ok bool) string {
	if ok {
		return "VALID"
	}
	return "INVALID"
}

// parseDocument accepts a signed document or a bare metadata record.
func parseDocument(raw []byte) (*metadata.ProvenanceMetadata, []notary.Signature, error) {
	var doc struct {
		Metadata   json.RawMessage    `json:"metadata"`
		Signatures []notary.Signature `json:"signatures"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil && len(doc.Metadata) > 0 {
		m, err := metadata.Parse(doc.Metadata)
		if err != nil {
			return nil, nil, err
		}
		return m, doc.Signatures, nil
	}

	m, err := metadata.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return m, doc.Signatures, nil
}
