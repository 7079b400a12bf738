// Command provenance is a CLI for the provenance gateway: stamp
// acquisition, record upload/download, and offline signature
// verification.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/datafund/swarm-provenance-SDK/pkg/config"
	"github.com/datafund/swarm-provenance-SDK/pkg/gateway"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint, split from main for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "health":
		return runHealthCmd(args[2:], stdout, stderr)
	case "status":
		return runStatusCmd(args[2:], stdout, stderr)
	case "acquire":
		return runAcquireCmd(args[2:], stdout, stderr)
	case "upload":
		return runUploadCmd(args[2:], stdout, stderr)
	case "download":
		return runDownloadCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprint(w, `Usage: provenance <command> [flags]

Commands:
  health     Check gateway liveness
  status     Show notary and stamp pool status
  acquire    Acquire a postage stamp from the pool
  upload     Upload content as a provenance record
  download   Download and verify a provenance record
  verify     Verify a signed document offline

Configuration: PROVENANCE_GATEWAY_URL, PROVENANCE_TIMEOUT_MS,
PROVENANCE_PAYMENT_MODE, LOG_LEVEL, or --config <file.yaml>.
`)
}

// loadConfig resolves configuration from the environment plus an
// optional --config file, and installs the process logger.
func loadConfig(configPath string, stderr io.Writer) (*config.Config, error) {
	cfg := config.Load()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

func newClient(configPath string, stderr io.Writer) (*gateway.Client, error) {
	cfg, err := loadConfig(configPath, stderr)
	if err != nil {
		return nil, err
	}
	return gateway.New(cfg.ClientOptions()...), nil
}
