// Command tawzi distributes exam supervisors over schools.
//
// Usage:
//
//	tawzi run -snapshot data.yaml [-config tawzi.yaml] [-previous final.yaml] [-seed N]
//	          [-out result.yaml] [-format yaml|json] [-nats-url URL] [-metrics-file path]
//	tawzi override -final result.yaml -school CODE [-supervisor NAME] [-snapshot data.yaml]
//	tawzi report -snapshot data.yaml [-final result.yaml] [-format text|yaml|json]
//
// TAWZI_NATS_URL and TAWZI_LOG_LEVEL are read from the environment or a
// .env file in the working directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const (
	envNATSURL  = "TAWZI_NATS_URL"
	envLogLevel = "TAWZI_LOG_LEVEL"
)

const usage = `tawzi distributes exam supervisors over schools.

Commands:
  run       compute a final list from a snapshot
  override  lock or clear the supervisor of one school
  report    print coverage and problem schools

Run "tawzi <command> -h" for the flags of a command.
`

func main() {
	if err := loadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "tawzi: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

// loadEnv loads a dotenv file without overriding variables already set.
// A missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)

		return 2
	}

	var err error
	switch args[0] {
	case "run":
		err = runCommand(ctx, args[1:], stdout, stderr)
	case "override":
		err = overrideCommand(ctx, args[1:], stdout, stderr)
	case "report":
		err = reportCommand(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)

		return 0
	default:
		fmt.Fprintf(stderr, "tawzi: unknown command %q\n\n%s", args[0], usage)

		return 2
	}

	if errors.Is(err, errHelp) {
		return 0
	}
	if errors.Is(err, errUsage) {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "tawzi %s: %v\n", args[0], err)

		return 1
	}

	return 0
}
