// SailQuote: shade sail configurator and quote engine.
//
// Serves the quote API used by the storefront wizard and offers a few
// offline commands for the workshop.
//
// Build:
//   go build -o sailquote ./cmd/sailquote
//
// Usage:
//   sailquote serve [--addr :8080] [--db sailquote.db]
//   sailquote quote design.json [--currency AUD] [--json]
//   sailquote survey site.dxf [--unit metric] [--name Patio] [--out design.json]
//   sailquote import-catalog fabrics.xlsx
//   sailquote designs [--remove ID]
//   sailquote ticket ORDER_ID [--out dir]
//   sailquote backup out.json
//   sailquote restore backup.json

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/spf13/pflag"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/project"
)

const usage = `usage: sailquote <command> [flags]

commands:
  serve            run the HTTP quote API
  quote FILE       price a saved design or configuration
  survey FILE      measure a sail outline from a DXF site plan
  import-catalog   merge a CSV/XLSX price list into the fabric catalog
  designs          list or remove saved designs
  ticket ID        export the QR ticket and corner tags of an order
  backup FILE      export config, catalog, pricing and designs
  restore FILE     import a backup written by "backup"
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.Make(sloghuman.Sink(os.Stderr))
	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
			os.Exit(2)
		}
		log.Error(ctx, "sailquote failed", slog.Error(err))
		os.Exit(1)
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// options are the flags shared by every command. Environment variables set
// the defaults; flags take precedence.
type options struct {
	name       string
	flags      *pflag.FlagSet
	configPath *string
	logLevel   *string
}

func newOptions(name string) *options {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SortFlags = false
	flags.SetOutput(io.Discard)
	return &options{
		name:       name,
		flags:      flags,
		configPath: flags.String("config", envOr("SAILQUOTE_CONFIG", project.DefaultConfigPath()), "path to config.json"),
		logLevel:   flags.String("log-level", os.Getenv("SAILQUOTE_LOG_LEVEL"), "debug, info, warn or error"),
	}
}

// parse reads args and loads the app config, returning the positional
// arguments and a logger at the configured level.
func (o *options) parse(args []string, log slog.Logger) ([]string, model.AppConfig, slog.Logger, error) {
	if err := o.flags.Parse(args); err != nil {
		return nil, model.AppConfig{}, log, usageError{fmt.Sprintf("%s: %v", o.name, err)}
	}
	appCfg, err := project.LoadAppConfig(*o.configPath)
	if err != nil {
		return nil, model.AppConfig{}, log, err
	}
	level := appCfg.LogLevel
	if *o.logLevel != "" {
		level = *o.logLevel
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, model.AppConfig{}, log, usageError{err.Error()}
	}
	return o.flags.Args(), appCfg, log.Leveled(lvl), nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log slog.Logger) error {
	if len(args) == 0 {
		return usageError{"missing command"}
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return serve(ctx, rest, log)
	case "quote":
		return quote(ctx, rest, stdout, log)
	case "survey":
		return survey(ctx, rest, stdout, log)
	case "import-catalog":
		return importCatalog(ctx, rest, stdout, log)
	case "designs":
		return designs(ctx, rest, stdout, log)
	case "ticket":
		return ticket(ctx, rest, stdout, log)
	case "backup":
		return backup(ctx, rest, log)
	case "restore":
		return restore(ctx, rest, log)
	case "help", "-h", "--help":
		_, err := io.WriteString(stdout, usage)
		return err
	default:
		return usageError{fmt.Sprintf("unknown command %q", cmd)}
	}
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
