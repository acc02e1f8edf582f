package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// I/O flags shared by every subcommand. An empty path means the standard
// stream.
var (
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "Path of the input file (default: stdin)",
	}
	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Path of the output file (default: stdout)",
	}
)

// Flags of the init subcommand.
var (
	DiscriminationFlag = cli.StringFlag{
		Name:  "discrimination",
		Usage: "Address discrimination of the new chain (production|test)",
		Value: "test",
	}
	LeaderFlag = cli.StringSliceFlag{
		Name:  "leader",
		Usage: "BFT leader public key, repeatable; selects a BFT starter configuration",
	}
)

// Logging flags.
var (
	LogFormatFlag = cli.StringFlag{
		Name:  "log.format",
		Usage: "Log output format (text|json)",
		Value: "text",
	}
	LogVerbosityFlag = cli.IntFlag{
		Name:  "log.verbosity",
		Usage: "Logging verbosity (0=panic,1=fatal,2=error,3=warn,4=info,5=debug,6=trace)",
		Value: 4,
	}
	LogColorFlag = cli.BoolFlag{
		Name:  "log.color",
		Usage: "Enable colored log output",
	}
	SentryDSNFlag = cli.StringFlag{
		Name:  "sentry.dsn",
		Usage: "Report errors to the given Sentry DSN",
	}
)

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		LogFormatFlag,
		LogVerbosityFlag,
		LogColorFlag,
		SentryDSNFlag,
	}
}
