// Package launcher wires the block zero compiler into a command line tool.
package launcher

import (
	"fmt"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sjmackenzie/jormungandr/flags"
)

var log = logrus.New()

// Launch parses the arguments and runs the selected subcommand.
func Launch(args []string) error {
	app := flags.NewApp("block zero compiler")
	app.Flags = flags.CommonFlags()
	app.Before = setupLogging
	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		hashCommand,
		initCommand,
	}
	return app.Run(args)
}

func setupLogging(ctx *cli.Context) error {
	verbosity := ctx.GlobalInt(flags.LogVerbosityFlag.Name)
	if verbosity < 0 || verbosity > int(logrus.TraceLevel) {
		return fmt.Errorf("invalid log verbosity %d", verbosity)
	}
	log.SetLevel(logrus.Level(verbosity))

	switch format := ctx.GlobalString(flags.LogFormatFlag.Name); format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors: ctx.GlobalBool(flags.LogColorFlag.Name),
		})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	if dsn := ctx.GlobalString(flags.SentryDSNFlag.Name); dsn != "" {
		hook, err := logrus_sentry.NewSentryHook(dsn, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("sentry hook: %w", err)
		}
		log.AddHook(hook)
	}
	return nil
}
