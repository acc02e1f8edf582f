package launcher

import (
	"io"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/sjmackenzie/jormungandr/flags"
)

func readInput(ctx *cli.Context) ([]byte, error) {
	path := ctx.String(flags.InputFlag.Name)
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(ctx *cli.Context, data []byte) error {
	path := ctx.String(flags.OutputFlag.Name)
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
