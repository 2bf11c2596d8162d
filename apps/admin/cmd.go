package main

import (
	"bufio"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/services/spreadsheet"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password cannot be empty")
)

type commandLine struct {
	in       *bufio.Reader
	out      io.Writer
	logger   core.Logger
	validate *validator.Validate
	codec    academics.Codec
}

func newCommandLine(in io.Reader, out io.Writer, logger core.Logger, validate *validator.Validate) *commandLine {
	return &commandLine{
		in:       bufio.NewReader(in),
		out:      out,
		logger:   logger,
		validate: validate,
		codec:    spreadsheet.NewXLSXCodec(),
	}
}

func (cli *commandLine) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Academia admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(cli.in)
	cmd.SetOut(cli.out)
	cmd.SetErr(cli.out)
	cmd.AddCommand(
		cli.hashPasswordCmd(),
		cli.checkSeedsCmd(),
		cli.inspectCmd(),
		cli.editCmd(),
	)
	return cmd
}

// run executes the command line `args`, program name included.
func (cli *commandLine) run(args []string) error {
	cmd := cli.rootCmd()
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func stdinFd() int {
	return int(os.Stdin.Fd())
}
