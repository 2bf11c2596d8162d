package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	logsvc "github.com/trezcool/academia/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(os.Stderr, "ADMIN", conf.Debug), conf)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := newCommandLine(os.Stdin, os.Stdout, logger, validate)
	if err := cli.run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		os.Exit(1)
	}
}
