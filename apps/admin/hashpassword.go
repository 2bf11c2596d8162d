package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/roster"
	"github.com/trezcool/academia/core/user"
	appfs "github.com/trezcool/academia/fs"
)

func (cli *commandLine) hashPasswordCmd() *cobra.Command {
	var uname string

	cmd := &cobra.Command{
		Use:   "hashpassword",
		Short: "Print the seed entry of a user with a hashed password",
		Long:  "Prompts for a password and prints the users.yaml fields to paste for that user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uname = core.CleanString(uname, true /* lower */)
			if err := cli.validate.Var(uname, "required,alphanum_"); err != nil {
				return errors.Wrap(err, "invalid username")
			}

			fmt.Fprint(cli.out, "Enter password:")
			pwd, err := readPasswordFunc(stdinFd())
			fmt.Fprintln(cli.out)
			if err != nil {
				return errors.Wrap(err, "reading password")
			}
			if len(pwd) == 0 {
				return errEmptyPassword
			}

			usr := user.User{Username: uname}
			if err := usr.SetPassword(string(pwd)); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "username: %s\npassword_hash: %s\n", usr.Username, usr.PasswordHash)
			return nil
		},
	}
	cmd.Flags().StringVarP(&uname, "username", "u", "", "The user's username. The password will be prompted next.")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (cli *commandLine) checkSeedsCmd() *cobra.Command {
	var usersFile, rosterFile string

	cmd := &cobra.Command{
		Use:   "checkseeds",
		Short: "Validate the user and roster seed files (embedded ones by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uf, err := appfs.Open(usersFile, appfs.UsersSeed)
			if err != nil {
				return errors.Wrap(err, "opening user seeds")
			}
			defer uf.Close()
			users, err := user.LoadSeeds(uf, cli.validate)
			if err != nil {
				return err
			}

			rf, err := appfs.Open(rosterFile, appfs.RosterSeed)
			if err != nil {
				return errors.Wrap(err, "opening roster")
			}
			defer rf.Close()
			departments, err := roster.Load(rf)
			if err != nil {
				return err
			}

			fmt.Fprintf(cli.out, "%d users, %d departments: ok\n", len(users), len(departments))
			return nil
		},
	}
	cmd.Flags().StringVar(&usersFile, "users", "", "users seed file")
	cmd.Flags().StringVar(&rosterFile, "roster", "", "roster seed file")
	return cmd
}
