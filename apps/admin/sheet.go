package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/services/backend"
)

const editHelp = `commands:
  show                    print the sheet
  set ROW COL VALUE       set a cell
  edit ROW COL            toggle the editing flag of a cell
  commit ROW COL VALUE    set a cell and leave editing
  addcol NAME             append a column
  addrow                  append an empty row
  delcol INDEX            delete a column (asks for confirmation)
  delrow INDEX            delete a row (asks for confirmation)
  diff                    show the changes since the import
  save [PATH]             export the sheet
  quit                    leave without saving
`

func (cli *commandLine) newWorkspace() *academics.Workspace {
	return academics.NewWorkspace("admin", cli.codec, backend.NewConsoleBackend(cli.logger), cli.logger)
}

// importFile loads `path` into a new workspace.
func (cli *commandLine) importFile(ctx context.Context, path string) (*academics.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ws := cli.newWorkspace()
	if _, err := ws.Import(ctx, filepath.Base(path), f); err != nil {
		return nil, err
	}
	return ws, nil
}

func (cli *commandLine) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the first sheet of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := cli.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printGrid(cli.out, ws.Grid())
		},
	}
}

func (cli *commandLine) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit the first sheet of a workbook from the terminal",
		Long:  "Starts a line-oriented editing session; type `help` for the commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := cli.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printGrid(cli.out, ws.Grid()); err != nil {
				return err
			}
			return cli.editLoop(cmd.Context(), ws, filepath.Dir(args[0]))
		},
	}
}

// editLoop reads commands until quit or EOF. Command errors are printed, not returned.
func (cli *commandLine) editLoop(ctx context.Context, ws *academics.Workspace, dir string) error {
	for {
		fmt.Fprint(cli.out, "> ")
		line, err := cli.readLine()
		if err == io.EOF {
			fmt.Fprintln(cli.out)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading command")
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := cli.exec(ctx, ws, dir, fields); err != nil {
			fmt.Fprintf(cli.out, "error: %v\n", err)
		}
	}
}

func (cli *commandLine) exec(ctx context.Context, ws *academics.Workspace, dir string, fields []string) error {
	cmd, args := fields[0], fields[1:]
	var g *academics.Grid
	var err error

	switch cmd {
	case "help":
		fmt.Fprint(cli.out, editHelp)
		return nil
	case "show":
		g = ws.Grid()
	case "set", "commit":
		row, col, err := cellArgs(args, 3)
		if err != nil {
			return err
		}
		v := academics.ParseValue(strings.Join(args[2:], " "))
		if cmd == "set" {
			g, err = ws.SetCellValue(row, col, v)
		} else {
			g, err = ws.CommitEdit(row, col, v)
		}
		if err != nil {
			return err
		}
	case "edit":
		row, col, err := cellArgs(args, 2)
		if err != nil {
			return err
		}
		if g, err = ws.ToggleEditing(row, col); err != nil {
			return err
		}
	case "addcol":
		g, err = ws.AddColumn(strings.Join(args, " "))
	case "addrow":
		g = ws.AddRow()
	case "delcol", "delrow":
		g, err = cli.delete(ws, cmd, args)
	case "diff":
		diff, err := ws.Changes()
		if err != nil {
			return err
		}
		if diff == "" {
			diff = "no changes\n"
		}
		fmt.Fprint(cli.out, diff)
		return nil
	case "save":
		return cli.save(ctx, ws, dir, args)
	default:
		return errors.Errorf("unknown command %q (try `help`)", cmd)
	}
	if err != nil {
		return err
	}
	return printGrid(cli.out, g)
}

func (cli *commandLine) delete(ws *academics.Workspace, cmd string, args []string) (*academics.Grid, error) {
	if len(args) != 1 {
		return nil, errors.Errorf("usage: %s INDEX", cmd)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, errors.Errorf("invalid index %q", args[0])
	}

	del, what := ws.DeleteRow, "row"
	if cmd == "delcol" {
		del, what = ws.DeleteColumn, "column"
	}

	// check the index before asking
	if _, _, err = del(idx, false); err != nil {
		return nil, err
	}
	confirmed, err := cli.confirm(fmt.Sprintf("Delete %s %d?", what, idx))
	if err != nil {
		return nil, err
	}
	g, deleted, err := del(idx, confirmed)
	if err == nil && !deleted {
		fmt.Fprintln(cli.out, "cancelled")
	}
	return g, err
}

func (cli *commandLine) save(ctx context.Context, ws *academics.Workspace, dir string, args []string) error {
	res, err := ws.Export(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, res.FileName)
	if len(args) > 0 {
		path = args[0]
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	fmt.Fprintf(cli.out, "saved %s\n", path)
	return nil
}

func (cli *commandLine) confirm(question string) (bool, error) {
	fmt.Fprintf(cli.out, "%s [y/N] ", question)
	answer, err := cli.readLine()
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// readLine returns the next input line without its line ending.
// io.EOF is only returned when nothing was read.
func (cli *commandLine) readLine() (string, error) {
	line, err := cli.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func cellArgs(args []string, n int) (row, col int, err error) {
	if len(args) < n {
		return 0, 0, errors.New("missing ROW COL")
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, errors.Errorf("invalid row %q", args[0])
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, errors.Errorf("invalid column %q", args[1])
	}
	return row, col, nil
}

// printGrid writes the grid as an aligned table; row indices on the left, cells being edited marked with `*`.
func printGrid(w io.Writer, g *academics.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "#")
	for _, h := range g.Headers {
		fmt.Fprintf(tw, "\t%s", h)
	}
	fmt.Fprintln(tw)
	for i, row := range g.Rows {
		fmt.Fprintf(tw, "%d", i)
		for _, c := range row {
			mark := ""
			if c.Editing {
				mark = "*"
			}
			fmt.Fprintf(tw, "\t%s%s", c.Value, mark)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
