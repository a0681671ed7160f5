package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/services/render"
	"github.com/mfanajozi/dipapa/storage/database"
)

var (
	termSizeFunc = term.GetSize             // mockable
	gooseRunFunc = database.RunMigration // mockable

	errHelp   = errors.New("help provided")
	errNoDB   = errors.New("migrate needs the database record source")
	errNoPage = errors.New("no such page")
)

type commandLine struct {
	db      *sqlx.DB // nil unless the record source is the database
	records *record.Service
	pages   *page.Registry
	text    *render.Text
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  pages - list the dashboard pages")
	fmt.Fprintln(cli.out, "  list -page NAME [-search TERM] [-filter VALUE] [-ordering [-]KEY] [-index N] - print a page of records")
	fmt.Fprintln(cli.out, "  show -page NAME -id ID - print the details of a record")
	fmt.Fprintln(cli.out, "  seed [-resource NAME] - load the bundled fixtures into the record source")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listPage := listCmd.String("page", "", "The page to list (see pages).")
	listSearch := listCmd.String("search", "", "Only records whose search column contains this term.")
	listFilter := listCmd.String("filter", "", "Only records whose filter column equals this value.")
	listOrdering := listCmd.String("ordering", "", "Sort by this column key; prefix with '-' for descending order.")
	listIndex := listCmd.Int("index", 0, "The zero-based page index.")

	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	showPage := showCmd.String("page", "", "The page of the record (see pages).")
	showID := showCmd.String("id", "", "The record id.")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedResource := seedCmd.String("resource", "", "Only seed this resource.")

	switch args[1] {
	case "pages":
		return cli.listPages()

	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *listPage == "" {
			listCmd.Usage()
			return errHelp
		}
		st := table.State{
			Search: *listSearch,
			Filter: *listFilter,
			Order:  table.ParseOrdering(*listOrdering),
			Page:   *listIndex,
		}
		return cli.list(ctx, *listPage, st)

	case "show":
		if err := showCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *showPage == "" || *showID == "" {
			showCmd.Usage()
			return errHelp
		}
		return cli.show(ctx, *showPage, *showID)

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(ctx, *seedResource)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listPages() error {
	tw := tablewriter.NewWriter(cli.out)
	tw.SetHeader([]string{"Name", "Path", "Title", "Resource"})
	tw.SetAutoWrapText(false)
	for _, p := range cli.pages.All() {
		tw.Append([]string{p.Name, p.Path, p.Title, p.Resource})
	}
	tw.Render()
	return nil
}

func (cli *commandLine) lookup(name string) (*page.Page, error) {
	p, ok := cli.pages.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errNoPage, name)
	}
	return p, nil
}

// terminalWidth returns the width of the terminal on stdout, or 0 when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := termSizeFunc(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}
