package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/services/render"
	sqlxrepos "github.com/mfanajozi/dipapa/storage/database/sqlx"
	"github.com/mfanajozi/dipapa/testutil"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & services
	db := testutil.PrepareDB(t)
	pages, err := page.Default(page.Sizing{PageSize: 3})
	require.NoError(t, err)

	termSizeFunc = func(int) (int, int, error) { return 0, 0, errors.New("not a terminal") }

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		db:      db,
		records: record.NewService(sqlxrepos.NewRecordRepository(db), &testutil.Logger{}),
		pages:   pages,
		text:    render.NewText(),
		out:     out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	want       []string
	notWant    []string
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, want: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, want: []string{"Usage:"}},
		{name: "list: no page", args: []string{"list"}, wantErr: errHelp},
		{name: "show: no id", args: []string{"show", "-page", "users"}, wantErr: errHelp},
	})
}

func Test_commandLine_pages(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "pages", args: []string{"pages"}, want: []string{"users", "/content/events", "Stipend", "visitors"}},
	})
}

func Test_commandLine_seedAndList(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "list before seeding", args: []string{"list", "-page", "visitors"}, want: []string{"No results."}},
		{name: "seed unknown resource", args: []string{"seed", "-resource", "tenants"}, wantErrStr: `no fixtures for resource "tenants"`},
		{name: "seed one resource", args: []string{"seed", "-resource", "visitors"}, want: []string{"visitors: 5 records"}, notWant: []string{"users"}},
		{name: "seed everything", args: []string{"seed"}, want: []string{"users:", "queries: 5 records", "visitors: 5 records"}},
		{
			name:    "list first page",
			args:    []string{"list", "-page", "visitors"},
			want:    []string{"John Smith", "Sarah Johnson", "Michael Brown", "1-3 of 5, page 1/2"},
			notWant: []string{"David Lee", "View"},
		},
		{
			name: "list second page",
			args: []string{"list", "-page", "visitors", "-index", "1"},
			want: []string{"Emily Wilson", "David Lee", "4-5 of 5, page 2/2"},
		},
		{
			name:    "list filtered",
			args:    []string{"list", "-page", "visitors", "-filter", "Used", "-ordering", "-full_name"},
			want:    []string{"Sarah Johnson", "David Lee", "(filtered from 5)", "Name v"},
			notWant: []string{"John Smith"},
		},
		{name: "list unknown page", args: []string{"list", "-page", "tenants"}, wantErr: errNoPage},
		{name: "list unknown column", args: []string{"list", "-page", "visitors", "-ordering", "nope"}, wantErr: table.ErrUnknownColumn},
		{name: "show", args: []string{"show", "-page", "users", "-id", "u1"}, want: []string{"John Robert Doe", "ST12345", "January 1, 1990"}},
		{name: "show missing record", args: []string{"show", "-page", "users", "-id", "u404"}, wantErr: record.ErrNotFound},
	})

	recs, err := cli.records.Query(context.Background(), "queries")
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func Test_commandLine_listWidth(t *testing.T) {
	cli, out := setup(t)
	require.NoError(t, cli.run([]string{"admin", "seed", "-resource", "news"}))

	termSizeFunc = func(int) (int, int, error) { return 60, 40, nil }
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "list", "-page", "news"}))
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 120, line)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	gooseRunFunc = func(command string, db *sqlx.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "record_index", "sql"}},
	})

	cli.db = nil
	runCLITests(t, cli, out, []cliTest{
		{name: "no database", args: []string{"migrate", "up"}, wantErr: errNoDB},
	})
}
