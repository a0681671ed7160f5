package main

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/mfanajozi/dipapa/core/table"
	appfs "github.com/mfanajozi/dipapa/fs"
	inmemdb "github.com/mfanajozi/dipapa/storage/database/inmem"
)

// list prints one page of records of the named page, the way the dashboard shows it.
func (cli *commandLine) list(ctx context.Context, name string, st table.State) error {
	p, err := cli.lookup(name)
	if err != nil {
		return err
	}
	if err = p.Table().CheckSortKey(st.Order.Key); err != nil {
		return err
	}

	inst := p.Table().Mount(table.WithState(st))
	defer inst.Unmount()

	if _, err = p.Load(ctx, inst, cli.records); err != nil && ctx.Err() != nil {
		return err
	}
	return cli.text.WriteTable(cli.out, inst.View(), terminalWidth())
}

func (cli *commandLine) show(ctx context.Context, name, id string) error {
	p, err := cli.lookup(name)
	if err != nil {
		return err
	}
	rec, err := cli.records.Get(ctx, p.Resource, id)
	if err != nil {
		return err
	}

	d := p.Detail(rec)
	fmt.Fprintln(cli.out, d.Heading)
	tw := tablewriter.NewWriter(cli.out)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetColumnSeparator("")
	for _, fld := range d.Fields {
		tw.Append([]string{fld.Label, cli.text.Plain(fld.Cell.Text)})
	}
	tw.Render()
	return nil
}

// seed loads the embedded fixtures into the record source, optionally for a single resource.
func (cli *commandLine) seed(ctx context.Context, resource string) error {
	fixtures, err := inmemdb.ReadFixtures(appfs.FS, appfs.FixturesDir)
	if err != nil {
		return err
	}
	found := false
	for _, fx := range fixtures {
		if resource != "" && fx.Resource != resource {
			continue
		}
		found = true
		if err = cli.records.Seed(ctx, fx.Resource, fx.Records...); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s: %d records\n", fx.Resource, len(fx.Records))
	}
	if !found {
		return fmt.Errorf("no fixtures for resource %q", resource)
	}
	return nil
}
