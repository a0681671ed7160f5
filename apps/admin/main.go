package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/record"
	logsvc "github.com/mfanajozi/dipapa/services/logger"
	"github.com/mfanajozi/dipapa/services/render"
	"github.com/mfanajozi/dipapa/storage"
	sqlxrepos "github.com/mfanajozi/dipapa/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	if err := conf.Validate(validator.New()); err != nil {
		log.Fatal(err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	pages, err := page.Default(page.Sizing{PageSize: conf.Table.PageSize, SkeletonRows: conf.Table.SkeletonRows})
	errAndDie(logger, err)

	cli := commandLine{
		pages: pages,
		text:  render.NewText(),
		out:   os.Stdout,
	}

	// migrations run before the schema exists, so the database is opened without migrating it
	if conf.Source.Kind == core.SourceDatabase {
		var db *sqlx.DB
		db, err = storage.OpenDB(conf)
		errAndDie(logger, err)
		defer db.Close()
		cli.db = db
		cli.records = record.NewService(sqlxrepos.NewRecordRepository(db), logger)
	} else {
		repo, closer, err := storage.OpenRepository(conf, logger)
		errAndDie(logger, err)
		defer closer.Close()
		cli.records = record.NewService(repo, logger)
	}

	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
