package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/mfanajozi/dipapa/apps/api/echo"
	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/record"
	appfs "github.com/mfanajozi/dipapa/fs"
	logsvc "github.com/mfanajozi/dipapa/services/logger"
	metricsvc "github.com/mfanajozi/dipapa/services/metrics"
	"github.com/mfanajozi/dipapa/services/render"
	"github.com/mfanajozi/dipapa/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	if err := conf.Validate(validate); err != nil {
		logger.Fatal(err.Error(), core.TranslateErrors(errors.Cause(err), translator))
	}

	// set up the record source
	repo, closer, err := storage.OpenRepository(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up %s record source: %v", conf.Source.Kind, err), err)
	}
	defer func() {
		if err = closer.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	recSvc := record.NewService(repo, dbLogger)

	pages, err := page.Default(page.Sizing{PageSize: conf.Table.PageSize, SkeletonRows: conf.Table.SkeletonRows})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up pages: %v", err), err)
	}

	html, err := render.NewHTML(appfs.FS, appfs.TemplatesDir, conf.Debug || conf.TestMode)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing templates: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("source").Set(conf.Source.Kind)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Pages:      pages,
			Records:    recSvc,
			HTML:       html,
			Metrics:    metricsvc.New(),
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
