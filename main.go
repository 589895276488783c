package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/9seconds/iptracker/tracklib"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

var (
	app = kingpin.New(
		"iptracker",
		"IP address and domain geolocation widget")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPTRACKER_DEBUG").
		Bool()

	serveCommand = app.Command("serve", "Run HTTP server with widget and API.")
	serveConfig  = serveCommand.Arg("config-path", "Path to the config.").
			Required().
			File()

	lookupCommand = app.Command("lookup", "Lookup IP address or domain name and print JSON.")
	lookupConfig  = lookupCommand.Arg("config-path", "Path to the config.").
			Required().
			File()
	lookupQuery = lookupCommand.Arg("query", "IP address or domain name. Own address is used if empty.").
			String()
)

func init() {
	app.Version(version)
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.WarnLevel)
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	var err error

	switch command {
	case serveCommand.FullCommand():
		err = runServe(*serveConfig)
	case lookupCommand.FullCommand():
		err = runLookup(*lookupConfig, *lookupQuery)
	}

	if err != nil {
		log.Fatal(err.Error())
	}
}

func runServe(file *os.File) error {
	defer file.Close()

	conf, err := parseConfig(file)
	if err != nil {
		return err
	}

	tracker, err := makeTracker(conf)
	if err != nil {
		return err
	}

	var handler http.Handler = tracker

	if conf.BasicAuth.Enabled() {
		handler = newBasicAuthMiddleware(handler, conf.BasicAuth)
	}

	server := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           &accessLogMiddleware{handler: handler},
		ReadHeaderTimeout: 10 * time.Second,
	}

	rootCtx, cancel := makeRootContext()
	defer cancel()

	group, ctx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		log.WithFields(log.Fields{
			"listen":   conf.GetListen(),
			"resolver": conf.Resolver.GetServer(),
			"provider": conf.Provider.GetName(),
		}).Info("Start HTTP server.")

		log.WithFields(log.Fields{
			"networks":                tracker.ReservedNetworks(),
			"trust_forwarded_headers": conf.TrustForwardedHeaders,
		}).Debug("Reserved networks are not geolocated.")

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.GetShutdownTimeout())
		defer shutdownCancel()

		log.Info("Shutdown HTTP server.")

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

type lookupOutput struct {
	Result *tracklib.Result `json:"result,omitempty"`
	View   tracklib.View    `json:"view"`
}

func runLookup(file *os.File, query string) error {
	defer file.Close()

	conf, err := parseConfig(file)
	if err != nil {
		return err
	}

	tracker, err := makeTracker(conf)
	if err != nil {
		return err
	}

	rootCtx, cancel := makeRootContext()
	defer cancel()

	var result tracklib.Result

	if query == "" {
		result, err = tracker.LookupSelf(rootCtx, nil)
	} else {
		result, err = tracker.Lookup(rootCtx, query)
	}

	output := lookupOutput{
		View: tracklib.NewErrorView(query, err),
	}

	if err == nil {
		output.View = tracklib.NewView(result)
	}

	if output.View.OK() {
		output.Result = &result
	}

	encoder := json.NewEncoder(os.Stdout)

	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if encErr := encoder.Encode(output); encErr != nil {
		return encErr
	}

	return err
}
