package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/sealdrop/cmd/internal"
	"github.com/saylorsolutions/sealdrop/cmd/sealserve/internal/devtls"
	"github.com/saylorsolutions/sealdrop/cmd/sealserve/internal/host"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		versionFlag bool
		addrFlag    string
		dirFlag     string
		tlsFlag     bool
		hostsFlag   []string
		verboseFlag bool
	)
	flags := flag.NewFlagSet("sealserve", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the sealserve version.")
	flags.StringVarP(&addrFlag, "addr", "a", ":8080", "Listens on this address.")
	flags.StringVarP(&dirFlag, "dir", "d", ".", "Serves blobs from this directory.")
	flags.BoolVar(&tlsFlag, "tls", false, "Serves HTTPS with an ephemeral self-signed certificate.")
	flags.StringSliceVar(&hostsFlag, "host", []string{"localhost", "127.0.0.1", "::1"}, "Hosts the ephemeral certificate covers. Repeat the flag or separate values with commas.")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Logs at debug level.")
	flags.Usage = func() {
		fmt.Printf(`
sealserve hosts a directory of published blobs for previews and small deployments.
It serves exactly what sealgen writes: locator-shaped blob names and the parameter descriptor. Directory listings and every other path are refused, so the directory may hold unrelated files without exposing them.

USAGE:  sealserve [flags]

FLAGS:
%s
The server holds no keys and sees no identities, so compromising it yields only ciphertext. Any static file host enforcing the same two routes serves production just as well.
`, flags.FlagUsages())
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}
	if versionFlag {
		internal.Echo("sealserve %s", version)
		return
	}
	if flags.NArg() > 0 {
		internal.Fatal("Unexpected arguments: %v", flags.Args())
	}

	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	h, err := host.New(dirFlag, host.WithLogger(log))
	if err != nil {
		internal.Fatal("Failed to set up: %v", err)
	}
	srv := &http.Server{
		Addr:              addrFlag,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	scheme := "http"
	if tlsFlag {
		cfg, err := devtls.Ephemeral(devtls.DefaultValidity, hostsFlag...)
		if err != nil {
			internal.Fatal("Failed to generate an ephemeral certificate: %v", err)
		}
		srv.TLSConfig = cfg
		scheme = "https"
	}

	log.Info("serving blobs", "addr", addrFlag, "dir", dirFlag, "scheme", scheme)

	errCh := make(chan error, 1)
	go func() {
		var err error
		if tlsFlag {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-errCh:
		internal.Fatal("Server error: %v", err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		internal.Fatal("Graceful shutdown failed: %v", err)
	}
	log.Info("server stopped")
}
