package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/sealdrop/cmd/internal"
	"github.com/saylorsolutions/sealdrop/cmd/internal/profile"
	"github.com/saylorsolutions/sealdrop/cmd/sealview/internal/render"
	"github.com/saylorsolutions/sealdrop/pkg/fetch"
	"github.com/saylorsolutions/sealdrop/pkg/locator"
	"github.com/saylorsolutions/sealdrop/pkg/pipeline"
	"github.com/saylorsolutions/sealdrop/pkg/sealbox"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		versionFlag bool
		baseFlag    string
		plainFlag   bool
		screenFlag  bool
		checkFlag   bool
		timeoutFlag string
		verboseFlag bool
		configFlag  string
	)
	flags := flag.NewFlagSet("sealview", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the sealview version.")
	flags.StringVarP(&baseFlag, "base", "b", "", "Base URL the blobs are published under. Overrides the profile.")
	flags.BoolVarP(&plainFlag, "plain", "p", false, "Prints the decrypted text to stdout instead of opening the viewer.")
	flags.BoolVarP(&screenFlag, "screen", "S", false, "Always opens the full screen viewer, even for plain text.")
	flags.BoolVarP(&checkFlag, "check", "c", false, "Checks the published parameter descriptor before fetching.")
	flags.StringVarP(&timeoutFlag, "timeout", "t", "", "Limits one fetch, in a form like 30s or 1m. Overrides the profile.")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Logs pipeline steps to stderr.")
	flags.StringVar(&configFlag, "config", "", "Reads the profile from this file instead of $"+profile.EnvVar+".")
	flags.Usage = func() {
		fmt.Printf(`
sealview fetches the encrypted blob published for an identity pair, decrypts it locally, and shows the content.
The blob is located by the uppercase hex SHA-256 digest of "INDEX|ID", and the key is derived from the same pair, so the server sees neither identifier and never holds a usable key.

USAGE:  sealview [flags] INDEX [ID]

Note: If the ID argument is omitted, it will be prompted for without echo.

ARGS:
    INDEX is the public identifier the blob was published under.
    ID is the paired identifier, and may be omitted to keep it out of shell history.

FLAGS:
%s
Content recognized as a markup document opens in a scrollable viewer, anything else prints to stdout. Use -p or -S to force one or the other.
`, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
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
		internal.Echo("sealview %s", version)
		return
	}
	if plainFlag && screenFlag {
		internal.Fatal("The -p and -S flags contradict each other, pass at most one")
	}

	var index, id string
	switch flags.NArg() {
	case 0:
		internal.Fatal("Missing required INDEX argument")
	case 1:
		index = flags.Arg(0)
		prompted, err := internal.PromptSecret("ID")
		if err != nil {
			internal.Fatal("Failed to read ID: %v", err)
		}
		id = prompted
	case 2:
		index = flags.Arg(0)
		id = flags.Arg(1)
	default:
		internal.Fatal("Too many arguments, expected INDEX and optionally ID")
	}

	prof, err := profile.Load(configFlag)
	if err != nil {
		internal.Fatal("Failed to load profile: %v", err)
	}
	mode := prof.Render
	switch {
	case plainFlag:
		mode = profile.RenderPlain
	case screenFlag:
		mode = profile.RenderScreen
	}

	base := baseFlag
	if len(base) == 0 {
		base = prof.BaseURL
	}
	if len(base) == 0 {
		internal.Fatal("No base URL configured, pass -b or set base_url in a profile")
	}
	timeout, err := resolveTimeout(timeoutFlag, prof)
	if err != nil {
		internal.Fatal("%v", err)
	}

	client, err := fetch.New(base, fetch.WithTimeout(timeout))
	if err != nil {
		internal.Fatal("Invalid base URL: %v", err)
	}

	var opts []pipeline.Option
	if verboseFlag {
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, pipeline.WithLogger(log))
	}
	runner, err := pipeline.New(client, opts...)
	if err != nil {
		internal.Fatal("Failed to set up: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if checkFlag || prof.CheckParams {
		checkParams(ctx, client)
	}

	content, err := runner.Run(ctx, pipeline.Identity{Index: index, ID: id})
	if err != nil {
		fail(err)
	}

	switch {
	case mode == profile.RenderPlain:
		if err := render.Plain(os.Stdout, content); err != nil {
			internal.Fatal("Failed to write content: %v", err)
		}
	case mode == profile.RenderScreen, content.Kind == pipeline.KindMarkup:
		if err := render.Screen(locator.Resolve(index, id), content); err != nil {
			internal.Fatal("Viewer failed: %v", err)
		}
	default:
		if err := render.Plain(os.Stdout, content); err != nil {
			internal.Fatal("Failed to write content: %v", err)
		}
	}
}

func resolveTimeout(timeoutFlag string, prof *profile.Profile) (time.Duration, error) {
	if len(timeoutFlag) > 0 {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %w", timeoutFlag, err)
		}
		return timeout, nil
	}
	return prof.FetchTimeout(fetch.DefaultTimeout)
}

// checkParams compares the published parameter descriptor against this build.
// A missing descriptor is only noted, since publishing one is optional.
func checkParams(ctx context.Context, client *fetch.Client) {
	data, err := client.Fetch(ctx, sealbox.ParamsName)
	if err != nil {
		var status *fetch.StatusError
		if errors.As(err, &status) && status.StatusCode == 404 {
			internal.Echo("No parameter descriptor is published, skipping the check")
			return
		}
		internal.Fatal("Failed to fetch the parameter descriptor: %v", err)
	}
	params, err := sealbox.ReadParams(bytes.NewReader(data))
	if err != nil {
		internal.Fatal("Failed to read the parameter descriptor: %v", err)
	}
	if err := params.Check(); err != nil {
		internal.Fatal("This build cannot open blobs published there: %v", err)
	}
}

// fail translates pipeline errors into user-facing messages. Authentication
// failures stay deliberately vague: naming which identifier was wrong would
// hand an oracle to anyone probing published blobs.
func fail(err error) {
	var status *fetch.StatusError
	switch {
	case errors.As(err, &status) && status.StatusCode == 404:
		internal.Fatal("Nothing is published for this identity pair")
	case errors.Is(err, fetch.ErrFetch):
		internal.Fatal("Failed to fetch the blob: %v", err)
	case errors.Is(err, sealbox.ErrAuthentication):
		internal.Fatal("Could not decrypt the blob. Check that both identifiers are exactly as registered.")
	case errors.Is(err, sealbox.ErrMalformedBlob):
		internal.Fatal("The published blob is damaged or incomplete")
	case errors.Is(err, sealbox.ErrEncoding):
		internal.Fatal("The decrypted content is not readable text")
	default:
		internal.Fatal("Failed: %v", err)
	}
}
