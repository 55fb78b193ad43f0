package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/sealdrop/cmd/internal"
	"github.com/saylorsolutions/sealdrop/cmd/sealgen/internal/publish"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		versionFlag bool
		inFlag      string
		outFlag     string
		paramsFlag  bool
		forceFlag   bool
	)
	flags := flag.NewFlagSet("sealgen", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the sealgen version.")
	flags.StringVarP(&inFlag, "in", "i", "", "Reads plaintext from this file instead of stdin.")
	flags.StringVarP(&outFlag, "out", "o", ".", "Writes the blob into this directory.")
	flags.BoolVarP(&paramsFlag, "params", "P", false, "Also writes the parameter descriptor next to the blob, so viewers can detect contract skew.")
	flags.BoolVarP(&forceFlag, "force", "f", false, "Overwrites an already published blob.")
	flags.Usage = func() {
		fmt.Printf(`
sealgen seals plaintext for an identity pair and writes the encrypted blob under its locator file name, ready to be served as a static file.
The file name is the uppercase hex SHA-256 digest of "INDEX|ID" with a ".sealed" extension, so a directory of blobs reveals nothing about the identities behind them.

USAGE:  sealgen [flags] INDEX [ID]

Note: If the ID argument is omitted, it will be prompted for without echo. Prompting needs a terminal, so combine it with the -i flag.

ARGS:
    INDEX is the public identifier the blob is published under.
    ID is the paired identifier, and may be omitted to keep it out of shell history.

FLAGS:
%s
SECURITY:
    The encryption key is derived from the identity pair itself, so anyone who can guess both values can open the blob!
Short or guessable identifiers make offline attacks practical for anyone who downloads blobs in bulk, since every guess can be tried locally against the authentication tag.
Treat this as protection against casual disclosure of a published directory, and size the identifiers to the sensitivity of what you seal.
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
		internal.Echo("sealgen %s", version)
		return
	}

	var index, id string
	switch flags.NArg() {
	case 0:
		internal.Fatal("Missing required INDEX argument")
	case 1:
		if len(inFlag) == 0 {
			internal.Fatal("Cannot prompt for ID while plaintext is read from stdin, pass ID as an argument or use the -i flag")
		}
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

	plaintext, err := readPlaintext(inFlag)
	if err != nil {
		internal.Fatal("Failed to read plaintext: %v", err)
	}

	drop, err := publish.Publish(index, id, plaintext,
		publish.OutputDir(outFlag),
		publish.Force(forceFlag),
		publish.WithParams(paramsFlag),
	)
	if err != nil {
		if errors.Is(err, publish.ErrExists) {
			internal.Fatal("%v, use -f to overwrite", err)
		}
		internal.Fatal("Failed to publish: %v", err)
	}
	fmt.Println(drop.Path)
}

func readPlaintext(path string) ([]byte, error) {
	if len(path) == 0 {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}
