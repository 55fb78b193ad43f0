package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	sealdropVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	for _, name := range []string{"sealview", "sealgen", "sealserve"} {
		app := NewAppBuild(name, "cmd/"+name, sealdropVersion)
		app.Build(func(gb *GoBuild) {
			gb.
				StripDebugSymbols().
				SetVariable("main", "version", sealdropVersion).
				Env("CGO_ENABLED", "0")
		})
		app.Variant("windows", "amd64")
		app.Variant("linux", "amd64")
		app.Variant("linux", "arm64")
		app.Variant("darwin", "amd64")
		app.Variant("darwin", "arm64")
		b.ImportApp(app)
	}

	b.Execute()
}
