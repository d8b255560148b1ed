package main

import (
	"runtime/debug"

	"github.com/shopmonkeyus/product-type-generator/cmd"
)

var version = "dev"

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	cmd.Version = version
	cmd.Execute()
}
