package main

import (
	"fmt"
	"os"

	"fbconsole/internal/di"
	"fbconsole/internal/structures"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yml", "path to the YAML config file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "echo logs to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "fbconsole: %s\n", err)
		os.Exit(1)
	}
}
