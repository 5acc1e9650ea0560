package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abelbrown/storefront/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	initFile := fs.Bool("init", false, "Write the default config file")
	force := fs.Bool("force", false, "With -init, overwrite an existing file")
	fs.Parse(os.Args[1:])

	if *initFile {
		if err := initConfig(*force); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote %s\n", config.ConfigPath())
		return
	}

	cfg := loadConfig()
	fmt.Printf("# %s (with environment overrides)\n", config.ConfigPath())
	if err := printConfig(os.Stdout, cfg); err != nil {
		fail(err)
	}
}

// initConfig writes the defaults to the config file. An existing file is kept
// unless force is set.
func initConfig(force bool) error {
	if !force {
		path := config.ConfigPath()
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return config.DefaultConfig().Save()
}

// printConfig writes cfg as indented JSON.
func printConfig(w io.Writer, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
