// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/cli"
	"github.com/runoshun/todo/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

// Environment variables that override configuration.
const (
	envBackend = "TODO_BACKEND"
	envDataDir = "TODO_DATA_DIR"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	ctx := context.Background()
	opts := optionsFromEnv(os.Getenv)

	container, err := app.New(ctx, opts)
	if err != nil {
		// Config commands still work when storage cannot be opened
		container, err = runWithoutStorage(opts, err)
		if err != nil {
			return err
		}
	}
	defer func() {
		if cerr := container.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}

// runWithoutStorage builds a config-only container that remembers storageErr.
func runWithoutStorage(opts app.Options, storageErr error) (*app.Container, error) {
	container, err := app.NewConfigOnly(opts)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize: %w", storageErr), err)
	}
	container.StorageErr = storageErr
	container.Logger.Warn("storage unavailable, only config commands will work", "error", storageErr)
	return container, nil
}

// optionsFromEnv reads container overrides from the environment.
func optionsFromEnv(getenv func(string) string) app.Options {
	return app.Options{
		DataDir: getenv(envDataDir),
		Backend: domain.Backend(getenv(envBackend)),
	}
}
