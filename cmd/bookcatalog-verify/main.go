/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/constants"
	"github.com/unikorn-cloud/bookcatalog/pkg/lifecycle"
	"github.com/unikorn-cloud/bookcatalog/pkg/logging"
)

var (
	// errVerificationFailed is returned when any smoke scenario fails.
	errVerificationFailed = errors.New("verification failed")
)

const redacted = "<redacted>"

// setup resolves the configuration and attaches a logger to the context.
func setup(ctx context.Context, options *config.Options) (context.Context, *config.Config, logr.Logger, error) {
	c, err := config.Load(options)
	if err != nil {
		return ctx, nil, logr.Discard(), err
	}

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		return ctx, nil, logr.Discard(), err
	}

	return logging.NewContext(ctx, logger), c, logger, nil
}

func newRunCommand(options *config.Options) *cobra.Command {
	var (
		metricsFile string
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the smoke verification against the configured service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, c, logger, err := setup(cmd.Context(), options)
			if err != nil {
				return err
			}

			logger.Info("verification starting", "version", constants.VersionString(), "baseURL", c.BaseURL)

			v := newVerifier(c, logger)

			if err := v.waitForService(ctx); err != nil {
				return fmt.Errorf("service at %s is not healthy: %w", c.BaseURL, err)
			}

			var consoleOptions []lifecycle.ConsoleOption
			if noColor {
				consoleOptions = append(consoleOptions, lifecycle.WithoutColor())
			}

			recorder := lifecycle.NewRecorder()
			listener := lifecycle.Multi{recorder, lifecycle.NewConsole(cmd.OutOrStdout(), recorder, consoleOptions...)}

			const suite = "Book Catalog Smoke"

			listener.SuiteStarted(suite)
			runScenarios(ctx, v, smokeScenarios(), listener)
			listener.SuiteFinished(suite)

			if metricsFile != "" {
				if err := recorder.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}

			if summary := recorder.Summary(); !summary.OK() {
				return fmt.Errorf("%w: %d of %d scenarios failed", errVerificationFailed, summary.Failed, summary.Total())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write results to this file in Prometheus text format.")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output.")

	return cmd
}

// readPassword prompts on the terminal when no password was given.
func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	password, err := term.ReadPassword(fd)

	fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(password), nil
}

func newLoginCommand(options *config.Options) *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if prompt {
				password, err := readPassword(cmd)
				if err != nil {
					return err
				}

				if password != "" {
					if options.Overrides == nil {
						options.Overrides = map[string]any{}
					}

					options.Overrides[config.KeyPassword] = password
				}
			}

			ctx, c, logger, err := setup(cmd.Context(), options)
			if err != nil {
				return err
			}

			token, err := newVerifier(c, logger).auth.LoginWithDefaultCredentials(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token.Value)

			return nil
		},
	}

	cmd.Flags().BoolVar(&prompt, "prompt", false, "Prompt for the password on the terminal.")

	return cmd
}

func newConfigCommand(options *config.Options) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load(options)
			if err != nil {
				return err
			}

			snapshot := *c

			if !showSecrets {
				snapshot.Password = redacted
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			defer encoder.Close()

			return encoder.Encode(&snapshot)
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the password in clear.")

	return cmd
}

func newRootCommand() *cobra.Command {
	var options config.Options

	cmd := &cobra.Command{
		Use:           constants.Application,
		Short:         "Verify a book catalog service against its contract",
		Version:       constants.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	options.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newRunCommand(&options),
		newLoginCommand(&options),
		newConfigCommand(&options),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Println(err)

		stop()
		os.Exit(1)
	}
}
