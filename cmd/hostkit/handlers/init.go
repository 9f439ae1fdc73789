package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/hostkit/internal/config"
	"github.com/imamik/hostkit/internal/config/wizard"
)

// errInitAborted is returned when the user keeps an existing file.
var errInitAborted = errors.New("init aborted: existing file kept")

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive questions.
	runWizard = wizard.RunWizard

	// writeOptions writes the options to a file.
	writeOptions = wizard.WriteOptions
)

// Init runs the options wizard and writes a deploy options file.
func Init(ctx context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			return errInitAborted
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	opts := wizard.BuildOptions(result)
	if err := writeOptions(opts, outputPath); err != nil {
		return fmt.Errorf("failed to write options: %w", err)
	}

	printInitSuccess(outputPath, opts)
	return nil
}

func printWelcome() {
	fmt.Fprintln(output)
	fmt.Fprintln(output, "hostkit - Django deployments over SSH")
	fmt.Fprintln(output, "=====================================")
	fmt.Fprintln(output)
	fmt.Fprintln(output, "This wizard writes the options for 'hostkit deploy'.")
	fmt.Fprintln(output)
}

func printInitSuccess(outputPath string, opts config.Options) {
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Options saved!")
	fmt.Fprintln(output)
	fmt.Fprintf(output, "  File:    %s\n", outputPath)
	fmt.Fprintf(output, "  Project: %s\n", opts.String("project_name"))
	fmt.Fprintf(output, "  Server:  %s\n", opts.String("nginx_server_name"))
	fmt.Fprintln(output)

	fmt.Fprintln(output, "Secrets are not written to the options file. Provide them with")
	fmt.Fprintln(output, "an env file or --set:")
	fmt.Fprintln(output)
	for _, key := range wizard.SecretKeys {
		fmt.Fprintf(output, "  %s=...\n", key)
	}
	fmt.Fprintln(output)

	fmt.Fprintln(output, "Next Steps")
	fmt.Fprintln(output, "----------")
	fmt.Fprintf(output, "  hostkit deploy --host <server> -o %s --env-file .env\n", outputPath)
	fmt.Fprintln(output, "  hostkit check --host <server>")
	fmt.Fprintln(output)
}
