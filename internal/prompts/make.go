// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

// RunMakeForm prompts for the source and destination of the make command.
// Only the empty values are asked for.
func RunMakeForm(source, destination *string) error {
	var fields []huh.Field
	if *source == "" {
		fields = append(fields, huh.NewInput().
			Title("Source file").
			Prompt(": ").
			Inline(true).
			Placeholder("labels.csv").
			Value(source).
			Validate(existingFileValidator))
	}
	if *destination == "" {
		fields = append(fields, huh.NewInput().
			Title("Destination PDF").
			Prompt(": ").
			Inline(true).
			Placeholder("labels.pdf").
			Value(destination).
			Validate(requiredValidator("destination")))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(Theme()).Run()
}

func existingFileValidator(s string) error {
	if s == "" {
		return errors.New("source is required")
	}
	info, err := os.Stat(s)
	if err != nil {
		return errors.New("file doesn't exist")
	}
	if info.IsDir() {
		return errors.New("source is a directory")
	}
	return nil
}
