// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"
)

// RunInitForm runs the interactive form for the init command.
// It fills the provided pointers with user input.
func RunInitForm(templatesDir, labelSize, sheet *string, imposition *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template directory").
				Placeholder("templates").
				Validate(requiredValidator("template directory")).
				Value(templatesDir),
			huh.NewInput().
				Title("Label size").
				Description("Width x height in millimetres, or a paper name like a5").
				Placeholder("80x80").
				Validate(sizeValidator("label size")).
				Value(labelSize),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Impose labels onto print sheets?").
				Affirmative("Yes").
				Negative("No").
				Value(imposition),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sheet size").
				Options(
					huh.NewOption("A4 (210x297)", "a4"),
					huh.NewOption("A4 landscape", "a4-landscape"),
					huh.NewOption("A3 (297x420)", "a3"),
					huh.NewOption("Letter", "letter"),
					huh.NewOption("Legal", "legal"),
				).
				Value(sheet),
		).WithHideFunc(func() bool { return !*imposition }),
	).WithTheme(Theme()).Run()
}
