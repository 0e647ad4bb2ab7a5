package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
	"github.com/cms-sw/cmsdist-installer/internal/terminal"
)

var (
	confirmFunc = confirm
	runFormFunc = func(form *huh.Form) error { return form.Run() }
)

// confirm asks a yes/no question on stderr. Aborting the form counts as "no".
func confirm(title string) (bool, error) {
	if !terminal.IsInteractive() {
		return false, errors.New(messages.ConfirmRequiresTerminal)
	}
	value := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(&value),
	))
	form.WithProgramOptions(tea.WithOutput(os.Stderr))
	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return value, nil
}
