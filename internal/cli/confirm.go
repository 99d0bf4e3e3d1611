package cli

import "github.com/charmbracelet/huh"

// Confirm asks a yes/no question on the terminal. The default answer is no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// PromptSecret reads a value without echoing it.
func PromptSecret(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	if err != nil {
		return "", err
	}
	return value, nil
}
