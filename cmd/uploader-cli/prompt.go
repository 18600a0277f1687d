package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrInterrupted is returned when the user aborts a prompt.
var ErrInterrupted = errors.New("interrupted")

// Prompter asks the user for input.
type Prompter interface {
	PromptRequired(label string, masked bool) (string, error)
	SelectFromList(label string, items []string) (string, error)
}

// PromptUI is the terminal Prompter.
type PromptUI struct{}

func handlePromptError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrInterrupted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

func (PromptUI) PromptRequired(label string, masked bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("input is required")
			}
			return nil
		},
	}
	if masked {
		prompt.Mask = '*'
	}
	result, err := prompt.Run()
	if err = handlePromptError(err); err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

func (PromptUI) SelectFromList(label string, items []string) (string, error) {
	selectPrompt := promptui.Select{
		Label: label,
		Items: items,
	}
	_, result, err := selectPrompt.Run()
	if err = handlePromptError(err); err != nil {
		return "", err
	}
	return result, nil
}
