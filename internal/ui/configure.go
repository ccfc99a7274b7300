package ui

import (
	"github.com/AlecAivazis/survey/v2"
)

// PromptProvider asks the user to select a provider interactively
func PromptProvider() (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Select a provider:",
		Options: []string{"gemini", "zai"},
		Default: "gemini",
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// PromptAPIKey asks for the provider's API key without echoing it
func PromptAPIKey(providerName string) (string, error) {
	var key string
	prompt := &survey.Password{
		Message: "Enter your " + providerName + " API key:",
	}
	if err := survey.AskOne(prompt, &key, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return key, nil
}
