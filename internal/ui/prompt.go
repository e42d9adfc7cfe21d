package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	result := strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
	return result
}

// PromptForBaseURL prompts for the membership system base URL.
func PromptForBaseURL() (string, error) {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Adresse des Mitgliedersystems").
				Description("z.B. https://mitglieder.starship-factory.ch").
				Placeholder("https://...").
				Value(&input).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("die Adresse darf nicht leer sein")
					}
					u, err := url.Parse(s)
					if err != nil || u.Scheme == "" || u.Host == "" {
						return fmt.Errorf("keine gültige URL")
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(sanitizeInput(input)), nil
}

// PromptForSessionCookie prompts for the admin session cookie. The
// value is not echoed and not stored anywhere.
func PromptForSessionCookie() (string, error) {
	var cookie string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session-Cookie").
				Description("Wert des Login-Cookies, wird nicht gespeichert").
				EchoMode(huh.EchoModePassword).
				Value(&cookie),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(sanitizeInput(cookie)), nil
}
