package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/starshipfactory/memberctl/internal/api"
	"github.com/starshipfactory/memberctl/internal/form"
)

// fieldOrder fixes the order in which validation messages are shown,
// mirroring the order of the form itself.
var fieldOrder = []struct{ key, label string }{
	{"name", "Name"},
	{"address", "Adresse"},
	{"city", "Wohnort"},
	{"zip", "Postleitzahl"},
	{"country", "Land"},
	{"email", "E-Mail"},
	{"telephone", "Telefon"},
	{"username", "Benutzername"},
	{"password", "Passwort"},
	{"customFee", "Mitgliedsbeitrag"},
	{"statutes", "Statuten"},
	{"rules", "Reglement"},
	{"ipay", "Zahlungsbereitschaft"},
	{"gt18", "Volljährigkeit"},
}

// RunApplicationForm walks through the membership request form,
// validates it and submits it to the membership system.
func RunApplicationForm(client *api.Client) error {
	var r form.Request
	dispatcher := api.NewDispatcher(client)

	for {
		f := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Name").
					Placeholder("Vor- und Nachname").
					Value(&r.Name),
				huh.NewInput().
					Title("Adresse").
					Placeholder("Strasse und Hausnummer").
					Value(&r.Address),
				huh.NewInput().
					Title("Postleitzahl").
					Value(&r.Zip),
				huh.NewInput().
					Title("Wohnort").
					Value(&r.City),
				huh.NewInput().
					Title("Land").
					Value(&r.Country),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("E-Mail").
					Placeholder("a@b.ch").
					Value(&r.Email),
				huh.NewInput().
					Title("Telefon").
					Placeholder("+41 79 123 45 67").
					Value(&r.Phone),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Gewünschter Benutzername").
					Description("Optional, mindestens 2 Zeichen").
					Value(&r.Username),
				huh.NewInput().
					Title("Passwort").
					EchoMode(huh.EchoModePassword).
					Value(&r.Password),
				huh.NewInput().
					Title("Passwort wiederholen").
					EchoMode(huh.EchoModePassword).
					Value(&r.PasswordConfirm),
			),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Regulärer Mitgliedsbeitrag (SFr. 50.-- pro Jahr)?").
					Affirmative("Ja").
					Negative("Eigener Betrag").
					Value(&r.FlatFee),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Eigener Jahresbeitrag in CHF").
					Value(&r.CustomFee),
				huh.NewConfirm().
					Title("Ermässigung beantragen?").
					Affirmative("Ja").
					Negative("Nein").
					Value(&r.ReductionRequested),
			).WithHideFunc(func() bool { return r.FlatFee }),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Ich akzeptiere die Statuten").
					Affirmative("Ja").
					Negative("Nein").
					Value(&r.Statutes),
				huh.NewConfirm().
					Title("Ich akzeptiere das Reglement").
					Affirmative("Ja").
					Negative("Nein").
					Value(&r.Rules),
				huh.NewConfirm().
					Title("Ich bin bereit, den Mitgliedsbeitrag zu bezahlen").
					Affirmative("Ja").
					Negative("Nein").
					Value(&r.IPay),
				huh.NewConfirm().
					Title("Ich bin mindestens 18 Jahre alt").
					Affirmative("Ja").
					Negative("Nein").
					Value(&r.Adult),
				huh.NewText().
					Title("Bemerkungen").
					Value(&r.Comments),
			),
		).WithTheme(NewAppTheme())

		if err := f.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return err
			}
			return fmt.Errorf("form error: %w", err)
		}

		errs := form.Validate(&r, client)
		if len(errs) == 0 {
			break
		}

		fmt.Println(RenderError("Der Antrag ist noch nicht vollständig:"))
		for _, field := range fieldOrder {
			if msg, ok := errs[field.key]; ok {
				fmt.Printf("  %s %s\n", RenderAccent(field.label+":"), msg)
			}
		}
		fmt.Println()
	}

	fmt.Println(r.Summary())

	var send bool
	confirm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Antrag so abschicken?").
				Affirmative("Abschicken").
				Negative("Abbrechen").
				Value(&send),
		),
	).WithTheme(NewAppTheme())
	if err := confirm.Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	if !send {
		fmt.Println(RenderDim("Antrag verworfen."))
		return nil
	}

	var submitErr error
	err := spinner.New().
		Title("Antrag wird übermittelt...").
		Action(func() {
			submitErr = dispatcher.SubmitApplication(r.Values())
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	if submitErr != nil {
		return fmt.Errorf("failed to submit application: %w", submitErr)
	}

	fmt.Println(RenderTitle("Vielen Dank! Der Antrag wurde übermittelt."))
	return nil
}
