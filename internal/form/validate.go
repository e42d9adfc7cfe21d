// Package form validates membership requests before submission. The
// checks mirror what the signup backend enforces; they exist to give
// applicants immediate feedback, the server always re-validates.
package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9-_\.]+@[A-Za-z0-9-_\.]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 -\.]+$`)
)

// FlatFee is the regular yearly membership fee in CHF. Custom fees
// below it require a requested reduction.
const FlatFee = 50

// Request holds one filled-in membership request form.
type Request struct {
	Name    string
	Address string
	City    string
	Zip     string
	Country string
	Email   string
	Phone   string

	Username        string
	Password        string
	PasswordConfirm string

	Statutes bool // statutes accepted
	Rules    bool // house rules accepted
	IPay     bool // willingness to pay declared
	Adult    bool // 18 or older

	FlatFee            bool   // regular fee chosen instead of a custom amount
	CustomFee          string // raw custom amount, only read when FlatFee is false
	ReductionRequested bool

	Comments string
}

// UsernameChecker reports whether a username is still available. The
// API client satisfies this; tests substitute a fake.
type UsernameChecker interface {
	CheckUsername(username string) (bool, error)
}

// Validate checks the request and returns per-field error messages,
// keyed by field name. An empty map means the request may be
// submitted. checker may be nil to skip the remote username check.
func Validate(r *Request, checker UsernameChecker) map[string]string {
	errs := make(map[string]string)

	if r.Name == "" {
		errs["name"] = "Ein Name ist erforderlich"
	}
	if r.Address == "" {
		errs["address"] = "Eine Adresse ist erforderlich"
	}
	if r.City == "" {
		errs["city"] = "Ein Wohnort ist erforderlich"
	}
	if r.Zip == "" {
		errs["zip"] = "Eine Postleitzahl ist erforderlich"
	}
	if r.Country == "" {
		errs["country"] = "Ein Wohnland ist erforderlich"
	}

	if r.Email == "" {
		errs["email"] = "Muss angegeben werden"
	} else if !validEmail(r.Email) {
		errs["email"] = "Mailadresse sollte im Format a@b.ch sein"
	}

	if r.Phone != "" && !phoneRe.MatchString(r.Phone) {
		errs["telephone"] = "Telephonnummer sollte im Format +41 79 123 45 67 sein"
	}

	if r.Username != "" {
		if len(r.Username) < 2 {
			errs["username"] = "Der Benutzername muss mindestens 2 Zeichen lang sein"
		} else if checker != nil {
			free, err := checker.CheckUsername(r.Username)
			if err == nil && !free {
				errs["username"] = "Dieser Benutzername ist bereits vergeben"
			}
			// A failing check never blocks submission.
		}
	}

	if r.Password != "" && len(r.Password) < 5 {
		errs["password"] = "Das Passwort muss mindestens 5 Zeichen lang sein"
	} else if r.Password != r.PasswordConfirm {
		errs["password"] = "Passworte stimmen nicht überein"
	}

	if !r.Statutes {
		errs["statutes"] = "Statuten müssen akzeptiert werden"
	}
	if !r.Rules {
		errs["rules"] = "Reglement muss akzeptiert werden"
	}
	if !r.IPay {
		errs["ipay"] = "Zahlungsbereitschaft ist notwendig"
	}
	if !r.Adult {
		errs["gt18"] = "Man muss mindestens 18 Jahre sein, um uns beizutreten"
	}

	if !r.FlatFee {
		validateCustomFee(r, errs)
	}

	return errs
}

func validateCustomFee(r *Request, errs map[string]string) {
	if r.CustomFee == "" {
		errs["customFee"] = "Die Angabe eines Mitgliedsbeitrages ist notwendig"
		return
	}
	fee, err := strconv.ParseFloat(r.CustomFee, 64)
	if err != nil {
		if strings.Contains(err.Error(), "out of range") {
			errs["customFee"] = "Der Betrag ist irgendwie etwas gross/klein, oder?"
		} else {
			errs["customFee"] = "Der Mitgliedsbeitrag kann nicht als Zahl identifiziert werden"
		}
		return
	}
	if fee < FlatFee && !r.ReductionRequested {
		errs["customFee"] = "Für einen Betrag unter 50 CHF muss eine Ermässigung beantragt werden"
	}
}

// validEmail applies the backend's format check plus a sanity check
// that the domain carries a known public suffix, catching typos like
// "a@b.chh" that the plain regexp accepts.
func validEmail(email string) bool {
	if !emailRe.MatchString(email) {
		return false
	}
	domain := email[strings.LastIndexByte(email, '@')+1:]
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(domain))
	return icann && suffix != domain
}

// Fee returns the effective fee amount in CHF for a request that
// passed validation.
func (r *Request) Fee() uint64 {
	if r.FlatFee {
		return FlatFee
	}
	fee, _ := strconv.ParseFloat(r.CustomFee, 64)
	return uint64(fee)
}

// Values encodes the request the way the signup form handler expects
// it, keyed as "mr[field]".
func (r *Request) Values() url.Values {
	v := url.Values{}
	v.Set("mr[name]", r.Name)
	v.Set("mr[address]", r.Address)
	v.Set("mr[city]", r.City)
	v.Set("mr[zip]", r.Zip)
	v.Set("mr[country]", r.Country)
	v.Set("mr[email]", r.Email)
	if r.Phone != "" {
		v.Set("mr[telephone]", r.Phone)
	}
	if r.Username != "" {
		v.Set("mr[username]", r.Username)
	}
	if r.Password != "" {
		v.Set("mr[password]", r.Password)
		v.Set("mr[passwordConfirm]", r.PasswordConfirm)
	}
	if r.Statutes {
		v.Set("mr[statutes]", "accepted")
	}
	if r.Rules {
		v.Set("mr[rules]", "accepted")
	}
	if r.IPay {
		v.Set("mr[ipay]", "accepted")
	}
	if r.Adult {
		v.Set("mr[gt18]", "yes")
	}
	if r.FlatFee {
		v.Set("mr[fee]", "SFr. 50.--")
	} else {
		v.Set("mr[fee]", "custom")
		v.Set("mr[customFee]", r.CustomFee)
		if r.ReductionRequested {
			v.Set("mr[reduction]", "requested")
		}
	}
	if r.Comments != "" {
		v.Set("mr[comments]", r.Comments)
	}
	return v
}

// Summary renders a one-line description of the request for logging.
func (r *Request) Summary() string {
	return fmt.Sprintf("%s <%s>, %d CHF", r.Name, r.Email, r.Fee())
}
