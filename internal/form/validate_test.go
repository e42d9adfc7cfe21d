package form

import "testing"

type fakeChecker struct {
	free bool
	err  error
}

func (f *fakeChecker) CheckUsername(string) (bool, error) {
	return f.free, f.err
}

func completeRequest() *Request {
	return &Request{
		Name:     "Max Muster",
		Address:  "Musterstrasse 1",
		City:     "Basel",
		Zip:      "4056",
		Country:  "Schweiz",
		Email:    "max@muster.ch",
		Statutes: true,
		Rules:    true,
		IPay:     true,
		Adult:    true,
		FlatFee:  true,
	}
}

func TestValidateComplete(t *testing.T) {
	errs := Validate(completeRequest(), nil)
	if len(errs) != 0 {
		t.Errorf("complete request produced errors: %v", errs)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		field   string
		message string
	}{
		{"name", func(r *Request) { r.Name = "" }, "name", "Ein Name ist erforderlich"},
		{"address", func(r *Request) { r.Address = "" }, "address", "Eine Adresse ist erforderlich"},
		{"city", func(r *Request) { r.City = "" }, "city", "Ein Wohnort ist erforderlich"},
		{"zip", func(r *Request) { r.Zip = "" }, "zip", "Eine Postleitzahl ist erforderlich"},
		{"country", func(r *Request) { r.Country = "" }, "country", "Ein Wohnland ist erforderlich"},
		{"email missing", func(r *Request) { r.Email = "" }, "email", "Muss angegeben werden"},
		{"email format", func(r *Request) { r.Email = "not an email" }, "email", "Mailadresse sollte im Format a@b.ch sein"},
		{"email bogus tld", func(r *Request) { r.Email = "a@b.invalidtld" }, "email", "Mailadresse sollte im Format a@b.ch sein"},
		{"phone format", func(r *Request) { r.Phone = "call me" }, "telephone", "Telephonnummer sollte im Format +41 79 123 45 67 sein"},
		{"statutes", func(r *Request) { r.Statutes = false }, "statutes", "Statuten müssen akzeptiert werden"},
		{"rules", func(r *Request) { r.Rules = false }, "rules", "Reglement muss akzeptiert werden"},
		{"ipay", func(r *Request) { r.IPay = false }, "ipay", "Zahlungsbereitschaft ist notwendig"},
		{"gt18", func(r *Request) { r.Adult = false }, "gt18", "Man muss mindestens 18 Jahre sein, um uns beizutreten"},
		{"password mismatch", func(r *Request) { r.Password = "secret1"; r.PasswordConfirm = "secret2" }, "password", "Passworte stimmen nicht überein"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRequest()
			tt.mutate(r)
			errs := Validate(r, nil)
			if got := errs[tt.field]; got != tt.message {
				t.Errorf("errs[%q] = %q, want %q", tt.field, got, tt.message)
			}
		})
	}
}

func TestValidateFeeRule(t *testing.T) {
	tests := []struct {
		name      string
		flat      bool
		custom    string
		reduction bool
		wantErr   bool
	}{
		{"flat fee", true, "", false, false},
		{"custom at threshold", false, "50", false, false},
		{"custom above", false, "100", false, false},
		{"custom below without reduction", false, "20", false, true},
		{"custom below with reduction", false, "20", true, false},
		{"custom missing", false, "", false, true},
		{"custom not a number", false, "fünfzig", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRequest()
			r.FlatFee = tt.flat
			r.CustomFee = tt.custom
			r.ReductionRequested = tt.reduction
			errs := Validate(r, nil)
			if _, got := errs["customFee"]; got != tt.wantErr {
				t.Errorf("customFee error = %v (%q), want error %v", got, errs["customFee"], tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	r := completeRequest()
	r.Username = "x"
	errs := Validate(r, nil)
	if errs["username"] == "" {
		t.Error("one-character username passed")
	}

	r.Username = "jdoe"
	errs = Validate(r, &fakeChecker{free: false})
	if errs["username"] != "Dieser Benutzername ist bereits vergeben" {
		t.Errorf("taken username: errs = %v", errs)
	}

	errs = Validate(r, &fakeChecker{free: true})
	if errs["username"] != "" {
		t.Errorf("free username flagged: %v", errs)
	}
}

func TestFee(t *testing.T) {
	r := completeRequest()
	if got := r.Fee(); got != 50 {
		t.Errorf("flat fee = %d, want 50", got)
	}
	r.FlatFee = false
	r.CustomFee = "120"
	if got := r.Fee(); got != 120 {
		t.Errorf("custom fee = %d, want 120", got)
	}
}

func TestValues(t *testing.T) {
	r := completeRequest()
	r.Phone = "+41 79 123 45 67"
	v := r.Values()

	if got := v.Get("mr[name]"); got != "Max Muster" {
		t.Errorf("mr[name] = %q", got)
	}
	if got := v.Get("mr[fee]"); got != "SFr. 50.--" {
		t.Errorf("mr[fee] = %q", got)
	}
	if got := v.Get("mr[statutes]"); got != "accepted" {
		t.Errorf("mr[statutes] = %q", got)
	}
	if got := v.Get("mr[gt18]"); got != "yes" {
		t.Errorf("mr[gt18] = %q", got)
	}

	r.FlatFee = false
	r.CustomFee = "20"
	r.ReductionRequested = true
	v = r.Values()
	if got := v.Get("mr[fee]"); got != "custom" {
		t.Errorf("mr[fee] = %q", got)
	}
	if got := v.Get("mr[customFee]"); got != "20" {
		t.Errorf("mr[customFee] = %q", got)
	}
	if got := v.Get("mr[reduction]"); got != "requested" {
		t.Errorf("mr[reduction] = %q", got)
	}
}
