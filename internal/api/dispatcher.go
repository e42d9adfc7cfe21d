package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxAgreementSize is the upload limit for scanned membership
// agreements, matching the server-side cap.
const MaxAgreementSize = 5 << 20

// ErrDeclined is returned when a gated action is dispatched without
// the operator confirming it. No request is sent in that case.
var ErrDeclined = errors.New("action declined by operator")

// ConfirmFunc asks the operator to confirm a destructive action. It
// must return true only on an explicit yes.
type ConfirmFunc func(prompt string) bool

// RejectWarning is shown before rejecting an application. Rejection is
// silent on the server side, so the operator has to have informed the
// applicant beforehand.
const RejectWarning = "Der Antragsteller wird hierdurch nicht von der Ablehnung informiert! Dies muss bereits im Voraus erfolgen!"

// GoodbyePrompt is shown before removing a member record.
const GoodbyePrompt = "Soll dieses Mitglied wirklich entfernt werden?"

// CancelQueuedPrompt is shown before cancelling a queued application.
const CancelQueuedPrompt = "Soll dieser Eintrag wirklich aus der Warteschlange entfernt werden?"

// Dispatcher issues the mutating admin calls. Destructive actions
// (reject, goodbye, cancel-queued) are gated on a confirmation
// capability; a dispatcher without one denies them outright, which
// keeps the gating testable without faking any UI.
type Dispatcher struct {
	client  *Client
	confirm ConfirmFunc
}

// NewDispatcher creates a dispatcher over the given client. Until
// WithConfirm is applied, every gated action fails with ErrDeclined.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// WithConfirm returns a copy of the dispatcher using f to confirm
// gated actions.
func (d *Dispatcher) WithConfirm(f ConfirmFunc) *Dispatcher {
	return &Dispatcher{client: d.client, confirm: f}
}

func (d *Dispatcher) confirmed(prompt string) bool {
	return d.confirm != nil && d.confirm(prompt)
}

func validKey(key string) error {
	if _, err := uuid.Parse(key); err != nil {
		return fmt.Errorf("invalid record key %q: %w", key, err)
	}
	return nil
}

// Accept approves a membership application, moving it into the
// creation queue.
func (d *Dispatcher) Accept(key, token string) error {
	if err := validKey(key); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("uuid", key)
	form.Set("csrf_token", token)

	if _, err := d.client.postForm("/admin/api/accept", form); err != nil {
		return fmt.Errorf("failed to accept applicant: %w", err)
	}
	return nil
}

// Reject turns down a membership application. The applicant is not
// notified by the server, so the call is gated on confirmation of
// RejectWarning.
func (d *Dispatcher) Reject(key, token string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !d.confirmed(RejectWarning) {
		return ErrDeclined
	}

	form := url.Values{}
	form.Set("uuid", key)
	form.Set("csrf_token", token)

	if _, err := d.client.postForm("/admin/api/reject", form); err != nil {
		return fmt.Errorf("failed to reject applicant: %w", err)
	}
	return nil
}

// CancelQueued drops an approved application from the creation queue.
func (d *Dispatcher) CancelQueued(key, token string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !d.confirmed(CancelQueuedPrompt) {
		return ErrDeclined
	}

	form := url.Values{}
	form.Set("uuid", key)
	form.Set("csrf_token", token)

	if _, err := d.client.postForm("/admin/api/cancel-queued", form); err != nil {
		return fmt.Errorf("failed to cancel queued entry: %w", err)
	}
	return nil
}

// Goodbye schedules a member for removal, recording the stated reason.
func (d *Dispatcher) Goodbye(id, token, reason string) error {
	if !d.confirmed(GoodbyePrompt) {
		return ErrDeclined
	}

	form := url.Values{}
	form.Set("id", id)
	form.Set("csrf_token", token)
	form.Set("reason", reason)

	if _, err := d.client.postForm("/admin/api/goodbye-member", form); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// EditText patches a single text field of a member record.
func (d *Dispatcher) EditText(email, field, value string) error {
	return d.editField("/admin/api/edittext", email, field, value)
}

// EditBool patches a single boolean field of a member record.
func (d *Dispatcher) EditBool(email, field string, value bool) error {
	return d.editField("/admin/api/editbool", email, field, strconv.FormatBool(value))
}

// EditLong patches a single integer field of a member record. The
// server only accepts this for payments_caught_up_to.
func (d *Dispatcher) EditLong(email, field string, value int64) error {
	return d.editField("/admin/api/editlong", email, field, strconv.FormatInt(value, 10))
}

func (d *Dispatcher) editField(path, email, field, value string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("field", field)
	form.Set("value", value)

	if _, err := d.client.postForm(path, form); err != nil {
		return fmt.Errorf("failed to edit %s of %s: %w", field, email, err)
	}
	return nil
}

// EditFee updates a member's fee amount and billing period in one call.
func (d *Dispatcher) EditFee(email string, fee uint64, yearly bool) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("fee", strconv.FormatUint(fee, 10))
	form.Set("fee_yearly", strconv.FormatBool(yearly))

	if _, err := d.client.postForm("/admin/api/editfee", form); err != nil {
		return fmt.Errorf("failed to edit fee of %s: %w", email, err)
	}
	return nil
}

// UploadAgreement attaches a scanned membership agreement to an
// application. The server answers uploads with 200 even on failure,
// carrying the problem in an error JSON field instead.
func (d *Dispatcher) UploadAgreement(key, token, filename string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if len(data) > MaxAgreementSize {
		return fmt.Errorf("agreement too large: %d bytes (limit %d)", len(data), MaxAgreementSize)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// The upload handler reads the file from part "0".
	part, err := w.CreateFormFile("0", filename)
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.WriteField("uuid", key); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.WriteField("csrf_token", token); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := d.client.newRequest("POST", "/admin/api/agreement-upload", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := d.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload agreement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("upload rejected: %s", result.Error)
	}
	return nil
}

// SubmitApplication posts a filled-in membership request form to the
// public signup endpoint. fields are already keyed the way the form
// handler expects ("mr[name]", "mr[email]", ...).
func (d *Dispatcher) SubmitApplication(fields url.Values) error {
	data, err := d.client.postForm("/", fields)
	if err != nil {
		return fmt.Errorf("failed to submit application: %w", err)
	}
	if strings.Contains(strings.ToLower(string(data)), "fehler") {
		return fmt.Errorf("application not accepted by server")
	}
	return nil
}
