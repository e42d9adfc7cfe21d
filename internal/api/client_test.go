package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testKey = "b4c6d8e0-1234-4abc-9def-001122334455"

func TestFetchMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/members" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("start"); got != "x@y.ch" {
			t.Errorf("start = %q, want x@y.ch", got)
		}
		if got := r.Header.Get("Cookie"); got != "session=abc" {
			t.Errorf("cookie = %q", got)
		}
		fmt.Fprint(w, `{"members": [{"name": "Jane Doe", "email": "jane@doe.ch", "fee": 250, "fee_yearly": true}], "csrf_token": "tok-1"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "session=abc", nil)
	list, err := client.FetchMembers("x@y.ch")
	if err != nil {
		t.Fatalf("FetchMembers failed: %v", err)
	}
	if len(list.Members) != 1 {
		t.Fatalf("got %d members, want 1", len(list.Members))
	}
	if list.Members[0].Email != "jane@doe.ch" {
		t.Errorf("email = %q", list.Members[0].Email)
	}
	if list.CSRFToken != "tok-1" {
		t.Errorf("csrf token = %q", list.CSRFToken)
	}
}

func TestFetchApplicants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("criterion"); got != "Mu" {
			t.Errorf("criterion = %q, want Mu", got)
		}
		if got := q.Get("start"); got != "" {
			t.Errorf("start = %q, want empty", got)
		}
		fmt.Fprint(w, `{
			"applicants": [{"key": "`+testKey+`", "name": "Max Muster", "email": "max@muster.ch", "fee": 50, "fee_yearly": true,
				"metadata": {"request_timestamp": 1735689600, "request_source_ip": "192.0.2.1"}}],
			"approval_csrf_token": "ap",
			"rejection_csrf_token": "re",
			"agreement_upload_csrf_token": "up"
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	list, err := client.FetchApplicants("", "Mu")
	if err != nil {
		t.Fatalf("FetchApplicants failed: %v", err)
	}
	if len(list.Applicants) != 1 {
		t.Fatalf("got %d applicants, want 1", len(list.Applicants))
	}
	if list.Applicants[0].Key != testKey {
		t.Errorf("key = %q", list.Applicants[0].Key)
	}
	if list.ApprovalCSRFToken != "ap" || list.RejectionCSRFToken != "re" || list.AgreementUploadToken != "up" {
		t.Errorf("tokens = %q %q %q", list.ApprovalCSRFToken, list.RejectionCSRFToken, list.AgreementUploadToken)
	}
	if list.Applicants[0].Metadata.SourceIPString() != "192.0.2.1" {
		t.Errorf("source IP = %q", list.Applicants[0].Metadata.SourceIPString())
	}
}

func TestFetchTrashBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"key": "k1", "name": "Gone Member", "email": "gone@old.ch", "fee": 20, "fee_yearly": false}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	records, err := client.FetchTrash("")
	if err != nil {
		t.Fatalf("FetchTrash failed: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Gone Member" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestFetchMembersServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	if _, err := client.FetchMembers(""); err == nil {
		t.Fatal("expected error on 500, got nil")
	}
}

func TestCheckUsername(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bool
		wantErr bool
	}{
		{"available", "true", true, false},
		{"taken", "false", false, false},
		{"garbage", "<html>", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("username"); got != "jdoe" {
					t.Errorf("username = %q", got)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, "", nil)
			got, err := client.CheckUsername("jdoe")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CheckUsername = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAcceptPostsForm(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostFormValue("uuid"); got != testKey {
			t.Errorf("uuid = %q", got)
		}
		if got := r.PostFormValue("csrf_token"); got != "ap" {
			t.Errorf("csrf_token = %q", got)
		}
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil))
	if err := d.Accept(testKey, "ap"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if gotPath != "/admin/api/accept" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestAcceptRejectsBadKey(t *testing.T) {
	d := NewDispatcher(NewClient("http://unused.invalid", "", nil))
	if err := d.Accept("not-a-uuid", "tok"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}

func TestRejectDeclinedSendsNothing(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil))

	// No confirmation capability at all.
	if err := d.Reject(testKey, "re"); err != ErrDeclined {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}

	// Capability present but the operator says no.
	d = d.WithConfirm(func(string) bool { return false })
	if err := d.Reject(testKey, "re"); err != ErrDeclined {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}

	if requests != 0 {
		t.Errorf("declined reject issued %d requests, want 0", requests)
	}
}

func TestRejectConfirmed(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/reject" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.PostFormValue("uuid"); got != testKey {
			t.Errorf("uuid = %q", got)
		}
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil)).WithConfirm(func(p string) bool {
		prompt = p
		return true
	})
	if err := d.Reject(testKey, "re"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if !strings.Contains(prompt, "nicht von der Ablehnung informiert") {
		t.Errorf("confirmation prompt %q lacks the notification warning", prompt)
	}
}

func TestGoodbyePostsReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/goodbye-member" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.PostFormValue("id"); got != "jane@doe.ch" {
			t.Errorf("id = %q", got)
		}
		if got := r.PostFormValue("reason"); got != "Austritt per Brief" {
			t.Errorf("reason = %q", got)
		}
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil)).WithConfirm(func(string) bool { return true })
	if err := d.Goodbye("jane@doe.ch", "tok", "Austritt per Brief"); err != nil {
		t.Fatalf("Goodbye failed: %v", err)
	}
}

func TestEditFieldCalls(t *testing.T) {
	tests := []struct {
		name     string
		dispatch func(d *Dispatcher) error
		wantPath string
		wantForm map[string]string
	}{
		{
			name:     "edittext",
			dispatch: func(d *Dispatcher) error { return d.EditText("j@d.ch", "street", "Neue Gasse 1") },
			wantPath: "/admin/api/edittext",
			wantForm: map[string]string{"email": "j@d.ch", "field": "street", "value": "Neue Gasse 1"},
		},
		{
			name:     "editbool",
			dispatch: func(d *Dispatcher) error { return d.EditBool("j@d.ch", "has_key", true) },
			wantPath: "/admin/api/editbool",
			wantForm: map[string]string{"email": "j@d.ch", "field": "has_key", "value": "true"},
		},
		{
			name:     "editlong",
			dispatch: func(d *Dispatcher) error { return d.EditLong("j@d.ch", "payments_caught_up_to", 1735689600) },
			wantPath: "/admin/api/editlong",
			wantForm: map[string]string{"email": "j@d.ch", "field": "payments_caught_up_to", "value": "1735689600"},
		},
		{
			name:     "editfee",
			dispatch: func(d *Dispatcher) error { return d.EditFee("j@d.ch", 20, false) },
			wantPath: "/admin/api/editfee",
			wantForm: map[string]string{"email": "j@d.ch", "fee": "20", "fee_yearly": "false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath {
					t.Errorf("path = %q, want %q", r.URL.Path, tt.wantPath)
				}
				for k, v := range tt.wantForm {
					if got := r.PostFormValue(k); got != v {
						t.Errorf("%s = %q, want %q", k, got, v)
					}
				}
				fmt.Fprint(w, "{}")
			}))
			defer server.Close()

			d := NewDispatcher(NewClient(server.URL, "", nil))
			if err := tt.dispatch(d); err != nil {
				t.Fatalf("dispatch failed: %v", err)
			}
		})
	}
}

func TestUploadAgreement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(MaxAgreementSize); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		file, header, err := r.FormFile("0")
		if err != nil {
			t.Fatalf("file part 0 missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "vertrag.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		if got := r.FormValue("uuid"); got != testKey {
			t.Errorf("uuid = %q", got)
		}
		if got := r.FormValue("csrf_token"); got != "up" {
			t.Errorf("csrf_token = %q", got)
		}
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil))
	if err := d.UploadAgreement(testKey, "up", "vertrag.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("UploadAgreement failed: %v", err)
	}
}

func TestUploadAgreementServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Uploads fail with 200 and an error field.
		fmt.Fprint(w, `{"error": "Datei zu gross"}`)
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil))
	err := d.UploadAgreement(testKey, "up", "vertrag.pdf", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "Datei zu gross") {
		t.Fatalf("err = %v, want server error text", err)
	}
}

func TestUploadAgreementTooLarge(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	d := NewDispatcher(NewClient(server.URL, "", nil))
	err := d.UploadAgreement(testKey, "up", "big.pdf", make([]byte, MaxAgreementSize+1))
	if err == nil {
		t.Fatal("expected size error")
	}
	if requests != 0 {
		t.Errorf("oversize upload issued %d requests, want 0", requests)
	}
}
