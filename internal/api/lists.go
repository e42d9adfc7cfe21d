package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/starshipfactory/memberctl/internal/models"
)

// PageSize is the number of records the server returns per list page.
// A response shorter than this marks the final page.
const PageSize = 25

// MemberList is the members tab payload. The CSRF token authorizes
// goodbye-member and field-edit calls against the listed records.
type MemberList struct {
	Members   []models.Member `json:"members"`
	CSRFToken string          `json:"csrf_token"`
}

// ApplicantList is the applicants tab payload. Each mutating call has
// its own token.
type ApplicantList struct {
	Applicants           []models.MemberWithKey `json:"applicants"`
	ApprovalCSRFToken    string                 `json:"approval_csrf_token"`
	RejectionCSRFToken   string                 `json:"rejection_csrf_token"`
	AgreementUploadToken string                 `json:"agreement_upload_csrf_token"`
}

// QueueList is the payload of both the creation queue and the deletion
// queue. Only the queue tab's token authorizes cancel-queued.
type QueueList struct {
	Queued    []models.MemberWithKey `json:"queued"`
	CSRFToken string                 `json:"csrf_token"`
}

// FetchMembers retrieves one page of organization members starting at
// the given cursor (empty for the first page).
func (c *Client) FetchMembers(start string) (*MemberList, error) {
	params := url.Values{}
	params.Set("start", start)

	data, err := c.get("/admin/api/members", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	var list MemberList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode member list: %w", err)
	}
	return &list, nil
}

// FetchApplicants retrieves one page of pending membership requests.
// criterion narrows the page to applicants whose name starts with it.
func (c *Client) FetchApplicants(start, criterion string) (*ApplicantList, error) {
	params := url.Values{}
	params.Set("start", start)
	params.Set("criterion", criterion)

	data, err := c.get("/admin/api/applicants", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applicants: %w", err)
	}

	var list ApplicantList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode applicant list: %w", err)
	}
	return &list, nil
}

// FetchQueue retrieves one page of approved applications waiting to be
// turned into member records.
func (c *Client) FetchQueue(start string) (*QueueList, error) {
	return c.fetchQueueList("/admin/api/queue", start)
}

// FetchDequeue retrieves one page of departing members waiting for
// removal.
func (c *Client) FetchDequeue(start string) (*QueueList, error) {
	return c.fetchQueueList("/admin/api/dequeue", start)
}

func (c *Client) fetchQueueList(path, start string) (*QueueList, error) {
	params := url.Values{}
	params.Set("start", start)

	data, err := c.get(path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", strings.TrimPrefix(path, "/admin/api/"), err)
	}

	var list QueueList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode queue list: %w", err)
	}
	return &list, nil
}

// FetchTrash retrieves one page of former and rejected members. Unlike
// the other lists the response is a bare record array with no token;
// the trash tab offers no actions.
func (c *Client) FetchTrash(start string) ([]models.MemberWithKey, error) {
	params := url.Values{}
	params.Set("start", start)

	data, err := c.get("/admin/api/trash", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trash: %w", err)
	}

	var records []models.MemberWithKey
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode trash list: %w", err)
	}
	return records, nil
}

// MemberDetail retrieves the full record of a single member. The
// server strips the agreement PDF and the password hash before
// answering.
func (c *Client) MemberDetail(email string) (*models.MemberDetail, error) {
	params := url.Values{}
	params.Set("email", email)

	data, err := c.get("/admin/api/member", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", email, err)
	}

	var detail models.MemberDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode member detail: %w", err)
	}
	return &detail, nil
}

// CheckUsername asks the instance whether a username is still free.
// The endpoint answers with a bare boolean literal.
func (c *Client) CheckUsername(username string) (bool, error) {
	params := url.Values{}
	params.Set("username", username)

	data, err := c.get("/users.action", params)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	switch strings.TrimSpace(string(data)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected username check response: %q", string(data))
	}
}
