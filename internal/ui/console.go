package ui

// console.go is the admin console: five tabbed record lists over the
// membersys admin API, with per-row actions, modal field editors and
// forward-only pagination.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/starshipfactory/memberctl/internal/api"
	"github.com/starshipfactory/memberctl/internal/db"
	"github.com/starshipfactory/memberctl/internal/export"
	"github.com/starshipfactory/memberctl/internal/models"
)

type tabID int

const (
	tabMembers tabID = iota
	tabApplicants
	tabQueue
	tabDequeue
	tabTrash
	tabCount
)

var tabNames = [tabCount]string{
	"Mitglieder",
	"Anträge",
	"Warteschlange",
	"Löschliste",
	"Papierkorb",
}

type consoleMode int

const (
	modeTable consoleMode = iota
	modeConfirm
	modeEdit
	modeUpload
	modeCriterion
	modeDetail
	modeAudit
)

type editKind int

const (
	editTexts editKind = iota // one or more edittext fields, one acknowledgment
	editFee
	editPayDate
	editReason // goodbye reason, feeds the goodbye call
)

// editField is one staged input of an edit modal, holding the original
// value so unchanged fields are skipped on submit.
type editField struct {
	label    string
	field    string
	original string
	input    textinput.Model
}

type editState struct {
	title  string
	kind   editKind
	email  string // member identity for edit calls, or goodbye target
	rowID  string
	fields []editField
	focus  int
	errMsg string
	busy   bool
}

type uploadState struct {
	key    string
	name   string
	input  textinput.Model
	errMsg string
	busy   bool
}

// Messages

type listLoadedMsg struct {
	tab  tabID
	seq  uint64
	page Page

	// raw member records behind the members page, kept for modal prefill
	members []models.Member

	memberToken    string
	approvalToken  string
	rejectionToken string
	uploadToken    string
	queueToken     string

	// local snapshot write failure; the fetched page itself is fine
	snapshotErr error

	err error
}

type mutationDoneMsg struct {
	action string
	tab    tabID
	rowID  string
	target string
	detail string
	// reload the members list instead of a local row update
	reloadMembers bool
	err           error
}

type uploadDoneMsg struct {
	key string
	err error
}

type detailLoadedMsg struct {
	detail *models.MemberDetail
	err    error
}

type auditLoadedMsg struct {
	entries []db.AuditEntry
	err     error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// Console is the tabbed admin console model.
type Console struct {
	PageState

	client     *api.Client
	dispatcher *api.Dispatcher
	store      *db.DB // may be nil, then snapshots and audit are off
	logger     *log.Logger

	activeTab tabID
	views     [tabCount]*CollectionView
	tables    [tabCount]table.Model
	criterion string
	// records behind the rendered members page, for modal prefill
	members []models.Member

	memberToken    string
	approvalToken  string
	rejectionToken string
	uploadToken    string
	queueToken     string

	mode          consoleMode
	confirmPrompt string
	confirmCmd    tea.Cmd
	edit          editState
	upload        uploadState
	criterionIn   textinput.Model
	detail        *models.MemberDetail
	auditTable    table.Model
}

// NewConsole creates the admin console. store may be nil.
func NewConsole(client *api.Client, store *db.DB, logger *log.Logger) Console {
	layout := DefaultLayout()

	c := Console{
		PageState:  NewPageState(layout),
		client:     client,
		dispatcher: api.NewDispatcher(client),
		store:      store,
		logger:     logger,
	}

	for i := tabID(0); i < tabCount; i++ {
		c.views[i] = NewCollectionView(api.PageSize)
		t := table.New(
			table.WithColumns(CalculateColumns(c.columnsFor(i), layout.TableWidth)),
			table.WithFocused(i == tabMembers),
			table.WithHeight(layout.TableHeight()),
		)
		ApplyTableStyles(&t)
		c.tables[i] = t
	}
	c.setAuditRows(nil)

	return c
}

func (c *Console) columnsFor(tab tabID) []ColumnSpec {
	switch tab {
	case tabMembers:
		return MemberColumns()
	case tabApplicants:
		return ApplicantColumns()
	default:
		return QueueColumns()
	}
}

func (c Console) Init() tea.Cmd {
	return tea.Batch(StandardInit(), c.loadTab(tabMembers, ""))
}

// loadTab issues the fetch for one tab from the given cursor.
func (c *Console) loadTab(tab tabID, cursor string) tea.Cmd {
	seq := c.views[tab].Load(cursor)
	client := c.client
	store := c.store
	criterion := c.criterion

	return func() tea.Msg {
		msg := listLoadedMsg{tab: tab, seq: seq}
		switch tab {
		case tabMembers:
			list, err := client.FetchMembers(cursor)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.page = MemberPage(list.Members)
			msg.members = list.Members
			msg.memberToken = list.CSRFToken
			if store != nil && len(list.Members) > 0 {
				if err := store.SnapshotMembers(list.Members); err != nil {
					msg.snapshotErr = err
				}
			}
		case tabApplicants:
			list, err := client.FetchApplicants(cursor, criterion)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.page = ApplicantPage(list.Applicants)
			msg.approvalToken = list.ApprovalCSRFToken
			msg.rejectionToken = list.RejectionCSRFToken
			msg.uploadToken = list.AgreementUploadToken
		case tabQueue:
			list, err := client.FetchQueue(cursor)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.page = QueuePage(list.Queued)
			msg.queueToken = list.CSRFToken
		case tabDequeue:
			list, err := client.FetchDequeue(cursor)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.page = QueuePage(list.Queued)
			msg.queueToken = list.CSRFToken
		case tabTrash:
			records, err := client.FetchTrash(cursor)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.page = QueuePage(records)
		}
		return msg
	}
}

func (c Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	c.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if c.UpdateLayout(msg.Width, msg.Height) {
			c.resizeTables()
		}
		return c, nil

	case listLoadedMsg:
		return c.handleListLoaded(msg)

	case mutationDoneMsg:
		return c.handleMutationDone(msg)

	case uploadDoneMsg:
		return c.handleUploadDone(msg)

	case detailLoadedMsg:
		if msg.err != nil {
			c.mode = modeTable
			c.SetStatus("Fehler: "+msg.err.Error(), 5*time.Second)
			return c, nil
		}
		c.detail = msg.detail
		return c, nil

	case auditLoadedMsg:
		if msg.err != nil {
			c.mode = modeTable
			c.SetStatus("Fehler: "+msg.err.Error(), 5*time.Second)
			return c, nil
		}
		c.setAuditRows(msg.entries)
		return c, nil

	case exportDoneMsg:
		if msg.err != nil {
			c.SetStatus("Export fehlgeschlagen: "+msg.err.Error(), 5*time.Second)
		} else {
			c.SetStatus(fmt.Sprintf("%d Mitglieder nach %s exportiert", msg.count, msg.path), 5*time.Second)
		}
		return c, nil

	case tea.KeyMsg:
		switch c.mode {
		case modeConfirm:
			return c.handleConfirmKeys(msg)
		case modeEdit:
			return c.handleEditKeys(msg)
		case modeUpload:
			return c.handleUploadKeys(msg)
		case modeCriterion:
			return c.handleCriterionKeys(msg)
		case modeDetail:
			return c.handleDetailKeys(msg)
		case modeAudit:
			return c.handleAuditKeys(msg)
		default:
			return c.handleTableKeys(msg)
		}
	}

	var cmd tea.Cmd
	c.tables[c.activeTab], cmd = c.tables[c.activeTab].Update(msg)
	return c, cmd
}

func (c *Console) resizeTables() {
	for i := tabID(0); i < tabCount; i++ {
		c.tables[i].SetColumns(CalculateColumns(c.columnsFor(i), c.Layout.TableWidth))
		c.tables[i].SetHeight(c.Layout.TableHeight())
	}
}

func (c Console) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	view := c.views[msg.tab]
	if !view.Apply(msg.seq, msg.page, msg.err) {
		// Answer to a request that has been superseded.
		return c, nil
	}

	if msg.err != nil {
		c.SetStatus("Laden fehlgeschlagen: "+msg.err.Error(), 5*time.Second)
		if c.logger != nil {
			c.logger.Warn("list load failed", "tab", tabNames[msg.tab], "err", msg.err)
		}
		return c, nil
	}

	switch msg.tab {
	case tabMembers:
		c.memberToken = msg.memberToken
		c.members = msg.members
	case tabApplicants:
		c.approvalToken = msg.approvalToken
		c.rejectionToken = msg.rejectionToken
		c.uploadToken = msg.uploadToken
	case tabQueue:
		c.queueToken = msg.queueToken
	}

	c.syncTable(msg.tab)

	if msg.snapshotErr != nil {
		c.SetStatus("Lokale Kopie nicht aktualisiert: "+msg.snapshotErr.Error(), 5*time.Second)
		if c.logger != nil {
			c.logger.Warn("member snapshot failed", "err", msg.snapshotErr)
		}
	}
	return c, nil
}

func (c *Console) syncTable(tab tabID) {
	cols := len(c.columnsFor(tab))
	c.tables[tab].SetRows(c.views[tab].Rows(cols))
	c.tables[tab].GotoTop()
}

func (c Console) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	c.edit.busy = false
	if msg.err != nil {
		if c.mode == modeEdit {
			c.edit.errMsg = msg.err.Error()
			return c, nil
		}
		c.SetStatus("Fehler: "+msg.err.Error(), 5*time.Second)
		return c, nil
	}

	if c.store != nil {
		if err := c.store.RecordAction(msg.action, msg.target, msg.detail); err != nil && c.logger != nil {
			c.logger.Warn("audit record failed", "action", msg.action, "err", err)
		}
		if msg.action == "goodbye" {
			if err := c.store.RemoveMember(msg.target); err != nil && c.logger != nil {
				c.logger.Warn("snapshot removal failed", "target", msg.target, "err", err)
			}
		}
	}

	c.mode = modeTable
	c.edit = editState{}
	c.SetStatus("Erledigt: "+msg.action, 3*time.Second)

	if msg.reloadMembers {
		return c, c.loadTab(tabMembers, c.views[tabMembers].Cursor())
	}
	if msg.rowID != "" {
		// Remove on the tab the action was issued from; the operator
		// may have switched tabs while the request was in flight.
		c.views[msg.tab].RemoveRow(msg.rowID)
		c.syncTable(msg.tab)
	}
	return c, nil
}

func (c Console) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	c.upload.busy = false
	if msg.err != nil {
		c.upload.errMsg = msg.err.Error()
		return c, nil
	}

	if c.store != nil {
		if err := c.store.RecordAction("agreement-upload", msg.key, c.upload.name); err != nil && c.logger != nil {
			c.logger.Warn("audit record failed", "action", "agreement-upload", "err", err)
		}
	}

	// Successful upload moves straight into acceptance.
	key := msg.key
	token := c.approvalToken
	d := c.dispatcher

	c.mode = modeTable
	c.upload = uploadState{}
	c.SetStatus("Beitrittserklärung hochgeladen, Antrag wird angenommen…", 3*time.Second)

	return c, func() tea.Msg {
		if err := d.Accept(key, token); err != nil {
			return mutationDoneMsg{action: "accept", err: err}
		}
		return mutationDoneMsg{action: "accept", tab: tabApplicants, rowID: key, target: key, detail: "nach Upload"}
	}
}

// Key handling, table mode

func (c Console) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		c.Quitting = true
		return c, tea.Quit

	case "tab", "right":
		return c.switchTab((c.activeTab + 1) % tabCount)
	case "shift+tab", "left":
		return c.switchTab((c.activeTab + tabCount - 1) % tabCount)

	case "up", "k":
		c.tables[c.activeTab].MoveUp(1)
		return c, nil
	case "down", "j":
		c.tables[c.activeTab].MoveDown(1)
		return c, nil

	case "n":
		view := c.views[c.activeTab]
		if view.NextEnabled() {
			return c, c.loadTab(c.activeTab, view.NextCursor())
		}
		return c, nil
	case "p":
		// The cursor protocol is forward-only; previous restarts at
		// the first page.
		if c.views[c.activeTab].PrevEnabled() {
			return c, c.loadTab(c.activeTab, "")
		}
		return c, nil
	case "r":
		return c, c.loadTab(c.activeTab, c.views[c.activeTab].Cursor())

	case "/":
		if c.activeTab == tabApplicants {
			in := textinput.New()
			in.Placeholder = "Namensanfang"
			in.SetValue(c.criterion)
			in.Focus()
			in.CharLimit = 64
			c.criterionIn = in
			c.mode = modeCriterion
		}
		return c, nil

	case "o":
		if c.store != nil {
			c.mode = modeAudit
			return c, c.loadAudit()
		}
		return c, nil

	case "e":
		if c.activeTab == tabMembers && c.store != nil {
			return c, c.exportMembers()
		}
		return c, nil
	}

	switch c.activeTab {
	case tabMembers:
		return c.handleMemberKeys(msg)
	case tabApplicants:
		return c.handleApplicantKeys(msg)
	case tabQueue:
		return c.handleQueueKeys(msg)
	}
	return c, nil
}

func (c Console) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	c.tables[c.activeTab].Blur()
	c.activeTab = tab
	c.tables[tab].Focus()

	if c.views[tab].State() == CollectionIdle {
		return c, c.loadTab(tab, "")
	}
	return c, nil
}

// selectedMember returns the email of the selected members row, or "".
func (c *Console) selectedMember() string {
	if c.activeTab != tabMembers || !c.views[tabMembers].HasRecords() {
		return ""
	}
	cursor := c.tables[tabMembers].Cursor()
	// The cursor values are the raw emails, in row order.
	if cursor < 0 {
		return ""
	}
	view := c.views[tabMembers]
	if cursor >= len(view.page.Cursors) {
		return ""
	}
	return view.page.Cursors[cursor]
}

// memberByEmail finds the fetched record behind a members row, so
// modals open populated with the current values.
func (c *Console) memberByEmail(email string) *models.Member {
	for i := range c.members {
		if c.members[i].Email == email {
			return &c.members[i]
		}
	}
	return nil
}

// selectedKey returns the record key of the selected applicant or
// queue row, or "".
func (c *Console) selectedKey() string {
	view := c.views[c.activeTab]
	if !view.HasRecords() {
		return ""
	}
	cursor := c.tables[c.activeTab].Cursor()
	if cursor < 0 || cursor >= len(view.page.Cursors) {
		return ""
	}
	return view.page.Cursors[cursor]
}

func (c Console) handleMemberKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	email := c.selectedMember()
	if email == "" {
		return c, nil
	}
	m := c.memberByEmail(email)
	if m == nil {
		return c, nil
	}
	rowID := models.RowID(email)

	switch msg.String() {
	case "enter", "d":
		c.mode = modeDetail
		c.detail = nil
		client := c.client
		return c, func() tea.Msg {
			detail, err := client.MemberDetail(email)
			return detailLoadedMsg{detail: detail, err: err}
		}

	case "a": // address, four fields, one acknowledgment
		c.startEdit(editState{
			title: "Adresse bearbeiten: " + email,
			kind:  editTexts,
			email: email,
			rowID: rowID,
			fields: []editField{
				newEditField("Strasse", "street", m.Street),
				newEditField("PLZ", "zipcode", m.Zipcode),
				newEditField("Ort", "city", m.City),
				newEditField("Land", "country", m.Country),
			},
		})
		return c, nil

	case "t":
		c.startEdit(editState{
			title:  "Telefonnummer bearbeiten: " + email,
			kind:   editTexts,
			email:  email,
			rowID:  rowID,
			fields: []editField{newEditField("Telefon", "phone", m.Phone)},
		})
		return c, nil

	case "u":
		c.startEdit(editState{
			title:  "Benutzername bearbeiten: " + email,
			kind:   editTexts,
			email:  email,
			rowID:  rowID,
			fields: []editField{newEditField("Benutzername", "username", m.Username)},
		})
		return c, nil

	case "f":
		yearly := "nein"
		if m.FeeYearly {
			yearly = "ja"
		}
		c.startEdit(editState{
			title: "Mitgliedsbeitrag bearbeiten: " + email,
			kind:  editFee,
			email: email,
			rowID: rowID,
			fields: []editField{
				newEditField("Betrag in CHF", "fee", strconv.FormatUint(m.Fee, 10)),
				newEditField("Pro Jahr? (ja/nein)", "fee_yearly", yearly),
			},
		})
		return c, nil

	case "z":
		paid := ""
		if m.PaymentsCaughtUpTo > 0 {
			paid = m.PaidUntilString()
		}
		c.startEdit(editState{
			title:  "Bezahlt bis bearbeiten: " + email,
			kind:   editPayDate,
			email:  email,
			rowID:  rowID,
			fields: []editField{newEditField("Datum (JJJJ-MM-TT)", "payments_caught_up_to", paid)},
		})
		return c, nil

	case "s": // toggle key holder flag
		d := c.dispatcher
		hasKey := m.HasKey
		return c, func() tea.Msg {
			if err := d.EditBool(email, "has_key", !hasKey); err != nil {
				return mutationDoneMsg{action: "editbool", err: err}
			}
			return mutationDoneMsg{action: "editbool", target: email, reloadMembers: true}
		}

	case "g":
		c.startEdit(editState{
			title:  "Mitglied entfernen: " + email,
			kind:   editReason,
			email:  email,
			rowID:  rowID,
			fields: []editField{newEditField("Begründung", "reason", "")},
		})
		return c, nil
	}
	return c, nil
}

func (c Console) handleApplicantKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := c.selectedKey()
	if key == "" {
		return c, nil
	}

	switch msg.String() {
	case "a":
		d := c.dispatcher
		token := c.approvalToken
		return c, func() tea.Msg {
			if err := d.Accept(key, token); err != nil {
				return mutationDoneMsg{action: "accept", err: err}
			}
			return mutationDoneMsg{action: "accept", tab: tabApplicants, rowID: key, target: key}
		}

	case "x":
		d := c.dispatcher
		token := c.rejectionToken
		c.confirmPrompt = api.RejectWarning
		c.confirmCmd = func() tea.Msg {
			confirmed := d.WithConfirm(func(string) bool { return true })
			if err := confirmed.Reject(key, token); err != nil {
				return mutationDoneMsg{action: "reject", err: err}
			}
			return mutationDoneMsg{action: "reject", tab: tabApplicants, rowID: key, target: key}
		}
		c.mode = modeConfirm
		return c, nil

	case "v":
		in := textinput.New()
		in.Placeholder = "/pfad/zur/beitrittserklärung.pdf"
		in.Focus()
		in.CharLimit = 512
		c.upload = uploadState{key: key, input: in}
		c.mode = modeUpload
		return c, nil
	}
	return c, nil
}

func (c Console) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := c.selectedKey()
	if key == "" {
		return c, nil
	}

	if msg.String() == "x" {
		d := c.dispatcher
		token := c.queueToken
		c.confirmPrompt = api.CancelQueuedPrompt
		c.confirmCmd = func() tea.Msg {
			confirmed := d.WithConfirm(func(string) bool { return true })
			if err := confirmed.CancelQueued(key, token); err != nil {
				return mutationDoneMsg{action: "cancel-queued", err: err}
			}
			return mutationDoneMsg{action: "cancel-queued", tab: tabQueue, rowID: "q-" + key, target: key}
		}
		c.mode = modeConfirm
	}
	return c, nil
}

// Key handling, overlays

func (c Console) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "j", "enter":
		cmd := c.confirmCmd
		c.mode = modeTable
		c.confirmCmd = nil
		c.confirmPrompt = ""
		return c, cmd
	case "n", "esc", "q":
		c.mode = modeTable
		c.confirmCmd = nil
		c.confirmPrompt = ""
		c.SetStatus("Abgebrochen", 2*time.Second)
		return c, nil
	}
	return c, nil
}

func newEditField(label, field, value string) editField {
	in := textinput.New()
	in.Placeholder = label
	in.SetValue(value)
	in.CharLimit = 128
	return editField{label: label, field: field, original: value, input: in}
}

func (c *Console) startEdit(e editState) {
	e.fields[0].input.Focus()
	c.edit = e
	c.mode = modeEdit
}

func (c Console) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.edit.busy {
		return c, nil
	}

	switch msg.String() {
	case "esc":
		c.mode = modeTable
		c.edit = editState{}
		return c, nil

	case "tab", "down":
		c.moveEditFocus(1)
		return c, nil
	case "shift+tab", "up":
		c.moveEditFocus(-1)
		return c, nil

	case "enter":
		if c.edit.focus < len(c.edit.fields)-1 {
			c.moveEditFocus(1)
			return c, nil
		}
		return c.submitEdit()
	}

	var cmd tea.Cmd
	c.edit.fields[c.edit.focus].input, cmd = c.edit.fields[c.edit.focus].input.Update(msg)
	return c, cmd
}

func (c *Console) moveEditFocus(delta int) {
	e := &c.edit
	e.fields[e.focus].input.Blur()
	e.focus = (e.focus + delta + len(e.fields)) % len(e.fields)
	e.fields[e.focus].input.Focus()
}

// submitEdit validates the staged values and dispatches the edit as a
// single command with a single acknowledgment, regardless of how many
// fields changed.
func (c Console) submitEdit() (tea.Model, tea.Cmd) {
	e := &c.edit
	d := c.dispatcher
	email := e.email

	switch e.kind {
	case editTexts:
		type change struct{ field, value string }
		var changes []change
		for i := range e.fields {
			value := strings.TrimSpace(e.fields[i].input.Value())
			// Clearing a prefilled field is a change too; only fields
			// left at their staged original are skipped.
			if value != e.fields[i].original {
				changes = append(changes, change{e.fields[i].field, value})
			}
		}
		if len(changes) == 0 {
			c.mode = modeTable
			c.edit = editState{}
			return c, nil
		}
		e.busy = true
		return c, func() tea.Msg {
			for _, ch := range changes {
				if err := d.EditText(email, ch.field, ch.value); err != nil {
					return mutationDoneMsg{action: "edittext", err: err}
				}
			}
			return mutationDoneMsg{action: "edittext", target: email, reloadMembers: true}
		}

	case editFee:
		amount, err := strconv.ParseUint(strings.TrimSpace(e.fields[0].input.Value()), 10, 64)
		if err != nil {
			e.errMsg = "Der Mitgliedsbeitrag kann nicht als Zahl identifiziert werden"
			return c, nil
		}
		yearly := strings.EqualFold(strings.TrimSpace(e.fields[1].input.Value()), "ja")
		e.busy = true
		return c, func() tea.Msg {
			if err := d.EditFee(email, amount, yearly); err != nil {
				return mutationDoneMsg{action: "editfee", err: err}
			}
			return mutationDoneMsg{action: "editfee", target: email, reloadMembers: true}
		}

	case editPayDate:
		raw := strings.TrimSpace(e.fields[0].input.Value())
		when, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			e.errMsg = "Datum muss im Format JJJJ-MM-TT sein"
			return c, nil
		}
		e.busy = true
		return c, func() tea.Msg {
			if err := d.EditLong(email, "payments_caught_up_to", when.Unix()); err != nil {
				return mutationDoneMsg{action: "editlong", err: err}
			}
			return mutationDoneMsg{action: "editlong", target: email, reloadMembers: true}
		}

	case editReason:
		reason := strings.TrimSpace(e.fields[0].input.Value())
		if reason == "" {
			e.errMsg = "Eine Begründung ist erforderlich"
			return c, nil
		}
		token := c.memberToken
		rowID := e.rowID
		c.confirmPrompt = api.GoodbyePrompt
		c.confirmCmd = func() tea.Msg {
			confirmed := d.WithConfirm(func(string) bool { return true })
			if err := confirmed.Goodbye(email, token, reason); err != nil {
				return mutationDoneMsg{action: "goodbye", err: err}
			}
			return mutationDoneMsg{action: "goodbye", tab: tabMembers, rowID: rowID, target: email, detail: reason}
		}
		c.mode = modeConfirm
		return c, nil
	}
	return c, nil
}

func (c Console) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c.upload.busy {
		// One attempt at a time; the input stays disabled until the
		// server answered.
		return c, nil
	}

	switch msg.String() {
	case "esc":
		c.mode = modeTable
		c.upload = uploadState{}
		return c, nil

	case "enter":
		path := strings.TrimSpace(c.upload.input.Value())
		if path == "" {
			c.upload.errMsg = "Ein Dateipfad ist erforderlich"
			return c, nil
		}
		c.upload.busy = true
		c.upload.errMsg = ""
		c.upload.name = filepath.Base(path)
		key := c.upload.key
		token := c.uploadToken
		d := c.dispatcher
		return c, func() tea.Msg {
			data, err := os.ReadFile(path)
			if err != nil {
				return uploadDoneMsg{key: key, err: err}
			}
			if err := d.UploadAgreement(key, token, filepath.Base(path), data); err != nil {
				return uploadDoneMsg{key: key, err: err}
			}
			return uploadDoneMsg{key: key}
		}
	}

	var cmd tea.Cmd
	c.upload.input, cmd = c.upload.input.Update(msg)
	return c, cmd
}

func (c Console) handleCriterionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.mode = modeTable
		return c, nil
	case "enter":
		c.criterion = strings.TrimSpace(c.criterionIn.Value())
		c.mode = modeTable
		return c, c.loadTab(tabApplicants, "")
	}

	var cmd tea.Cmd
	c.criterionIn, cmd = c.criterionIn.Update(msg)
	return c, cmd
}

func (c Console) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		c.mode = modeTable
		c.detail = nil
	}
	return c, nil
}

func (c Console) handleAuditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		c.mode = modeTable
		return c, nil
	case "up", "k":
		c.auditTable.MoveUp(1)
	case "down", "j":
		c.auditTable.MoveDown(1)
	}
	return c, nil
}

func (c *Console) loadAudit() tea.Cmd {
	store := c.store
	return func() tea.Msg {
		entries, err := store.RecentActions(200)
		return auditLoadedMsg{entries: entries, err: err}
	}
}

func (c *Console) setAuditRows(entries []db.AuditEntry) {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			e.PerformedAt.Format("2006-01-02 15:04"),
			e.Action,
			e.Target,
			Truncate(e.Detail, 48),
		})
	}
	if len(rows) == 0 {
		rows = []table.Row{{EmptyPlaceholder, "", "", ""}}
	}

	t := table.New(
		table.WithColumns(CalculateColumns(AuditColumns(), c.Layout.TableWidth)),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(c.Layout.TableHeight()),
	)
	ApplyTableStyles(&t)
	c.auditTable = t
}

func (c *Console) exportMembers() tea.Cmd {
	store := c.store
	path := fmt.Sprintf("mitglieder-%s.xlsx", time.Now().Format("2006-01-02"))
	return func() tea.Msg {
		members, err := store.ListMembers()
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := export.WriteXLSX(path, members); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, count: len(members)}
	}
}

// View rendering

func (c Console) View() string {
	if c.Quitting {
		return ""
	}

	switch c.mode {
	case modeConfirm:
		return c.viewConfirm()
	case modeEdit:
		return c.viewEdit()
	case modeUpload:
		return c.viewUpload()
	case modeCriterion:
		return c.viewCriterion()
	case modeDetail:
		return c.viewDetail()
	case modeAudit:
		return c.viewAudit()
	}
	return c.viewTable()
}

func (c Console) renderTabs() string {
	var parts []string
	for i := tabID(0); i < tabCount; i++ {
		if i == c.activeTab {
			parts = append(parts, RenderTabActive(tabNames[i]))
		} else {
			parts = append(parts, RenderTabInactive(tabNames[i]))
		}
	}
	return strings.Join(parts, " ") + "  " + RenderDim("(Tab/←/→)")
}

func (c Console) renderPager() string {
	view := c.views[c.activeTab]

	next := "n: weiter"
	if !view.NextEnabled() {
		next = RenderDim(next)
	} else {
		next = RenderAccent(next)
	}
	prev := "p: zurück"
	if !view.PrevEnabled() {
		prev = RenderDim(prev)
	} else {
		prev = RenderAccent(prev)
	}

	loading := ""
	if view.State() == CollectionLoading {
		loading = "  " + RenderDim("lädt…")
	}
	return prev + "  " + next + loading
}

func (c Console) helpFor(tab tabID) string {
	switch tab {
	case tabMembers:
		return "↑/↓: navigieren | Enter: Details | a/t/u/f/z: bearbeiten | s: Schlüssel | g: entfernen | e: Export | q: Ende"
	case tabApplicants:
		return "↑/↓: navigieren | a: annehmen | x: ablehnen | v: Beitrittserklärung | /: Filter | q: Ende"
	case tabQueue:
		return "↑/↓: navigieren | x: aus Warteschlange entfernen | q: Ende"
	default:
		return "↑/↓: navigieren | n/p: blättern | r: neu laden | q: Ende"
	}
}

func (c Console) viewTable() string {
	b := NewPageView(c.Layout).
		Title("Mitgliederverwaltung").
		CustomContent(c.renderTabs() + "\n").
		Divider().
		Spacing(1)

	if c.activeTab == tabApplicants && c.criterion != "" {
		b.DimText("Filter: " + c.criterion)
	}

	b.Table(c.tables[c.activeTab]).
		Spacing(1).
		CustomContent(c.renderPager() + "\n").
		Status(c.StatusMsg)

	return b.Help(c.helpFor(c.activeTab)).Build()
}

func (c Console) viewConfirm() string {
	content := ViewHeader("Bestätigung erforderlich", c.Layout.InnerWidth)
	content += RenderError(c.confirmPrompt) + "\n\n"
	content += RenderNormal("Wirklich fortfahren?") + "\n"
	return TwoBoxView(content, "j/Enter: ja | n/Esc: abbrechen", c.Layout)
}

func (c Console) viewEdit() string {
	e := c.edit
	content := ViewHeader(e.title, c.Layout.InnerWidth)

	for i := range e.fields {
		label := e.fields[i].label
		if i == e.focus {
			content += RenderAccent(label) + "\n"
		} else {
			content += RenderNormal(label) + "\n"
		}
		content += e.fields[i].input.View() + "\n\n"
	}

	if e.errMsg != "" {
		content += RenderError(e.errMsg) + "\n"
	}
	if e.busy {
		content += RenderDim("wird gespeichert…") + "\n"
	}

	help := "Enter: speichern | Tab: nächstes Feld | Esc: abbrechen"
	if len(e.fields) == 1 {
		help = "Enter: speichern | Esc: abbrechen"
	}
	return TwoBoxView(content, help, c.Layout)
}

func (c Console) viewUpload() string {
	content := ViewHeader("Beitrittserklärung hochladen", c.Layout.InnerWidth)
	content += RenderNormal("Pfad zur eingescannten Beitrittserklärung (max. 5 MB):") + "\n"
	content += c.upload.input.View() + "\n\n"

	if c.upload.errMsg != "" {
		content += RenderError(c.upload.errMsg) + "\n"
	}
	if c.upload.busy {
		content += RenderDim("wird hochgeladen…") + "\n"
	}

	return TwoBoxView(content, "Enter: hochladen und annehmen | Esc: abbrechen", c.Layout)
}

func (c Console) viewCriterion() string {
	content := ViewHeader("Anträge filtern", c.Layout.InnerWidth)
	content += RenderNormal("Nur Anträge anzeigen, deren Name so beginnt:") + "\n"
	content += c.criterionIn.View() + "\n"
	return TwoBoxView(content, "Enter: filtern | Esc: abbrechen", c.Layout)
}

func (c Console) viewDetail() string {
	if c.detail == nil {
		content := ViewHeader("Mitgliederdetails", c.Layout.InnerWidth)
		content += RenderDim("lädt…") + "\n"
		return TwoBoxView(content, "Esc: zurück", c.Layout)
	}

	m := c.detail.MemberData
	content := ViewHeaderWithSubtitle("Mitgliederdetails", m.Email, c.Layout.InnerWidth)
	line := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return RenderDim(fmt.Sprintf("%-16s", label)) + RenderNormal(value) + "\n"
	}

	content += line("Name", m.Name)
	content += line("Strasse", m.Street)
	content += line("PLZ / Ort", strings.TrimSpace(m.Zipcode+" "+m.City))
	content += line("Land", m.Country)
	content += line("E-Mail", m.Email)
	content += line("Telefon", m.Phone)
	content += line("Benutzername", m.UsernameOrPlaceholder())
	content += line("Beitrag", m.FeeString())
	hasKey := "nein"
	if m.HasKey {
		hasKey = "ja"
	}
	content += line("Schlüssel", hasKey)
	content += line("Bezahlt bis", m.PaidUntilString())
	content += FullWidthDivider(c.Layout.InnerWidth) + "\n"
	content += line("Antrag vom", c.detail.Metadata.RequestedAtString())
	content += line("Antrag von IP", c.detail.Metadata.SourceIPString())

	return TwoBoxView(content, "Esc: zurück", c.Layout)
}

func (c Console) viewAudit() string {
	return NewPageView(c.Layout).
		Title("Protokoll").
		Divider().
		Spacing(1).
		Table(c.auditTable).
		Help("↑/↓: navigieren | Esc: zurück").
		Build()
}

// RunConsole starts the admin console in the alternate screen.
func RunConsole(client *api.Client, store *db.DB, logger *log.Logger) error {
	model := NewConsole(client, store, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
