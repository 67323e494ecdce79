package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/filemanager/filemanager/internal/explorer"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/syncflow"
)

const (
	txtTitle       = "FileManager"
	txtLoading     = "Loading..."
	txtSyncing     = "Syncing..."
	txtEmptyDir    = "(empty)"
	txtNotSet      = "not set"
	txtDeclined    = "Sync cancelled, no pair was created."
	defaultVisible = 15
)

var (
	titleStyle    = cyan.Bold(true)
	labelStyle    = gray
	valueStyle    = green
	cursorStyle   = cyan.Bold(true)
	dirStyle      = cyan
	fileStyle     = lightGray
	markStyle     = yellow.Bold(true)
	errorStyle    = red
	successStyle  = green.Bold(true)
	questionStyle = yellow.Bold(true)
)

type listingMsg explorer.Listing

type syncResultMsg syncflow.Result

type browseModel struct {
	ctx       context.Context
	ctrl      *syncflow.Controller
	marks     *explorer.Selection
	serverURL string

	cursor  int
	height  int
	spinner spinner.Model
	help    help.Model

	status string
	err    error
}

func newBrowseModel(ctx context.Context, lister fsapi.Lister, syncer fsapi.Syncer, serverURL string) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cyan

	return browseModel{
		ctx:       ctx,
		ctrl:      syncflow.New(lister, syncer),
		marks:     explorer.NewSelection(),
		serverURL: serverURL,
		spinner:   s,
		help:      help.New(),
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listingMsg:
		if m.ctrl.Browser().Apply(explorer.Listing(msg)) {
			m.cursor = 0
		}
		return m, nil

	case syncResultMsg:
		return m.handleSyncResult(syncflow.Result(msg))

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQt) {
			return m, tea.Quit
		}
		switch m.ctrl.State() {
		case syncflow.StateIdle:
			return m.updateForm(msg)
		case syncflow.StateBrowsing:
			return m.updateBrowser(msg)
		case syncflow.StateConfirmPending:
			return m.updateConfirm(msg)
		}
	}

	return m, nil
}

func (m browseModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Source):
		return m.openBrowser(syncflow.RoleSource)

	case key.Matches(msg, keys.Dest):
		return m.openBrowser(syncflow.RoleDestination)

	case key.Matches(msg, keys.Sync):
		m.status, m.err = "", nil
		cmd, err := m.ctrl.Sync()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, m.runSync(cmd)
	}
	return m, nil
}

func (m browseModel) openBrowser(role syncflow.Role) (tea.Model, tea.Cmd) {
	m.status, m.err = "", nil
	cmd, err := m.ctrl.OpenModal(role)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.marks.Clear()
	m.cursor = 0
	return m, m.runListing(cmd)
}

func (m browseModel) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.ctrl.Browser()
	entries := b.Entries()

	switch {
	case key.Matches(msg, keys.Cancel):
		m.err = m.ctrl.HandleBrowserEvent(b.Cancel())
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Open):
		if entry, ok := m.current(); ok {
			if cmd := b.NavigateInto(entry); cmd != nil {
				return m, m.runListing(cmd)
			}
		}

	case key.Matches(msg, keys.Back):
		if cmd := b.NavigateUp(); cmd != nil {
			return m, m.runListing(cmd)
		}

	case key.Matches(msg, keys.Root):
		return m, m.runListing(b.Open(""))

	case key.Matches(msg, keys.Reload):
		return m, m.runListing(b.Open(b.CurrentPath()))

	case key.Matches(msg, keys.Mark):
		if entry, ok := m.current(); ok && entry.IsDirectory {
			m.marks.Toggle(explorer.JoinPath(b.CurrentPath(), entry.Name))
		}

	case key.Matches(msg, keys.Select):
		return m.selectPath(m.selectionTarget())

	case key.Matches(msg, keys.Here):
		return m.selectPath(b.CurrentPath())
	}

	return m, nil
}

// selectionTarget prefers a single marked directory, then the highlighted
// directory, then the directory being shown.
func (m browseModel) selectionTarget() string {
	if m.marks.Len() == 1 {
		return m.marks.Items()[0]
	}
	if entry, ok := m.current(); ok && entry.IsDirectory {
		return explorer.JoinPath(m.ctrl.Browser().CurrentPath(), entry.Name)
	}
	return m.ctrl.Browser().CurrentPath()
}

func (m browseModel) selectPath(path string) (tea.Model, tea.Cmd) {
	if m.marks.Len() > 1 {
		m.err = fmt.Errorf("%d directories marked, keep one", m.marks.Len())
		return m, nil
	}
	ev := m.ctrl.Browser().Select(path)
	if err := m.ctrl.HandleBrowserEvent(ev); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.marks.Clear()
	return m, nil
}

func (m browseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var yes bool
	switch {
	case key.Matches(msg, keys.Yes):
		yes = true
	case key.Matches(msg, keys.No):
		yes = false
	default:
		return m, nil
	}

	cmd, err := m.ctrl.Confirm(yes)
	if err != nil {
		m.err = err
		return m, nil
	}
	if cmd == nil {
		m.status = txtDeclined
		return m, nil
	}
	return m, m.runSync(cmd)
}

func (m browseModel) handleSyncResult(res syncflow.Result) (tea.Model, tea.Cmd) {
	out := m.ctrl.Resolve(res)
	switch out.Kind {
	case syncflow.OutcomeSuccess:
		m.err = nil
		m.status = successStatus(out)
	case syncflow.OutcomeFailed:
		m.err = out.Err
		m.status = ""
	}
	return m, nil
}

func successStatus(out syncflow.Outcome) string {
	if out.Report == nil {
		return "Sync completed"
	}
	msg := fmt.Sprintf("Synced %d file(s)", len(out.Report.Copied))
	if out.Report.PairCreated {
		msg += fmt.Sprintf(", created pair #%d", out.Report.Pair.ID)
	}
	return msg
}

func (m browseModel) current() (fsapi.DirectoryEntry, bool) {
	entries := m.ctrl.Browser().Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return fsapi.DirectoryEntry{}, false
	}
	return entries[m.cursor], true
}

func (m browseModel) runListing(cmd explorer.ListCmd) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return listingMsg(cmd(ctx))
	}
}

func (m browseModel) runSync(cmd syncflow.SyncCmd) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return syncResultMsg(cmd(ctx))
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(txtTitle))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(m.serverURL))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render("Source       "), renderPath(m.ctrl.Source())))
	b.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render("Destination  "), renderPath(m.ctrl.Destination())))
	b.WriteString("\n")

	var bindings []key.Binding
	switch m.ctrl.State() {
	case syncflow.StateBrowsing:
		m.renderBrowser(&b)
		bindings = keys.browserHelp()
	case syncflow.StateRequesting, syncflow.StateForcedRequesting:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), txtSyncing))
	case syncflow.StateConfirmPending:
		b.WriteString(questionStyle.Render(syncflow.ConfirmMessage))
		b.WriteString("\n")
		bindings = keys.confirmHelp()
	default:
		bindings = keys.formHelp()
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s %s", errorPrefix(), errorText(m.err))))
		b.WriteString("\n")
	}

	if len(bindings) > 0 {
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(bindings))
	}
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) renderBrowser(b *strings.Builder) {
	br := m.ctrl.Browser()

	loc := "/" + br.CurrentPath()
	b.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Choose "+m.ctrl.ActiveRole().String()+":"), valueStyle.Render(loc)))
	if m.marks.Len() > 0 {
		b.WriteString(markStyle.Render(fmt.Sprintf("  [%d marked]", m.marks.Len())))
	}
	b.WriteString("\n\n")

	if br.Loading() {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), txtLoading))
		return
	}
	if err := br.Err(); err != nil {
		b.WriteString(errorStyle.Render(errorText(err)))
		b.WriteString("\n")
		return
	}

	entries := br.Entries()
	if len(entries) == 0 {
		b.WriteString(labelStyle.Render(txtEmptyDir))
		b.WriteString("\n")
		return
	}

	start, end := visibleWindow(m.cursor, len(entries), m.visibleRows())
	for i := start; i < end; i++ {
		e := entries[i]

		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		mark := " "
		if m.marks.Contains(explorer.JoinPath(br.CurrentPath(), e.Name)) {
			mark = markStyle.Render("*")
		}

		var line string
		if e.IsDirectory {
			line = dirStyle.Render(e.Name + "/")
		} else {
			line = fileStyle.Render(fmt.Sprintf("%s  %s", e.Name, humanize.Bytes(uint64(e.Size))))
		}
		b.WriteString(pointer + mark + " " + line + "\n")
	}
	if end < len(entries) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  … %d more", len(entries)-end)))
		b.WriteString("\n")
	}
}

func (m browseModel) visibleRows() int {
	if m.height > 14 {
		return m.height - 12
	}
	return defaultVisible
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// in view with at most size rows.
func visibleWindow(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func renderPath(p string) string {
	if p == "" {
		return labelStyle.Render(txtNotSet)
	}
	return valueStyle.Render(p)
}

func errorText(err error) string {
	var se *fsapi.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

func runBrowseTUI(ctx context.Context, client interface {
	fsapi.Lister
	fsapi.Syncer
}, serverURL string) error {
	model := newBrowseModel(ctx, client, client, serverURL)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
