// Package tui provides a Bubble Tea terminal user interface for the
// release distribution wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/handiism/distro-wizard/internal/account"
	"github.com/handiism/distro-wizard/internal/audio"
	"github.com/handiism/distro-wizard/internal/distribution"
	ioutils "github.com/handiism/distro-wizard/internal/io"
	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

// Options wires the TUI to the rest of the application.
type Options struct {
	// Creator sends the distribution request. Required.
	Creator distribution.Creator

	// Uploads, when set, reports upload progress of the request body.
	Uploads interface {
		OnUploadProgress(fn func(written, total int64))
	}

	// Account gates the wizard on a logged-in artist and prefills the
	// profile. Nil skips the check.
	Account *account.Service

	// CoverArt controls cover art preparation when a file is attached.
	CoverArt ioutils.CoverArtOptions

	// PrefillFromTags fills empty fields from ID3 tags of attached audio.
	PrefillFromTags bool

	Logger *log.Logger
	Now    func() time.Time
}

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateEditing
	StateSubmitting
	StateComplete
	StateBlocked
)

// Message types
type (
	// ProgressMsg carries a submission progress event.
	ProgressMsg struct {
		Event distribution.ProgressEvent
	}

	// UploadMsg reports bytes of the request body sent so far.
	UploadMsg struct {
		Written int64
		Total   int64
	}

	// AccountMsg is sent when the account check completes.
	AccountMsg struct {
		Account *account.Account
		Err     error
	}

	// AttachedMsg is sent when a file path has been resolved.
	AttachedMsg struct {
		Field  string
		Path   string
		Upload *model.Upload
		Tags   *audio.Tags
		Err    error
	}

	// SubmitDoneMsg is sent when the submission call returns. Err is the
	// raw call error; the orchestrator records it in Update.
	SubmitDoneMsg struct {
		Payload *distribution.Payload
		Err     error
	}
)

// Model is the Bubble Tea model for the wizard.
type Model struct {
	opts    Options
	state   State
	session *wizard.Session
	orch    *distribution.Orchestrator
	account *account.Account

	input    textinput.Model
	spinner  spinner.Model
	progress progress.Model

	fields []field
	focus  int

	// paths holds typed but not yet attached file paths, by field key.
	paths   map[string]string
	pending int

	status    string
	statusErr bool
	logs      []distribution.ProgressEvent
	uploaded  int64
	uploadLen int64

	events chan tea.Msg
	ctx    context.Context
	cancel context.CancelFunc
	images *ioutils.ImageService
	logger *log.Logger

	width int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) (Model, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	events := make(chan tea.Msg, 64)
	session := wizard.NewSession(opts.Now(), logger)
	orch, err := distribution.NewOrchestrator(session, opts.Creator, logger, func(e distribution.ProgressEvent) {
		send(events, ProgressMsg{Event: e})
	})
	if err != nil {
		return Model{}, err
	}
	if opts.Uploads != nil {
		opts.Uploads.OnUploadProgress(func(written, total int64) {
			send(events, UploadMsg{Written: written, Total: total})
		})
	}

	ti := textinput.New()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		opts:     opts,
		state:    StateEditing,
		session:  session,
		orch:     orch,
		input:    ti,
		spinner:  sp,
		progress: prog,
		paths:    map[string]string{},
		events:   events,
		ctx:      ctx,
		cancel:   cancel,
		images:   ioutils.NewImageService(),
		logger:   logger,
	}
	if opts.Account != nil {
		m.state = StateLoading
	}
	m.rebuild()
	m.loadFocused()
	return m, nil
}

// send delivers msg without blocking the sender; the UI only needs the
// latest updates.
func send(ch chan tea.Msg, msg tea.Msg) {
	select {
	case ch <- msg:
	default:
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.listen()}
	if m.opts.Account != nil {
		cmds = append(cmds, m.loadAccount())
	}
	return tea.Batch(cmds...)
}

func (m Model) listen() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) loadAccount() tea.Cmd {
	svc, ctx := m.opts.Account, m.ctx
	return func() tea.Msg {
		acct, err := svc.Load(ctx)
		return AccountMsg{Account: acct, Err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	case AccountMsg:
		m.applyAccount(msg)

	case ProgressMsg:
		m.logs = append(m.logs, msg.Event)
		if len(m.logs) > 5 {
			m.logs = m.logs[len(m.logs)-5:]
		}
		cmds = append(cmds, m.listen())

	case UploadMsg:
		m.uploaded, m.uploadLen = msg.Written, msg.Total
		cmds = append(cmds, m.listen())

	case AttachedMsg:
		m.applyAttachment(msg)

	case SubmitDoneMsg:
		m.finishSubmit(m.orch.Finish(msg.Payload, msg.Err))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applyAccount(msg AccountMsg) {
	switch {
	case errors.Is(msg.Err, account.ErrNotAuthenticated):
		m.state = StateBlocked
		m.setStatus("You are not logged in. Set auth_token in the settings or DISTRO_AUTH_TOKEN.", true)
	case msg.Err != nil:
		m.state = StateBlocked
		m.setStatus("Could not load your account: "+msg.Err.Error(), true)
	default:
		m.account = msg.Account
		m.account.Prefill(m.session)
		m.state = StateEditing
		m.rebuild()
		m.loadFocused()
	}
}

func (m *Model) applyAttachment(msg AttachedMsg) {
	m.pending--
	f, ok := m.fieldByKey(msg.Field)
	if !ok {
		// The page changed while the file was being read.
		f, ok = fieldByKeyIn(fieldsFor(wizard.StepFiles, m.session.Fields()), msg.Field)
		if !ok {
			return
		}
	}
	if msg.Err != nil {
		m.logger.Debug("attach failed", "field", f.key, "path", msg.Path, "err", msg.Err)
		m.session.SetError(f.errKey, attachMessage(msg.Path, msg.Err))
		return
	}

	f.attach(m.session, msg.Upload)
	delete(m.paths, f.key)
	if msg.Tags != nil {
		if f.track >= 0 {
			msg.Tags.PrefillTrack(m.session, f.track)
		} else {
			msg.Tags.Prefill(m.session)
		}
	}
	if msg.Upload != nil {
		m.setStatus(fmt.Sprintf("Attached %s (%s)", msg.Upload.Name, humanize.Bytes(uint64(msg.Upload.Size))), false)
	}
	m.rebuild()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancel()
		return m, tea.Quit
	}

	switch m.state {
	case StateLoading, StateBlocked, StateSubmitting:
		return m, nil
	case StateComplete:
		if msg.String() == "ctrl+r" {
			return m, m.reset()
		}
		return m, nil
	}

	f, hasField := m.focused()

	switch msg.String() {
	case "tab", "down":
		cmd := m.commitPath()
		m.moveFocus(1)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.commitPath()
		m.moveFocus(-1)
		return m, cmd

	case "ctrl+n":
		if cmd := m.commitPath(); cmd != nil {
			return m, cmd
		}
		if m.pending > 0 {
			m.setStatus("Waiting for files to load...", false)
			return m, nil
		}
		if m.session.GoNext() {
			m.setStatus("", false)
			m.focus = 0
		} else if !m.session.IsLastStep() {
			m.setStatus("Please fix the highlighted fields.", true)
		}
		m.rebuild()
		m.loadFocused()
		return m, m.progress.SetPercent(m.stepPercent())

	case "ctrl+p":
		if m.session.GoPrev() {
			m.focus = 0
			m.setStatus("", false)
		}
		m.rebuild()
		m.loadFocused()
		return m, m.progress.SetPercent(m.stepPercent())

	case "ctrl+s":
		return m.startSubmit()

	case "ctrl+r":
		if m.orch.Status() == distribution.StatusFailed {
			return m, m.reset()
		}
		return m, nil

	case "ctrl+a":
		if hasField && f.songwriter >= 0 {
			m.session.AddSongwriter()
			m.rebuild()
		}
		return m, nil

	case "ctrl+d":
		if hasField && f.songwriter >= 0 {
			m.session.RemoveSongwriter(f.songwriter)
			m.rebuild()
			m.loadFocused()
		}
		return m, nil

	case "enter":
		if hasField && f.kind == kindPath {
			return m, m.commitPath()
		}
		cmd := m.commitPath()
		m.moveFocus(1)
		return m, cmd

	case " ", "left", "right":
		if hasField && (f.kind == kindToggle || f.kind == kindChoice) {
			m.toggle(f, msg.String())
			return m, nil
		}
	}

	if hasField && (f.kind == kindText || f.kind == kindPath) {
		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			if f.kind == kindText {
				f.setText(m.session, v)
				m.rebuild()
			} else {
				m.paths[f.key] = v
			}
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggle(f field, key string) {
	switch f.kind {
	case kindToggle:
		if key == " " {
			f.setOn(m.session, !f.on(m.session.Fields()))
		}
	case kindChoice:
		delta := 1
		if key == "left" {
			delta = -1
		}
		f.setText(m.session, cycle(f.options, f.text(m.session.Fields()), delta))
	}
	m.rebuild()
}

// commitPath starts resolving the focused path field if it was edited.
func (m *Model) commitPath() tea.Cmd {
	f, ok := m.focused()
	if !ok || f.kind != kindPath {
		return nil
	}
	path, edited := m.paths[f.key]
	if !edited {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		f.attach(m.session, nil)
		delete(m.paths, f.key)
		m.rebuild()
		return nil
	}

	m.pending++
	key, media := f.key, f.media
	ctx, images, coverOpts, prefill := m.ctx, m.images, m.opts.CoverArt, m.opts.PrefillFromTags
	return func() tea.Msg {
		msg := AttachedMsg{Field: key, Path: path}
		msg.Upload, msg.Tags, msg.Err = resolveUpload(ctx, expandHome(path), media, images, coverOpts, prefill)
		return msg
	}
}

// Messages shown under a path field when a file cannot be attached.
const (
	MsgFileNotFound = "File not found: %s"
	MsgNotAnImage   = "Please choose a JPG or PNG image."
	MsgNotAudio     = "Please choose an audio file."
)

var (
	errNotAnImage = errors.New("not a jpg or png image")
	errNotAudio   = errors.New("not an audio file")
)

// attachMessage turns a resolveUpload error into field error text.
func attachMessage(path string, err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf(MsgFileNotFound, path)
	case errors.Is(err, errNotAnImage):
		return MsgNotAnImage
	case errors.Is(err, errNotAudio):
		return MsgNotAudio
	default:
		return err.Error()
	}
}

func resolveUpload(ctx context.Context, path string, media mediaKind, images *ioutils.ImageService, coverOpts ioutils.CoverArtOptions, prefill bool) (*model.Upload, *audio.Tags, error) {
	u, err := ioutils.OpenUpload(path)
	if err != nil {
		return nil, nil, err
	}

	switch media {
	case mediaImage:
		if !ioutils.IsImage(u) {
			return nil, nil, fmt.Errorf("%s: %w", u.Name, errNotAnImage)
		}
		u, err = images.PrepareCoverArt(ctx, u, coverOpts)
		return u, nil, err

	case mediaAudio:
		if !ioutils.IsAudio(u) {
			return nil, nil, fmt.Errorf("%s: %w", u.Name, errNotAudio)
		}
		if prefill {
			if tags, err := audio.ReadTags(path); err == nil {
				return u, tags, nil
			}
		}
	}
	return u, nil, nil
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if !m.session.IsLastStep() || m.orch.Busy() {
		return m, nil
	}
	if m.pending > 0 {
		m.setStatus("Waiting for files to load...", false)
		return m, nil
	}

	m.logs = nil
	m.setStatus("", false)

	// Only the network call leaves the Update goroutine.
	payload, err := m.orch.Prepare()
	if err != nil {
		m.finishSubmit(err)
		return m, nil
	}

	m.state = StateSubmitting
	m.uploaded, m.uploadLen = 0, 0

	orch, ctx := m.orch, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return SubmitDoneMsg{Payload: payload, Err: orch.Send(ctx, payload)}
	})
}

func (m *Model) finishSubmit(err error) {
	m.state = StateEditing
	switch {
	case err == nil:
		m.state = StateComplete
	case errors.Is(err, distribution.ErrValidation):
		m.setStatus("Please fix the highlighted fields.", true)
	case errors.Is(err, distribution.ErrSubmissionFailed):
		m.setStatus(m.orch.Message(), true)
	default:
		m.setStatus(err.Error(), true)
	}
	m.rebuild()
}

func (m *Model) reset() tea.Cmd {
	if err := m.orch.Reset(m.opts.Now()); err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	if m.account != nil {
		m.account.Prefill(m.session)
	}
	m.state = StateEditing
	m.focus = 0
	m.paths = map[string]string{}
	m.logs = nil
	m.setStatus("", false)
	m.rebuild()
	m.loadFocused()
	return m.progress.SetPercent(m.stepPercent())
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// rebuild recomputes the page's controls after a change.
func (m *Model) rebuild() {
	m.fields = fieldsFor(m.session.Step(), m.session.Fields())
	if m.focus >= len(m.fields) {
		m.focus = max(len(m.fields)-1, 0)
	}
}

func (m *Model) moveFocus(delta int) {
	if len(m.fields) == 0 {
		return
	}
	n := len(m.fields)
	m.focus = ((m.focus+delta)%n + n) % n
	m.loadFocused()
}

// loadFocused points the text input at the focused field.
func (m *Model) loadFocused() {
	f, ok := m.focused()
	if !ok || (f.kind != kindText && f.kind != kindPath) {
		m.input.Blur()
		return
	}
	m.input.Placeholder = f.placeholder
	if f.kind == kindPath {
		if p, edited := m.paths[f.key]; edited {
			m.input.SetValue(p)
		} else if u := f.upload(m.session.Fields()); u != nil {
			m.input.SetValue(u.Path)
		} else {
			m.input.SetValue("")
		}
	} else {
		m.input.SetValue(f.text(m.session.Fields()))
	}
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) focused() (field, bool) {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return field{}, false
	}
	return m.fields[m.focus], true
}

func (m Model) fieldByKey(key string) (field, bool) {
	return fieldByKeyIn(m.fields, key)
}

func fieldByKeyIn(fields []field, key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func (m Model) stepPercent() float64 {
	return float64(m.session.Step()) / float64(wizard.LastStep)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ Release Distribution"))
	b.WriteString("\n")
	if m.account != nil {
		b.WriteString(dimStyle.Render(m.accountLine()))
		b.WriteString("\n")
		if !m.account.Payment.Configured() {
			b.WriteString(warningStyle.Render("! No payout method on file. Add one to receive royalties."))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Checking your account..."))
		b.WriteString("\n")
	case StateBlocked:
		b.WriteString(errorStyle.Render("✗ " + m.status))
		b.WriteString("\n")
	case StateComplete:
		b.WriteString(m.viewComplete())
	default:
		b.WriteString(m.viewStep())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) accountLine() string {
	a := m.account
	line := "Logged in as " + a.User.Username
	if a.Profile.Currency != "" {
		line += fmt.Sprintf(" • Wallet: %s %s", humanize.CommafWithDigits(a.Profile.WalletBalance, 2), a.Profile.Currency)
	}
	return line
}

func (m Model) viewStep() string {
	var b strings.Builder
	step := m.session.Step()

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Step %d of %d • %s", step, wizard.LastStep, step)))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.stepPercent()))
	b.WriteString("\n\n")

	errs := m.session.Errors()
	for i, f := range m.fields {
		b.WriteString(m.renderField(f, i == m.focus))
		if msg := errs[f.errKey]; f.errKey != "" && msg != "" {
			b.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}

	if m.state == StateSubmitting {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Submitting your release..."))
		if m.uploadLen > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s / %s",
				humanize.Bytes(uint64(m.uploaded)), humanize.Bytes(uint64(m.uploadLen)))))
		}
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}
	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render("✗ " + m.status))
		} else {
			b.WriteString(infoStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderField(f field, focused bool) string {
	cursor := "  "
	label := f.label
	if focused {
		cursor = focusStyle.Render("> ")
		label = focusStyle.Render(label)
	}
	r := m.session.Fields()

	switch f.kind {
	case kindToggle:
		check := "[ ]"
		if f.on(r) {
			check = "[x]"
		}
		return fmt.Sprintf("%s%s %s\n", cursor, check, label)

	case kindChoice:
		value := f.text(r)
		if value == "" {
			value = "—"
		}
		return fmt.Sprintf("%s%s: ‹ %s ›\n", cursor, label, value)

	case kindPath:
		var value string
		switch {
		case focused:
			value = m.input.View()
		case m.paths[f.key] != "":
			value = m.paths[f.key] + dimStyle.Render(" (not attached)")
		case f.upload(r) != nil:
			u := f.upload(r)
			value = successStyle.Render(fmt.Sprintf("✓ %s (%s)", u.Name, humanize.Bytes(uint64(u.Size))))
		default:
			value = dimStyle.Render("none")
		}
		return fmt.Sprintf("%s%s\n    %s\n", cursor, label, value)

	default:
		value := f.text(r)
		if focused {
			value = m.input.View()
		} else if value == "" {
			value = dimStyle.Render(orDefault(f.placeholder, "—"))
		}
		return fmt.Sprintf("%s%s\n    %s\n", cursor, label, value)
	}
}

func (m Model) viewComplete() string {
	r := m.session.Fields()
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Release submitted!\n\n"+
			"Title: %s\n"+
			"Type: %s\n"+
			"Release date: %s\n\n"+
			"We will email you when it goes live.",
		r.Title, r.ReleaseType, r.ReleaseDate,
	))
	return box + "\n" + m.renderLogs()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, e := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch e.Level {
		case distribution.LevelError:
			style = errorStyle
			prefix = "✗"
		case distribution.LevelWarning:
			style = warningStyle
			prefix = "!"
		case distribution.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case distribution.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + e.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateLoading, StateBlocked:
		return "esc: quit"
	case StateSubmitting:
		return "esc: cancel and quit"
	case StateComplete:
		return "ctrl+r: new release • esc: quit"
	}

	parts := []string{"tab/shift+tab: move", "space: toggle"}
	if f, ok := m.focused(); ok && f.songwriter >= 0 {
		parts = append(parts, "ctrl+a: add songwriter", "ctrl+d: remove")
	}
	if m.session.Step() > wizard.FirstStep {
		parts = append(parts, "ctrl+p: back")
	}
	if m.session.IsLastStep() {
		parts = append(parts, "ctrl+s: submit")
		if m.orch.Status() == distribution.StatusFailed {
			parts = append(parts, "ctrl+r: start over")
		}
	} else {
		parts = append(parts, "ctrl+n: next")
	}
	parts = append(parts, "esc: quit")
	return strings.Join(parts, " • ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Run starts the TUI application.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
