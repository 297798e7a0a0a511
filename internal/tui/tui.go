// Package tui provides the Bubble Tea interface for logging workouts,
// browsing history and viewing the dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/guard"
	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/profile"
	"github.com/fakeyudi/fitflex/internal/session"
	"github.com/fakeyudi/fitflex/internal/workout"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	noticeStyles = map[notice.Kind]lipgloss.Style{
		notice.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		notice.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		notice.Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// ── Pages ─────────────────

type page int

const (
	pageLogin page = iota
	pageRegister
	pageReset
	pageDashboard
	pageWorkout
	pageHistory
	pageProfile
)

// navPages are the tabs shown once logged in, in key order.
var navPages = []page{pageDashboard, pageWorkout, pageHistory, pageProfile}

var pageNames = map[page]string{
	pageLogin:     "Login",
	pageRegister:  "Register",
	pageReset:     "Reset Password",
	pageDashboard: "Dashboard",
	pageWorkout:   "New Workout",
	pageHistory:   "History",
	pageProfile:   "Profile",
}

func (p page) authed() bool { return p >= pageDashboard }

func pageFromName(name string) page {
	switch name {
	case profile.StartWorkout:
		return pageWorkout
	case profile.StartHistory:
		return pageHistory
	default:
		return pageDashboard
	}
}

// Client is the API surface the TUI drives.
type Client interface {
	workout.ExerciseFetcher
	workout.WorkoutCreator
	workout.WorkoutService
	DashboardStats(ctx context.Context) (*api.DashboardStats, error)
	TimeByType(ctx context.Context) ([]api.TypeMinutes, error)
	Login(ctx context.Context, email, password string) (*api.Token, error)
	Register(ctx context.Context, r api.Registration) error
	RequestPasswordReset(ctx context.Context, email string) error
	Me(ctx context.Context) (*api.User, error)
}

// Options wires the TUI to the rest of the client.
type Options struct {
	Client          Client
	Session         *session.Manager
	Board           *notice.Board
	DefaultDuration int
	StartPage       string // profile.Start*
	Email           string // prefilled on the login form
	SessionPath     string // watched for logins and logouts in other terminals
}

// endReason remembers why the session was last invalidated so the login
// page can say so.
type endReason struct {
	mu     sync.Mutex
	reason session.Reason
	set    bool
}

func (e *endReason) record(r session.Reason) {
	e.mu.Lock()
	e.reason, e.set = r, true
	e.mu.Unlock()
}

func (e *endReason) take() (session.Reason, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.reason, e.set
	e.set = false
	return r, ok
}

// ── Model ────────────────────

// Model is the root Bubble Tea model.
type Model struct {
	client Client
	sess   *session.Manager
	board  *notice.Board
	start  page
	ended  *endReason

	// root outlives pages; ctx is cancelled whenever the page changes and
	// visit tags every page-scoped request so late replies are dropped.
	root   context.Context
	ctx    context.Context
	cancel context.CancelFunc
	visit  int

	page   page
	width  int
	height int
	ready  bool
	vp     viewport.Model

	composer *workout.Composer
	editor   *workout.Editor

	login    loginForm
	register registerForm
	reset    resetForm
	compose  composeView
	history  historyView
	dash     dashboardView
	profile  profileView

	noticeSeq int
}

// New creates the root model. A saved session whose token has already
// expired is dropped and the user starts on the login page.
func New(ctx context.Context, opts Options) Model {
	m := Model{
		client:   opts.Client,
		sess:     opts.Session,
		board:    opts.Board,
		start:    pageFromName(opts.StartPage),
		ended:    &endReason{},
		root:     ctx,
		composer: workout.NewComposer(workout.NewCatalog(nil), opts.Client, opts.Session, opts.Board, opts.DefaultDuration),
		editor:   workout.NewEditor(opts.Client, opts.Session, opts.Board),
		login:    newLoginForm(opts.Email),
		register: newRegisterForm(),
		reset:    newResetForm(),
		compose:  newComposeView(),
	}
	m.sess.OnInvalidate(m.ended.record)

	if m.sess.LoggedIn() && guard.Check(m.sess.Token(), time.Now()) == guard.Expired {
		log.Info("saved session has expired")
		if err := m.sess.Invalidate(session.ReasonExpired); err != nil {
			log.WithError(err).Warn("failed to remove expired session")
		}
		m.ended.take()
		m.board.Post(notice.Failure, reasonText(session.ReasonExpired))
	}

	m.page = pageLogin
	if m.sess.LoggedIn() {
		m.page = m.start
	}
	m.ctx, m.cancel = context.WithCancel(m.root)
	m.focusPage()
	m.markLoading()
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCatalogCmd(m.root, m.client), m.enterCmd(), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	if m.page.authed() && !m.sess.LoggedIn() {
		text := reasonText(session.ReasonExternal)
		if r, ok := m.ended.take(); ok {
			text = reasonText(r)
		}
		kind := notice.Failure
		if text == reasonText(session.ReasonLogout) {
			kind = notice.Info
		}
		m.board.Post(kind, text)
		cmd = tea.Batch(cmd, m.navigate(pageLogin))
	}
	m.refreshViewport()
	return m, tea.Batch(cmd, m.scheduleNoticeClear())
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewport()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeTickMsg:
		m.board.Clear(msg.seq)
		return nil

	case sessionFileMsg:
		if err := m.sess.Reload(); err != nil {
			log.WithError(err).Warn("failed to reload session")
			return nil
		}
		if m.sess.LoggedIn() && !m.page.authed() {
			return m.navigate(m.start)
		}
		return nil

	case catalogMsg:
		m.composer.SetCatalog(msg.catalog)
		m.compose.sync(m.composer)
		return nil

	case loginMsg, registerMsg, resetMsg:
		return m.updateAuth(msg)

	case createdMsg:
		return m.updateCompose(msg)

	case workoutsMsg, updatedMsg, deletedMsg:
		return m.updateHistory(msg)

	case statsMsg, timeByTypeMsg:
		m.updateDashboard(msg)
		return nil

	case meMsg:
		m.updateProfile(msg)
		return nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return cmd
	}

	if m.page.authed() {
		key := msg.String()
		if !m.typing() {
			switch key {
			case "q":
				return tea.Quit
			case "1", "2", "3", "4":
				key = "alt+" + key
			}
		}
		switch key {
		case "alt+1", "alt+2", "alt+3", "alt+4":
			return m.navigate(navPages[key[len(key)-1]-'1'])
		case "ctrl+o":
			if err := m.sess.Logout(); err != nil {
				log.WithError(err).Warn("logout did not remove the session file")
			}
			return nil
		}
	}

	switch m.page {
	case pageLogin, pageRegister, pageReset:
		return m.authKey(msg)
	case pageWorkout:
		return m.composeKey(msg)
	case pageHistory:
		return m.historyKey(msg)
	case pageDashboard:
		if msg.String() == "r" {
			return m.enterCmd()
		}
	case pageProfile:
		if msg.String() == "r" {
			return m.enterCmd()
		}
	}
	return nil
}

// typing reports whether plain keys belong to a text field.
func (m *Model) typing() bool {
	switch m.page {
	case pageWorkout:
		return true
	case pageHistory:
		_, editing := m.editor.State().(workout.Editing)
		return editing || m.history.confirmID != 0
	default:
		return !m.page.authed()
	}
}

// navigate leaves the current page: in-flight page requests are cancelled
// and their replies ignored.
func (m *Model) navigate(p page) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(m.root)
	m.visit++
	m.page = p
	m.vp.GotoTop()
	return tea.Batch(m.focusPage(), m.enterCmd())
}

func (m *Model) focusPage() tea.Cmd {
	switch m.page {
	case pageLogin:
		return m.login.form.focusFirst()
	case pageRegister:
		return m.register.current().focusFirst()
	case pageReset:
		return m.reset.form.focusFirst()
	case pageWorkout:
		return m.compose.focusCurrent()
	}
	return nil
}

func (m *Model) markLoading() {
	switch m.page {
	case pageDashboard:
		m.dash.loading = true
	case pageHistory:
		m.history.loading = true
	case pageProfile:
		m.profile.loading = true
	}
}

// enterCmd starts the loads a page shows on arrival.
func (m *Model) enterCmd() tea.Cmd {
	m.markLoading()
	switch m.page {
	case pageDashboard:
		return tea.Batch(
			statsCmd(m.ctx, m.visit, m.client),
			timeByTypeCmd(m.ctx, m.visit, m.client),
		)
	case pageHistory:
		return workoutsCmd(m.ctx, m.visit, m.client)
	case pageProfile:
		return meCmd(m.ctx, m.visit, m.client)
	case pageWorkout:
		if m.composer.Catalog().Len() == 0 {
			return loadCatalogCmd(m.root, m.client)
		}
	}
	return nil
}

func (m *Model) stale(visit int) bool { return visit != m.visit }

func (m *Model) scheduleNoticeClear() tea.Cmd {
	n, ok := m.board.Current()
	if !ok || n.Seq == m.noticeSeq {
		return nil
	}
	m.noticeSeq = n.Seq
	seq := n.Seq
	return tea.Tick(time.Until(n.Expires), func(time.Time) tea.Msg { return noticeTickMsg{seq: seq} })
}

func reasonText(r session.Reason) string {
	switch r {
	case session.ReasonExpired:
		return "Your session has expired. Please log in again."
	case session.ReasonUnauthorized:
		return "The server rejected your session. Please log in again."
	case session.ReasonLogout:
		return "Logged out."
	default:
		return "You were logged out."
	}
}

// ── View ─────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	who := ""
	if s := m.sess.Current(); s != nil {
		who = "  " + s.Username
	}
	title := titleStyle.Width(m.width).Render("  fitflex  " + pageNames[m.page] + who)

	var tabRow string
	if m.page.authed() {
		var tabParts []string
		for i, p := range navPages {
			label := fmt.Sprintf(" %d %s ", i+1, pageNames[p])
			if p == m.page {
				tabParts = append(tabParts, activeTabStyle.Render(label))
			} else {
				tabParts = append(tabParts, inactiveTabStyle.Render(label))
			}
			if i < len(navPages)-1 {
				tabParts = append(tabParts, tabSepStyle.Render("│"))
			}
		}
		tabRow = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Width(m.width).
			Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))
	} else {
		tabRow = lipgloss.NewStyle().Background(lipgloss.Color("235")).Width(m.width).Render("")
	}

	content := m.vp.View()

	status := m.hint()
	if n, ok := m.board.Current(); ok {
		status = noticeStyles[n.Kind].Render(n.Text)
	}
	statusBar := statusBarStyle.Width(m.width).Render("  " + status)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

func (m *Model) hint() string {
	switch m.page {
	case pageLogin:
		return "tab next  enter log in  ctrl+r register  ctrl+f forgot password  ctrl+c quit"
	case pageRegister:
		return "tab next  enter continue  esc back to login"
	case pageReset:
		return "enter send link  esc back to login"
	case pageWorkout:
		return "tab field  ←/→ preset  ↑/↓ exercise  space toggle  ctrl+t today  ctrl+s save  alt+1-4 pages"
	case pageHistory:
		switch {
		case m.history.confirmID != 0:
			return "y delete  n keep"
		case m.history.editing(m.editor):
			return "tab field  ctrl+s save  esc cancel"
		}
		return "↑/↓ select  enter edit  d delete  r reload  1-4 pages  ctrl+o logout  q quit"
	}
	return "1-4 pages  r refresh  pgup/pgdn scroll  ctrl+o logout  q quit"
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewport() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.vp = viewport.New(m.width, vpHeight)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderPage())
}

func (m *Model) renderPage() string {
	switch m.page {
	case pageLogin, pageRegister, pageReset:
		return m.renderAuth()
	case pageWorkout:
		return m.compose.render(m.composer, m.width)
	case pageHistory:
		return m.history.render(m.editor, m.width)
	case pageDashboard:
		return m.dash.render(m.width)
	case pageProfile:
		return m.profile.render()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.SessionPath != "" {
		go func() {
			err := session.Watch(ctx, opts.SessionPath, func(removed bool) {
				p.Send(sessionFileMsg{removed: removed})
			})
			if err != nil {
				log.WithError(err).Warn("session watch stopped")
			}
		}()
	}

	_, err := p.Run()
	return err
}
