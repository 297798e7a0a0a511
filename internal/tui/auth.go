package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/session"
)

const (
	loginEmail = iota
	loginPassword
)

type loginForm struct{ form form }

func newLoginForm(email string) loginForm {
	f := newForm(
		field{label: "Email", placeholder: "you@example.com"},
		field{label: "Password", secret: true},
	)
	f.set(loginEmail, email)
	return loginForm{form: f}
}

const (
	regUsername = iota
	regEmail
	regPassword
)

const (
	regAge = iota
	regWeight
	regGender
)

// registerForm collects the account in two steps: credentials, then body
// details.
type registerForm struct {
	step    int
	account form
	details form
}

func newRegisterForm() registerForm {
	return registerForm{
		account: newForm(
			field{label: "Username"},
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", secret: true},
		),
		details: newForm(
			field{label: "Age", placeholder: "years"},
			field{label: "Weight", placeholder: "kg"},
			field{label: "Gender", placeholder: "male / female / other"},
		),
	}
}

func (r *registerForm) current() *form {
	if r.step == 1 {
		return &r.details
	}
	return &r.account
}

type resetForm struct{ form form }

func newResetForm() resetForm {
	return resetForm{form: newForm(field{label: "Email", placeholder: "you@example.com"})}
}

func (m *Model) authForm() *form {
	switch m.page {
	case pageRegister:
		return m.register.current()
	case pageReset:
		return &m.reset.form
	default:
		return &m.login.form
	}
}

func (m *Model) authKey(msg tea.KeyMsg) tea.Cmd {
	f := m.authForm()
	switch msg.String() {
	case "esc":
		if m.page == pageRegister && m.register.step == 1 {
			m.register.step = 0
			return m.register.account.focusFirst()
		}
		if m.page != pageLogin {
			return m.navigate(pageLogin)
		}
		return nil
	case "ctrl+r":
		if m.page == pageLogin {
			return m.navigate(pageRegister)
		}
	case "ctrl+f":
		if m.page == pageLogin {
			m.reset.form.set(0, m.login.form.value(loginEmail))
			return m.navigate(pageReset)
		}
	case "tab", "down":
		return f.next()
	case "shift+tab", "up":
		return f.prev()
	case "enter":
		if f.busy {
			return nil
		}
		if !f.onLast() {
			return f.next()
		}
		switch m.page {
		case pageLogin:
			return m.submitLogin()
		case pageRegister:
			return m.submitRegister()
		case pageReset:
			return m.submitReset()
		}
		return nil
	}
	return f.update(msg)
}

func (m *Model) submitLogin() tea.Cmd {
	email := m.login.form.value(loginEmail)
	password := m.login.form.inputs[loginPassword].Value()
	if email == "" || password == "" {
		m.board.Post(notice.Failure, "Email and password are required.")
		return nil
	}
	m.login.form.busy = true
	return loginCmd(m.ctx, m.visit, m.client, email, password)
}

func (m *Model) submitRegister() tea.Cmd {
	r := &m.register
	if r.step == 0 {
		switch {
		case r.account.value(regUsername) == "":
			m.board.Post(notice.Failure, "Username is required.")
		case !strings.Contains(r.account.value(regEmail), "@"):
			m.board.Post(notice.Failure, "Enter a valid email address.")
		case r.account.inputs[regPassword].Value() == "":
			m.board.Post(notice.Failure, "Password is required.")
		default:
			r.step = 1
			return r.details.focusFirst()
		}
		return nil
	}

	reg, err := registration(r)
	if err != "" {
		m.board.Post(notice.Failure, err)
		return nil
	}
	r.details.busy = true
	return registerCmd(m.ctx, m.visit, m.client, reg)
}

// registration validates the details step and builds the request body. It
// returns a user-facing message on invalid input.
func registration(r *registerForm) (api.Registration, string) {
	age, err := strconv.Atoi(r.details.value(regAge))
	if err != nil || age <= 0 {
		return api.Registration{}, "Age must be a positive whole number."
	}
	weight, err := strconv.ParseFloat(r.details.value(regWeight), 64)
	if err != nil || weight <= 0 {
		return api.Registration{}, "Weight must be a positive number."
	}
	var gender string
	switch strings.ToLower(r.details.value(regGender)) {
	case "male", "m":
		gender = "Male"
	case "female", "f":
		gender = "Female"
	case "other", "o":
		gender = "Other"
	default:
		return api.Registration{}, "Gender must be male, female or other."
	}
	return api.Registration{
		Username: r.account.value(regUsername),
		Email:    r.account.value(regEmail),
		Password: r.account.inputs[regPassword].Value(),
		Age:      age,
		Weight:   weight,
		Gender:   gender,
	}, ""
}

func (m *Model) submitReset() tea.Cmd {
	email := m.reset.form.value(0)
	if !strings.Contains(email, "@") {
		m.board.Post(notice.Failure, "Enter the email you registered with.")
		return nil
	}
	m.reset.form.busy = true
	return resetCmd(m.ctx, m.visit, m.client, email)
}

func (m *Model) updateAuth(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginMsg:
		if m.stale(msg.visit) {
			return nil
		}
		m.login.form.busy = false
		if msg.err != nil {
			log.WithError(msg.err).Warn("login failed")
			m.board.Post(notice.Failure, "Login failed: "+api.DetailOf(msg.err))
			return nil
		}
		username := msg.token.Username
		if username == "" {
			username = msg.email
		}
		if err := m.sess.Login(&session.Session{Token: msg.token.AccessToken, Username: username, Email: msg.email}); err != nil {
			log.WithError(err).Error("failed to store session")
			m.board.Post(notice.Failure, "Could not save your session: "+err.Error())
			return nil
		}
		m.login.form.set(loginPassword, "")
		m.board.Post(notice.Success, "Welcome, "+username+"!")
		return m.navigate(m.start)

	case registerMsg:
		if m.stale(msg.visit) {
			return nil
		}
		m.register.details.busy = false
		if msg.err != nil {
			log.WithError(msg.err).Warn("registration failed")
			m.board.Post(notice.Failure, "Registration failed: "+api.DetailOf(msg.err))
			return nil
		}
		m.register.account.clear()
		m.register.details.clear()
		m.register.step = 0
		m.login.form.set(loginEmail, msg.email)
		m.board.Post(notice.Success, "Registration successful! Please log in.")
		return m.navigate(pageLogin)

	case resetMsg:
		if m.stale(msg.visit) {
			return nil
		}
		m.reset.form.busy = false
		if msg.err != nil {
			log.WithError(msg.err).Warn("password reset request failed")
			m.board.Post(notice.Failure, "Could not request a reset: "+api.DetailOf(msg.err))
			return nil
		}
		m.board.Post(notice.Success, "If that email is registered, a reset link is on its way.")
		return m.navigate(pageLogin)
	}
	return nil
}

func (m *Model) renderAuth() string {
	var sb strings.Builder
	switch m.page {
	case pageLogin:
		sb.WriteString(heading("Log in to FitFlex"))
		m.login.form.render(&sb)
		sb.WriteString(dimStyle.Render("  No account? ctrl+r to register. Forgot your password? ctrl+f.") + "\n")
	case pageRegister:
		if m.register.step == 0 {
			sb.WriteString(heading("Create an account (1/2)"))
		} else {
			sb.WriteString(heading("About you (2/2)"))
		}
		m.register.current().render(&sb)
	case pageReset:
		sb.WriteString(heading("Reset your password"))
		m.reset.form.render(&sb)
		sb.WriteString(dimStyle.Render("  We will email you a link to choose a new password.") + "\n")
	}
	return sb.String()
}
