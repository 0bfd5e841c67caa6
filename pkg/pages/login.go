package pages

import (
	"time"

	"github.com/entrhq/hrm-acceptance/pkg/config"
)

const (
	loggedInProbeCap  = 15 * time.Second
	loginPageProbeCap = 8 * time.Second
)

// LoginPage drives the sign-in form.
type LoginPage struct {
	driver   *Driver
	defaults config.Credentials
}

// NewLoginPage returns the login page bound to d. defaults are used by
// LoginWithDefaultCredentials.
func NewLoginPage(d *Driver, defaults config.Credentials) *LoginPage {
	return &LoginPage{driver: d, defaults: defaults}
}

// Navigate opens the login form.
func (p *LoginPage) Navigate() error {
	if err := p.driver.Navigate(p.driver.URLFor(LoginPath)); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// Login fills the form and submits it.
func (p *LoginPage) Login(username, password string) error {
	if err := p.FillLoginForm(username, password); err != nil {
		return err
	}
	return p.ClickLoginButton()
}

// FillLoginForm types the credentials without submitting.
func (p *LoginPage) FillLoginForm(username, password string) error {
	if err := p.driver.Fill(UsernameInput, username, 0); err != nil {
		return err
	}
	return p.driver.Fill(PasswordInput, password, 0)
}

// ClickLoginButton submits the form and waits for the page to settle.
func (p *LoginPage) ClickLoginButton() error {
	if err := p.driver.Click(LoginButton, 0); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// LoginWithCredentials logs in with c.
func (p *LoginPage) LoginWithCredentials(c config.Credentials) error {
	return p.Login(c.Username, c.Password)
}

// LoginWithDefaultCredentials logs in with the configured account.
func (p *LoginPage) LoginWithDefaultCredentials() error {
	return p.LoginWithCredentials(p.defaults)
}

// IsLoggedIn reports whether the dashboard header appears.
func (p *LoginPage) IsLoggedIn() bool {
	return p.driver.IsVisible(DashboardHeader, capped(p.driver.Timeout(), loggedInProbeCap))
}

// IsOnLoginPage reports whether the username field is showing.
func (p *LoginPage) IsOnLoginPage() bool {
	return p.driver.IsVisible(UsernameInput, capped(p.driver.Timeout(), loginPageProbeCap))
}

// ErrorMessage returns the login error text, or "" when none is shown.
func (p *LoginPage) ErrorMessage() string {
	if !p.driver.IsVisible(LoginError, 0) {
		return ""
	}
	text, err := p.driver.Text(LoginError)
	if err != nil {
		return ""
	}
	return text
}

// VerifyErrorMessage checks that the login error contains expected.
func (p *LoginPage) VerifyErrorMessage(expected string) error {
	if err := p.driver.WaitForElement(LoginError, 0); err != nil {
		return err
	}
	return p.driver.VerifyText(LoginError, expected)
}

func capped(timeout, limit time.Duration) time.Duration {
	if timeout < limit {
		return timeout
	}
	return limit
}
