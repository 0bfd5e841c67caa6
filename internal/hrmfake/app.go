// Package hrmfake simulates the OrangeHRM screens the suite drives on top of
// pwfake pages: the login form, the dashboard, the PIM module and the Add
// Employee form.
package hrmfake

import (
	"strings"
	"sync"

	"github.com/entrhq/hrm-acceptance/internal/pwfake"
	"github.com/entrhq/hrm-acceptance/pkg/pages"
)

// Screen names the page the simulated application is showing.
type Screen string

const (
	Blank     Screen = "blank"
	Login     Screen = "login"
	Dashboard Screen = "dashboard"
	PIM       Screen = "pim"
	AddForm   Screen = "add-employee"
	Details   Screen = "employee-details"
)

// App is a fake OrangeHRM instance. Each page installed on it keeps its own
// screen, as separate browsing contexts would.
type App struct {
	BaseURL  string
	Username string
	Password string

	// NoConfirmation suppresses the name header after saving an employee
	NoConfirmation bool

	mu      sync.Mutex
	screens map[*pwfake.Page]Screen
	saved   []pages.EmployeeData
}

// New returns an app accepting the given account.
func New(baseURL, username, password string) *App {
	return &App{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Username: username,
		Password: password,
		screens:  make(map[*pwfake.Page]Screen),
	}
}

// NewPage returns a blank page wired to the app; suitable as a
// pwfake.Browser PageFactory.
func (a *App) NewPage() *pwfake.Page {
	p := pwfake.NewPage()
	a.Install(p)
	return p
}

// Install wires the app's behavior into p.
func (a *App) Install(p *pwfake.Page) {
	a.setScreen(p, Blank)

	p.OnGoto = func(p *pwfake.Page, url string) {
		if strings.HasSuffix(url, pages.LoginPath) {
			a.showLogin(p)
		}
	}

	// the login and save buttons share a selector
	p.Element(pages.LoginButton).OnClick = func(p *pwfake.Page) {
		switch a.Screen(p) {
		case Login:
			a.submitLogin(p)
		case AddForm:
			a.submitEmployee(p)
		}
	}

	p.Element(pages.PIMMenu).OnClick = func(p *pwfake.Page) {
		p.CurrentURL = a.BaseURL + "/pim/viewEmployeeList"
		p.Element(pages.DashboardHeader).Show("PIM")
		p.Element(pages.AddEmployeeMenu).Show("Add Employee")
		a.setScreen(p, PIM)
	}

	p.Element(pages.AddEmployeeMenu).OnClick = func(p *pwfake.Page) {
		p.CurrentURL = a.BaseURL + "/pim/addEmployee"
		for _, sel := range []string{pages.FirstNameInput, pages.MiddleNameInput, pages.LastNameInput, pages.EmployeeIDInput} {
			el := p.Element(sel).Show("")
			el.Value = ""
		}
		p.Element(pages.SaveButton).Show("Save")
		a.setScreen(p, AddForm)
	}
}

// Screen returns what p currently shows.
func (a *App) Screen(p *pwfake.Page) Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screens[p]
}

// Saved returns the employees created so far.
func (a *App) Saved() []pages.EmployeeData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]pages.EmployeeData(nil), a.saved...)
}

func (a *App) setScreen(p *pwfake.Page, s Screen) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.screens[p] = s
}

func (a *App) showLogin(p *pwfake.Page) {
	p.PageTitle = "OrangeHRM"
	p.HTML = `<html><head><title>OrangeHRM</title></head><body><form><input name="username"><input type="password" name="password"><button type="submit">Login</button></form></body></html>`
	p.Element(pages.UsernameInput).Show("")
	p.Element(pages.PasswordInput).Show("")
	p.Element(pages.LoginButton).Show("Login")
	p.Element(pages.LoginError).Hide()
	p.Element(pages.DashboardHeader).Hide()
	a.setScreen(p, Login)
}

func (a *App) submitLogin(p *pwfake.Page) {
	user := p.Element(pages.UsernameInput).Value
	pass := p.Element(pages.PasswordInput).Value
	if user != a.Username || pass != a.Password {
		p.Element(pages.LoginError).Show("Invalid credentials")
		return
	}

	p.CurrentURL = a.BaseURL + "/dashboard/index"
	p.Element(pages.UsernameInput).Hide()
	p.Element(pages.PasswordInput).Hide()
	p.Element(pages.LoginButton).Hide()
	p.Element(pages.DashboardHeader).Show("Dashboard")
	p.Element(pages.PIMMenu).Show("PIM")
	a.setScreen(p, Dashboard)
}

func (a *App) submitEmployee(p *pwfake.Page) {
	emp := pages.EmployeeData{
		FirstName:  p.Element(pages.FirstNameInput).Value,
		MiddleName: p.Element(pages.MiddleNameInput).Value,
		LastName:   p.Element(pages.LastNameInput).Value,
		EmployeeID: p.Element(pages.EmployeeIDInput).Value,
	}
	if emp.FirstName == "" || emp.LastName == "" {
		return
	}

	a.mu.Lock()
	a.saved = append(a.saved, emp)
	a.mu.Unlock()

	p.CurrentURL = a.BaseURL + "/pim/viewPersonalDetails/empNumber/7"
	p.Element(pages.SavedMessage).Show("Successfully Saved")
	if !a.NoConfirmation {
		p.Element(pages.EmployeeNameHeader).Show(emp.FirstName + " " + emp.LastName)
	}
	a.setScreen(p, Details)
}
