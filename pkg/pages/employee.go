package pages

import (
	"fmt"
	"strings"
)

// EmployeeData describes an employee to create. Empty optional fields are
// left untouched on the form.
type EmployeeData struct {
	FirstName  string
	MiddleName string
	LastName   string
	EmployeeID string
}

// FullName joins the non-empty name parts.
func (e EmployeeData) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{e.FirstName, e.MiddleName, e.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// EmployeePage drives the PIM module's Add Employee flow.
type EmployeePage struct {
	driver *Driver
}

// NewEmployeePage returns the employee page bound to d.
func NewEmployeePage(d *Driver) *EmployeePage {
	return &EmployeePage{driver: d}
}

// NavigateToPIM opens the PIM module from the main menu.
func (p *EmployeePage) NavigateToPIM() error {
	if err := p.driver.Click(PIMMenu, 0); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// NavigateToAddEmployee opens the Add Employee form.
func (p *EmployeePage) NavigateToAddEmployee() error {
	if err := p.NavigateToPIM(); err != nil {
		return err
	}
	if err := p.driver.Click(AddEmployeeMenu, 0); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// FillEmployeeForm types data into the form. Middle name and employee id
// are only touched when set.
func (p *EmployeePage) FillEmployeeForm(data EmployeeData) error {
	if err := p.driver.Fill(FirstNameInput, data.FirstName, 0); err != nil {
		return err
	}
	if data.MiddleName != "" {
		if err := p.driver.Fill(MiddleNameInput, data.MiddleName, 0); err != nil {
			return err
		}
	}
	if err := p.driver.Fill(LastNameInput, data.LastName, 0); err != nil {
		return err
	}
	if data.EmployeeID != "" {
		if err := p.driver.Fill(EmployeeIDInput, data.EmployeeID, 0); err != nil {
			return err
		}
	}
	return nil
}

// SaveEmployee submits the form.
func (p *EmployeePage) SaveEmployee() error {
	if err := p.driver.Click(SaveButton, 0); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// AddEmployee opens the form, fills it with data and saves.
func (p *EmployeePage) AddEmployee(data EmployeeData) error {
	if err := p.NavigateToAddEmployee(); err != nil {
		return err
	}
	if err := p.FillEmployeeForm(data); err != nil {
		return err
	}
	return p.SaveEmployee()
}

// VerifyEmployeeCreated checks that the saved employee's name header shows
// the first and last name. A missing header is ErrConfirmationMissing.
func (p *EmployeePage) VerifyEmployeeCreated(data EmployeeData) error {
	if !p.driver.IsVisible(EmployeeNameHeader, 0) {
		return fmt.Errorf("%w: %s not visible after save", ErrConfirmationMissing, EmployeeNameHeader)
	}

	name, err := p.driver.Text(EmployeeNameHeader)
	if err != nil {
		return err
	}
	p.driver.log.Debugf("created employee header: %s", name)

	for _, want := range []string{data.FirstName, data.LastName} {
		if !strings.Contains(name, want) {
			return &AssertionError{Selector: EmployeeNameHeader, Expected: want, Actual: name}
		}
	}
	return nil
}

// SuccessMessage returns the "Saved" toast text, or "" when none is shown.
func (p *EmployeePage) SuccessMessage() string {
	if !p.driver.IsVisible(SavedMessage, 0) {
		return ""
	}
	text, err := p.driver.Text(SavedMessage)
	if err != nil {
		return ""
	}
	return text
}
