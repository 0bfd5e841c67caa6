package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"

	"github.com/entrhq/hrm-acceptance/pkg/fixtures"
	"github.com/entrhq/hrm-acceptance/pkg/pages"
)

func registerEmployee(sc *godog.ScenarioContext) {
	sc.Step(`^I am logged in to OrangeHRM$`, iAmLoggedInToOrangeHRM)
	sc.Step(`^I navigate to the Add Employee page$`, iNavigateToTheAddEmployeePage)
	sc.Step(`^I fill in the employee form with first name "([^"]*)", middle name "([^"]*)", and last name "([^"]*)"$`, iFillInTheEmployeeFormWithMiddleName)
	sc.Step(`^I fill in the employee form with first name "([^"]*)" and last name "([^"]*)"$`, iFillInTheEmployeeForm)
	sc.Step(`^I add a new employee with required information$`, iAddANewEmployeeWithRequiredInformation)
	sc.Step(`^I add a new employee with an employee id$`, iAddANewEmployeeWithAnEmployeeID)
	sc.Step(`^I save the employee form$`, iSaveTheEmployeeForm)
	sc.Step(`^[Tt]he employee should be created successfully$`, theEmployeeShouldBeCreatedSuccessfully)
	sc.Step(`^I should see a success message$`, iShouldSeeASuccessMessage)
	sc.Step(`^the employee "([^"]*)" "([^"]*)" should be displayed$`, theEmployeeShouldBeDisplayed)
}

func iAmLoggedInToOrangeHRM(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	login := s.Login()
	if err := login.Navigate(); err != nil {
		return err
	}
	if err := login.LoginWithDefaultCredentials(); err != nil {
		return err
	}
	if !login.IsLoggedIn() {
		return fmt.Errorf("login as %s did not reach the dashboard", s.Config.Credentials.Username)
	}
	return nil
}

func iNavigateToTheAddEmployeePage(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Employee().NavigateToAddEmployee()
}

func iFillInTheEmployeeFormWithMiddleName(ctx context.Context, first, middle, last string) error {
	return fillEmployeeForm(ctx, pages.EmployeeData{FirstName: first, MiddleName: middle, LastName: last})
}

func iFillInTheEmployeeForm(ctx context.Context, first, last string) error {
	return fillEmployeeForm(ctx, pages.EmployeeData{FirstName: first, LastName: last})
}

func fillEmployeeForm(ctx context.Context, data pages.EmployeeData) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	s.LastEmployee = data
	return s.Employee().FillEmployeeForm(data)
}

func iAddANewEmployeeWithRequiredInformation(ctx context.Context) error {
	return addEmployee(ctx, fixtures.SampleEmployee())
}

func iAddANewEmployeeWithAnEmployeeID(ctx context.Context) error {
	return addEmployee(ctx, fixtures.EmployeeWithID(time.Now()))
}

func addEmployee(ctx context.Context, data pages.EmployeeData) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	s.LastEmployee = data
	return s.Employee().AddEmployee(data)
}

func iSaveTheEmployeeForm(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Employee().SaveEmployee()
}

func theEmployeeShouldBeCreatedSuccessfully(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	expected := s.LastEmployee
	if expected.FirstName == "" && expected.LastName == "" {
		expected = fixtures.SampleEmployee()
	}
	return s.Employee().VerifyEmployeeCreated(expected)
}

func iShouldSeeASuccessMessage(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	assert.NotEmpty(godog.T(ctx), s.Employee().SuccessMessage(), "no success message after saving")
	return nil
}

func theEmployeeShouldBeDisplayed(ctx context.Context, first, last string) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Employee().VerifyEmployeeCreated(pages.EmployeeData{FirstName: first, LastName: last})
}
