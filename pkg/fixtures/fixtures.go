// Package fixtures holds the accounts, employees and expected messages used
// by the scenarios.
package fixtures

import (
	"strconv"
	"time"

	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/pages"
)

// Employee is the data entered on the Add Employee form.
type Employee = pages.EmployeeData

var (
	// ValidCredentials is the demo administrator account.
	ValidCredentials = config.Credentials{Username: "Admin", Password: "admin123"}

	// InvalidCredentials is an account the application rejects.
	InvalidCredentials = config.Credentials{Username: "InvalidUser", Password: "InvalidPass"}
)

// InvalidCredentialsMessage is the login error shown for a rejected account.
const InvalidCredentialsMessage = "Invalid credentials"

// employeeIDLength is the longest id the Add Employee form accepts.
const employeeIDLength = 10

// SampleEmployee returns the employee created by the "required information"
// scenario.
func SampleEmployee() Employee {
	return Employee{
		FirstName:  "John",
		MiddleName: "Michael",
		LastName:   "Doe",
	}
}

// EmployeeWithID returns an employee with an id derived from at, so repeated
// runs do not collide.
func EmployeeWithID(at time.Time) Employee {
	return Employee{
		FirstName:  "Jane",
		LastName:   "Smith",
		EmployeeID: UniqueEmployeeID(at),
	}
}

// UniqueEmployeeID returns the first ten digits of at in unix milliseconds.
func UniqueEmployeeID(at time.Time) string {
	id := strconv.FormatInt(at.UnixMilli(), 10)
	if len(id) > employeeIDLength {
		id = id[:employeeIDLength]
	}
	return id
}
