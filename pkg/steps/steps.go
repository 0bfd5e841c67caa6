// Package steps binds the Gherkin step patterns of the login and employee
// features to page-object operations.
//
// Steps find their page objects in the scenario State placed on the context
// by the lifecycle hooks; nothing is kept between scenarios.
package steps

import (
	"github.com/cucumber/godog"
)

// Register binds every step pattern to sc.
func Register(sc *godog.ScenarioContext) {
	registerLogin(sc)
	registerEmployee(sc)
}
