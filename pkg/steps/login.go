package steps

import (
	"context"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"

	"github.com/entrhq/hrm-acceptance/pkg/fixtures"
)

func registerLogin(sc *godog.ScenarioContext) {
	sc.Step(`^I am on the login page$`, iAmOnTheLoginPage)
	sc.Step(`^I enter valid credentials$`, iEnterValidCredentials)
	sc.Step(`^I enter invalid credentials$`, iEnterInvalidCredentials)
	sc.Step(`^I enter username "([^"]*)" and password "([^"]*)"$`, iEnterUsernameAndPassword)
	sc.Step(`^I click the login button$`, iClickTheLoginButton)
	sc.Step(`^I should be logged in successfully$`, iShouldBeLoggedInSuccessfully)
	sc.Step(`^I should see an error message$`, iShouldSeeAnErrorMessage)
	sc.Step(`^I should see error message "([^"]*)"$`, iShouldSeeErrorMessage)
	sc.Step(`^I should remain on the login page$`, iShouldRemainOnTheLoginPage)
}

func iAmOnTheLoginPage(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().Navigate()
}

func iEnterValidCredentials(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().LoginWithCredentials(fixtures.ValidCredentials)
}

func iEnterInvalidCredentials(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().LoginWithCredentials(fixtures.InvalidCredentials)
}

func iEnterUsernameAndPassword(ctx context.Context, username, password string) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().FillLoginForm(username, password)
}

func iClickTheLoginButton(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().ClickLoginButton()
}

func iShouldBeLoggedInSuccessfully(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	assert.True(godog.T(ctx), s.Login().IsLoggedIn(), "dashboard header not visible after login")
	return nil
}

func iShouldSeeAnErrorMessage(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	assert.NotEmpty(godog.T(ctx), s.Login().ErrorMessage(), "no login error message shown")
	return nil
}

func iShouldSeeErrorMessage(ctx context.Context, expected string) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return s.Login().VerifyErrorMessage(expected)
}

func iShouldRemainOnTheLoginPage(ctx context.Context) error {
	s, err := FromContext(ctx)
	if err != nil {
		return err
	}
	assert.True(godog.T(ctx), s.Login().IsOnLoginPage(), "login form no longer visible")
	return nil
}
