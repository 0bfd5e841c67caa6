package pages

// Login page landmarks.
const (
	UsernameInput   = `input[name="username"]`
	PasswordInput   = `input[name="password"]`
	LoginButton     = `button[type="submit"]`
	LoginError      = `.oxd-alert-content-text`
	DashboardHeader = `.oxd-topbar-header-breadcrumb`
)

// Employee (PIM) page landmarks.
const (
	PIMMenu            = `a[href*="pim"] >> nth=0`
	AddEmployeeMenu    = `//li[a[text()="Add Employee"]]`
	FirstNameInput     = `input[name="firstName"]`
	MiddleNameInput    = `input[name="middleName"]`
	LastNameInput      = `input[name="lastName"]`
	EmployeeIDInput    = `//div[label[text()="Employee Id"]]/following::input[1]`
	SaveButton         = `button[type="submit"]`
	SavedMessage       = `//*[contains(text(), "Saved")]`
	EmployeeNameHeader = `.orangehrm-edit-employee-name`
)

// LoginPath is appended to the base URL to reach the login form.
const LoginPath = "/auth/login"
