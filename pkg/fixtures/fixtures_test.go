package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleEmployee(t *testing.T) {
	e := SampleEmployee()
	assert.Equal(t, "John Michael Doe", e.FullName())
	assert.Empty(t, e.EmployeeID)

	// callers get their own copy
	e.FirstName = "Changed"
	assert.Equal(t, "John", SampleEmployee().FirstName)
}

func TestEmployeeWithID(t *testing.T) {
	at := time.UnixMilli(1718000000123)
	e := EmployeeWithID(at)

	assert.Equal(t, "Jane", e.FirstName)
	assert.Equal(t, "Smith", e.LastName)
	assert.Empty(t, e.MiddleName)
	assert.Equal(t, "1718000000", e.EmployeeID)
}

func TestUniqueEmployeeID(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"thirteen digits", time.UnixMilli(1718000000123), "1718000000"},
		{"short value kept", time.UnixMilli(42), "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueEmployeeID(tt.at))
		})
	}
}

func TestCredentials(t *testing.T) {
	assert.NotEqual(t, ValidCredentials, InvalidCredentials)
	assert.Equal(t, "Invalid credentials", InvalidCredentialsMessage)
}
