package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecrew/timeclock/internal/pkg/validator"
)

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{EmployeeCode: "1234-5678", PIN: "4821"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{}
	err := missing.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	m := errs.ToMap()
	assert.Contains(t, m, "employee_code")
	assert.Contains(t, m, "pin")

	badCode := LoginRequest{EmployeeCode: "12345678", PIN: "4821"}
	err = badCode.Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "employee_code")
}
