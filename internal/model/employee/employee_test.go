package employee

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{"fullName":"John Doe","avatar":"http://x.com/a.png","department":"Sales","birthDate":"1990-01-01","salary":50000}`

func TestDecodeDraftValid(t *testing.T) {
	d, err := DecodeDraft(strings.NewReader(validBody))
	require.NoError(t, err)

	e := d.Employee()
	assert.Empty(t, e.ID)
	assert.Equal(t, "John Doe", e.FullName)
	assert.Equal(t, "Sales", e.Department)
	assert.Equal(t, 50000.0, e.Salary)
}

func TestDecodeDraftZeroSalaryAllowed(t *testing.T) {
	body := strings.Replace(validBody, "50000", "0", 1)
	_, err := DecodeDraft(strings.NewReader(body))
	require.NoError(t, err)
}

func TestDecodeDraftReportsEveryFailedField(t *testing.T) {
	body := `{"id":"not-a-uuid","fullName":"J","avatar":"nope","department":"","birthDate":"01/01/1990","salary":-1}`
	_, err := DecodeDraft(strings.NewReader(body))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t,
		"id: Invalid UUID; fullName: Full Name is required; avatar: Avatar must be a valid URL; "+
			"department: Department is required; birthDate: Birth Date must be in YYYY-MM-DD format; "+
			"salary: Salary must be a positive number",
		verr.Error())
}

func TestDecodeDraftMissingSalary(t *testing.T) {
	body := `{"fullName":"John Doe","avatar":"http://x.com/a.png","department":"Sales","birthDate":"1990-01-01"}`
	_, err := DecodeDraft(strings.NewReader(body))
	require.EqualError(t, err, "salary: Salary must be a positive number")
}

func TestDecodeDraftBirthDateShapeOnly(t *testing.T) {
	body := strings.Replace(validBody, "1990-01-01", "1990-02-31", 1)
	_, err := DecodeDraft(strings.NewReader(body))
	require.NoError(t, err)
}

func TestDecodeDraftTypeMismatch(t *testing.T) {
	body := strings.Replace(validBody, "50000", `"lots"`, 1)
	_, err := DecodeDraft(strings.NewReader(body))
	require.EqualError(t, err, "salary: expected number")
}

func TestDecodeDraftMalformed(t *testing.T) {
	_, err := DecodeDraft(strings.NewReader(`{"fullName":`))
	require.EqualError(t, err, "body: invalid JSON")
}

func TestDecodeDraftKeysAreCaseSensitive(t *testing.T) {
	body := `{"FULLNAME":"John Doe","AVATAR":"http://x.com/a.png","department":"Sales","BIRTHDATE":"1990-01-01","SALARY":5}`
	_, err := DecodeDraft(strings.NewReader(body))
	require.EqualError(t, err,
		"fullName: Full Name is required; avatar: Avatar must be a valid URL; "+
			"birthDate: Birth Date must be in YYYY-MM-DD format; salary: Salary must be a positive number")
}

func TestDecodeDraftRejectsTrailingData(t *testing.T) {
	for _, tail := range []string{" trailing garbage", ` {}`, `]`} {
		_, err := DecodeDraft(strings.NewReader(validBody + tail))
		require.EqualError(t, err, "body: invalid JSON", tail)
	}

	_, err := DecodeDraft(strings.NewReader(validBody + "\n"))
	require.NoError(t, err)
}

func TestDecodePatchIgnoresMiscasedKeys(t *testing.T) {
	p, err := DecodePatch(strings.NewReader(`{"Salary":1000,"DEPARTMENT":"Finance"}`))
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	_, err = DecodePatch(strings.NewReader(`{"salary":1000} {"salary":2}`))
	require.EqualError(t, err, "body: invalid JSON")
}

func TestDecodePatchIgnoresIdentifier(t *testing.T) {
	p, err := DecodePatch(strings.NewReader(`{"id":"other","salary":1000}`))
	require.NoError(t, err)
	require.NotNil(t, p.Salary)
	assert.Equal(t, 1000.0, *p.Salary)
	assert.Nil(t, p.FullName)
}

func TestDecodePatchValidatesSuppliedFieldsOnly(t *testing.T) {
	_, err := DecodePatch(strings.NewReader(`{"department":"X"}`))
	require.EqualError(t, err, "department: Department is required")

	p, err := DecodePatch(strings.NewReader(`{"department":"Finance"}`))
	require.NoError(t, err)
	assert.False(t, p.IsEmpty())
}

func TestPatchApply(t *testing.T) {
	orig := Employee{ID: "1", FullName: "John Doe", Avatar: "http://x.com/a.png", Department: "Sales", BirthDate: "1990-01-01", Salary: 50000}
	salary := 1000.0

	got := Patch{Salary: &salary}.Apply(orig)

	want := orig
	want.Salary = 1000
	assert.Equal(t, want, got)
	assert.Equal(t, 50000.0, orig.Salary)
	assert.True(t, Patch{}.IsEmpty())
}

func TestDecodePatchRejectsEmptyString(t *testing.T) {
	_, err := DecodePatch(strings.NewReader(`{"fullName":""}`))
	require.EqualError(t, err, "fullName: Full Name is required")
}
