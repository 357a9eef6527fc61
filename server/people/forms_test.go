package people

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var formsToday = date(2021, time.October, 15)

func validPersonForm() PersonForm {
	return PersonForm{
		Username: "johndoe",
		FullName: "John Doe",
		Gender:   MALE,
		Dob:      "1990-03-01",
	}
}

func TestPersonFormValid(t *testing.T) {
	form := validPersonForm()
	formErrors, err := form.Validate(DirectoryStub{}, formsToday)

	assert.Nil(t, err)
	assert.True(t, formErrors.IsEmpty())
}

func TestPersonFormDobTodayIsValid(t *testing.T) {
	// Age 0 passes the plain person form, since no adult/child
	// overlay applies on the generic path.
	form := validPersonForm()
	form.Dob = formsToday.Format("2006-01-02")

	formErrors, err := form.Validate(DirectoryStub{}, formsToday)
	assert.Nil(t, err)
	assert.True(t, formErrors.IsEmpty())
}

func TestPersonFormUsernameErrors(t *testing.T) {
	testCases := []struct {
		description    string
		username       string
		directory      DirectoryStub
		expectedErrors []string
	}{
		{
			"username with spaces",
			"John Doe",
			DirectoryStub{},
			[]string{ErrInvalidUsername.Error()},
		},
		{
			"username already taken",
			"johndoe",
			DirectoryStub{ExistingUsernames: []string{"johndoe"}},
			[]string{ErrUsernameTaken.Error()},
		},
		{
			"username missing",
			"",
			DirectoryStub{},
			[]string{ErrFieldRequired.Error()},
		},
	}

	for _, tcase := range testCases {
		t.Run(tcase.description, func(t *testing.T) {
			form := validPersonForm()
			form.Username = tcase.username

			formErrors, err := form.Validate(tcase.directory, formsToday)
			assert.Nil(t, err)
			assert.Equal(t, tcase.expectedErrors, formErrors["username"])
		})
	}
}

func TestPersonFormUpdateKeepsOwnUsername(t *testing.T) {
	form := validPersonForm()
	directory := DirectoryStub{ExistingUsernames: []string{form.Username}}

	formErrors, err := form.ValidateUpdate(directory, formsToday, form.Username)
	assert.Nil(t, err)
	assert.True(t, formErrors.IsEmpty())
}

func TestPersonFormFullNameErrors(t *testing.T) {
	form := validPersonForm()
	form.FullName = "johndoe"

	formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
	assert.Equal(t, []string{ErrInvalidFullName.Error()}, formErrors["full_name"])
}

func TestPersonFormGenderErrors(t *testing.T) {
	form := validPersonForm()
	form.Gender = "X"

	formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
	assert.Equal(t,
		[]string{"Select a valid choice. X is not one of the available choices."},
		formErrors["gender"])
}

func TestPersonFormDobErrors(t *testing.T) {
	t.Run("date in the future", func(t *testing.T) {
		form := validPersonForm()
		form.Dob = formsToday.AddDate(0, 0, 1).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{ErrDobInFuture.Error()}, formErrors["dob"])
	})

	t.Run("date in the distant past", func(t *testing.T) {
		form := validPersonForm()
		form.Dob = formsToday.AddDate(-(MAX_HUMAN_AGE+1), 0, 0).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{ErrDobInDistantPast.Error()}, formErrors["dob"])
	})

	t.Run("unparseable date", func(t *testing.T) {
		form := validPersonForm()
		form.Dob = "01/03/1990"

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{ErrInvalidDate.Error()}, formErrors["dob"])
	})
}

func TestAdultFormDobErrors(t *testing.T) {
	cutoff := TodaysAdultDob(formsToday).Format("2006-01-02")

	t.Run("child dob", func(t *testing.T) {
		form := AdultForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(-10, 0, 0).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{fmt.Sprintf("Date of birth must be before %v", cutoff)}, formErrors["dob"])
	})

	t.Run("future dob fails both checks, future first", func(t *testing.T) {
		form := AdultForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(0, 0, 1).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Len(t, formErrors["dob"], 2)
		assert.Equal(t, ErrDobInFuture.Error(), formErrors["dob"][0])
	})

	t.Run("distant past dob fails only the base check", func(t *testing.T) {
		form := AdultForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(-(MAX_HUMAN_AGE+1), 0, 0).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{ErrDobInDistantPast.Error()}, formErrors["dob"])
	})

	t.Run("dob exactly on the cutoff is accepted", func(t *testing.T) {
		form := AdultForm{PersonForm: validPersonForm()}
		form.Dob = cutoff

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.True(t, formErrors.IsEmpty())
	})
}

func TestChildFormDobErrors(t *testing.T) {
	cutoff := TodaysAdultDob(formsToday).Format("2006-01-02")

	t.Run("adult dob", func(t *testing.T) {
		form := ChildForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(-30, 0, 0).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{fmt.Sprintf("Date of birth must be after %v", cutoff)}, formErrors["dob"])
	})

	t.Run("future dob fails only the base check", func(t *testing.T) {
		form := ChildForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(0, 0, 1).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Equal(t, []string{ErrDobInFuture.Error()}, formErrors["dob"])
	})

	t.Run("distant past dob fails both checks, distant past first", func(t *testing.T) {
		form := ChildForm{PersonForm: validPersonForm()}
		form.Dob = formsToday.AddDate(-(MAX_HUMAN_AGE+1), 0, 0).Format("2006-01-02")

		formErrors, _ := form.Validate(DirectoryStub{}, formsToday)
		assert.Len(t, formErrors["dob"], 2)
		assert.Equal(t, ErrDobInDistantPast.Error(), formErrors["dob"][0])
	})
}

func TestRelationshipFormValid(t *testing.T) {
	directory := DirectoryStub{ExistingUsernames: []string{"johndoe", "janedoe"}}
	form := RelationshipForm{Person: "johndoe", Relative: "janedoe", Relation: SIBLING}

	formErrors, err := form.Validate(directory)
	assert.Nil(t, err)
	assert.True(t, formErrors.IsEmpty())
}

func TestRelationshipFormDefaultsRelation(t *testing.T) {
	directory := DirectoryStub{ExistingUsernames: []string{"johndoe", "janedoe"}}
	form := RelationshipForm{Person: "johndoe", Relative: "janedoe"}

	formErrors, err := form.Validate(directory)
	assert.Nil(t, err)
	assert.True(t, formErrors.IsEmpty())
	assert.Equal(t, FAMILIAL_RELATIONSHIPS[0], form.Relation)
}

func TestRelationshipFormSelfRelationship(t *testing.T) {
	directory := DirectoryStub{ExistingUsernames: []string{"johndoe"}}

	for _, relation := range []string{ROMANTIC, MARITAL, PARENT_CHILD, SIBLING} {
		form := RelationshipForm{Person: "johndoe", Relative: "johndoe", Relation: relation}

		formErrors, err := form.Validate(directory)
		assert.Nil(t, err)
		assert.Equal(t, []string{ErrSelfRelationship.Error()}, formErrors[NON_FIELD_ERRORS])
	}
}

func TestRelationshipFormDuplicate(t *testing.T) {
	directory := DirectoryStub{
		ExistingUsernames:     []string{"johndoe", "janedoe"},
		ExistingRelationships: [][2]string{{"johndoe", "janedoe"}},
	}

	t.Run("same direction", func(t *testing.T) {
		form := RelationshipForm{Person: "johndoe", Relative: "janedoe", Relation: SIBLING}
		formErrors, _ := form.Validate(directory)
		assert.Equal(t, []string{ErrDuplicateRelationship.Error()}, formErrors[NON_FIELD_ERRORS])
	})

	t.Run("reverse direction with a different kind", func(t *testing.T) {
		form := RelationshipForm{Person: "janedoe", Relative: "johndoe", Relation: MARITAL}
		formErrors, _ := form.Validate(directory)
		assert.Equal(t, []string{ErrDuplicateRelationship.Error()}, formErrors[NON_FIELD_ERRORS])
	})
}

func TestRelationshipFormNonExistentPerson(t *testing.T) {
	directory := DirectoryStub{ExistingUsernames: []string{"johndoe"}}
	form := RelationshipForm{Person: "johndoe", Relative: "does-not-exist", Relation: SIBLING}

	formErrors, _ := form.Validate(directory)
	assert.Equal(t,
		[]string{"A person with the username 'does-not-exist' does not exist."},
		formErrors["relative"])
}

func TestParentChildForm(t *testing.T) {
	directory := DirectoryStub{ExistingUsernames: []string{"johndoe", "jimmydoe"}}

	t.Run("valid", func(t *testing.T) {
		form := ParentChildForm{Parent: "johndoe", Child: "jimmydoe"}
		formErrors, err := form.Validate(directory)
		assert.Nil(t, err)
		assert.True(t, formErrors.IsEmpty())
		assert.Equal(t, PARENT_CHILD, form.RelationshipForm().Relation)
	})

	t.Run("errors keyed by the form's own fields", func(t *testing.T) {
		form := ParentChildForm{Parent: "johndoe", Child: "does-not-exist"}
		formErrors, _ := form.Validate(directory)
		assert.Equal(t,
			[]string{"A person with the username 'does-not-exist' does not exist."},
			formErrors["child"])
	})

	t.Run("self relationship", func(t *testing.T) {
		form := ParentChildForm{Parent: "johndoe", Child: "johndoe"}
		formErrors, _ := form.Validate(directory)
		assert.Equal(t, []string{ErrSelfRelationship.Error()}, formErrors[NON_FIELD_ERRORS])
	})
}
