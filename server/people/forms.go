package people

import (
	"fmt"
	"time"
)

// NON_FIELD_ERRORS is the key under which whole-form errors are reported.
const NON_FIELD_ERRORS = "__all__"

var (
	ErrSelfRelationship      = fmt.Errorf("A person can't have a relationship with themselves.")
	ErrDuplicateRelationship = fmt.Errorf("A relationship between these two people already exists.")
	ErrUsernameTaken         = fmt.Errorf("A person with that username already exists.")
	ErrFieldRequired         = fmt.Errorf("This field is required.")
	ErrInvalidDate           = fmt.Errorf("Enter a valid date.")
)

// FormErrors maps a field name to the messages for the rules it violated.
type FormErrors map[string][]string

func (fe FormErrors) add(field string, err error) {
	fe[field] = append(fe[field], err.Error())
}

func (fe FormErrors) addAll(field string, errs []error) {
	for _, err := range errs {
		fe.add(field, err)
	}
}

func (fe FormErrors) IsEmpty() bool {
	return len(fe) == 0
}

// PersonForm collects the fields for the generic person entry path.
type PersonForm struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Gender      string `json:"gender"`
	Dob         string `json:"dob"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Validate runs the field-level rules for a new person, including the
// username uniqueness check against the directory.
func (form *PersonForm) Validate(directory Directory, today time.Time) (FormErrors, error) {
	return form.validate(directory, today, "")
}

// ValidateUpdate is Validate for an existing person, so that keeping
// the same username is not reported as a collision.
func (form *PersonForm) ValidateUpdate(directory Directory, today time.Time, currentUsername string) (FormErrors, error) {
	return form.validate(directory, today, currentUsername)
}

func (form *PersonForm) validate(directory Directory, today time.Time, currentUsername string) (FormErrors, error) {
	formErrors := FormErrors{}

	form.validateUsername(directory, currentUsername, formErrors)
	form.validateFullName(formErrors)
	form.validateGender(formErrors)
	form.validateDob(today, formErrors)

	return formErrors, nil
}

func (form *PersonForm) validateUsername(directory Directory, currentUsername string, formErrors FormErrors) {
	if form.Username == "" {
		formErrors.add("username", ErrFieldRequired)
		return
	}

	fieldErrors := ValidateUsername(form.Username)
	if len(fieldErrors) > 0 {
		formErrors.addAll("username", fieldErrors)
		return
	}

	// Uniqueness is a form-level concern, checked only once the field
	// validators pass. The db unique index remains the last line of
	// defence against concurrent submissions.
	if form.Username == currentUsername {
		return
	}

	exists, err := directory.PersonExists(form.Username)
	if err == nil && exists {
		formErrors.add("username", ErrUsernameTaken)
	}
}

func (form *PersonForm) validateFullName(formErrors FormErrors) {
	if form.FullName == "" {
		formErrors.add("full_name", ErrFieldRequired)
		return
	}

	if err := ValidateFullName(form.FullName); err != nil {
		formErrors.add("full_name", err)
	}

	if len(form.FullName) > MAX_FULL_NAME_LENGTH {
		formErrors.add("full_name", maxLengthError(MAX_FULL_NAME_LENGTH))
	}
}

func (form *PersonForm) validateGender(formErrors FormErrors) {
	if form.Gender == "" {
		formErrors.add("gender", ErrFieldRequired)
		return
	}

	if !IsValidChoice(form.Gender, GENDER_CHOICES) {
		formErrors.add("gender", invalidChoiceError(form.Gender))
	}
}

func (form *PersonForm) validateDob(today time.Time, formErrors FormErrors) {
	dob, ok := form.parseDob(formErrors)
	if !ok {
		return
	}

	formErrors.addAll("dob", ValidateDateOfBirth(dob, today))
}

func (form *PersonForm) parseDob(formErrors FormErrors) (time.Time, bool) {
	if form.Dob == "" {
		formErrors.add("dob", ErrFieldRequired)
		return time.Time{}, false
	}

	dob, err := time.Parse(dateLayout, form.Dob)
	if err != nil {
		formErrors.add("dob", ErrInvalidDate)
		return time.Time{}, false
	}

	return dob, true
}

// AdultForm layers the age-of-majority overlay on top of the base
// person rules for the adult entry & self-registration paths.
type AdultForm struct {
	PersonForm
}

func (form *AdultForm) Validate(directory Directory, today time.Time) (FormErrors, error) {
	formErrors, err := form.PersonForm.Validate(directory, today)
	if err != nil {
		return nil, err
	}

	if dob, ok := form.parsedDobIfPresent(); ok {
		if err := ValidateAdult(dob, today); err != nil {
			formErrors.add("dob", err)
		}
	}

	return formErrors, nil
}

// ChildForm is the adult form's mirror for the child registration path.
// IsParent marks the registering account's person as the child's parent.
type ChildForm struct {
	PersonForm
	IsParent bool `json:"is_parent,omitempty"`
}

func (form *ChildForm) Validate(directory Directory, today time.Time) (FormErrors, error) {
	formErrors, err := form.PersonForm.Validate(directory, today)
	if err != nil {
		return nil, err
	}

	if dob, ok := form.parsedDobIfPresent(); ok {
		if err := ValidateChild(dob, today); err != nil {
			formErrors.add("dob", err)
		}
	}

	return formErrors, nil
}

// DobTime returns the parsed date of birth, if the field holds one.
func (form *PersonForm) DobTime() (time.Time, bool) {
	return form.parsedDobIfPresent()
}

// parsedDobIfPresent re-parses the dob for the age-band overlays,
// which run even when the base temporal checks have failed.
func (form *PersonForm) parsedDobIfPresent() (time.Time, bool) {
	dob, err := time.Parse(dateLayout, form.Dob)
	if err != nil {
		return time.Time{}, false
	}

	return dob, true
}

// RelationshipForm collects a proposed (person, relative, relation) triple.
type RelationshipForm struct {
	Person   string `json:"person"`
	Relative string `json:"relative"`
	Relation string `json:"relation"`
}

// Validate runs the per-field reference checks, then the cross-field
// integrity rules in order: self-relationship first, duplicates second.
func (form *RelationshipForm) Validate(directory Directory) (FormErrors, error) {
	formErrors := FormErrors{}

	form.validateUsernameRef("person", form.Person, directory, formErrors)
	form.validateUsernameRef("relative", form.Relative, directory, formErrors)
	form.validateRelation(formErrors)

	if !formErrors.IsEmpty() {
		return formErrors, nil
	}

	if form.Person == form.Relative {
		formErrors.add(NON_FIELD_ERRORS, ErrSelfRelationship)
		return formErrors, nil
	}

	exists, err := directory.RelationshipExists(form.Person, form.Relative)
	if err != nil {
		return nil, err
	}

	if exists {
		formErrors.add(NON_FIELD_ERRORS, ErrDuplicateRelationship)
	}

	return formErrors, nil
}

func (form *RelationshipForm) validateUsernameRef(field, username string, directory Directory, formErrors FormErrors) {
	if username == "" {
		formErrors.add(field, ErrFieldRequired)
		return
	}

	if len(username) > MAX_USERNAME_LENGTH {
		formErrors.add(field, maxLengthError(MAX_USERNAME_LENGTH))
		return
	}

	if err := ValidatePersonUsername(username, directory); err != nil {
		formErrors.add(field, err)
	}
}

func (form *RelationshipForm) validateRelation(formErrors FormErrors) {
	if form.Relation == "" {
		form.Relation = FAMILIAL_RELATIONSHIPS[0]
		return
	}

	if !IsValidChoice(form.Relation, INTERPERSONAL_RELATIONSHIP_CHOICES) {
		formErrors.add("relation", invalidChoiceError(form.Relation))
	}
}

// ParentChildForm is the specialized entry point that fixes the
// relation kind and only collects the counterpart username.
type ParentChildForm struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

func (form *ParentChildForm) Validate(directory Directory) (FormErrors, error) {
	relationshipForm := form.RelationshipForm()
	formErrors, err := relationshipForm.Validate(directory)
	if err != nil {
		return nil, err
	}

	return remapFields(formErrors, map[string]string{"person": "parent", "relative": "child"}), nil
}

func (form *ParentChildForm) RelationshipForm() *RelationshipForm {
	return &RelationshipForm{
		Person:   form.Parent,
		Relative: form.Child,
		Relation: PARENT_CHILD,
	}
}

func invalidChoiceError(value string) error {
	return fmt.Errorf("Select a valid choice. %v is not one of the available choices.", value)
}

func remapFields(formErrors FormErrors, mapping map[string]string) FormErrors {
	remapped := FormErrors{}
	for field, messages := range formErrors {
		if renamed, ok := mapping[field]; ok {
			field = renamed
		}
		remapped[field] = messages
	}

	return remapped
}
