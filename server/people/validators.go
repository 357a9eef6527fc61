package people

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MAX_USERNAME_LENGTH  = 25
	MAX_FULL_NAME_LENGTH = 150

	dateLayout = "2006-01-02"
)

var (
	ErrInvalidFullName  = fmt.Errorf("A full name must consist of at least two names.")
	ErrDobInFuture      = fmt.Errorf("Date of birth can't be in the future.")
	ErrDobInDistantPast = fmt.Errorf("Date of birth can't be more than %v years ago.", MAX_HUMAN_AGE)
	ErrInvalidUsername  = fmt.Errorf("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")

	usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Directory is the read-only view of existing records that the
// cross-field form checks need.
type Directory interface {
	PersonExists(username string) (bool, error)
	RelationshipExists(username, relativeUsername string) (bool, error)
}

// ValidateUsername checks the username character set and length.
func ValidateUsername(value string) []error {
	errs := []error{}

	if !usernameRegexp.MatchString(value) {
		errs = append(errs, ErrInvalidUsername)
	}

	if len(value) > MAX_USERNAME_LENGTH {
		errs = append(errs, maxLengthError(MAX_USERNAME_LENGTH))
	}

	return errs
}

// ValidateFullName requires at least two whitespace-separated names.
func ValidateFullName(value string) error {
	if len(strings.Fields(value)) < 2 {
		return ErrInvalidFullName
	}

	return nil
}

// ValidateDateOfBirth applies the base temporal sanity checks. Both may
// fail at once, with the future-date error always reported first.
func ValidateDateOfBirth(dob, today time.Time) []error {
	errs := []error{}

	if dob.After(today) {
		errs = append(errs, ErrDobInFuture)
	}

	if Age(dob, today) > MAX_HUMAN_AGE {
		errs = append(errs, ErrDobInDistantPast)
	}

	return errs
}

// ValidateAdult fails for a date of birth implying an age below the
// age of majority. The cutoff is recomputed relative to 'today'.
func ValidateAdult(dob, today time.Time) error {
	if Age(dob, today) < AGE_OF_MAJORITY {
		return fmt.Errorf("Date of birth must be before %v", TodaysAdultDob(today).Format(dateLayout))
	}

	return nil
}

// ValidateChild is the mirror of ValidateAdult.
func ValidateChild(dob, today time.Time) error {
	if Age(dob, today) >= AGE_OF_MAJORITY {
		return fmt.Errorf("Date of birth must be after %v", TodaysAdultDob(today).Format(dateLayout))
	}

	return nil
}

// ValidatePersonUsername requires that a person with the given username
// already exists, for fields that reference people rather than name them.
func ValidatePersonUsername(username string, directory Directory) error {
	exists, err := directory.PersonExists(username)
	if err != nil {
		return err
	}

	if !exists {
		return personDoesNotExistError(username)
	}

	return nil
}

func personDoesNotExistError(username string) error {
	return fmt.Errorf("A person with the username '%v' does not exist.", username)
}

func maxLengthError(maxLength int) error {
	return fmt.Errorf("Ensure this value has at most %v characters.", maxLength)
}
