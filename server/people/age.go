package people

import (
	"fmt"
	"time"
)

var (
	ErrNegativeAge         = fmt.Errorf("Age can't be negative!")
	ErrMaxHumanAgeExceeded = fmt.Errorf("Age shouldn't exceed %v!", MAX_HUMAN_AGE)
)

// Age category bands, derived from the configured age ranges.
// Each band is inclusive on both ends; they must remain
// monotonically increasing for AgeCategory to be well-defined.
var (
	childBand         = AgeRange{Start: 0, End: TEENAGE.Start - 1}
	teenagerBand      = TEENAGE
	youngAdultBand    = YOUNG_ADULTHOOD
	adultBand         = AgeRange{Start: YOUNG_ADULTHOOD.End + 1, End: MIDDLE_AGE.Start - 1}
	middleAgedBand    = MIDDLE_AGE
	seniorCitizenBand = AgeRange{Start: AGE_OF_SENIORITY + 1, End: MAX_HUMAN_AGE}
)

// Age returns the whole completed years between dob and today
// i.e the calendar-year difference, less one if today's (month, day)
// falls before dob's.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()

	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}

	return age
}

// AgeCategory maps an age in whole years to one of six life-stage labels.
func AgeCategory(age int) (string, error) {
	switch {
	case age < childBand.Start:
		return "", ErrNegativeAge
	case age < teenagerBand.Start:
		return "child", nil
	case age < youngAdultBand.Start:
		return "teenager", nil
	case age < adultBand.Start:
		return "young adult", nil
	case age < middleAgedBand.Start:
		return "adult", nil
	case age < seniorCitizenBand.Start:
		return "middle-aged", nil
	case age <= seniorCitizenBand.End:
		return "senior citizen", nil
	default:
		return "", ErrMaxHumanAgeExceeded
	}
}

// TodaysAdultDob returns the latest date of birth for which a person
// is considered an adult as of 'today'.
func TodaysAdultDob(today time.Time) time.Time {
	return today.AddDate(-AGE_OF_MAJORITY, 0, 0)
}
