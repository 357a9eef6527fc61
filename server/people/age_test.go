package people

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	today := date(2021, time.October, 15)

	testCases := []struct {
		description string
		dob         time.Time
		expectedAge int
	}{
		{"birthday earlier this year", date(1990, time.March, 1), 31},
		{"birthday later this year", date(1990, time.December, 1), 30},
		{"birthday today", date(2003, time.October, 15), 18},
		{"birthday tomorrow", date(2003, time.October, 16), 17},
		{"born today", today, 0},
		{"born tomorrow", date(2021, time.October, 16), -1},
	}

	for _, tcase := range testCases {
		t.Run(tcase.description, func(t *testing.T) {
			assert.Equal(t, tcase.expectedAge, Age(tcase.dob, today))
		})
	}
}

func TestAgeCategory(t *testing.T) {
	testCases := []struct {
		age              int
		expectedCategory string
	}{
		{0, "child"},
		{12, "child"},
		{13, "teenager"},
		{19, "teenager"},
		{20, "young adult"},
		{35, "young adult"},
		{36, "adult"},
		{44, "adult"},
		{45, "middle-aged"},
		{65, "middle-aged"},
		{66, "senior citizen"},
		{120, "senior citizen"},
	}

	for _, tcase := range testCases {
		t.Run(fmt.Sprintf("age %v", tcase.age), func(t *testing.T) {
			category, err := AgeCategory(tcase.age)
			assert.Nil(t, err)
			assert.Equal(t, tcase.expectedCategory, category)
		})
	}
}

func TestAgeCategoryIsTotal(t *testing.T) {
	// Every age from 0 to MAX_HUMAN_AGE must land in exactly one band.
	for age := 0; age <= MAX_HUMAN_AGE; age++ {
		category, err := AgeCategory(age)
		assert.Nil(t, err, "age %v should be categorized", age)
		assert.NotEmpty(t, category, "age %v should have a category", age)
	}
}

func TestAgeCategoryErrors(t *testing.T) {
	_, err := AgeCategory(-1)
	assert.Equal(t, ErrNegativeAge, err)

	_, err = AgeCategory(MAX_HUMAN_AGE + 1)
	assert.Equal(t, ErrMaxHumanAgeExceeded, err)
}

func TestTodaysAdultDob(t *testing.T) {
	today := date(2021, time.October, 15)
	assert.Equal(t, date(2003, time.October, 15), TodaysAdultDob(today))
}
