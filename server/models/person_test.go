package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dateOf(t *testing.T, value string) *time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	assert.Nil(t, err)

	return &parsed
}

func TestCreateAndFindPerson(t *testing.T) {
	InitializeTestDb()

	person := Person{
		Username: "wanjiku.k",
		FullName: "Wanjiku Kamau",
		Gender:   "F",
		Dob:      dateOf(t, "1990-06-15"),
	}
	assert.Nil(t, CreatePerson(&person))

	found, err := FindPersonBy("username", "wanjiku.k")
	assert.Nil(t, err)
	assert.Equal(t, "Wanjiku Kamau", found.FullName)

	exists, err := PersonExists("wanjiku.k")
	assert.Nil(t, err)
	assert.True(t, exists)

	exists, err = PersonExists("no-such-person")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestAgeToday(t *testing.T) {
	InitializeTestDb()

	person := Person{
		Username: "njoroge.m",
		FullName: "Njoroge Mwangi",
		Gender:   "M",
		Dob:      dateOf(t, "2000-03-10"),
	}
	assert.Nil(t, CreatePerson(&person))

	age, err := person.AgeToday(*dateOf(t, "2022-03-09"))
	assert.Nil(t, err)
	assert.Equal(t, 21, age, "age should not roll over until the birthday")

	age, err = person.AgeToday(*dateOf(t, "2022-03-10"))
	assert.Nil(t, err)
	assert.Equal(t, 22, age)

	noDob := Person{Username: "no-dob", FullName: "No Dob"}
	_, err = noDob.AgeToday(time.Now())
	assert.NotNil(t, err, "a person without a dob has no age")
}

func TestUpdatePerson(t *testing.T) {
	InitializeTestDb()

	person := Person{
		Username: "akinyi.o",
		FullName: "Akinyi Otieno",
		Gender:   "F",
		Dob:      dateOf(t, "1985-01-20"),
	}
	assert.Nil(t, CreatePerson(&person))

	err := person.Update(map[string]interface{}{
		"full_name":    "Akinyi Odhiambo",
		"phone_number": "+254700000001",
	})
	assert.Nil(t, err)

	updated, err := FindPersonBy("username", "akinyi.o")
	assert.Nil(t, err)
	assert.Equal(t, "Akinyi Odhiambo", updated.FullName)
	assert.Equal(t, "+254700000001", updated.PhoneNumber)
}

func TestFetchPeopleSearch(t *testing.T) {
	InitializeTestDb()

	for i := 0; i < 12; i++ {
		person := Person{
			Username: fmt.Sprintf("paged-%02d", i),
			FullName: fmt.Sprintf("Paged Person %02d", i),
			Gender:   "M",
			Dob:      dateOf(t, "1990-01-01"),
		}
		assert.Nil(t, CreatePerson(&person))
	}

	results, paging, err := FetchPeople("paged-", 1)
	assert.Nil(t, err)
	assert.Len(t, results, DEFAULT_PAGE_SIZE)
	assert.Equal(t, int64(12), paging.Total)
	assert.Equal(t, int64(2), paging.Pages)
	assert.Equal(t, "paged-00", results[0].Username, "results should be ordered by username")

	results, _, err = FetchPeople("paged-", 2)
	assert.Nil(t, err)
	assert.Len(t, results, 2)

	// full name search
	results, _, err = FetchPeople("Paged Person 03", 1)
	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "paged-03", results[0].Username)
}

func TestPurgeIncompleteRecords(t *testing.T) {
	InitializeTestDb()

	complete := Person{
		Username: "complete-p",
		FullName: "Complete Person",
		Gender:   "F",
		Dob:      dateOf(t, "1970-05-05"),
	}
	incomplete := Person{
		Username: "incomplete-p",
		FullName: "Incomplete Person",
		Gender:   "M",
	}
	assert.Nil(t, CreatePerson(&complete))
	assert.Nil(t, CreatePerson(&incomplete))

	// attach dependent records to the incomplete person
	assert.Nil(t, CreateRelationship(&InterpersonalRelationship{
		PersonID:   incomplete.ID,
		RelativeID: complete.ID,
		Relation:   "S",
	}))
	assert.Nil(t, CreateTemperatureRecord(&TemperatureRecord{
		PersonID:        incomplete.ID,
		BodyTemperature: 36.5,
	}))

	count, err := PurgeIncompleteRecords()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := PersonExists("incomplete-p")
	assert.Nil(t, err)
	assert.False(t, exists, "the incomplete person should be gone")

	exists, err = PersonExists("complete-p")
	assert.Nil(t, err)
	assert.True(t, exists, "people with a dob are untouched")

	linked, err := RelationshipExistsBetween("complete-p", "incomplete-p")
	assert.Nil(t, err)
	assert.False(t, linked, "the purge should take dependent records with it")
}
