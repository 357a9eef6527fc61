package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFeverish(t *testing.T) {
	assert.False(t, (&TemperatureRecord{BodyTemperature: 36.6}).IsFeverish())
	assert.False(t, (&TemperatureRecord{BodyTemperature: 37.9}).IsFeverish())
	assert.True(t, (&TemperatureRecord{BodyTemperature: FEVER_THRESHOLD}).IsFeverish(), "the threshold itself counts as a fever")
	assert.True(t, (&TemperatureRecord{BodyTemperature: 39.4}).IsFeverish())
}

func TestFetchTemperatureRecords(t *testing.T) {
	InitializeTestDb()

	otieno := Person{Username: "otieno.j", FullName: "Otieno Juma", Gender: "M", Dob: dateOf(t, "1982-09-09")}
	assert.Nil(t, CreatePerson(&otieno))

	assert.Nil(t, CreateTemperatureRecord(&TemperatureRecord{PersonID: otieno.ID, BodyTemperature: 36.7}))
	assert.Nil(t, CreateTemperatureRecord(&TemperatureRecord{PersonID: otieno.ID, BodyTemperature: 38.2}))

	results, paging, err := FetchTemperatureRecords("otieno.j", 1)
	assert.Nil(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int64(2), paging.Total)
	assert.Equal(t, 38.2, results[0].BodyTemperature, "latest reading comes first")

	for _, record := range results {
		assert.NotNil(t, record.Person)
		assert.Equal(t, "otieno.j", record.Person.Username)
	}

	results, _, err = FetchTemperatureRecords("no-such-username", 1)
	assert.Nil(t, err)
	assert.Len(t, results, 0)
}
