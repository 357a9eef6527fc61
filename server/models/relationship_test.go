package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipExistsBetween(t *testing.T) {
	InitializeTestDb()

	baraka := Person{Username: "baraka.n", FullName: "Baraka Njenga", Gender: "M", Dob: dateOf(t, "1960-02-02")}
	zawadi := Person{Username: "zawadi.n", FullName: "Zawadi Njenga", Gender: "F", Dob: dateOf(t, "1995-08-08")}
	chep := Person{Username: "chep.k", FullName: "Chepkirui Koech", Gender: "F", Dob: dateOf(t, "1992-04-04")}

	assert.Nil(t, CreatePerson(&baraka))
	assert.Nil(t, CreatePerson(&zawadi))
	assert.Nil(t, CreatePerson(&chep))

	assert.Nil(t, CreateRelationship(&InterpersonalRelationship{
		PersonID:   baraka.ID,
		RelativeID: zawadi.ID,
		Relation:   "PC",
	}))

	exists, err := RelationshipExistsBetween("baraka.n", "zawadi.n")
	assert.Nil(t, err)
	assert.True(t, exists)

	// the pair is unordered
	exists, err = RelationshipExistsBetween("zawadi.n", "baraka.n")
	assert.Nil(t, err)
	assert.True(t, exists)

	exists, err = RelationshipExistsBetween("baraka.n", "chep.k")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestDuplicateRelationshipRejectedByDb(t *testing.T) {
	InitializeTestDb()

	kiptoo := Person{Username: "kiptoo.a", FullName: "Kiptoo Arap", Gender: "M", Dob: dateOf(t, "1988-11-11")}
	jeni := Person{Username: "jeni.w", FullName: "Jeni Wairimu", Gender: "F", Dob: dateOf(t, "1989-12-12")}

	assert.Nil(t, CreatePerson(&kiptoo))
	assert.Nil(t, CreatePerson(&jeni))

	assert.Nil(t, CreateRelationship(&InterpersonalRelationship{
		PersonID:   kiptoo.ID,
		RelativeID: jeni.ID,
		Relation:   "M",
	}))

	err := CreateRelationship(&InterpersonalRelationship{
		PersonID:   kiptoo.ID,
		RelativeID: jeni.ID,
		Relation:   "R",
	})
	assert.NotNil(t, err, "the unique index should reject a second record for the same pair")
}

func TestFetchRelationships(t *testing.T) {
	InitializeTestDb()

	mumbi := Person{Username: "mumbi.g", FullName: "Mumbi Gathoni", Gender: "F", Dob: dateOf(t, "1975-06-06")}
	kamande := Person{Username: "kamande.g", FullName: "Kamande Gathoni", Gender: "M", Dob: dateOf(t, "2005-07-07")}

	assert.Nil(t, CreatePerson(&mumbi))
	assert.Nil(t, CreatePerson(&kamande))
	assert.Nil(t, CreateRelationship(&InterpersonalRelationship{
		PersonID:   mumbi.ID,
		RelativeID: kamande.ID,
		Relation:   "PC",
	}))

	results, paging, err := FetchRelationships(1)
	assert.Nil(t, err)
	assert.GreaterOrEqual(t, len(results), 1)
	assert.GreaterOrEqual(t, paging.Total, int64(1))

	for _, relationship := range results {
		assert.NotNil(t, relationship.Person, "both sides should be preloaded")
		assert.NotNil(t, relationship.Relative, "both sides should be preloaded")
	}
}
