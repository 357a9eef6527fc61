package models

import (
	"errors"

	"gorm.io/gorm"
)

// InterpersonalRelationship is the join entity between a person and a
// relative. The unordered pair is unique: the composite index below plus
// the either-direction lookup in RelationshipExistsBetween together
// guarantee at most one record between any two people.
type InterpersonalRelationship struct {
	BaseModel
	PersonID   uint    `json:"person_id" gorm:"not null;uniqueIndex:idx_person_relative"`
	Person     *Person `json:"person,omitempty"`
	RelativeID uint    `json:"relative_id" gorm:"not null;uniqueIndex:idx_person_relative"`
	Relative   *Person `json:"relative,omitempty" gorm:"foreignKey:RelativeID"`

	// How the person and the relative are associated.
	Relation string `json:"relation" gorm:"not null;size:2"`

	// The account that created this record; kept for auditing, nulled
	// when the account is removed.
	CreatedByID *uint `json:"created_by_id,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func CreateRelationship(relationship *InterpersonalRelationship) error {
	return db.Create(relationship).Error
}

// RelationshipExistsBetween reports whether a relationship record links
// the two usernames in either direction, regardless of relation kind.
func RelationshipExistsBetween(username, relativeUsername string) (bool, error) {
	const joinQuery = `INNER JOIN people AS persons ON persons.id = interpersonal_relationships.person_id ` +
		`INNER JOIN people AS relatives ON relatives.id = interpersonal_relationships.relative_id`

	err := db.Joins(joinQuery).
		Where("(persons.username = ? AND relatives.username = ?) OR (persons.username = ? AND relatives.username = ?)",
			username, relativeUsername, relativeUsername, username).
		First(&InterpersonalRelationship{}).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func FetchRelationships(page int) ([]InterpersonalRelationship, *Paging, error) {
	var total int64
	relationships := []InterpersonalRelationship{}

	err := db.Model(&InterpersonalRelationship{}).Count(&total).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	err = db.Scopes(paginate(page, DEFAULT_PAGE_SIZE)).
		Preload("Person").Preload("Relative").
		Order("interpersonal_relationships.id").
		Find(&relationships).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return relationships, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}
