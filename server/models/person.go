package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var personUpdatableFields = []string{
	"username",
	"full_name",
	"gender",
	"dob",
	"phone_number",
}

type Person struct {
	BaseModel
	Username    string     `json:"username" gorm:"not null;unique;size:25"`
	FullName    string     `json:"full_name" gorm:"not null;size:150"`
	Gender      string     `json:"gender" gorm:"not null;size:1"`
	Dob         *time.Time `json:"dob"`
	PhoneNumber string     `json:"phone_number,omitempty"`

	// Optional link to the authentication account this person belongs to.
	UserID *uint `json:"user_id,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	Relationships        []InterpersonalRelationship `json:"relationships,omitempty" gorm:"foreignKey:PersonID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReverseRelationships []InterpersonalRelationship `json:"-" gorm:"foreignKey:RelativeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TemperatureRecords   []TemperatureRecord         `json:"temperature_records,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AgeToday is this person's age in whole completed years as of 'today'.
func (person *Person) AgeToday(today time.Time) (int, error) {
	if person.Dob == nil {
		return 0, fmt.Errorf("person %v has no date of birth on record", person.Username)
	}

	dob := *person.Dob
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}

	return age, nil
}

func (person *Person) Update(data map[string]interface{}) error {
	return db.Model(&Person{}).Where("id = ?", person.ID).
		Select(personUpdatableFields).Updates(data).Error
}

func CreatePerson(person *Person) error {
	return db.Create(person).Error
}

func FindPersonBy(field string, value interface{}) (*Person, error) {
	person := Person{}
	err := db.First(&person, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func PersonExists(username string) (bool, error) {
	err := db.First(&Person{}, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// FetchPeople returns a page of people, optionally narrowed by a free-text
// search over username & full name.
func FetchPeople(query string, page int) ([]Person, *Paging, error) {
	var total int64
	people := []Person{}

	scope := db.Model(&Person{})
	if query != "" {
		pattern := "%" + query + "%"
		scope = scope.Where("username LIKE ? OR full_name LIKE ?", pattern, pattern)
	}

	err := scope.Count(&total).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	err = scope.Scopes(paginate(page, DEFAULT_PAGE_SIZE)).
		Order("username").Find(&people).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return people, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}

func DeletePerson(person *Person) error {
	return db.Select(clause.Associations).Delete(person).Error
}

// PurgeIncompleteRecords removes legacy people with no date of birth on
// record, along with their temperature records & relationships. Returns
// the number of people removed.
func PurgeIncompleteRecords() (int64, error) {
	incomplete := []Person{}

	err := db.Where("dob IS NULL").Find(&incomplete).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	for i := range incomplete {
		if err := DeletePerson(&incomplete[i]); err != nil {
			return 0, err
		}
	}

	return int64(len(incomplete)), nil
}
