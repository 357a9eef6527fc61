package models

import (
	"errors"

	"gorm.io/gorm"
)

// FEVER_THRESHOLD is the body temperature (°C) at & above which an
// alert job is enqueued for the person's record.
const FEVER_THRESHOLD = 38.0

type TemperatureRecord struct {
	BaseModel
	PersonID        uint    `json:"person_id" gorm:"not null"`
	Person          *Person `json:"person,omitempty"`
	BodyTemperature float64 `json:"body_temperature" validate:"required,gte=30,lte=45"`

	// The account that created this record.
	CreatedByID *uint `json:"created_by_id,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// IsFeverish reports whether this reading should trigger an alert.
func (record *TemperatureRecord) IsFeverish() bool {
	return record.BodyTemperature >= FEVER_THRESHOLD
}

func CreateTemperatureRecord(record *TemperatureRecord) error {
	return db.Create(record).Error
}

// FetchTemperatureRecords returns a page of temperature records,
// optionally narrowed by a search over the person's username & full name.
func FetchTemperatureRecords(query string, page int) ([]TemperatureRecord, *Paging, error) {
	const joinQuery = "INNER JOIN people ON people.id = temperature_records.person_id"

	var total int64
	records := []TemperatureRecord{}

	scope := db.Model(&TemperatureRecord{}).Joins(joinQuery)
	if query != "" {
		pattern := "%" + query + "%"
		scope = scope.Where("people.username LIKE ? OR people.full_name LIKE ?", pattern, pattern)
	}

	err := scope.Count(&total).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	err = scope.Scopes(paginate(page, DEFAULT_PAGE_SIZE)).
		Preload("Person").Order("temperature_records.id desc").
		Find(&records).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	return records, newPaging(int64(page), DEFAULT_PAGE_SIZE, total), nil
}
