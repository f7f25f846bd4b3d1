package models

import "time"

type EmploymentType string

const (
	FullTime   EmploymentType = "Full-time"
	PartTime   EmploymentType = "Part-time"
	Internship EmploymentType = "Internship"
)

// EmploymentTypes lists the accepted values in display order.
var EmploymentTypes = []EmploymentType{FullTime, PartTime, Internship}

// Valid reports whether t is one of the known employment types.
func (t EmploymentType) Valid() bool {
	for _, known := range EmploymentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DeadlineLayout is the wire format of JobPostFormData.Deadline.
const DeadlineLayout = "2006-01-02"

// JobPostFormData is the caller-supplied part of a job post.
// Create and update both require all six fields.
type JobPostFormData struct {
	Title          string         `gorm:"size:255;not null" json:"title" validate:"required"`
	Department     string         `gorm:"size:255;not null" json:"department" validate:"required"`
	EmploymentType EmploymentType `gorm:"size:32;not null" json:"employmentType" validate:"required"`
	Description    string         `gorm:"type:text;not null" json:"description" validate:"required"` // HTML
	Location       string         `gorm:"size:255;not null" json:"location" validate:"required"`
	Deadline       string         `gorm:"size:10;not null" json:"deadline" validate:"required"`
}

// JobPost is a stored job opening. ID and CreatedAt are assigned by the store.
type JobPost struct {
	ID              int `gorm:"primaryKey;autoIncrement" json:"id"`
	JobPostFormData `gorm:"embedded"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Fields returns the caller-supplied part of the post.
func (p JobPost) Fields() JobPostFormData {
	return p.JobPostFormData
}
