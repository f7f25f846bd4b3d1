package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/justsurfingit/job-posts/internal/models"
)

// formFlags binds the job post form to a flag set. Unset flags leave the
// corresponding field of the base form untouched.
type formFlags struct {
	title, department, employmentType string
	description, descriptionFile      string
	location, deadline                string
}

func (f *formFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "job title")
	fs.StringVar(&f.department, "department", "", "department")
	fs.StringVar(&f.employmentType, "type", "", "employment type: Full-time, Part-time or Internship")
	fs.StringVar(&f.description, "description", "", "job description (HTML)")
	fs.StringVar(&f.descriptionFile, "description-file", "", "read the HTML description from this file")
	fs.StringVar(&f.location, "location", "", "location")
	fs.StringVar(&f.deadline, "deadline", "", "application deadline (YYYY-MM-DD)")
}

func (f *formFlags) apply(base models.JobPostFormData) (models.JobPostFormData, error) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Title, f.title)
	set(&base.Department, f.department)
	set(&base.Location, f.location)
	set(&base.Deadline, f.deadline)
	if f.employmentType != "" {
		base.EmploymentType = models.EmploymentType(f.employmentType)
	}
	set(&base.Description, f.description)
	if f.descriptionFile != "" {
		raw, err := os.ReadFile(f.descriptionFile)
		if err != nil {
			return base, fmt.Errorf("read description: %w", err)
		}
		base.Description = string(raw)
	}
	return base, nil
}

// validateForm applies the rules the form enforces before anything is sent.
func validateForm(d models.JobPostFormData) error {
	var problems []string
	switch title := strings.TrimSpace(d.Title); {
	case title == "":
		problems = append(problems, "Please enter job title")
	case len([]rune(title)) < 3:
		problems = append(problems, "Job title must be at least 3 characters")
	}
	if strings.TrimSpace(d.Department) == "" {
		problems = append(problems, "Please enter department")
	}
	if !d.EmploymentType.Valid() {
		problems = append(problems, "Please select employment type")
	}
	if strings.TrimSpace(d.Location) == "" {
		problems = append(problems, "Please enter location")
	}
	if _, err := time.Parse(models.DeadlineLayout, d.Deadline); err != nil {
		problems = append(problems, "Please select application deadline")
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "Please enter job description")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
