// Package schedule runs report queries on cron schedules and writes the
// results to export destinations.
package schedule

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"gareport/internal/domain"
	"gareport/internal/reports"
)

// Job is one scheduled query. Exactly one of Report and Query is used:
// a non-empty Report names a report template, otherwise Query runs as is.
type Job struct {
	Name        string              `yaml:"name" json:"name"`
	Cron        string              `yaml:"cron" json:"cron"`
	ViewID      string              `yaml:"view_id,omitempty" json:"view_id,omitempty"`
	Report      string              `yaml:"report,omitempty" json:"report,omitempty"`
	Query       domain.QueryPayload `yaml:"query,omitempty" json:"query"`
	Output      domain.OutputMode   `yaml:"output,omitempty" json:"output,omitempty"`
	Destination string              `yaml:"destination" json:"destination"`
	Append      bool                `yaml:"append,omitempty" json:"append,omitempty"`
}

// File is the on-disk job file layout.
type File struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads and validates a YAML job file. Jobs without a view id use
// defaultViewID.
func LoadJobs(path, defaultViewID string) ([]Job, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	jobs, err := ParseJobs(data, defaultViewID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return jobs, nil
}

// ParseJobs decodes and validates a YAML job document.
func ParseJobs(data []byte, defaultViewID string) ([]Job, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, domain.ErrValidation("parse job file: %v", err)
	}
	for i := range f.Jobs {
		if f.Jobs[i].ViewID == "" {
			f.Jobs[i].ViewID = defaultViewID
		}
		if f.Jobs[i].Output == "" {
			f.Jobs[i].Output = domain.OutputTypedTable
		}
	}
	if err := ValidateJobs(f.Jobs); err != nil {
		return nil, err
	}
	return f.Jobs, nil
}

// ValidateJobs checks every job and rejects duplicate names.
func ValidateJobs(jobs []Job) error {
	seen := make(map[string]bool, len(jobs))
	for i, j := range jobs {
		if j.Name == "" {
			return domain.ErrValidation("job %d: name is required", i+1)
		}
		if seen[j.Name] {
			return domain.ErrValidation("job %q: duplicate name", j.Name)
		}
		seen[j.Name] = true
		if err := j.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single job.
func (j Job) Validate() error {
	if j.Cron == "" {
		return domain.ErrValidation("job %q: cron is required", j.Name)
	}
	if _, err := cron.ParseStandard(j.Cron); err != nil {
		return domain.ErrValidation("job %q: invalid cron %q: %v", j.Name, j.Cron, err)
	}
	if err := domain.ValidateViewID(j.ViewID); err != nil {
		return domain.ErrValidation("job %q: %v", j.Name, err)
	}
	if j.Destination == "" {
		return domain.ErrValidation("job %q: destination is required", j.Name)
	}

	if j.Report != "" {
		if _, err := reports.Lookup(j.Report); err != nil {
			return domain.ErrValidation("job %q: %v", j.Name, err)
		}
		if j.Query.StartDate == "" || j.Query.EndDate == "" {
			return domain.ErrValidation("job %q: report jobs need query.start_date and query.end_date", j.Name)
		}
		return nil
	}

	if err := j.Query.Validate(); err != nil {
		return domain.ErrValidation("job %q: %v", j.Name, err)
	}
	switch j.Output {
	case "", domain.OutputTable, domain.OutputTypedTable:
	default:
		return domain.ErrValidation("job %q: output must be %q or %q", j.Name, domain.OutputTable, domain.OutputTypedTable)
	}
	return nil
}
