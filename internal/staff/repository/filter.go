package repository

import (
	"strings"
)

// Filter holds the optional listing predicates. Empty or blank fields are
// skipped; the rest combine conjunctively. All values reach the query as
// bound parameters: filter text is user-controlled free text and must
// never be interpolated into SQL.
type Filter struct {
	// Query matches name or essid as a case-insensitive substring
	Query string `json:"query,omitempty"`
	// JobPost matches job_post as a substring
	JobPost string `json:"job_post,omitempty"`
	// PermanentPost matches permanent_post as a substring
	PermanentPost string `json:"permanent_post,omitempty"`
	// EmploymentStatus matches exactly
	EmploymentStatus string `json:"employment_status,omitempty"`
	// JoiningDate matches exactly
	JoiningDate string `json:"joining_date,omitempty"`
	// ExitDate matches exactly
	ExitDate string `json:"exit_date,omitempty"`
}

// IsZero reports whether no predicate is set
func (f Filter) IsZero() bool {
	conditions, _ := f.predicates()
	return len(conditions) == 0
}

// predicates returns the WHERE fragments and their bound arguments
func (f Filter) predicates() ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q := strings.TrimSpace(f.Query); q != "" {
		conditions = append(conditions, `(name LIKE ? ESCAPE '\' OR essid LIKE ? ESCAPE '\')`)
		pattern := likePattern(q)
		args = append(args, pattern, pattern)
	}
	if v := strings.TrimSpace(f.JobPost); v != "" {
		conditions = append(conditions, `job_post LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(v))
	}
	if v := strings.TrimSpace(f.PermanentPost); v != "" {
		conditions = append(conditions, `permanent_post LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(v))
	}
	if v := strings.TrimSpace(f.EmploymentStatus); v != "" {
		conditions = append(conditions, `employment_status = ?`)
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.JoiningDate); v != "" {
		conditions = append(conditions, `joining_date = ?`)
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.ExitDate); v != "" {
		conditions = append(conditions, `exit_date = ?`)
		args = append(args, v)
	}

	return conditions, args
}

// whereClause renders the combined predicates, empty string when none
func (f Filter) whereClause() (string, []interface{}) {
	conditions, args := f.predicates()
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// likePattern wraps a term for substring matching, escaping the LIKE
// metacharacters so they match literally.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
