package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/errors"
)

// Employee represents an employee record.
// DB fields use the column names of the employees table; JSON fields use
// the same names for consistency with the application shell.
type Employee struct {
	// Core identity
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	ESSID string `db:"essid" json:"essid"`

	// Personal info
	FatherName  *string `db:"father_name" json:"father_name,omitempty"`
	SpouseName  *string `db:"spouse_name" json:"spouse_name,omitempty"`
	DateOfBirth *string `db:"date_of_birth" json:"date_of_birth,omitempty"`

	// Contact info
	PhoneNumbers *string `db:"phone_numbers" json:"phone_numbers,omitempty"`
	CurrentPlace *string `db:"current_place" json:"current_place,omitempty"`
	CurrentPost  *string `db:"current_post" json:"current_post,omitempty"`
	// CurrentAddress is free text and may contain commas and line breaks
	CurrentAddress         *string `db:"current_address" json:"current_address,omitempty"`
	PermanentSameAsCurrent int     `db:"permanent_same_as_current" json:"permanent_same_as_current"`
	PermanentPlace         *string `db:"permanent_place" json:"permanent_place,omitempty"`
	PermanentPost          *string `db:"permanent_post" json:"permanent_post,omitempty"`
	PermanentAddress       *string `db:"permanent_address" json:"permanent_address,omitempty"`

	// Emergency contact
	EmergencyContactName     *string `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactRelation *string `db:"emergency_contact_relation" json:"emergency_contact_relation,omitempty"`
	EmergencyContactPhone    *string `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	PoliceStation            *string `db:"police_station" json:"police_station,omitempty"`

	// Employment info
	Experience       *string `db:"experience" json:"experience,omitempty"`
	JobPost          *string `db:"job_post" json:"job_post,omitempty"`
	EmploymentStatus string  `db:"employment_status" json:"employment_status"` // applied, current, past
	JoiningDate      *string `db:"joining_date" json:"joining_date,omitempty"`
	ExitDate         *string `db:"exit_date" json:"exit_date,omitempty"`

	// Identifiers
	UAN   *string `db:"uan" json:"uan,omitempty"`
	ESIIP *string `db:"esiip" json:"esiip,omitempty"`

	// PhotoPath references a file in the asset store's managed directory,
	// nil when the record has no photo
	PhotoPath *string `db:"photo_path" json:"photo_path,omitempty"`

	// Server-maintained timestamps. created_at is set once on insert;
	// updated_at is refreshed by the update trigger on every mutation.
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// DefaultPageSize is used when the caller does not specify a page size
const DefaultPageSize = 10

// employeeColumns lists the columns in schema order. Keep in sync with
// the insert/update column lists below and with the export header.
const employeeColumns = `id, name, father_name, spouse_name, current_place, current_post,
	current_address, phone_numbers, permanent_same_as_current, permanent_place,
	permanent_post, permanent_address, emergency_contact_name, emergency_contact_relation,
	emergency_contact_phone, police_station, experience, job_post, employment_status,
	joining_date, exit_date, essid, photo_path, date_of_birth, uan, esiip,
	created_at, updated_at`

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee row and returns the persisted record read
// back from the store, with identity and timestamps assigned.
func (r *EmployeeRepository) Create(ctx context.Context, emp *Employee) (*Employee, error) {
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = "applied"
	}

	query := `
		INSERT INTO employees (
			name, father_name, spouse_name, current_place, current_post, current_address,
			phone_numbers, permanent_same_as_current, permanent_place, permanent_post,
			permanent_address, emergency_contact_name, emergency_contact_relation,
			emergency_contact_phone, police_station, experience, job_post, employment_status,
			joining_date, exit_date, essid, photo_path, date_of_birth, uan, esiip
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.Name, emp.FatherName, emp.SpouseName, emp.CurrentPlace, emp.CurrentPost,
		emp.CurrentAddress, emp.PhoneNumbers, emp.PermanentSameAsCurrent, emp.PermanentPlace,
		emp.PermanentPost, emp.PermanentAddress, emp.EmergencyContactName,
		emp.EmergencyContactRelation, emp.EmergencyContactPhone, emp.PoliceStation,
		emp.Experience, emp.JobPost, emp.EmploymentStatus, emp.JoiningDate, emp.ExitDate,
		emp.ESSID, emp.PhotoPath, emp.DateOfBirth, emp.UAN, emp.ESIIP,
	)
	if err != nil {
		if mapped := database.MapSQLiteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`

	err := r.db.GetContext(ctx, &emp, query, id)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// GetByESSID gets an employee by external identifier. Returns (nil, nil)
// when no record carries the essid; uniqueness checks rely on that.
func (r *EmployeeRepository) GetByESSID(ctx context.Context, essid string) (*Employee, error) {
	var emp Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE essid = ?`

	err := r.db.GetContext(ctx, &emp, query, essid)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// List returns one page of employees matching the filter, most recent
// first (creation time descending, identity descending on ties), plus the
// total count of matching records. Page numbers are 1-based; page <= 0 is
// clamped to 1; pageSize <= 0 falls back to DefaultPageSize.
func (r *EmployeeRepository) List(ctx context.Context, filter Filter, page, pageSize int) ([]*Employee, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	where, args := filter.whereClause()

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + employeeColumns + ` FROM employees` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	employees := []*Employee{}
	listArgs := append(append([]interface{}{}, args...), pageSize, offset)
	if err := r.db.SelectContext(ctx, &employees, query, listArgs...); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// All streams every employee ordered by creation time descending, for
// export. Reads only; the caller must not mutate through this.
func (r *EmployeeRepository) All(ctx context.Context) ([]*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC, id DESC`

	var employees []*Employee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update replaces every field of the row (full overwrite semantics).
// updated_at is refreshed by the update trigger. Returns the persisted
// record read back from the store.
func (r *EmployeeRepository) Update(ctx context.Context, emp *Employee) (*Employee, error) {
	query := `
		UPDATE employees SET
			name = ?, father_name = ?, spouse_name = ?, current_place = ?,
			current_post = ?, current_address = ?, phone_numbers = ?,
			permanent_same_as_current = ?, permanent_place = ?, permanent_post = ?,
			permanent_address = ?, emergency_contact_name = ?, emergency_contact_relation = ?,
			emergency_contact_phone = ?, police_station = ?, experience = ?,
			job_post = ?, employment_status = ?, joining_date = ?, exit_date = ?,
			essid = ?, photo_path = ?, date_of_birth = ?, uan = ?, esiip = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.Name, emp.FatherName, emp.SpouseName, emp.CurrentPlace, emp.CurrentPost,
		emp.CurrentAddress, emp.PhoneNumbers, emp.PermanentSameAsCurrent, emp.PermanentPlace,
		emp.PermanentPost, emp.PermanentAddress, emp.EmergencyContactName,
		emp.EmergencyContactRelation, emp.EmergencyContactPhone, emp.PoliceStation,
		emp.Experience, emp.JobPost, emp.EmploymentStatus, emp.JoiningDate, emp.ExitDate,
		emp.ESSID, emp.PhotoPath, emp.DateOfBirth, emp.UAN, emp.ESIIP,
		emp.ID,
	)
	if err != nil {
		if mapped := database.MapSQLiteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.NotFound("employee")
	}

	return r.GetByID(ctx, emp.ID)
}

// Delete removes the row only; any referenced photo asset is left in
// place. Deleting a missing id is not an error.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	return err
}

// ClearPhoto nulls the photo reference; the update trigger refreshes
// updated_at in the same statement.
func (r *EmployeeRepository) ClearPhoto(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE employees SET photo_path = NULL WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// Count returns the total number of employee records
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employees`); err != nil {
		return 0, err
	}
	return count, nil
}
