// Package service holds the staff business logic: essid uniqueness,
// photo lifecycle coupling and input validation on top of the repository.
package service

import (
	"context"

	"github.com/exgroup/staffstore/internal/assets"
	"github.com/exgroup/staffstore/internal/schema"
	"github.com/exgroup/staffstore/internal/staff/repository"
	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/errors"
	"github.com/exgroup/staffstore/pkg/logger"
)

// EmployeeInput carries the caller-supplied fields for create and update.
// PhotoSourcePath, when set, points at an uploaded temp file; the stored
// reference is always generated by the asset store, never this path.
type EmployeeInput struct {
	Name             string `json:"name" validate:"required"`
	ESSID            string `json:"essid" validate:"required"`
	EmploymentStatus string `json:"employment_status" validate:"required,oneof=applied current past"`

	FatherName  *string `json:"father_name,omitempty"`
	SpouseName  *string `json:"spouse_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`

	PhoneNumbers           *string `json:"phone_numbers,omitempty"`
	CurrentPlace           *string `json:"current_place,omitempty"`
	CurrentPost            *string `json:"current_post,omitempty"`
	CurrentAddress         *string `json:"current_address,omitempty"`
	PermanentSameAsCurrent int     `json:"permanent_same_as_current"`
	PermanentPlace         *string `json:"permanent_place,omitempty"`
	PermanentPost          *string `json:"permanent_post,omitempty"`
	PermanentAddress       *string `json:"permanent_address,omitempty"`

	EmergencyContactName     *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactRelation *string `json:"emergency_contact_relation,omitempty"`
	EmergencyContactPhone    *string `json:"emergency_contact_phone,omitempty"`
	PoliceStation            *string `json:"police_station,omitempty"`

	Experience  *string `json:"experience,omitempty"`
	JobPost     *string `json:"job_post,omitempty"`
	JoiningDate *string `json:"joining_date,omitempty"`
	ExitDate    *string `json:"exit_date,omitempty"`

	UAN   *string `json:"uan,omitempty"`
	ESIIP *string `json:"esiip,omitempty"`

	PhotoSourcePath *string `json:"photo_source_path,omitempty"`
}

// StoreInfo is the status payload for the application shell
type StoreInfo struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
	RecordCount   int64  `json:"record_count"`
}

// StaffService handles staff business logic
type StaffService struct {
	employeeRepo *repository.EmployeeRepository
	assetStore   *assets.Store
	schemaMgr    *schema.Manager
	db           *database.DB
	logger       *logger.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(
	employeeRepo *repository.EmployeeRepository,
	assetStore *assets.Store,
	schemaMgr *schema.Manager,
	db *database.DB,
	log *logger.Logger,
) *StaffService {
	return &StaffService{
		employeeRepo: employeeRepo,
		assetStore:   assetStore,
		schemaMgr:    schemaMgr,
		db:           db,
		logger:       log.WithComponent("staff"),
	}
}

// Create validates the input, enforces essid uniqueness, persists the
// photo (if any) under a generated name and inserts the record. If the
// row insert fails after the photo was stored, the stored photo is
// removed again so no orphaned asset remains.
func (s *StaffService) Create(ctx context.Context, input *EmployeeInput) (*repository.Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.employeeRepo.GetByESSID(ctx, input.ESSID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Duplicate("an employee with this essid already exists")
	}

	photoPath, err := s.savePhoto(input.PhotoSourcePath)
	if err != nil {
		return nil, err
	}

	emp := input.toEmployee(0, photoPath)
	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		s.discardPhoto(photoPath)
		return nil, err
	}

	s.logger.Info().Int64("id", created.ID).Str("essid", created.ESSID).Msg("created employee")
	return created, nil
}

// Update replaces every field of the record (full overwrite). A new photo
// source replaces the stored asset: the new file is stored first, the row
// committed, then the old asset removed. When the input carries no photo
// source, the existing photo reference is preserved.
func (s *StaffService) Update(ctx context.Context, id int64, input *EmployeeInput) (*repository.Employee, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	other, err := s.employeeRepo.GetByESSID(ctx, input.ESSID)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, errors.Duplicate("an employee with this essid already exists")
	}

	newPhotoPath, err := s.savePhoto(input.PhotoSourcePath)
	if err != nil {
		return nil, err
	}

	photoPath := existing.PhotoPath
	if newPhotoPath != nil {
		photoPath = newPhotoPath
	}

	emp := input.toEmployee(id, photoPath)
	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		s.discardPhoto(newPhotoPath)
		return nil, err
	}

	if newPhotoPath != nil && existing.PhotoPath != nil {
		if err := s.removeAsset(*existing.PhotoPath); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int64("id", updated.ID).Msg("updated employee")
	return updated, nil
}

// GetByID gets an employee by ID
func (s *StaffService) GetByID(ctx context.Context, id int64) (*repository.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// GetByESSID gets an employee by external identifier, (nil, nil) if absent
func (s *StaffService) GetByESSID(ctx context.Context, essid string) (*repository.Employee, error) {
	return s.employeeRepo.GetByESSID(ctx, essid)
}

// List lists employees matching the filter with pagination
func (s *StaffService) List(ctx context.Context, filter repository.Filter, page, pageSize int) ([]*repository.Employee, int64, error) {
	return s.employeeRepo.List(ctx, filter, page, pageSize)
}

// Delete removes the record row. The photo asset, if any, is left in
// place; DeleteImage is the explicit cleanup operation. Deleting a
// missing id succeeds.
func (s *StaffService) Delete(ctx context.Context, id int64) error {
	return s.employeeRepo.Delete(ctx, id)
}

// DeleteImage clears the record's photo reference and removes the asset
// file. A record without a photo is a no-op. A missing file is tolerated;
// a file that exists but cannot be removed propagates the failure so the
// store and the filesystem do not silently diverge.
func (s *StaffService) DeleteImage(ctx context.Context, id int64) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if emp.PhotoPath == nil {
		return nil
	}

	if err := s.employeeRepo.ClearPhoto(ctx, id); err != nil {
		return err
	}

	return s.removeAsset(*emp.PhotoPath)
}

// StoreInfo reports the store path, schema version and record count
func (s *StaffService) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	version, err := s.schemaMgr.Version(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.employeeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &StoreInfo{
		Path:          s.db.Path(),
		SchemaVersion: version,
		RecordCount:   count,
	}, nil
}

// savePhoto stores the upload when a source path is set, returning the
// generated stored path
func (s *StaffService) savePhoto(sourcePath *string) (*string, error) {
	if sourcePath == nil || *sourcePath == "" {
		return nil, nil
	}
	stored, err := s.assetStore.Save(*sourcePath)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// discardPhoto removes a just-stored photo after a failed row write,
// best effort
func (s *StaffService) discardPhoto(path *string) {
	if path == nil {
		return
	}
	if err := s.assetStore.Delete(*path); err != nil {
		s.logger.Warn().Err(err).Str("path", *path).Msg("failed to discard photo after rollback")
	}
}

// removeAsset deletes a stored photo file, tolerating an already-missing
// entry
func (s *StaffService) removeAsset(path string) error {
	err := s.assetStore.Delete(path)
	if err == nil {
		return nil
	}
	if errors.IsNotFound(err) {
		s.logger.Warn().Str("path", path).Msg("photo file already gone")
		return nil
	}
	return err
}

// toEmployee maps the input onto a repository record
func (in *EmployeeInput) toEmployee(id int64, photoPath *string) *repository.Employee {
	return &repository.Employee{
		ID:                       id,
		Name:                     in.Name,
		ESSID:                    in.ESSID,
		EmploymentStatus:         in.EmploymentStatus,
		FatherName:               in.FatherName,
		SpouseName:               in.SpouseName,
		DateOfBirth:              in.DateOfBirth,
		PhoneNumbers:             in.PhoneNumbers,
		CurrentPlace:             in.CurrentPlace,
		CurrentPost:              in.CurrentPost,
		CurrentAddress:           in.CurrentAddress,
		PermanentSameAsCurrent:   in.PermanentSameAsCurrent,
		PermanentPlace:           in.PermanentPlace,
		PermanentPost:            in.PermanentPost,
		PermanentAddress:         in.PermanentAddress,
		EmergencyContactName:     in.EmergencyContactName,
		EmergencyContactRelation: in.EmergencyContactRelation,
		EmergencyContactPhone:    in.EmergencyContactPhone,
		PoliceStation:            in.PoliceStation,
		Experience:               in.Experience,
		JobPost:                  in.JobPost,
		JoiningDate:              in.JoiningDate,
		ExitDate:                 in.ExitDate,
		UAN:                      in.UAN,
		ESIIP:                    in.ESIIP,
		PhotoPath:                photoPath,
	}
}
