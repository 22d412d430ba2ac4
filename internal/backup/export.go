package backup

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/exgroup/staffstore/internal/staff/repository"
	"github.com/exgroup/staffstore/pkg/errors"
)

// exportHeader lists every employee field in schema order
var exportHeader = []string{
	"id", "name", "father_name", "spouse_name", "current_place", "current_post",
	"current_address", "phone_numbers", "permanent_same_as_current", "permanent_place",
	"permanent_post", "permanent_address", "emergency_contact_name",
	"emergency_contact_relation", "emergency_contact_phone", "police_station",
	"experience", "job_post", "employment_status", "joining_date", "exit_date",
	"essid", "photo_path", "date_of_birth", "uan", "esiip", "created_at", "updated_at",
}

// ExportCSV streams all employee records, newest first, into a CSV file
// at destPath. Absent optional values render as empty fields.
func (s *Service) ExportCSV(ctx context.Context, destPath string) (string, error) {
	employees, err := s.employeeRepo.All(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Create(destPath)
	if err != nil {
		return "", errors.IO("failed to create export file", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		f.Close()
		return "", errors.IO("failed to write export header", err)
	}

	for _, emp := range employees {
		if err := w.Write(exportRow(emp)); err != nil {
			f.Close()
			return "", errors.IO("failed to write export row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", errors.IO("failed to flush export file", err)
	}
	if err := f.Close(); err != nil {
		return "", errors.IO("failed to close export file", err)
	}

	s.logger.Info().Str("path", destPath).Int("records", len(employees)).Msg("exported employees")
	return destPath, nil
}

// exportRow renders one record in exportHeader order
func exportRow(emp *repository.Employee) []string {
	return []string{
		strconv.FormatInt(emp.ID, 10),
		emp.Name,
		deref(emp.FatherName),
		deref(emp.SpouseName),
		deref(emp.CurrentPlace),
		deref(emp.CurrentPost),
		deref(emp.CurrentAddress),
		deref(emp.PhoneNumbers),
		strconv.Itoa(emp.PermanentSameAsCurrent),
		deref(emp.PermanentPlace),
		deref(emp.PermanentPost),
		deref(emp.PermanentAddress),
		deref(emp.EmergencyContactName),
		deref(emp.EmergencyContactRelation),
		deref(emp.EmergencyContactPhone),
		deref(emp.PoliceStation),
		deref(emp.Experience),
		deref(emp.JobPost),
		emp.EmploymentStatus,
		deref(emp.JoiningDate),
		deref(emp.ExitDate),
		emp.ESSID,
		deref(emp.PhotoPath),
		deref(emp.DateOfBirth),
		deref(emp.UAN),
		deref(emp.ESIIP),
		emp.CreatedAt,
		emp.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
