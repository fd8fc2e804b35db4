package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PatientDto is the transport shape of a Patient. ID is ignored on input.
type PatientDto struct {
	ID               uuid.UUID            `json:"id"`
	FirstName        string               `json:"first_name" validate:"notblank"`
	LastName         string               `json:"last_name" validate:"notblank"`
	Email            string               `json:"email" validate:"required,email"`
	PatientHospitals []PatientHospitalDto `json:"patient_hospitals,omitempty" validate:"dive"`
}

// PatientHospitalDto links a patient to a hospital for one visit. On input
// PatientID is taken from the enclosing patient.
type PatientHospitalDto struct {
	PatientID  uuid.UUID `json:"patient_id"`
	HospitalID uuid.UUID `json:"hospital_id" validate:"required"`
	VisitID    uuid.UUID `json:"visit_id" validate:"required"`
}

type HospitalDto struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name" validate:"notblank"`
	PatientHospitals []PatientHospitalDto `json:"patient_hospitals,omitempty"`
}

// VisitDto carries the visit date as YYYY-MM-DD.
type VisitDto struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date" validate:"required,datetime=2006-01-02"`
}

func toPatientDto(p *Patient) PatientDto {
	return PatientDto{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		PatientHospitals: toPatientHospitalDtos(p.PatientHospitals),
	}
}

func toPatientDtos(ps []*Patient) []PatientDto {
	out := make([]PatientDto, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPatientDto(p))
	}
	return out
}

// trimmed strips surrounding whitespace from the text fields.
func (d PatientDto) trimmed() PatientDto {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

// toEntity drops the DTO identity and the association patient ids.
func (d PatientDto) toEntity() *Patient {
	p := &Patient{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
	}
	for _, l := range d.PatientHospitals {
		p.PatientHospitals = append(p.PatientHospitals, PatientHospital{
			HospitalID: l.HospitalID,
			VisitID:    l.VisitID,
		})
	}
	return p
}

func toPatientHospitalDtos(links []PatientHospital) []PatientHospitalDto {
	if len(links) == 0 {
		return nil
	}
	out := make([]PatientHospitalDto, 0, len(links))
	for _, a := range links {
		out = append(out, PatientHospitalDto{
			PatientID:  a.PatientID,
			HospitalID: a.HospitalID,
			VisitID:    a.VisitID,
		})
	}
	return out
}

func toHospitalDto(h *Hospital) HospitalDto {
	return HospitalDto{
		ID:               h.ID,
		Name:             h.Name,
		PatientHospitals: toPatientHospitalDtos(h.PatientHospitals),
	}
}

func toVisitDto(v *Visit) VisitDto {
	return VisitDto{ID: v.ID, Date: v.Date.Format(time.DateOnly)}
}
