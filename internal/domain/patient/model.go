package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a person receiving care. PatientHospitals is rebuilt from the
// store's association map every time a Patient leaves the repository.
type Patient struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	PatientHospitals []PatientHospital
}

// Hospital is a care site patients attend.
type Hospital struct {
	ID               uuid.UUID
	Name             string
	PatientHospitals []PatientHospital
}

// Visit is a single dated occurrence of care.
type Visit struct {
	ID   uuid.UUID
	Date time.Time
}

// PatientHospital records that a patient attended a hospital for a visit.
type PatientHospital struct {
	PatientID  uuid.UUID
	HospitalID uuid.UUID
	VisitID    uuid.UUID
}

// References reports whether the association points at id in any position.
func (a PatientHospital) References(id uuid.UUID) bool {
	return a.PatientID == id || a.HospitalID == id || a.VisitID == id
}

func (p *Patient) clone() *Patient {
	cp := *p
	cp.PatientHospitals = clonePatientHospitals(p.PatientHospitals)
	return &cp
}

func (h *Hospital) clone() *Hospital {
	cp := *h
	cp.PatientHospitals = clonePatientHospitals(h.PatientHospitals)
	return &cp
}

func (v *Visit) clone() *Visit {
	cp := *v
	return &cp
}

func clonePatientHospitals(in []PatientHospital) []PatientHospital {
	if in == nil {
		return nil
	}
	out := make([]PatientHospital, len(in))
	copy(out, in)
	return out
}

// VisitDate normalises t to a calendar date in UTC.
func VisitDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
