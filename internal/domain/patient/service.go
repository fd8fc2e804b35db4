package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	patients  PatientRepository
	hospitals HospitalRepository
	visits    VisitRepository
	logger    zerolog.Logger
}

func NewService(patients PatientRepository, hospitals HospitalRepository, visits VisitRepository, logger zerolog.Logger) *Service {
	return &Service{
		patients:  patients,
		hospitals: hospitals,
		visits:    visits,
		logger:    logger.With().Str("component", "patient").Logger(),
	}
}

// -- Patient --

func (s *Service) ListPatients(ctx context.Context) []PatientDto {
	return toPatientDtos(s.patients.GetAll(ctx))
}

// SearchPatients returns patients whose first or last name contains name,
// ignoring case. A blank name is rejected without touching the repository.
func (s *Service) SearchPatients(ctx context.Context, name string) ([]PatientDto, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "must not be blank")
	}
	return toPatientDtos(s.patients.FindByName(ctx, name)), nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (PatientDto, bool) {
	p, ok := s.patients.GetByID(ctx, id)
	if !ok {
		return PatientDto{}, false
	}
	return toPatientDto(p), true
}

func (s *Service) CreatePatient(ctx context.Context, dto PatientDto) (PatientDto, error) {
	dto = dto.trimmed()
	if err := validateStruct(dto); err != nil {
		return PatientDto{}, err
	}
	p, err := s.patients.Add(ctx, dto.toEntity())
	if err != nil {
		return PatientDto{}, err
	}
	s.logger.Debug().Str("patient_id", p.ID.String()).Msg("patient created")
	return toPatientDto(p), nil
}

// UpdatePatient fully replaces the patient identified by id. It reports
// false when no such patient exists.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, dto PatientDto) (bool, error) {
	dto = dto.trimmed()
	if err := validateStruct(dto); err != nil {
		return false, err
	}
	ok, err := s.patients.Update(ctx, id, dto.toEntity())
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Debug().Str("patient_id", id.String()).Msg("patient updated")
	}
	return ok, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.patients.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Debug().Str("patient_id", id.String()).Msg("patient deleted")
	}
	return ok, nil
}

// -- Hospital --

func (s *Service) ListHospitals(ctx context.Context) []HospitalDto {
	hs := s.hospitals.GetAll(ctx)
	out := make([]HospitalDto, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHospitalDto(h))
	}
	return out
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (HospitalDto, bool) {
	h, ok := s.hospitals.GetByID(ctx, id)
	if !ok {
		return HospitalDto{}, false
	}
	return toHospitalDto(h), true
}

func (s *Service) CreateHospital(ctx context.Context, dto HospitalDto) (HospitalDto, error) {
	if err := validateStruct(dto); err != nil {
		return HospitalDto{}, err
	}
	h, err := s.hospitals.Add(ctx, &Hospital{Name: strings.TrimSpace(dto.Name)})
	if err != nil {
		return HospitalDto{}, err
	}
	s.logger.Debug().Str("hospital_id", h.ID.String()).Msg("hospital created")
	return toHospitalDto(h), nil
}

// DeleteHospital also removes every association that referenced it.
func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.hospitals.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Debug().Str("hospital_id", id.String()).Msg("hospital deleted")
	}
	return ok, nil
}

// -- Visit --

func (s *Service) ListVisits(ctx context.Context) []VisitDto {
	vs := s.visits.GetAll(ctx)
	out := make([]VisitDto, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVisitDto(v))
	}
	return out
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (VisitDto, bool) {
	v, ok := s.visits.GetByID(ctx, id)
	if !ok {
		return VisitDto{}, false
	}
	return toVisitDto(v), true
}

func (s *Service) CreateVisit(ctx context.Context, dto VisitDto) (VisitDto, error) {
	if err := validateStruct(dto); err != nil {
		return VisitDto{}, err
	}
	date, err := time.Parse(time.DateOnly, dto.Date)
	if err != nil {
		return VisitDto{}, fmt.Errorf("parse visit date: %w", err)
	}
	v, err := s.visits.Add(ctx, &Visit{Date: date})
	if err != nil {
		return VisitDto{}, err
	}
	s.logger.Debug().Str("visit_id", v.ID.String()).Msg("visit created")
	return toVisitDto(v), nil
}

// DeleteVisit also removes every association that referenced it.
func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.visits.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Debug().Str("visit_id", id.String()).Msg("visit deleted")
	}
	return ok, nil
}
