package patient

import (
	"context"

	"github.com/google/uuid"
)

// PatientRepository is the only path through which patients are read or
// written. Lookups report absence with a false second value; errors are
// reserved for rejected or failed mutations.
type PatientRepository interface {
	GetAll(ctx context.Context) []*Patient
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, bool)
	FindByName(ctx context.Context, name string) []*Patient
	Add(ctx context.Context, p *Patient) (*Patient, error)
	Update(ctx context.Context, id uuid.UUID, p *Patient) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type HospitalRepository interface {
	GetAll(ctx context.Context) []*Hospital
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, bool)
	Add(ctx context.Context, h *Hospital) (*Hospital, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type VisitRepository interface {
	GetAll(ctx context.Context) []*Visit
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, bool)
	Add(ctx context.Context, v *Visit) (*Visit, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
