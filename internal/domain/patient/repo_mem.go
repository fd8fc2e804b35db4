package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// -- Patient --

type patientRepoMem struct {
	store *Store
}

func NewPatientRepoMem(store *Store) PatientRepository {
	return &patientRepoMem{store: store}
}

func (r *patientRepoMem) GetAll(_ context.Context) []*Patient {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*Patient, 0, len(r.store.patientOrder))
	for _, id := range r.store.patientOrder {
		p, _ := r.store.patientView(id)
		out = append(out, p)
	}
	return out
}

func (r *patientRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Patient, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.patientView(id)
}

// FindByName matches name case-insensitively against the first or last
// name. Callers must reject an empty name; it would match everyone.
func (r *patientRepoMem) FindByName(_ context.Context, name string) []*Patient {
	needle := strings.ToLower(name)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*Patient, 0)
	for _, id := range r.store.patientOrder {
		p := r.store.patients[id]
		if strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) {
			v, _ := r.store.patientView(id)
			out = append(out, v)
		}
	}
	return out
}

func (r *patientRepoMem) Add(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validatePatient(p); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.checkLinks(p.PatientHospitals); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("add patient: %w", err)
	}

	stored := p.clone()
	stored.ID = r.store.newID()
	r.store.putPatient(stored)
	r.linkAll(stored.ID, p.PatientHospitals)

	out, _ := r.store.patientView(stored.ID)
	return out, nil
}

// Update replaces every field of the stored patient, associations
// included. The identity is never taken from p.
func (r *patientRepoMem) Update(ctx context.Context, id uuid.UUID, p *Patient) (bool, error) {
	if err := validatePatient(p); err != nil {
		return false, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.patients[id]; !ok {
		return false, nil
	}
	if err := r.checkLinks(p.PatientHospitals); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("update patient %s: %w", id, err)
	}

	stored := p.clone()
	stored.ID = id
	r.store.putPatient(stored)
	r.store.unlinkAll(id)
	r.linkAll(id, p.PatientHospitals)
	return true, nil
}

func (r *patientRepoMem) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("delete patient %s: %w", id, err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.removePatient(id), nil
}

// checkLinks verifies the hospital and visit of every association exist.
// The patient side is filled in by linkAll. Caller holds mu.
func (r *patientRepoMem) checkLinks(links []PatientHospital) error {
	for i, a := range links {
		if _, ok := r.store.hospitals[a.HospitalID]; !ok {
			return invalid(fmt.Sprintf("patient_hospitals[%d].hospital_id", i), "does not reference an existing hospital")
		}
		if _, ok := r.store.visits[a.VisitID]; !ok {
			return invalid(fmt.Sprintf("patient_hospitals[%d].visit_id", i), "does not reference an existing visit")
		}
	}
	return nil
}

func (r *patientRepoMem) linkAll(patientID uuid.UUID, links []PatientHospital) {
	for _, a := range links {
		a.PatientID = patientID
		r.store.link(a)
	}
}

// -- Hospital --

type hospitalRepoMem struct {
	store *Store
}

func NewHospitalRepoMem(store *Store) HospitalRepository {
	return &hospitalRepoMem{store: store}
}

func (r *hospitalRepoMem) GetAll(_ context.Context) []*Hospital {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*Hospital, 0, len(r.store.hospitalOrder))
	for _, id := range r.store.hospitalOrder {
		h, _ := r.store.hospitalView(id)
		out = append(out, h)
	}
	return out
}

func (r *hospitalRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Hospital, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.hospitalView(id)
}

// Add stores the hospital alone; associations are created from the
// patient side.
func (r *hospitalRepoMem) Add(ctx context.Context, h *Hospital) (*Hospital, error) {
	if err := validateHospital(h); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("add hospital: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := &Hospital{ID: r.store.newID(), Name: h.Name}
	r.store.putHospital(stored)
	out, _ := r.store.hospitalView(stored.ID)
	return out, nil
}

func (r *hospitalRepoMem) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("delete hospital %s: %w", id, err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.removeHospital(id), nil
}

// -- Visit --

type visitRepoMem struct {
	store *Store
}

func NewVisitRepoMem(store *Store) VisitRepository {
	return &visitRepoMem{store: store}
}

func (r *visitRepoMem) GetAll(_ context.Context) []*Visit {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*Visit, 0, len(r.store.visitOrder))
	for _, id := range r.store.visitOrder {
		v, _ := r.store.visitView(id)
		out = append(out, v)
	}
	return out
}

func (r *visitRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Visit, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.visitView(id)
}

func (r *visitRepoMem) Add(ctx context.Context, v *Visit) (*Visit, error) {
	if err := validateVisit(v); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("add visit: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := &Visit{ID: r.store.newID(), Date: VisitDate(v.Date)}
	r.store.putVisit(stored)
	return stored.clone(), nil
}

func (r *visitRepoMem) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("delete visit %s: %w", id, err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.removeVisit(id), nil
}
