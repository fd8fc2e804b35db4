package patient

import (
	"sync"

	"github.com/google/uuid"
)

// Store owns every Patient, Hospital, Visit and PatientHospital for the
// lifetime of the process. Its collections are only reachable through the
// repositories in this package, which take mu for every operation: reads
// under RLock, anything that writes under Lock.
type Store struct {
	mu sync.RWMutex

	patients     map[uuid.UUID]*Patient
	hospitals    map[uuid.UUID]*Hospital
	visits       map[uuid.UUID]*Visit
	associations map[PatientHospital]struct{}

	patientOrder     []uuid.UUID
	hospitalOrder    []uuid.UUID
	visitOrder       []uuid.UUID
	associationOrder []PatientHospital

	newUUID func() uuid.UUID
}

// Counts is a point-in-time size of each collection.
type Counts struct {
	Patients     int `json:"patients"`
	Hospitals    int `json:"hospitals"`
	Visits       int `json:"visits"`
	Associations int `json:"patient_hospitals"`
}

func NewStore() *Store {
	return &Store{
		patients:     make(map[uuid.UUID]*Patient),
		hospitals:    make(map[uuid.UUID]*Hospital),
		visits:       make(map[uuid.UUID]*Visit),
		associations: make(map[PatientHospital]struct{}),
		newUUID:      uuid.New,
	}
}

// IsEmpty reports whether the store holds no entities at all.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patients) == 0 && len(s.hospitals) == 0 && len(s.visits) == 0
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Patients:     len(s.patients),
		Hospitals:    len(s.hospitals),
		Visits:       len(s.visits),
		Associations: len(s.associations),
	}
}

// newID returns an identity unused by any collection. Caller holds mu.
func (s *Store) newID() uuid.UUID {
	for {
		id := s.newUUID()
		if id == uuid.Nil {
			continue
		}
		_, p := s.patients[id]
		_, h := s.hospitals[id]
		_, v := s.visits[id]
		if !p && !h && !v {
			return id
		}
	}
}

// -- entity insertion and removal; caller holds mu for writing --

func (s *Store) putPatient(p *Patient) {
	if _, ok := s.patients[p.ID]; !ok {
		s.patientOrder = append(s.patientOrder, p.ID)
	}
	stored := *p
	stored.PatientHospitals = nil
	s.patients[p.ID] = &stored
}

func (s *Store) putHospital(h *Hospital) {
	if _, ok := s.hospitals[h.ID]; !ok {
		s.hospitalOrder = append(s.hospitalOrder, h.ID)
	}
	stored := *h
	stored.PatientHospitals = nil
	s.hospitals[h.ID] = &stored
}

func (s *Store) putVisit(v *Visit) {
	if _, ok := s.visits[v.ID]; !ok {
		s.visitOrder = append(s.visitOrder, v.ID)
	}
	s.visits[v.ID] = v.clone()
}

func (s *Store) removePatient(id uuid.UUID) bool {
	if _, ok := s.patients[id]; !ok {
		return false
	}
	delete(s.patients, id)
	s.patientOrder = removeID(s.patientOrder, id)
	s.unlinkAll(id)
	return true
}

func (s *Store) removeHospital(id uuid.UUID) bool {
	if _, ok := s.hospitals[id]; !ok {
		return false
	}
	delete(s.hospitals, id)
	s.hospitalOrder = removeID(s.hospitalOrder, id)
	s.unlinkAll(id)
	return true
}

func (s *Store) removeVisit(id uuid.UUID) bool {
	if _, ok := s.visits[id]; !ok {
		return false
	}
	delete(s.visits, id)
	s.visitOrder = removeID(s.visitOrder, id)
	s.unlinkAll(id)
	return true
}

// -- associations --

// resolves reports whether every referent of a exists. Caller holds mu.
func (s *Store) resolves(a PatientHospital) bool {
	_, p := s.patients[a.PatientID]
	_, h := s.hospitals[a.HospitalID]
	_, v := s.visits[a.VisitID]
	return p && h && v
}

// link stores a; the caller has already checked resolves(a).
func (s *Store) link(a PatientHospital) {
	if _, ok := s.associations[a]; ok {
		return
	}
	s.associations[a] = struct{}{}
	s.associationOrder = append(s.associationOrder, a)
}

// unlinkAll drops every association referencing id and returns how many
// were removed.
func (s *Store) unlinkAll(id uuid.UUID) int {
	kept := s.associationOrder[:0]
	removed := 0
	for _, a := range s.associationOrder {
		if a.References(id) {
			delete(s.associations, a)
			removed++
			continue
		}
		kept = append(kept, a)
	}
	s.associationOrder = kept
	return removed
}

// linksOf returns a fresh slice of the associations matching keep, in
// insertion order. Caller holds mu.
func (s *Store) linksOf(keep func(PatientHospital) bool) []PatientHospital {
	var out []PatientHospital
	for _, a := range s.associationOrder {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// -- views; caller holds mu for reading --

func (s *Store) patientView(id uuid.UUID) (*Patient, bool) {
	p, ok := s.patients[id]
	if !ok {
		return nil, false
	}
	out := p.clone()
	out.PatientHospitals = s.linksOf(func(a PatientHospital) bool { return a.PatientID == id })
	return out, true
}

func (s *Store) hospitalView(id uuid.UUID) (*Hospital, bool) {
	h, ok := s.hospitals[id]
	if !ok {
		return nil, false
	}
	out := h.clone()
	out.PatientHospitals = s.linksOf(func(a PatientHospital) bool { return a.HospitalID == id })
	return out, true
}

func (s *Store) visitView(id uuid.UUID) (*Visit, bool) {
	v, ok := s.visits[id]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
