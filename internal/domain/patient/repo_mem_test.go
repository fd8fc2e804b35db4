package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func fullNames(ps []*Patient) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.FirstName+" "+p.LastName)
	}
	return out
}

func TestPatientRepoMem_GetAllKeepsInsertionOrder(t *testing.T) {
	repo := NewPatientRepoMem(newSeededStore(t))
	ctx := context.Background()

	added, err := repo.Add(ctx, &Patient{FirstName: "Aoife", LastName: "Byrne", Email: "aoife@hci.care"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := fullNames(repo.GetAll(ctx))
	want := []string{
		"John Sweeney",
		"Vinny Lawlor",
		"Pauline O'Connor Molloy",
		"Mikey Molloy",
		"Sean Molloy",
		"Aoife Byrne",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAll() mismatch (-want +got):\n%s", diff)
	}
	if added.ID == uuid.Nil {
		t.Error("expected Add to assign an identity")
	}
}

func TestPatientRepoMem_FindByName(t *testing.T) {
	repo := NewPatientRepoMem(newSeededStore(t))
	ctx := context.Background()

	want := []string{"Pauline O'Connor Molloy", "Mikey Molloy", "Sean Molloy"}
	for _, term := range []string{"Molloy", "molloy", "MOLLOY", "olloy"} {
		got := fullNames(repo.FindByName(ctx, term))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("FindByName(%q) mismatch (-want +got):\n%s", term, diff)
		}
	}

	got := fullNames(repo.FindByName(ctx, "vinn"))
	if diff := cmp.Diff([]string{"Vinny Lawlor"}, got); diff != "" {
		t.Errorf("first-name match mismatch (-want +got):\n%s", diff)
	}
}

func TestPatientRepoMem_FindByNameNoMatchIsEmpty(t *testing.T) {
	repo := NewPatientRepoMem(newSeededStore(t))

	got := repo.FindByName(context.Background(), "Zebedee")
	if got == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", fullNames(got))
	}
}

func TestPatientRepoMem_GetByID(t *testing.T) {
	repo := NewPatientRepoMem(newSeededStore(t))
	ctx := context.Background()

	if _, ok := repo.GetByID(ctx, uuid.New()); ok {
		t.Error("expected unknown id to be absent")
	}

	first := repo.GetAll(ctx)[0]
	got, ok := repo.GetByID(ctx, first.ID)
	if !ok {
		t.Fatal("expected seeded patient to be found")
	}
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("GetByID mismatch (-want +got):\n%s", diff)
	}
}

func TestPatientRepoMem_AddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		patient   Patient
		wantField string
	}{
		{"blank first name", Patient{FirstName: "  ", LastName: "Doe", Email: "j@hci.care"}, "first_name"},
		{"empty last name", Patient{FirstName: "Jane", Email: "j@hci.care"}, "last_name"},
		{"missing email", Patient{FirstName: "Jane", LastName: "Doe"}, "email"},
		{"malformed email", Patient{FirstName: "Jane", LastName: "Doe", Email: "not-an-email"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeededStore(t)
			repo := NewPatientRepoMem(s)

			p := tt.patient
			_, err := repo.Add(context.Background(), &p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("expected errors.Is(err, ErrValidation)")
			}
			if n := s.Counts().Patients; n != 5 {
				t.Errorf("expected store untouched with 5 patients, got %d", n)
			}
		})
	}
}

func TestPatientRepoMem_AddRejectsDanglingAssociation(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()
	visit := NewVisitRepoMem(s).GetAll(ctx)[0]
	hospital := NewHospitalRepoMem(s).GetAll(ctx)[0]

	_, err := repo.Add(ctx, &Patient{
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            "jane@hci.care",
		PatientHospitals: []PatientHospital{{HospitalID: uuid.New(), VisitID: visit.ID}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "patient_hospitals[0].hospital_id" {
		t.Fatalf("expected hospital_id validation error, got %v", err)
	}

	_, err = repo.Add(ctx, &Patient{
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            "jane@hci.care",
		PatientHospitals: []PatientHospital{{HospitalID: hospital.ID, VisitID: uuid.New()}},
	})
	if !errors.As(err, &verr) || verr.Field != "patient_hospitals[0].visit_id" {
		t.Fatalf("expected visit_id validation error, got %v", err)
	}

	if got := s.Counts(); got.Patients != 5 || got.Associations != 1 {
		t.Errorf("expected store untouched, got %+v", got)
	}
}

func TestPatientRepoMem_AddWithAssociation(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()
	hospital := NewHospitalRepoMem(s).GetAll(ctx)[0]
	visit := NewVisitRepoMem(s).GetAll(ctx)[0]

	added, err := repo.Add(ctx, &Patient{
		ID:               uuid.New(),
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            "jane@hci.care",
		PatientHospitals: []PatientHospital{{PatientID: uuid.New(), HospitalID: hospital.ID, VisitID: visit.ID}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []PatientHospital{{PatientID: added.ID, HospitalID: hospital.ID, VisitID: visit.ID}}
	if diff := cmp.Diff(want, added.PatientHospitals); diff != "" {
		t.Errorf("associations mismatch (-want +got):\n%s", diff)
	}

	h, _ := NewHospitalRepoMem(s).GetByID(ctx, hospital.ID)
	if len(h.PatientHospitals) != 2 {
		t.Errorf("expected hospital to list 2 associations, got %d", len(h.PatientHospitals))
	}
}

func TestPatientRepoMem_UpdateReplacesAllButIdentity(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()
	john := repo.GetAll(ctx)[0]

	ok, err := repo.Update(ctx, john.ID, &Patient{
		ID:        uuid.New(),
		FirstName: "Johnny",
		LastName:  "Sweeney",
		Email:     "johnny@hci.care",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected update of existing patient to report true")
	}

	got, _ := repo.GetByID(ctx, john.ID)
	want := &Patient{ID: john.ID, FirstName: "Johnny", LastName: "Sweeney", Email: "johnny@hci.care"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("updated patient mismatch (-want +got):\n%s", diff)
	}
	if n := s.Counts().Associations; n != 0 {
		t.Errorf("expected associations replaced by the empty set, got %d", n)
	}
	if ids := fullNames(repo.GetAll(ctx)); ids[0] != "Johnny Sweeney" {
		t.Errorf("expected updated patient to keep its position, got %v", ids)
	}
}

func TestPatientRepoMem_UpdateMissing(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)

	ok, err := repo.Update(context.Background(), uuid.New(), &Patient{FirstName: "A", LastName: "B", Email: "a@b.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected update of unknown id to report false")
	}
	if n := s.Counts().Patients; n != 5 {
		t.Errorf("expected no patient to be added, got %d", n)
	}
}

func TestPatientRepoMem_DeleteOnceThenAbsent(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()
	john := repo.GetAll(ctx)[0]

	ok, err := repo.Delete(ctx, john.ID)
	if err != nil || !ok {
		t.Fatalf("expected first delete to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.Delete(ctx, john.ID)
	if err != nil || ok {
		t.Fatalf("expected second delete to report false, got ok=%v err=%v", ok, err)
	}

	if n := s.Counts().Associations; n != 0 {
		t.Errorf("expected John's association to be cascaded, got %d", n)
	}
	h := NewHospitalRepoMem(s).GetAll(ctx)[0]
	if len(h.PatientHospitals) != 0 {
		t.Errorf("expected hospital to list no associations, got %d", len(h.PatientHospitals))
	}
}

func TestHospitalRepoMem_DeleteCascades(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	hospitals := NewHospitalRepoMem(s)
	patients := NewPatientRepoMem(s)
	h := hospitals.GetAll(ctx)[0]

	ok, err := hospitals.Delete(ctx, h.ID)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got ok=%v err=%v", ok, err)
	}
	if _, ok := hospitals.GetByID(ctx, h.ID); ok {
		t.Error("expected hospital to be gone")
	}
	for _, p := range patients.GetAll(ctx) {
		if len(p.PatientHospitals) != 0 {
			t.Errorf("expected %s to lose the association", p.FirstName)
		}
	}
	if n := s.Counts().Associations; n != 0 {
		t.Errorf("expected 0 associations, got %d", n)
	}
}

func TestVisitRepoMem_DeleteCascades(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	visits := NewVisitRepoMem(s)
	v := visits.GetAll(ctx)[0]

	ok, err := visits.Delete(ctx, v.ID)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got ok=%v err=%v", ok, err)
	}
	if ok, _ := visits.Delete(ctx, v.ID); ok {
		t.Error("expected second delete to report false")
	}

	john := NewPatientRepoMem(s).GetAll(ctx)[0]
	if len(john.PatientHospitals) != 0 {
		t.Errorf("expected John's association to be cascaded, got %d", len(john.PatientHospitals))
	}
	h := NewHospitalRepoMem(s).GetAll(ctx)[0]
	if len(h.PatientHospitals) != 0 {
		t.Errorf("expected hospital to list no associations, got %d", len(h.PatientHospitals))
	}
}

func TestVisitRepoMem_AddNormalisesDate(t *testing.T) {
	repo := NewVisitRepoMem(NewStore())
	ctx := context.Background()

	in := time.Date(2024, 3, 9, 17, 45, 0, 0, time.FixedZone("IST", 5*3600+1800))
	v, err := repo.Add(ctx, &Visit{Date: in})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	if !v.Date.Equal(want) {
		t.Errorf("expected %s, got %s", want, v.Date)
	}

	if _, err := repo.Add(ctx, &Visit{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for zero date, got %v", err)
	}
}

func TestHospitalRepoMem_AddRejectsBlankName(t *testing.T) {
	repo := NewHospitalRepoMem(NewStore())

	_, err := repo.Add(context.Background(), &Hospital{Name: " \t"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestPatientRepoMem_ReturnsCopies(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()

	john := repo.GetAll(ctx)[0]
	john.FirstName = "Mutated"
	john.PatientHospitals[0].HospitalID = uuid.New()

	again, _ := repo.GetByID(ctx, john.ID)
	if again.FirstName != "John" {
		t.Errorf("expected stored name to be unchanged, got %s", again.FirstName)
	}
	h := NewHospitalRepoMem(s).GetAll(ctx)[0]
	if again.PatientHospitals[0].HospitalID != h.ID {
		t.Error("expected stored association to be unchanged")
	}
}

func TestPatientRepoMem_CancelledContextLeavesStoreUntouched(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	john := repo.GetAll(context.Background())[0]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Add(ctx, &Patient{FirstName: "A", LastName: "B", Email: "a@b.io"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from Add, got %v", err)
	}
	if _, err := repo.Delete(ctx, john.ID); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from Delete, got %v", err)
	}
	if n := s.Counts().Patients; n != 5 {
		t.Errorf("expected 5 patients, got %d", n)
	}
}

func TestPatientRepoMem_ConcurrentAdds(t *testing.T) {
	s := newSeededStore(t)
	repo := NewPatientRepoMem(s)
	ctx := context.Background()

	const n = 64
	ids := make([]uuid.UUID, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			p, err := repo.Add(ctx, &Patient{
				FirstName: fmt.Sprintf("First%d", i),
				LastName:  "Concurrent",
				Email:     fmt.Sprintf("p%d@hci.care", i),
			})
			if err != nil {
				return err
			}
			ids[i] = p.ID
			return nil
		})
		// Readers run alongside the writers.
		g.Go(func() error {
			_ = repo.FindByName(ctx, "Concurrent")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[uuid.UUID]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identity %s", id)
		}
		seen[id] = true
	}

	all := repo.GetAll(ctx)
	if len(all) != 5+n {
		t.Fatalf("expected %d patients, got %d", 5+n, len(all))
	}
	for _, p := range all {
		delete(seen, p.ID)
	}
	if len(seen) != 0 {
		t.Errorf("expected every added patient in GetAll, %d missing", len(seen))
	}
}
