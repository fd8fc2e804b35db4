package patient

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Fixture is the YAML shape of a seed data set. Hospitals and visits carry
// a local key so patients can reference them before identities exist.
type Fixture struct {
	Hospitals []FixtureHospital `yaml:"hospitals"`
	Visits    []FixtureVisit    `yaml:"visits"`
	Patients  []FixturePatient  `yaml:"patients"`
}

type FixtureHospital struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type FixtureVisit struct {
	Key  string `yaml:"key"`
	Date string `yaml:"date"`
}

type FixturePatient struct {
	FirstName string            `yaml:"first_name"`
	LastName  string            `yaml:"last_name"`
	Email     string            `yaml:"email"`
	Visits    []FixtureVisitRef `yaml:"visits,omitempty"`
}

type FixtureVisitRef struct {
	Hospital string `yaml:"hospital"`
	Visit    string `yaml:"visit"`
}

// DefaultFixture returns the embedded seed data set.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultSeed)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	return &f, nil
}

// Seed loads f into the store if, and only if, the store is empty. It
// reports whether anything was loaded. The fixture is checked in full
// before the first entity is written, so a bad fixture leaves the store
// untouched.
func (s *Store) Seed(f *Fixture) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.patients) > 0 || len(s.hospitals) > 0 || len(s.visits) > 0 {
		return false, nil
	}

	hospitals := make(map[string]*Hospital, len(f.Hospitals))
	for _, fh := range f.Hospitals {
		if _, dup := hospitals[fh.Key]; dup {
			return false, fmt.Errorf("seed hospital %q: duplicate key", fh.Key)
		}
		if err := validateHospital(&Hospital{Name: fh.Name}); err != nil {
			return false, fmt.Errorf("seed hospital %q: %w", fh.Key, err)
		}
		hospitals[fh.Key] = &Hospital{Name: fh.Name}
	}

	visits := make(map[string]*Visit, len(f.Visits))
	for _, fv := range f.Visits {
		if _, dup := visits[fv.Key]; dup {
			return false, fmt.Errorf("seed visit %q: duplicate key", fv.Key)
		}
		d, err := time.Parse(time.DateOnly, fv.Date)
		if err != nil {
			return false, fmt.Errorf("seed visit %q: %w", fv.Key, err)
		}
		visits[fv.Key] = &Visit{Date: VisitDate(d)}
	}

	patients := make([]*Patient, 0, len(f.Patients))
	for _, fp := range f.Patients {
		p := &Patient{FirstName: fp.FirstName, LastName: fp.LastName, Email: fp.Email}
		if err := validatePatient(p); err != nil {
			return false, fmt.Errorf("seed patient %s %s: %w", fp.FirstName, fp.LastName, err)
		}
		for _, ref := range fp.Visits {
			if _, ok := hospitals[ref.Hospital]; !ok {
				return false, fmt.Errorf("seed patient %s %s: unknown hospital key %q", fp.FirstName, fp.LastName, ref.Hospital)
			}
			if _, ok := visits[ref.Visit]; !ok {
				return false, fmt.Errorf("seed patient %s %s: unknown visit key %q", fp.FirstName, fp.LastName, ref.Visit)
			}
		}
		patients = append(patients, p)
	}

	for _, fh := range f.Hospitals {
		h := hospitals[fh.Key]
		h.ID = s.newID()
		s.putHospital(h)
	}
	for _, fv := range f.Visits {
		v := visits[fv.Key]
		v.ID = s.newID()
		s.putVisit(v)
	}
	for i, fp := range f.Patients {
		p := patients[i]
		p.ID = s.newID()
		s.putPatient(p)
		for _, ref := range fp.Visits {
			s.link(PatientHospital{
				PatientID:  p.ID,
				HospitalID: hospitals[ref.Hospital].ID,
				VisitID:    visits[ref.Visit].ID,
			})
		}
	}
	return true, nil
}
