package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.patients {
		if p.MRN == mrn {
			return p, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if f.ActiveOnly && !p.Active() {
			continue
		}
		if f.Ward != "" && (p.Ward == nil || *p.Ward != f.Ward) {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func ptrStr(s string) *string { return &s }

// -- Tests --

func TestAdmitPatient(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	p := &Patient{MRN: "MRN001", FirstName: "Ada", LastName: "Okafor", Bed: ptrStr("12")}
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("AdmitPatient returned error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if p.AdmittedAt.IsZero() {
		t.Error("expected admitted_at defaulted")
	}
}

func TestAdmitPatientRequiresMRN(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	err := svc.AdmitPatient(context.Background(), &Patient{LastName: "Okafor"})
	if err == nil {
		t.Fatal("expected error for missing mrn")
	}
}

func TestAdmitPatientRequiresName(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	err := svc.AdmitPatient(context.Background(), &Patient{MRN: "MRN001"})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestAdmitPatientRejectsDuplicateActiveMRN(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	first := &Patient{MRN: "MRN001", LastName: "Okafor"}
	if err := svc.AdmitPatient(context.Background(), first); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if err := svc.AdmitPatient(context.Background(), &Patient{MRN: "MRN001", LastName: "Other"}); err == nil {
		t.Fatal("expected error for duplicate active mrn")
	}
}

func TestAdmitPatientAllowsReadmission(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	first := &Patient{MRN: "MRN001", LastName: "Okafor"}
	if err := svc.AdmitPatient(context.Background(), first); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if _, err := svc.DischargePatient(context.Background(), first.ID); err != nil {
		t.Fatalf("discharge: %v", err)
	}

	if err := svc.AdmitPatient(context.Background(), &Patient{MRN: "MRN001", LastName: "Okafor"}); err != nil {
		t.Errorf("expected readmission after discharge to succeed, got %v", err)
	}
}

func TestDischargePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	p := &Patient{MRN: "MRN002", LastName: "Singh"}
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("admit: %v", err)
	}

	got, err := svc.DischargePatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("DischargePatient returned error: %v", err)
	}
	if got.DischargedAt == nil {
		t.Error("expected discharged_at set")
	}
	if got.Active() {
		t.Error("expected patient inactive after discharge")
	}

	if _, err := svc.DischargePatient(context.Background(), p.ID); err == nil {
		t.Error("expected error on double discharge")
	}
}

func TestListPatientsActiveOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	a := &Patient{MRN: "A", LastName: "Active"}
	b := &Patient{MRN: "B", LastName: "Gone"}
	if err := svc.AdmitPatient(context.Background(), a); err != nil {
		t.Fatalf("admit a: %v", err)
	}
	if err := svc.AdmitPatient(context.Background(), b); err != nil {
		t.Fatalf("admit b: %v", err)
	}
	if _, err := svc.DischargePatient(context.Background(), b.ID); err != nil {
		t.Fatalf("discharge b: %v", err)
	}

	active, total, err := svc.ListPatients(context.Background(), ListFilter{ActiveOnly: true}, 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if total != 1 || len(active) != 1 || active[0].MRN != "A" {
		t.Errorf("active list = %d patients (total %d), want just MRN A", len(active), total)
	}

	_, total, err = svc.ListPatients(context.Background(), ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("ListPatients all: %v", err)
	}
	if total != 2 {
		t.Errorf("all patients total = %d, want 2", total)
	}
}

func TestListPatientsByWard(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	a := &Patient{MRN: "A", LastName: "West", Ward: ptrStr("4W")}
	b := &Patient{MRN: "B", LastName: "East", Ward: ptrStr("4E")}
	if err := svc.AdmitPatient(context.Background(), a); err != nil {
		t.Fatalf("admit a: %v", err)
	}
	if err := svc.AdmitPatient(context.Background(), b); err != nil {
		t.Fatalf("admit b: %v", err)
	}

	got, total, err := svc.ListPatients(context.Background(), ListFilter{Ward: "4W"}, 20, 0)
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].MRN != "A" {
		t.Errorf("ward list = %d patients (total %d), want just MRN A", len(got), total)
	}
}

func TestFullName(t *testing.T) {
	p := &Patient{FirstName: "Ada", LastName: "Okafor"}
	if got := p.FullName(); got != "Ada Okafor" {
		t.Errorf("FullName = %q", got)
	}
	p = &Patient{LastName: "Okafor"}
	if got := p.FullName(); got != "Okafor" {
		t.Errorf("FullName = %q", got)
	}
}
