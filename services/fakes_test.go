package services

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

type fakeAdmissions struct {
	mu         sync.Mutex
	beds       map[string]*models.Bed
	patients   map[string]*models.Patient
	admissions map[string]*models.Admission
	seq        int
}

func newFakeAdmissions() *fakeAdmissions {
	return &fakeAdmissions{
		beds:       map[string]*models.Bed{},
		patients:   map[string]*models.Patient{},
		admissions: map[string]*models.Admission{},
	}
}

func (f *fakeAdmissions) addBed(id string, rate int64) *models.Bed {
	bed := &models.Bed{
		ID:        id,
		BedNumber: id,
		Status:    models.BedAvailable,
		BedType:   &models.BedType{ID: "bt-" + id, Name: "General", DailyRate: decimal.NewFromInt(rate)},
	}
	f.beds[id] = bed
	return bed
}

// addAdmission places an admission directly, bypassing bed checks.
func (f *fakeAdmissions) addAdmission(id, patientID, bedID, status string) *models.Admission {
	f.admissions[id] = &models.Admission{ID: id, PatientID: patientID, BedID: bedID, AdmittedBy: "doc-1", Status: status}
	if status == models.AdmissionActive {
		if bed, ok := f.beds[bedID]; ok {
			bed.Status = models.BedOccupied
		}
	}
	return f.admissions[id]
}

func (f *fakeAdmissions) view(a *models.Admission) *models.Admission {
	out := *a
	out.Bed = f.beds[a.BedID]
	out.Patient = f.patients[a.PatientID]
	return &out
}

func (f *fakeAdmissions) Create(_ context.Context, admission *models.Admission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bed, ok := f.beds[admission.BedID]
	if !ok {
		return fmt.Errorf("bed %s: %w", admission.BedID, apperr.ErrNotFound)
	}
	if bed.Status != models.BedAvailable {
		return fmt.Errorf("bed %s is %s: %w", bed.ID, bed.Status, apperr.ErrConflict)
	}
	f.seq++
	admission.ID = fmt.Sprintf("adm-%d", f.seq)
	stored := *admission
	f.admissions[admission.ID] = &stored
	bed.Status = models.BedOccupied
	return nil
}

func (f *fakeAdmissions) GetByID(_ context.Context, id string) (*models.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admissions[id]
	if !ok {
		return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrNotFound)
	}
	return f.view(a), nil
}

func (f *fakeAdmissions) List(_ context.Context, status string) ([]models.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Admission
	for _, a := range f.admissions {
		if status == "" || a.Status == status {
			out = append(out, *f.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAdmissions) Discharge(ctx context.Context, id, notes string, at time.Time) (*models.Admission, error) {
	f.mu.Lock()
	a, ok := f.admissions[id]
	if !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrNotFound)
	}
	if a.Status != models.AdmissionActive {
		f.mu.Unlock()
		return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrConflict)
	}
	a.Status = models.AdmissionDischarged
	a.DischargeDate = &at
	a.DischargeNotes = notes
	if bed, ok := f.beds[a.BedID]; ok {
		bed.Status = models.BedAvailable
	}
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

func (f *fakeAdmissions) UpdateStatus(ctx context.Context, id, status string) (*models.Admission, error) {
	f.mu.Lock()
	a, ok := f.admissions[id]
	if !ok {
		f.mu.Unlock()
		return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrNotFound)
	}
	if a.Status == models.AdmissionDischarged && status != models.AdmissionDischarged {
		f.mu.Unlock()
		return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrConflict)
	}
	a.Status = status
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

// fakePatients satisfies PatientRepository over the same patient map as fakeAdmissions.
type fakePatients struct {
	store *fakeAdmissions
}

func (f fakePatients) Create(_ context.Context, patient *models.Patient) error {
	patient.ID = fmt.Sprintf("HP-%06d", len(f.store.patients)+1)
	stored := *patient
	f.store.patients[patient.ID] = &stored
	return nil
}

func (f fakePatients) GetByID(_ context.Context, id string) (*models.Patient, error) {
	p, ok := f.store.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (f fakePatients) GetAll(_ context.Context) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range f.store.patients {
		out = append(out, *p)
	}
	return out, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	txns []models.BillingTransaction
	seq  int
	err  error
}

func (f *fakeLedger) ListByAdmission(_ context.Context, admissionID string) ([]models.BillingTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BillingTransaction
	for _, txn := range f.txns {
		if txn.AdmissionID == admissionID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedger) Create(_ context.Context, txn *models.BillingTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.seq++
	txn.ID = fmt.Sprintf("txn-%d", f.seq)
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeLedger) HasChargeBetween(_ context.Context, admissionID, marker string, from, to time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.txns {
		if txn.AdmissionID == admissionID && txn.Type == models.TxnCharge &&
			strings.Contains(txn.Description, marker) &&
			!txn.ProcessedAt.Before(from) && !txn.ProcessedAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) CreateIfAbsent(ctx context.Context, txn *models.BillingTransaction) (bool, error) {
	f.mu.Lock()
	for _, existing := range f.txns {
		if existing.ChargeDate != nil && txn.ChargeDate != nil &&
			existing.AdmissionID == txn.AdmissionID &&
			existing.ChargeDate.Equal(*txn.ChargeDate) &&
			existing.Reference == txn.Reference {
			f.mu.Unlock()
			return false, nil
		}
	}
	f.mu.Unlock()
	if err := f.Create(ctx, txn); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeLedger) add(admissionID, txnType string, amount int64) {
	f.txns = append(f.txns, models.BillingTransaction{
		ID:          fmt.Sprintf("seed-%d", len(f.txns)+1),
		AdmissionID: admissionID,
		Type:        txnType,
		Amount:      decimal.NewFromInt(amount),
		ProcessedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	})
}

type fakeBills struct {
	store   *fakeAdmissions
	ledger  *fakeLedger
	bills   map[string]*models.Bill
	seq     int
	created int
}

func newFakeBills(store *fakeAdmissions, ledger *fakeLedger) *fakeBills {
	return &fakeBills{store: store, ledger: ledger, bills: map[string]*models.Bill{}}
}

func (f *fakeBills) CreateForAdmission(_ context.Context, admissionID string, build repositories.BillBuilder) (*models.Bill, error) {
	f.store.mu.Lock()
	a, ok := f.store.admissions[admissionID]
	var admission models.Admission
	if ok {
		admission = *a
	}
	f.store.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("admission %s: %w", admissionID, apperr.ErrNotFound)
	}
	if admission.Status == models.AdmissionActive {
		return nil, fmt.Errorf("admission %s is still active: %w", admissionID, apperr.ErrConflict)
	}
	for _, existing := range f.bills {
		if *existing.AdmissionID == admissionID {
			return nil, fmt.Errorf("admission %s already billed as %s: %w", admissionID, existing.BillNumber, apperr.ErrConflict)
		}
	}

	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	var txns []models.BillingTransaction
	var summed []int
	for i, txn := range f.ledger.txns {
		if txn.AdmissionID == admissionID && txn.BillID == nil {
			txns = append(txns, txn)
			summed = append(summed, i)
		}
	}

	bill := build(&admission, txns)
	f.seq++
	bill.ID = fmt.Sprintf("bill-%d", f.seq)
	bill.BillNumber = fmt.Sprintf("IPD-%06d", f.seq)
	bill.AdmissionID = &admission.ID
	for i := range bill.Items {
		bill.Items[i].BillID = bill.ID
		bill.Items[i].Position = i + 1
	}
	f.bills[bill.ID] = bill
	f.created++
	for _, i := range summed {
		id := bill.ID
		f.ledger.txns[i].BillID = &id
	}
	return bill, nil
}

func (f *fakeBills) GetByID(_ context.Context, id string) (*models.Bill, error) {
	bill, ok := f.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill %s: %w", id, apperr.ErrNotFound)
	}
	return bill, nil
}

type fakeLocker struct {
	mu       sync.Mutex
	acquired []string
	released int
	failFor  map[string]bool
}

func (f *fakeLocker) Acquire(_ context.Context, key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[key] {
		return nil, errors.New("lock not acquired")
	}
	f.acquired = append(f.acquired, key)
	return func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) SendBillSummary(_ context.Context, patient *models.Patient, bill *models.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, patient.ID+":"+bill.BillNumber)
	return f.err
}

// fixedClock returns a settable now func.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var testActor = models.Actor{ID: "42", Role: models.RoleNurse}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t testing.TB, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got.String())
}
