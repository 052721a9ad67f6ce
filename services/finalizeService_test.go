package services

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/rs/zerolog"
)

type finalizeFixture struct {
	svc      *FinalizeService
	store    *fakeAdmissions
	ledger   *fakeLedger
	bills    *fakeBills
	notifier *fakeNotifier
}

func newFinalizeFixture() *finalizeFixture {
	store := newFakeAdmissions()
	store.patients["HP-000001"] = &models.Patient{ID: "HP-000001", FirstName: "Asha", LastName: "Rao", Email: "asha@example.com"}
	store.addBed("bed-1", 1000)
	store.addAdmission("adm-1", "HP-000001", "bed-1", models.AdmissionDischarged)
	ledger := &fakeLedger{}
	bills := newFakeBills(store, ledger)
	notifier := &fakeNotifier{}
	return &finalizeFixture{
		svc:      NewFinalizeService(store, bills, notifier, zerolog.Nop()),
		store:    store,
		ledger:   ledger,
		bills:    bills,
		notifier: notifier,
	}
}

func TestFinalize(t *testing.T) {
	f := newFinalizeFixture()
	f.ledger.add("adm-1", models.TxnCharge, 2000)
	f.ledger.add("adm-1", models.TxnCharge, 350)
	f.ledger.add("adm-1", models.TxnDeposit, 500)
	f.ledger.add("adm-1", models.TxnPayment, 200)
	f.ledger.add("adm-1", models.TxnRefund, 50)
	f.ledger.add("adm-1", models.TxnAdjustment, 100)

	bill, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)
	assert.Equal(t, "IPD-000001", bill.BillNumber)
	assert.Equal(t, "adm-1", *bill.AdmissionID)
	assert.Equal(t, "HP-000001", bill.PatientID)
	assert.Equal(t, "doc-1", bill.DoctorID)
	assert.Equal(t, "42", bill.CreatedBy)
	assertAmount(t, "2350", bill.TotalAmount)
	assertAmount(t, "2350", bill.FinalAmount)
	assertAmount(t, "700", bill.PaidAmount)
	assertAmount(t, "1600", bill.BalanceAmount)
	assertAmount(t, "0", bill.CGST)
	assertAmount(t, "0", bill.SGST)
	assertAmount(t, "0", bill.DiscountAmount)
	assert.Equal(t, models.BillPending, bill.PaymentStatus)

	assert.Equal(t, 1, len(bill.Items))
	item := bill.Items[0]
	assert.Equal(t, SummaryItemName, item.ItemName)
	assert.Equal(t, 1, item.Quantity)
	assertAmount(t, "2350", item.UnitPrice)
	assertAmount(t, "2350", item.TotalPrice)

	for _, txn := range f.ledger.txns {
		assert.Equal(t, bill.ID, *txn.BillID)
	}
	f.svc.Wait()
	assert.Equal(t, []string{"HP-000001:IPD-000001"}, f.notifier.sent)
}

func TestFinalizeSettledLedgerIsPaid(t *testing.T) {
	f := newFinalizeFixture()
	f.ledger.add("adm-1", models.TxnCharge, 1000)
	f.ledger.add("adm-1", models.TxnDeposit, 1500)

	bill, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)
	assert.Equal(t, models.BillPaid, bill.PaymentStatus)
	assertAmount(t, "0", bill.BalanceAmount)
	assertAmount(t, "1500", bill.PaidAmount)
}

func TestFinalizeEmptyLedger(t *testing.T) {
	f := newFinalizeFixture()

	bill, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)
	assert.Equal(t, models.BillPaid, bill.PaymentStatus)
	assertAmount(t, "0", bill.TotalAmount)
	assertAmount(t, "0", bill.FinalAmount)
	assertAmount(t, "0", bill.PaidAmount)
	assertAmount(t, "0", bill.BalanceAmount)
	assert.Equal(t, 1, len(bill.Items))
}

func TestFinalizeTwiceConflicts(t *testing.T) {
	f := newFinalizeFixture()
	f.ledger.add("adm-1", models.TxnCharge, 1000)

	_, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)

	_, err = f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 1, f.bills.created)
}

func TestFinalizeNotifierFailureIsNotFatal(t *testing.T) {
	f := newFinalizeFixture()
	f.notifier.err = errors.New("smtp down")

	bill, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)
	assert.NotEqual(t, "", bill.ID)
	f.svc.Wait()
	assert.Equal(t, 1, len(f.notifier.sent))
}

func TestFinalizeRefusesActiveAdmission(t *testing.T) {
	f := newFinalizeFixture()
	f.store.addBed("bed-2", 1000)
	f.store.addAdmission("adm-2", "HP-000001", "bed-2", models.AdmissionActive)
	f.ledger.add("adm-2", models.TxnCharge, 1000)

	_, err := f.svc.Finalize(context.Background(), testActor, "adm-2")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 0, f.bills.created)

	// Once discharged the bed stops accruing, so the bill covers every charge.
	admissions := NewAdmissionService(f.store, fakePatients{store: f.store})
	_, err = admissions.UpdateStatus(context.Background(), UpdateAdmissionInput{ID: "adm-2", Status: models.AdmissionDischarged})
	assert.NoError(t, err)

	bill, err := f.svc.Finalize(context.Background(), testActor, "adm-2")
	assert.NoError(t, err)
	assertAmount(t, "1000", bill.TotalAmount)

	charges := NewBedChargeService(f.store, f.ledger, &fakeLocker{}, time.UTC, zerolog.Nop())
	results, err := charges.PostDailyCharges(context.Background(), models.SystemActor, "adm-2")
	assert.NoError(t, err)
	assert.False(t, results[0].Posted)

	for _, txn := range f.ledger.txns {
		if txn.AdmissionID == "adm-2" {
			assert.Equal(t, bill.ID, *txn.BillID)
		}
	}
	f.svc.Wait()
}

func TestFinalizeErrors(t *testing.T) {
	f := newFinalizeFixture()

	_, err := f.svc.Finalize(context.Background(), testActor, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = f.svc.Finalize(context.Background(), models.Actor{}, "adm-1")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = f.svc.Finalize(context.Background(), testActor, "adm-404")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 0, f.bills.created)
}

func TestGetBill(t *testing.T) {
	f := newFinalizeFixture()
	created, err := f.svc.Finalize(context.Background(), testActor, "adm-1")
	assert.NoError(t, err)

	bill, err := f.svc.GetBill(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.BillNumber, bill.BillNumber)

	_, err = f.svc.GetBill(context.Background(), "bill-404")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
