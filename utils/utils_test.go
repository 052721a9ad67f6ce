package utils

import (
	"IPDLedger/models"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

func TestDayBounds(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 10th is 01:30 on the 11th at UTC+05:30.
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	start := StartOfDay(now, ist)
	end := EndOfDay(now, ist)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, ist), start)
	assert.Equal(t, time.Date(2026, 3, 11, 23, 59, 59, 999999999, ist), end)
	assert.Equal(t, "2026-03-11", DateKey(now, ist))
	assert.Equal(t, "2026-03-10", DateKey(now, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), CalendarDate(now, ist))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), CalendarDate(now, time.UTC))

	assert.False(t, now.Before(start))
	assert.False(t, now.After(end))
}

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("short")
	assert.Error(t, err)

	issuer, err := NewTokenIssuer("0123456789abcdef0123456789abcdef")
	assert.NoError(t, err)
	issued := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.GenerateAccessToken("7", models.RoleNurse)
	assert.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, models.RoleNurse, claims.Role)

	_, err = issuer.ValidateToken(token, models.RoleAdmin, models.RoleNurse)
	assert.NoError(t, err)
	_, err = issuer.ValidateToken(token, models.RoleAdmin)
	assert.True(t, errors.Is(err, ErrInsufficientPermission))

	issuer.now = func() time.Time { return issued.Add(AccessTokenExpiry + time.Minute) }
	_, err = issuer.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrTokenExpired))

	other, err := NewTokenIssuer("fedcba9876543210fedcba9876543210")
	assert.NoError(t, err)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("Ward@2026x")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hashed, "Ward@2026x"))
	assert.False(t, CheckPassword(hashed, "ward@2026x"))
}

func TestValidateUserData(t *testing.T) {
	assert.NoError(t, ValidateUserData("nurse.joy", "joy@example.com", "Ward@2026x", models.RoleNurse))

	err := ValidateUserData("jo", "joy@example.com", "Ward@2026x", models.RoleNurse)
	assert.Contains(t, err.Error(), "username")

	err = ValidateUserData("nurse.joy", "joy@example.com", "short", models.RoleNurse)
	assert.Contains(t, err.Error(), ErrPasswordTooShort.Error())

	err = ValidateUserData("nurse.joy", "joy@example.com", "longbutsimple", models.RoleNurse)
	assert.Contains(t, err.Error(), ErrPasswordNotComplex.Error())

	err = ValidateUserData("nurse.joy", "joy@example.com", "Ward@2026x", "")
	assert.Contains(t, err.Error(), "role")
}

func TestBillMessage(t *testing.T) {
	mailer := NewBillMailer(MailConfig{Host: "smtp.example.com", Port: 587, User: "billing@example.com"})
	patient := &models.Patient{ID: "HP-000001", FirstName: "Asha", LastName: "Rao", Email: "asha@example.com"}
	bill := &models.Bill{
		BillNumber:    "IPD-000001",
		FinalAmount:   decimal.NewFromInt(2000),
		PaidAmount:    decimal.NewFromInt(500),
		BalanceAmount: decimal.NewFromInt(1500),
	}

	msg, err := mailer.billMessage(patient, bill)
	assert.NoError(t, err)
	var out strings.Builder
	_, err = msg.WriteTo(&out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Subject: Hospital bill IPD-000001")
	assert.Contains(t, out.String(), "asha@example.com")
	assert.Contains(t, out.String(), "balance due 1500.00")
}

func TestSendBillSummarySkipsPatientWithoutEmail(t *testing.T) {
	mailer := NewBillMailer(MailConfig{Host: "127.0.0.1", Port: 1})
	err := mailer.SendBillSummary(context.Background(), &models.Patient{ID: "HP-000002"}, &models.Bill{})
	assert.NoError(t, err)
}

func TestSendBillSummaryGivesUpWithContext(t *testing.T) {
	mailer := NewBillMailer(MailConfig{Host: "smtp.example.com", Port: 587, User: "billing@example.com"})
	release := make(chan struct{})
	defer close(release)
	mailer.send = func(...*gomail.Message) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	patient := &models.Patient{ID: "HP-000003", FirstName: "Ravi", LastName: "Iyer", Email: "ravi@example.com"}
	err := mailer.SendBillSummary(ctx, patient, &models.Bill{BillNumber: "IPD-000003"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestSendBillSummaryDelivers(t *testing.T) {
	mailer := NewBillMailer(MailConfig{Host: "smtp.example.com", Port: 587, User: "billing@example.com"})
	var sent []*gomail.Message
	mailer.send = func(msgs ...*gomail.Message) error {
		sent = append(sent, msgs...)
		return nil
	}

	patient := &models.Patient{ID: "HP-000004", FirstName: "Meera", LastName: "Nair", Email: "meera@example.com"}
	err := mailer.SendBillSummary(context.Background(), patient, &models.Bill{BillNumber: "IPD-000004"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(sent))
	assert.Equal(t, []string{"meera@example.com"}, sent[0].GetHeader("To"))
}
