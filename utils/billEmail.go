package utils

import (
	"IPDLedger/models"
	"context"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// BillMailer sends the closing bill summary to the patient.
type BillMailer struct {
	config MailConfig
	send   func(msgs ...*gomail.Message) error
}

func NewBillMailer(config MailConfig) *BillMailer {
	return &BillMailer{
		config: config,
		send:   gomail.NewDialer(config.Host, config.Port, config.User, config.Pass).DialAndSend,
	}
}

var billEmailTemplate = template.Must(template.New("bill").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Your hospital bill {{.Bill.BillNumber}}</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f4f4; }
		.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
		td { padding: 4px 12px; }
		.due { font-weight: bold; color: #007bff; }
	</style>
</head>
<body>
	<div class="container">
		<h1>Bill {{.Bill.BillNumber}}</h1>
		<p>Dear {{.PatientName}}, your inpatient stay has been closed.</p>
		<table>
			<tr><td>Total charges</td><td>{{.Bill.FinalAmount.StringFixed 2}}</td></tr>
			<tr><td>Paid</td><td>{{.Bill.PaidAmount.StringFixed 2}}</td></tr>
			<tr><td>Balance due</td><td class="due">{{.Bill.BalanceAmount.StringFixed 2}}</td></tr>
		</table>
	</div>
</body>
</html>
`))

// SendBillSummary emails the bill to the patient's address on file. It gives up
// when ctx is done; the SMTP exchange itself cannot be interrupted.
func (m *BillMailer) SendBillSummary(ctx context.Context, patient *models.Patient, bill *models.Bill) error {
	if patient == nil || patient.Email == "" {
		return nil
	}

	msg, err := m.billMessage(patient, bill)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("bill email to %s abandoned: %w", patient.Email, ctx.Err())
	}
}

func (m *BillMailer) billMessage(patient *models.Patient, bill *models.Bill) (*gomail.Message, error) {
	var html strings.Builder
	err := billEmailTemplate.Execute(&html, map[string]interface{}{
		"Bill":        bill,
		"PatientName": patient.FullName(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render bill email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.User)
	msg.SetHeader("To", patient.Email)
	msg.SetHeader("Subject", "Hospital bill "+bill.BillNumber)
	msg.SetBody("text/plain", fmt.Sprintf("Bill %s: total %s, paid %s, balance due %s",
		bill.BillNumber, bill.FinalAmount.StringFixed(2), bill.PaidAmount.StringFixed(2), bill.BalanceAmount.StringFixed(2)))
	msg.AddAlternative("text/html", html.String())
	return msg, nil
}
