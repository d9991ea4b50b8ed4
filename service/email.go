package service

import (
	"context"
	"errors"
	"fmt"
	"html"

	"familyledger/config"
	"familyledger/models"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// ErrEmailDisabled is returned when mail is requested but email.enabled is false.
var ErrEmailDisabled = errors.New("email service disabled, set email.enabled=true")

// RecipientLookup resolves where a family's budget alerts are mailed.
// An empty address means the family has none configured.
type RecipientLookup interface {
	AlertRecipient(ctx context.Context, familyID uint) (string, error)
}

// FamilyRecipients reads Family.AlertEmail.
type FamilyRecipients struct {
	DB *gorm.DB
}

func (r FamilyRecipients) AlertRecipient(ctx context.Context, familyID uint) (string, error) {
	var fam models.Family
	err := r.DB.WithContext(ctx).Select("alert_email").Where("id = ?", familyID).First(&fam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return fam.AlertEmail, err
}

// EmailService sends budget alert mail over SMTP.
type EmailService struct {
	cfg        *config.EmailConfig
	recipients RecipientLookup
	send       func(*gomail.Message) error
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig, recipients RecipientLookup) *EmailService {
	s := &EmailService{cfg: cfg, recipients: recipients}
	s.send = s.dialAndSend
	return s
}

// NotifyBudgetAlert mails the family's alert recipient. Families without a
// recipient are skipped.
func (s *EmailService) NotifyBudgetAlert(ctx context.Context, alert models.BudgetAlert) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	to, err := s.recipients.AlertRecipient(ctx, alert.FamilyID)
	if err != nil {
		return fmt.Errorf("lookup alert recipient: %w", err)
	}
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.sendEmail(to, budgetAlertSubject(alert), s.generateBudgetAlertEmailBody(alert))
}

func budgetAlertSubject(a models.BudgetAlert) string {
	if a.Status == models.BudgetStatusExceeded {
		return fmt.Sprintf("[Family Ledger] Budget exceeded: %s %04d-%02d", a.CategoryName, a.Year, a.Month)
	}
	return fmt.Sprintf("[Family Ledger] Budget warning: %s %04d-%02d", a.CategoryName, a.Year, a.Month)
}

// generateBudgetAlertEmailBody renders the alert mail.
func (s *EmailService) generateBudgetAlertEmailBody(a models.BudgetAlert) string {
	color := "#f59e0b"
	headline := "is close to its limit"
	if a.Status == models.BudgetStatusExceeded {
		color = "#dc2626"
		headline = "has been exceeded"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: %s; color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 12px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 8px 0; border-bottom: 1px solid #eee; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s budget %s</h1>
        </div>
        <div class="content">
            <p>The <strong>%s</strong> budget for %04d-%02d %s.</p>
            <table>
                <tr><td>Budget</td><td>%s</td></tr>
                <tr><td>Spent</td><td>%s</td></tr>
                <tr><td>Used</td><td>%.0f%%</td></tr>
                <tr><td>Status</td><td>%s</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>This message was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, color,
		html.EscapeString(a.CategoryName), headline,
		html.EscapeString(a.CategoryName), a.Year, a.Month, headline,
		a.Amount.StringFixed(2), a.Spent.StringFixed(2), a.PercentageUsed, a.Status)
}

// sendEmail sends one HTML message.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// SendTestEmail checks the SMTP configuration.
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	subject := "[Family Ledger] Email configuration test"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>Email is configured</h2>
    <p>If you received this message the mail settings are correct.</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
