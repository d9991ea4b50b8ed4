package service

import (
	"context"
	"errors"
	"testing"

	"familyledger/config"
	"familyledger/database"
	"familyledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type staticRecipients map[uint]string

func (s staticRecipients) AlertRecipient(_ context.Context, familyID uint) (string, error) {
	return s[familyID], nil
}

func testAlert(status models.BudgetStatus) models.BudgetAlert {
	return models.BudgetAlert{
		FamilyID:       1,
		BudgetID:       9,
		CategoryID:     3,
		CategoryName:   "Food & Drinks",
		Year:           2024,
		Month:          3,
		Amount:         decimal.NewFromInt(100),
		Spent:          decimal.RequireFromString("120.5"),
		PercentageUsed: 120.5,
		Status:         status,
		PreviousStatus: models.BudgetStatusWarning,
	}
}

func newTestEmailService(enabled bool, sent *[]*gomail.Message) *EmailService {
	s := NewEmailService(&config.EmailConfig{Enabled: enabled, From: "ledger@example.com"}, staticRecipients{1: "family@example.com"})
	s.send = func(m *gomail.Message) error {
		*sent = append(*sent, m)
		return nil
	}
	return s
}

func TestGenerateBudgetAlertEmailBody(t *testing.T) {
	s := newTestEmailService(true, &[]*gomail.Message{})

	body := s.generateBudgetAlertEmailBody(testAlert(models.BudgetStatusExceeded))
	assert.Contains(t, body, "Food &amp; Drinks")
	assert.Contains(t, body, "2024-03")
	assert.Contains(t, body, "100.00")
	assert.Contains(t, body, "120.50")
	assert.Contains(t, body, "has been exceeded")

	warn := s.generateBudgetAlertEmailBody(testAlert(models.BudgetStatusWarning))
	assert.Contains(t, warn, "is close to its limit")
}

func TestNotifyBudgetAlert_SendsToFamilyRecipient(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(true, &sent)

	require.NoError(t, s.NotifyBudgetAlert(context.Background(), testAlert(models.BudgetStatusExceeded)))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"family@example.com"}, sent[0].GetHeader("To"))
	assert.Contains(t, sent[0].GetHeader("Subject")[0], "Budget exceeded")
}

func TestNotifyBudgetAlert_SkipsFamilyWithoutRecipient(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(true, &sent)

	a := testAlert(models.BudgetStatusWarning)
	a.FamilyID = 2
	require.NoError(t, s.NotifyBudgetAlert(context.Background(), a))
	assert.Empty(t, sent)
}

func TestNotifyBudgetAlert_Disabled(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(false, &sent)

	err := s.NotifyBudgetAlert(context.Background(), testAlert(models.BudgetStatusWarning))
	assert.ErrorIs(t, err, ErrEmailDisabled)
	assert.Empty(t, sent)
}

func TestNotifyBudgetAlert_SendFailure(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(true, &sent)
	s.send = func(*gomail.Message) error { return errors.New("connection refused") }

	err := s.NotifyBudgetAlert(context.Background(), testAlert(models.BudgetStatusWarning))
	assert.ErrorContains(t, err, "connection refused")
}

func TestFamilyRecipients(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	fam := models.Family{Name: "Rossi", AlertEmail: "rossi@example.com"}
	require.NoError(t, db.Create(&fam).Error)

	r := FamilyRecipients{DB: db}
	to, err := r.AlertRecipient(context.Background(), fam.ID)
	require.NoError(t, err)
	assert.Equal(t, "rossi@example.com", to)

	to, err = r.AlertRecipient(context.Background(), fam.ID+1)
	require.NoError(t, err)
	assert.Empty(t, to)
}

func TestNotifyBudgetAlert_ExpiredContext(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(true, &sent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.NotifyBudgetAlert(ctx, testAlert(models.BudgetStatusWarning)), context.Canceled)
	assert.Empty(t, sent)
}

func TestSendTestEmail(t *testing.T) {
	var sent []*gomail.Message
	s := newTestEmailService(true, &sent)

	require.NoError(t, s.SendTestEmail("rossi@example.com"))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"rossi@example.com"}, sent[0].GetHeader("To"))
	assert.Contains(t, sent[0].GetHeader("Subject")[0], "configuration test")

	assert.ErrorIs(t, newTestEmailService(false, &sent).SendTestEmail("rossi@example.com"), ErrEmailDisabled)
	assert.Len(t, sent, 1)
}
