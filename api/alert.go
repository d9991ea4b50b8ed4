package api

import (
	"errors"
	"net/http"

	"familyledger/middleware"
	"familyledger/service"

	"github.com/gin-gonic/gin"
)

// TestMailer sends the mail-configuration check message.
type TestMailer interface {
	SendTestEmail(to string) error
}

// AlertHandler lets a family verify that budget alert mail reaches them.
type AlertHandler struct {
	mailer     TestMailer
	recipients service.RecipientLookup
}

func NewAlertHandler(mailer TestMailer, recipients service.RecipientLookup) *AlertHandler {
	return &AlertHandler{mailer: mailer, recipients: recipients}
}

// TestEmail sends a test message to the family's alert address
// @Summary Send test alert mail
// @Description Mails a configuration check to the address budget alerts of the caller's family go to
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "sent"
// @Failure 400 {object} Response "no alert address"
// @Failure 503 {object} Response "email disabled"
// @Router /api/v1/alerts/test-email [post]
func (h *AlertHandler) TestEmail(c *gin.Context) {
	to, err := h.recipients.AlertRecipient(c.Request.Context(), middleware.GetCurrentFamilyID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to look up alert address"))
		return
	}
	if to == "" {
		BadRequest(c, "family has no alert email configured")
		return
	}

	if err := h.mailer.SendTestEmail(to); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) {
			Error(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		InternalError(c, SafeErrorMessage(err, "failed to send test email"))
		return
	}
	SuccessWithMessage(c, "test email sent", gin.H{"to": to})
}
