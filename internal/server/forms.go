package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quantumine/internal/forms"
)

const genericFailure = "An error occurred. Please try again."

// formFailure maps a parse error onto the response envelope, sending
// invalidMessage for rejected payloads and failureMessage otherwise.
func (h *handlers) formFailure(c *gin.Context, form string, err error, invalidMessage, failureMessage string) {
	h.countForm(form, "rejected")
	var ve *forms.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": invalidMessage, "errors": ve.Fields})
	case errors.Is(err, forms.ErrMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": invalidMessage,
			"errors": []forms.FieldError{{Field: "body", Message: "must be a JSON object"}}})
	default:
		log.Error().Err(err).Str("form", form).Msg("form submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": failureMessage})
	}
}

func (h *handlers) countForm(form, outcome string) {
	if h.Metrics != nil {
		h.Metrics.FormSubmissions.WithLabelValues(form, outcome).Inc()
	}
}

func (h *handlers) handleContact(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.formFailure(c, "contact", err, "Invalid form data", genericFailure)
		return
	}
	sub, err := forms.ParseSubmission(body)
	if err != nil {
		h.formFailure(c, "contact", err, "Invalid form data", genericFailure)
		return
	}

	message := "Successfully subscribed to newsletter!"
	switch sub.Kind {
	case forms.KindContact:
		log.Info().Str("form", "contact").Str("type", sub.Contact.Type).Str("email", sub.Contact.Email).
			Str("company", sub.Contact.Company).Strs("interests", sub.Contact.Interests).Msg("contact form submission")
		message = "Thank you! We will contact you within 24 hours."
	case forms.KindNewsletter:
		log.Info().Str("form", "newsletter").Str("email", sub.Newsletter.Email).
			Strs("interests", sub.Newsletter.Interests).Msg("newsletter subscription")
	}
	h.countForm(sub.Kind, "accepted")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func (h *handlers) handleNewsletter(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.formFailure(c, "newsletter", err, "Invalid email address", genericFailure)
		return
	}
	n, err := forms.ParseNewsletter(body)
	if err != nil {
		h.formFailure(c, "newsletter", err, "Invalid email address", genericFailure)
		return
	}
	log.Info().Str("form", "newsletter").Str("email", n.Email).Str("source", n.Source).
		Strs("interests", n.Interests).Msg("newsletter subscription")
	h.countForm(forms.KindNewsletter, "accepted")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"subscribed": true,
		"message":    "Subscribed! Check your inbox to confirm.",
	})
}

func (h *handlers) handleAnalytics(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.formFailure(c, "analytics", err, "Invalid event data", "Tracking failed")
		return
	}
	e, err := forms.ParseAnalytics(body)
	if err != nil {
		h.formFailure(c, "analytics", err, "Invalid event data", "Tracking failed")
		return
	}
	log.Info().Str("event", e.Event).Str("session_id", e.SessionID).Interface("properties", e.Properties).
		Msg("analytics event")
	h.countForm("analytics", "accepted")
	if h.Metrics != nil {
		h.Metrics.AnalyticsEvents.WithLabelValues(e.Event).Inc()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event tracked successfully"})
}
