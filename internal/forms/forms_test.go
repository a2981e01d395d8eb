package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(err error) []string {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	var out []string
	for _, f := range ve.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestParseSubmission_Contact(t *testing.T) {
	body := `{"name":"  Ada <b>Lovelace</b> ","email":"ADA@Example.com","company":"Analytical","message":"Please book a demo for our desk.","type":"demo","interests":["ai-agent"," "],"formType":"contact"}`
	sub, err := ParseSubmission([]byte(body))
	require.NoError(t, err)
	require.Equal(t, KindContact, sub.Kind)
	require.NotNil(t, sub.Contact)
	assert.Nil(t, sub.Newsletter)
	assert.Equal(t, "Ada bLovelace/b", sub.Contact.Name)
	assert.Equal(t, "ada@example.com", sub.Contact.Email)
	assert.Equal(t, []string{"ai-agent"}, sub.Contact.Interests)
}

func TestParseSubmission_ContactInvalid(t *testing.T) {
	body := `{"name":"A","email":"nope","message":"short","type":"sales","formType":"contact"}`
	_, err := ParseSubmission([]byte(body))
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"name", "email", "message", "type"}, fieldNames(err))
}

func TestParseSubmission_Newsletter(t *testing.T) {
	sub, err := ParseSubmission([]byte(`{"email":"reader@example.com","formType":"newsletter"}`))
	require.NoError(t, err)
	assert.Equal(t, KindNewsletter, sub.Kind)
	assert.Equal(t, "reader@example.com", sub.Newsletter.Email)
}

func TestParseSubmission_UnknownFormType(t *testing.T) {
	_, err := ParseSubmission([]byte(`{"email":"reader@example.com"}`))
	assert.Equal(t, []string{"formType"}, fieldNames(err))
}

func TestParseSubmission_Malformed(t *testing.T) {
	_, err := ParseSubmission([]byte(`{"email":`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseNewsletter(t *testing.T) {
	n, err := ParseNewsletter([]byte(`{"email":" Reader@Example.com ","source":"footer","interests":["research"]}`))
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", n.Email)
	assert.Equal(t, "footer", n.Source)

	_, err = ParseNewsletter([]byte(`{"email":"x@example.com","source":"` + strings.Repeat("s", 101) + `"}`))
	assert.Equal(t, []string{"source"}, fieldNames(err))

	_, err = ParseNewsletter([]byte(`{"email":"x@example.com","formType":"contact"}`))
	assert.Equal(t, []string{"formType"}, fieldNames(err))
}

func TestParseAnalytics(t *testing.T) {
	e, err := ParseAnalytics([]byte(`{"event":"section_view","properties":{"section":"performance"},"timestamp":"2024-05-01T12:00:00.000Z","session_id":"s-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "section_view", e.Event)
	assert.Equal(t, "performance", e.Properties["section"])

	_, err = ParseAnalytics([]byte(`{"event":"page_view"}`))
	assert.Equal(t, []string{"event"}, fieldNames(err))

	_, err = ParseAnalytics([]byte(`{"event":"web_vitals","timestamp":"yesterday"}`))
	assert.Equal(t, []string{"timestamp"}, fieldNames(err))
}

func TestValidationError_Messages(t *testing.T) {
	_, err := ParseSubmission([]byte(`{"name":"Al","email":"al@example.com","message":"hi","type":"demo","formType":"contact"}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, FieldError{Field: "message", Message: "must be at least 10 characters"}, ve.Fields[0])
	assert.Contains(t, err.Error(), "message must be at least 10 characters")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize("  <script>alert(1)</script> "))
	assert.Equal(t, "", Sanitize("  "))
}
