package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyPayloadUsesDefaults(t *testing.T) {
	p := Parse(nil)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultBody, p.Body)
	assert.Equal(t, DefaultURL, p.URL)
}

func TestParse_MalformedPayloadUsesDefaults(t *testing.T) {
	p := Parse([]byte("{not json"))
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultBody, p.Body)
	assert.Equal(t, DefaultURL, p.URL)
}

func TestParse_PartialPayloadFillsMissingFields(t *testing.T) {
	p := Parse([]byte(`{"title":"موعد الجلسة","recipient":42}`))
	assert.Equal(t, "موعد الجلسة", p.Title)
	assert.Equal(t, DefaultBody, p.Body)
	assert.Equal(t, DefaultURL, p.URL)
	assert.Equal(t, int64(42), p.Recipient)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	in := Payload{
		Title:              "تنبيه",
		Body:               "مهمة مستحقة",
		URL:                "/tasks/9",
		Recipient:          7,
		RequireInteraction: true,
		Kind:               "due_date",
		Tier:               "urgent",
	}
	raw, err := in.Encode()
	require.NoError(t, err)
	assert.Equal(t, in, Parse(raw))
}
