package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casccoach/platform/backend/internal/domain"
)

func TestParseParticipants_Valid(t *testing.T) {
	ps, err := domain.ParseParticipants([]byte(`[{"name":"Ana","email":"ana@example.com"}]`))

	require.NoError(t, err)
	assert.Equal(t, domain.Participants{{Name: "Ana", Email: "ana@example.com"}}, ps)
}

func TestParseParticipants_NullAndEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		ps, err := domain.ParseParticipants([]byte(raw))

		require.NoError(t, err, "input %q", raw)
		assert.Nil(t, ps)
	}
}

func TestParseParticipants_RejectsMalformedShapes(t *testing.T) {
	for _, raw := range []string{
		`{"name":"Ana"}`,                          // object, not array
		`[{"name":1,"email":"a@example.com"}]`,    // wrong value type
		`[{"name":"Ana","email":"a","age":30}]`,   // unknown field
		`["Ana"]`,                                 // bare strings
		`[{"name":"Ana","email":"a"}] trailing`,   // junk after the document
		`[null]`,                                  // null entry
		`[{"name":"x"}]`,                          // missing email
		`[{"email":"x@example.com"}]`,             // missing name
		`[{"name":null,"email":"x@example.com"}]`, // null name
	} {
		_, err := domain.ParseParticipants([]byte(raw))

		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", raw)
	}
}

func TestParticipants_Complete(t *testing.T) {
	assert.True(t, domain.Participants{{Name: "Ana", Email: "a@example.com"}}.Complete())
	assert.True(t, domain.Participants(nil).Complete())
	assert.False(t, domain.Participants{{Name: "  ", Email: "a@example.com"}}.Complete())
	assert.False(t, domain.Participants{{Name: "Ana", Email: "\t"}}.Complete())
}

func TestParticipants_Validate_Caps(t *testing.T) {
	long := domain.Participants{{Name: strings.Repeat("n", domain.MaxParticipantNameLen+1), Email: "a@example.com"}}

	err := long.Validate()

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "participant 1 name exceeds")
}

// Caps count characters, not bytes.
func TestParticipants_Validate_CapsCountRunes(t *testing.T) {
	accented := domain.Participants{{Name: strings.Repeat("é", 60), Email: "a@example.com"}}
	require.NoError(t, accented.Validate())

	over := domain.Participants{{Name: strings.Repeat("é", domain.MaxParticipantNameLen+1), Email: "a@example.com"}}
	assert.ErrorIs(t, over.Validate(), domain.ErrValidation)
}

func TestParticipants_Trimmed(t *testing.T) {
	got := domain.Participants{{Name: "  Ana ", Email: " a@example.com\n"}}.Trimmed()

	assert.Equal(t, domain.Participants{{Name: "Ana", Email: "a@example.com"}}, got)
}
