package pdf

import (
	"testing"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DocumentLayout(t *testing.T) {
	r := NewRenderer(LayoutDocument)

	doc := domain.NewDocument("Monthly Report", "Ana Silva")
	data, err := r.Render(doc)

	require.NoError(t, err)
	assert.True(t, len(data) > 500, "PDF output should have substance")
	assert.Equal(t, "%PDF", string(data[:4]), "output must start with the PDF magic")
}

func TestRender_ReceiptLayout(t *testing.T) {
	r := NewRenderer(LayoutReceipt)

	doc := domain.NewDocument("Invoice #42", "Ana Silva")
	data, err := r.Render(doc)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_MissingFieldsUsePlaceholders(t *testing.T) {
	// Rendering must never fail on missing optional fields
	r := NewRenderer(LayoutDocument)

	data, err := r.Render(&domain.Document{TrackingID: "abc"})

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRender_UnknownLayoutFallsBackToDocument(t *testing.T) {
	r := NewRenderer(Layout("bogus"))

	data, err := r.Render(domain.NewDocument("T", "R"))

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestNationalIDCheckDigits_KnownValue(t *testing.T) {
	// Base 1-9: sum1 = 1*2+2*3+...+9*10 = 330, 330%11 = 0, 11-0 = 11 -> 0
	// sum2 = 0*10 + 1*1+2*2+...+9*9 = 285, 285%11 = 10, 11-10 = 1
	v1, v2 := nationalIDCheckDigits([9]int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, 0, v1)
	assert.Equal(t, 1, v2)
}

func TestGeneratePayerID_CheckDigitsRecompute(t *testing.T) {
	// Property: recomputing the verification digits from the base
	// sequence reproduces the digits the generator emitted
	for i := 0; i < 200; i++ {
		id := generatePayerID()

		var base [9]int
		copy(base[:], id[:9])
		v1, v2 := nationalIDCheckDigits(base)

		assert.Equal(t, v1, id[9])
		assert.Equal(t, v2, id[10])
		assert.NotZero(t, id[0], "leading digit is never zero")
	}
}

func TestMaskPayerID_Format(t *testing.T) {
	masked := maskPayerID([11]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1})
	assert.Equal(t, "***.*123.456-**", masked)
}
