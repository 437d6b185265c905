package certpdf

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyRequest(t *testing.T) {
	renderer := NewRenderer(DefaultOptions())

	doc, err := renderer.Render(RenderRequest{})

	require.NoError(t, err)
	assert.NotEmpty(t, doc.PDF)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF")))

	decoded, err := base64.StdEncoding.DecodeString(doc.Encoded)
	require.NoError(t, err)
	assert.Equal(t, doc.PDF, decoded)
}

func TestRenderSurvivesBadTemplateImage(t *testing.T) {
	renderer := NewRenderer(DefaultOptions())

	req := RenderRequest{
		Participant:   Participant{Name: "Jane Doe"},
		Event:         Event{Title: "Research Colloquium 2025", Date: "March 15, 2025"},
		TemplateImage: []byte("this is not an image"),
	}

	doc, err := renderer.Render(req)

	require.NoError(t, err)
	assert.NotEmpty(t, doc.PDF)
}

func TestRenderWithPositions(t *testing.T) {
	renderer := NewRenderer(DefaultOptions())

	req := RenderRequest{
		Participant: Participant{Name: "Jane Doe"},
		Event:       Event{Title: "Research Colloquium 2025", Date: "March 15, 2025", Organizer: "Office of Research"},
		Positions: FieldPositions{
			Name:      &Coordinate{X: 561, Y: 400},
			Signature: &Coordinate{X: 561, Y: 180},
		},
	}

	doc, err := renderer.Render(req)

	require.NoError(t, err)
	assert.NotEmpty(t, doc.Encoded)
}

func TestRenderUsesBoldFaceForAllFields(t *testing.T) {
	renderer := NewRenderer(DefaultOptions())

	doc, err := renderer.Render(RenderRequest{
		Participant: Participant{Name: "Jane Doe"},
		Event:       Event{Title: "Research Colloquium 2025", Date: "March 15, 2025", Organizer: "Office of Research"},
	})

	require.NoError(t, err)
	pdf := string(doc.PDF)
	// Every field renders in the bold face, so the regular face should never
	// be registered in the document.
	assert.Positive(t, strings.Count(pdf, "Helvetica-Bold"))
	assert.Equal(t, strings.Count(pdf, "Helvetica-Bold"), strings.Count(pdf, "Helvetica"))
}

func TestResolveTextPrecedence(t *testing.T) {
	assert.Equal(t, "Override", resolveText("Override", "Value", "Fallback"))
	assert.Equal(t, "Value", resolveText("", "Value", "Fallback"))
	assert.Equal(t, "Fallback", resolveText("", "", "Fallback"))
}

func TestResolveCoordinateDefaults(t *testing.T) {
	renderer := NewRenderer(DefaultOptions())

	out := renderer.resolve(nil, 397)
	assert.Equal(t, 561.5, out.X)
	assert.Equal(t, 397.0, out.Y)

	out = renderer.resolve(&Coordinate{X: 100}, 397)
	assert.Equal(t, 100.0, out.X)
	assert.Equal(t, 397.0, out.Y)

	out = renderer.resolve(&Coordinate{X: 100, Y: 200}, 397)
	assert.Equal(t, 200.0, out.Y)
}

func TestParseFieldPositions(t *testing.T) {
	positions := ParseFieldPositions([]byte(`{"name":{"x":561,"y":420}}`))
	require.NotNil(t, positions.Name)
	assert.Equal(t, 561.0, positions.Name.X)
	assert.Equal(t, 420.0, positions.Name.Y)
	assert.Nil(t, positions.Date)

	assert.Equal(t, FieldPositions{}, ParseFieldPositions([]byte("{broken")))
	assert.Equal(t, FieldPositions{}, ParseFieldPositions(nil))
}

func TestParseTextOverrides(t *testing.T) {
	overrides := ParseTextOverrides([]byte(`{"name":"Sample Participant"}`))
	assert.Equal(t, "Sample Participant", overrides.Name)
	assert.Empty(t, overrides.EventTitle)

	assert.Equal(t, TextOverrides{}, ParseTextOverrides([]byte("not json")))
}

func TestDecodeTemplateImage(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	assert.Equal(t, payload, DecodeTemplateImage(encoded))
	assert.Equal(t, payload, DecodeTemplateImage("data:image/png;base64,"+encoded))
	assert.Nil(t, DecodeTemplateImage("%%%not base64%%%"))
	assert.Nil(t, DecodeTemplateImage(""))
}
