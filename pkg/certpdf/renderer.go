package certpdf

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Coordinate is a point in page space. Y is measured from the bottom edge,
// matching the coordinate values stored on events.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FieldPositions anchors the certificate text fields. Nil entries fall back
// to the renderer defaults.
type FieldPositions struct {
	Name       *Coordinate `json:"name,omitempty"`
	EventTitle *Coordinate `json:"event_title,omitempty"`
	Date       *Coordinate `json:"date,omitempty"`
	Signature  *Coordinate `json:"signature,omitempty"`
}

// TextOverrides replaces resolved field text, used for previews and sample
// renders without a real registration.
type TextOverrides struct {
	Name       string `json:"name,omitempty"`
	EventTitle string `json:"event_title,omitempty"`
	Date       string `json:"date,omitempty"`
}

// Participant carries the participant-facing fields drawn on the page.
type Participant struct {
	Name        string
	Affiliation string
}

// Event carries the event-facing fields drawn on the page. Date is the
// pre-formatted display string.
type Event struct {
	Title     string
	Date      string
	Organizer string
}

// RenderRequest is the full input to a single render.
type RenderRequest struct {
	Participant   Participant
	Event         Event
	TemplateImage []byte
	Positions     FieldPositions
	Overrides     TextOverrides
}

// RenderedDocument is the finished single-page certificate.
type RenderedDocument struct {
	PDF     []byte
	Encoded string
}

// Options configures the renderer.
type Options struct {
	PageWidth      float64
	PageHeight     float64
	FontFamily     string
	NameFontSize   float64
	TitleFontSize  float64
	DateFontSize   float64
	SmallFontSize  float64
	TextColor      RGB
	WatermarkLabel string
}

// RGB represents a text color.
type RGB struct {
	R int
	G int
	B int
}

// DefaultOptions returns the stock certificate layout options.
func DefaultOptions() Options {
	return Options{
		PageWidth:      1123,
		PageHeight:     794,
		FontFamily:     "Helvetica",
		NameFontSize:   38,
		TitleFontSize:  24,
		DateFontSize:   18,
		SmallFontSize:  12,
		TextColor:      RGB{R: 28, G: 28, B: 28},
		WatermarkLabel: "pinay.py",
	}
}

// Renderer composites a background template and positioned text fields into
// a single-page PDF certificate.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	if opts.PageWidth <= 0 || opts.PageHeight <= 0 {
		def := DefaultOptions()
		opts.PageWidth = def.PageWidth
		opts.PageHeight = def.PageHeight
	}
	return &Renderer{opts: opts}
}

// Render draws the certificate. Field text resolves override first, then the
// domain value, then a fixed default, so every field always renders. A
// template image that fails to decode is skipped rather than failing the
// whole document.
func (r *Renderer) Render(req RenderRequest) (*RenderedDocument, error) {
	// gofpdf swaps Wd/Ht for landscape orientation.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: r.opts.PageHeight, Ht: r.opts.PageWidth},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r.drawTemplate(pdf, req.TemplateImage)

	name := resolveText(req.Overrides.Name, req.Participant.Name, "Participant Name")
	r.drawCentered(pdf, strings.ToUpper(name), r.resolve(req.Positions.Name, r.centerY()), "B", r.opts.NameFontSize)

	title := resolveText(req.Overrides.EventTitle, req.Event.Title, "Event Title")
	r.drawCentered(pdf, title, r.resolve(req.Positions.EventTitle, r.centerY()), "B", r.opts.TitleFontSize)

	date := resolveText(req.Overrides.Date, req.Event.Date, "January 01, 2025")
	r.drawCentered(pdf, date, r.resolve(req.Positions.Date, r.centerY()), "B", r.opts.DateFontSize)

	signatureY := 160.0
	if req.Positions.Signature != nil && req.Positions.Signature.Y != 0 {
		signatureY = req.Positions.Signature.Y
	}
	pdf.SetLineWidth(1)
	pdf.Line(r.opts.PageWidth*0.2, r.fromBottom(signatureY), r.opts.PageWidth*0.8, r.fromBottom(signatureY))

	organizer := resolveText("", req.Event.Organizer, "Office of the VPAA")
	r.drawCentered(pdf, organizer, Coordinate{X: r.opts.PageWidth / 2, Y: signatureY - 20}, "B", r.opts.SmallFontSize)

	r.drawRightAligned(pdf, r.opts.WatermarkLabel, Coordinate{X: r.opts.PageWidth - 24, Y: 24}, "B", r.opts.SmallFontSize)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("certificate render failed: %w", err)
	}

	raw := buf.Bytes()
	return &RenderedDocument{
		PDF:     raw,
		Encoded: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// drawTemplate stretches the background image to cover the full page. Bytes
// that are not a decodable raster image leave the canvas blank.
func (r *Renderer) drawTemplate(pdf *gofpdf.Fpdf, raw []byte) {
	if len(raw) == 0 {
		return
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return
	}
	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	case "gif":
		imageType = "GIF"
	default:
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("template", opts, bytes.NewReader(raw))
	if pdf.Err() {
		pdf.ClearError()
		return
	}
	pdf.ImageOptions("template", 0, 0, r.opts.PageWidth, r.opts.PageHeight, false, opts, 0, "")
	if pdf.Err() {
		pdf.ClearError()
	}
}

func (r *Renderer) drawCentered(pdf *gofpdf.Fpdf, text string, at Coordinate, style string, size float64) {
	pdf.SetFont(r.opts.FontFamily, style, size)
	pdf.SetTextColor(r.opts.TextColor.R, r.opts.TextColor.G, r.opts.TextColor.B)
	pdf.Text(at.X-pdf.GetStringWidth(text)/2, r.fromBottom(at.Y), text)
}

func (r *Renderer) drawRightAligned(pdf *gofpdf.Fpdf, text string, at Coordinate, style string, size float64) {
	pdf.SetFont(r.opts.FontFamily, style, size)
	pdf.SetTextColor(r.opts.TextColor.R, r.opts.TextColor.G, r.opts.TextColor.B)
	pdf.Text(at.X-pdf.GetStringWidth(text), r.fromBottom(at.Y), text)
}

// resolve fills a missing or zero coordinate from the page-center default.
func (r *Renderer) resolve(c *Coordinate, defaultY float64) Coordinate {
	out := Coordinate{X: r.opts.PageWidth / 2, Y: defaultY}
	if c != nil {
		if c.X != 0 {
			out.X = c.X
		}
		if c.Y != 0 {
			out.Y = c.Y
		}
	}
	return out
}

func (r *Renderer) centerY() float64 {
	return r.opts.PageHeight / 2
}

// fromBottom converts a stored bottom-origin Y into gofpdf's top-origin space.
func (r *Renderer) fromBottom(y float64) float64 {
	return r.opts.PageHeight - y
}

func resolveText(override, value, fallback string) string {
	if override != "" {
		return override
	}
	if value != "" {
		return value
	}
	return fallback
}

// ParseFieldPositions decodes a stored coordinate map. Malformed JSON yields
// the zero value so callers fall back to renderer defaults.
func ParseFieldPositions(raw []byte) FieldPositions {
	var positions FieldPositions
	if len(raw) == 0 {
		return positions
	}
	_ = json.Unmarshal(raw, &positions)
	return positions
}

// ParseTextOverrides decodes stored sample-text overrides, tolerating
// malformed JSON the same way.
func ParseTextOverrides(raw []byte) TextOverrides {
	var overrides TextOverrides
	if len(raw) == 0 {
		return overrides
	}
	_ = json.Unmarshal(raw, &overrides)
	return overrides
}

// DecodeTemplateImage converts a stored template value into raw image bytes.
// Accepts a data URL or a bare base64 string; anything undecodable returns
// nil so the render degrades to a blank background.
func DecodeTemplateImage(stored string) []byte {
	if stored == "" {
		return nil
	}
	if idx := strings.Index(stored, ","); idx >= 0 {
		stored = stored[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil
	}
	return raw
}
