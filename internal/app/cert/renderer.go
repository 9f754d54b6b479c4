/*
Package cert renders course-completion certificates as PNG images.

The layout is fixed: a 1000x700 canvas with a rounded border, a dark header
band titled "Certificate of Completion", the recipient's name in large
centered type, the course name, the issue date, a signature rule, and a small
footer carrying a generated display identifier.
*/
package cert

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Canvas dimensions in logical units (pixels).
const (
	Width  = 1000
	Height = 700
)

// dataURLPrefix is prepended to the base64 PNG payload stored on the student record.
const dataURLPrefix = "data:image/png;base64,"

// Certificate is the result of one render: the embedded payload stored on the
// student record, the raw PNG for download/archival, and the display id.
type Certificate struct {
	DataURL  string
	PNG      []byte
	ID       string
	IssuedAt time.Time
}

// Renderer draws certificates for a fixed course name.
// Now is injectable so tests can pin the issue date and id.
type Renderer struct {
	CourseName string
	Now        func() time.Time

	title36  font.Face
	body18   font.Face
	name44   font.Face
	body20   font.Face
	course26 font.Face
	meta16   font.Face
	footer12 font.Face
}

// NewRenderer parses the embedded Go fonts and prepares the faces used by the
// fixed layout. The returned Renderer is safe for sequential reuse.
func NewRenderer(courseName string) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	r := &Renderer{
		CourseName: courseName,
		Now:        time.Now,
	}

	faces := []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&r.title36, bold, 36},
		{&r.body18, regular, 18},
		{&r.name44, bold, 44},
		{&r.body20, regular, 20},
		{&r.course26, bold, 26},
		{&r.meta16, regular, 16},
		{&r.footer12, regular, 12},
	}

	for _, f := range faces {
		face, err := opentype.NewFace(f.src, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face (size %.0f): %w", f.size, err)
		}
		*f.dst = face
	}

	return r, nil
}

// Render draws a certificate for the given recipient name and returns the
// finished payload. Output depends on the current time (issue date and id),
// so repeated calls are functionally equivalent but not byte-identical.
func (r *Renderer) Render(fullName string) (*Certificate, error) {
	now := r.Now()

	dc := gg.NewContext(Width, Height)

	// background
	dc.SetHexColor("#ffffff")
	dc.Clear()

	// outer rounded border
	dc.SetHexColor("#d1e7ff")
	dc.SetLineWidth(18)
	dc.DrawRoundedRectangle(24, 24, Width-48, Height-48, 18)
	dc.Stroke()

	// header band
	dc.SetHexColor("#0f1724")
	dc.DrawRectangle(40, 60, Width-80, 120)
	dc.Fill()

	dc.SetFontFace(r.title36)
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("Certificate of Completion", Width/2, 120, 0.5, 0)

	// salutation
	dc.SetFontFace(r.body18)
	dc.SetHexColor("#334155")
	dc.DrawStringAnchored("This certificate is proudly presented to", Width/2, 220, 0.5, 0)

	// recipient name
	dc.SetFontFace(r.name44)
	dc.SetHexColor("#0b1220")
	dc.DrawStringAnchored(fullName, Width/2, 300, 0.5, 0)

	// course line
	dc.SetFontFace(r.body20)
	dc.SetHexColor("#334155")
	dc.DrawStringAnchored("for successfully completing the course", Width/2, 350, 0.5, 0)

	dc.SetFontFace(r.course26)
	dc.SetHexColor("#0b1220")
	dc.DrawStringAnchored(r.CourseName, Width/2, 390, 0.5, 0)

	// issue date and signature area
	dc.SetFontFace(r.meta16)
	dc.SetHexColor("#334155")
	dc.DrawStringAnchored("Date: "+now.Format("1/2/2006"), 80, Height-120, 0, 0)
	dc.DrawStringAnchored("Authorized Signature", Width-80, Height-120, 1, 0)

	// signature rule
	dc.SetHexColor("#0b1220")
	dc.SetLineWidth(2)
	dc.DrawLine(Width-320, Height-110, Width-80, Height-110)
	dc.Stroke()

	// footer with display id
	certID := CertificateID(fullName, now)
	dc.SetFontFace(r.footer12)
	dc.SetHexColor("#6b7280")
	dc.DrawStringAnchored("Certificate ID: "+certID, Width/2, Height-40, 0.5, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode certificate PNG: %w", err)
	}

	png := buf.Bytes()

	return &Certificate{
		DataURL:  dataURLPrefix + base64.StdEncoding.EncodeToString(png),
		PNG:      png,
		ID:       certID,
		IssuedAt: now,
	}, nil
}

// DecodeDataURL extracts the raw PNG bytes from a stored certificate payload.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, fmt.Errorf("payload is not a PNG data URL")
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate payload: %w", err)
	}

	return png, nil
}
