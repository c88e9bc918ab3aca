// Package qr builds and parses the check-in credential embedded in a
// booking's QR code. The JSON wire shape is shared with the staff-side
// scanner and must not change:
//
//	{"bookingId": "...", "userId": "...", "date": "YYYY-MM-DD", "mealType": "..."}
package qr

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	apperrors "smartmess/internal/errors"
)

const imageSize = 256

// Credential binds a booking to its owner, date and meal slot.
type Credential struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	MealType  string `json:"mealType"`
}

// Encode marshals the credential and renders it as a scannable PNG,
// returning both the raw payload (stored for auditing) and a data URL
// the frontend can drop into an <img> tag.
func (c Credential) Encode() (payload string, dataURL string, err error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", "", err
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, imageSize)
	if err != nil {
		return "", "", err
	}
	return string(raw), "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ParseCredential decodes a scanned payload. Malformed JSON or a missing
// booking id is a format error, distinct from a credential that simply
// matches no booking.
func ParseCredential(payload string) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, apperrors.ErrInvalidQRPayload
	}
	if c.BookingID == "" {
		return nil, apperrors.ErrInvalidQRPayload
	}
	return &c, nil
}
