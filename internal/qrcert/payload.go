// Package qrcert builds and renders the QR payload printed on fitting
// batch certificates.
package qrcert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/railsuraksha/railsuraksha/internal/model"
)

// Version is the payload format version embedded in every certificate.
const Version = "1.0"

// timestampLayout matches ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Payload is the wire format embedded in a QR code. Field order is fixed.
type Payload struct {
	ID         string `json:"id"`
	Vendor     string `json:"vendor"`
	Lot        string `json:"lot"`
	Type       string `json:"type"`
	MfgDate    string `json:"mfgDate"`
	SupplyDate string `json:"supplyDate"`
	Warranty   string `json:"warranty"`
	Specs      string `json:"specs"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
}

// Codec converts fitting data to and from QR payloads.
type Codec struct {
	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

// NewCodec returns a codec using the wall clock.
func NewCodec() *Codec {
	return &Codec{Now: time.Now}
}

func (c *Codec) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Payload builds the wire record for d stamped with the current time.
func (c *Codec) Payload(d model.FittingData) Payload {
	return Payload{
		ID:         d.BatchID,
		Vendor:     d.VendorName,
		Lot:        d.LotNumber,
		Type:       d.ItemType,
		MfgDate:    d.ManufactureDate,
		SupplyDate: d.SupplyDate,
		Warranty:   d.WarrantyPeriod,
		Specs:      d.Specifications,
		Timestamp:  c.now().UTC().Format(timestampLayout),
		Version:    Version,
	}
}

// Encode returns the JSON string embedded in the QR symbol for d.
func (c *Codec) Encode(d model.FittingData) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c.Payload(d)); err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Validate reports whether d has every field required for encoding.
func Validate(d model.FittingData) bool {
	return len(d.MissingFields()) == 0
}

// Decode maps a previously generated payload back to fitting data. Unknown
// keys are ignored and missing or non-string values become empty. It returns
// nil if s is not a JSON object.
func Decode(s string) *model.FittingData {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil
	}

	str := func(key string) string {
		v, _ := raw[key].(string)
		return v
	}

	return &model.FittingData{
		VendorName:      str("vendor"),
		LotNumber:       str("lot"),
		ItemType:        str("type"),
		ManufactureDate: str("mfgDate"),
		SupplyDate:      str("supplyDate"),
		WarrantyPeriod:  str("warranty"),
		Specifications:  str("specs"),
		BatchID:         str("id"),
	}
}
