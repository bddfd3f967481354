package dto

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout formato de fecha sin hora (columnas DATE).
const DateLayout = "2006-01-02"

// Date fecha de entrada que acepta "2006-01-02" o un timestamp RFC3339.
// Las fechas sin hora se interpretan a medianoche UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("fecha: se esperaba un string, llegó %s", data)
	}
	raw := string(data[1 : len(data)-1])
	if t, err := time.Parse(DateLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("fecha %q: use AAAA-MM-DD o RFC3339", raw)
	}
	d.Time = t
	return nil
}

// MarshalJSON escribe la fecha sin hora cuando cae a medianoche UTC.
func (d Date) MarshalJSON() ([]byte, error) {
	t := d.Time
	if t.Equal(t.UTC().Truncate(24 * time.Hour)) {
		return []byte(`"` + t.UTC().Format(DateLayout) + `"`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Ptr devuelve la fecha como *time.Time; nil si d es nil.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
