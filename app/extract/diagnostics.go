package extract

import "fmt"

// Diagnostic describes input a soft extractor rejected.
type Diagnostic struct {
	Field string
	Value string
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %q: %v", d.Field, d.Value, d.Err)
}

// Diagnostics collects non-fatal extraction problems. A nil *Diagnostics
// discards reports.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Report(field, value string, err error) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{Field: field, Value: value, Err: err})
}

// Items returns the reports collected so far.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}
