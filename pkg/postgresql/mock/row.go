package mock

import (
	"fmt"
	"reflect"
)

// Row is a pgx.Row that copies fixed values into the scan destinations.
type Row struct {
	values []any
	err    error
}

// NewRow returns a Row that scans values in order.
func NewRow(values ...any) *Row {
	return &Row{values: values}
}

// NewErrorRow returns a Row whose Scan fails with err.
func NewErrorRow(err error) *Row {
	return &Row{err: err}
}

// Scan implements pgx.Row.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(r.values[i])
		if !v.Type().AssignableTo(target.Type()) {
			if !v.Type().ConvertibleTo(target.Type()) {
				return fmt.Errorf("scan: cannot assign %s to %s at %d", v.Type(), target.Type(), i)
			}
			v = v.Convert(target.Type())
		}
		target.Set(v)
	}
	return nil
}
