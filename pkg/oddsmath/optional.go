package oddsmath

// Optional is a float that may be absent. The zero value is absent.
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps a present value
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// FromOK adapts a comma-ok result
func FromOK(v float64, ok bool) Optional {
	if !ok {
		return Optional{}
	}
	return Some(v)
}

// Ptr returns nil when absent, for JSON null
func (o Optional) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalInt is an integer (American price) that may be absent
type OptionalInt struct {
	Value int
	Valid bool
}

// SomeInt wraps a present value
func SomeInt(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// FromOKInt adapts a comma-ok result
func FromOKInt(v int, ok bool) OptionalInt {
	if !ok {
		return OptionalInt{}
	}
	return SomeInt(v)
}

// Ptr returns nil when absent
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Float widens the price for conversion functions
func (o OptionalInt) Float() Optional {
	if !o.Valid {
		return Optional{}
	}
	return Some(float64(o.Value))
}
