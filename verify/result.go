package verify

import "fmt"

// Result is the outcome of validating one identifier.
//
// A negative Result with an empty Location stands for both a
// confirmed-invalid number and an unrecoverable lookup failure; the
// pipeline deliberately does not distinguish the two (the lookup
// service's answer and the failure path collapse to the same shape).
type Result struct {
	Valid    bool
	Location string
}

// String renders the result in the output sink's tuple form, for
// example "(True, US)" or "(False, )" when no location is known.
func (r Result) String() string {
	valid := "False"
	if r.Valid {
		valid = "True"
	}
	return fmt.Sprintf("(%s, %s)", valid, r.Location)
}
