package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the errors is non-nil, nil is returned. A single error is
// returned as it is. Otherwise the result is a collection that reports the
// ABCI code of the first error and matches any of them with Is.
func Append(errs ...error) error {
	var collected []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(*multiErr); ok {
			collected = append(collected, u.errs...)
			continue
		}
		collected = append(collected, e)
	}

	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	default:
		return &multiErr{errs: collected}
	}
}

type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Unpack returns all collected errors.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// ABCICode returns the code of the first error, consistent with the fail
// fast approach.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}

var _ unpacker = (*multiErr)(nil)
