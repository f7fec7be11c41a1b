package errors

import (
	"io"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrThreshold,
			wantLog:  "threshold not reached",
			wantCode: ErrThreshold.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrArgumentCount, "want 9"), "distribute"),
			wantLog:  "distribute: want 9: wrong number of arguments",
			wantCode: ErrArgumentCount.code,
		},
		"nil is empty message": {
			err:      nil,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      io.EOF,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib returns error message in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantLog:  "EOF",
			wantCode: 1,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(io.EOF, "cannot read file"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"multi error reports the first code": {
			err:      Append(ErrUnauthorized, ErrThreshold),
			wantLog:  "2 errors: unauthorized; threshold not reached",
			wantCode: ErrUnauthorized.code,
		},
		"custom error": {
			err:      customErr{},
			wantLog:  "custom",
			wantCode: 999,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrThreshold, false); err != ErrThreshold {
		t.Fatalf("registered error must not be redacted, got %v", err)
	}
	if err := Redact(Wrap(ErrPanic, "secret"), false); err.Error() != "internal error" {
		t.Fatalf("panic must be redacted, got %v", err)
	}
	if err := Redact(io.EOF, true); err != io.EOF {
		t.Fatalf("debug mode must not redact, got %v", err)
	}
}

// customErr is a custom implementation of an error that provides an ABCICode
// method.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }

func TestABCIError(t *testing.T) {
	if err := ABCIError(0, ""); err != nil {
		t.Fatalf("success code must not be an error, got %v", err)
	}
	code, log := ABCIInfo(Wrap(ErrThreshold, "vault 9/10"), false)
	err := ABCIError(code, log)
	if !ErrThreshold.Is(err) {
		t.Fatalf("want threshold error, got %v", err)
	}
	if c, _ := ABCIInfo(ABCIError(777777, "who knows"), false); c != 1 {
		t.Fatalf("unknown code must be internal, got %d", c)
	}
}
