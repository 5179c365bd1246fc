/*
DESCRIPTION
  device_test.go provides testing for MultiError.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

type rangeErr struct{ name string }

func (e *rangeErr) Error() string { return e.name + " out of range" }

func TestMultiErrorUnwrap(t *testing.T) {
	var err error = MultiError{io.EOF, fmt.Errorf("option: %w", &rangeErr{name: "a"})}

	if !errors.Is(err, io.EOF) {
		t.Error("errors.Is did not find io.EOF")
	}
	var re *rangeErr
	if !errors.As(err, &re) {
		t.Fatalf("errors.As did not find range error in: %v", err)
	}
	if re.name != "a" {
		t.Errorf("unexpected range error, got: %s, want: a", re.name)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is matched an error not collected")
	}
}
