package security

import (
	"strconv"
	"testing"
)

func TestNewOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := NewOTP()
		if err != nil {
			t.Fatalf("generate otp: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("otp %q, want 6 digits", otp)
		}
		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("otp %q not numeric: %v", otp, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("otp %d out of range", n)
		}
	}
}
