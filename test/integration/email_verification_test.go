package integration

import (
	"net/http"
	"testing"
)

func TestEmailVerificationFlow(t *testing.T) {
	baseURL, client, notifier, closeFn := newAuthTestServer(t)
	defer closeFn()

	register(t, client, baseURL, "Verify User", "verify@example.com", "Valid#Pass1234")

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/send-verify-otp", nil, nil)
	if resp.StatusCode != http.StatusOK || !env.OK {
		t.Fatalf("send-verify-otp: status=%d ok=%v message=%q", resp.StatusCode, env.OK, env.Message)
	}
	if env.Message != "verification otp sent on email." {
		t.Fatalf("send-verify-otp message: %q", env.Message)
	}

	otp := notifier.LastVerifyOTP()
	if len(otp) != 6 {
		t.Fatalf("captured OTP %q, want 6 digits", otp)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"otp": "000000",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Invalid OTP" {
		t.Fatalf("wrong OTP: status=%d message=%q", resp.StatusCode, env.Message)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"otp": otp,
	}, nil)
	if resp.StatusCode != http.StatusOK || env.Message != "Email verified successfully" {
		t.Fatalf("verify-email: status=%d message=%q", resp.StatusCode, env.Message)
	}

	// The code is single-use: replaying it must fail even though the window
	// has not passed.
	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"otp": otp,
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Invalid OTP" {
		t.Fatalf("replayed OTP: status=%d message=%q", resp.StatusCode, env.Message)
	}

	resp, env = doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/send-verify-otp", nil, nil)
	if resp.StatusCode != http.StatusConflict || env.Message != "Account already verified" {
		t.Fatalf("send-verify-otp on verified account: status=%d message=%q", resp.StatusCode, env.Message)
	}
}

func TestVerifyEmailWithoutIssuedOTP(t *testing.T) {
	baseURL, client, _, closeFn := newAuthTestServer(t)
	defer closeFn()

	register(t, client, baseURL, "No OTP", "nootp@example.com", "Valid#Pass1234")

	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/verify-email", map[string]string{
		"otp": "123456",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Invalid OTP" {
		t.Fatalf("verify without issued OTP: status=%d message=%q", resp.StatusCode, env.Message)
	}
}
