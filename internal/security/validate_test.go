package security_test

import (
	"testing"

	"github.com/geocoder89/userhub/internal/security"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid basic", email: "a@b.com", wantOK: true, wantMsg: "Email is valid"},
		{name: "valid subdomain", email: "user@mail.example.org", wantOK: true},
		{name: "empty fails closed", email: "", wantOK: false, wantMsg: "Email is required"},
		{name: "missing at", email: "ab.com", wantOK: false, wantMsg: "Invalid email format"},
		{name: "two ats", email: "a@@b.com", wantOK: false},
		{name: "no dot after at", email: "a@bcom", wantOK: false},
		{name: "dot only before at", email: "a.b@com", wantOK: false},
		{name: "whitespace inside", email: "a b@c.com", wantOK: false},
		{name: "missing local part", email: "@b.com", wantOK: false},
		{name: "missing domain", email: "a@.", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, msg := security.ValidateEmail(tc.email)

			if ok != tc.wantOK {
				t.Fatalf("ValidateEmail(%q) ok = %v, want %v (msg=%q)", tc.email, ok, tc.wantOK, msg)
			}

			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("ValidateEmail(%q) msg = %q, want %q", tc.email, msg, tc.wantMsg)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantOK   bool
		wantMsg  string
	}{
		{name: "meets all rules", password: "Str0ng!Pw", wantOK: true, wantMsg: "Password is valid"},
		{name: "empty", password: "", wantOK: false, wantMsg: "Password is required"},
		{name: "too short", password: "S0r!t", wantOK: false, wantMsg: "Password must be at least 8 characters long"},
		{name: "no uppercase", password: "str0ng!pw", wantOK: false, wantMsg: "Password must contain at least one uppercase letter"},
		{name: "no lowercase", password: "STR0NG!PW", wantOK: false, wantMsg: "Password must contain at least one lowercase letter"},
		{name: "no digit", password: "Strong!Pw", wantOK: false, wantMsg: "Password must contain at least one number"},
		{name: "no special", password: "Str0ngPwd", wantOK: false, wantMsg: "Password must contain at least one special character"},
		// short AND missing rules: only the first violated rule is reported
		{name: "short-circuits at length", password: "abc", wantOK: false, wantMsg: "Password must be at least 8 characters long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, msg := security.ValidatePassword(tc.password)

			if ok != tc.wantOK {
				t.Fatalf("ValidatePassword(%q) ok = %v, want %v (msg=%q)", tc.password, ok, tc.wantOK, msg)
			}

			if msg != tc.wantMsg {
				t.Fatalf("ValidatePassword(%q) msg = %q, want %q", tc.password, msg, tc.wantMsg)
			}
		})
	}
}
