package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
)

const testSecret = "test-secret-key"

func TestGenerateAndVerifyToken(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.GenerateToken(42)

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := m.VerifyToken(token)

	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	// NewManager treats a non-positive TTL as "use the default", so the
	// shortest expressible TTL is how we mint an already-expired token.
	m := auth.NewManager(testSecret, time.Nanosecond)

	token, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err = m.VerifyToken(token)

	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTokenTampered(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}

	// Flip the first signature character deterministically.
	flip := "A"
	if strings.HasPrefix(parts[2], "A") {
		flip = "B"
	}
	tampered := parts[0] + "." + parts[1] + "." + flip + parts[2][1:]

	_, err = m.VerifyToken(tampered)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := auth.NewManager("secret-one", time.Hour).GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = auth.NewManager("secret-two", time.Hour).VerifyToken(token)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	_, err := m.VerifyToken("not-a-jwt")

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
