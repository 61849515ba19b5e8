package utils

import (
	"testing"
	"time"
)

// bcrypt: the right password matches, a wrong one does not.
func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("p@ss")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if !CheckPasswordHash("p@ss", hashed) {
		t.Fatalf("should match")
	}
	if CheckPasswordHash("hahaha", hashed) {
		t.Fatalf("should not match")
	}
	if CheckPasswordHash("p@ss", "") {
		t.Fatalf("empty hash must not match")
	}
}

func TestJWTGenerateAndVerify(t *testing.T) {
	token, err := GenerateToken("admin@devevent.io", "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("gen token err: %v", err)
	}
	email, err := VerifyToken(token, "s3cret")
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if email != "admin@devevent.io" {
		t.Fatalf("want admin@devevent.io got %q", email)
	}
}

func TestVerifyToken_Tampered_Fails(t *testing.T) {
	tok, err := GenerateToken("x@x.com", "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	if _, err := VerifyToken(tok+"x", "s3cret"); err == nil {
		t.Fatalf("expect verify to fail on tampered token")
	}
}

func TestVerifyToken_WrongSecretOrExpired(t *testing.T) {
	tok, _ := GenerateToken("x@x.com", "s3cret", time.Hour)
	if _, err := VerifyToken(tok, "other"); err != ErrInvalidToken {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}

	expired, _ := GenerateToken("x@x.com", "s3cret", -time.Minute)
	if _, err := VerifyToken(expired, "s3cret"); err != ErrInvalidToken {
		t.Fatalf("want ErrInvalidToken for expired token, got %v", err)
	}
}

func TestNoSecret(t *testing.T) {
	if _, err := GenerateToken("x@x.com", "", time.Hour); err != ErrNoSecret {
		t.Fatalf("want ErrNoSecret, got %v", err)
	}
	if _, err := VerifyToken("a.b.c", ""); err != ErrNoSecret {
		t.Fatalf("want ErrNoSecret, got %v", err)
	}
}
