package kraken

import (
	"encoding/base64"
	"testing"
)

func testSigner() *Signer {
	secret := base64.StdEncoding.EncodeToString([]byte("super secret signing key"))
	return NewSigner(secret)
}

func TestSignRequest_Deterministic(t *testing.T) {
	s := testSigner()

	path := "/0/private/Balance"
	nonce := "1616492376594"
	body := "nonce=1616492376594"

	first, err := s.SignRequest(path, nonce, body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	second, err := s.SignRequest(path, nonce, body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if first != second {
		t.Errorf("signature not deterministic: %q != %q", first, second)
	}
	if _, err := base64.StdEncoding.DecodeString(first); err != nil {
		t.Errorf("signature is not valid base64: %v", err)
	}
}

func TestSignRequest_SensitiveToEveryInput(t *testing.T) {
	s := testSigner()

	path := "/0/private/AddOrder"
	nonce := "1616492376594"
	body := "nonce=1616492376594&pair=XXBTZUSD"

	reference, err := s.SignRequest(path, nonce, body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name              string
		path, nonce, body string
	}{
		{"path", "/0/private/AddOrdeR", nonce, body},
		{"nonce", path, "1616492376595", body},
		{"body", path, nonce, "nonce=1616492376594&pair=XXBTZUSE"},
	}
	for _, tt := range tests {
		got, err := s.SignRequest(tt.path, tt.nonce, tt.body)
		if err != nil {
			t.Fatalf("%s: sign: %v", tt.name, err)
		}
		if got == reference {
			t.Errorf("single-byte change in %s must change the signature", tt.name)
		}
	}
}

func TestSignRequest_DifferentSecrets(t *testing.T) {
	a := NewSigner(base64.StdEncoding.EncodeToString([]byte("secret a")))
	b := NewSigner(base64.StdEncoding.EncodeToString([]byte("secret b")))

	sigA, err := a.SignRequest("/0/private/Balance", "1", "nonce=1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sigB, err := b.SignRequest("/0/private/Balance", "1", "nonce=1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if sigA == sigB {
		t.Error("different secrets must produce different signatures")
	}
}

func TestSignRequest_InvalidSecret(t *testing.T) {
	s := NewSigner("not base64 !!!")
	if _, err := s.SignRequest("/0/private/Balance", "1", "nonce=1"); err == nil {
		t.Error("expected error for non-base64 secret")
	}
}
