package helpers

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !CompareHashAndPassword(hash, "correct horse battery staple") {
		t.Fatal("matching password rejected")
	}
	if CompareHashAndPassword(hash, "wrong password") {
		t.Fatal("wrong password accepted")
	}
}

func TestCompareGarbageHash(t *testing.T) {
	if CompareHashAndPassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("garbage hash accepted")
	}
}
