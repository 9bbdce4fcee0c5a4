package auth

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Error("hash must not equal the plain password")
	}

	if err := ComparePassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("ComparePassword failed for correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong-pass"); err == nil {
		t.Error("ComparePassword succeeded for wrong password")
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}
	b, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("password length = %d, want 16", len(a))
	}
	if a == b {
		t.Error("two generated passwords are identical")
	}
}
