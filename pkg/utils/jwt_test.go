package utils

import (
	"testing"
	"time"
)

func initTestJWT(t *testing.T) {
	t.Helper()
	InitJWT("test-secret", 15*time.Minute, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestJWT(t)

	token, err := GenerateAccessToken(42, "kasir@example.com", "cashier", "USR042")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "kasir@example.com" || claims.Role != "cashier" || claims.Code != "USR042" {
		t.Errorf("claims round trip = %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("token type = %s", claims.TokenType)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	initTestJWT(t)

	refresh, err := GenerateRefreshToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token must not validate as access token")
	}

	access, err := GenerateAccessToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("access token must not validate as refresh token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	InitJWT("secret-one", time.Minute, time.Hour)
	token, err := GenerateAccessToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	InitJWT("secret-two", time.Minute, time.Hour)
	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	InitJWT("test-secret", -time.Minute, time.Hour)
	token, err := GenerateAccessToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateAccessToken(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	initTestJWT(t)
	t1, err := GenerateRefreshToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	t2, err := GenerateRefreshToken(1, "a@b.c", "admin", "USR001")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if t1 == t2 {
		t.Error("two refresh tokens for the same user must differ")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing", "", "", true},
		{"no prefix", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"empty token", "Bearer ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	if h1 != h2 {
		t.Error("hash must be deterministic for lookups")
	}
	if h1 == HashToken("other-token") {
		t.Error("different tokens must hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("expected hex sha256, got len %d", len(h1))
	}
}
