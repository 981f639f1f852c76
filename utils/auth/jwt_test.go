package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key",
		Expiry:        expiry,
		RefreshExpiry: expiry * 7,
		Issuer:        "artsfest-api",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := testJWTManager(time.Hour)
	collegeID := uint(42)

	token, jti, err := manager.GenerateAccessToken(7, "stmarys@colleges.artsfest.local", "college", &collegeID, 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Fatal("expected non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "college" || claims.TokenVersion != 3 {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.CollegeID == nil || *claims.CollegeID != 42 {
		t.Errorf("expected college id carried in claims, got %v", claims.CollegeID)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.ID != jti {
		t.Errorf("claims ID %q does not match returned JTI %q", claims.ID, jti)
	}
}

func TestRefreshTokenType(t *testing.T) {
	manager := testJWTManager(time.Hour)

	token, _, err := manager.GenerateRefreshToken(7, "admin@artsfest.local", "admin", nil, 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %q", claims.TokenType)
	}
	if claims.CollegeID != nil {
		t.Errorf("expected no college id for admin, got %v", claims.CollegeID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := testJWTManager(time.Hour)
	token, _, err := manager.GenerateAccessToken(7, "a@b.c", "college", nil, 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	manager := testJWTManager(-time.Minute)
	token, _, err := manager.GenerateAccessToken(7, "a@b.c", "college", nil, 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestGetTokenExpiry(t *testing.T) {
	manager := testJWTManager(time.Hour)
	token, _, err := manager.GenerateAccessToken(7, "a@b.c", "college", nil, 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	expiry, err := manager.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("GetTokenExpiry failed: %v", err)
	}
	until := time.Until(expiry)
	if until < 59*time.Minute || until > time.Hour {
		t.Errorf("unexpected expiry %v from now", until)
	}
}
