package reporter

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

const (
	TokenIssuer = "emergency-report"
	TokenTTL    = 5 * time.Minute
)

// ReportClaims bind a bearer token to one submission.
type ReportClaims struct {
	ReservationID string `json:"reservation_id,omitempty"`
	EmergencyType string `json:"emergency_type"`
	jwt.RegisteredClaims
}

// SignReportToken mints a short-lived HS256 token for report.
func SignReportToken(secret string, report domain.EmergencyReport, now time.Time) (string, error) {
	claims := &ReportClaims{
		ReservationID: report.ReservationID,
		EmergencyType: string(report.EmergencyType),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseReportToken checks the signature and lifetime of a token minted by SignReportToken.
// It is the verification half for the receiving backend; this module only signs.
func ParseReportToken(secret, tokenString string) (*ReportClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ReportClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrInvalidInput)
	}

	claims, ok := token.Claims.(*ReportClaims)
	if !ok || !token.Valid || claims.Issuer != TokenIssuer {
		return nil, e.Wrap("invalid report token", e.ErrInvalidInput)
	}
	return claims, nil
}
