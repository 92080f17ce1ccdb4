package jwt

import (
	"time"

	"activity-portal/config"

	jwtlib "github.com/golang-jwt/jwt"
)

const (
	RoleAdmin     = "Admin"
	RoleOrganizer = "Organizador"
	RoleStudent   = "Estudiante"
)

// Payload 写入 token 的用户信息
type Payload struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type Claims struct {
	Payload
	jwtlib.StandardClaims
}

func CreateToken(payload Payload) (string, error) {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwtlib.StandardClaims{
			Issuer:    cfg.Issuer,
			Audience:  cfg.Audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

// ParseToken 校验签名、过期时间、签发者与受众
func ParseToken(token string) (*Claims, bool) {
	cfg := config.Get().JWT
	claims := &Claims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, jwtlib.ErrSignatureInvalid
		}
		return []byte(cfg.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, false
	}
	if cfg.Audience != "" && !claims.VerifyAudience(cfg.Audience, true) {
		return nil, false
	}
	return claims, true
}
