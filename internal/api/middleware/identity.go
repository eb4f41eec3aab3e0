package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"grocery-planning/internal/infrastructure/config"
	"grocery-planning/internal/pkg/common"
)

const (
	userSubKey     = "user_sub"
	identityHeader = "X-Cognito-Identity-Id"
)

// identityResolver 依設定決定信任哪些身分來源
type identityResolver struct {
	trustUpstream bool
	parser        *jwt.Parser
	keyFunc       jwt.Keyfunc // 為 nil 時不接受任何 Bearer JWT
}

// Identity 解析呼叫者身分並放入 context。
// TrustUpstream 開啟時沿用上游授權器已驗證的 JWT sub，再退回身分池標頭；
// 關閉時只接受以設定金鑰驗證通過的 Bearer JWT。
func Identity(cfg config.AuthConfig) gin.HandlerFunc {
	r := newIdentityResolver(cfg)
	return func(c *gin.Context) {
		if sub := r.resolve(c); sub != "" {
			c.Set(userSubKey, sub)
		}
		c.Next()
	}
}

// UserSub 取得目前請求的使用者識別，沒有時回傳空字串
func UserSub(c *gin.Context) string {
	return c.GetString(userSubKey)
}

func newIdentityResolver(cfg config.AuthConfig) *identityResolver {
	r := &identityResolver{trustUpstream: cfg.TrustUpstream}
	if cfg.TrustUpstream {
		r.parser = jwt.NewParser()
		return r
	}

	opts := []jwt.ParserOption{}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	switch {
	case cfg.JWTPublicKey != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.JWTPublicKey))
		if err != nil {
			common.LogError("Invalid JWT public key, bearer tokens will be rejected", zap.Error(err))
			break
		}
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
		r.keyFunc = func(*jwt.Token) (interface{}, error) { return key, nil }
	case cfg.JWTSecret != "":
		secret := []byte(cfg.JWTSecret)
		opts = append(opts, jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}))
		r.keyFunc = func(*jwt.Token) (interface{}, error) { return secret, nil }
	default:
		common.LogWarn("No JWT verification key configured and upstream identity is not trusted; favorites will reject every caller")
	}

	r.parser = jwt.NewParser(opts...)
	return r
}

func (r *identityResolver) resolve(c *gin.Context) string {
	token, hasToken := bearerToken(c.GetHeader("Authorization"))

	if r.trustUpstream {
		if hasToken {
			if sub := r.unverifiedSubject(token); sub != "" {
				return sub
			}
		}
		return strings.TrimSpace(c.GetHeader(identityHeader))
	}

	if !hasToken || r.keyFunc == nil {
		return ""
	}
	return r.verifiedSubject(token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// unverifiedSubject 讀取已由上游驗證過的 JWT sub，格式錯誤時回傳空字串
func (r *identityResolver) unverifiedSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
		common.LogDebug("Ignoring unparsable bearer token", zap.Error(err))
		return ""
	}
	return subjectOf(claims)
}

// verifiedSubject 驗證簽章、期限與發行者後讀取 sub
func (r *identityResolver) verifiedSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, err := r.parser.ParseWithClaims(token, claims, r.keyFunc); err != nil {
		common.LogDebug("Rejecting bearer token", zap.Error(err))
		return ""
	}
	return subjectOf(claims)
}

func subjectOf(claims jwt.MapClaims) string {
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(sub)
}
