package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskmanager/models"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
)

// mySigningKey should be a strong, randomly generated secret key,
// and it should be stored securely (e.g., in environment variables,
// a key management service, etc.), NOT hardcoded in your source code.
var mySigningKey = []byte("mySigningKey")

// SetSigningKey allows setting the key from outside the package.
func SetSigningKey(key []byte) {
	if len(key) > 0 {
		mySigningKey = key
	}
}

// Identity is the authenticated caller as established by the token filter.
// It is passed explicitly into handlers; nothing in this package reads
// ambient per-request state.
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Roles  []string
}

// HasRole reports whether the role set contains the required role. It is a
// pure function so authorization decisions can be tested without a request
// context.
func HasRole(roles []string, required string) bool {
	for _, r := range roles {
		if r == required {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity holds the admin role.
func (id Identity) IsAdmin() bool {
	return HasRole(id.Roles, models.RoleAdmin)
}

// CustomClaims represents the custom claims carried in the JWT.
type CustomClaims struct {
	UserID uint     `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT for the given user. The claims snapshot the
// user's id, email, display name and role names at issue time.
func GenerateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Roles:  user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "taskmanager",
			Subject:   "user-auth",
			Audience:  []string{"taskmanager-users"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(mySigningKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseAndValidateToken verifies the signature and validity window.
func ParseAndValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return mySigningKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, errors.New("token is either expired or not active yet")
			} else if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

const identityAttribute = "identity"

// AuthFilter creates a go-restful FilterFunction for JWT authentication. On
// success it stores an Identity value in the request attributes for the
// handlers behind it.
func AuthFilter() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		authHeader := req.HeaderParameter("Authorization")
		if authHeader == "" {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Authorization header required"}, restful.MIME_JSON)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header format"}, restful.MIME_JSON)
			return
		}
		tokenString := parts[1]

		claims, err := ParseAndValidateToken(tokenString)
		if err != nil {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": err.Error()}, restful.MIME_JSON)
			return
		}

		req.SetAttribute(identityAttribute, Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Roles:  claims.Roles,
		})

		chain.ProcessFilter(req, resp)
	}
}

// RoleFilter creates a FilterFunction that rejects callers not holding the
// required role. It must be chained after AuthFilter.
func RoleFilter(required string) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		identity, ok := IdentityFromRequest(req)
		if !ok {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: cannot identify requesting user"}, restful.MIME_JSON)
			return
		}
		if !HasRole(identity.Roles, required) {
			_ = resp.WriteHeaderAndJson(http.StatusForbidden, map[string]string{"message": fmt.Sprintf("Forbidden: %s role required", required)}, restful.MIME_JSON)
			return
		}
		chain.ProcessFilter(req, resp)
	}
}

// IdentityFromRequest extracts the Identity stored by AuthFilter.
func IdentityFromRequest(req *restful.Request) (Identity, bool) {
	attr := req.Attribute(identityAttribute)
	if attr == nil {
		return Identity{}, false
	}
	identity, ok := attr.(Identity)
	return identity, ok
}
