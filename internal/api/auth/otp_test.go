package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web3builder/config"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/session"
	"web3builder/internal/testutil"
)

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/auth")
	public.Use(middleware.SanitizeInput())
	public.POST("/otp/request", RequestCode)
	public.POST("/otp/verify", VerifyCode)
	return r
}

func post(r *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// captureCodes replaces the mailer with one that records the last code per
// address.
func captureCodes(t *testing.T) map[string]string {
	codes := map[string]string{}
	prev := sendCode
	sendCode = func(to, code string) error {
		codes[to] = code
		return nil
	}
	t.Cleanup(func() { sendCode = prev })
	return codes
}

func TestOTPSignIn(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseDB(t, db)
	prev := config.JWT_SECRET
	config.JWT_SECRET = "test-secret"
	t.Cleanup(func() { config.JWT_SECRET = prev })
	codes := captureCodes(t)
	r := router()

	w := post(r, "/auth/otp/request", gin.H{"email": "  Alice@Example.com "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := codes["alice@example.com"]
	require.Len(t, code, 6)

	var user users.User
	require.NoError(t, db.First(&user, "email = ?", "alice@example.com").Error)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.OTPSecret)
	assert.Len(t, user.ReferralCode, 8)

	t.Run("wrong code", func(t *testing.T) {
		if code == "000000" {
			t.Skip("generated code collides with the wrong one")
		}
		w := post(r, "/auth/otp/verify", gin.H{"email": "alice@example.com", "code": "000000"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := post(r, "/auth/otp/verify", gin.H{"email": "bob@example.com", "code": code})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("right code signs in", func(t *testing.T) {
		var signedIn []session.Session
		unsubscribe := session.Default.Subscribe(func(ev session.Event) {
			if ev.Type == session.SignedIn && ev.Session.UserID == user.ID {
				signedIn = append(signedIn, ev.Session)
			}
		})
		defer unsubscribe()

		w := post(r, "/auth/otp/verify", gin.H{"email": "alice@example.com", "code": code})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out struct {
			Token string     `json:"token"`
			User  users.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.NotEmpty(t, out.Token)
		assert.True(t, out.User.IsVerified)

		require.Len(t, signedIn, 1)
		_, live := session.Default.Get(signedIn[0].ID)
		assert.True(t, live)
	})

	t.Run("second request reuses the account", func(t *testing.T) {
		require.Equal(t, http.StatusOK, post(r, "/auth/otp/request", gin.H{"email": "alice@example.com"}).Code)
		var count int64
		db.Model(&users.User{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("invalid email", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post(r, "/auth/otp/request", gin.H{"email": "nope"}).Code)
	})
}

func TestSignUpWithReferral(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseDB(t, db)
	captureCodes(t)
	r := router()

	referrer := users.User{Email: "ref@example.com"}
	require.NoError(t, db.Create(&referrer).Error)

	require.Equal(t, http.StatusOK, post(r, "/auth/otp/request", gin.H{"email": "new@example.com", "ref": " " + strings.ToUpper(referrer.ReferralCode)}).Code)
	require.Equal(t, http.StatusOK, post(r, "/auth/otp/request", gin.H{"email": "stray@example.com", "ref": "unknown"}).Code)

	var list []referrals.Referral
	require.NoError(t, db.Find(&list).Error)
	require.Len(t, list, 1)
	assert.Equal(t, referrer.ID, list[0].ReferrerID)
	assert.Equal(t, referrals.StatusPending, list[0].Status)

	var newUser users.User
	require.NoError(t, db.First(&newUser, "email = ?", "new@example.com").Error)
	assert.Equal(t, newUser.ID, list[0].ReferredID)
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseDB(t, db)

	existing := users.User{Email: "link@example.com"}
	require.NoError(t, db.Create(&existing).Error)

	t.Run("links an existing email account", func(t *testing.T) {
		u, err := findOrCreateGoogleUser(&googleIDClaims{Sub: "g-1", Email: "Link@Example.com"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, u.ID)
		require.NotNil(t, u.GoogleSub)
		assert.Equal(t, "g-1", *u.GoogleSub)
		assert.True(t, u.IsVerified)
	})

	t.Run("finds by subject", func(t *testing.T) {
		u, err := findOrCreateGoogleUser(&googleIDClaims{Sub: "g-1", Email: "changed@example.com"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, u.ID)
	})

	t.Run("creates a verified user", func(t *testing.T) {
		u, err := findOrCreateGoogleUser(&googleIDClaims{Sub: "g-2", Email: "fresh@example.com"})
		require.NoError(t, err)
		assert.NotEqual(t, existing.ID, u.ID)
		assert.True(t, u.IsVerified)
		assert.Equal(t, users.RoleUser, u.Role)
	})
}
