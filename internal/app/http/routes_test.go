package routes

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
	"gorm.io/gorm"

	"web3builder/config"
	"web3builder/internal/app/http/middleware"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/domain/website"
	"web3builder/internal/testutil"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	testutil.UseDB(t, db)

	prevSecret, prevHost := config.JWT_SECRET, config.PUBLIC_HOST
	config.JWT_SECRET = "test-secret"
	config.PUBLIC_HOST = "reham.test"
	t.Cleanup(func() {
		config.JWT_SECRET, config.PUBLIC_HOST = prevSecret, prevHost
	})

	r := gin.New()
	RegisterRoutes(r)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) (users.User, string) {
	t.Helper()
	u := users.User{Email: email, Role: role, IsVerified: true}
	require.NoError(t, db.Create(&u).Error)

	token, _, err := middleware.IssueToken(u)
	require.NoError(t, err)
	return u, token
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

type builderReply struct {
	ID       string          `json:"id"`
	State    string          `json:"state"`
	Website  website.Website `json:"website"`
	Sections []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"sections"`
}

func saveNewSite(t *testing.T, r *gin.Engine, token, name string) builderReply {
	t.Helper()
	w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{
		"website": gin.H{"name": name},
		"sections": []gin.H{
			{"id": "a", "type": "header", "name": "Header", "content": gin.H{"title": "Welcome"}},
			{"id": "b", "type": "hero", "name": "Hero", "content": gin.H{"title": "To the moon"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out builderReply
	decode(t, w, &out)
	return out
}

func TestAuthRequired(t *testing.T) {
	r, _ := setup(t)

	w := do(t, r, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "a@example.com", users.RoleUser)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/me", token, nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/me", token, nil).Code)
}

func TestBuilderSaveAndLoad(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "owner@example.com", users.RoleUser)
	_, other := createUser(t, db, "other@example.com", users.RoleUser)

	saved := saveNewSite(t, r, token, "Moon Token")
	require.NotEqual(t, "new", saved.ID)
	assert.Equal(t, "editing", saved.State)
	assert.Equal(t, "moon-token", saved.Website.Subdomain)

	t.Run("load returns sections in order", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/builder/"+saved.ID, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got builderReply
		decode(t, w, &got)
		require.Len(t, got.Sections, 2)
		assert.Equal(t, "header", got.Sections[0].Type)
		assert.Equal(t, "hero", got.Sections[1].Type)
	})

	t.Run("replacing the list prunes stored rows", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/"+saved.ID, token, gin.H{
			"sections": []gin.H{{"id": "c", "type": "footer", "name": "Footer", "content": gin.H{}}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var count int64
		db.Model(&website.WebsiteContent{}).Where("website_id = ?", saved.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("foreign website is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/builder/"+saved.ID, other, nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/websites/"+saved.ID, other, nil).Code)
	})

	t.Run("taken subdomain conflicts", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/new", other, gin.H{
			"website": gin.H{"name": "Copycat", "subdomain": "moon-token"},
		})
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{"website": gin.H{"subdomain": "nameless"}})
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

func TestBuilderTemplateSeeding(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "seed@example.com", users.RoleUser)

	tmpl := website.Template{Name: "Starter"}
	require.NoError(t, db.Create(&tmpl).Error)

	countRows := func(id string) int64 {
		var n int64
		db.Model(&website.WebsiteContent{}).Where("website_id = ?", id).Count(&n)
		return n
	}

	t.Run("new template without a list seeds the starter sections", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{
			"website":     gin.H{"name": "Seeded"},
			"template_id": tmpl.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got builderReply
		decode(t, w, &got)
		assert.Len(t, got.Sections, 4)
		assert.EqualValues(t, 4, countRows(got.ID))
	})

	t.Run("explicit empty list with the same template stays empty", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{
			"website":     gin.H{"name": "Emptied"},
			"template_id": tmpl.ID,
			"sections":    []gin.H{{"id": "a", "type": "hero", "name": "Hero", "content": gin.H{}}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var saved builderReply
		decode(t, w, &saved)
		require.EqualValues(t, 1, countRows(saved.ID))

		w = do(t, r, http.MethodPut, "/builder/"+saved.ID, token, gin.H{
			"template_id": tmpl.ID,
			"sections":    []gin.H{},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got builderReply
		decode(t, w, &got)
		assert.Empty(t, got.Sections)
		assert.EqualValues(t, 0, countRows(saved.ID))
	})

	t.Run("explicit list wins over a new template", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{
			"website":     gin.H{"name": "Listed"},
			"template_id": tmpl.ID,
			"sections":    []gin.H{},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got builderReply
		decode(t, w, &got)
		assert.EqualValues(t, 0, countRows(got.ID))
	})
}

func TestBuilderWithoutContentBlocks(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "degraded@example.com", users.RoleUser)
	require.NoError(t, db.Migrator().DropTable(&website.ContentBlock{}))

	var loaded struct {
		Catalog []struct {
			Type string `json:"type"`
		} `json:"catalog"`
		CatalogDegraded bool `json:"catalog_degraded"`
	}
	w := do(t, r, http.MethodGet, "/builder/new", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &loaded)
	assert.True(t, loaded.CatalogDegraded)
	assert.NotEmpty(t, loaded.Catalog)

	var op struct {
		Sections []struct {
			Type string `json:"type"`
		} `json:"sections"`
		CatalogDegraded bool `json:"catalog_degraded"`
	}
	w = do(t, r, http.MethodPost, "/builder/sections/ops", token, gin.H{"op": "add", "type": "hero"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &op)
	require.Len(t, op.Sections, 1)
	assert.Equal(t, "hero", op.Sections[0].Type)
	assert.True(t, op.CatalogDegraded)

	saved := saveNewSite(t, r, token, "Still Works")
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/websites/"+saved.ID+"/publish", token, nil).Code)
	w = do(t, r, http.MethodGet, "/sites/still-works", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "To the moon")
}

func TestPremiumFeaturesNeedUpgrade(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "free@example.com", users.RoleUser)

	tmpl := website.Template{Name: "Gold", IsPremium: true}
	require.NoError(t, db.Create(&tmpl).Error)

	w := do(t, r, http.MethodPut, "/builder/new", token, gin.H{
		"website":     gin.H{"name": "Fancy"},
		"template_id": tmpl.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	saved := saveNewSite(t, r, token, "Plain")
	w = do(t, r, http.MethodGet, "/websites/"+saved.ID+"/analytics/daily", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestPublishAndServeSite(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "pub@example.com", users.RoleUser)
	saved := saveNewSite(t, r, token, "Launch Day")

	w := do(t, r, http.MethodGet, "/sites/launch-day", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "drafts are not public")

	w = do(t, r, http.MethodGet, "/websites/"+saved.ID+"/preview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "To the moon")

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/websites/"+saved.ID+"/publish", token, nil).Code)

	w = do(t, r, http.MethodGet, "/sites/launch-day", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Less(t, strings.Index(body, "Welcome"), strings.Index(body, "To the moon"))
	assert.Contains(t, body, "platform-branding", "free sites carry branding")

	var views website.Analytics
	require.NoError(t, db.Where("website_id = ?", saved.ID).First(&views).Error)
	assert.Equal(t, 1, views.Views)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/websites/"+saved.ID+"/unpublish", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/sites/launch-day", "", nil).Code)
}

func TestCryptoPaymentConfirmedByAdmin(t *testing.T) {
	r, db := setup(t)
	referrer, _ := createUser(t, db, "referrer@example.com", users.RoleUser)
	buyer, buyerToken := createUser(t, db, "buyer@example.com", users.RoleUser)
	_, adminToken := createUser(t, db, "admin@example.com", users.RoleAdmin)

	require.NoError(t, db.Create(&referrals.Referral{ReferrerID: referrer.ID, ReferredID: buyer.ID}).Error)

	days := 30
	plan := plans.SubscriptionPlan{Name: "Pro", Price: 50, Currency: "USDC", Blockchain: "ethereum", DurationDays: &days}
	require.NoError(t, db.Create(&plan).Error)

	hash := "0x" + strings.Repeat("ab", 32)
	w := do(t, r, http.MethodPost, "/payments/crypto", buyerToken, gin.H{"plan_id": plan.ID, "transaction_hash": hash})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var payment billing.Payment
	decode(t, w, &payment)
	assert.Equal(t, billing.PaymentPending, payment.Status)

	w = do(t, r, http.MethodPost, "/payments/crypto", buyerToken, gin.H{"plan_id": plan.ID, "transaction_hash": strings.ToUpper(hash[2:])})
	assert.Equal(t, http.StatusBadRequest, w.Code, "hash without 0x prefix")

	w = do(t, r, http.MethodPost, "/payments/crypto", buyerToken, gin.H{"plan_id": plan.ID, "transaction_hash": hash})
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodPost, "/admin/payments/"+payment.ID+"/confirm", buyerToken, nil).Code)

	w = do(t, r, http.MethodPost, "/admin/payments/"+payment.ID+"/confirm", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/admin/payments/"+payment.ID+"/confirm", adminToken, nil).Code)

	w = do(t, r, http.MethodGet, "/me", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Access struct {
			State string `json:"state"`
		} `json:"access"`
		Billing struct {
			Plan *struct {
				Name string `json:"name"`
			} `json:"plan"`
		} `json:"billing"`
	}
	decode(t, w, &me)
	assert.Equal(t, "pro", me.Access.State)
	require.NotNil(t, me.Billing.Plan)
	assert.Equal(t, "Pro", me.Billing.Plan.Name)

	var ref referrals.Referral
	require.NoError(t, db.First(&ref, "referred_id = ?", buyer.ID).Error)
	assert.Equal(t, referrals.StatusCompleted, ref.Status)
	require.NotNil(t, ref.CommissionAmount)
	assert.Equal(t, 5.0, *ref.CommissionAmount)
}

func TestUpdateWallet(t *testing.T) {
	r, db := setup(t)
	_, token := createUser(t, db, "w1@example.com", users.RoleUser)
	_, other := createUser(t, db, "w2@example.com", users.RoleUser)

	addr := "0x52908400098527886e0f7030069857d2e4169ee7"
	w := do(t, r, http.MethodPut, "/me/wallet", token, gin.H{"address": addr, "wallet_type": "MetaMask", "blockchain": "Ethereum"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		WalletAddress string `json:"wallet_address"`
		WalletType    string `json:"wallet_type"`
	}
	decode(t, w, &got)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", got.WalletAddress)
	assert.Equal(t, "metamask", got.WalletType)

	w = do(t, r, http.MethodPut, "/me/wallet", other, gin.H{"address": addr, "wallet_type": "metamask", "blockchain": "ethereum"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPut, "/me/wallet", other, gin.H{"address": "0x123", "wallet_type": "metamask", "blockchain": "ethereum"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferralLink(t *testing.T) {
	r, db := setup(t)
	u, token := createUser(t, db, "ref@example.com", users.RoleUser)

	w := do(t, r, http.MethodGet, "/referrals/link", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Code   string `json:"code"`
		Link   string `json:"link"`
		QRCode string `json:"qr_code"`
	}
	decode(t, w, &got)
	assert.Equal(t, u.ReferralCode, got.Code)
	assert.Equal(t, "https://reham.test/ref/"+u.ReferralCode, got.Link)
	assert.True(t, strings.HasPrefix(got.QRCode, "data:image/png;base64,"))
}

func TestCatalogRoutes(t *testing.T) {
	r, db := setup(t)
	cat := "defi"
	require.NoError(t, db.Create(&website.Template{Name: "Swap", Category: &cat}).Error)
	require.NoError(t, db.Create(&website.Template{Name: "Blank"}).Error)

	w := do(t, r, http.MethodGet, "/templates/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "defi")
	assert.Contains(t, w.Body.String(), "uncategorized")

	w = do(t, r, http.MethodGet, "/subdomains/Fresh/availability", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subdomain":"fresh","available":true,"valid":true}`, w.Body.String())
}
