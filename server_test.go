package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/pid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(method, target string, body url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestJWTMiddleware(t *testing.T) {
	jwtSecret = []byte("test-secret")
	user := models.User{ID: 5, Username: "kasir", Role: models.Role{Name: models.RoleUser}}

	r := gin.New()
	r.GET("/p", jwtAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username"), "role": c.GetString("role"), "uid": *currentUserID(c)})
	})
	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer not-a-jwt").Code)

	expired, err := issueAccessToken(user, -time.Minute)
	require.NoError(t, err)
	rec := call("Bearer " + expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")

	valid, err := issueAccessToken(user, time.Hour)
	require.NoError(t, err)
	rec = call("Bearer " + valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"kasir","role":"user","uid":5}`, rec.Body.String())
}

func TestRespondEnvelopes(t *testing.T) {
	c, rec := testContext(http.MethodPost, "/", nil)
	respondOK(c, msgDeleted, nil)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.OK())
	assert.Equal(t, msgDeleted, env.Message)
	assert.Empty(t, env.Data)

	c, rec = testContext(http.MethodPost, "/", nil)
	respondNo(c, msgInUse)
	assert.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, api.StatusNo, env.Status)
	assert.Equal(t, msgInUse, env.Message)
}

func TestFinishMapsErrors(t *testing.T) {
	res := &resource[models.KeuanganKas]{path: "keuangan-kas", duplicate: "Nomor bukti sudah digunakan"}
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{rejection("Nota tidak ditemukan"), http.StatusOK, "Nota tidak ditemukan"},
		{fmt.Errorf("delete: %w", &pgconn.PgError{Code: pgForeignKeyViolation}), http.StatusOK, msgInUse},
		{&pgconn.PgError{Code: pgUniqueViolation}, http.StatusOK, "Nomor bukti sudah digunakan"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, msgServerFail},
	}
	for _, tc := range cases {
		c, rec := testContext(http.MethodPost, "/", nil)
		res.finish(c, "delete", tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		env := decodeEnvelope(t, rec)
		assert.Equal(t, api.StatusNo, env.Status)
		assert.Equal(t, tc.message, env.Message)
	}
}

func TestBindFormAppliesSharedRules(t *testing.T) {
	body := url.Values{
		"tanggal":    {"2024-05-02"},
		"keterangan": {"Setoran harian"},
		"jenis":      {"masuk"},
		"nominal":    {"1.500.000"},
	}
	c, _ := testContext(http.MethodPost, "/api/keuangan-kas/store", body)
	var f forms.KasForm
	err := bindForm(c, &f)
	require.Error(t, err)
	assert.Equal(t, "Nomor bukti harus diisi", err.Error())

	body.Set("nomor_bukti", "KM-001")
	c, _ = testContext(http.MethodPost, "/api/keuangan-kas/store", body)
	f = forms.KasForm{}
	require.NoError(t, bindForm(c, &f))
	assert.Equal(t, int64(1500000), amount(f.Nominal))
	assert.Equal(t, "2024-05-02", formatDate(parseDate(f.Tanggal)))
}

func TestListRequestReadsQueryAndForm(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/api/bank-deposit?draw=3&start=10&length=10&search%5Bvalue%5D=BCA&bank=Mandiri", nil)
	req := listRequest(c)
	assert.Equal(t, 3, req.Draw)
	assert.Equal(t, 2, req.Page())
	assert.Equal(t, "BCA", req.Search)
	assert.Equal(t, "Mandiri", req.Filter("bank"))

	c, _ = testContext(http.MethodPost, "/api/pengajuan-biaya-kas/data", url.Values{"draw": {"7"}, "length": {"25"}, "status": {"ditolak"}})
	req = listRequest(c)
	assert.Equal(t, 7, req.Draw)
	assert.Equal(t, 25, req.Length)
	assert.Equal(t, "ditolak", req.Filter("status"))
}

func TestDownloadRejectsForeignPID(t *testing.T) {
	pids = pid.NewCodec("test-pid-secret")
	other := pid.NewCodec("another-secret").MustEncode(3)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/files/"+other, nil)
	c.Params = gin.Params{{Key: "pid", Value: other}}
	downloadFileHandler(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PID_SECRET", "")
	t.Setenv("DB_AUTO_MIGRATE", "no")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("PROOF_MAX_WIDTH", "abc")

	cfg := loadConfig()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "s3cret", cfg.PIDSecret)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, 1600, cfg.MaxWidth)
}

func TestPengajuanStatusScopeKnowsKeywords(t *testing.T) {
	assert.Nil(t, pengajuanStatusScope("  "))
	for _, v := range []string{"pending", "disetujui", "sebagian", "ditolak", "menunggu"} {
		assert.NotNil(t, pengajuanStatusScope(v), v)
	}
}

func TestFilterScopesEscapeWildcards(t *testing.T) {
	dry, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var out []models.BankDeposit
	stmt := ilike("bank", "50%_B")(dry.Model(&models.BankDeposit{})).Find(&out).Statement
	assert.Contains(t, stmt.Vars, `%50\%\_B%`)
}
