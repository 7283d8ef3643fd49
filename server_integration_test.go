package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/pid"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postForm(r http.Handler, path, token string, v url.Values) *httptest.ResponseRecorder {
	return performRequest(r, http.MethodPost, path, strings.NewReader(v.Encode()), token, "application/x-www-form-urlencoded")
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func createdPID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := envelopeOf(t, rec)
	require.True(t, env.OK(), env.Message)
	var c api.Created
	require.NoError(t, json.Unmarshal(env.Data, &c))
	require.NotEmpty(t, c.PID)
	return c.PID
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("integration-secret")
	pids = pid.NewCodec("integration-pid-secret")
	initDB(os.Getenv("DB_DSN"), true)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	files = store
	proofs = &proof.Ingester{Store: store}
	r := gin.New()
	setupRoutes(r)
	return r
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	regBody, _ := json.Marshal(map[string]string{"username": "kasir1", "password": "pass123", "full_name": "Kasir Satu"})
	resp := performRequest(r, http.MethodPost, "/api/auth/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != http.StatusOK && resp.Code != http.StatusConflict {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	loginBody, _ := json.Marshal(map[string]string{"username": "kasir1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/api/auth/login", bytes.NewBuffer(loginBody), "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	token := login(t, r)
	suffix := fmt.Sprint(time.Now().UnixNano())
	today := time.Now().Format(datatables.DateLayout)

	// Unauthorized access to a protected endpoint is 401.
	resp := performRequest(r, http.MethodGet, "/api/keuangan-kas", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Kas masuk, listed through the DataTables protocol.
	kasPID := createdPID(t, postForm(r, "/api/keuangan-kas/store", token, url.Values{
		"tanggal": {today}, "nomor_bukti": {"KM-" + suffix}, "keterangan": {"Penjualan sapi"},
		"jenis": {"masuk"}, "nominal": {"1500000"},
	}))
	q := datatables.ForPage(1, 10, "KM-"+suffix)
	q.Draw = 4
	resp = performRequest(r, http.MethodGet, "/api/keuangan-kas?"+q.Values().Encode(), nil, token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list datatables.Response[map[string]any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 4, list.Draw)
	assert.EqualValues(t, 1, list.RecordsFiltered)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "pending", list.Data[0]["status_setor"])

	// Duplicate nomor bukti is a business rejection.
	env := envelopeOf(t, postForm(r, "/api/keuangan-kas/store", token, url.Values{
		"tanggal": {today}, "nomor_bukti": {"KM-" + suffix}, "keterangan": {"x"}, "jenis": {"masuk"}, "nominal": {"1"},
	}))
	assert.Equal(t, "Nomor bukti sudah digunakan", env.Message)

	// Bank deposit with a proof links the kas row; the kas row is then in use.
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range map[string]string{
		"nomor_setor": "ST-" + suffix, "tanggal_setor": today, "bank": "BCA",
		"nomor_rekening": "1234567890", "nominal": "1.500.000", "kas_pid": kasPID,
	} {
		_ = mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("bukti", "setoran.png")
	_ = png.Encode(fw, image.NewGray(image.Rect(0, 0, 40, 20)))
	_ = mw.Close()
	depositPID := createdPID(t, performRequest(r, http.MethodPost, "/api/bank-deposit/store", buf, token, mw.FormDataContentType()))

	env = envelopeOf(t, postForm(r, "/api/keuangan-kas/delete", token, url.Values{"pid": {kasPID}}))
	assert.Equal(t, msgInUse, env.Message)

	env = envelopeOf(t, postForm(r, "/api/bank-deposit/show", token, url.Values{"pid": {depositPID}}))
	require.True(t, env.OK())
	var deposit map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &deposit))
	buktiPID, _ := deposit["bukti_pid"].(string)
	require.NotEmpty(t, buktiPID)

	resp = performRequest(r, http.MethodGet, "/api/files/"+buktiPID, nil, token, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "setoran.png")
	resp = performRequest(r, http.MethodGet, "/api/files/"+buktiPID, nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Deleting the deposit releases the kas row.
	env = envelopeOf(t, postForm(r, "/api/bank-deposit/delete", token, url.Values{"pid": {depositPID}}))
	require.True(t, env.OK(), env.Message)
	env = envelopeOf(t, postForm(r, "/api/keuangan-kas/delete", token, url.Values{"pid": {kasPID}}))
	assert.True(t, env.OK(), env.Message)

	// Partial approval derives the status text.
	pengajuanPID := createdPID(t, postForm(r, "/api/pengajuan-biaya-kas/store", token, url.Values{
		"nomor_pengajuan": {"PB-" + suffix}, "tanggal_pengajuan": {today}, "pemohon": {"Kasir Satu"},
		"keperluan": {"Beli obat"}, "nominal_pengajuan": {"500000"},
	}))
	env = envelopeOf(t, postForm(r, "/api/pengajuan-biaya-kas/approve", token, url.Values{
		"pid": {pengajuanPID}, "nominal_disetujui": {"300000"}, "ditolak": {"false"},
	}))
	require.True(t, env.OK(), env.Message)
	assert.Contains(t, string(env.Data), "Disetujui Sebagian")
	env = envelopeOf(t, postForm(r, "/api/pengajuan-biaya-kas/approve", token, url.Values{"pid": {pengajuanPID}}))
	assert.Equal(t, "Pengajuan sudah diproses", env.Message)

	// A receipt needs an existing nota and pins it.
	env = envelopeOf(t, postForm(r, "/api/tanda-terima/store", token, url.Values{
		"nomor_tanda_terima": {"TT-" + suffix}, "tanggal": {today}, "nota": {"NOPE-" + suffix}, "penerima": {"Gudang"},
	}))
	assert.Equal(t, "Nota tidak ditemukan", env.Message)

	feedPID := createdPID(t, postForm(r, "/api/pembelian-feedmil/store", token, url.Values{
		"nota": {"FM-" + suffix}, "tanggal_masuk": {today}, "nama_supplier": {"PT Pakan"},
		"jenis_pakan": {"Konsentrat"}, "jumlah_kg": {"1000"}, "harga_per_kg": {"6.500"},
	}))
	createdPID(t, postForm(r, "/api/tanda-terima/store", token, url.Values{
		"nomor_tanda_terima": {"TT-" + suffix}, "tanggal": {today}, "nota": {"FM-" + suffix}, "penerima": {"Gudang"},
	}))
	env = envelopeOf(t, postForm(r, "/api/pembelian-feedmil/show", token, url.Values{"pid": {feedPID}}))
	var feed map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.EqualValues(t, 6500000, feed["total"])
	assert.Equal(t, "diterima", feed["status"])
	env = envelopeOf(t, postForm(r, "/api/pembelian-feedmil/delete", token, url.Values{"pid": {feedPID}}))
	assert.Equal(t, msgInUse, env.Message)

	// Summary answers the envelope with three buckets.
	env = envelopeOf(t, postForm(r, "/api/pembelian-feedmil/summary", token, url.Values{"supplier": {"PT Pakan"}}))
	require.True(t, env.OK())
	var sum api.Summary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.GreaterOrEqual(t, sum.Today.Count, int64(1))
	assert.GreaterOrEqual(t, sum.ThisMonth.Total, sum.Today.Total)
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB(os.Getenv("DB_DSN"), true)
}
