package handlers

import (
	"bytes"
	"encoding/json"
	"inventory/config"
	"inventory/internal/app"
	"inventory/internal/handlers/middleware"
	. "inventory/internal/models"
	"inventory/internal/testutil"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	fiber *fiber.App
	app   *app.App
	sku   SKU
	user  User
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	db := testutil.NewDB(t)
	a, err := app.Build(db, config.Config{
		Environment:            "test",
		DatabaseDriver:         config.DriverSQLite,
		SequenceLockTTLSeconds: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.EventBus.Close() })

	server := fiber.New()
	require.NoError(t, Router(server, a))

	return testServer{
		fiber: server,
		app:   a,
		sku:   testutil.CreateSKU(t, db, "KA01"),
		user:  testutil.CreateUser(t, db, "tester"),
	}
}

func (s testServer) do(t *testing.T, method, path string, body any, userID string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}

	resp, err := s.fiber.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	} else {
		decoded = map[string]any{"raw": string(raw)}
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestBatchLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/batches", map[string]any{
		"sku_id":     s.sku.ID,
		"batch_date": "2024-03-09",
		"quantity":   3,
	}, s.user.ID)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	batch := body["batch"].(map[string]any)
	batchID := batch["id"].(string)
	assert.Equal(t, "KA01", batch["prefix"])

	resp, body = s.do(t, http.MethodGet, "/api/batches/"+batchID+"/barcodes", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	barcodes := body["barcodes"].([]any)
	require.Len(t, barcodes, 3)
	assert.Equal(t, "KA01A001", barcodes[0].(map[string]any)["sequenceNumber"])

	resp, body = s.do(t, http.MethodGet, "/api/batches/"+batchID+"/barcodes/export", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="KA01_20240309.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Contains(t, body["raw"], "KA01A003,KA01,2024-03-09")

	resp, body = s.do(t, http.MethodGet, "/api/batches?sku_id="+s.sku.ID, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["batches"], 1)
}

func TestBatchValidationReturnsFieldErrors(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/batches", map[string]any{"quantity": 0}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "sku_id")
	assert.Contains(t, errs, "quantity")
}

func TestBatchFormIncludesTemplateFields(t *testing.T) {
	s := newTestServer(t)
	template := testutil.CreateSpecTemplate(t, s.app.Database, "Power", "battery")

	resp, body := s.do(t, http.MethodPost, "/api/batches/form", map[string]any{
		"spec_template_id": template.ID,
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	form := body["form"].(map[string]any)
	assert.Equal(t, []any{"battery"}, form["specFields"])
}

func TestMissingBatchIsNotFound(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/batches/missing", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnknownUserIsRejected(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/skus", nil, "nobody")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRecordingTestRequiresUser(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/tests", map[string]any{}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/tests", map[string]any{}, s.user.ID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["errors"])
}

func TestCatalogCreateSKU(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/skus", map[string]any{"code": "kb02"}, s.user.ID)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "KB02", body["sku"].(map[string]any)["code"])

	resp, _ = s.do(t, http.MethodPost, "/api/skus", map[string]any{"code": "KB02"}, s.user.ID)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/skus", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["skus"], 2)
}
