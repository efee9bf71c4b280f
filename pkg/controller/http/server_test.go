package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	server "github.com/secmon-lab/hra/pkg/controller/http"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/repository/memory"
	"github.com/secmon-lab/hra/pkg/service/metrics"
	"github.com/secmon-lab/hra/pkg/service/storage"
	"github.com/secmon-lab/hra/pkg/usecase"
)

const (
	testSecret = "http-test-secret-0123456789abcdef"
	adminID    = "5a0c2e9f-1b7d-4c3a-8e6f-0d9b2a4c6e81"
	employeeID = "7e3b1d5c-9a2f-4e6b-b0c8-3f1a5d7e9c24"
)

type testEnv struct {
	srv     *server.Server
	repo    *memory.Memory
	store   *storage.Memory
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, withAuth bool) *testEnv {
	t.Helper()

	repo := memory.New()
	store := storage.NewMemory()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	opts := []usecase.Option{
		usecase.WithPhotoStorage(store),
		usecase.WithMetrics(m),
	}
	if withAuth {
		authUC, err := usecase.NewTokenAuthUseCase(repo, usecase.WithHMACSecret(testSecret))
		gt.NoError(t, err).Required()
		opts = append(opts, usecase.WithAuth(authUC))

		_, err = repo.Account().Put(t.Context(), &model.Account{
			ID: adminID, Email: "admin@example.com", Name: "Admin", Role: types.RoleAdmin,
		})
		gt.NoError(t, err).Required()
	}

	uc := usecase.New(repo, opts...)
	srv := server.New(uc, server.WithMetrics(m, reg))
	return &testEnv{srv: srv, repo: repo, store: store, metrics: m}
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewBuilder().Subject(sub).Expiration(time.Now().Add(time.Hour)).Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	gt.NoError(t, err).Required()
	return "Bearer " + string(signed)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

// seed creates the reference chain through the API and returns the HRA form body
func (e *testEnv) seed(t *testing.T, token string) map[string]any {
	t.Helper()

	create := func(kind string, body map[string]any) int64 {
		w := e.do(t, http.MethodPost, "/api/reference/"+kind, token, body)
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		return int64(decode[map[string]any](t, w)["id"].(float64))
	}

	process := create("process", map[string]any{"code": "P01", "name": "Mining"})
	sub := create("sub_process", map[string]any{"code": "SP01", "name": "Blasting", "parent_id": process})
	activity := create("activity", map[string]any{"code": "A01", "name": "Charging", "parent_id": sub})
	hazard := create("health_hazard", map[string]any{"name": "Noise"})
	risk := create("health_risk", map[string]any{"name": "Hearing loss"})
	control := create("control_hierarchy", map[string]any{"code": "CH5", "name": "PPE"})

	return map[string]any{
		"process_id":                 process,
		"sub_process_id":             sub,
		"activity_id":                activity,
		"health_hazard_id":           hazard,
		"health_risk_id":             risk,
		"control_hierarchy_ids":      []int64{control},
		"preventive_control":         "Ear muffs",
		"likelihood_without_control": 4,
		"severity_without_control":   4,
		"likelihood_with_control":    2,
		"severity_with_control":      2,
	}
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("ok")
}

func TestServer_RiskMatrix(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(t, http.MethodGet, "/api/risk-matrix", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp struct {
		Likelihood []map[string]any   `json:"likelihood"`
		Rows       [][]map[string]any `json:"rows"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Likelihood).Length(5)
	gt.Array(t, resp.Rows).Length(5).Required()
	gt.Value(t, resp.Rows[4][4]["risk_code"]).Equal("AA")
	gt.Value(t, resp.Rows[0][4]["risk_code"]).Equal("B")
}

func TestServer_Evaluate(t *testing.T) {
	env := newTestEnv(t, false)

	testCases := []struct {
		name   string
		body   any
		status int
		code   string
		tier   string
	}{
		{"medium", map[string]int{"likelihood": 2, "severity": 4}, http.StatusOK, "B", "Medium"},
		{"extreme", map[string]int{"likelihood": 5, "severity": 4}, http.StatusOK, "AA", "Extreme"},
		{"out of range", map[string]int{"likelihood": 6, "severity": 1}, http.StatusBadRequest, "", ""},
		{"missing severity", map[string]int{"likelihood": 3}, http.StatusBadRequest, "", ""},
		{"not json", "nope", http.StatusBadRequest, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/risk/evaluate", "", tc.body)
			gt.Value(t, w.Code).Equal(tc.status)
			if tc.status != http.StatusOK {
				gt.String(t, w.Body.String()).Contains("error")
				return
			}
			resp := decode[map[string]any](t, w)
			gt.Value(t, resp["risk_code"]).Equal(tc.code)
			gt.Value(t, resp["risk_tier"]).Equal(tc.tier)
		})
	}
}

func TestServer_EvaluateRejectsMalformedRatings(t *testing.T) {
	env := newTestEnv(t, false)

	invalid := []struct {
		name string
		body string
	}{
		{"fractional likelihood", `{"likelihood":2.5,"severity":3}`},
		{"quoted likelihood", `{"likelihood":"3","severity":3}`},
		{"null severity", `{"likelihood":3,"severity":null}`},
		{"boolean severity", `{"likelihood":3,"severity":true}`},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			w := env.doRaw(t, http.MethodPost, "/api/risk/evaluate", tc.body)
			gt.Value(t, w.Code).Equal(http.StatusBadRequest)
			gt.String(t, decode[map[string]string](t, w)["error"]).Contains("invalid risk input")
		})
	}
	gt.Value(t, testutil.ToFloat64(env.metrics.InvalidInputs)).Equal(float64(len(invalid)))

	t.Run("trailing data", func(t *testing.T) {
		w := env.doRaw(t, http.MethodPost, "/api/risk/evaluate", `{"likelihood":2,"severity":4} trailing`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.String(t, decode[map[string]string](t, w)["error"]).Contains("unexpected data after JSON body")
	})

	t.Run("second document", func(t *testing.T) {
		w := env.doRaw(t, http.MethodPost, "/api/risk/evaluate", `{"likelihood":2,"severity":4}{"likelihood":5,"severity":5}`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("trailing whitespace", func(t *testing.T) {
		w := env.doRaw(t, http.MethodPost, "/api/risk/evaluate", "{\"likelihood\":2,\"severity\":4}\n")
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, decode[map[string]any](t, w)["risk_code"]).Equal("B")
	})
}

func TestServer_HRALifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	form := env.seed(t, "")

	// derived fields sent by the client are ignored
	form["without_control"] = map[string]any{"risk_code": "C", "score": 1}

	w := env.do(t, http.MethodPost, "/api/hra", "", form)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	created := decode[map[string]any](t, w)
	without := created["without_control"].(map[string]any)
	gt.Value(t, without["risk_code"]).Equal("AA")
	gt.Value(t, without["score"]).Equal(16.0)
	with := created["with_control"].(map[string]any)
	gt.Value(t, with["risk_code"]).Equal("C")
	gt.Value(t, with["risk_tier"]).Equal("Low")

	id := int64(created["id"].(float64))
	path := "/api/hra/" + jsonNumber(id)

	w = env.do(t, http.MethodGet, path, "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/hra?sub_process_id="+jsonNumber(int64(form["sub_process_id"].(int64))), "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[[]map[string]any](t, w)).Length(1)

	w = env.do(t, http.MethodGet, "/api/hra/groups", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[[]map[string]any](t, w)).Length(1)

	form["severity_with_control"] = 0
	w = env.do(t, http.MethodPut, path, "", form)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	form["severity_with_control"] = 5
	w = env.do(t, http.MethodPut, path, "", form)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Value(t, decode[map[string]any](t, w)["with_control"].(map[string]any)["risk_code"]).Equal("B")

	form["likelihood_with_control"] = "2"
	w = env.do(t, http.MethodPut, path, "", form)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Body.String()).Contains("likelihood_with_control is not an integer")
	form["likelihood_with_control"] = 2

	w = env.do(t, http.MethodDelete, path, "", nil)
	gt.Value(t, w.Code).Equal(http.StatusNoContent)

	w = env.do(t, http.MethodGet, path, "", nil)
	gt.Value(t, w.Code).Equal(http.StatusNotFound)

	w = env.do(t, http.MethodGet, "/api/hra/abc", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestServer_Reference(t *testing.T) {
	env := newTestEnv(t, false)
	form := env.seed(t, "")

	w := env.do(t, http.MethodGet, "/api/reference", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	all := decode[map[string][]map[string]any](t, w)
	gt.Array(t, all["process"]).Length(1)
	gt.Array(t, all["operation_management"]).Length(0)

	w = env.do(t, http.MethodGet, "/api/reference/unknown", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/reference/process", "", map[string]any{"code": "P01", "name": "Mining"})
	gt.Value(t, w.Code).Equal(http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/hra", "", form)
	gt.Value(t, w.Code).Equal(http.StatusCreated)

	w = env.do(t, http.MethodDelete, "/api/reference/health_hazard/"+jsonNumber(form["health_hazard_id"].(int64)), "", nil)
	gt.Value(t, w.Code).Equal(http.StatusConflict)
}

func TestServer_Survey(t *testing.T) {
	env := newTestEnv(t, false)
	form := env.seed(t, "")

	w := env.do(t, http.MethodPost, "/api/hra", "", form)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	id := int64(decode[map[string]any](t, w)["id"].(float64))

	w = env.do(t, http.MethodGet, "/api/survey/today", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Value(t, decode[map[string]any](t, w)["submitted"]).Equal(false)

	w = env.do(t, http.MethodPost, "/api/survey", "", map[string]int64{"hra_id": id})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	gt.Array(t, decode[[]map[string]any](t, w)).Length(3)

	w = env.do(t, http.MethodPost, "/api/survey", "", map[string]int64{"hra_id": id})
	gt.Value(t, w.Code).Equal(http.StatusConflict)

	w = env.do(t, http.MethodGet, "/api/survey/personal", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[[]map[string]any](t, w)).Length(1)

	w = env.do(t, http.MethodGet, "/api/survey/personal?day=2001-01-01", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Array(t, decode[[]map[string]any](t, w)).Length(0)

	w = env.do(t, http.MethodGet, "/api/survey/personal?day=yesterday", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestServer_Auth(t *testing.T) {
	env := newTestEnv(t, true)
	admin := bearer(t, adminID)
	employee := bearer(t, employeeID)

	w := env.do(t, http.MethodGet, "/api/risk-matrix", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusUnauthorized)

	w = env.do(t, http.MethodGet, "/api/risk-matrix", "Bearer not-a-token", nil)
	gt.Value(t, w.Code).Equal(http.StatusUnauthorized)

	w = env.do(t, http.MethodGet, "/api/risk-matrix", employee, nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	form := env.seed(t, admin)

	w = env.do(t, http.MethodPost, "/api/hra", employee, form)
	gt.Value(t, w.Code).Equal(http.StatusForbidden)

	w = env.do(t, http.MethodPost, "/api/hra", admin, form)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	created := decode[map[string]any](t, w)
	gt.Value(t, created["created_by"]).Equal(adminID)

	w = env.do(t, http.MethodGet, "/api/accounts", employee, nil)
	gt.Value(t, w.Code).Equal(http.StatusForbidden)

	w = env.do(t, http.MethodGet, "/api/accounts/"+adminID, employee, nil)
	gt.Value(t, w.Code).Equal(http.StatusForbidden)

	w = env.do(t, http.MethodPost, "/api/accounts", admin, map[string]string{
		"id": employeeID, "email": "worker@example.com", "name": "Worker",
	})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	gt.Value(t, decode[map[string]any](t, w)["role"]).Equal("employee")

	w = env.do(t, http.MethodPost, "/api/accounts", admin, map[string]string{
		"id": "not-a-uuid", "email": "worker@example.com", "name": "Worker",
	})
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	w = env.do(t, http.MethodGet, "/api/accounts/"+employeeID, employee, nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
}

func multipartRequest(t *testing.T, path, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	gt.NoError(t, err).Required()
	_, err = part.Write(data)
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_UploadHRAPhoto(t *testing.T) {
	env := newTestEnv(t, false)
	form := env.seed(t, "")

	w := env.do(t, http.MethodPost, "/api/hra", "", form)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	path := "/api/hra/" + jsonNumber(int64(decode[map[string]any](t, w)["id"].(float64)))

	t.Run("hazard photo", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.srv.ServeHTTP(w, multipartRequest(t, path+"/photo/hazard", "image/jpeg", []byte("\xff\xd8\xff\xe0")))
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, decode[map[string]any](t, w)["hazard_photo_url"].(string)).Contains("memory://hra/hazard/")
	})

	t.Run("unsupported type", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.srv.ServeHTTP(w, multipartRequest(t, path+"/photo/risk", "text/plain", []byte("hello")))
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, path+"/photo/risk", strings.NewReader("plain"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		env.srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	gt.Array(t, env.store.Objects()).Length(1)
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(t, http.MethodPost, "/api/risk/evaluate", "", map[string]int{"likelihood": 3, "severity": 3})
	gt.Value(t, w.Code).Equal(http.StatusOK)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("hra_http_request_duration_seconds")
	gt.String(t, w.Body.String()).Contains(`route="/api/risk/evaluate"`)
}

func jsonNumber(v int64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
