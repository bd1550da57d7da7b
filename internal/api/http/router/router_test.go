package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault-server/internal/filecrypt"
	"github.com/filevault/filevault-server/internal/mocks"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/password"
	"github.com/filevault/filevault-server/internal/service"
	"github.com/filevault/filevault-server/internal/testutil"
	"github.com/filevault/filevault-server/internal/token"
)

type routerFixture struct {
	engine     *gin.Engine
	userStore  *mocks.UserStore
	auditStore *mocks.AuditLogStore
	storage    *mocks.Storage
	tokens     model.TokenManager
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userStore := &mocks.UserStore{}
	auditStore := &mocks.AuditLogStore{}
	storage := &mocks.Storage{}
	tokens := token.NewJWT("router-test-secret")
	log := testutil.MakeNoopLogger()

	cipher := filecrypt.NewCipher("router-test-secret")

	auditService := service.NewAudit(auditStore, log)
	authService := service.NewAuth(userStore, password.NewHasher(), tokens, auditService, log)
	fileService := service.NewFile(storage, cipher, auditService, log, 1024)

	r := New(authService, fileService, auditService, tokens, log,
		[]string{"http://localhost:3000"}, 1024)

	return &routerFixture{
		engine:     r.Register(),
		userStore:  userStore,
		auditStore: auditStore,
		storage:    storage,
		tokens:     tokens,
	}
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/api/files", "/api/logs", "/api/files/download/report.pdf"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := f.do(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", nil)
	assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
}

func TestRouter_LoginThenListFlow(t *testing.T) {
	f := newRouterFixture(t)

	hash, err := password.Hash("correct-password")
	require.NoError(t, err)

	user := model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: hash}
	f.userStore.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	f.userStore.On("Update", mock.Anything, mock.Anything).Return(user, nil)
	f.auditStore.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.storage.On("List", mock.Anything).Return([]string{}, nil)

	payload, err := json.Marshal(gin.H{"email": "a@b.c", "password": "correct-password"})
	require.NoError(t, err)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp := f.do(loginReq)
	require.Equal(t, http.StatusOK, loginResp.Code)

	cookies := loginResp.Result().Cookies()
	require.Len(t, cookies, 1)

	// Session cookie alone authorizes subsequent requests.
	listReq := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	listReq.AddCookie(cookies[0])
	listResp := f.do(listReq)
	assert.Equal(t, http.StatusOK, listResp.Code)

	// The bearer header path works with the token from the body.
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginResp.Body.Bytes(), &session))

	f.auditStore.On("GetByUserID", mock.Anything, user.ID).Return([]model.AuditLog{}, nil)
	logsReq := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	logsReq.Header.Set("Authorization", "Bearer "+session.Token)
	logsResp := f.do(logsReq)
	assert.Equal(t, http.StatusOK, logsResp.Code)
}

func TestRouter_RegisterValidatesPayload(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(`{"email":"bad"}`)))
	req.Header.Set("Content-Type", "application/json")

	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := f.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_UnknownOriginRejected(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := f.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
