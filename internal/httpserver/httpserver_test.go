package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	authmw "github.com/avanti-store/catalog-backend/internal/middleware/auth"
	"github.com/avanti-store/catalog-backend/internal/models"
	"github.com/avanti-store/catalog-backend/internal/service"
	"github.com/avanti-store/catalog-backend/internal/session"
	"github.com/avanti-store/catalog-backend/internal/store"
	"github.com/avanti-store/catalog-backend/internal/upload"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	Sessions  *session.Manager
	Users     *store.Collection[models.User]
	Products  *store.Collection[models.Product]
	UploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "static")
	uploadDir := filepath.Join(staticDir, "uploads")

	users := store.NewCollection[models.User](filepath.Join(dir, "user.json"))
	products := store.NewCollection[models.Product](filepath.Join(dir, "products.json"))
	sessions := session.NewManager(session.NewMemoryStore(), 30*time.Minute)
	guard := &authmw.Guard{Sessions: sessions}

	e := echo.New()
	e.Use(guard.LoadSession)

	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc:      &service.AuthService{Users: users, Secret: "root"},
			Sessions: sessions,
		},
		ProductHandler: &ProductHTTP{
			Svc:     &service.CatalogService{Products: products},
			Uploads: upload.NewSaver(uploadDir, "/static/uploads"),
		},
		Guard:     guard,
		StaticDir: staticDir,
	})

	return &testEnv{
		T:         t,
		E:         e,
		Sessions:  sessions,
		Users:     users,
		Products:  products,
		UploadDir: uploadDir,
	}
}

func (env *testEnv) doJSON(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doForm(method, path string, fields map[string]string, fileName string, fileContent []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("img_file", fileName)
		require.NoError(env.T, err)
		_, err = fw.Write(fileContent)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (env *testEnv) loginAdmin(t *testing.T) *http.Cookie {
	t.Helper()

	creds := map[string]string{"username": "admin", "password": "hunter2", "secret_key": "root"}
	rec := env.doJSON(http.MethodPost, "/api/register", creds)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/login", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	return sessionCookie(t, rec)
}
