package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Keoroanthony/go-customers/internal/auth"
	"github.com/Keoroanthony/go-customers/internal/db"
	"github.com/Keoroanthony/go-customers/internal/handlers"
	"github.com/Keoroanthony/go-customers/internal/logging"
	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
)

type recordingNotifier struct {
	mu        sync.Mutex
	welcomed  []string
	passwords map[string]string
	changed   []string
	err       error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{passwords: map[string]string{}}
}

func (n *recordingNotifier) Welcome(_ context.Context, c *models.Customer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, c.Email)
	return n.err
}

func (n *recordingNotifier) TemporaryPassword(_ context.Context, c *models.Customer, password string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.passwords[c.Email] = password
	return n.err
}

func (n *recordingNotifier) PasswordChanged(_ context.Context, c *models.Customer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, c.Email)
	return n.err
}

type testEnv struct {
	db       *gorm.DB
	store    *store.GormCustomerStore
	hasher   auth.Hasher
	notifier *recordingNotifier
	deps     handlers.Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Each test gets its own named in-memory database shared by the pool.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to connect test database")
	require.NoError(t, db.Migrate(testDB), "failed to auto-migrate models")

	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	customers := store.NewGormCustomerStore(testDB)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	notifier := newRecordingNotifier()

	return &testEnv{
		db:       testDB,
		store:    customers,
		hasher:   hasher,
		notifier: notifier,
		deps: handlers.Deps{
			Store:    customers,
			Hasher:   hasher,
			Notifier: notifier,
			Log:      logging.Discard(),
		},
	}
}

// seedCustomer stores a customer with the given cleartext password.
func (e *testEnv) seedCustomer(t *testing.T, email, password string) *models.Customer {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	c := models.NewCustomer(email, hash)
	require.NoError(t, e.store.Create(context.Background(), c))
	return c
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		reqBody, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withBasicAuth(req *http.Request, username, password string) *http.Request {
	req.SetBasicAuth(username, password)
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func fieldErrors(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "expected an errors object, got %v", body)
	return errs
}
