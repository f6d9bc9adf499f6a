package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/middleware"
	"github.com/gupranay/recruitment-v11-sub000/internal/router"
	"github.com/gupranay/recruitment-v11-sub000/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerDBCounter int64

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := atomic.AddInt64(&handlerDBCounter, 1)
	dsn := fmt.Sprintf("file:handlerstest%d?mode=memory&cache=shared", n)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = gdb
	utils.GetCache().Purge()

	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("recruit_session", store))
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r)
	return r
}

// client carries the session cookies of one logged-in user.
type client struct {
	engine  *gin.Engine
	cookies []*http.Cookie
}

func (c *client) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func signup(t *testing.T, engine *gin.Engine, email string) (*client, uint) {
	t.Helper()
	c := &client{engine: engine}
	w, resp := c.do(t, http.MethodPost, "/signup", gin.H{
		"username": email,
		"email":    email,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d (%s)", email, w.Code, w.Body.String())
	}
	user := resp["user"].(map[string]interface{})
	return c, uint(user["id"].(float64))
}

func idOf(t *testing.T, resp map[string]interface{}, key string) uint {
	t.Helper()
	obj, ok := resp[key].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing %q: %v", key, resp)
	}
	return uint(obj["id"].(float64))
}

func TestDelibsVotingFlow(t *testing.T) {
	engine := setupServer(t)

	owner, _ := signup(t, engine, "owner@example.com")
	member, memberID := signup(t, engine, "member@example.com")

	// Owner bootstraps org, cycle, rounds, applicant
	w, resp := owner.do(t, http.MethodPost, "/orgs", gin.H{"name": "Acme"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create org: %d (%s)", w.Code, w.Body.String())
	}
	orgID := idOf(t, resp, "organization")

	w, _ = owner.do(t, http.MethodPost, fmt.Sprintf("/orgs/%d/members", orgID), gin.H{"user_id": memberID, "role": "member"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: %d (%s)", w.Code, w.Body.String())
	}

	w, resp = owner.do(t, http.MethodPost, fmt.Sprintf("/orgs/%d/cycles", orgID), gin.H{"name": "Fall 2026"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create cycle: %d", w.Code)
	}
	cycleID := idOf(t, resp, "cycle")

	for _, name := range []string{"Interviews", "Final Review"} {
		w, _ = owner.do(t, http.MethodPost, fmt.Sprintf("/cycles/%d/rounds", cycleID), gin.H{"name": name})
		if w.Code != http.StatusCreated {
			t.Fatalf("create round %s: %d", name, w.Code)
		}
	}

	w, resp = owner.do(t, http.MethodPost, fmt.Sprintf("/cycles/%d/applicants", cycleID), gin.H{"name": "Jordan Doe"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create applicant: %d (%s)", w.Code, w.Body.String())
	}
	arID := idOf(t, resp, "applicant_round")
	roundID := uint(resp["applicant_round"].(map[string]interface{})["recruitment_round_id"].(float64))

	// Member opens the delibs view; session is created lazily
	w, resp = member.do(t, http.MethodPost, fmt.Sprintf("/rounds/%d/delibs", roundID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get-or-create session: %d (%s)", w.Code, w.Body.String())
	}
	if resp["user_role"] != "member" {
		t.Errorf("expected user_role member, got %v", resp["user_role"])
	}
	sessionID := idOf(t, resp, "session")

	// First vote creates (201), second overwrites (200)
	w, _ = member.do(t, http.MethodPost, fmt.Sprintf("/delibs/%d/votes", sessionID), gin.H{"applicant_round_id": arID, "vote_value": 10})
	if w.Code != http.StatusCreated {
		t.Fatalf("first vote: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	w, _ = member.do(t, http.MethodPost, fmt.Sprintf("/delibs/%d/votes", sessionID), gin.H{"applicant_round_id": arID, "vote_value": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("second vote: expected 200, got %d", w.Code)
	}

	// Invalid vote value
	w, _ = member.do(t, http.MethodPost, fmt.Sprintf("/delibs/%d/votes", sessionID), gin.H{"applicant_round_id": arID, "vote_value": 3})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid value: expected 400, got %d", w.Code)
	}

	// Members cannot lock or read results
	w, _ = member.do(t, http.MethodPatch, fmt.Sprintf("/delibs/%d/status", sessionID), gin.H{"action": "lock"})
	if w.Code != http.StatusForbidden {
		t.Errorf("member lock: expected 403, got %d", w.Code)
	}
	w, _ = member.do(t, http.MethodGet, fmt.Sprintf("/delibs/%d/results", sessionID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("member results: expected 403, got %d", w.Code)
	}

	// Owner reads results
	w, resp = owner.do(t, http.MethodGet, fmt.Sprintf("/delibs/%d/results", sessionID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner results: %d (%s)", w.Code, w.Body.String())
	}
	if resp["total_members"].(float64) != 2 {
		t.Errorf("expected 2 total members, got %v", resp["total_members"])
	}

	// Owner locks; further writes are rejected for everyone
	w, _ = owner.do(t, http.MethodPatch, fmt.Sprintf("/delibs/%d/status", sessionID), gin.H{"action": "lock"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner lock: %d", w.Code)
	}
	w, _ = member.do(t, http.MethodPost, fmt.Sprintf("/delibs/%d/votes", sessionID), gin.H{"applicant_round_id": arID, "vote_value": 10})
	if w.Code != http.StatusForbidden {
		t.Errorf("vote after lock: expected 403, got %d", w.Code)
	}
	w, _ = owner.do(t, http.MethodDelete, fmt.Sprintf("/delibs/%d/votes/%d", sessionID, arID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("clear after lock: expected 403, got %d", w.Code)
	}

	// Own vote still readable under lock
	w, resp = member.do(t, http.MethodGet, fmt.Sprintf("/delibs/%d/votes/%d", sessionID, arID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my vote under lock: %d", w.Code)
	}
	if resp["vote"].(map[string]interface{})["vote_value"].(float64) != 5 {
		t.Errorf("expected own vote 5")
	}

	// Decisions are independent of the lock
	w, resp = owner.do(t, http.MethodPost, fmt.Sprintf("/applicant-rounds/%d/decision", arID), gin.H{"action": "accept"})
	if w.Code != http.StatusOK {
		t.Fatalf("decision: %d (%s)", w.Code, w.Body.String())
	}
	if resp["applicant_round"].(map[string]interface{})["status"] != "accepted" {
		t.Errorf("expected accepted status")
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	engine := setupServer(t)
	anon := &client{engine: engine}

	w, _ := anon.do(t, http.MethodPost, "/orgs", gin.H{"name": "Acme"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous org create, got %d", w.Code)
	}
	w, _ = anon.do(t, http.MethodPost, "/rounds/1/delibs", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous delibs access, got %d", w.Code)
	}
}

func TestRoundDeletionGuardOverHTTP(t *testing.T) {
	engine := setupServer(t)
	owner, _ := signup(t, engine, "owner2@example.com")

	w, resp := owner.do(t, http.MethodPost, "/orgs", gin.H{"name": "Beta"})
	orgID := idOf(t, resp, "organization")
	w, resp = owner.do(t, http.MethodPost, fmt.Sprintf("/orgs/%d/cycles", orgID), gin.H{"name": "Spring"})
	cycleID := idOf(t, resp, "cycle")
	w, resp = owner.do(t, http.MethodPost, fmt.Sprintf("/cycles/%d/rounds", cycleID), gin.H{"name": "Only Round"})
	roundID := idOf(t, resp, "round")

	w, _ = owner.do(t, http.MethodPost, fmt.Sprintf("/cycles/%d/applicants", cycleID), gin.H{"name": "Casey"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create applicant: %d", w.Code)
	}

	w, resp = owner.do(t, http.MethodDelete, fmt.Sprintf("/rounds/%d", roundID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
	if resp["code"] != "HAS_APPLICANTS_ONLY_ROUND" {
		t.Errorf("expected HAS_APPLICANTS_ONLY_ROUND, got %v", resp["code"])
	}
}
