package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	kitchenhttp "github.com/onkyoh/paper-kitchen-api/internal/kitchen/http"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store/drivers/sqlite"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := token.NewCodec([]byte("test-signing-secret"), "paper-kitchen-test")
	require.NoError(t, err)

	perms := &service.Permissions{Store: st}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := kitchenhttp.NewRouter(codec, "https://paperkitchen.ca", "test", st, logger)
	router.UserService = &service.UserService{Store: st, Codec: codec}
	router.ResourceService = &service.ResourceService{Store: st, Permissions: perms}
	router.ShareService = &service.ShareService{Store: st, Codec: codec, Permissions: perms}
	router.JoinService = &service.JoinService{Store: st, Codec: codec}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// do performs a JSON request and decodes the response body into a map when
// possible, also returning the raw body for message assertions.
func do(t *testing.T, srv *httptest.Server, method, path, bearer string, body any) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func registerUser(t *testing.T, srv *httptest.Server, name, username string) (userID, bearer string) {
	t.Helper()

	resp, raw := do(t, srv, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":     name,
		"username": username,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var sess struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &sess))
	require.NotEmpty(t, sess.Token)
	return sess.User.ID, sess.Token
}

func message(t *testing.T, raw string) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body.Message
}

func TestCreateGroceryList(t *testing.T) {
	srv := newTestServer(t)
	_, bearer := registerUser(t, srv, "Alice", "alice")

	resp, raw := do(t, srv, http.MethodPost, "/api/grocery-lists", bearer, map[string]any{
		"title":       "Test GroceryList",
		"color":       "bg-red-400",
		"ingredients": []any{},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &created))
	require.Equal(t, "Test GroceryList", created["title"])
	require.Equal(t, "bg-red-400", created["color"])
	require.Equal(t, "grocery", created["type"])
	require.NotEmpty(t, created["id"])
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)
	_, bearer := registerUser(t, srv, "Alice", "alice")

	resp, raw := do(t, srv, http.MethodPost, "/api/grocery-lists", bearer, map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "title is required", message(t, raw))

	resp, raw = do(t, srv, http.MethodPost, "/api/recipes", bearer, map[string]any{
		"title": "Carbonara",
		"color": "bg-hotpink-900",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "a valid color is required", message(t, raw))
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Authentication required", message(t, raw))
}

func TestShareAndJoinFlow(t *testing.T) {
	srv := newTestServer(t)
	_, owner := registerUser(t, srv, "Alice", "alice")
	_, joiner := registerUser(t, srv, "Bob", "bob")

	resp, raw := do(t, srv, http.MethodPost, "/api/grocery-lists", owner, map[string]any{
		"title": "Weekly shop",
		"color": "bg-emerald-400",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &created))
	listID := created["id"].(string)

	resp, raw = do(t, srv, http.MethodPost, "/api/grocery-lists/"+listID+"/share", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, raw)

	var minted struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &minted))
	require.Contains(t, minted.URL, "/join/")
	code := minted.URL[strings.LastIndex(minted.URL, "/")+1:]
	require.Len(t, code, 8)

	// Preview is public.
	resp, raw = do(t, srv, http.MethodGet, "/api/join/"+code, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, raw)

	var info struct {
		Title   string `json:"title"`
		Owner   string `json:"owner"`
		CanEdit bool   `json:"canEdit"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	require.Equal(t, "Weekly shop", info.Title)
	require.Equal(t, "Alice", info.Owner)
	require.True(t, info.CanEdit)

	resp, raw = do(t, srv, http.MethodPost, "/api/join/"+code, joiner, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var joined struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &joined))
	require.Equal(t, "/grocery-lists", joined.URL)

	// Redeeming the same link again reports the existing membership.
	resp, raw = do(t, srv, http.MethodPost, "/api/join/"+code, joiner, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Already joined", message(t, raw))

	// The joined list shows up in Bob's listing.
	resp, raw = do(t, srv, http.MethodGet, "/api/grocery-lists", joiner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lists []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &lists))
	require.Len(t, lists, 1)
	require.Equal(t, listID, lists[0]["id"])
}

func TestJoinBadCode(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/api/join/deadbeef", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Link is not valid", message(t, raw))
}

func TestShareManagement(t *testing.T) {
	srv := newTestServer(t)
	_, owner := registerUser(t, srv, "Alice", "alice")
	bobID, bob := registerUser(t, srv, "Bob", "bob")

	resp, raw := do(t, srv, http.MethodPost, "/api/recipes", owner, map[string]any{
		"title": "Carbonara",
		"color": "bg-amber-400",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &created))
	recipeID := created["id"].(string)

	resp, raw = do(t, srv, http.MethodPost, "/api/recipes/"+recipeID+"/share", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, raw)

	var minted struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &minted))
	code := minted.URL[strings.LastIndex(minted.URL, "/")+1:]

	resp, _ = do(t, srv, http.MethodPost, "/api/join/"+code, bob, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Only the owner may inspect or change the share list.
	resp, raw = do(t, srv, http.MethodPut, "/api/recipes/"+recipeID+"/share", bob, map[string]any{
		"editingIds": []string{bobID},
		"canEdit":    true,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Unauthorized", message(t, raw))

	resp, raw = do(t, srv, http.MethodPut, "/api/recipes/"+recipeID+"/share", owner, map[string]any{
		"editingIds": []string{bobID},
		"canEdit":    true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Permissions updated", message(t, raw))

	resp, raw = do(t, srv, http.MethodGet, "/api/recipes/"+recipeID+"/share", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var members []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &members))
	require.Len(t, members, 1)
	require.Equal(t, bobID, members[0]["userId"])
	require.Equal(t, true, members[0]["canEdit"])

	// Bob leaves on his own.
	resp, raw = do(t, srv, http.MethodDelete, "/api/recipes/"+recipeID+"/share", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "You have been removed", message(t, raw))

	resp, raw = do(t, srv, http.MethodGet, "/api/recipes", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recipes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &recipes))
	require.Empty(t, recipes)
}

func TestUpdateAndDeleteAuthorization(t *testing.T) {
	srv := newTestServer(t)
	_, owner := registerUser(t, srv, "Alice", "alice")
	_, mallory := registerUser(t, srv, "Mallory", "mallory")

	resp, raw := do(t, srv, http.MethodPost, "/api/recipes", owner, map[string]any{
		"title": "Carbonara",
		"color": "bg-amber-400",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, raw)

	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &created))
	recipeID := created["id"].(string)

	resp, raw = do(t, srv, http.MethodPut, "/api/recipes/"+recipeID, mallory, map[string]any{
		"title": "Hijacked",
		"color": "bg-amber-400",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "You are not authorized to update this recipe", message(t, raw))

	resp, raw = do(t, srv, http.MethodDelete, "/api/recipes/"+recipeID, mallory, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "You are not authorized to delete this recipe", message(t, raw))

	resp, raw = do(t, srv, http.MethodDelete, "/api/recipes/"+recipeID, owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Successfully deleted", message(t, raw))
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Alice", "alice")

	resp, raw := do(t, srv, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": "alice",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, raw)

	resp, raw = do(t, srv, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid credentials", message(t, raw))
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, raw, `"status":"ok"`)

	resp, raw = do(t, srv, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, raw, `"database":"ok"`)
}
