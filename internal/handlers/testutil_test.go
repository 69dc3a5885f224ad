package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/database/testutil"
	"github.com/lofohq/lofo-server/internal/middleware"
	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/response"
)

type handlerEnv struct {
	db       *gorm.DB
	users    *services.UserService
	items    *services.ItemService
	alerts   *services.AlertService
	states   *services.AlertStateService
	matches  *services.MatchService
	catalog  *services.CatalogService
	trackers *services.TrackerRegistry
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	users, err := services.NewUserService(db)
	require.NoError(t, err)
	alerts, err := services.NewAlertService(db, nil)
	require.NoError(t, err)
	states, err := services.NewAlertStateService(db)
	require.NoError(t, err)
	matches, err := services.NewMatchService(db, 0)
	require.NoError(t, err)
	catalog, err := services.NewCatalogService(db)
	require.NoError(t, err)
	items, err := services.NewItemService(db, alerts, matches, catalog, nil, true)
	require.NoError(t, err)

	return &handlerEnv{
		db:       db,
		users:    users,
		items:    items,
		alerts:   alerts,
		states:   states,
		matches:  matches,
		catalog:  catalog,
		trackers: services.NewTrackerRegistry("LOFO Alert", nil),
	}
}

// identityAs substitutes the JWT middleware in handler tests.
func identityAs(userID string, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, userID)
		c.Set(middleware.CtxIsAdminKey, admin)
		c.Next()
	}
}

func jsonBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var payload response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}
