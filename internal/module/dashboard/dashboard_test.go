package dashboard

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"activity-portal/internal/global/database"
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"
	"activity-portal/test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, string) {
	t.Helper()
	test.UseTestConfig()
	log = slog.New(slog.NewTextHandler(io.Discard, nil))
	store = nil

	db, mock := test.NewMockDB(t)
	database.DB = db

	r := test.NewEngine()
	(&ModuleDashboard{}).InitRouter(r.Group("/api"))

	tk, err := jwt.CreateToken(jwt.Payload{UserID: 1, Role: jwt.RoleAdmin})
	require.NoError(t, err)
	return r, mock, tk
}

func TestTotals(t *testing.T) {
	r, mock, tk := setup(t)
	mock.ExpectQuery("(?s)SELECT .*total_activities.*total_ratings").
		WillReturnRows(sqlmock.NewRows([]string{
			"total_activities", "total_categories", "total_enrollments", "total_students",
			"total_organizers", "total_users", "total_ratings",
		}).AddRow(12, 4, 40, 30, 5, 36, 9))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/dashboard/totals", Token: tk})
	assert.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]any)
	assert.EqualValues(t, 12, data["totalActivities"])
	assert.EqualValues(t, 9, data["totalRatings"])
}

func TestTopRatings(t *testing.T) {
	r, mock, tk := setup(t)
	mock.ExpectQuery("(?s)AVG\\(r.stars\\) AS avg_rating.*LIMIT \\?").
		WithArgs(topRatingsLimit).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "activity_title", "avg_rating", "total_ratings"}).
			AddRow(3, "Taller de Robótica", 4.5, 2))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/dashboard/top-ratings", Token: tk})
	assert.Equal(t, http.StatusOK, code)
	items := body.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, 4.5, items[0].(map[string]any)["avgRating"])
}

func TestActivitiesByCategoryEmpty(t *testing.T) {
	r, mock, tk := setup(t)
	mock.ExpectQuery("GROUP BY c.id, c.name").
		WillReturnRows(sqlmock.NewRows([]string{"category_name", "total_activities"}))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/dashboard/activities-by-category", Token: tk})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body.Data)
}

func TestDashboardRequiresAdmin(t *testing.T) {
	r, _, _ := setup(t)
	tk, err := jwt.CreateToken(jwt.Payload{UserID: 7, Role: jwt.RoleStudent})
	require.NoError(t, err)

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/dashboard/totals", Token: tk})
	assert.Equal(t, http.StatusForbidden, code)
	test.ErrorEqual(t, response.ErrForbidden, body)
}
