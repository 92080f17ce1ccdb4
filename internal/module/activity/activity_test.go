package activity

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/jwt"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/validator"
	"activity-portal/test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewColumns = []string{
	"id", "title", "category_id", "organizer_id", "date", "registration_deadline",
	"start_time", "end_time", "location", "capacity", "description", "photo_url", "active",
	"category_name", "organizer_name",
}

func setup(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	test.UseTestConfig()
	validator.Init()
	log = slog.New(slog.NewTextHandler(io.Discard, nil))
	store = nil
	bed = nil
	now = func() time.Time { return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = time.Now })

	db, mock := test.NewMockDB(t)
	database.DB = db

	r := test.NewEngine()
	(&ModuleActivity{}).InitRouter(r.Group("/api"))
	return r, mock
}

func token(t *testing.T, id uint, role string) string {
	tk, err := jwt.CreateToken(jwt.Payload{UserID: id, Role: role})
	require.NoError(t, err)
	return tk
}

func validBody() map[string]any {
	return map[string]any{
		"title":                "Taller de Robótica",
		"categoryId":           2,
		"organizerId":          50,
		"date":                 "2025-06-10",
		"registrationDeadline": "2025-06-05",
		"timeRange":            "08:00 - 10:00",
		"location":             "Aula 5",
		"capacity":             30,
		"description":          "Introducción a la robótica educativa",
	}
}

func TestGetActivity(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("(?s)SELECT a.\\*, c.name AS category_name, u.name AS organizer_name FROM activity AS a JOIN category AS c .* WHERE a.id = \\?").
		WillReturnRows(sqlmock.NewRows(viewColumns).
			AddRow(3, "Taller de Robótica", 2, 50, "2025-06-10", "2025-06-05", "08:00", "10:00", "Aula 5", 30, nil, nil, true, "Tecnología", "María López"))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/Activities/3"})
	assert.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]any)
	assert.Equal(t, "08:00 - 10:00", data["timeRange"])
	assert.Equal(t, "Tecnología", data["categoryName"])
	assert.Equal(t, "María López", data["organizerName"])
	assert.Equal(t, "2025-06-05", data["registrationDeadline"])
}

func TestGetActivityMissing(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("SELECT a.\\*").WillReturnRows(sqlmock.NewRows(viewColumns))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/Activities/9"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Actividad no encontrada.", body.Msg)
}

func TestListAvailableUsesToday(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("(?s)WHERE a.active = \\? AND a.registration_deadline >= \\? ORDER BY a.date, a.id").
		WithArgs(true, "2025-06-01").
		WillReturnRows(sqlmock.NewRows(viewColumns))

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/Activities/available"})
	assert.Equal(t, http.StatusOK, code)
	test.NoError(t, body)
}

func TestCreateActivity(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `category` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `organizer` WHERE user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `activity`").WillReturnResult(sqlmock.NewResult(3, 1))

	code, body := test.DoRequest(t, r, test.Request{
		Method: http.MethodPost,
		Path:   "/api/Activities",
		Body:   validBody(),
		Token:  token(t, 50, jwt.RoleOrganizer),
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Actividad creada correctamente", body.Msg)
	data := body.Data.(map[string]any)
	assert.Equal(t, "08:00", data["startTime"])
	assert.Equal(t, "10:00", data["endTime"])
	assert.Equal(t, true, data["active"])
}

func TestCreateActivityRejected(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
		token  func(t *testing.T) string
		code   int
		msg    string
	}{
		{
			name:   "deadline after date",
			mutate: func(b map[string]any) { b["registrationDeadline"] = "2025-06-11" },
			code:   http.StatusBadRequest,
			msg:    "La fecha límite de inscripción no puede ser posterior a la fecha de la actividad.",
		},
		{
			name:   "capacity below range",
			mutate: func(b map[string]any) { b["capacity"] = 5 },
			code:   http.StatusBadRequest,
		},
		{
			name:   "end before start",
			mutate: func(b map[string]any) { b["timeRange"] = "10:00 - 08:00" },
			code:   http.StatusBadRequest,
		},
		{
			name:   "missing date",
			mutate: func(b map[string]any) { delete(b, "date") },
			code:   http.StatusBadRequest,
			msg:    "La fecha y la fecha límite de inscripción son requeridas.",
		},
		{
			name:   "other organizer",
			mutate: func(b map[string]any) {},
			token:  func(t *testing.T) string { return token(t, 51, jwt.RoleOrganizer) },
			code:   http.StatusForbidden,
			msg:    response.ErrForbidden.Message,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := setup(t)
			b := validBody()
			tc.mutate(b)
			tk := token(t, 1, jwt.RoleAdmin)
			if tc.token != nil {
				tk = tc.token(t)
			}
			code, body := test.DoRequest(t, r, test.Request{Method: http.MethodPost, Path: "/api/Activities", Body: b, Token: tk})
			assert.Equal(t, tc.code, code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, body.Msg)
			}
		})
	}
}

func TestCreateActivityUnknownCategory(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `category`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	code, body := test.DoRequest(t, r, test.Request{
		Method: http.MethodPost,
		Path:   "/api/Activities",
		Body:   validBody(),
		Token:  token(t, 1, jwt.RoleAdmin),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "La categoría seleccionada no existe.", body.Msg)
}

func TestDeactivateOthersActivity(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectQuery("SELECT \\* FROM `activity` WHERE `activity`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "organizer_id"}).AddRow(3, "Taller", 50))

	code, body := test.DoRequest(t, r, test.Request{
		Method: http.MethodPut,
		Path:   "/api/Activities/deactivate/3",
		Token:  token(t, 51, jwt.RoleOrganizer),
	})
	assert.Equal(t, http.StatusForbidden, code)
	test.ErrorEqual(t, response.ErrForbidden, body)
}

func TestListByOrganizerMonth(t *testing.T) {
	r, mock := setup(t)
	tk := token(t, 1, jwt.RoleAdmin)

	code, body := test.DoRequest(t, r, test.Request{Path: "/api/Activities/organizer/50/month/1999/5", Token: tk})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Año fuera de rango válido (2000-2100).", body.Msg)

	code, body = test.DoRequest(t, r, test.Request{Path: "/api/Activities/organizer/50/month/2025/13", Token: tk})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Mes debe estar entre 1 y 12.", body.Msg)

	mock.ExpectQuery("(?s)WHERE a.organizer_id = \\? AND a.date BETWEEN \\? AND \\? ORDER BY a.date, a.start_time").
		WithArgs(sqlmock.AnyArg(), "2025-02-01", "2025-02-28").
		WillReturnRows(sqlmock.NewRows(viewColumns))
	code, body = test.DoRequest(t, r, test.Request{Path: "/api/Activities/organizer/50/month/2025/2", Token: tk})
	assert.Equal(t, http.StatusOK, code)
	test.NoError(t, body)
}

func TestSearchActivitiesDateRange(t *testing.T) {
	r, _ := setup(t)

	code, body := test.DoRequest(t, r, test.Request{
		Path:  "/api/Activities/search?fromDate=2025-06-30&toDate=2025-06-01",
		Token: token(t, 1, jwt.RoleAdmin),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "La fecha final no puede ser menor que la fecha inicial.", body.Msg)
}

func TestPresignPhoto(t *testing.T) {
	r, _ := setup(t)
	tk := token(t, 1, jwt.RoleAdmin)

	code, _ := test.DoRequest(t, r, test.Request{
		Method: http.MethodPost,
		Path:   "/api/Activities/photo/presign",
		Body:   map[string]any{"filename": "cartel.pdf"},
		Token:  tk,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := test.DoRequest(t, r, test.Request{
		Method: http.MethodPost,
		Path:   "/api/Activities/photo/presign",
		Body:   map[string]any{"filename": "cartel.png"},
		Token:  tk,
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	test.ErrorCode(t, response.ErrStorage, body)
}

func TestManages(t *testing.T) {
	assert.True(t, manages(appctx.Actor{UserID: 1, Role: jwt.RoleAdmin}, 50))
	assert.True(t, manages(appctx.Actor{UserID: 50, Role: jwt.RoleOrganizer}, 50))
	assert.False(t, manages(appctx.Actor{UserID: 51, Role: jwt.RoleOrganizer}, 50))
	assert.False(t, manages(appctx.Actor{UserID: 50, Role: jwt.RoleStudent}, 50))
}
