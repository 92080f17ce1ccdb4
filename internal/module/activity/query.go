package activity

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"activity-portal/internal/global/cache"
	appctx "activity-portal/internal/global/context"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const activeKey = "active"

// ListActivities 后台查看全部活动，按日期倒序
func ListActivities(c *gin.Context) {
	list, err := scanViews(views(tracing.ContextWithSpan(c)).Order("a.date DESC, a.id DESC"))
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

// ListActive 公开的启用活动列表，走缓存
func ListActive(c *gin.Context) {
	ctx := tracing.ContextWithSpan(c)
	var list []View
	err := store.Remember(ctx, activeKey, cache.TTL(), &list, func() (any, error) {
		return scanViews(views(ctx).Where("a.active = ?", true).Order("a.date, a.id"))
	})
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

// ListAvailable 启用且仍可报名的活动
func ListAvailable(c *gin.Context) {
	ctx := tracing.ContextWithSpan(c)
	d := today()
	var list []View
	err := store.Remember(ctx, availableKey(d), cache.TTL(), &list, func() (any, error) {
		return scanViews(Filter{Bookable: &d}.apply(views(ctx)).Order("a.date, a.id"))
	})
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

func availableKey(d model.Date) string {
	return "available:" + d.String()
}

func GetActivity(c *gin.Context) {
	id, ok := appctx.ParamID(c, "id")
	if !ok {
		return
	}
	v, err := findView(tracing.ContextWithSpan(c), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, errActivityNotFound)
		return
	}
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, v)
}

// SearchActivities 后台按条件搜索
func SearchActivities(c *gin.Context) {
	var f Filter
	var err error
	if f.FromDate, f.ToDate, err = appctx.QueryDateRange(c); err != nil {
		response.Fail(c, err)
		return
	}
	if f.CategoryID, err = appctx.QueryID(c, "categoryId"); err != nil {
		response.Fail(c, err)
		return
	}
	if f.OrganizerID, err = appctx.QueryID(c, "organizerId"); err != nil {
		response.Fail(c, err)
		return
	}
	f.Title = strings.TrimSpace(c.Query("title"))
	f.Location = strings.TrimSpace(c.Query("location"))

	list, err := scanViews(f.apply(views(tracing.ContextWithSpan(c))).Order("a.date DESC, a.id DESC"))
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

// SearchPublic 只在可报名的活动中按标题和分类搜索
func SearchPublic(c *gin.Context) {
	d := today()
	f := Filter{Bookable: &d, Title: strings.TrimSpace(c.Query("title"))}
	var err error
	if f.CategoryID, err = appctx.QueryID(c, "categoryId"); err != nil {
		response.Fail(c, err)
		return
	}

	list, err := scanViews(f.apply(views(tracing.ContextWithSpan(c))).Order("a.date, a.id"))
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}

// ListByOrganizerMonth 组织者某月的活动日程
func ListByOrganizerMonth(c *gin.Context) {
	organizerID, ok := appctx.ParamID(c, "organizerId")
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Año fuera de rango válido (2000-2100)."))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Mes debe estar entre 1 y 12."))
		return
	}

	first := model.NewDate(year, time.Month(month), 1)
	last := model.DateOf(first.AddDate(0, 1, -1))
	q := views(tracing.ContextWithSpan(c)).
		Where("a.organizer_id = ? AND a.date BETWEEN ? AND ?", organizerID, first, last).
		Order("a.date, a.start_time")
	list, err := scanViews(q)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, list)
}
