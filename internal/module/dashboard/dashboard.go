package dashboard

import (
	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"

	"github.com/gin-gonic/gin"
)

const topRatingsLimit = 5

type totals struct {
	TotalActivities  int64 `json:"totalActivities"`
	TotalCategories  int64 `json:"totalCategories"`
	TotalEnrollments int64 `json:"totalEnrollments"`
	TotalStudents    int64 `json:"totalStudents"`
	TotalOrganizers  int64 `json:"totalOrganizers"`
	TotalUsers       int64 `json:"totalUsers"`
	TotalRatings     int64 `json:"totalRatings"`
}

type categoryCount struct {
	CategoryName    string `json:"categoryName"`
	TotalActivities int64  `json:"totalActivities"`
}

type topRating struct {
	ActivityID    uint    `json:"activityId"`
	ActivityTitle string  `json:"activityTitle"`
	AvgRating     float64 `json:"avgRating"`
	TotalRatings  int64   `json:"totalRatings"`
}

// Totals 各表记录数，结果短时缓存
func Totals(c *gin.Context) {
	ctx := tracing.ContextWithSpan(c)
	var result totals
	err := store.Remember(ctx, "totals", cache.TTL(), &result, func() (any, error) {
		var t totals
		err := database.DB.WithContext(ctx).Raw(totalsSql).Scan(&t).Error
		return t, err
	})
	if err != nil {
		log.Error("统计总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, result)
}

func ActivitiesByCategory(c *gin.Context) {
	result := []categoryCount{}
	if err := database.DB.WithContext(tracing.ContextWithSpan(c)).Raw(byCategorySql).Scan(&result).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, result)
}

// TopRatings 平均星级最高的活动
func TopRatings(c *gin.Context) {
	result := []topRating{}
	if err := database.DB.WithContext(tracing.ContextWithSpan(c)).Raw(topRatingsSql, topRatingsLimit).Scan(&result).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, result)
}
