package catalog

import (
	"activity-portal/internal/global/cache"
	"activity-portal/internal/global/database"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
)

const facultiesKey = "faculties"

type CareerItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type FacultyItem struct {
	ID      uint         `json:"id"`
	Name    string       `json:"name"`
	Careers []CareerItem `json:"careers"`
}

// ListFaculties 公开接口，学院及其专业，结果放入缓存
func ListFaculties(c *gin.Context) {
	ctx := tracing.ContextWithSpan(c)
	var items []FacultyItem
	err := store.Remember(ctx, facultiesKey, cache.TTL(), &items, func() (any, error) {
		return loadFaculties(c)
	})
	if err != nil {
		log.Error("查询学院失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, items)
}

func loadFaculties(c *gin.Context) ([]FacultyItem, error) {
	db := database.DB.WithContext(tracing.ContextWithSpan(c))

	var faculties []model.Faculty
	if err := db.Order("id").Find(&faculties).Error; err != nil {
		return nil, err
	}
	var careers []model.Career
	if err := db.Order("id").Find(&careers).Error; err != nil {
		return nil, err
	}

	byFaculty := make(map[uint][]CareerItem, len(faculties))
	for _, career := range careers {
		byFaculty[career.FacultyID] = append(byFaculty[career.FacultyID], CareerItem{ID: career.ID, Name: career.Name})
	}
	items := make([]FacultyItem, len(faculties))
	for i, f := range faculties {
		items[i] = FacultyItem{ID: f.ID, Name: f.Name, Careers: byFaculty[f.ID]}
		if items[i].Careers == nil {
			items[i].Careers = []CareerItem{}
		}
	}
	return items, nil
}
