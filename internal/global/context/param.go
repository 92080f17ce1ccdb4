package context

import (
	"strconv"

	"activity-portal/internal/global/response"
	"activity-portal/internal/model"

	"github.com/gin-gonic/gin"
)

// MustActor 未登录时写入 401 并返回 false
func MustActor(c *gin.Context) (Actor, bool) {
	actor, ok := GetActor(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
	}
	return actor, ok
}

// ParamID 解析路径中的正整数 id，失败时写入 400
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips(name+" inválido"))
		return 0, false
	}
	return uint(id), true
}

// QueryID 解析可选的查询参数 id，参数为空时返回 nil
func QueryID(c *gin.Context, name string) (*uint, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(name + " inválido")
	}
	id := uint(v)
	return &id, nil
}

// QueryDateRange 解析可选的 fromDate / toDate，结束日期不能早于开始日期
func QueryDateRange(c *gin.Context) (from, to *model.Date, err error) {
	if from, err = queryDate(c, "fromDate"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "toDate"); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, response.ErrInvalidRequest.WithMessage("La fecha final no puede ser menor que la fecha inicial.")
	}
	return from, to, nil
}

func queryDate(c *gin.Context, name string) (*model.Date, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, response.ErrInvalidRequest.WithTips(name + " inválido")
	}
	return &d, nil
}
