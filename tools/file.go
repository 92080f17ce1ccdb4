package tools

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SendAttachment 以附件形式返回内存中的文件
func SendAttachment(c *gin.Context, buf *bytes.Buffer, displayName, contentType string) {
	escaped := url.QueryEscape(displayName)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.Data(200, contentType, buf.Bytes())
}
