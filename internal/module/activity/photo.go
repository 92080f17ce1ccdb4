package activity

import (
	"activity-portal/internal/global/pictureBed"
	"activity-portal/internal/global/response"
	"activity-portal/internal/global/sentry/tracing"
	"activity-portal/internal/global/validator"

	"github.com/gin-gonic/gin"
)

const photoFolder = "activities"

var errStorageDisabled = response.ErrStorage.WithMessage("El almacenamiento de imágenes no está configurado.")

type presignReq struct {
	Filename string `json:"filename" binding:"required,max=200"`
}

// PresignPhoto 返回前端直传 S3 的预签名地址
func PresignPhoto(c *gin.Context) {
	var req presignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage(validator.Describe(err)))
		return
	}
	if _, err := pictureBed.ImageContentType(req.Filename); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Solo se permiten imágenes jpg, png o webp."))
		return
	}
	if !bed.Enabled() {
		response.Fail(c, errStorageDisabled)
		return
	}

	resp, err := bed.GeneratePresignedUploadURL(tracing.ContextWithSpan(c), pictureBed.PresignedUploadRequest{
		Folder:   photoFolder,
		Filename: req.Filename,
	})
	if err != nil {
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	response.Success(c, resp)
}

// UploadPhoto 通过服务端上传表单中的 file
func UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Debe adjuntar una imagen en el campo 'file'."))
		return
	}
	if _, err := pictureBed.ImageContentType(file.Filename); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithMessage("Solo se permiten imágenes jpg, png o webp."))
		return
	}
	if !bed.Enabled() {
		response.Fail(c, errStorageDisabled)
		return
	}

	url, err := bed.Upload(tracing.ContextWithSpan(c), photoFolder, file)
	if err != nil {
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	log.Info("活动图片上传成功", "url", url)
	response.Success(c, gin.H{"photoUrl": url})
}
