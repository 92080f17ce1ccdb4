package pictureBed

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultPresignExpiry = 15 * time.Minute

type PresignedUploadRequest struct {
	Folder    string
	Filename  string
	ExpiresIn time.Duration
}

type PresignedUploadResponse struct {
	UploadURL string            `json:"uploadUrl"`
	FileKey   string            `json:"fileKey"`
	FileURL   string            `json:"fileUrl"` // 上传成功后写回 photoUrl 的地址
	ExpiresAt time.Time         `json:"expiresAt"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// GeneratePresignedUploadURL 生成 PUT 预签名地址，前端直接上传到 S3
func (pb *PictureBed) GeneratePresignedUploadURL(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("文件名不能为空")
	}
	contentType, err := ImageContentType(req.Filename)
	if err != nil {
		return nil, err
	}
	client, err := pb.client(ctx)
	if err != nil {
		return nil, err
	}
	if req.ExpiresIn <= 0 {
		req.ExpiresIn = defaultPresignExpiry
	}

	key := pb.ObjectKey(req.Folder, req.Filename)
	presigned, err := s3.NewPresignClient(client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(req.ExpiresIn))
	if err != nil {
		return nil, fmt.Errorf("生成预签名 URL 失败: %w", err)
	}

	resp := &PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   pb.FileURL(key),
		ExpiresAt: pb.now().Add(req.ExpiresIn),
		Method:    presigned.Method,
		Headers:   map[string]string{"Content-Type": contentType},
	}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			resp.Headers[k] = v[0]
		}
	}
	return resp, nil
}
