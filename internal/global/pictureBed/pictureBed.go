package pictureBed

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"activity-portal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// 允许上传的图片类型
var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// PictureBed 活动与用户照片的 S3 兼容对象存储
type PictureBed struct {
	Endpoint        string
	BaseURL         string
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool

	s3Client *s3.Client
	now      func() time.Time
}

func New(cfg config.S3) *PictureBed {
	return &PictureBed{
		Endpoint:        cfg.Endpoint,
		BaseURL:         cfg.BaseURL,
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKey:       cfg.AccessKey,
		SecretAccessKey: cfg.SecretAccessKey,
		Prefix:          cfg.Prefix,
		UsePathStyle:    cfg.UsePathStyle,
		now:             time.Now,
	}
}

// Enabled 未配置 bucket 时上传接口不可用
func (pb *PictureBed) Enabled() bool {
	return pb != nil && pb.Bucket != ""
}

// InitS3 创建 S3 客户端，endpoint 非空时指向兼容服务
func (pb *PictureBed) InitS3(ctx context.Context) error {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(pb.region()),
	}
	if pb.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return err
	}

	pb.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	return nil
}

func (pb *PictureBed) region() string {
	if pb.Region == "" {
		return "us-east-1"
	}
	return pb.Region
}

func (pb *PictureBed) client(ctx context.Context) (*s3.Client, error) {
	if !pb.Enabled() {
		return nil, fmt.Errorf("S3 bucket 未配置")
	}
	if pb.s3Client == nil {
		if err := pb.InitS3(ctx); err != nil {
			return nil, fmt.Errorf("初始化 S3 客户端失败: %w", err)
		}
	}
	return pb.s3Client, nil
}

// Upload 直接把表单文件上传到 S3，返回访问 URL
func (pb *PictureBed) Upload(ctx context.Context, folder string, fileHeader *multipart.FileHeader) (string, error) {
	contentType, err := ImageContentType(fileHeader.Filename)
	if err != nil {
		return "", err
	}
	client, err := pb.client(ctx)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := pb.ObjectKey(folder, fileHeader.Filename)
	_, err = manager.NewUploader(client).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}
	return pb.FileURL(key), nil
}

// ObjectKey 生成 prefix/folder/时间戳.ext
func (pb *PictureBed) ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("%d%s", pb.now().UnixNano(), ext)
	key := path.Join(strings.Trim(pb.Prefix, "/"), strings.Trim(folder, "/"), name)
	return strings.TrimLeft(key, "/")
}

// FileURL 对象的公开访问地址，未配置 BaseURL 时使用 endpoint
func (pb *PictureBed) FileURL(key string) string {
	base := strings.TrimRight(pb.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}

// ImageContentType 根据扩展名返回 MIME 类型，非图片返回错误
func ImageContentType(filename string) (string, error) {
	ct, ok := imageExtensions[strings.ToLower(path.Ext(filename))]
	if !ok {
		return "", fmt.Errorf("tipo de archivo no permitido: %s", path.Ext(filename))
	}
	return ct, nil
}
