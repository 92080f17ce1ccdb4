package pictureBed

import (
	"context"
	"strings"
	"testing"
	"time"

	"activity-portal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBed() *PictureBed {
	pb := New(config.S3{
		Endpoint:        "http://127.0.0.1:9000",
		Bucket:          "portal",
		Region:          "us-east-1",
		AccessKey:       "minio",
		SecretAccessKey: "minio123",
		Prefix:          "/uploads/",
		UsePathStyle:    true,
	})
	pb.now = func() time.Time { return time.Unix(0, 42) }
	return pb
}

func TestObjectKeyAndURL(t *testing.T) {
	pb := newTestBed()
	key := pb.ObjectKey("activities", "Foto.JPG")
	assert.Equal(t, "uploads/activities/42.jpg", key)
	assert.Equal(t, "http://127.0.0.1:9000/portal/uploads/activities/42.jpg", pb.FileURL(key))

	pb.UsePathStyle = false
	pb.BaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/uploads/activities/42.jpg", pb.FileURL(key))
}

func TestImageContentType(t *testing.T) {
	ct, err := ImageContentType("a.PNG")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = ImageContentType("a.exe")
	assert.Error(t, err)
}

func TestGeneratePresignedUploadURL(t *testing.T) {
	pb := newTestBed()
	resp, err := pb.GeneratePresignedUploadURL(context.Background(), PresignedUploadRequest{
		Folder:   "activities",
		Filename: "cartel.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "PUT", resp.Method)
	assert.Equal(t, "uploads/activities/42.png", resp.FileKey)
	assert.True(t, strings.HasPrefix(resp.UploadURL, "http://127.0.0.1:9000/portal/uploads/activities/42.png?"))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "image/png", resp.Headers["Content-Type"])
}

func TestDisabledBed(t *testing.T) {
	pb := New(config.S3{})
	assert.False(t, pb.Enabled())
	_, err := pb.GeneratePresignedUploadURL(context.Background(), PresignedUploadRequest{Filename: "a.png"})
	assert.Error(t, err)
}
