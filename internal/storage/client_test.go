package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsCumulativeBytes(t *testing.T) {
	data := bytes.Repeat([]byte("v"), 10)
	var reports [][2]int64
	pr := &progressReader{
		r:     bytes.NewReader(data),
		total: int64(len(data)),
		fn: func(sent, total int64) {
			reports = append(reports, [2]int64{sent, total})
		},
	}

	buf := make([]byte, 4)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, [][2]int64{{4, 10}, {8, 10}, {10, 10}}, reports)
}

func TestClient_PublicURL(t *testing.T) {
	c := &Client{bucket: "videos", endpoint: "https://storage.yandexcloud.net"}
	assert.Equal(t, "https://videos.storage.yandexcloud.net/videos/u1/clip.mp4", c.PublicURL("videos/u1/clip.mp4"))

	c = &Client{bucket: "videos", endpoint: "http://minio.local:9000"}
	assert.Equal(t, "https://videos.minio.local:9000/a.mp4", c.PublicURL("/a.mp4"))
}
