package cloudfunction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Path", r.URL.Path)
		w.Header().Set("X-Query", r.URL.Query().Get("days"))
		w.Header().Set("X-Auth", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(body)
	})
}

func decodeResponse(t *testing.T, raw []byte) CloudFunctionResponse {
	t.Helper()
	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func TestServe_ForwardsRequest(t *testing.T) {
	req, _ := json.Marshal(CloudFunctionRequest{
		HTTPMethod:        "POST",
		Path:              "/v/abcDEF12",
		Headers:           map[string]string{"Authorization": "Bearer token"},
		QueryStringParams: map[string]string{"days": "7"},
		Body:              `{"password":"secret"}`,
	})

	raw, err := Serve(context.Background(), echoHandler(), req)
	require.NoError(t, err)

	resp := decodeResponse(t, raw)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "/v/abcDEF12", resp.Headers["X-Path"])
	assert.Equal(t, "7", resp.Headers["X-Query"])
	assert.Equal(t, "Bearer token", resp.Headers["X-Auth"])
	assert.Equal(t, `{"password":"secret"}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
}

func TestServe_DecodesBase64Body(t *testing.T) {
	payload := []byte("--boundary\r\nvideo bytes\r\n")
	req, _ := json.Marshal(CloudFunctionRequest{
		HTTPMethod:      "POST",
		Path:            "/api/v1/links/upload",
		Body:            base64.StdEncoding.EncodeToString(payload),
		IsBase64Encoded: true,
	})

	raw, err := Serve(context.Background(), echoHandler(), req)
	require.NoError(t, err)

	resp := decodeResponse(t, raw)
	assert.Equal(t, string(payload), resp.Body)
}

func TestServe_BinaryResponseIsBase64(t *testing.T) {
	binary := []byte{0xff, 0xfe, 0x00, 0x01}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(binary)
	})
	req, _ := json.Marshal(CloudFunctionRequest{HTTPMethod: "GET", Path: "/"})

	raw, err := Serve(context.Background(), handler, req)
	require.NoError(t, err)

	resp := decodeResponse(t, raw)
	assert.True(t, resp.IsBase64Encoded)
	decoded, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, binary, decoded)
}

func TestServe_InvalidJSON(t *testing.T) {
	raw, err := Serve(context.Background(), echoHandler(), []byte("{not json"))
	require.NoError(t, err)

	resp := decodeResponse(t, raw)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "Invalid request format")
}

func TestServe_InvalidBase64(t *testing.T) {
	req, _ := json.Marshal(CloudFunctionRequest{HTTPMethod: "POST", Path: "/", Body: "%%%", IsBase64Encoded: true})

	raw, err := Serve(context.Background(), echoHandler(), req)
	require.NoError(t, err)

	resp := decodeResponse(t, raw)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
