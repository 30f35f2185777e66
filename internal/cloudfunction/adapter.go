package cloudfunction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lumiforge/vidlinkgen-backend/internal/bootstrap"
)

// CloudFunctionRequest структура запроса от API Gateway
type CloudFunctionRequest struct {
	HTTPMethod        string            `json:"httpMethod"`
	Headers           map[string]string `json:"headers"`
	Path              string            `json:"path"`
	QueryStringParams map[string]string `json:"queryStringParameters"`
	Body              string            `json:"body"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
}

// CloudFunctionResponse структура ответа для API Gateway
type CloudFunctionResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

var (
	mu  sync.Mutex
	app *bootstrap.App
)

// getApp инициализирует приложение при холодном старте. Ошибка не кэшируется,
// следующий вызов повторит попытку.
func getApp(ctx context.Context) (*bootstrap.App, error) {
	mu.Lock()
	defer mu.Unlock()
	if app != nil {
		return app, nil
	}
	a, err := bootstrap.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	app = a
	slog.Info("Cloud Function initialized successfully")
	return app, nil
}

// Handler - главная функция для Cloud Function
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	a, err := getApp(ctx)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		return respondError(http.StatusInternalServerError, "Failed to initialize")
	}
	return Serve(ctx, a.Router, request)
}

// TimerHandler запускается триггером по расписанию и выполняет одну проверку сроков премиума
func TimerHandler(ctx context.Context, _ []byte) ([]byte, error) {
	a, err := getApp(ctx)
	if err != nil {
		return nil, err
	}
	a.Worker.CheckOnce(ctx)
	return []byte(`{"status":"ok"}`), nil
}

// Serve прогоняет запрос API Gateway через роутер
func Serve(ctx context.Context, router http.Handler, request []byte) ([]byte, error) {
	var cfReq CloudFunctionRequest
	if err := json.Unmarshal(request, &cfReq); err != nil {
		slog.Error("Failed to parse request", "error", err)
		return respondError(http.StatusBadRequest, "Invalid request format")
	}

	slog.Info("Processing request",
		"method", cfReq.HTTPMethod,
		"path", cfReq.Path,
	)

	httpReq, err := buildHTTPRequest(ctx, &cfReq)
	if err != nil {
		slog.Error("Failed to build HTTP request", "error", err)
		return respondError(http.StatusBadRequest, "Failed to build request")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httpReq)

	return buildCloudFunctionResponse(rr), nil
}

// buildHTTPRequest - создание HTTP запроса из Cloud Function request
func buildHTTPRequest(ctx context.Context, cfReq *CloudFunctionRequest) (*http.Request, error) {
	var body []byte
	if cfReq.Body != "" {
		if cfReq.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(cfReq.Body)
			if err != nil {
				return nil, err
			}
			body = decoded
		} else {
			body = []byte(cfReq.Body)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cfReq.HTTPMethod, cfReq.Path, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range cfReq.Headers {
		req.Header.Set(key, value)
	}

	if len(cfReq.QueryStringParams) > 0 {
		q := req.URL.Query()
		for key, value := range cfReq.QueryStringParams {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// buildCloudFunctionResponse - создание Cloud Function response из HTTP response
func buildCloudFunctionResponse(rr *httptest.ResponseRecorder) []byte {
	headers := make(map[string]string)
	for key, values := range rr.Header() {
		if len(values) > 0 {
			headers[key] = strings.Join(values, ", ")
		}
	}

	response := CloudFunctionResponse{
		StatusCode: rr.Code,
		Headers:    headers,
	}

	// Бинарные ответы кодируются в base64
	raw := rr.Body.Bytes()
	if utf8.Valid(raw) {
		response.Body = string(raw)
	} else {
		response.Body = base64.StdEncoding.EncodeToString(raw)
		response.IsBase64Encoded = true
	}

	respData, _ := json.Marshal(response)
	return respData
}

// respondError - вспомогательная функция для ответа об ошибке
func respondError(statusCode int, message string) ([]byte, error) {
	body, _ := json.Marshal(map[string]any{
		"error":   http.StatusText(statusCode),
		"message": message,
		"code":    statusCode,
	})

	response := CloudFunctionResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}

	return json.Marshal(response)
}
