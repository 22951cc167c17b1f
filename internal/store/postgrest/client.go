// Пакет postgrest — HTTP-клиент к REST-интерфейсу Supabase (PostgREST).
// Реализует store.Table поверх {URL}/rest/v1/{table}: выборка с сортировкой
// по created_at, вставка, обновление и удаление по фильтру id=eq.{id}.
// Авторизация — публичный anon key в заголовках apikey и Authorization.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// restPrefix — путь REST API внутри проекта Supabase.
const restPrefix = "/rest/v1/"

// Client — HTTP-клиент к PostgREST.
type Client struct {
	baseURL string // Базовый URL проекта (без trailing slash)
	apiKey  string // Публичный anon key

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент PostgREST.
// baseURL — URL проекта Supabase (например, https://xyz.supabase.co).
// apiKey — anon key проекта.
// httpClient — HTTP-клиент (nil — клиент без таймаута: зависший запрос
// не прерывается, как и в браузерном клиенте).
func New(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "postgrest_client")),
	}
}

// BaseURL возвращает базовый URL проекта.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// tableURL формирует URL таблицы с query-параметрами.
func (c *Client) tableURL(table string, query url.Values) string {
	u := c.baseURL + restPrefix + url.PathEscape(table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do выполняет запрос к REST API. body сериализуется в JSON, если не nil.
// Ответ с кодом вне 2xx преобразуется в *APIError.
func (c *Client) do(ctx context.Context, method, reqURL string, body any, target any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация тела запроса: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Возвращать затронутые строки — по ним определяется «не найдено»
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("PostgREST запрос",
		slog.String("method", method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("декодирование ответа PostgREST: %w", err)
	}
	return nil
}

// Ping проверяет доступность REST API (корень /rest/v1/ с ключом).
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+restPrefix, nil)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("PostgREST недоступен: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("PostgREST вернул статус %d", resp.StatusCode)
	}
	return nil
}
