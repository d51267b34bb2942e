package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout は下流サービスへのリクエストのタイムアウト。
const defaultTimeout = 10 * time.Second

// Client は下流サービス通信用のHTTPクライアント。
// タイムアウト設定を持ち、リトライは行わない。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
}

// New は新しい下流サービス通信用HTTPクライアントを生成する。
// baseURLには接続先サービスのベースURL（例: "http://stats-service:8081"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// GetJSONWithAuth は指定パスにGETリクエストを送信し、JSONオブジェクトとして
// デコードしたレスポンスボディと下流のステータスコードを返す。
// authorizationには受信リクエストのAuthorizationヘッダー値をそのまま渡す。
// ネットワークエラー・タイムアウト・JSON以外のレスポンスはエラーとして返す。
func (c *Client) GetJSONWithAuth(ctx context.Context, path, authorization string) (map[string]any, int, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("下流サービスへのリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("レスポンスボディの読み取りに失敗: %w", err)
	}

	// ステータスコードによらずボディをJSONオブジェクトとしてデコードし、
	// 呼び出し元がそのままステータスを透過できるようにする
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, 0, fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}

	return result, resp.StatusCode, nil
}
