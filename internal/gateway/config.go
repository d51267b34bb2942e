package gateway

import (
	"log"
	"os"
	"strings"
	"time"
)

// defaultTokenExpiry はJWTトークンのデフォルト有効期間。
const defaultTokenExpiry = time.Hour

// Config はGatewayサービスの設定。
// プロセス起動時に一度だけ構築し、以降は変更しない。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string
	// StatsServiceURL は下流の統計サービスのベースURL。
	StatsServiceURL string
	// TokenExpiry はJWTトークンの有効期間。
	TokenExpiry time.Duration
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// LoadConfig は環境変数からConfigを構築する。
// 未設定の項目には開発用のデフォルト値を使用する。
func LoadConfig() Config {
	expiry := defaultTokenExpiry
	if v := os.Getenv("TOKEN_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("TOKEN_EXPIRYの解析に失敗したためデフォルト値を使用します: %v", err)
		} else {
			expiry = d
		}
	}

	var origins []string
	for _, o := range strings.Split(getEnvOr("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:            getEnvOr("PORT", "8080"),
		JWTSecret:       getEnvOr("JWT_SECRET", "dev-secret-key"),
		DBPath:          getEnvOr("SQLITE_DB_PATH", "gateway.db"),
		StatsServiceURL: getEnvOr("STATS_SERVICE_URL", "http://localhost:8081"),
		TokenExpiry:     expiry,
		AllowedOrigins:  origins,
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
