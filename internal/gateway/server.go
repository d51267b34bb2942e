package gateway

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	gatewaydb "github.com/ghstats/gateway/internal/gateway/db"
	"github.com/ghstats/gateway/pkg/httpclient"
	"github.com/ghstats/gateway/pkg/middleware"
	"github.com/ghstats/gateway/pkg/migration"
	"github.com/ghstats/gateway/pkg/password"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// statsPath は下流の統計サービスのエンドポイントパス。
const statsPath = "/github/stats"

// msgInvalidCredentials は認証失敗時のエラーメッセージ。
// ユーザー不在とパスワード不一致で同一の文言を返し、ユーザーの存在を漏らさない。
const msgInvalidCredentials = "ユーザー名またはパスワードが正しくありません"

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサービスの設定。
	cfg Config
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *gatewaydb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// hasher はパスワードのハッシュ化と照合を行う。
	hasher password.Hasher
	// dummyHash はユーザー不在時のタイミング攻撃対策用ダミーハッシュ。
	dummyHash []byte
	// statsClient は下流の統計サービスへのHTTPクライアント。
	statsClient *httpclient.Client
}

// NewServer は新しいGatewayサーバーを生成する。
// SQLiteデータベースへの接続とスキーマのマイグレーションを行う。
func NewServer(cfg Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := migration.Run(sqlDB, migrationsFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	hasher := password.NewBcryptHasher()
	// ユーザー不在時にも照合と同等の計算を行うためのダミーハッシュ
	dummyHash, err := hasher.Hash("gateway-timing-equalizer")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ダミーハッシュの生成に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router:      router,
		cfg:         cfg,
		queries:     gatewaydb.New(sqlDB),
		db:          sqlDB,
		hasher:      hasher,
		dummyHash:   dummyHash,
		statsClient: httpclient.New(cfg.StatsServiceURL),
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証不要のエンドポイント
	s.router.GET("/", s.handleHome())
	s.router.POST("/register", s.handleRegister())
	s.router.POST("/login", s.handleLogin())

	// 認証必須のAPIエンドポイント
	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.cfg.JWTSecret))
	{
		api.GET("/github/stats", s.handleGitHubStats())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// Username は登録するユーザー名。
	Username string `json:"username" binding:"required"`
	// Password は平文パスワード。保存前にハッシュ化される。
	Password string `json:"password" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Username はユーザー名。
	Username string `json:"username" binding:"required"`
	// Password は平文パスワード。
	Password string `json:"password" binding:"required"`
}

// handleHome は利用可能なエンドポイントの一覧を返すハンドラを返す。
func (s *Server) handleHome() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "API Gateway",
			"available_endpoints": []gin.H{
				{
					"path":        "/register",
					"method":      http.MethodPost,
					"description": "新規ユーザーを登録する",
					"body":        gin.H{"username": "string", "password": "string"},
				},
				{
					"path":        "/login",
					"method":      http.MethodPost,
					"description": "ログインしてJWTトークンを取得する",
					"body":        gin.H{"username": "string", "password": "string"},
				},
				{
					"path":           "/api/github/stats",
					"method":         http.MethodGet,
					"description":    "GitHubリポジトリの統計情報を取得する",
					"authentication": "JWT必須",
				},
			},
		})
	}
}

// handleRegister はユーザー登録を処理するハンドラを返す。
// パスワードをハッシュ化してから保存する。登録時にトークンは発行しない。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "usernameとpasswordは必須です"})
			return
		}

		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの登録に失敗しました"})
			log.Printf("パスワードハッシュ化エラー: %v", err)
			return
		}

		id, err := s.queries.CreateUser(c.Request.Context(), gatewaydb.CreateUserParams{
			Username:     req.Username,
			PasswordHash: hash,
		})
		if err != nil {
			// 同時に同名ユーザーが登録された場合もUNIQUE制約が片方を弾く
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "このユーザー名は既に使用されています"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの登録に失敗しました"})
			log.Printf("ユーザー作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "ユーザーを作成しました",
			"id":       id,
			"username": req.Username,
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 認証に成功した場合、有効期限付きのJWTトークンを発行する。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "usernameとpasswordは必須です"})
			return
		}

		user, err := s.queries.GetUserByUsername(c.Request.Context(), req.Username)
		if errors.Is(err, sql.ErrNoRows) {
			// ユーザー不在でもパスワード照合と同等の計算を行い、
			// 応答時間の差からユーザーの存在を推測されないようにする
			s.hasher.Verify(req.Password, s.dummyHash)
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			log.Printf("ユーザー取得エラー: %v", err)
			return
		}

		if !s.hasher.Verify(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}

		token, err := middleware.GenerateJWT(s.cfg.JWTSecret, user.Username, s.cfg.TokenExpiry)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			log.Printf("JWT生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "ログインに成功しました",
			"access_token": token,
		})
	}
}

// handleGitHubStats はGitHub統計情報の取得を処理するハンドラを返す。
// 受信したBearer資格情報をそのまま下流の統計サービスに転送し、
// レスポンスに認証済みユーザー名（requested_by）を付与して返す。
// 下流のステータスコードは透過する。リトライは行わない。
func (s *Server) handleGitHubStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.GetUsername(c)
		if username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "認証が必要です"})
			return
		}

		result, status, err := s.statsClient.GetJSONWithAuth(
			c.Request.Context(), statsPath, c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("統計サービスの呼び出しに失敗しました: %v", err),
			})
			log.Printf("統計サービス呼び出しエラー: %v", err)
			return
		}

		// 検証済みトークンのsubjectを付与する。下流が同名のキーを返しても
		// 信頼せず上書きする。
		result["requested_by"] = username

		c.JSON(status, result)
	}
}

// isUniqueViolation はSQLiteのUNIQUE制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
