// API Gatewayサービスのエントリポイント。
// ユーザー登録・ログイン・JWT発行と、下流のGitHub統計サービスへの
// 認証付きプロキシを担当する。外部からアクセス可能な唯一のサービスであり、
// セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/ghstats/gateway/internal/gateway"
)

func main() {
	// .envが存在しない環境（本番など）ではそのまま環境変数を使う
	if err := godotenv.Load(); err != nil {
		log.Printf(".envを読み込まずに起動します: %v", err)
	}

	cfg := gateway.LoadConfig()

	server, err := gateway.NewServer(cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		_ = server.Close()
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
