// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWT認証トークンの発行と検証、リクエストID付与、パニックリカバリ、
// CORS設定など、ゲートウェイの全ルートで使用するミドルウェアを含む。
package middleware
