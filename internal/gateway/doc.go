// Package gateway はAPI Gatewayサービスを提供する。
//
// ユーザー登録・ログインによる認証とJWT発行、および下流の統計サービスへの
// 認証付きプロキシを担当する。認証情報はSQLiteに永続化する。
package gateway
