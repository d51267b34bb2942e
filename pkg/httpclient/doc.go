// Package httpclient は下流サービスへのHTTP通信用クライアントを提供する。
//
// ゲートウェイが受け取ったBearer資格情報をそのまま転送し、
// 下流のJSONレスポンスとステータスコードを呼び出し元に引き渡す。
package httpclient
