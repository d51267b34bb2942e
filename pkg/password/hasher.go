// Package password はパスワードの一方向ハッシュ化と照合を提供する。
//
// ハッシュアルゴリズムはHasherインターフェースの背後に隠蔽されており、
// ハンドラ側のロジックを変更せずに実装を差し替えられる。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher はパスワードのハッシュ化と照合を行うインターフェース。
type Hasher interface {
	// Hash は平文パスワードからソルト付きハッシュを生成する。
	// 同じ入力でも呼び出しごとに異なるハッシュが生成される。
	Hash(plain string) ([]byte, error)
	// Verify は平文パスワードとハッシュを照合する。
	// 不一致やハッシュ形式の破損ではエラーを返さず、falseを返す。
	Verify(plain string, hash []byte) bool
}

// BcryptHasher はbcryptによるHasher実装。
// ソルトは自動生成され、コストパラメータで計算量を調整できる。
type BcryptHasher struct {
	// cost はbcryptのコストパラメータ。
	cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost は指定コストのBcryptHasherを生成する。
// コストがbcryptの有効範囲外の場合はエラーを返す。
func NewBcryptHasherWithCost(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcryptコストが範囲外です: %d", cost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash は平文パスワードからbcryptハッシュを生成する。
func (h *BcryptHasher) Hash(plain string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return hash, nil
}

// Verify は平文パスワードとbcryptハッシュを照合する。
func (h *BcryptHasher) Verify(plain string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
