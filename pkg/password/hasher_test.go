package password

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// TestBcryptHasherHash はHashメソッドを検証する。
func TestBcryptHasherHash(t *testing.T) {
	t.Parallel()

	t.Run("同じパスワードでも呼び出しごとに異なるハッシュが生成されること", func(t *testing.T) {
		t.Parallel()

		h, err := NewBcryptHasherWithCost(bcrypt.MinCost)
		if err != nil {
			t.Fatalf("BcryptHasherの生成に失敗: %v", err)
		}

		hash1, err := h.Hash("secret")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		hash2, err := h.Hash("secret")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}

		if bytes.Equal(hash1, hash2) {
			t.Error("ソルトが効いておらず同一ハッシュが生成された")
		}
		if !h.Verify("secret", hash1) {
			t.Error("1回目のハッシュが照合に失敗した")
		}
		if !h.Verify("secret", hash2) {
			t.Error("2回目のハッシュが照合に失敗した")
		}
	})

	t.Run("ハッシュに平文パスワードが含まれないこと", func(t *testing.T) {
		t.Parallel()

		h, err := NewBcryptHasherWithCost(bcrypt.MinCost)
		if err != nil {
			t.Fatalf("BcryptHasherの生成に失敗: %v", err)
		}

		hash, err := h.Hash("super-secret-password")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		if bytes.Contains(hash, []byte("super-secret-password")) {
			t.Error("ハッシュに平文パスワードが含まれている")
		}
	})
}

// TestBcryptHasherVerify はVerifyメソッドを検証する。
func TestBcryptHasherVerify(t *testing.T) {
	t.Parallel()

	t.Run("正しいパスワードでtrueを返すこと", func(t *testing.T) {
		t.Parallel()

		h, err := NewBcryptHasherWithCost(bcrypt.MinCost)
		if err != nil {
			t.Fatalf("BcryptHasherの生成に失敗: %v", err)
		}

		hash, err := h.Hash("secret")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		if !h.Verify("secret", hash) {
			t.Error("正しいパスワードの照合に失敗した")
		}
	})

	t.Run("誤ったパスワードでfalseを返すこと", func(t *testing.T) {
		t.Parallel()

		h, err := NewBcryptHasherWithCost(bcrypt.MinCost)
		if err != nil {
			t.Fatalf("BcryptHasherの生成に失敗: %v", err)
		}

		hash, err := h.Hash("secret")
		if err != nil {
			t.Fatalf("Hash()でエラーが発生: %v", err)
		}
		if h.Verify("wrong-password", hash) {
			t.Error("誤ったパスワードで照合が成功した")
		}
	})

	t.Run("破損したハッシュでパニックせずfalseを返すこと", func(t *testing.T) {
		t.Parallel()

		h := NewBcryptHasher()
		if h.Verify("secret", []byte("not-a-bcrypt-hash")) {
			t.Error("破損したハッシュで照合が成功した")
		}
		if h.Verify("secret", nil) {
			t.Error("nilハッシュで照合が成功した")
		}
	})
}

// TestNewBcryptHasherWithCost はコスト範囲の検証を確認する。
func TestNewBcryptHasherWithCost(t *testing.T) {
	t.Parallel()

	t.Run("範囲外のコストでエラーを返すこと", func(t *testing.T) {
		t.Parallel()

		if _, err := NewBcryptHasherWithCost(bcrypt.MaxCost + 1); err == nil {
			t.Error("範囲外のコストでエラーが返らなかった")
		}
		if _, err := NewBcryptHasherWithCost(bcrypt.MinCost - 1); err == nil {
			t.Error("範囲外のコストでエラーが返らなかった")
		}
	})

	t.Run("有効なコストでHasherが生成されること", func(t *testing.T) {
		t.Parallel()

		h, err := NewBcryptHasherWithCost(bcrypt.MinCost)
		if err != nil {
			t.Fatalf("有効なコストでエラーが発生: %v", err)
		}
		if h == nil {
			t.Fatal("Hasherがnil")
		}
	})
}
