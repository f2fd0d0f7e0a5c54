package internal

import "net/http"

// Identity 已驗證的玩家身分
type Identity struct {
	ID    string
	Name  string
	Email string
}

// IdentityBinder 在 WebSocket 升級前驗證請求並取得玩家身分
//
// 返回錯誤時連線會以 401 拒絕，不會建立 WebSocket。
type IdentityBinder interface {
	Identify(r *http.Request) (Identity, error)
}
