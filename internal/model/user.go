// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// IDは外部Identity Providerのsubjectをそのまま主キーとして使用する。
// IDとemailは一度設定されたら不変の識別子として扱う。
type User struct {
	ID        string
	Email     string
	Name      string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部Identity Providerが検証済みの呼び出し元情報を表す。
// リクエストごとにトークンから復元し、イミュータブルとして扱う。
type Identity struct {
	UserID   string
	Email    string
	Name     string
	ImageURL string
}
