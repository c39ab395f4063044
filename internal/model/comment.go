package model

import "time"

// Comment はプロダクトに対するコメントを表す。
// 作成者はUserID、対象プロダクトはProductIDで決まる。
// 削除は作成者のみ可能。更新操作は存在しない。
// 親プロダクトまたは作成者ユーザーの削除時にCASCADE削除される。
type Comment struct {
	ID        string
	Content   string
	UserID    string
	ProductID string
	CreatedAt time.Time
}
