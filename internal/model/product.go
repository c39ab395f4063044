package model

import "time"

// Product はユーザーが共有するプロダクトを表す。
// 所有者はUserIDで一意に決まり、作成後に変更されることはない。
// 読み取りは誰でも可能、更新・削除は所有者のみ可能。
type Product struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput はプロダクト作成時の入力を表す。
type ProductInput struct {
	Title       string
	Description string
	ImageURL    string
}

// ProductPatch はプロダクト部分更新の入力を表す。
// nilのフィールドは変更せず、既存の値を維持する。
type ProductPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
}
