package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（顧客ごとのpending注文など）
	ErrConflict = errors.New("conflict")
	// 定義外の値（監査ログの種別など）
	ErrInvalid = errors.New("invalid")
)
