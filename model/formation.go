// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Formation は名前付きフォーメーションを表すモデルです。
// Filenameはカタログとロスターファイルを結び付ける永続的な参照で、
// 作成時に一度だけ割り当てられ、以後変更されません。
type Formation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`      // 表示名
	Filename  string    `json:"filename"`  // ロスターファイル名
	CreatedAt time.Time `json:"createdAt"` // 作成日時
}

// NewFormation は新しいFormationインスタンスを作成します。
// ロスターファイル名は毎回新しいUUIDから生成されるため、
// カタログの生存期間を通じて一意です。
func NewFormation(name string) *Formation {
	return &Formation{
		ID:        uuid.New(),
		Name:      name,
		Filename:  fmt.Sprintf("formation-%s.json", uuid.New().String()),
		CreatedAt: time.Now(),
	}
}

// LoadFormation は既存のFormationインスタンスを作成します。
func LoadFormation(id uuid.UUID, name, filename string, createdAt time.Time) (*Formation, error) {
	f := &Formation{
		ID:        id,
		Name:      name,
		Filename:  filename,
		CreatedAt: createdAt,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate はフォーメーションのデータバリデーションを行います。
// 名前の空チェックは編集境界（呼び出し側）の責務であり、ここでは行いません。
func (f *Formation) Validate() error {
	if f.ID == uuid.Nil {
		return NewValidationError("id is required")
	}
	if f.Filename == "" {
		return NewValidationError("filename is required")
	}
	if f.CreatedAt.IsZero() {
		return NewValidationError("createdAt is required")
	}
	return nil
}

// UnmarshalJSON はフォーメーションのレコードを復元します。
// createdAtフィールドを持たない旧スキーマのレコードも読めるよう、
// フィールドの有無を明示的に確認し、欠けている場合はデコード時点の
// 現在時刻で補完します（元の作成時刻は失われますが、これは仕様です）。
// id・name・filenameは必須で、欠けている場合はレコード全体が失敗します。
func (f *Formation) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID        *uuid.UUID `json:"id"`
		Name      *string    `json:"name"`
		Filename  *string    `json:"filename"`
		CreatedAt *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == nil {
		return NewValidationError("id is required")
	}
	if rec.Name == nil {
		return NewValidationError("name is required")
	}
	if rec.Filename == nil {
		return NewValidationError("filename is required")
	}
	f.ID = *rec.ID
	f.Name = *rec.Name
	f.Filename = *rec.Filename
	if rec.CreatedAt != nil {
		f.CreatedAt = *rec.CreatedAt
	} else {
		// 旧スキーマからの移行: 現在時刻で補完
		f.CreatedAt = time.Now()
	}
	return f.Validate()
}
