// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// PlaceholderName は選手名が未設定のときに表示するデフォルト名です。
const PlaceholderName = "あああ"

// Position はピッチ中央を原点とする選手マーカーの配置座標です。
type Position struct {
	Width  float64 // 横方向オフセット（右が正）
	Height float64 // 縦方向オフセット（下が正）
}

// Player はピッチ上に配置される選手マーカーを表すモデルです。
type Player struct {
	ID       uuid.UUID // 選手マーカーの識別子
	Position Position  // 配置座標
	Name     string    // 表示名
	Photo    []byte    // 選手画像（未設定の場合はnil）
}

// playerRecord はPlayerの永続化表現です。座標はプラットフォーム依存の
// 幾何型に頼らないよう、2つの数値フィールドとして保存します。
type playerRecord struct {
	ID             uuid.UUID `json:"id"`
	PositionWidth  float64   `json:"positionWidth"`
	PositionHeight float64   `json:"positionHeight"`
	Name           string    `json:"name"`
	ImageData      []byte    `json:"imageData,omitempty"`
}

// NewPlayer は指定座標に新しいPlayerインスタンスを作成します。
// 名前はプレースホルダーで初期化され、画像は持ちません。
func NewPlayer(pos Position) *Player {
	return &Player{
		ID:       uuid.New(),
		Position: pos,
		Name:     PlaceholderName,
	}
}

// Validate は選手データのバリデーションを行います。
func (p *Player) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id is required")
	}
	if !isFinite(p.Position.Width) || !isFinite(p.Position.Height) {
		return NewValidationError("position must be finite")
	}
	return nil
}

// Equal は2つの選手が値として等しいかを判定します。
// ID・座標・名前・画像バイト列がすべて一致する場合にのみtrueを返します。
func (p *Player) Equal(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID &&
		p.Position == other.Position &&
		p.Name == other.Name &&
		bytes.Equal(p.Photo, other.Photo)
}

// Clone は選手の複製を返します。画像バイト列も複製されます。
func (p *Player) Clone() *Player {
	c := *p
	if p.Photo != nil {
		c.Photo = append([]byte(nil), p.Photo...)
	}
	return &c
}

// MarshalJSON はPlayerをワイヤ形式に変換します。
func (p *Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerRecord{
		ID:             p.ID,
		PositionWidth:  p.Position.Width,
		PositionHeight: p.Position.Height,
		Name:           p.Name,
		ImageData:      p.Photo,
	})
}

// UnmarshalJSON はワイヤ形式からPlayerを復元します。
func (p *Player) UnmarshalJSON(data []byte) error {
	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == uuid.Nil {
		return NewValidationError("id is required")
	}
	p.ID = rec.ID
	p.Position = Position{Width: rec.PositionWidth, Height: rec.PositionHeight}
	p.Name = rec.Name
	p.Photo = rec.ImageData
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
