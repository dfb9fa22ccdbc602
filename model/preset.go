// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "math"

// RosterSize はロスターの固定エントリー数です（サッカーの11人）。
const RosterSize = 11

// PresetTolerance はプリセット一致判定の許容誤差（レイアウト単位）です。
// 幅・高さそれぞれがこの値以内（両端含む）であれば一致とみなします。
const PresetTolerance = 8.0

// DefaultPresetName はデフォルト配置の名前です。
// 未知のプリセット名はこの配置にフォールバックします。
const DefaultPresetName = "default"

// presetLayouts はプリセット名から11個の座標リストへの静的テーブルです。
// 各配置はGKを先頭に、ライン毎に並べた決定的な座標列です。
var presetLayouts = map[string][]Position{
	// 初期アプリから引き継いだデフォルト配置（GKが最後方）
	DefaultPresetName: {
		{Width: 0, Height: 250},
		{Width: 50, Height: 150},
		{Width: -50, Height: 150},
		{Width: 125, Height: 150},
		{Width: -125, Height: 150},
		{Width: 125, Height: 50},
		{Width: -50, Height: 50},
		{Width: -125, Height: 50},
		{Width: 50, Height: 50},
		{Width: 50, Height: -50},
		{Width: -50, Height: -50},
	},
	"4-4-2": {
		{Width: 0, Height: 250},
		{Width: -150, Height: 160},
		{Width: -50, Height: 160},
		{Width: 50, Height: 160},
		{Width: 150, Height: 160},
		{Width: -150, Height: 60},
		{Width: -50, Height: 60},
		{Width: 50, Height: 60},
		{Width: 150, Height: 60},
		{Width: -50, Height: -60},
		{Width: 50, Height: -60},
	},
	"4-3-3": {
		{Width: 0, Height: 250},
		{Width: -150, Height: 160},
		{Width: -50, Height: 160},
		{Width: 50, Height: 160},
		{Width: 150, Height: 160},
		{Width: -100, Height: 60},
		{Width: 0, Height: 60},
		{Width: 100, Height: 60},
		{Width: -125, Height: -60},
		{Width: 0, Height: -80},
		{Width: 125, Height: -60},
	},
	"3-5-2": {
		{Width: 0, Height: 250},
		{Width: -100, Height: 160},
		{Width: 0, Height: 160},
		{Width: 100, Height: 160},
		{Width: -175, Height: 60},
		{Width: -90, Height: 60},
		{Width: 0, Height: 60},
		{Width: 90, Height: 60},
		{Width: 175, Height: 60},
		{Width: -50, Height: -60},
		{Width: 50, Height: -60},
	},
}

// presetOrder は表示用の安定した並び順です。
var presetOrder = []string{DefaultPresetName, "4-4-2", "4-3-3", "3-5-2"}

// PresetNames は定義済みプリセット名の一覧を安定した順序で返します。
func PresetNames() []string {
	return append([]string(nil), presetOrder...)
}

// PresetLayout は指定プリセットの座標リストを返します。
// 未知の名前はデフォルト配置にフォールバックします。
func PresetLayout(name string) []Position {
	layout, ok := presetLayouts[name]
	if !ok {
		layout = presetLayouts[DefaultPresetName]
	}
	return append([]Position(nil), layout...)
}

// DefaultRoster はデフォルト配置の11人のロスターを生成します。
// 選手は毎回新しいIDで作成され、名前はプレースホルダーです。
func DefaultRoster() []*Player {
	return PresetRoster(DefaultPresetName)
}

// PresetRoster は指定プリセットの配置で新しいロスターを生成します。
// 未知の名前はデフォルト配置にフォールバックします。
func PresetRoster(name string) []*Player {
	layout := PresetLayout(name)
	players := make([]*Player, 0, len(layout))
	for _, pos := range layout {
		players = append(players, NewPlayer(pos))
	}
	return players
}

// MatchesPreset はロスターの座標列を指定プリセットとインデックス順に比較します。
// 両者の長さが等しく、かつすべての対応する座標の幅・高さの差が
// PresetTolerance以内（両端含む）の場合にのみ一致します。
// 表示用の判定であり、編集を妨げる用途には使いません。
func MatchesPreset(players []*Player, name string) bool {
	layout, ok := presetLayouts[name]
	if !ok {
		return false
	}
	if len(players) != len(layout) {
		return false
	}
	for i, p := range players {
		if math.Abs(p.Position.Width-layout[i].Width) > PresetTolerance {
			return false
		}
		if math.Abs(p.Position.Height-layout[i].Height) > PresetTolerance {
			return false
		}
	}
	return true
}

// MatchingPreset は現在のロスターに一致する最初のプリセット名を返します。
// どのプリセットにも一致しない場合はfalseを返します。
func MatchingPreset(players []*Player) (string, bool) {
	for _, name := range presetOrder {
		if MatchesPreset(players, name) {
			return name, true
		}
	}
	return "", false
}
