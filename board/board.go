// Package board は、1つのフォーメーションのロスターを編集するセッションを提供します。
package board

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/harukit/pitchbook/model"
	"github.com/harukit/pitchbook/store"
)

// Board は開いているフォーメーションの編集セッションです。
// メモリ上のロスターが常に正であり、各編集操作の後に最新のスナップショットが
// 専用のゴルーチンへ引き渡されて書き込まれます。書き込みは直列化され、
// 2つの書き込みが混ざることはありません（後勝ち）。
type Board struct {
	mu        sync.Mutex
	formation *model.Formation
	players   []*model.Player
	rosters   store.RosterStore

	saveCh chan []*model.Player
	done   chan struct{}
}

// Open はフォーメーションのロスターを読み込んで編集セッションを開始します。
// ロスターファイルが存在しない場合や読めない場合はデフォルトロスターで
// 初期化し、その場で保存します。
func Open(formation *model.Formation, rosters store.RosterStore) *Board {
	b := &Board{
		formation: formation,
		rosters:   rosters,
		saveCh:    make(chan []*model.Player, 1),
		done:      make(chan struct{}),
	}

	players, ok := rosters.LoadRoster(formation.Filename)
	if !ok {
		// 保存がない場合はデフォルト配置で初期化して保存しておく
		players = model.DefaultRoster()
	}
	b.players = players

	go b.writeLoop()

	if !ok {
		b.mu.Lock()
		b.queueSave()
		b.mu.Unlock()
	}
	return b
}

// writeLoop はキューに入ったスナップショットを順番にファイルへ書き込みます。
func (b *Board) writeLoop() {
	defer close(b.done)
	for snapshot := range b.saveCh {
		if err := b.rosters.SaveRoster(snapshot, b.formation.Filename); err != nil {
			log.Printf("Board: save failed: %v", err)
		}
	}
}

// queueSave は現在のロスターの完全なスナップショットを書き込みキューへ入れます。
// 未処理のスナップショットが残っている場合は新しいものに置き換えます。
// 呼び出し側はb.muを保持していること。
func (b *Board) queueSave() {
	snapshot := make([]*model.Player, 0, len(b.players))
	for _, p := range b.players {
		snapshot = append(snapshot, p.Clone())
	}

	select {
	case b.saveCh <- snapshot:
	default:
		// 古いスナップショットを捨てて最新のものに置き換える
		select {
		case <-b.saveCh:
		default:
		}
		b.saveCh <- snapshot
	}
}

// Close は未書き込みのスナップショットを書き終えてからセッションを閉じます。
func (b *Board) Close() {
	close(b.saveCh)
	<-b.done
}

// Formation はこのセッションが編集しているフォーメーションを返します。
func (b *Board) Formation() *model.Formation {
	return b.formation
}

// Players は現在のロスターのスナップショットを返します。
func (b *Board) Players() []*model.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	players := make([]*model.Player, 0, len(b.players))
	for _, p := range b.players {
		players = append(players, p.Clone())
	}
	return players
}

// find は指定されたIDの選手を返します。呼び出し側はb.muを保持していること。
func (b *Board) find(id uuid.UUID) *model.Player {
	for _, p := range b.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MovePlayer は選手の現在位置にドラッグ移動量を加算します。
func (b *Board) MovePlayer(id uuid.UUID, dw, dh float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.find(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	p.Position.Width += dw
	p.Position.Height += dh
	b.queueSave()
	return nil
}

// SetName は選手の表示名を更新します。
func (b *Board) SetName(id uuid.UUID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.find(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	p.Name = name
	b.queueSave()
	return nil
}

// SetPhoto は選手の画像バイト列を更新します。画像の取得は非同期に完了するため、
// 取得完了時点で対象の選手が既に存在しない場合は結果を適用せずに破棄します。
func (b *Board) SetPhoto(id uuid.UUID, photo []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.find(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	if photo != nil {
		photo = append([]byte(nil), photo...)
	}
	p.Photo = photo
	b.queueSave()
	return nil
}

// ApplyPreset は指定プリセットの配置を現在のロスターに適用します。
// 各選手のID・名前・画像は維持され、座標だけがインデックス順に
// プリセットの値へ書き換えられます。ロスターの人数がプリセットと
// 異なる場合は、プリセットのロスターで丸ごと置き換えます。
func (b *Board) ApplyPreset(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	layout := model.PresetLayout(name)
	if len(b.players) != len(layout) {
		b.players = model.PresetRoster(name)
		b.queueSave()
		return
	}
	for i, p := range b.players {
		p.Position = layout[i]
	}
	b.queueSave()
}

// MatchingPreset は現在の配置に一致するプリセット名を返します。
// 表示用のラベル判定であり、一致しない場合はfalseを返します。
func (b *Board) MatchingPreset() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.MatchingPreset(b.players)
}
