// Package store は、データの永続化機能を提供します。
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harukit/pitchbook/model"
)

// CatalogFilename はフォーメーションカタログの固定ファイル名です。
const CatalogFilename = "formations.json"

// CatalogStore はフォーメーションカタログの管理を行うインターフェースです。
// カタログはフォーメーションの順序付きコレクションで、1つのファイルとして
// まとめて読み書きされます。各変更操作は完了後に即座に永続化されます。
type CatalogStore interface {
	// Formations は現在のフォーメーション一覧のスナップショットを返します。
	Formations() []*model.Formation
	// Add は新しいフォーメーションを作成して末尾に追加し、
	// デフォルトロスターのファイルを初期化します。
	Add(name string) *model.Formation
	// Remove は指定されたインデックスのフォーメーションを削除し、
	// 対応するロスターファイルも削除します。
	Remove(indices []int)
	// Rename は指定されたIDのフォーメーション名を変更します。
	// 該当IDが存在しない場合は何もしません。
	Rename(id uuid.UUID, newName string)
	// ResolveFormation はインデックスまたはIDの前方一致で
	// フォーメーションを解決します。
	ResolveFormation(key string) (*model.Formation, error)
	// Subscribe は変更操作の完了後に呼ばれるコールバックを登録します。
	Subscribe(fn func())
}

// FormationCatalog はJSONファイルを使用したCatalogStoreの実装です。
// メモリ上の一覧が常に正であり、書き込み失敗時はログに記録した上で
// メモリ上の状態を維持します（次回の変更操作で再度保存が試みられます）。
type FormationCatalog struct {
	mu          sync.Mutex
	dataDir     string
	rosters     RosterStore
	formations  []*model.Formation
	subscribers []func()
}

// NewFormationCatalog は新しいFormationCatalogを作成し、
// カタログファイルから既存のフォーメーション一覧を読み込みます。
func NewFormationCatalog(dataDir string, rosters RosterStore) (*FormationCatalog, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	c := &FormationCatalog{
		dataDir: dataDir,
		rosters: rosters,
	}
	c.load()
	return c, nil
}

// load はカタログファイルからフォーメーション一覧を読み込みます。
// ファイルが存在しない場合は空のカタログとして扱います。
// 解析に失敗した場合も空のカタログにフォールバックし、ログに記録します。
func (c *FormationCatalog) load() {
	data, err := os.ReadFile(filepath.Join(c.dataDir, CatalogFilename))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("FormationCatalog: failed to read catalog: %v", err)
		}
		c.formations = nil
		return
	}

	var formations []*model.Formation
	if err := json.Unmarshal(data, &formations); err != nil {
		log.Printf("FormationCatalog: failed to decode catalog: %v", err)
		c.formations = nil
		return
	}
	c.formations = formations
}

// save はフォーメーション一覧全体をカタログファイルに書き込みます。
// 一時ファイル経由の原子的な置き換えで中途半端な状態を防ぎます。
func (c *FormationCatalog) save() {
	list := c.formations
	if list == nil {
		list = []*model.Formation{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		log.Printf("FormationCatalog: failed to encode catalog: %v", err)
		return
	}
	if err := atomicWrite(filepath.Join(c.dataDir, CatalogFilename), data); err != nil {
		log.Printf("FormationCatalog: failed to write catalog: %v", err)
	}
}

// Formations は現在のフォーメーション一覧のスナップショットを返します。
func (c *FormationCatalog) Formations() []*model.Formation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Formation(nil), c.formations...)
}

// Add は新しいフォーメーションを作成して一覧の末尾に追加し、カタログを
// 永続化した上で、新しいロスターファイルをデフォルト配置で初期化します。
// 作成されたフォーメーションを返すため、呼び出し側はすぐに開けます。
func (c *FormationCatalog) Add(name string) *model.Formation {
	c.mu.Lock()
	formation := model.NewFormation(name)
	c.formations = append(c.formations, formation)
	c.save()
	c.mu.Unlock()

	// 新規作成時にデフォルトのロスターを保存しておく
	if err := c.rosters.SaveRoster(model.DefaultRoster(), formation.Filename); err != nil {
		log.Printf("FormationCatalog: failed to initialize roster: %v", err)
	}

	c.notify()
	return formation
}

// Remove は指定されたインデックスのフォーメーションを一覧から取り除き、
// それぞれのロスターファイルを削除した上でカタログを永続化します。
// インデックスはすべて削除前の一覧に対して解決されるため、複数同時の
// 削除でも位置ずれは起きません。範囲外のインデックスは無視されます。
func (c *FormationCatalog) Remove(indices []int) {
	c.mu.Lock()

	removing := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(c.formations) {
			removing[idx] = true
		}
	}
	if len(removing) == 0 {
		c.mu.Unlock()
		return
	}

	kept := make([]*model.Formation, 0, len(c.formations)-len(removing))
	for i, f := range c.formations {
		if removing[i] {
			// フォーメーションのロスターファイルも削除
			if err := c.rosters.DeleteRoster(f.Filename); err != nil {
				log.Printf("FormationCatalog: failed to delete roster: %v", err)
			}
			continue
		}
		kept = append(kept, f)
	}
	c.formations = kept
	c.save()
	c.mu.Unlock()

	c.notify()
}

// Rename は指定されたIDのフォーメーション名を変更してカタログを永続化します。
// 該当IDが存在しない場合は何もしません。名前の一意性は要求されません。
func (c *FormationCatalog) Rename(id uuid.UUID, newName string) {
	c.mu.Lock()
	renamed := false
	for _, f := range c.formations {
		if f.ID == id {
			f.Name = newName
			renamed = true
			break
		}
	}
	if renamed {
		c.save()
	}
	c.mu.Unlock()

	if renamed {
		c.notify()
	}
}

// Subscribe は変更操作の完了後に呼ばれるコールバックを登録します。
// UI層はこの通知を受けて表示を更新します。
func (c *FormationCatalog) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// notify は登録済みのコールバックを呼び出します。
func (c *FormationCatalog) notify() {
	c.mu.Lock()
	subs := make([]func(), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// ResolveFormation はインデックスまたはIDの前方一致でフォーメーションを解決します。
func (c *FormationCatalog) ResolveFormation(key string) (*model.Formation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var idx int
	if _, err := fmt.Sscanf(key, "%d", &idx); err == nil && fmt.Sprintf("%d", idx) == key {
		if idx < 0 || idx >= len(c.formations) {
			return nil, model.ErrFormationNotFound
		}
		return c.formations[idx], nil
	}

	for _, f := range c.formations {
		if strings.HasPrefix(f.ID.String(), strings.ToLower(key)) {
			return f, nil
		}
	}
	return nil, model.ErrFormationNotFound
}
