// Package store は、データの永続化機能を提供します。
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/harukit/pitchbook/model"
)

// DefaultRosterFilename は旧バージョン互換のロスターファイル名です。
const DefaultRosterFilename = "items.json"

// RosterStore はロスター（選手マーカー列）の保存と取得を行うインターフェースです。
type RosterStore interface {
	// LoadRoster は指定されたファイルからロスターを読み込みます。
	// ファイルが存在しない場合や読み込みに失敗した場合はfalseを返します。
	LoadRoster(filename string) ([]*model.Player, bool)
	// SaveRoster はロスター全体を指定されたファイルに書き込みます。
	SaveRoster(players []*model.Player, filename string) error
	// DeleteRoster は指定されたロスターファイルを削除します。
	DeleteRoster(filename string) error
}

// FileRosterStore はデータディレクトリ内のJSONファイルを使用した
// RosterStoreの実装です。ロスターファイルはフォーメーション毎に独立しており、
// 1つのファイルの破損が他のフォーメーションに影響することはありません。
type FileRosterStore struct {
	dataDir string
}

// NewFileRosterStore は新しいFileRosterStoreを作成します。
func NewFileRosterStore(dataDir string) (*FileRosterStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileRosterStore{dataDir: dataDir}, nil
}

// LoadRoster は指定されたファイルからロスターを読み込みます。
// ファイルが存在しない場合はfalseを返します（エラーではありません）。
// JSONの解析に失敗した場合もfalseを返し、失敗はログに記録されます。
// 呼び出し側は常にデフォルトロスターにフォールバックできるため、
// 利用者向けのエラーとしては扱いません。
func (s *FileRosterStore) LoadRoster(filename string) ([]*model.Player, bool) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, filename))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("FileRosterStore: failed to read %s: %v", filename, err)
		}
		return nil, false
	}

	var players []*model.Player
	if err := json.Unmarshal(data, &players); err != nil {
		log.Printf("FileRosterStore: failed to decode %s: %v", filename, err)
		return nil, false
	}
	return players, true
}

// SaveRoster はロスター全体をJSONとして書き込みます。
// 一時ファイルへ書いてからリネームするため、書き込み途中でクラッシュしても
// 既存のファイルが中途半端な内容になることはありません。
func (s *FileRosterStore) SaveRoster(players []*model.Player, filename string) error {
	// バリデーション
	for _, p := range players {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := atomicWrite(filepath.Join(s.dataDir, filename), data); err != nil {
		return fmt.Errorf("failed to write roster %s: %w", filename, err)
	}
	return nil
}

// DeleteRoster は指定されたロスターファイルを削除します。
// ファイルが存在しない場合はエラーになりません。
func (s *FileRosterStore) DeleteRoster(filename string) error {
	err := os.Remove(filepath.Join(s.dataDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete roster %s: %w", filename, err)
	}
	return nil
}

// atomicWrite はdataを一時ファイル経由でpathに書き込みます。
// 同一ディレクトリ内でのリネームにより置き換えを原子的に行います。
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
