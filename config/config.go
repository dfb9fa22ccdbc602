// Package config はアプリケーション設定を管理します。
package config

import (
	"os"
	"path/filepath"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() *Config {
	// データディレクトリの設定
	dataDir := os.Getenv("PITCHBOOK_DATA_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(".", "data")
	}

	return &Config{
		DataDir: dataDir,
	}
}
