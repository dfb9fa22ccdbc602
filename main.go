// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/harukit/pitchbook/board"
	"github.com/harukit/pitchbook/config"
	"github.com/harukit/pitchbook/model"
	"github.com/harukit/pitchbook/snapshot"
	"github.com/harukit/pitchbook/store"
	"github.com/urfave/cli/v2"
)

const (
	outputFlag    = "output"
	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0" + build

// 一覧表示用の日時フォーマット（例: 2025/12/03 14:30）
const listTimeFormat = "2006/01/02 15:04"

func main() {
	// 設定の読み込み
	cfg := config.NewConfig()

	// ファイルストアの初期化
	rosters, err := store.NewFileRosterStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize roster store: %v", err)
	}

	// カタログの読み込み
	catalog, err := store.NewFormationCatalog(cfg.DataDir, rosters)
	if err != nil {
		log.Fatalf("Failed to initialize formation catalog: %v", err)
	}

	app := &cli.App{
		Name:    "pitchbook",
		Usage:   "Manage soccer formation boards and export them as SVG snapshots",
		Version: semanticVersion,
		Commands: []*cli.Command{
			listCommand(catalog),
			newCommand(catalog),
			renameCommand(catalog),
			removeCommand(catalog),
			playersCommand(catalog, rosters),
			moveCommand(catalog, rosters),
			setNameCommand(catalog, rosters),
			setPhotoCommand(catalog, rosters),
			presetCommand(catalog, rosters),
			presetsCommand(),
			matchCommand(catalog, rosters),
			exportCommand(catalog, rosters),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withBoard はフォーメーションを解決して編集セッションを開き、fnの実行後に
// 未書き込みの変更を書き終えてからセッションを閉じます。
func withBoard(catalog store.CatalogStore, rosters store.RosterStore, key string, fn func(*board.Board) error) error {
	formation, err := catalog.ResolveFormation(key)
	if err != nil {
		return fmt.Errorf("formation %q: %w", key, err)
	}
	b := board.Open(formation, rosters)
	defer b.Close()
	return fn(b)
}

// playerByIndex はロスターのインデックスから選手IDを解決します。
func playerByIndex(b *board.Board, arg string) (*model.Player, error) {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid player index %q", arg)
	}
	players := b.Players()
	if idx < 0 || idx >= len(players) {
		return nil, model.ErrPlayerNotFound
	}
	return players[idx], nil
}

func listCommand(catalog store.CatalogStore) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all formations",
		Action: func(cCtx *cli.Context) error {
			formations := catalog.Formations()
			if len(formations) == 0 {
				fmt.Println("no formations yet; create one with `pitchbook new <name>`")
				return nil
			}
			for i, f := range formations {
				fmt.Printf("%3d  %s  %s  %s\n", i, f.ID.String()[:8], f.CreatedAt.Format(listTimeFormat), f.Name)
			}
			return nil
		},
	}
}

func newCommand(catalog store.CatalogStore) *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a new formation with the default lineup",
		ArgsUsage: "<name>",
		Action: func(cCtx *cli.Context) error {
			name := strings.TrimSpace(strings.Join(cCtx.Args().Slice(), " "))
			if name == "" {
				return fmt.Errorf("formation name must not be empty")
			}
			formation := catalog.Add(name)
			fmt.Printf("created %s (%s)\n", formation.Name, formation.ID.String()[:8])
			return nil
		},
	}
}

func renameCommand(catalog store.CatalogStore) *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a formation",
		ArgsUsage: "<formation> <new-name>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() < 2 {
				return fmt.Errorf("usage: rename <formation> <new-name>")
			}
			formation, err := catalog.ResolveFormation(cCtx.Args().Get(0))
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(cCtx.Args().Slice()[1:], " "))
			if name == "" {
				return fmt.Errorf("formation name must not be empty")
			}
			catalog.Rename(formation.ID, name)
			return nil
		},
	}
}

func removeCommand(catalog store.CatalogStore) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove formations by list index",
		ArgsUsage: "<index>...",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() == 0 {
				return fmt.Errorf("usage: rm <index>...")
			}
			var indices []int
			for _, arg := range cCtx.Args().Slice() {
				idx, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid index %q", arg)
				}
				indices = append(indices, idx)
			}
			catalog.Remove(indices)
			return nil
		},
	}
}

func playersCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "players",
		Usage:     "Show the roster of a formation",
		ArgsUsage: "<formation>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return fmt.Errorf("usage: players <formation>")
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				for i, p := range b.Players() {
					photo := "-"
					if len(p.Photo) > 0 {
						photo = fmt.Sprintf("%d bytes", len(p.Photo))
					}
					fmt.Printf("%3d  %s  (%+.0f, %+.0f)  photo: %s  %s\n",
						i, p.ID.String()[:8], p.Position.Width, p.Position.Height, photo, p.Name)
				}
				if name, ok := b.MatchingPreset(); ok {
					fmt.Printf("layout matches preset: %s\n", name)
				}
				return nil
			})
		},
	}
}

func moveCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move a player by a width/height delta",
		ArgsUsage: "<formation> <player-index> <dw> <dh>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 4 {
				return fmt.Errorf("usage: move <formation> <player-index> <dw> <dh>")
			}
			dw, err := strconv.ParseFloat(cCtx.Args().Get(2), 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q", cCtx.Args().Get(2))
			}
			dh, err := strconv.ParseFloat(cCtx.Args().Get(3), 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q", cCtx.Args().Get(3))
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				p, err := playerByIndex(b, cCtx.Args().Get(1))
				if err != nil {
					return err
				}
				return b.MovePlayer(p.ID, dw, dh)
			})
		},
	}
}

func setNameCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "set-name",
		Usage:     "Set a player's display name",
		ArgsUsage: "<formation> <player-index> <name>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() < 3 {
				return fmt.Errorf("usage: set-name <formation> <player-index> <name>")
			}
			name := strings.Join(cCtx.Args().Slice()[2:], " ")
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				p, err := playerByIndex(b, cCtx.Args().Get(1))
				if err != nil {
					return err
				}
				return b.SetName(p.ID, name)
			})
		},
	}
}

func setPhotoCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "set-photo",
		Usage:     "Set a player's photo from an image file",
		ArgsUsage: "<formation> <player-index> <image-file>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 3 {
				return fmt.Errorf("usage: set-photo <formation> <player-index> <image-file>")
			}
			photo, err := os.ReadFile(cCtx.Args().Get(2))
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				p, err := playerByIndex(b, cCtx.Args().Get(1))
				if err != nil {
					return err
				}
				return b.SetPhoto(p.ID, photo)
			})
		},
	}
}

func presetCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "preset",
		Usage:     "Apply a named preset layout to a formation",
		ArgsUsage: "<formation> <preset-name>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 2 {
				return fmt.Errorf("usage: preset <formation> <preset-name>")
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				b.ApplyPreset(cCtx.Args().Get(1))
				return nil
			})
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "List the available preset layouts",
		Action: func(cCtx *cli.Context) error {
			for _, name := range model.PresetNames() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func matchCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Show which preset the current layout matches",
		ArgsUsage: "<formation>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return fmt.Errorf("usage: match <formation>")
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				if name, ok := b.MatchingPreset(); ok {
					fmt.Println(name)
				} else {
					fmt.Println("custom")
				}
				return nil
			})
		},
	}
}

func exportCommand(catalog store.CatalogStore, rosters store.RosterStore) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a formation snapshot as SVG",
		ArgsUsage: "<formation>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "The location to write the SVG. Can be a file path or \"-\" (for stdout).",
				Value:   stdoutCLIName,
			},
		},
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return fmt.Errorf("usage: export <formation>")
			}
			return withBoard(catalog, rosters, cCtx.Args().Get(0), func(b *board.Board) error {
				opts := snapshot.DefaultOptions()
				opts.Title = b.Formation().Name
				svg := snapshot.Generate(b.Players(), opts)

				out := cCtx.String(outputFlag)
				if out == stdoutCLIName {
					fmt.Println(svg)
					return nil
				}
				if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
					return fmt.Errorf("failed to write snapshot: %w", err)
				}
				return nil
			})
		},
	}
}
