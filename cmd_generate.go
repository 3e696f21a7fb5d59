package main

import (
	"github.com/spf13/cobra"

	"pokedex_bot/logger"
	"pokedex_bot/repository"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		source string
		out    string
		maxID  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the Pokédex JSON file from veekun CSV exports",
		Example: `  pokedex-bot generate --source pokedex/data/csv --out data/pokedex.json
  pokedex-bot generate --source pokedex/data/csv --max-id 251`,
		RunE: func(cmd *cobra.Command, args []string) error {
			languages, err := parseLanguages(opts.cfg.Bot.Languages)
			if err != nil {
				return err
			}
			if out == "" {
				out = opts.cfg.Pokedex.DataPath
			}

			entries, err := repository.ImportVeekun(source, repository.ImportOptions{
				MaxID:     maxID,
				Languages: languages,
			})
			if err != nil {
				return err
			}
			if err := repository.WritePokedex(out, entries); err != nil {
				return err
			}
			logger.Info("图鉴生成完成", "source", source, "out", out, "entries", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "pokedex/data/csv", "veekun CSV 目录")
	cmd.Flags().StringVar(&out, "out", "", "输出文件，默认使用配置中的 pokedex.data_path")
	cmd.Flags().IntVar(&maxID, "max-id", repository.DefaultMaxSpeciesID, "最大图鉴编号")
	return cmd
}
