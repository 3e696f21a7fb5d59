package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pokedex_bot/config"
	"pokedex_bot/logger"
	"pokedex_bot/scheduler"
	"pokedex_bot/services"
	"pokedex_bot/utils"
)

// rootOptions 所有子命令共享的全局参数
type rootOptions struct {
	configFile string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var (
		dryRun bool
		once   bool
		manual string
	)

	root := &cobra.Command{
		Use:   "pokedex-bot",
		Short: "Reply to posts that mention a Pokémon with its Pokédex entry",
		Long: `pokedex-bot searches recent posts for Pokémon names, picks one eligible post
and replies with the Pokédex entry for that Pokémon in the author's language.

Without --once the bot keeps running on the configured schedule.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *services.ManualOverride
			if manual != "" {
				m, err := services.ParseManualOverride(manual)
				if err != nil {
					return err
				}
				override = m
			}
			// 手动模式只打印，不会访问网络
			if override == nil {
				if err := opts.cfg.Twitter.Credentials.Validate(); err != nil {
					return err
				}
			}

			a, err := newApp(opts.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runOpts := services.RunOptions{DryRun: dryRun, Manual: override}
			if once || override != nil {
				return runOnce(cmd.Context(), a, runOpts)
			}
			return runScheduled(cmd.Context(), a, runOpts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "config.yaml", "配置文件路径")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "只打印回复，不发布")
	root.Flags().BoolVar(&once, "once", false, "只执行一轮后退出")
	root.Flags().StringVar(&manual, "manual", "", "手动指定回复对象：handle,name,lang（只打印）")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newVerifyCmd(opts))
	return root
}

// load 读取配置并初始化日志
func (o *rootOptions) load() error {
	o.cfg = config.Load(o.configFile)
	if err := logger.Init(o.cfg); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	if o.verbose {
		if err := logger.SetVerbose(o.cfg); err != nil {
			return fmt.Errorf("init logger failed: %w", err)
		}
	}
	logger.Debug("日志系统初始化成功", "level", o.cfg.Log.Level, "format", o.cfg.Log.Format, "output", o.cfg.Log.Output)
	return nil
}

func runOnce(ctx context.Context, a *app, opts services.RunOptions) error {
	result, err := a.bot.Run(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("本轮结束", "outcome", result.Outcome, "duration", result.Duration)
	if result.ReplyPostID != "" {
		logger.Info("回复已发布", "url", services.StatusURL(result.ReplyPostID))
	}
	return nil
}

// botJob 把机器人的一轮执行包装成定时任务
func botJob(a *app, opts services.RunOptions) scheduler.Job {
	return func(ctx context.Context) error {
		result, err := a.bot.Run(ctx, opts)
		if errors.Is(err, services.ErrRunInProgress) {
			logger.Warn("上一轮还未结束，跳过")
			return nil
		}
		if utils.IsCanceled(err) {
			logger.Info("本轮被取消", "error", err)
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("本轮结束", "outcome", result.Outcome, "duration", result.Duration)
		return nil
	}
}

func runScheduled(ctx context.Context, a *app, opts services.RunOptions) error {
	s, err := scheduler.NewScheduler(a.cfg, botJob(a, opts))
	if err != nil {
		return err
	}
	logger.Info("调度器启动", "schedule", scheduler.ScheduleSpec(a.cfg), "dry_run", opts.DryRun)
	s.Run(ctx)
	return nil
}
