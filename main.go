package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "pokedex_bot/docs" // 导入 swagger 文档
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		stop()
		os.Exit(1)
	}
}
