package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pokedex_bot/config"
	"pokedex_bot/logger"
)

// Job 定时执行的任务
type Job func(ctx context.Context) error

// TaskStatus 任务状态
type TaskStatus struct {
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	IsRunning   bool      `json:"is_running"`
	Runs        int       `json:"runs"`
	LastError   string    `json:"last_error,omitempty"`
	Description string    `json:"description"`
}

// 任务调度器，同一时间只运行一个任务
type Scheduler struct {
	schedule      cron.Schedule
	checkInterval time.Duration
	job           Job
	status        TaskStatus
	mutex         sync.Mutex
	wg            sync.WaitGroup
}

// ScheduleSpec 返回 cron 表达式，未配置 cron 时按 interval_min 生成 "@every"
func ScheduleSpec(cfg *config.Config) string {
	if spec := strings.TrimSpace(cfg.Scheduler.Cron); spec != "" {
		return spec
	}
	interval := cfg.Scheduler.IntervalMin
	if interval <= 0 {
		interval = 30
	}
	return fmt.Sprintf("@every %dm", interval)
}

// NewScheduler 创建调度器，第一次运行时间为当前时间
func NewScheduler(cfg *config.Config, job Job) (*Scheduler, error) {
	spec := ScheduleSpec(cfg)
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("解析调度表达式 %q 失败: %w", spec, err)
	}

	checkInterval := cfg.Scheduler.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60 // 默认值
	}

	return &Scheduler{
		schedule:      schedule,
		checkInterval: time.Duration(checkInterval) * time.Second,
		job:           job,
		status: TaskStatus{
			NextRun:     time.Now(),
			Description: fmt.Sprintf("搜索并回复 (%s)", spec),
		},
	}, nil
}

// Start 创建调度器并在后台运行，ctx 取消后停止
func Start(ctx context.Context, cfg *config.Config, job Job) (*Scheduler, error) {
	s, err := NewScheduler(cfg, job)
	if err != nil {
		return nil, err
	}
	go s.Run(ctx)
	logger.Info("调度器已启动", "schedule", ScheduleSpec(cfg), "check_interval", s.checkInterval.String())
	return s, nil
}

// Run 主循环，阻塞到 ctx 取消并等待正在运行的任务结束
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.checkTasks(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("调度器已停止")
			return
		case now := <-ticker.C:
			s.checkTasks(ctx, now)
		}
	}
}

// Status 返回任务状态的副本
func (s *Scheduler) Status() TaskStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

// 检查任务
func (s *Scheduler) checkTasks(ctx context.Context, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// 如果任务正在运行，跳过
	if s.status.IsRunning || ctx.Err() != nil {
		return
	}
	if now.Before(s.status.NextRun) {
		return
	}

	s.status.IsRunning = true
	s.wg.Add(1)
	go s.runTask(ctx, now)
}

// 运行任务
func (s *Scheduler) runTask(ctx context.Context, now time.Time) {
	defer s.wg.Done()

	logger.Info("开始执行任务", "task", s.Status().Description)
	err := s.job(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status.IsRunning = false
	s.status.LastRun = now
	s.status.Runs++
	s.status.NextRun = s.schedule.Next(time.Now())
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
		logger.Error("任务执行失败", "task", s.status.Description, "error", err)
	}
	logger.Info("任务执行完成", "task", s.status.Description, "next_run", s.status.NextRun.Format("2006-01-02 15:04:05"))
}
