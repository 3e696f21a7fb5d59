package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pokedex_bot/docs" // 导入 swagger 文档
	"pokedex_bot/models"
	"pokedex_bot/scheduler"
	"pokedex_bot/services"
	"pokedex_bot/utils"
)

// Dependencies 路由需要的组件，Metrics 和 Scheduler 可以为空
type Dependencies struct {
	Bot       *services.ReplyBot
	Metrics   MetricsHandler
	Scheduler *scheduler.Scheduler
}

// MetricsHandler 提供 /metrics 和请求统计中间件
type MetricsHandler interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

// HealthHandler godoc
// @Summary 健康检查
// @Description 返回服务状态，启用调度器时附带任务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request, deps Dependencies) {
	data := map[string]interface{}{"status": "ok"}
	if deps.Scheduler != nil {
		data["scheduler"] = deps.Scheduler.Status()
	}
	utils.WriteSuccessResponse(w, data)
}

// PreviewHandler godoc
// @Summary 预览回复
// @Description 手动模式：跳过搜索，为指定用户、名字和语言拼装回复，不发布
// @Tags 回复
// @Produce json
// @Param handle query string true "回复对象的账号"
// @Param name query string true "任意语言的名字"
// @Param lang query string true "语言代码 (de, en, es, fr, it, ja, ko, zh)"
// @Success 200 {object} models.PreviewResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "图鉴中没有该名字"
// @Failure 422 {object} models.APIResponse "无法在字数限制内拟好回复"
// @Router /api/reply/preview [get]
func PreviewHandler(w http.ResponseWriter, r *http.Request, deps Dependencies) {
	q := r.URL.Query()
	handle, name, langCode := q.Get("handle"), q.Get("name"), q.Get("lang")
	if !utils.ValidateParam(w, "handle", handle) ||
		!utils.ValidateParam(w, "name", name) ||
		!utils.ValidateParam(w, "lang", langCode) {
		return
	}
	lang, ok := models.ParseLanguage(langCode)
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, models.CodeUnsupportedLang, map[string]interface{}{
			"lang": langCode,
		})
		return
	}

	reply, err := deps.Bot.Preview(&services.ManualOverride{Handle: handle, Name: name, Lang: lang})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, reply)
}

// RunHandler godoc
// @Summary 立即执行一轮
// @Description 搜索候选帖子并回复；dry_run 默认为 true，只返回拟好的回复不发布
// @Tags 回复
// @Produce json
// @Param dry_run query bool false "只打印不发布" default(true)
// @Success 200 {object} models.RunResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 409 {object} models.APIResponse "已有任务在执行"
// @Failure 502 {object} models.APIResponse "第三方API错误"
// @Router /api/reply/run [post]
func RunHandler(w http.ResponseWriter, r *http.Request, deps Dependencies) {
	dryRun := true
	if v := r.URL.Query().Get("dry_run"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, models.CodeInvalidParams, map[string]interface{}{
				"param": "dry_run",
			})
			return
		}
		dryRun = parsed
	}

	res, err := deps.Bot.Run(r.Context(), services.RunOptions{DryRun: dryRun})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"outcome":       res.Outcome,
		"reply":         res.Reply,
		"reply_post_id": res.ReplyPostID,
		"match":         res.Match,
		"duration_ms":   res.Duration.Milliseconds(),
	})
}

// SchedulerStatusHandler godoc
// @Summary 调度器状态
// @Tags 系统
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 404 {object} models.APIResponse "调度器未启用"
// @Router /api/scheduler/status [get]
func SchedulerStatusHandler(w http.ResponseWriter, r *http.Request, deps Dependencies) {
	if deps.Scheduler == nil {
		utils.WriteCustomErrorResponse(w, http.StatusNotFound, models.CodeInvalidParams, "调度器未启用", map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, deps.Scheduler.Status())
}

// writeServiceError 将服务层错误映射为响应码
func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *services.APIError
	switch {
	case errors.Is(err, services.ErrLookupMiss):
		utils.WriteCustomErrorResponse(w, http.StatusNotFound, models.CodeEntryNotFound, err.Error(), map[string]interface{}{})
	case errors.Is(err, services.ErrFitFailure):
		utils.WriteCustomErrorResponse(w, http.StatusUnprocessableEntity, models.CodeReplyTooLong, err.Error(), map[string]interface{}{})
	case errors.Is(err, services.ErrNoCandidateFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, models.CodeNoCandidateFound, map[string]interface{}{})
	case errors.Is(err, services.ErrRunInProgress):
		utils.WriteErrorResponse(w, http.StatusConflict, models.CodeRunInProgress, map[string]interface{}{})
	case errors.As(err, &apiErr):
		utils.WriteCustomErrorResponse(w, http.StatusBadGateway, models.CodeThirdPartyAPIError, err.Error(), map[string]interface{}{
			"status_code": apiErr.StatusCode,
		})
	default:
		utils.WriteCustomErrorResponse(w, http.StatusInternalServerError, models.CodeServerError, err.Error(), map[string]interface{}{})
	}
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r chi.Router, deps Dependencies) {
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		HealthHandler(w, r, deps)
	})

	r.Get("/api/reply/preview", func(w http.ResponseWriter, r *http.Request) {
		PreviewHandler(w, r, deps)
	})

	r.Post("/api/reply/run", func(w http.ResponseWriter, r *http.Request) {
		RunHandler(w, r, deps)
	})

	r.Get("/api/scheduler/status", func(w http.ResponseWriter, r *http.Request) {
		SchedulerStatusHandler(w, r, deps)
	})
}
