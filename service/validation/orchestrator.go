/*
 * @module service/validation/orchestrator
 * @description 校验编排器，校验引擎的唯一公开入口：解析模型与规则集、按规则类型分发执行、聚合结果并可选回调
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 模型解析 -> 规则加载 -> 上下文构建 -> 分类型执行 -> 结果聚合 -> 可选回调
 * @rules Validate对调用方永不返回错误，任何内部故障都转化为带说明的终态结果；回调失败只记录日志
 * @dependencies gorm.io/gorm, bimhub-service/service/ifcmodel, bimhub-service/service/models
 * @refs loader.go, executor.go
 */

package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"gorm.io/gorm"
)

// Options 单次校验运行的选项
type Options struct {
	RuleSetID            string            `json:"ruleset_id,omitempty"`     // 显式指定规则集，为空时使用项目激活规则集
	MaturityLevel        *int              `json:"maturity_level,omitempty"` // 本次校验的MMI等级
	Discipline           string            `json:"discipline,omitempty"`     // 本次校验的专业范围
	RuleKinds            []models.RuleKind `json:"rule_kinds,omitempty"`     // 规则类型过滤，为空时执行全部类型
	CallbackURL          string            `json:"callback_url,omitempty"`   // 结果回调地址，尽力投递
	RestrictToElementIDs []string          `json:"element_ids,omitempty"`    // 限定校验的元素ID集合
}

// Orchestrator 校验编排器
// 依赖通过构造函数注入，规则库和模型提供者均可替换为测试替身
type Orchestrator struct {
	db         *gorm.DB
	store      ifcmodel.Store
	loader     *RuleLoader
	executors  map[models.RuleKind]Executor
	httpClient *http.Client
}

// NewOrchestrator 创建校验编排器，按固定表注册全部规则类型执行器
func NewOrchestrator(db *gorm.DB, store ifcmodel.Store) *Orchestrator {
	executors := make(map[models.RuleKind]Executor)
	for _, e := range []Executor{NewIdentityExecutor(), NewPropertyExecutor(), NewNamingExecutor()} {
		executors[e.Kind()] = e
	}
	return &Orchestrator{
		db:         db,
		store:      store,
		loader:     NewRuleLoader(db),
		executors:  executors,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Validate 执行一次模型校验，对调用方永不返回错误
// 模型不存在、规则库不可达等终态故障转化为overall_status=error的结果返回
func (o *Orchestrator) Validate(ctx context.Context, modelID string, opts Options) *models.ValidationResult {
	start := time.Now()

	var model models.BIMModel
	if err := o.db.First(&model, "id = ?", modelID).Error; err != nil {
		return o.finish(start, terminalResult(modelID, fmt.Sprintf("模型 %s 不存在或元数据查询失败: %v", modelID, err)), opts)
	}

	provider, err := o.store.Open(ctx, modelID)
	if err != nil {
		return o.finish(start, terminalResult(modelID, fmt.Sprintf("获取模型内容失败: %v", err)), opts)
	}

	ruleSet, err := o.loader.Load(modelID, opts.RuleSetID)
	if err != nil {
		return o.finish(start, terminalResult(modelID, fmt.Sprintf("加载规则集失败: %v", err)), opts)
	}

	schemaHint := model.SchemaVersion
	if schemaHint == "" {
		schemaHint = provider.SchemaVersion()
	}
	vctx := models.ValidationContext{
		ModelID:         modelID,
		MaturityLevel:   opts.MaturityLevel,
		Discipline:      opts.Discipline,
		ModelSchemaHint: schemaHint,
	}
	if len(opts.RestrictToElementIDs) > 0 {
		vctx.RestrictToElementIDs = make(map[string]bool, len(opts.RestrictToElementIDs))
		for _, id := range opts.RestrictToElementIDs {
			vctx.RestrictToElementIDs[id] = true
		}
	}

	result := &models.ValidationResult{
		ModelID:       modelID,
		RuleSetID:     ruleSet.SourceID,
		ModelSchema:   schemaHint,
		TotalElements: len(provider.ElementsOfSupertype(ifcmodel.SupertypeProduct)),
		RuleResults:   []models.RuleExecutionResult{},
		AllIssues:     []models.ValidationIssue{},
	}

	kindEnabled := o.enabledKinds(opts.RuleKinds)

	// 按规则类型分组分发，执行顺序与加载顺序一致
	grouped := ruleSet.RulesByKind()
	for _, kind := range models.AllRuleKinds {
		rules := grouped[kind]
		if len(rules) == 0 || !kindEnabled[kind] {
			continue
		}
		result.RuleResults = append(result.RuleResults, o.executors[kind].Execute(provider, rules, vctx)...)
	}

	// 必需属性集与命名规范走各自执行器的第二入口
	if kindEnabled[models.RuleKindProperty] && len(ruleSet.RequiredPsets) > 0 {
		propertyExec := o.executors[models.RuleKindProperty].(*PropertyExecutor)
		result.RuleResults = append(result.RuleResults, propertyExec.ExecuteRequiredPsets(provider, ruleSet.RequiredPsets, vctx)...)
	}
	if kindEnabled[models.RuleKindNaming] && len(ruleSet.NamingConventions) > 0 {
		namingExec := o.executors[models.RuleKindNaming].(*NamingExecutor)
		result.RuleResults = append(result.RuleResults, namingExec.ExecuteConventions(provider, ruleSet.NamingConventions, vctx)...)
	}

	distinctElements := make(map[string]bool)
	for _, rr := range result.RuleResults {
		result.AllIssues = append(result.AllIssues, rr.Issues...)
		for _, issue := range rr.Issues {
			if issue.ElementID != "" {
				distinctElements[issue.ElementID] = true
			}
		}
	}
	result.ElementsWithIssues = len(distinctElements)
	result.CountIssues()
	result.Summary = composeSummary(result, ruleSet)

	return o.finish(start, result, opts)
}

// enabledKinds 计算启用的规则类型集合，过滤为空时全部启用
func (o *Orchestrator) enabledKinds(filter []models.RuleKind) map[models.RuleKind]bool {
	enabled := make(map[models.RuleKind]bool, len(models.AllRuleKinds))
	if len(filter) == 0 {
		for _, kind := range models.AllRuleKinds {
			enabled[kind] = true
		}
		return enabled
	}
	for _, kind := range filter {
		enabled[kind] = true
	}
	return enabled
}

// finish 定稿结果: 记录时长与指标，尽力投递回调
func (o *Orchestrator) finish(start time.Time, result *models.ValidationResult, opts Options) *models.ValidationResult {
	result.DurationSeconds = time.Since(start).Seconds()
	recordRunMetrics(result)

	slog.Info("校验运行完成",
		"model_id", result.ModelID,
		"ruleset_id", result.RuleSetID,
		"status", result.OverallStatus,
		"rules", len(result.RuleResults),
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"duration_seconds", result.DurationSeconds)

	if opts.CallbackURL != "" {
		o.deliverCallback(opts.CallbackURL, result)
	}
	return result
}

// terminalResult 构造终态错误结果: overall_status=error、零规则结果、summary说明原因
func terminalResult(modelID, summary string) *models.ValidationResult {
	return &models.ValidationResult{
		ModelID:       modelID,
		RuleResults:   []models.RuleExecutionResult{},
		AllIssues:     []models.ValidationIssue{},
		OverallStatus: models.StatusError,
		Summary:       summary,
	}
}

// composeSummary 组装简短的人类可读摘要
func composeSummary(result *models.ValidationResult, ruleSet *models.RuleSet) string {
	if result.ErrorCount == 0 && result.WarningCount == 0 {
		return fmt.Sprintf("校验通过: 规则集 %s 下 %d 条规则全部满足，共检查 %d 个元素",
			ruleSet.SourceName, len(result.RuleResults), result.TotalElements)
	}
	return fmt.Sprintf("校验完成: 规则集 %s 下发现 %d 个错误、%d 个警告，涉及 %d 个元素",
		ruleSet.SourceName, result.ErrorCount, result.WarningCount, result.ElementsWithIssues)
}

// callbackPayload 回调请求体
type callbackPayload struct {
	ModelID            string                   `json:"model_id"`
	Success            bool                     `json:"success"`
	OverallStatus      string                   `json:"overall_status"`
	TotalElements      int                      `json:"total_elements"`
	ElementsWithIssues int                      `json:"elements_with_issues"`
	ErrorCount         int                      `json:"error_count"`
	WarningCount       int                      `json:"warning_count"`
	InfoCount          int                      `json:"info_count"`
	DurationSeconds    float64                  `json:"duration_seconds"`
	Summary            string                   `json:"summary"`
	FullResult         *models.ValidationResult `json:"full_result"`
}

// deliverCallback 尽力投递校验结果，失败只记录告警，不影响返回结果
func (o *Orchestrator) deliverCallback(url string, result *models.ValidationResult) {
	payload := callbackPayload{
		ModelID:            result.ModelID,
		Success:            result.OverallStatus != models.StatusError,
		OverallStatus:      result.OverallStatus,
		TotalElements:      result.TotalElements,
		ElementsWithIssues: result.ElementsWithIssues,
		ErrorCount:         result.ErrorCount,
		WarningCount:       result.WarningCount,
		InfoCount:          result.InfoCount,
		DurationSeconds:    result.DurationSeconds,
		Summary:            result.Summary,
		FullResult:         result,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("回调结果序列化失败", "url", url, "error", err)
		return
	}

	resp, err := o.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Warn("校验结果回调投递失败", "url", url, "model_id", result.ModelID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Warn("校验结果回调返回非成功状态", "url", url, "status_code", resp.StatusCode)
	}
}
