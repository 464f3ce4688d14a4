/*
 * @module api/controllers/validation_controller
 * @description 模型校验控制器，触发校验运行并返回校验结果
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 请求接收 -> 校验编排器调用 -> 结果返回
 * @rules 校验引擎永不抛出故障，终态错误同样以结果形式返回给调用方
 * @dependencies net/http, bimhub-service/service
 * @refs service/validation/orchestrator.go
 */

package controllers

import (
	"net/http"

	"bimhub-service/service"
	"bimhub-service/service/models"
	"bimhub-service/service/validation"

	"github.com/go-chi/render"
)

// ValidationController 模型校验控制器
type ValidationController struct{}

// NewValidationController 创建模型校验控制器实例
func NewValidationController() *ValidationController {
	return &ValidationController{}
}

// ValidateRequest 校验运行请求
type ValidateRequest struct {
	ModelID       string   `json:"model_id"`
	RuleSetID     string   `json:"ruleset_id,omitempty"`
	MaturityLevel *int     `json:"maturity_level,omitempty"`
	Discipline    string   `json:"discipline,omitempty"`
	RuleKinds     []string `json:"rule_kinds,omitempty"`
	CallbackURL   string   `json:"callback_url,omitempty"`
	ElementIDs    []string `json:"element_ids,omitempty"`
}

// RunValidation 触发模型校验
// @Summary 触发模型校验
// @Description 对指定模型执行一次BEP规则校验并同步返回完整结果
// @Tags 模型校验
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "校验运行参数"
// @Success 200 {object} APIResponse{data=models.ValidationResult}
// @Failure 400 {object} APIResponse
// @Router /validation/run [post]
func (c *ValidationController) RunValidation(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.ModelID == "" {
		render.JSON(w, r, BadRequestResponse("model_id不能为空", nil))
		return
	}

	opts := validation.Options{
		RuleSetID:            req.RuleSetID,
		MaturityLevel:        req.MaturityLevel,
		Discipline:           req.Discipline,
		CallbackURL:          req.CallbackURL,
		RestrictToElementIDs: req.ElementIDs,
	}
	for _, kind := range req.RuleKinds {
		ruleKind := models.RuleKind(kind)
		if !ruleKind.IsValid() {
			render.JSON(w, r, BadRequestResponse("未知的规则类型: "+kind, nil))
			return
		}
		opts.RuleKinds = append(opts.RuleKinds, ruleKind)
	}

	result := service.GlobalOrchestrator.Validate(r.Context(), req.ModelID, opts)
	render.JSON(w, r, SuccessResponse("校验运行完成", result))
}
