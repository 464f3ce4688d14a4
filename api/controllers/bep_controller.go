/*
 * @module api/controllers/bep_controller
 * @description BEP规则库管理控制器，提供项目、模型、规则集及规则定义的管理接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 请求接收 -> 业务逻辑处理 -> 响应返回
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies net/http, bimhub-service/service
 * @refs service/bep/service.go
 */

package controllers

import (
	"net/http"

	"bimhub-service/service"
	"bimhub-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// BEPController BEP规则库管理控制器
type BEPController struct{}

// NewBEPController 创建BEP规则库管理控制器实例
func NewBEPController() *BEPController {
	return &BEPController{}
}

// CreateRuleSet 创建规则集
// @Summary 创建BEP规则集
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param ruleset body models.BEPRuleSet true "规则集信息"
// @Success 200 {object} APIResponse{data=models.BEPRuleSet}
// @Failure 400 {object} APIResponse
// @Router /bep/rulesets [post]
func (c *BEPController) CreateRuleSet(w http.ResponseWriter, r *http.Request) {
	var ruleSet models.BEPRuleSet
	if err := render.DecodeJSON(r.Body, &ruleSet); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := service.GlobalBEPService.CreateRuleSet(&ruleSet); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建规则集失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建规则集成功", ruleSet))
}

// ListRuleSets 获取规则集列表
// @Summary 按项目获取规则集列表
// @Tags BEP规则库
// @Produce json
// @Param project_id query string false "项目ID"
// @Success 200 {object} APIResponse{data=[]models.BEPRuleSet}
// @Router /bep/rulesets [get]
func (c *BEPController) ListRuleSets(w http.ResponseWriter, r *http.Request) {
	ruleSets, err := service.GlobalBEPService.ListRuleSets(r.URL.Query().Get("project_id"))
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取规则集列表失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("获取规则集列表成功", ruleSets))
}

// GetRuleSet 获取规则集详情
// @Summary 获取规则集详情
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse{data=models.BEPRuleSet}
// @Failure 404 {object} APIResponse
// @Router /bep/rulesets/{id} [get]
func (c *BEPController) GetRuleSet(w http.ResponseWriter, r *http.Request) {
	ruleSet, err := service.GlobalBEPService.GetRuleSet(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, NotFoundResponse("规则集不存在"))
		return
	}
	render.JSON(w, r, SuccessResponse("获取规则集详情成功", ruleSet))
}

// UpdateRuleSet 更新规则集
// @Summary 更新规则集基本信息
// @Description 更新规则集名称、描述等字段，激活状态需通过激活接口变更
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param id path string true "规则集ID"
// @Param updates body object true "更新字段"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /bep/rulesets/{id} [put]
func (c *BEPController) UpdateRuleSet(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := service.GlobalBEPService.UpdateRuleSet(chi.URLParam(r, "id"), updates); err != nil {
		render.JSON(w, r, InternalErrorResponse("更新规则集失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("更新规则集成功", nil))
}

// ActivateRuleSet 激活规则集
// @Summary 激活规则集
// @Description 激活指定规则集，同项目其他规则集自动取消激活
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /bep/rulesets/{id}/activate [post]
func (c *BEPController) ActivateRuleSet(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalBEPService.ActivateRuleSet(chi.URLParam(r, "id")); err != nil {
		render.JSON(w, r, InternalErrorResponse("激活规则集失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("激活规则集成功", nil))
}

// DeleteRuleSet 删除规则集
// @Summary 删除规则集及其全部规则定义
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /bep/rulesets/{id} [delete]
func (c *BEPController) DeleteRuleSet(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalBEPService.DeleteRuleSet(chi.URLParam(r, "id")); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除规则集失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("删除规则集成功", nil))
}

// CreateRule 创建校验规则
// @Summary 在规则集下创建校验规则
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param id path string true "规则集ID"
// @Param rule body models.ValidationRule true "校验规则"
// @Success 200 {object} APIResponse{data=models.ValidationRule}
// @Failure 400 {object} APIResponse
// @Router /bep/rulesets/{id}/rules [post]
func (c *BEPController) CreateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.ValidationRule
	if err := render.DecodeJSON(r.Body, &rule); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	rule.RuleSetID = chi.URLParam(r, "id")
	if err := service.GlobalBEPService.CreateRule(&rule); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建校验规则失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建校验规则成功", rule))
}

// ListRules 获取规则集下的校验规则
// @Summary 获取规则集下的校验规则列表
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse{data=[]models.ValidationRule}
// @Router /bep/rulesets/{id}/rules [get]
func (c *BEPController) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := service.GlobalBEPService.ListRules(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取校验规则列表失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("获取校验规则列表成功", rules))
}

// UpdateRule 更新校验规则
// @Summary 更新校验规则
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param rule_id path string true "规则ID"
// @Param updates body object true "更新字段"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /bep/rules/{rule_id} [put]
func (c *BEPController) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := render.DecodeJSON(r.Body, &updates); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := service.GlobalBEPService.UpdateRule(chi.URLParam(r, "rule_id"), updates); err != nil {
		render.JSON(w, r, InternalErrorResponse("更新校验规则失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("更新校验规则成功", nil))
}

// DeleteRule 删除校验规则
// @Summary 删除校验规则
// @Tags BEP规则库
// @Produce json
// @Param rule_id path string true "规则ID"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /bep/rules/{rule_id} [delete]
func (c *BEPController) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalBEPService.DeleteRule(chi.URLParam(r, "rule_id")); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除校验规则失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("删除校验规则成功", nil))
}

// CreateRequiredPset 创建必需属性集规则
// @Summary 在规则集下创建必需属性集规则
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param id path string true "规则集ID"
// @Param pset body models.RequiredPropertySet true "必需属性集规则"
// @Success 200 {object} APIResponse{data=models.RequiredPropertySet}
// @Failure 400 {object} APIResponse
// @Router /bep/rulesets/{id}/required-psets [post]
func (c *BEPController) CreateRequiredPset(w http.ResponseWriter, r *http.Request) {
	var pset models.RequiredPropertySet
	if err := render.DecodeJSON(r.Body, &pset); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	pset.RuleSetID = chi.URLParam(r, "id")
	if err := service.GlobalBEPService.CreateRequiredPset(&pset); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建必需属性集规则失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建必需属性集规则成功", pset))
}

// ListRequiredPsets 获取必需属性集规则列表
// @Summary 获取规则集下的必需属性集规则列表
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse{data=[]models.RequiredPropertySet}
// @Router /bep/rulesets/{id}/required-psets [get]
func (c *BEPController) ListRequiredPsets(w http.ResponseWriter, r *http.Request) {
	psets, err := service.GlobalBEPService.ListRequiredPsets(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取必需属性集规则列表失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("获取必需属性集规则列表成功", psets))
}

// DeleteRequiredPset 删除必需属性集规则
// @Summary 删除必需属性集规则
// @Tags BEP规则库
// @Produce json
// @Param pset_id path string true "规则ID"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /bep/required-psets/{pset_id} [delete]
func (c *BEPController) DeleteRequiredPset(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalBEPService.DeleteRequiredPset(chi.URLParam(r, "pset_id")); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除必需属性集规则失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("删除必需属性集规则成功", nil))
}

// CreateNamingConvention 创建命名规范
// @Summary 在规则集下创建命名规范
// @Tags BEP规则库
// @Accept json
// @Produce json
// @Param id path string true "规则集ID"
// @Param convention body models.NamingConvention true "命名规范"
// @Success 200 {object} APIResponse{data=models.NamingConvention}
// @Failure 400 {object} APIResponse
// @Router /bep/rulesets/{id}/naming-conventions [post]
func (c *BEPController) CreateNamingConvention(w http.ResponseWriter, r *http.Request) {
	var conv models.NamingConvention
	if err := render.DecodeJSON(r.Body, &conv); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	conv.RuleSetID = chi.URLParam(r, "id")
	if err := service.GlobalBEPService.CreateNamingConvention(&conv); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建命名规范失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建命名规范成功", conv))
}

// ListNamingConventions 获取命名规范列表
// @Summary 获取规则集下的命名规范列表
// @Tags BEP规则库
// @Produce json
// @Param id path string true "规则集ID"
// @Success 200 {object} APIResponse{data=[]models.NamingConvention}
// @Router /bep/rulesets/{id}/naming-conventions [get]
func (c *BEPController) ListNamingConventions(w http.ResponseWriter, r *http.Request) {
	conventions, err := service.GlobalBEPService.ListNamingConventions(chi.URLParam(r, "id"))
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取命名规范列表失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("获取命名规范列表成功", conventions))
}

// DeleteNamingConvention 删除命名规范
// @Summary 删除命名规范
// @Tags BEP规则库
// @Produce json
// @Param convention_id path string true "规范ID"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /bep/naming-conventions/{convention_id} [delete]
func (c *BEPController) DeleteNamingConvention(w http.ResponseWriter, r *http.Request) {
	if err := service.GlobalBEPService.DeleteNamingConvention(chi.URLParam(r, "convention_id")); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除命名规范失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("删除命名规范成功", nil))
}

// CreateProject 创建项目
// @Summary 创建项目
// @Tags 项目管理
// @Accept json
// @Produce json
// @Param project body models.Project true "项目信息"
// @Success 200 {object} APIResponse{data=models.Project}
// @Failure 400 {object} APIResponse
// @Router /projects [post]
func (c *BEPController) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := render.DecodeJSON(r.Body, &project); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := service.GlobalBEPService.CreateProject(&project); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建项目失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建项目成功", project))
}

// CreateModel 登记BIM模型
// @Summary 登记BIM模型元数据
// @Tags 项目管理
// @Accept json
// @Produce json
// @Param model body models.BIMModel true "模型元数据"
// @Success 200 {object} APIResponse{data=models.BIMModel}
// @Failure 400 {object} APIResponse
// @Router /models [post]
func (c *BEPController) CreateModel(w http.ResponseWriter, r *http.Request) {
	var model models.BIMModel
	if err := render.DecodeJSON(r.Body, &model); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := service.GlobalBEPService.CreateModel(&model); err != nil {
		render.JSON(w, r, InternalErrorResponse("登记BIM模型失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("登记BIM模型成功", model))
}

// ListModels 获取模型列表
// @Summary 按项目获取BIM模型列表
// @Tags 项目管理
// @Produce json
// @Param project_id query string false "项目ID"
// @Success 200 {object} APIResponse{data=[]models.BIMModel}
// @Router /models [get]
func (c *BEPController) ListModels(w http.ResponseWriter, r *http.Request) {
	bimModels, err := service.GlobalBEPService.ListModels(r.URL.Query().Get("project_id"))
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取模型列表失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("获取模型列表成功", bimModels))
}
