/*
 * @module service/validation/identity_executor
 * @description 标识规则执行器，检查元素GlobalId的唯一性和格式
 * @architecture 分层架构 - 校验执行层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则过滤 -> 元素选择 -> 唯一性/格式检查 -> 问题汇总
 * @rules 重复GlobalId对每个持有元素各产生一条问题，而不是每组一条
 * @dependencies bimhub-service/service/ifcmodel, bimhub-service/service/models
 * @refs executor.go
 */

package validation

import (
	"fmt"
	"regexp"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"
)

// IFC GlobalId: 22位base64变体字符
var guidPattern = regexp.MustCompile(`^[0-9A-Za-z_$]{22}$`)

// IdentityExecutor 标识规则执行器
type IdentityExecutor struct{}

// NewIdentityExecutor 创建标识规则执行器
func NewIdentityExecutor() *IdentityExecutor {
	return &IdentityExecutor{}
}

// Kind 返回执行器处理的规则类型
func (e *IdentityExecutor) Kind() models.RuleKind {
	return models.RuleKindIdentity
}

// Execute 执行一批标识规则
func (e *IdentityExecutor) Execute(p ifcmodel.Provider, rules []models.LoadedRule, ctx models.ValidationContext) []models.RuleExecutionResult {
	results := make([]models.RuleExecutionResult, 0, len(rules))
	for _, rule := range rules {
		if skippedForContext(rule, ctx) {
			continue
		}
		rule := rule
		results = append(results, runRule(rule, func(res *models.RuleExecutionResult) {
			elements := selectElements(p, rule.AppliesToTypes, ctx)

			checkKind := models.IdentityCheckAll
			if rule.Identity != nil && rule.Identity.Kind != "" {
				checkKind = rule.Identity.Kind
			}

			switch checkKind {
			case models.IdentityCheckUniqueness:
				checked, passed, issues := e.checkUniqueness(rule, elements)
				res.ElementsChecked = checked
				res.ElementsPassed = passed
				res.ElementsFailed = checked - passed
				res.Issues = issues
			case models.IdentityCheckFormat:
				checked, passed, issues := e.checkFormat(rule, elements)
				res.ElementsChecked = checked
				res.ElementsPassed = passed
				res.ElementsFailed = checked - passed
				res.Issues = issues
			default: // all: 两项检查取并集，checked取最大值，passed取保守最小值
				uChecked, uPassed, uIssues := e.checkUniqueness(rule, elements)
				fChecked, fPassed, fIssues := e.checkFormat(rule, elements)
				res.ElementsChecked = uChecked
				if fChecked > uChecked {
					res.ElementsChecked = fChecked
				}
				res.ElementsPassed = uPassed
				if fPassed < uPassed {
					res.ElementsPassed = fPassed
				}
				res.ElementsFailed = res.ElementsChecked - res.ElementsPassed
				res.Issues = append(uIssues, fIssues...)
			}
		}))
	}
	return results
}

// checkUniqueness GlobalId唯一性检查
// 只统计携带稳定标识的元素；同一GlobalId被多个元素持有时，每个持有元素各产生一条问题
func (e *IdentityExecutor) checkUniqueness(rule models.LoadedRule, elements []ifcmodel.Element) (checked, passed int, issues []models.ValidationIssue) {
	owners := make(map[string][]ifcmodel.Element)
	order := make([]string, 0)
	for _, el := range elements {
		if el.GlobalID == "" {
			continue
		}
		if _, seen := owners[el.GlobalID]; !seen {
			order = append(order, el.GlobalID)
		}
		owners[el.GlobalID] = append(owners[el.GlobalID], el)
		checked++
	}

	failed := 0
	for _, guid := range order {
		group := owners[guid]
		if len(group) <= 1 {
			continue
		}
		failed += len(group)
		types := make([]string, 0, len(group))
		for _, el := range group {
			types = append(types, el.TypeTag)
		}
		for _, el := range group {
			name, _ := el.NameValue()
			issues = append(issues, models.ValidationIssue{
				RuleCode:    rule.Code,
				RuleName:    rule.Name,
				Kind:        rule.Kind,
				Severity:    rule.Severity,
				ElementID:   el.ID,
				ElementType: el.TypeTag,
				ElementName: name,
				Message: formatMessage(rule.MessageTemplate,
					map[string]interface{}{"guid": guid, "count": len(group)},
					fmt.Sprintf("GlobalId %s 被 %d 个元素重复使用", guid, len(group))),
				Details: models.JSONB{
					"guid":            guid,
					"duplicate_count": len(group),
					"element_types":   types,
				},
			})
		}
	}
	return checked, checked - failed, issues
}

// checkFormat GlobalId格式检查，缺失或不符合22位标识字符集的元素各产生一条问题
func (e *IdentityExecutor) checkFormat(rule models.LoadedRule, elements []ifcmodel.Element) (checked, passed int, issues []models.ValidationIssue) {
	checked = len(elements)
	for _, el := range elements {
		if el.GlobalID != "" && guidPattern.MatchString(el.GlobalID) {
			passed++
			continue
		}
		name, _ := el.NameValue()
		reason := "GlobalId缺失"
		if el.GlobalID != "" {
			reason = fmt.Sprintf("GlobalId %q 不符合22位标识格式", el.GlobalID)
		}
		issues = append(issues, models.ValidationIssue{
			RuleCode:    rule.Code,
			RuleName:    rule.Name,
			Kind:        rule.Kind,
			Severity:    rule.Severity,
			ElementID:   el.ID,
			ElementType: el.TypeTag,
			ElementName: name,
			Message: formatMessage(rule.MessageTemplate,
				map[string]interface{}{"guid": el.GlobalID, "element_type": el.TypeTag},
				reason),
			Details: models.JSONB{"guid": el.GlobalID},
		})
	}
	return checked, passed, issues
}
