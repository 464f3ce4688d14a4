/*
 * @module service/validation/executor
 * @description 规则执行器公共契约与共享逻辑：上下文过滤、元素选择、消息模板展开和单规则故障隔离
 * @architecture 分层架构 - 校验执行层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则过滤 -> 元素选择 -> 规则检查 -> 结果定稿
 * @rules 单条规则执行失败只记录到该规则结果，不中断同批其他规则
 * @dependencies bimhub-service/service/ifcmodel, bimhub-service/service/models
 * @refs identity_executor.go, property_executor.go, naming_executor.go
 */

package validation

import (
	"fmt"
	"regexp"
	"time"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"github.com/spf13/cast"
)

// Executor 规则类型执行器契约，每种规则类型一个实现
type Executor interface {
	Kind() models.RuleKind
	Execute(p ifcmodel.Provider, rules []models.LoadedRule, ctx models.ValidationContext) []models.RuleExecutionResult
}

// ruleApplies 判断规则在当前上下文下是否适用
// 成熟度: 规则未设或上下文未设或上下文等级达到要求
// 专业: 规则未限定或上下文未设或上下文专业在限定范围内
func ruleApplies(minMaturity *int, disciplines []string, ctx models.ValidationContext) bool {
	if minMaturity != nil && ctx.MaturityLevel != nil && *ctx.MaturityLevel < *minMaturity {
		return false
	}
	if len(disciplines) > 0 && ctx.Discipline != "" {
		found := false
		for _, d := range disciplines {
			if d == ctx.Discipline {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// typeHierarchy 模型提供者可选实现的类型层级查询能力
type typeHierarchy interface {
	IsSubtype(typeTag, supertype string) bool
}

// matchesType 判断元素类型是否命中限定类型
// 提供者支持类型层级时限定类型覆盖其子类型（IfcWall命中IfcWallStandardCase）
func matchesType(p ifcmodel.Provider, typeTag string, appliesToTypes []string) bool {
	hier, hasHier := p.(typeHierarchy)
	for _, t := range appliesToTypes {
		if typeTag == t {
			return true
		}
		if hasHier && hier.IsSubtype(typeTag, t) {
			return true
		}
	}
	return false
}

// selectElements 选择规则作用的元素集合
// 从产品类父类型全集出发，先按规则的类型限定收窄（含子类型），再按上下文的元素ID限定收窄
func selectElements(p ifcmodel.Provider, appliesToTypes []string, ctx models.ValidationContext) []ifcmodel.Element {
	elements := p.ElementsOfSupertype(ifcmodel.SupertypeProduct)

	if len(appliesToTypes) > 0 {
		filtered := make([]ifcmodel.Element, 0, len(elements))
		for _, el := range elements {
			if matchesType(p, el.TypeTag, appliesToTypes) {
				filtered = append(filtered, el)
			}
		}
		elements = filtered
	}

	if ctx.RestrictToElementIDs != nil {
		filtered := make([]ifcmodel.Element, 0, len(elements))
		for _, el := range elements {
			if ctx.RestrictToElementIDs[el.ID] {
				filtered = append(filtered, el)
			}
		}
		elements = filtered
	}

	return elements
}

// elementsOfType 按具体类型选择元素，供必需属性集规则按类型分组使用
func elementsOfType(p ifcmodel.Provider, elementType string, ctx models.ValidationContext) []ifcmodel.Element {
	return selectElements(p, []string{elementType}, ctx)
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// formatMessage 展开消息模板中的命名占位符
// 模板为空或占位符缺失时回退到默认消息，不抛错误
func formatMessage(template string, values map[string]interface{}, fallback string) string {
	if template == "" {
		return fallback
	}
	missing := false
	msg := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := token[1 : len(token)-1]
		if v, ok := values[key]; ok {
			return cast.ToString(v)
		}
		missing = true
		return token
	})
	if missing && fallback != "" {
		return fallback
	}
	return msg
}

// runRule 执行单条规则并隔离故障
// check过程中的panic被捕获为ExecutionError，不影响同批其他规则
func runRule(rule models.LoadedRule, check func(res *models.RuleExecutionResult)) models.RuleExecutionResult {
	start := time.Now()
	res := models.RuleExecutionResult{
		RuleCode: rule.Code,
		RuleName: rule.Name,
		Kind:     rule.Kind,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				res.ExecutionError = fmt.Sprintf("规则执行异常: %v", r)
			}
		}()
		check(&res)
	}()

	res.DurationMS = time.Since(start).Milliseconds()
	res.Finalize()
	return res
}

// skippedForContext 返回规则是否因上下文不适用而跳过（跳过的规则不产生任何结果）
func skippedForContext(rule models.LoadedRule, ctx models.ValidationContext) bool {
	return !rule.Active || !ruleApplies(rule.MinMaturityLevel, rule.AppliesToDisciplines, ctx)
}
