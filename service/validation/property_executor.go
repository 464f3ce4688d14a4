/*
 * @module service/validation/property_executor
 * @description 属性规则执行器，检查属性集存在性、属性存在性及属性值约束，并执行必需属性集规则
 * @architecture 分层架构 - 校验执行层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则过滤 -> 元素选择 -> 属性集遍历 -> 约束校验 -> 问题汇总
 * @rules 属性集整体缺失时只报一条属性集级问题，不再逐属性重复报告；缺失的属性只报存在性，不再做值校验
 * @dependencies bimhub-service/service/ifcmodel, bimhub-service/service/models, github.com/spf13/cast
 * @refs executor.go
 */

package validation

import (
	"fmt"
	"reflect"
	"regexp"

	"bimhub-service/service/ifcmodel"
	"bimhub-service/service/models"

	"github.com/spf13/cast"
)

// PropertyExecutor 属性规则执行器
type PropertyExecutor struct{}

// NewPropertyExecutor 创建属性规则执行器
func NewPropertyExecutor() *PropertyExecutor {
	return &PropertyExecutor{}
}

// Kind 返回执行器处理的规则类型
func (e *PropertyExecutor) Kind() models.RuleKind {
	return models.RuleKindProperty
}

// Execute 执行一批临时属性规则（has_pset/has_property/property_value）
func (e *PropertyExecutor) Execute(p ifcmodel.Provider, rules []models.LoadedRule, ctx models.ValidationContext) []models.RuleExecutionResult {
	results := make([]models.RuleExecutionResult, 0, len(rules))
	for _, rule := range rules {
		if skippedForContext(rule, ctx) {
			continue
		}
		rule := rule
		results = append(results, runRule(rule, func(res *models.RuleExecutionResult) {
			if rule.Property == nil || rule.Property.PsetName == "" {
				res.ExecutionError = "属性规则缺少pset_name定义"
				return
			}
			check := rule.Property
			elements := selectElements(p, rule.AppliesToTypes, ctx)
			res.ElementsChecked = len(elements)

			for _, el := range elements {
				issue := e.checkElement(rule, check, el, p.ElementPropertySets(el))
				if issue != nil {
					res.ElementsFailed++
					res.Issues = append(res.Issues, *issue)
				} else {
					res.ElementsPassed++
				}
			}
		}))
	}
	return results
}

// checkElement 对单个元素执行临时属性检查，每个失败元素产生一条问题
func (e *PropertyExecutor) checkElement(rule models.LoadedRule, check *models.PropertyCheck, el ifcmodel.Element, psets ifcmodel.PropertySets) *models.ValidationIssue {
	name, _ := el.NameValue()
	issue := func(message, propertyName string, details models.JSONB) *models.ValidationIssue {
		return &models.ValidationIssue{
			RuleCode:     rule.Code,
			RuleName:     rule.Name,
			Kind:         rule.Kind,
			Severity:     rule.Severity,
			ElementID:    el.ID,
			ElementType:  el.TypeTag,
			ElementName:  name,
			PsetName:     check.PsetName,
			PropertyName: propertyName,
			Message: formatMessage(rule.MessageTemplate, map[string]interface{}{
				"pset":         check.PsetName,
				"property":     propertyName,
				"element_type": el.TypeTag,
			}, message),
			Details: details,
		}
	}

	pset, hasPset := psets[check.PsetName]

	switch check.Kind {
	case models.PropertyCheckHasPset:
		if !hasPset {
			return issue(fmt.Sprintf("元素缺少属性集 %s", check.PsetName), "", nil)
		}
	case models.PropertyCheckHasProp:
		if !hasPset {
			return issue(fmt.Sprintf("元素缺少属性集 %s，无法检查属性 %s", check.PsetName, check.PropertyName), check.PropertyName, nil)
		}
		if _, hasProp := pset[check.PropertyName]; !hasProp {
			return issue(fmt.Sprintf("属性集 %s 缺少属性 %s", check.PsetName, check.PropertyName), check.PropertyName, nil)
		}
	case models.PropertyCheckValue:
		if !hasPset {
			return issue(fmt.Sprintf("元素缺少属性集 %s", check.PsetName), check.PropertyName, nil)
		}
		value, hasProp := pset[check.PropertyName]
		if !hasProp {
			// 缺失只报存在性，值校验仅对存在的属性执行
			return issue(fmt.Sprintf("属性集 %s 缺少属性 %s", check.PsetName, check.PropertyName), check.PropertyName, nil)
		}
		if ok, reason := validateConstraint(value, check.Validation); !ok {
			return issue(fmt.Sprintf("属性 %s.%s %s", check.PsetName, check.PropertyName, reason),
				check.PropertyName, models.JSONB{"value": value})
		}
	}
	return nil
}

// ExecuteRequiredPsets 执行必需属性集规则（第二入口，来自独立的规则集合）
// 规则按目标元素类型分组执行；属性集整体缺失只报一条问题并跳过逐属性检查
func (e *PropertyExecutor) ExecuteRequiredPsets(p ifcmodel.Provider, rules []models.RequiredPropertySetRule, ctx models.ValidationContext) []models.RuleExecutionResult {
	// 按元素类型分批取元素，同类型多条规则复用同一次选择
	elementsByType := make(map[string][]ifcmodel.Element)

	results := make([]models.RuleExecutionResult, 0, len(rules))
	for _, rule := range rules {
		if !ruleApplies(rule.MinMaturityLevel, rule.AppliesToDisciplines, ctx) {
			continue
		}
		rule := rule
		loaded := models.LoadedRule{
			Code:     fmt.Sprintf("PSET_%s_%s", rule.ElementType, rule.PsetName),
			Name:     fmt.Sprintf("必需属性集 %s (%s)", rule.PsetName, rule.ElementType),
			Kind:     models.RuleKindProperty,
			Severity: rule.Severity,
		}
		results = append(results, runRule(loaded, func(res *models.RuleExecutionResult) {
			elements, cached := elementsByType[rule.ElementType]
			if !cached {
				elements = elementsOfType(p, rule.ElementType, ctx)
				elementsByType[rule.ElementType] = elements
			}
			res.ElementsChecked = len(elements)

			for _, el := range elements {
				issues := e.checkRequiredPset(loaded, rule, el, p.ElementPropertySets(el))
				if len(issues) > 0 {
					res.ElementsFailed++
					res.Issues = append(res.Issues, issues...)
				} else {
					res.ElementsPassed++
				}
			}
		}))
	}
	return results
}

// checkRequiredPset 对单个元素检查必需属性集
func (e *PropertyExecutor) checkRequiredPset(loaded models.LoadedRule, rule models.RequiredPropertySetRule, el ifcmodel.Element, psets ifcmodel.PropertySets) []models.ValidationIssue {
	name, _ := el.NameValue()
	issue := func(message, propertyName string, details models.JSONB) models.ValidationIssue {
		return models.ValidationIssue{
			RuleCode:     loaded.Code,
			RuleName:     loaded.Name,
			Kind:         loaded.Kind,
			Severity:     loaded.Severity,
			ElementID:    el.ID,
			ElementType:  el.TypeTag,
			ElementName:  name,
			PsetName:     rule.PsetName,
			PropertyName: propertyName,
			Message:      message,
			Details:      details,
		}
	}

	pset, hasPset := psets[rule.PsetName]
	if !hasPset {
		// 属性集整体缺失: 恰好一条属性集级问题，跳过逐属性检查避免重复报告
		return []models.ValidationIssue{issue(
			fmt.Sprintf("元素缺少必需属性集 %s", rule.PsetName), "",
			models.JSONB{"missing_pset": true})}
	}

	var issues []models.ValidationIssue
	for _, constraint := range rule.RequiredProperties {
		value, hasProp := pset[constraint.Name]
		if !hasProp {
			if constraint.Required {
				issues = append(issues, issue(
					fmt.Sprintf("属性集 %s 缺少必需属性 %s", rule.PsetName, constraint.Name),
					constraint.Name, nil))
			}
			continue
		}
		if ok, reason := validateConstraint(value, constraint); !ok {
			issues = append(issues, issue(
				fmt.Sprintf("属性 %s.%s %s", rule.PsetName, constraint.Name, reason),
				constraint.Name, models.JSONB{"value": value}))
		}
	}
	return issues
}

// validateConstraint 属性值约束校验（共享语义）
// 空值对范围/模式/枚举检查始终视为有效（缺失由存在性检查负责报告）；
// 模式只作用于字符串值；范围检查对无法数值化的值静默跳过；枚举做精确成员判断，不跨类型转换
func validateConstraint(value interface{}, c models.PropertyConstraint) (bool, string) {
	if value == nil {
		return true, ""
	}

	if c.Pattern != "" {
		if str, isStr := value.(string); isStr {
			re, err := regexp.Compile(c.Pattern)
			if err == nil && !re.MatchString(str) {
				return false, fmt.Sprintf("值 %q 不匹配模式 %s", str, c.Pattern)
			}
		}
	}

	if c.MinValue != nil || c.MaxValue != nil {
		if num, err := cast.ToFloat64E(value); err == nil {
			if c.MinValue != nil && num < *c.MinValue {
				return false, fmt.Sprintf("值 %v 小于最小值 %v", num, *c.MinValue)
			}
			if c.MaxValue != nil && num > *c.MaxValue {
				return false, fmt.Sprintf("值 %v 大于最大值 %v", num, *c.MaxValue)
			}
		}
	}

	if len(c.AllowedValues) > 0 {
		for _, allowed := range c.AllowedValues {
			// DeepEqual对动态类型不可比较的值也安全
			if reflect.DeepEqual(value, allowed) {
				return true, ""
			}
		}
		return false, fmt.Sprintf("值 %v 不在允许的值列表中", value)
	}

	return true, ""
}
