/*
 * @module service/validation/loader
 * @description 规则库加载器，从BEP规则库加载四类规则并转换为类型化校验模型，无激活规则集时提供内置默认规则集
 * @architecture 分层架构 - 数据访问层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 规则集解析 -> 四类规则加载 -> 记录级类型转换 -> 规则集构建
 * @rules 单条记录转换失败只记录告警并跳过，不影响整体加载；规则库不可达时返回可区分的错误
 * @dependencies gorm.io/gorm, bimhub-service/service/models, github.com/spf13/cast
 * @refs service/models/bep.go, orchestrator.go
 */

package validation

import (
	"errors"
	"fmt"
	"log/slog"

	"bimhub-service/service/models"

	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// DefaultRuleSetID 内置默认规则集标识
const DefaultRuleSetID = "builtin-default"

// RuleLoader 规则库加载器
type RuleLoader struct {
	db *gorm.DB
}

// NewRuleLoader 创建规则库加载器
func NewRuleLoader(db *gorm.DB) *RuleLoader {
	return &RuleLoader{db: db}
}

// Load 加载指定模型的规则集
// 给定explicitRuleSetID时直接加载该规则集，否则使用模型所属项目当前激活的规则集；
// 项目无激活规则集时返回内置默认规则集，保证引擎始终能产出有意义的结果
func (l *RuleLoader) Load(modelID, explicitRuleSetID string) (*models.RuleSet, error) {
	var target models.BEPRuleSet

	if explicitRuleSetID != "" {
		if err := l.db.First(&target, "id = ?", explicitRuleSetID).Error; err != nil {
			return nil, fmt.Errorf("加载规则集 %s 失败: %w", explicitRuleSetID, err)
		}
	} else {
		var model models.BIMModel
		if err := l.db.First(&model, "id = ?", modelID).Error; err != nil {
			return nil, fmt.Errorf("查询模型 %s 失败: %w", modelID, err)
		}
		err := l.db.First(&target, "project_id = ? AND is_active = ?", model.ProjectID, true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Info("项目无激活规则集，使用内置默认规则集",
				"project_id", model.ProjectID, "model_id", modelID)
			return DefaultRuleSet(model.ProjectID), nil
		}
		if err != nil {
			return nil, fmt.Errorf("查询项目 %s 激活规则集失败: %w", model.ProjectID, err)
		}
	}

	ruleSet := &models.RuleSet{
		SourceID:   target.ID,
		SourceName: target.Name,
		ProjectID:  target.ProjectID,
	}

	if err := l.loadRules(ruleSet); err != nil {
		return nil, err
	}
	if err := l.loadRequiredPsets(ruleSet); err != nil {
		return nil, err
	}
	if err := l.loadNamingConventions(ruleSet); err != nil {
		return nil, err
	}
	if err := l.loadTechnical(ruleSet); err != nil {
		return nil, err
	}

	return ruleSet, nil
}

// loadRules 加载校验规则集合
func (l *RuleLoader) loadRules(ruleSet *models.RuleSet) error {
	var rows []models.ValidationRule
	if err := l.db.Where("ruleset_id = ?", ruleSet.SourceID).Order("code").Find(&rows).Error; err != nil {
		return fmt.Errorf("加载校验规则失败: %w", err)
	}

	seenCodes := make(map[string]bool)
	for _, row := range rows {
		rule, err := convertRule(row)
		if err != nil {
			slog.Warn("校验规则记录转换失败，已跳过", "rule_id", row.ID, "code", row.Code, "error", err)
			continue
		}
		if seenCodes[rule.Code] {
			slog.Warn("规则编码在规则集内重复，已跳过", "code", rule.Code, "rule_id", row.ID)
			continue
		}
		seenCodes[rule.Code] = true
		ruleSet.Rules = append(ruleSet.Rules, rule)
	}
	return nil
}

// loadRequiredPsets 加载必需属性集规则集合
func (l *RuleLoader) loadRequiredPsets(ruleSet *models.RuleSet) error {
	var rows []models.RequiredPropertySet
	if err := l.db.Where("ruleset_id = ?", ruleSet.SourceID).Order("element_type").Find(&rows).Error; err != nil {
		return fmt.Errorf("加载必需属性集规则失败: %w", err)
	}

	for _, row := range rows {
		rule, err := convertRequiredPset(row)
		if err != nil {
			slog.Warn("必需属性集记录转换失败，已跳过", "id", row.ID, "pset", row.PsetName, "error", err)
			continue
		}
		ruleSet.RequiredPsets = append(ruleSet.RequiredPsets, rule)
	}
	return nil
}

// loadNamingConventions 加载命名规范集合
func (l *RuleLoader) loadNamingConventions(ruleSet *models.RuleSet) error {
	var rows []models.NamingConvention
	if err := l.db.Where("ruleset_id = ?", ruleSet.SourceID).Order("category, name").Find(&rows).Error; err != nil {
		return fmt.Errorf("加载命名规范失败: %w", err)
	}

	for _, row := range rows {
		rule, err := convertNamingConvention(row)
		if err != nil {
			slog.Warn("命名规范记录转换失败，已跳过", "id", row.ID, "name", row.Name, "error", err)
			continue
		}
		ruleSet.NamingConventions = append(ruleSet.NamingConventions, rule)
	}
	return nil
}

// loadTechnical 加载技术要求
func (l *RuleLoader) loadTechnical(ruleSet *models.RuleSet) error {
	var rows []models.TechnicalRequirement
	if err := l.db.Where("ruleset_id = ?", ruleSet.SourceID).Limit(1).Find(&rows).Error; err != nil {
		return fmt.Errorf("加载技术要求失败: %w", err)
	}
	if len(rows) > 0 {
		spec := &models.TechnicalRequirementSpec{SchemaHint: rows[0].SchemaHint}
		if rows[0].MaxFileSizeMB != nil {
			spec.MaxSizeMB = *rows[0].MaxFileSizeMB
		}
		ruleSet.Technical = spec
	}
	return nil
}

// convertRule 将校验规则记录转换为类型化规则，同时解码规则类型专属参数
func convertRule(row models.ValidationRule) (models.LoadedRule, error) {
	kind := models.RuleKind(row.Kind)
	if !kind.IsValid() {
		return models.LoadedRule{}, fmt.Errorf("未知的规则类型: %s", row.Kind)
	}
	severity, ok := models.ParseSeverity(row.Severity)
	if !ok {
		return models.LoadedRule{}, fmt.Errorf("未知的严重级别: %s", row.Severity)
	}

	rule := models.LoadedRule{
		ID:                   row.ID,
		Code:                 row.Code,
		Name:                 row.Name,
		Description:          row.Description,
		Kind:                 kind,
		Severity:             severity,
		Definition:           row.Definition,
		AppliesToTypes:       row.AppliesToTypes,
		AppliesToDisciplines: row.AppliesToDisciplines,
		MinMaturityLevel:     row.MinMaturityLevel,
		MessageTemplate:      row.MessageTemplate,
		Active:               row.IsActive,
	}

	if err := decodeDefinition(&rule); err != nil {
		return models.LoadedRule{}, err
	}
	return rule, nil
}

// decodeDefinition 按规则类型把持久化的Definition解码为类型化检查参数
// 持久化表示保持通用map，执行器只消费类型化数据
func decodeDefinition(rule *models.LoadedRule) error {
	def := rule.Definition
	checkName := cast.ToString(def["check"])

	switch rule.Kind {
	case models.RuleKindIdentity:
		switch models.IdentityCheckKind(checkName) {
		case models.IdentityCheckUniqueness, models.IdentityCheckFormat, models.IdentityCheckAll:
			rule.Identity = &models.IdentityCheck{Kind: models.IdentityCheckKind(checkName)}
		case "":
			rule.Identity = &models.IdentityCheck{Kind: models.IdentityCheckAll}
		default:
			return fmt.Errorf("未知的标识检查类型: %s", checkName)
		}

	case models.RuleKindProperty:
		check := &models.PropertyCheck{
			PsetName:     cast.ToString(def["pset_name"]),
			PropertyName: cast.ToString(def["property_name"]),
		}
		switch models.PropertyCheckKind(checkName) {
		case models.PropertyCheckHasPset, models.PropertyCheckHasProp, models.PropertyCheckValue:
			check.Kind = models.PropertyCheckKind(checkName)
		default:
			return fmt.Errorf("未知的属性检查类型: %s", checkName)
		}
		if check.PsetName == "" {
			return fmt.Errorf("属性规则缺少pset_name")
		}
		if check.Kind != models.PropertyCheckHasPset && check.PropertyName == "" {
			return fmt.Errorf("属性检查 %s 缺少property_name", check.Kind)
		}
		if validation, ok := def["validation"].(map[string]interface{}); ok {
			check.Validation = constraintFromMap(validation)
			check.Validation.Name = check.PropertyName
		}
		rule.Property = check

	case models.RuleKindNaming:
		check := &models.NamingCheck{
			Pattern:    cast.ToString(def["pattern"]),
			AllowEmpty: cast.ToBool(def["allow_empty"]),
		}
		switch models.NamingCheckKind(checkName) {
		case models.NamingCheckElementNaming, models.NamingCheckHasName:
			check.Kind = models.NamingCheckKind(checkName)
		default:
			return fmt.Errorf("未知的命名检查类型: %s", checkName)
		}
		check.PatternKind = parsePatternKind(cast.ToString(def["pattern_type"]))
		if check.Kind == models.NamingCheckElementNaming && check.Pattern == "" {
			return fmt.Errorf("命名检查element_naming缺少pattern")
		}
		rule.Naming = check
	}
	return nil
}

// parsePatternKind 解析模式类型，默认regex
func parsePatternKind(s string) models.PatternKind {
	if models.PatternKind(s) == models.PatternKindTemplate {
		return models.PatternKindTemplate
	}
	return models.PatternKindRegex
}

// constraintFromMap 从通用map构造属性约束，required缺省为true
func constraintFromMap(m map[string]interface{}) models.PropertyConstraint {
	c := models.PropertyConstraint{
		Name:     cast.ToString(m["name"]),
		TypeHint: cast.ToString(m["type_hint"]),
		Pattern:  cast.ToString(m["pattern"]),
		Required: true,
	}
	if v, exists := m["required"]; exists {
		c.Required = cast.ToBool(v)
	}
	if v, exists := m["min_value"]; exists && v != nil {
		if num, err := cast.ToFloat64E(v); err == nil {
			c.MinValue = &num
		}
	}
	if v, exists := m["max_value"]; exists && v != nil {
		if num, err := cast.ToFloat64E(v); err == nil {
			c.MaxValue = &num
		}
	}
	if values, ok := m["allowed_values"].([]interface{}); ok {
		c.AllowedValues = values
	}
	return c
}

// convertRequiredPset 将必需属性集记录转换为类型化规则
func convertRequiredPset(row models.RequiredPropertySet) (models.RequiredPropertySetRule, error) {
	severity, ok := models.ParseSeverity(row.Severity)
	if !ok {
		return models.RequiredPropertySetRule{}, fmt.Errorf("未知的严重级别: %s", row.Severity)
	}
	if row.ElementType == "" || row.PsetName == "" {
		return models.RequiredPropertySetRule{}, fmt.Errorf("必需属性集规则缺少element_type或pset_name")
	}

	rule := models.RequiredPropertySetRule{
		ElementType:          row.ElementType,
		MinMaturityLevel:     row.MinMaturityLevel,
		PsetName:             row.PsetName,
		OptionalProperties:   row.OptionalProperties,
		AppliesToDisciplines: row.AppliesToDisciplines,
		Severity:             severity,
	}
	for _, prop := range row.RequiredProperties {
		constraint := constraintFromMap(prop)
		if constraint.Name == "" {
			return models.RequiredPropertySetRule{}, fmt.Errorf("必需属性缺少name")
		}
		rule.RequiredProperties = append(rule.RequiredProperties, constraint)
	}
	return rule, nil
}

// convertNamingConvention 将命名规范记录转换为类型化规则
func convertNamingConvention(row models.NamingConvention) (models.NamingConventionRule, error) {
	if row.Pattern == "" {
		return models.NamingConventionRule{}, fmt.Errorf("命名规范缺少pattern")
	}
	return models.NamingConventionRule{
		Category:             row.Category,
		Name:                 row.Name,
		Description:          row.Description,
		Pattern:              row.Pattern,
		PatternKind:          parsePatternKind(row.PatternKind),
		Examples:             row.Examples,
		AppliesToDisciplines: row.AppliesToDisciplines,
		Required:             row.IsRequired,
		ErrorMessage:         row.ErrorMessage,
	}, nil
}

// DefaultRuleSet 内置默认规则集: GlobalId唯一性与格式两条标识规则
// 项目未配置BEP规则集时引擎仍能产出有意义的结果
func DefaultRuleSet(projectID string) *models.RuleSet {
	return &models.RuleSet{
		SourceID:   DefaultRuleSetID,
		SourceName: "内置默认规则集",
		ProjectID:  projectID,
		Rules: []models.LoadedRule{
			{
				Code:            "GUID_UNIQUE",
				Name:            "GlobalId唯一性",
				Description:     "模型内所有元素的GlobalId必须唯一",
				Kind:            models.RuleKindIdentity,
				Severity:        models.SeverityError,
				MessageTemplate: "GlobalId {guid} 被 {count} 个元素重复使用",
				Active:          true,
				Identity:        &models.IdentityCheck{Kind: models.IdentityCheckUniqueness},
			},
			{
				Code:        "GUID_FORMAT",
				Name:        "GlobalId格式",
				Description: "元素GlobalId必须为22位标识字符",
				Kind:        models.RuleKindIdentity,
				Severity:    models.SeverityError,
				Active:      true,
				Identity:    &models.IdentityCheck{Kind: models.IdentityCheckFormat},
			},
		},
	}
}
