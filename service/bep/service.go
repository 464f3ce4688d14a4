/*
 * @module service/bep/service
 * @description BEP规则库管理服务，提供项目、模型、规则集及四类规则定义的管理业务逻辑
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow BEP规则集管理流程（创建 -> 编辑规则 -> 激活 -> 校验使用）
 * @rules 同一项目同一时间只允许一个激活的规则集，激活操作在事务内完成
 * @dependencies bimhub-service/service/models, gorm.io/gorm
 * @refs service/validation/loader.go
 */

package bep

import (
	"errors"
	"fmt"

	"bimhub-service/service/models"

	"gorm.io/gorm"
)

// Service BEP规则库管理服务
type Service struct {
	db *gorm.DB
}

// NewService 创建BEP规则库管理服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// === 规则集管理 ===

// CreateRuleSet 创建BEP规则集
func (s *Service) CreateRuleSet(ruleSet *models.BEPRuleSet) error {
	var project models.Project
	if err := s.db.First(&project, "id = ?", ruleSet.ProjectID).Error; err != nil {
		return fmt.Errorf("项目 %s 不存在", ruleSet.ProjectID)
	}
	return s.db.Create(ruleSet).Error
}

// GetRuleSet 获取规则集详情
func (s *Service) GetRuleSet(id string) (*models.BEPRuleSet, error) {
	var ruleSet models.BEPRuleSet
	if err := s.db.First(&ruleSet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ruleSet, nil
}

// ListRuleSets 按项目列出规则集
func (s *Service) ListRuleSets(projectID string) ([]models.BEPRuleSet, error) {
	var ruleSets []models.BEPRuleSet
	query := s.db.Order("created_at DESC")
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Find(&ruleSets).Error; err != nil {
		return nil, err
	}
	return ruleSets, nil
}

// UpdateRuleSet 更新规则集基本信息
func (s *Service) UpdateRuleSet(id string, updates map[string]interface{}) error {
	// 激活状态只能通过ActivateRuleSet修改
	delete(updates, "is_active")
	result := s.db.Model(&models.BEPRuleSet{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("规则集不存在")
	}
	return nil
}

// DeleteRuleSet 删除规则集及其全部规则定义
func (s *Service) DeleteRuleSet(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ruleSet models.BEPRuleSet
		if err := tx.First(&ruleSet, "id = ?", id).Error; err != nil {
			return fmt.Errorf("规则集 %s 不存在", id)
		}
		if ruleSet.IsActive {
			return errors.New("激活中的规则集不允许删除，请先激活其他规则集")
		}
		for _, model := range []interface{}{
			&models.ValidationRule{},
			&models.RequiredPropertySet{},
			&models.NamingConvention{},
			&models.TechnicalRequirement{},
		} {
			if err := tx.Where("ruleset_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&ruleSet).Error
	})
}

// ActivateRuleSet 激活规则集，同项目其他规则集在同一事务内取消激活
func (s *Service) ActivateRuleSet(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ruleSet models.BEPRuleSet
		if err := tx.First(&ruleSet, "id = ?", id).Error; err != nil {
			return fmt.Errorf("规则集 %s 不存在", id)
		}
		if err := tx.Model(&models.BEPRuleSet{}).
			Where("project_id = ? AND id <> ?", ruleSet.ProjectID, id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&ruleSet).Update("is_active", true).Error
	})
}

// === 校验规则管理 ===

// CreateRule 创建校验规则
func (s *Service) CreateRule(rule *models.ValidationRule) error {
	if !models.RuleKind(rule.Kind).IsValid() {
		return fmt.Errorf("未知的规则类型: %s", rule.Kind)
	}
	if _, ok := models.ParseSeverity(rule.Severity); !ok {
		return fmt.Errorf("未知的严重级别: %s", rule.Severity)
	}
	var existing models.ValidationRule
	if err := s.db.Where("ruleset_id = ? AND code = ?", rule.RuleSetID, rule.Code).First(&existing).Error; err == nil {
		return fmt.Errorf("规则编码 %s 在规则集内已存在", rule.Code)
	}
	return s.db.Create(rule).Error
}

// ListRules 列出规则集下的校验规则
func (s *Service) ListRules(ruleSetID string) ([]models.ValidationRule, error) {
	var rules []models.ValidationRule
	if err := s.db.Where("ruleset_id = ?", ruleSetID).Order("code").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// UpdateRule 更新校验规则
func (s *Service) UpdateRule(id string, updates map[string]interface{}) error {
	if kind, exists := updates["kind"]; exists {
		if !models.RuleKind(fmt.Sprintf("%v", kind)).IsValid() {
			return fmt.Errorf("未知的规则类型: %v", kind)
		}
	}
	if severity, exists := updates["severity"]; exists {
		if _, ok := models.ParseSeverity(fmt.Sprintf("%v", severity)); !ok {
			return fmt.Errorf("未知的严重级别: %v", severity)
		}
	}
	result := s.db.Model(&models.ValidationRule{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("校验规则不存在")
	}
	return nil
}

// DeleteRule 删除校验规则
func (s *Service) DeleteRule(id string) error {
	result := s.db.Delete(&models.ValidationRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("校验规则不存在")
	}
	return nil
}

// === 必需属性集规则管理 ===

// CreateRequiredPset 创建必需属性集规则
func (s *Service) CreateRequiredPset(pset *models.RequiredPropertySet) error {
	if pset.ElementType == "" || pset.PsetName == "" {
		return errors.New("element_type和pset_name不能为空")
	}
	if _, ok := models.ParseSeverity(pset.Severity); !ok {
		return fmt.Errorf("未知的严重级别: %s", pset.Severity)
	}
	return s.db.Create(pset).Error
}

// ListRequiredPsets 列出规则集下的必需属性集规则
func (s *Service) ListRequiredPsets(ruleSetID string) ([]models.RequiredPropertySet, error) {
	var psets []models.RequiredPropertySet
	if err := s.db.Where("ruleset_id = ?", ruleSetID).Order("element_type").Find(&psets).Error; err != nil {
		return nil, err
	}
	return psets, nil
}

// DeleteRequiredPset 删除必需属性集规则
func (s *Service) DeleteRequiredPset(id string) error {
	result := s.db.Delete(&models.RequiredPropertySet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("必需属性集规则不存在")
	}
	return nil
}

// === 命名规范管理 ===

// CreateNamingConvention 创建命名规范
func (s *Service) CreateNamingConvention(conv *models.NamingConvention) error {
	if conv.Pattern == "" {
		return errors.New("pattern不能为空")
	}
	return s.db.Create(conv).Error
}

// ListNamingConventions 列出规则集下的命名规范
func (s *Service) ListNamingConventions(ruleSetID string) ([]models.NamingConvention, error) {
	var conventions []models.NamingConvention
	if err := s.db.Where("ruleset_id = ?", ruleSetID).Order("category, name").Find(&conventions).Error; err != nil {
		return nil, err
	}
	return conventions, nil
}

// DeleteNamingConvention 删除命名规范
func (s *Service) DeleteNamingConvention(id string) error {
	result := s.db.Delete(&models.NamingConvention{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("命名规范不存在")
	}
	return nil
}

// === 项目与模型管理 ===

// CreateProject 创建项目
func (s *Service) CreateProject(project *models.Project) error {
	var existing models.Project
	if err := s.db.Where("code = ?", project.Code).First(&existing).Error; err == nil {
		return errors.New("项目编码已存在")
	}
	return s.db.Create(project).Error
}

// CreateModel 登记BIM模型元数据
func (s *Service) CreateModel(model *models.BIMModel) error {
	var project models.Project
	if err := s.db.First(&project, "id = ?", model.ProjectID).Error; err != nil {
		return fmt.Errorf("项目 %s 不存在", model.ProjectID)
	}
	return s.db.Create(model).Error
}

// ListModels 按项目列出BIM模型
func (s *Service) ListModels(projectID string) ([]models.BIMModel, error) {
	var bimModels []models.BIMModel
	query := s.db.Order("created_at DESC")
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if err := query.Find(&bimModels).Error; err != nil {
		return nil, err
	}
	return bimModels, nil
}
