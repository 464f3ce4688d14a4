/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建BEP规则库表结构并初始化内置示例数据
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致；内置示例规则集不激活，仅作参考
 * @dependencies bimhub-service/service/models, gorm.io/gorm
 * @refs service/models/bep.go
 */

package database

import (
	"log"

	"bimhub-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 项目与模型元数据表
	err := db.AutoMigrate(
		&models.Project{},
		&models.BIMModel{},
	)
	if err != nil {
		return err
	}

	// BEP规则库表
	err = db.AutoMigrate(
		&models.BEPRuleSet{},
		&models.ValidationRule{},
		&models.RequiredPropertySet{},
		&models.NamingConvention{},
		&models.TechnicalRequirement{},
	)
	if err != nil {
		return err
	}

	// 校验运行记录表
	return db.AutoMigrate(&models.ValidationRun{})
}

// InitializeData 初始化内置参考数据
// 写入一份未激活的标准规则集模板，供新项目复制使用；
// 引擎自身在项目无激活规则集时使用内置默认规则，不依赖此数据
func InitializeData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.BEPRuleSet{}).Where("name = ?", "标准规则集模板").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var project models.Project
	err := db.FirstOrCreate(&project, models.Project{Name: "模板项目", Code: "TEMPLATE"}).Error
	if err != nil {
		return err
	}

	template := models.BEPRuleSet{
		ProjectID:   project.ID,
		Name:        "标准规则集模板",
		Version:     "1.0",
		Description: "内置参考规则集，复制到项目后按需调整",
		IsActive:    false,
	}
	if err := db.Create(&template).Error; err != nil {
		return err
	}

	rules := []models.ValidationRule{
		{
			RuleSetID:       template.ID,
			Code:            "GUID_UNIQUE",
			Name:            "GlobalId唯一性",
			Description:     "模型内所有元素的GlobalId必须唯一",
			Kind:            string(models.RuleKindIdentity),
			Severity:        string(models.SeverityError),
			Definition:      models.JSONB{"check": "uniqueness"},
			MessageTemplate: "GlobalId {guid} 被 {count} 个元素重复使用",
			IsActive:        true,
		},
		{
			RuleSetID:   template.ID,
			Code:        "GUID_FORMAT",
			Name:        "GlobalId格式",
			Description: "元素GlobalId必须为22位标识字符",
			Kind:        string(models.RuleKindIdentity),
			Severity:    string(models.SeverityError),
			Definition:  models.JSONB{"check": "format"},
			IsActive:    true,
		},
		{
			RuleSetID:   template.ID,
			Code:        "ELEMENT_NAMED",
			Name:        "元素名称存在性",
			Description: "产品类元素必须有非空名称",
			Kind:        string(models.RuleKindNaming),
			Severity:    string(models.SeverityWarning),
			Definition:  models.JSONB{"check": "has_name"},
			IsActive:    true,
		},
	}
	for i := range rules {
		if err := db.Create(&rules[i]).Error; err != nil {
			return err
		}
	}

	log.Println("内置参考规则集初始化完成")
	return nil
}
