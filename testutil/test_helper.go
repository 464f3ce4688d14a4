/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"bimhub-service/service/models"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.Project{},
		&models.BIMModel{},
		&models.BEPRuleSet{},
		&models.ValidationRule{},
		&models.RequiredPropertySet{},
		&models.NamingConvention{},
		&models.TechnicalRequirement{},
		&models.ValidationRun{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// ProjectOption 项目选项函数类型
type ProjectOption func(*models.Project)

// CreateProject 创建测试项目
func (f *TestDataFactory) CreateProject(opts ...ProjectOption) *models.Project {
	project := &models.Project{
		Name:        "测试项目",
		Code:        "PRJ_" + generateSuffix(),
		Description: "这是一个测试项目",
		CreatedBy:   "test",
		UpdatedBy:   "test",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(project)
	}

	if err := f.DB.Create(project).Error; err != nil {
		panic(fmt.Sprintf("failed to create test project: %v", err))
	}

	return project
}

// BIMModelOption BIM模型选项函数类型
type BIMModelOption func(*models.BIMModel)

// CreateBIMModel 创建测试BIM模型
func (f *TestDataFactory) CreateBIMModel(projectID string, opts ...BIMModelOption) *models.BIMModel {
	model := &models.BIMModel{
		ProjectID:     projectID,
		Name:          "测试模型",
		FileName:      "PRJ_ARK_model_001.ifc",
		SchemaVersion: "IFC4",
		Discipline:    "ARK",
		CreatedBy:     "test",
		UpdatedBy:     "test",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(model)
	}

	if err := f.DB.Create(model).Error; err != nil {
		panic(fmt.Sprintf("failed to create test bim model: %v", err))
	}

	return model
}

// RuleSetOption 规则集选项函数类型
type RuleSetOption func(*models.BEPRuleSet)

// CreateRuleSet 创建测试规则集
func (f *TestDataFactory) CreateRuleSet(projectID string, opts ...RuleSetOption) *models.BEPRuleSet {
	ruleSet := &models.BEPRuleSet{
		ProjectID:   projectID,
		Name:        "测试规则集",
		Version:     "1.0",
		Description: "这是一个测试规则集",
		IsActive:    true,
		CreatedBy:   "test",
		UpdatedBy:   "test",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(ruleSet)
	}

	if err := f.DB.Create(ruleSet).Error; err != nil {
		panic(fmt.Sprintf("failed to create test ruleset: %v", err))
	}

	return ruleSet
}

// ValidationRuleOption 校验规则选项函数类型
type ValidationRuleOption func(*models.ValidationRule)

// CreateValidationRule 创建测试校验规则
func (f *TestDataFactory) CreateValidationRule(ruleSetID string, opts ...ValidationRuleOption) *models.ValidationRule {
	rule := &models.ValidationRule{
		RuleSetID: ruleSetID,
		Code:      "RULE_" + generateSuffix(),
		Name:      "测试校验规则",
		Kind:      string(models.RuleKindIdentity),
		Severity:  string(models.SeverityError),
		Definition: models.JSONB{
			"check": "uniqueness",
		},
		IsActive:  true,
		CreatedBy: "test",
		UpdatedBy: "test",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(rule)
	}

	if err := f.DB.Create(rule).Error; err != nil {
		panic(fmt.Sprintf("failed to create test validation rule: %v", err))
	}

	return rule
}

// RequiredPsetOption 必需属性集规则选项函数类型
type RequiredPsetOption func(*models.RequiredPropertySet)

// CreateRequiredPset 创建测试必需属性集规则
func (f *TestDataFactory) CreateRequiredPset(ruleSetID string, opts ...RequiredPsetOption) *models.RequiredPropertySet {
	pset := &models.RequiredPropertySet{
		RuleSetID:   ruleSetID,
		ElementType: "IfcWall",
		PsetName:    "Pset_WallCommon",
		RequiredProperties: models.JSONBArray{
			map[string]interface{}{"name": "FireRating", "required": true},
		},
		Severity:  string(models.SeverityError),
		CreatedBy: "test",
		UpdatedBy: "test",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(pset)
	}

	if err := f.DB.Create(pset).Error; err != nil {
		panic(fmt.Sprintf("failed to create test required pset: %v", err))
	}

	return pset
}

// NamingConventionOption 命名规范选项函数类型
type NamingConventionOption func(*models.NamingConvention)

// CreateNamingConvention 创建测试命名规范
func (f *TestDataFactory) CreateNamingConvention(ruleSetID string, opts ...NamingConventionOption) *models.NamingConvention {
	conv := &models.NamingConvention{
		RuleSetID:   ruleSetID,
		Category:    "element_naming",
		Name:        "测试命名规范",
		Pattern:     "{project}_{discipline}_{type}_{number}",
		PatternKind: string(models.PatternKindTemplate),
		IsRequired:  true,
		CreatedBy:   "test",
		UpdatedBy:   "test",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(conv)
	}

	if err := f.DB.Create(conv).Error; err != nil {
		panic(fmt.Sprintf("failed to create test naming convention: %v", err))
	}

	return conv
}

// 辅助函数
func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// StrPtr 字符串指针辅助
func StrPtr(s string) *string {
	return &s
}

// IntPtr 整数指针辅助
func IntPtr(i int) *int {
	return &i
}
