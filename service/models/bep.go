/*
 * @module service/models/bep
 * @description BEP规则库持久化模型定义，包括项目、BIM模型、规则集及四类规则记录
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow BEP规则集生命周期管理（创建 -> 激活 -> 校验使用）
 * @rules 同一项目同一时间只允许一个激活的规则集
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/validation/loader.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project 项目模型
type Project struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"not null;uniqueIndex" json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy   string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "system"
	}
	if p.UpdatedBy == "" {
		p.UpdatedBy = "system"
	}
	return nil
}

// BIMModel BIM模型元数据
type BIMModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID     string    `gorm:"not null;index" json:"project_id"`
	Project       *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name          string    `gorm:"not null" json:"name"`
	FileName      string    `json:"file_name"`
	SchemaVersion string    `json:"schema_version"` // IFC2X3/IFC4等
	Discipline    string    `json:"discipline"`     // ARK/RIB/RIV/RIE等
	MaturityLevel *int      `json:"maturity_level"` // MMI等级
	FileSizeMB    *float64  `json:"file_size_mb"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy     string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy     string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (m *BIMModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedBy == "" {
		m.CreatedBy = "system"
	}
	if m.UpdatedBy == "" {
		m.UpdatedBy = "system"
	}
	return nil
}

// BEPRuleSet BEP规则集模型，校验规则按版本归属于规则集
type BEPRuleSet struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID   string    `gorm:"not null;index" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	Version     string    `gorm:"not null;default:'1.0'" json:"version"`
	Description string    `json:"description"`
	IsActive    bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy   string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (r *BEPRuleSet) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedBy == "" {
		r.CreatedBy = "system"
	}
	if r.UpdatedBy == "" {
		r.UpdatedBy = "system"
	}
	return nil
}

// ValidationRule 校验规则记录，Definition为规则类型专属参数
type ValidationRule struct {
	ID                   string           `gorm:"type:uuid;primary_key" json:"id"`
	RuleSetID            string           `gorm:"column:ruleset_id;not null;index" json:"ruleset_id"`
	RuleSet              *BEPRuleSet      `gorm:"foreignKey:RuleSetID" json:"ruleset,omitempty"`
	Code                 string           `gorm:"not null" json:"code"`
	Name                 string           `gorm:"not null" json:"name"`
	Description          string           `json:"description"`
	Kind                 string           `gorm:"not null" json:"kind"`     // identity/property/naming
	Severity             string           `gorm:"not null" json:"severity"` // info/warning/error
	Definition           JSONB            `gorm:"type:jsonb" json:"definition"`
	AppliesToTypes       JSONBStringArray `gorm:"type:jsonb" json:"applies_to_types"`
	AppliesToDisciplines JSONBStringArray `gorm:"type:jsonb" json:"applies_to_disciplines"`
	MinMaturityLevel     *int             `json:"min_maturity_level"`
	MessageTemplate      string           `json:"message_template"`
	IsActive             bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy            string           `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy            string           `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (v *ValidationRule) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedBy == "" {
		v.CreatedBy = "system"
	}
	if v.UpdatedBy == "" {
		v.UpdatedBy = "system"
	}
	return nil
}

// RequiredPropertySet 必需属性集规则记录
type RequiredPropertySet struct {
	ID                   string           `gorm:"type:uuid;primary_key" json:"id"`
	RuleSetID            string           `gorm:"column:ruleset_id;not null;index" json:"ruleset_id"`
	ElementType          string           `gorm:"not null" json:"element_type"` // IfcWall/IfcDoor等
	MinMaturityLevel     *int             `json:"min_maturity_level"`
	PsetName             string           `gorm:"not null" json:"pset_name"`
	RequiredProperties   JSONBArray       `gorm:"type:jsonb" json:"required_properties"`
	OptionalProperties   JSONBStringArray `gorm:"type:jsonb" json:"optional_properties"`
	AppliesToDisciplines JSONBStringArray `gorm:"type:jsonb" json:"applies_to_disciplines"`
	Severity             string           `gorm:"not null;default:'error'" json:"severity"`
	CreatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy            string           `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy            string           `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (r *RequiredPropertySet) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedBy == "" {
		r.CreatedBy = "system"
	}
	if r.UpdatedBy == "" {
		r.UpdatedBy = "system"
	}
	return nil
}

// NamingConvention 命名规范记录
type NamingConvention struct {
	ID                   string           `gorm:"type:uuid;primary_key" json:"id"`
	RuleSetID            string           `gorm:"column:ruleset_id;not null;index" json:"ruleset_id"`
	Category             string           `gorm:"not null" json:"category"` // element_naming/file_naming等
	Name                 string           `gorm:"not null" json:"name"`
	Description          string           `json:"description"`
	Pattern              string           `gorm:"not null" json:"pattern"`
	PatternKind          string           `gorm:"not null;default:'regex'" json:"pattern_kind"` // regex/template
	Examples             JSONBStringArray `gorm:"type:jsonb" json:"examples"`
	AppliesToDisciplines JSONBStringArray `gorm:"type:jsonb" json:"applies_to_disciplines"`
	IsRequired           bool             `gorm:"not null;default:true" json:"is_required"`
	ErrorMessage         string           `json:"error_message"`
	CreatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy            string           `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt            time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy            string           `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (n *NamingConvention) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedBy == "" {
		n.CreatedBy = "system"
	}
	if n.UpdatedBy == "" {
		n.UpdatedBy = "system"
	}
	return nil
}

// TechnicalRequirement 技术要求记录
type TechnicalRequirement struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	RuleSetID     string    `gorm:"column:ruleset_id;not null;index" json:"ruleset_id"`
	SchemaHint    string    `json:"schema_hint"` // 期望的IFC版本
	MaxFileSizeMB *float64  `json:"max_file_size_mb"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy     string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy     string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (t *TechnicalRequirement) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedBy == "" {
		t.CreatedBy = "system"
	}
	if t.UpdatedBy == "" {
		t.UpdatedBy = "system"
	}
	return nil
}

// ValidationRun 校验运行记录，由调用方决定是否落库，引擎本身不持久化结果
type ValidationRun struct {
	ID         string     `gorm:"type:uuid;primary_key" json:"id"`
	ModelID    string     `gorm:"not null;index" json:"model_id"`
	RuleSetID  string     `json:"ruleset_id"`
	Status     string     `gorm:"not null;default:'running'" json:"status"` // running/pass/warning/error
	Summary    string     `json:"summary"`
	StartedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	CreatedBy  string     `gorm:"not null;default:'system';size:100" json:"created_by"`
}

// BeforeCreate 创建前钩子
func (r *ValidationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedBy == "" {
		r.CreatedBy = "system"
	}
	return nil
}
