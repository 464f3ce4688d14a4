/*
 * @module service/ifcmodel/snapshot
 * @description 内存模型快照，Provider接口的内置实现，用于接入层注册已解析模型和单元测试
 * @architecture 分层架构 - 模型访问层
 * @documentReference ai_docs/bep_validation_req.md
 * @stateFlow 快照构建 -> 注册到Registry -> 校验运行只读查询
 * @rules 快照构建完成后不再修改，保证并发校验安全
 * @dependencies context, sync
 * @refs service/validation/orchestrator.go
 */

package ifcmodel

import (
	"context"
	"fmt"
	"sync"
)

// 常见IFC类型到父类型的映射，用于收窄到非顶层父类型
var subtypeOf = map[string]string{
	"IfcWall":                    "IfcBuildingElement",
	"IfcWallStandardCase":        "IfcWall",
	"IfcSlab":                    "IfcBuildingElement",
	"IfcBeam":                    "IfcBuildingElement",
	"IfcColumn":                  "IfcBuildingElement",
	"IfcDoor":                    "IfcBuildingElement",
	"IfcWindow":                  "IfcBuildingElement",
	"IfcRoof":                    "IfcBuildingElement",
	"IfcStair":                   "IfcBuildingElement",
	"IfcRailing":                 "IfcBuildingElement",
	"IfcCovering":                "IfcBuildingElement",
	"IfcBuildingElement":         "IfcElement",
	"IfcFlowSegment":             "IfcDistributionElement",
	"IfcFlowTerminal":            "IfcDistributionElement",
	"IfcFlowFitting":             "IfcDistributionElement",
	"IfcDistributionElement":     "IfcElement",
	"IfcElement":                 "IfcProduct",
	"IfcSpace":                   "IfcSpatialStructureElement",
	"IfcSpatialStructureElement": "IfcProduct",
}

// isSubtype 判断类型是否属于指定父类型（含自身）
// 快照中注册的元素均为产品类元素，映射表未登记的类型一律视为IfcProduct后代，
// 避免IfcCurtainWall等未登记类型漏出全部规则检查
func isSubtype(typeTag, supertype string) bool {
	if supertype == SupertypeProduct {
		return true
	}
	for tag := typeTag; tag != ""; tag = subtypeOf[tag] {
		if tag == supertype {
			return true
		}
	}
	return false
}

// Snapshot 内存模型快照
type Snapshot struct {
	schema     string
	elements   []Element
	psets      map[string]PropertySets // 元素内部ID -> 属性集
	byGlobalID map[string]Element
}

// SnapshotBuilder 快照构建器
type SnapshotBuilder struct {
	snap *Snapshot
}

// NewSnapshotBuilder 创建快照构建器
func NewSnapshotBuilder(schema string) *SnapshotBuilder {
	return &SnapshotBuilder{snap: &Snapshot{
		schema:     schema,
		psets:      make(map[string]PropertySets),
		byGlobalID: make(map[string]Element),
	}}
}

// AddElement 添加元素及其属性集
func (b *SnapshotBuilder) AddElement(el Element, psets PropertySets) *SnapshotBuilder {
	b.snap.elements = append(b.snap.elements, el)
	if psets != nil {
		b.snap.psets[el.ID] = psets
	}
	if el.GlobalID != "" {
		// 重复GlobalId时保留首个，唯一性由标识规则负责报告
		if _, exists := b.snap.byGlobalID[el.GlobalID]; !exists {
			b.snap.byGlobalID[el.GlobalID] = el
		}
	}
	return b
}

// Build 完成构建，返回只读快照
func (b *SnapshotBuilder) Build() *Snapshot {
	return b.snap
}

// SchemaVersion 返回模型IFC版本
func (s *Snapshot) SchemaVersion() string {
	return s.schema
}

// ElementsOfSupertype 返回指定父类型下的全部元素，保持添加顺序
func (s *Snapshot) ElementsOfSupertype(tag string) []Element {
	result := make([]Element, 0, len(s.elements))
	for _, el := range s.elements {
		if isSubtype(el.TypeTag, tag) {
			result = append(result, el)
		}
	}
	return result
}

// IsSubtype 判断类型是否属于指定父类型（含自身）
func (s *Snapshot) IsSubtype(typeTag, supertype string) bool {
	return isSubtype(typeTag, supertype)
}

// ElementPropertySets 返回元素的属性集
func (s *Snapshot) ElementPropertySets(el Element) PropertySets {
	return s.psets[el.ID]
}

// ElementByGlobalID 按GlobalId查找元素
func (s *Snapshot) ElementByGlobalID(globalID string) (Element, bool) {
	el, ok := s.byGlobalID[globalID]
	return el, ok
}

// Registry 内存模型仓库，Store接口的内置实现
type Registry struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewRegistry 创建模型仓库
func NewRegistry() *Registry {
	return &Registry{snapshots: make(map[string]*Snapshot)}
}

// Register 注册模型快照
func (r *Registry) Register(modelID string, snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[modelID] = snap
}

// Remove 移除模型快照
func (r *Registry) Remove(modelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, modelID)
}

// Open 获取模型快照
func (r *Registry) Open(ctx context.Context, modelID string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snapshots[modelID]
	if !ok {
		return nil, fmt.Errorf("模型 %s 未注册", modelID)
	}
	return snap, nil
}
